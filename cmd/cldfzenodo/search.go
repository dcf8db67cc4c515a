package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/clld/cldfzenodo/internal/citation"
	"github.com/clld/cldfzenodo/internal/oai"
	"github.com/clld/cldfzenodo/internal/zenodo"
	"github.com/clld/cldfzenodo/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [QUERY]",
	Short: "Search Zenodo for dataset deposits",
	Long: `Search lists deposits matching a free-text query, a keyword
(e.g. "cldf:Wordlist"), or a community name. Community listings go through
the OAI-PMH feed with --harvest, otherwise through the REST API.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("keyword", "", "filter by keyword (e.g. cldf:Wordlist)")
	searchCmd.Flags().String("community", "", "list deposits of a community (e.g. lexibank)")
	searchCmd.Flags().Bool("harvest", false, "use the OAI-PMH feed for community listing")
	searchCmd.Flags().Int("max-results", 20, "maximum number of results to print (0 = all)")
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	searchCmd.Flags().Bool("csl", false, "output results as CSL-YAML")

	rootCmd.AddCommand(searchCmd)
}

// recordIterator is implemented by both the REST cursor and the OAI
// harvest cursor.
type recordIterator interface {
	Next() bool
	Record() *types.Record
	Err() error
}

func runSearch(cmd *cobra.Command, args []string) error {
	keyword, _ := cmd.Flags().GetString("keyword")
	community, _ := cmd.Flags().GetString("community")
	harvest, _ := cmd.Flags().GetBool("harvest")
	maxResults, _ := cmd.Flags().GetInt("max-results")

	var it recordIterator
	switch {
	case community != "" && harvest:
		oc := oai.NewClient(oaiConfig(cmd))
		it = oc.Harvest(cmd.Context(), community)
	case community != "":
		api := zenodo.NewClient(apiConfig(cmd))
		cur, err := api.Community(cmd.Context(), community)
		if err != nil {
			return err
		}
		it = cur
	case keyword != "":
		api := zenodo.NewClient(apiConfig(cmd))
		it = api.SearchKeyword(cmd.Context(), keyword)
	case len(args) > 0:
		api := zenodo.NewClient(apiConfig(cmd))
		it = api.Search(cmd.Context(), strings.Join(args, " "), false)
	default:
		return fmt.Errorf("provide a query, --keyword, or --community")
	}

	var recs []*types.Record
	for it.Next() {
		recs = append(recs, it.Record())
		if maxResults > 0 && len(recs) >= maxResults {
			break
		}
	}
	if err := it.Err(); err != nil {
		return err
	}

	if asCSL, _ := cmd.Flags().GetBool("csl"); asCSL {
		return citation.WriteCSL(recs, os.Stdout)
	}
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(recs)
	}

	if len(recs) == 0 {
		fmt.Println("No results found.")
		return nil
	}
	for _, r := range recs {
		fmt.Println(citation.Format(r))
	}
	fmt.Printf("\n%d results\n", len(recs))
	return nil
}
