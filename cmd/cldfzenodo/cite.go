package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clld/cldfzenodo/internal/citation"
	"github.com/clld/cldfzenodo/internal/zenodo"
)

var citeCmd = &cobra.Command{
	Use:   "cite DOI",
	Short: "Print a citation for a deposit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		api := zenodo.NewClient(apiConfig(cmd))
		rec, err := api.GetRecord(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if bibtex, _ := cmd.Flags().GetBool("bibtex"); bibtex {
			fmt.Print(citation.BibTeX(rec))
			return nil
		}
		fmt.Println(citation.Format(rec))
		return nil
	},
}

func init() {
	citeCmd.Flags().Bool("bibtex", false, "output a BibTeX entry")
	rootCmd.AddCommand(citeCmd)
}
