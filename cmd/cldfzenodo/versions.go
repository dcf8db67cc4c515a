package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clld/cldfzenodo/internal/zenodo"
)

var versionsCmd = &cobra.Command{
	Use:   "versions CONCEPT_DOI",
	Short: "List all versions recorded for a concept DOI",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		api := zenodo.NewClient(apiConfig(cmd))
		it := api.IterVersions(cmd.Context(), args[0])

		n := 0
		for it.Next() {
			rec := it.Record()
			tag := rec.Version
			if tag == "" {
				tag = "-"
			}
			fmt.Printf("%-12s  %-28s  %s\n", tag, rec.DOI, rec.Title)
			n++
		}
		if err := it.Err(); err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("no versions found for %s", args[0])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionsCmd)
}
