package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clld/cldfzenodo/internal/catalog"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List deposits downloaded through this CLI",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := catalog.Open(catalogConfig())
		if err != nil {
			return err
		}
		defer store.Close()

		entries, err := store.List(cmd.Context())
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("No downloads recorded.")
			return nil
		}
		for _, e := range entries {
			version := e.Version
			if version == "" {
				version = "-"
			}
			fmt.Printf("%-28s  %-10s  %-40s  %s\n", e.DOI, version, e.Title, e.Dir)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
