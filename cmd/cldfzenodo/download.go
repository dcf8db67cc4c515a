package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/clld/cldfzenodo/internal/catalog"
	"github.com/clld/cldfzenodo/internal/download"
	"github.com/clld/cldfzenodo/internal/zenodo"
	"github.com/clld/cldfzenodo/pkg/types"
)

var downloadCmd = &cobra.Command{
	Use:   "download DOI",
	Short: "Download a CLDF dataset deposit from Zenodo",
	Long: `Download resolves a DOI (starting with 10.5281, Zenodo's DOI prefix) to a
deposit and downloads its CLDF dataset files into a directory. With
--version-tag the DOI is treated as a concept DOI and the matching version
is selected; with --full-deposit every file of the deposit is downloaded
rather than just the CLDF dataset.`,
	Args: cobra.ExactArgs(1),
	RunE: runDownload,
}

func init() {
	downloadCmd.Flags().String("directory", ".", "output directory (created if it does not exist)")
	downloadCmd.Flags().String("version-tag", "", "version tag to select when DOI is a concept DOI")
	downloadCmd.Flags().Bool("full-deposit", false, "download all files of the deposit")

	rootCmd.AddCommand(downloadCmd)
}

func runDownload(cmd *cobra.Command, args []string) error {
	dir, _ := cmd.Flags().GetString("directory")
	versionTag, _ := cmd.Flags().GetString("version-tag")
	fullDeposit, _ := cmd.Flags().GetBool("full-deposit")

	api := zenodo.NewClient(apiConfig(cmd))
	dlCfg := types.DownloadConfig{HTTPConfig: httpConfig(cmd)}

	var rec *types.Record
	var err error
	if versionTag != "" {
		rec, err = api.GetVersion(cmd.Context(), args[0], versionTag)
	} else {
		rec, err = api.GetRecord(cmd.Context(), args[0])
	}
	if err != nil {
		return err
	}

	if fullDeposit {
		err = download.Deposit(cmd.Context(), api, rec, dir, dlCfg, os.Stdout)
	} else {
		var path string
		path, err = download.Dataset(cmd.Context(), api, rec, dir, dlCfg, os.Stdout)
		if err == nil {
			fmt.Println(path)
		}
	}
	if err != nil {
		return err
	}

	// Best-effort ledger update; the download itself already succeeded.
	if store, cErr := catalog.Open(catalogConfig()); cErr == nil {
		defer store.Close()
		if aErr := store.Add(cmd.Context(), rec, dir); aErr != nil {
			fmt.Fprintf(os.Stderr, "warning: catalog update failed: %v\n", aErr)
		}
	} else {
		fmt.Fprintf(os.Stderr, "warning: could not open catalog: %v\n", cErr)
	}
	return nil
}
