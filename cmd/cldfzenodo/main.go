// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the cldfzenodo CLI, a client for
// retrieving CLDF dataset deposits from Zenodo.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/clld/cldfzenodo/internal/secrets"
	"github.com/clld/cldfzenodo/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "cldfzenodo/0.1"
)

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the cldfzenodo CLI.
var rootCmd = &cobra.Command{
	Use:   "cldfzenodo",
	Short: "Retrieve CLDF dataset deposits from Zenodo",
	Long: `cldfzenodo looks up dataset deposits on Zenodo by DOI, concept DOI,
community, or keyword, and downloads their files to a local directory. By
default only the CLDF dataset files are downloaded.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./cldfzenodo.yaml or ~/.config/cldfzenodo/config.yaml)")
	rootCmd.PersistentFlags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("cldfzenodo")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "cldfzenodo"))
		}
	}

	viper.SetEnvPrefix("CLDFZENODO")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// httpConfig assembles the shared HTTP settings from flags and config.
func httpConfig(cmd *cobra.Command) types.HTTPConfig {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = viper.GetDuration("timeout")
	}
	if timeout == 0 {
		timeout = defaultTimeout
	}
	userAgent := viper.GetString("user_agent")
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return types.HTTPConfig{Timeout: timeout, UserAgent: userAgent}
}

// apiConfig assembles the REST API client settings.
func apiConfig(cmd *cobra.Command) types.APIConfig {
	return types.APIConfig{
		HTTPConfig:  httpConfig(cmd),
		BaseURL:     viper.GetString("api_base_url"),
		PageSize:    viper.GetInt("page_size"),
		AccessToken: secrets.AccessToken(loadedSecrets),
	}
}

// oaiConfig assembles the OAI-PMH client settings.
func oaiConfig(cmd *cobra.Command) types.OAIConfig {
	return types.OAIConfig{
		HTTPConfig: httpConfig(cmd),
		BaseURL:    viper.GetString("oai_base_url"),
	}
}

// catalogConfig returns the download-catalog settings.
func catalogConfig() types.CatalogConfig {
	dir := viper.GetString("catalog_dir")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			dir = filepath.Join(home, ".cache", "cldfzenodo")
		} else {
			dir = ".cldfzenodo"
		}
	}
	return types.CatalogConfig{Dir: dir}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
