// Package cmd implements the mpt CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	apiclient "github.com/donaldgifford/market-price-tracker/internal/api/client"
)

var (
	cfgFile string
	rootCmd = newRootCmd()
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "mpt",
		Short: "CLI client for Market Price Tracker",
		Long: "mpt is a command-line client for the Market Price Tracker API.\n" +
			"It tracks listings, compares prices across marketplaces and\n" +
			"inspects recorded price history from the terminal.",
		SilenceUsage: true,
	}

	root.PersistentFlags().
		StringVar(&cfgFile, "config", "", "config file (default $HOME/.mpt.yaml)")
	root.PersistentFlags().
		String("server", "http://localhost:8080", "API server URL")
	root.PersistentFlags().
		String("output", "table", "output format (table, json)")

	cobra.CheckErr(viper.BindPFlag("server", root.PersistentFlags().Lookup("server")))
	cobra.CheckErr(viper.BindPFlag("output", root.PersistentFlags().Lookup("output")))

	root.AddCommand(
		trackCmd(),
		compareCmd(),
		manualCmd(),
		productsCmd(),
		refreshCmd(),
		stateCmd(),
	)
	return root
}

// Root returns the root cobra command for documentation generation.
func Root() *cobra.Command {
	return rootCmd
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		printHint(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".mpt")
	}

	viper.SetEnvPrefix("MPT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func newClient() *apiclient.Client {
	return apiclient.New(viper.GetString("server"))
}

func jsonOutput() bool {
	return viper.GetString("output") == "json"
}

// printHint tells the user how to recover when the server could not read
// a listing.
func printHint(w io.Writer, err error) {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) && apiErr.ManualEntrySuggested() {
		fmt.Fprintln(w, "The listing could not be read automatically. Record it by hand with:")
		fmt.Fprintln(w, "  mpt manual <url> --name <name> --price <amount>")
	}
}
