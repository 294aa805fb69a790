package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/moviemend/moviemend/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "moviemend",
	Short: "Moviemend serves an offline-aware movie watchlist",
	Long: `Moviemend fronts a managed watchlist store and a movie catalog proxy with
a local cache, so reads keep working while the connection is down and every
successful online read is written through for later offline use.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of Moviemend",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Moviemend v0.1.0")
	},
}

var configFile string

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is ./config.yml)")
	cobra.OnInitialize(initConfig)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
}

func initConfig() {
	// Skip config loading for version command
	if len(os.Args) > 1 && os.Args[1] == "version" {
		return
	}

	if err := config.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
