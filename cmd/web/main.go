package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	envFile string
	uiDir   string
)

var rootCmd = &cobra.Command{
	Use:   "primecuts",
	Short: "Prime Cuts barbershop website",
	Long: `primecuts serves the Prime Cuts single-page site: a server-rendered
page whose navigation, gallery and contact form are driven by htmx.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file with PRIMECUTS_* defaults (ignored when missing)")
	rootCmd.PersistentFlags().StringVar(&uiDir, "ui-dir", "", "serve templates and content from this directory instead of the embedded copy")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
