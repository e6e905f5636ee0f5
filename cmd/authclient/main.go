package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "authclient",
	Short: "Desktop sign-in client for a hosted identity provider",
	Long: `authclient signs in against a hosted identity provider, keeps the
session refreshed across restarts, and runs a loopback listener so browser
based OAuth and password-recovery links land back in the app.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Error running client: %s\n", err)
		os.Exit(1)
	}
}
