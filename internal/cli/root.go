// Package cli implements the beaverctl command set.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/beaver-systems/beaver/pkg/client"
)

var (
	serverURL   string
	accessToken string
)

var rootCmd = &cobra.Command{
	Use:   "beaverctl",
	Short: "Beaver event log CLI",
	Long: `beaverctl is the command-line interface for a beaver server.

Bootstrap the first admin, manage projects and channels, seed demo
traffic and tail event streams from your terminal.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "beaver server URL")
	rootCmd.PersistentFlags().StringVar(&accessToken, "token", "", "access token for protected endpoints")
}

func newClient() *client.Client {
	c := client.New(serverURL)
	c.AccessToken = accessToken
	return c
}
