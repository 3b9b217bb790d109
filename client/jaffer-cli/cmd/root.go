package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	serverURL string
	timeout   time.Duration
)

var rootCmd = &cobra.Command{
	Use:          "jaffer-cli",
	Short:        "A CLI client to talk to the Jaffer chat service",
	Long:         `A command-line interface for chatting with Jaffer and managing its conversation memory.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your CLI: %s\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", envOr("JAFFER_SERVER", "http://127.0.0.1:8080"), "base URL of the chat service")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 90*time.Second, "per-request timeout")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func newClient() *apiClient {
	return newAPIClient(serverURL, timeout)
}
