package cmd

import (
	"bufio"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Send a message, or start an interactive session when no message is given",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient()
		if len(args) == 1 {
			reply, err := client.Chat(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), reply)
			return nil
		}
		return interactive(cmd, client)
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show previews of the most recent messages",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		history, err := newClient().History(cmd.Context())
		if err != nil {
			return err
		}
		if len(history) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No history.")
			return nil
		}
		for i, preview := range history {
			fmt.Fprintf(cmd.OutOrStdout(), "%2d. %s\n", i+1, preview)
		}
		return nil
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Erase the conversation memory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newClient().Clear(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Memory cleared.")
		return nil
	},
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show the persona profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, err := newClient().Profile(cmd.Context())
		if err != nil {
			return err
		}
		keys := make([]string, 0, len(profile))
		for k := range profile {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", k, profile[k])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chatCmd, historyCmd, clearCmd, profileCmd)
}

// interactive reads one message per line until EOF or "exit".
func interactive(cmd *cobra.Command, client *apiClient) error {
	out := cmd.OutOrStdout()
	scanner := bufio.NewScanner(cmd.InOrStdin())
	fmt.Fprint(out, "> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
		case "exit", "quit":
			return nil
		default:
			reply, err := client.Chat(cmd.Context(), line)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "error:", err)
			} else {
				fmt.Fprintln(out, reply)
			}
		}
		fmt.Fprint(out, "> ")
	}
	return scanner.Err()
}
