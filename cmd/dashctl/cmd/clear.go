package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var clearCmd = &cobra.Command{
	Use:   "clear [guild-id]",
	Short: "Clear the primary session or a guild elevation",
	Long: `Without arguments, clears the primary session token. With a guild id,
clears only that guild's admin session; the primary session and other
guilds' elevations are untouched.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()

		if _, err := client.Initialize(cmd.Context(), ""); err != nil {
			return err
		}

		if len(args) == 1 {
			if err := client.ClearElevation(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared admin session for guild %s\n", args[0])
			return nil
		}

		client.Logout(cmd.Context(), true, "")
		fmt.Fprintln(cmd.OutOrStdout(), "Cleared primary session")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(clearCmd)
}
