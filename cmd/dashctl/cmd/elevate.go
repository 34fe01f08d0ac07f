package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var elevateCmd = &cobra.Command{
	Use:   "elevate <guild-id>",
	Short: "Generate an admin session for a guild",
	Long: `Requests a new admin-session token for the guild and stores it locally.
Subsequent guild-scoped calls carry it automatically. Elevating again
replaces the existing admin session; they never stack.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()

		if _, err := client.Initialize(cmd.Context(), ""); err != nil {
			return err
		}
		if !client.IsAuthenticated() {
			return fmt.Errorf("not logged in; run: dashctl login")
		}

		state, err := client.GenerateElevation(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Elevated for guild %s (admin level %d), expires %s\n",
			state.GuildID, state.AdminLevel, state.ExpiresAt.Format(time.RFC3339))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(elevateCmd)
}
