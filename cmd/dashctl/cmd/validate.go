package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <guild-id>",
	Short: "Check an admin session against the server",
	Long: `Asks the server whether the stored admin-session token for the guild is
still valid. A token the server no longer recognizes is removed locally;
with no stored token, no request is made at all.`,
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

		state, err := client.ValidateElevation(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if !state.Valid {
			fmt.Fprintf(out, "Guild %s: not elevated\n", args[0])
			return nil
		}
		fmt.Fprintf(out, "Guild %s: elevated (admin level %d), %s remaining\n",
			state.GuildID, state.AdminLevel, state.Remaining(time.Now()).Round(time.Second))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
