package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	dashauth "github.com/bottrapper/dashauth"
)

var loginCmd = &cobra.Command{
	Use:   "login [callback-url]",
	Short: "Establish a session from an OAuth callback URL",
	Long: `Without arguments, prints the Discord authorization URL to open in a
browser. The callback lands on a URL carrying a token query parameter;
paste that full URL back as the argument to persist the session:

  dashctl login "http://localhost:5173/auth/callback?token=..."`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		defer client.Close()

		if len(args) == 0 {
			redirect := client.Login()
			fmt.Fprintf(cmd.OutOrStdout(), "Open in a browser:\n  %s\n", redirect.URL)
			fmt.Fprintln(cmd.OutOrStdout(), "Then run: dashctl login \"<callback-url>\"")
			return nil
		}

		res, err := client.Initialize(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if res.Source != dashauth.TokenFromURL {
			return fmt.Errorf("callback URL carries no token parameter")
		}

		user, err := client.CurrentUser(cmd.Context())
		if err != nil {
			return fmt.Errorf("token stored but identity fetch failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", user.Username, user.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
}
