package cmd

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Print the authenticated identity",
	Long: `Loads the persisted session, fetches the identity from the backend, and
prints it together with guild memberships. When the token is a JWT, its
expiry claim is shown for convenience; the claim is read without
verification and is display-only, the server remains the authority.`,
	Args: cobra.NoArgs,
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

		user, err := client.CurrentUser(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "User:  %s#%s (%s)\n", user.Username, user.Discriminator, user.ID)
		if len(user.Guilds) > 0 {
			fmt.Fprintln(out, "Guilds:")
			for _, g := range user.Guilds {
				fmt.Fprintf(out, "  %s  %s\n", g.ID, g.Name)
			}
		}

		if exp, ok := tokenExpiry(client.Token()); ok {
			fmt.Fprintf(out, "Token expires: %s (%s)\n", exp.Format(time.RFC3339), time.Until(exp).Round(time.Second))
		}
		return nil
	},
}

// tokenExpiry reads the exp claim from a JWT-shaped token without
// verifying the signature. Display only.
func tokenExpiry(token string) (time.Time, bool) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
