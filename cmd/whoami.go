package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"queryweaver/cli/internal/auth"
	"queryweaver/cli/internal/config"
	"queryweaver/cli/internal/httperrors"
)

// whoamiCmd reports which account the stored token belongs to. The
// token is checked against the server when reachable; otherwise the
// locally stored login record is shown as-is.
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show current authenticated account",
	Long: `The whoami command displays the account associated with the stored API
token. When the server is reachable the token is verified live, so a revoked
token shows up as logged out here before any query fails.

Offline, the last known login record is shown instead.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := auth.Load()
		if err != nil || !st.LoggedIn {
			fmt.Println("🔒 You're not logged in yet!")
			fmt.Println("   Run 'queryweaver login' to get started.")
			return nil
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		svc := auth.NewService(cfg.Server)

		// WhoAmI verifies against the server when reachable and falls
		// back to the stored record offline; ok=false means the token
		// is gone for sure (revoked tokens clear local state too).
		account, ok, err := svc.WhoAmI(ctx)
		if err != nil || !ok {
			fmt.Println("🔒 You're not logged in yet!")
			fmt.Println("   Run 'queryweaver login' to get started.")
			return nil
		}

		fmt.Println(getWhoAmIPhrase(account))
		fmt.Printf("🌐 Server: %s\n", httperrors.ExtractHostFromURL(cfg.Server))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

// getWhoAmIPhrase returns a friendly phrase with the user's identifier
func getWhoAmIPhrase(identifier string) string {
	return fmt.Sprintf("👤 Current user: %s", identifier)
}
