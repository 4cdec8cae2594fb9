// Copyright (c) 2025 FalkorDB
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"queryweaver/cli/internal/auth"
	"queryweaver/cli/internal/keychain"
)

// logoutCmd represents the logout command for clearing authentication state.
// It removes the stored API token and login state from the local system only;
// the token itself stays valid until revoked with 'queryweaver tokens revoke'.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove saved credentials from this machine",
	Long: `The logout command clears all authentication state from the local system,
including the stored API token and login state.

This is a purely local operation: the API token remains valid on the server
and can still be used by other machines. To invalidate the token itself, run
'queryweaver tokens revoke' before logging out, or delete it in the web UI.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		// Always clear local credentials; the server is never contacted
		if km, err := keychain.GetManager(); err == nil {
			_ = km.ClearAuth()
		}
		_ = auth.Clear()

		fmt.Println("✅ All credentials and tokens have been removed from this machine")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
