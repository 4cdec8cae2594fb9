// Copyright (c) 2025 FalkorDB
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"queryweaver/cli/internal/auth"
	"queryweaver/cli/internal/keychain"
)

// tokensCmd groups API token management. Tokens are created in the web UI;
// the CLI can list and revoke them.
var tokensCmd = &cobra.Command{
	Use:   "tokens",
	Short: "Manage API tokens for your account",
	Long: `The tokens command manages the API tokens on your QueryWeaver account.
Tokens are created in the web UI under Settings → API Tokens; from the CLI
you can list them and revoke ones you no longer trust.

Revoking the token this CLI logged in with locks the CLI out until you log
in again with a fresh token.`,
}

var tokensListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the API tokens on your account",

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		api, _, ok := requireAPI(ctx)
		if !ok {
			return nil
		}

		tokens, err := api.ListTokens(ctx)
		if err != nil {
			return err
		}
		if len(tokens) == 0 {
			pterm.Println("No API tokens on this account.")
			return nil
		}

		current := currentTokenLast4()
		data := pterm.TableData{{"TOKEN ID", "CREATED", "ENDING"}}
		for _, t := range tokens {
			ending := "****" + t.Last4
			if t.Last4 != "" && t.Last4 == current {
				ending += "  (this machine)"
			}
			created := time.Unix(t.CreatedAt, 0).Format("2006-01-02 15:04")
			data = append(data, []string{t.TokenID, created, ending})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	},
}

var tokensRevokeCmd = &cobra.Command{
	Use:   "revoke <token-id>",
	Short: "Revoke an API token",
	Args:  cobra.ExactArgs(1),

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		tokenID := args[0]

		api, _, ok := requireAPI(ctx)
		if !ok {
			return nil
		}

		// Warn when the target is the token this CLI is logged in with.
		revokingOwn := false
		if tokens, err := api.ListTokens(ctx); err == nil {
			current := currentTokenLast4()
			for _, t := range tokens {
				if t.TokenID == tokenID && t.Last4 != "" && t.Last4 == current {
					revokingOwn = true
					break
				}
			}
		}

		prompt := fmt.Sprintf("Revoke token %s? Clients using it will stop working immediately.", tokenID)
		if revokingOwn {
			prompt = fmt.Sprintf("Token %s is the one this CLI is logged in with. Revoke it and log this machine out?", tokenID)
		}
		if !promptYesNo(prompt) {
			fmt.Println("Aborted.")
			return nil
		}

		if err := api.RevokeToken(ctx, tokenID); err != nil {
			return err
		}
		fmt.Printf("✅ Token %s revoked\n", tokenID)

		if revokingOwn {
			if km, err := keychain.GetManager(); err == nil {
				_ = km.ClearAuth()
			}
			_ = auth.Clear()
			fmt.Println("   This machine has been logged out. Run 'queryweaver login' to reconnect.")
		}
		return nil
	},
}

// currentTokenLast4 returns the last four characters of the token stored in
// the keychain, or "" when none is stored.
func currentTokenLast4() string {
	km, err := keychain.GetManager()
	if err != nil {
		return ""
	}
	token, err := km.LoadAPIToken()
	if err != nil {
		return ""
	}
	token = strings.TrimSpace(token)
	if len(token) < 4 {
		return ""
	}
	return token[len(token)-4:]
}

func init() {
	tokensCmd.AddCommand(tokensListCmd)
	tokensCmd.AddCommand(tokensRevokeCmd)
	rootCmd.AddCommand(tokensCmd)
}
