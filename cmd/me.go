// Copyright (c) 2025 FalkorDB
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"queryweaver/cli/internal/auth"
	"queryweaver/cli/internal/config"
	"queryweaver/cli/internal/logging"
)

var (
	verboseMe bool
)

// meCmd is whoami with a --verbose switch that turns on debug output
// across the auth and keychain paths, for diagnosing login trouble.
var meCmd = &cobra.Command{
	Use:   "me",
	Short: "Show current authenticated account",
	Long: `The me command displays the account associated with the stored API token,
verifying it against the QueryWeaver server when reachable.

With --verbose it also prints keychain and auth-state debug output, which is
the first thing to check when login appears to succeed but commands still
report you as logged out.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		// Debug output in auth/keychain is keyed off this variable.
		if verboseMe {
			os.Setenv("QUERYWEAVER_VERBOSE", "1")
		}

		ctx := cmd.Context()

		st, err := auth.Load()
		if err != nil {
			if verboseMe {
				fmt.Println("[DEBUG] " + logging.PresentError("me: auth.Load()", err))
			}
			fmt.Println("🔒 You're not logged in yet!")
			fmt.Println("   Run 'queryweaver login' to get started.")
			return nil
		}
		if verboseMe {
			fmt.Printf("[DEBUG] me: stored state logged_in=%v account=%s\n", st.LoggedIn, st.Account)
		}
		if !st.LoggedIn {
			fmt.Println("🔒 You're not logged in yet!")
			fmt.Println("   Run 'queryweaver login' to get started.")
			return nil
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		svc := auth.NewService(cfg.Server)

		account, ok, err := svc.WhoAmI(ctx)
		if err != nil || !ok {
			if verboseMe && err != nil {
				fmt.Println("[DEBUG] " + logging.PresentError("me: WhoAmI", err))
			}
			fmt.Println("🔒 You're not logged in yet!")
			fmt.Println("   Run 'queryweaver login' to get started.")
			return nil
		}

		fmt.Println(getWhoAmIPhrase(account))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(meCmd)
	meCmd.Flags().BoolVarP(&verboseMe, "verbose", "v", false, "Enable verbose debug output")
}
