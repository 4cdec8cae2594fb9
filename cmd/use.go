// Copyright (c) 2025 FalkorDB
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"queryweaver/cli/internal/config"
)

// useCmd sets the default database for chat and ask. The name is checked
// against the account's databases so typos surface immediately rather than
// on the first question.
var useCmd = &cobra.Command{
	Use:   "use <database>",
	Short: "Set the default database for chat and ask",
	Args:  cobra.ExactArgs(1),

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		target := args[0]

		api, cfg, ok := requireAPI(ctx)
		if !ok {
			return nil
		}

		names, err := api.ListDatabases(ctx)
		if err != nil {
			return err
		}
		found := false
		for _, name := range names {
			if name == target {
				found = true
				break
			}
		}
		if !found {
			fmt.Printf("❌ No database named %q on this account.\n", target)
			fmt.Println("   Run 'queryweaver databases' to see what is available.")
			return fmt.Errorf("unknown database")
		}

		cfg.Chat.Database = target
		if err := config.Save(cfg); err != nil {
			return err
		}
		fmt.Printf("✅ Default database set to %s\n", target)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(useCmd)
}
