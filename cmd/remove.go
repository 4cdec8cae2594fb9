// Copyright (c) 2025 FalkorDB
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"queryweaver/cli/internal/config"
)

// removeCmd disconnects a database from the account. Only the schema graph
// held by QueryWeaver is deleted; the underlying database is untouched.
var removeCmd = &cobra.Command{
	Use:     "remove <database>",
	Aliases: []string{"rm"},
	Short:   "Disconnect a database from your account",
	Long: `The remove command disconnects a database from your QueryWeaver account and
deletes the schema extracted for it. The underlying database itself is not
touched; reconnecting it later re-extracts the schema from scratch.`,
	Args: cobra.ExactArgs(1),

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		database := args[0]

		api, cfg, ok := requireAPI(ctx)
		if !ok {
			return nil
		}

		if !promptYesNo(fmt.Sprintf("Remove %q from your account? The extracted schema will be deleted.", database)) {
			fmt.Println("Aborted.")
			return nil
		}

		if err := api.DeleteDatabase(ctx, database); err != nil {
			return err
		}

		// Drop a stale default so chat does not point at a missing database.
		if cfg.Chat.Database == database {
			cfg.Chat.Database = ""
			_ = config.Save(cfg)
		}

		fmt.Printf("✅ %s removed\n", database)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(removeCmd)
}
