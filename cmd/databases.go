// Copyright (c) 2025 FalkorDB
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"os"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"queryweaver/cli/internal/httperrors"
)

// databasesCmd represents the databases command for listing connected databases.
// It fetches the databases available to the authenticated account and marks the
// one configured as the default chat target.
var databasesCmd = &cobra.Command{
	Use:     "databases",
	Aliases: []string{"dbs"},
	Short:   "List databases connected to your account",
	Long: `The databases command lists every database connected to your QueryWeaver
account. The one configured as the default chat target (see 'queryweaver use')
is marked with an arrow.

Databases are connected through the QueryWeaver web UI; the CLI only queries
them.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		api, cfg, ok := requireAPI(ctx)
		if !ok {
			return nil
		}

		stop := startInlineSpinner(os.Stdout, "Fetching databases", []string{"|", "/", "-", "\\"}, 120*time.Millisecond)
		names, err := api.ListDatabases(ctx)
		stop()
		if err != nil {
			return httperrors.FormatNetworkError(err, "fetching your databases")
		}

		if len(names) == 0 {
			pterm.Println("No databases connected yet.")
			pterm.Println("Connect one in the web UI, then run this command again.")
			return nil
		}

		items := make([]pterm.BulletListItem, 0, len(names))
		for _, name := range names {
			item := pterm.BulletListItem{Level: 0, Text: name, Bullet: "•"}
			if name == cfg.Chat.Database {
				item.Bullet = "→"
				item.TextStyle = pterm.NewStyle(pterm.FgCyan, pterm.Bold)
			}
			items = append(items, item)
		}
		if err := pterm.DefaultBulletList.WithItems(items).Render(); err != nil {
			return err
		}

		if cfg.Chat.Database == "" {
			pterm.Println()
			pterm.Println("Pick a default with: queryweaver use <database>")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(databasesCmd)
}
