// Copyright (c) 2025 FalkorDB
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"queryweaver/cli/internal/httperrors"
	"queryweaver/cli/internal/stream"
)

// refreshCmd represents the refresh command for re-extracting a database schema.
// The server re-reads the live database structure and rebuilds the schema graph
// the model queries against, streaming progress messages while it works.
var refreshCmd = &cobra.Command{
	Use:   "refresh [database]",
	Short: "Re-extract the schema for a database",
	Long: `The refresh command asks the server to re-read the database structure and
rebuild the schema it uses for query generation. Run it after adding tables,
columns or foreign keys so the model can see them.

Extraction can take a while on large databases; progress is streamed as it
happens. With no argument the default database from 'queryweaver use' is
refreshed.`,
	Args: cobra.MaximumNArgs(1),

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		api, cfg, ok := requireAPI(ctx)
		if !ok {
			return nil
		}

		database := cfg.Chat.Database
		if len(args) == 1 {
			database = args[0]
		}
		if database == "" {
			fmt.Println("⚠️  No database selected.")
			fmt.Println("   Pass one as an argument or set a default with 'queryweaver use <database>'.")
			return nil
		}

		body, err := api.RefreshSchema(ctx, database)
		if err != nil {
			return httperrors.FormatNetworkError(err, "starting the schema refresh")
		}
		defer body.Close()

		pterm.Printf("Refreshing schema for %s...\n", database)

		dim := pterm.NewStyle(pterm.FgGray)
		var failure string
		scanErr := stream.Scan(ctx, body, func(m stream.Message) {
			switch m.Type {
			case stream.TypeReasoning, stream.TypeReasoningStep, stream.TypeStatus:
				if m.Text != "" {
					dim.Println("  " + m.Text)
				}
			case stream.TypeFinalResult:
				if !m.Success {
					failure = m.Text
					if failure == "" {
						failure = "schema refresh failed"
					}
				}
			case stream.TypeSchemaRefresh:
				if m.RefreshStatus == "failed" {
					failure = m.Text
					if failure == "" {
						failure = "schema refresh failed"
					}
				}
			case stream.TypeError:
				failure = m.Text
				if failure == "" {
					failure = "schema refresh failed"
				}
			default:
				if m.Text != "" {
					dim.Println("  " + m.Text)
				}
			}
		})
		if scanErr != nil {
			return fmt.Errorf("refresh stream: %w", scanErr)
		}
		if failure != "" {
			pterm.Println("❌ " + failure)
			return fmt.Errorf("refresh failed")
		}

		pterm.Printf("✅ Schema refreshed for %s\n", database)
		pterm.Printf("   Run 'queryweaver schema %s' to inspect it.\n", database)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(refreshCmd)
}
