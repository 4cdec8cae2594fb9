// Copyright (c) 2025 FalkorDB
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"queryweaver/cli/internal/backend"
	"queryweaver/cli/internal/httperrors"
)

// schemaCmd represents the schema command for inspecting a database schema.
// It shows the tables and columns QueryWeaver knows about, which is exactly
// what the model sees when it writes SQL for that database.
var schemaCmd = &cobra.Command{
	Use:   "schema [database]",
	Short: "Show the schema QueryWeaver has for a database",
	Long: `The schema command displays the tables, columns and relationships that
QueryWeaver has extracted for a database. This is the schema the model works
from when turning questions into SQL, so if a table is missing here it cannot
be queried; run 'queryweaver refresh' after changing the database structure.

With no argument the default database from 'queryweaver use' is shown.`,
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

		stop := startInlineSpinner(os.Stdout, "Fetching schema", []string{"|", "/", "-", "\\"}, 120*time.Millisecond)
		schema, err := api.GetSchema(ctx, database)
		stop()
		if err != nil {
			return httperrors.FormatNetworkError(err, "fetching the schema")
		}

		if len(schema.Tables) == 0 {
			pterm.Printf("No tables found for %s. Run 'queryweaver refresh %s' to extract the schema.\n", database, database)
			return nil
		}

		if err := pterm.DefaultTree.WithRoot(schemaTree(database, schema)).Render(); err != nil {
			return err
		}

		pterm.Printf("%d tables", len(schema.Tables))
		if len(schema.Relations) > 0 {
			pterm.Printf(", %d relationships:\n", len(schema.Relations))
			for _, rel := range schema.Relations {
				pterm.Printf("  %s → %s\n", rel.Source, rel.Target)
			}
		} else {
			pterm.Println()
		}
		return nil
	},
}

// schemaTree lays the schema out as a tree: database → tables → columns.
func schemaTree(database string, schema *backend.Schema) pterm.TreeNode {
	typeStyle := pterm.NewStyle(pterm.FgGray)
	tables := make([]pterm.TreeNode, 0, len(schema.Tables))
	for _, t := range schema.Tables {
		columns := make([]pterm.TreeNode, 0, len(t.Columns))
		for _, c := range t.Columns {
			columns = append(columns, pterm.TreeNode{
				Text: fmt.Sprintf("%s %s", c.Name, typeStyle.Sprint(c.Type)),
			})
		}
		tables = append(tables, pterm.TreeNode{
			Text:     pterm.NewStyle(pterm.Bold).Sprint(t.Name),
			Children: columns,
		})
	}
	return pterm.TreeNode{
		Text:     pterm.NewStyle(pterm.FgCyan, pterm.Bold).Sprint(database),
		Children: tables,
	}
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
