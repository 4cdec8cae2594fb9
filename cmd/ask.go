// Copyright (c) 2025 FalkorDB
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"queryweaver/cli/internal/chat"
)

var askDatabase string

// askCmd represents the ask command for one-shot questions.
// It sends a single natural-language question, streams the answer and exits.
// Destructive operations still require an interactive confirmation, exactly
// as they do in chat.
var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a single question and exit",
	Long: `The ask command sends one natural-language question to QueryWeaver and
streams the generated SQL, results and answer to the terminal. Use it for
quick lookups; for a back-and-forth conversation run 'queryweaver chat'.

If the model proposes a destructive operation (DELETE, DROP, UPDATE, ...)
you are prompted before anything is executed. Declining cancels the
operation without contacting the server.`,
	Args: cobra.MinimumNArgs(1),

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		question := strings.Join(args, " ")

		api, cfg, ok := requireAPI(ctx)
		if !ok {
			return nil
		}

		database := cfg.Chat.Database
		if askDatabase != "" {
			database = askDatabase
		}
		if database == "" {
			fmt.Println("⚠️  No database selected.")
			fmt.Println("   Use --database or set a default with 'queryweaver use <database>'.")
			return nil
		}

		renderer := &chatRenderer{}
		sess := chat.NewSession(api, renderer.Sink)
		sess.UseDatabase(database)
		if cfg.Chat.Instructions != "" {
			sess.SetInstructions(cfg.Chat.Instructions)
		}

		renderer.beginThinking("Thinking")
		err := sess.Ask(ctx, question)
		renderer.stopThinking()
		if err != nil {
			return err
		}

		return resolvePendingConfirmation(ctx, sess, renderer)
	},
}

func init() {
	askCmd.Flags().StringVarP(&askDatabase, "database", "d", "", "Database to query (defaults to the configured one)")
	rootCmd.AddCommand(askCmd)
}
