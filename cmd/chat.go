// Copyright (c) 2025 FalkorDB
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"queryweaver/cli/internal/backend"
	"queryweaver/cli/internal/chat"
	qwerr "queryweaver/cli/internal/errors"
	"queryweaver/cli/internal/httperrors"
	"queryweaver/cli/internal/logging"
)

var chatDatabase string

// chatCmd represents the chat command, the interactive conversation loop.
// Questions typed at the prompt are sent to QueryWeaver together with the
// conversation so far; slash commands control the session locally.
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive conversation with your database",
	Long: `The chat command opens an interactive session where you ask questions in
plain language and QueryWeaver answers with SQL, results and explanations.
Each question carries the conversation so far, so follow-ups like "and only
for last month?" work naturally.

Slash commands control the session without contacting the server:

  /databases          list the databases on your account
  /use <name>         switch database (clears the conversation)
  /reset              clear the conversation, keep the database
  /context            show the size of the conversation sent with each question
  /instructions [...] show, set or clear standing instructions for the model
  /history            print the conversation so far
  /confirm, /cancel   resolve a pending destructive operation
  /exit               leave chat

Ctrl-C pauses a query that is streaming; the conversation survives.
Destructive operations (DELETE, DROP, UPDATE, ...) always stop and ask
before anything is executed.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		api, cfg, ok := requireAPI(ctx)
		if !ok {
			return nil
		}

		renderer := &chatRenderer{}
		sess := chat.NewSession(api, renderer.Sink)
		if cfg.Chat.Instructions != "" {
			sess.SetInstructions(cfg.Chat.Instructions)
		}

		database := cfg.Chat.Database
		if chatDatabase != "" {
			database = chatDatabase
		}
		if database == "" {
			database = pickOnlyDatabase(ctx, api)
		}
		if database != "" {
			sess.UseDatabase(database)
		}

		printChatHeader(sess)

		// Ctrl-C pauses a streaming query instead of killing the process.
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt)
		defer signal.Stop(sigCh)
		go func() {
			for range sigCh {
				if sess.State() == chat.StateStreaming {
					sess.Interrupt()
				} else {
					fmt.Println()
					fmt.Println("(type /exit to leave)")
				}
			}
		}()

		reader := bufio.NewReader(os.Stdin)
		for {
			pterm.Println()
			pterm.Print(pterm.NewStyle(pterm.FgGreen, pterm.Bold).Sprint("you ❯ "))
			line, err := reader.ReadString('\n')
			if err != nil {
				if errors.Is(err, io.EOF) {
					fmt.Println()
					return nil
				}
				return err
			}
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}

			if strings.HasPrefix(line, "/") {
				if quit := runSlashCommand(ctx, sess, api, renderer, line); quit {
					return nil
				}
				continue
			}

			renderer.beginThinking("Thinking")
			err = sess.Ask(ctx, line)
			renderer.stopThinking()
			if err != nil {
				presentChatError(err)
				continue
			}
			if err := resolvePendingConfirmation(ctx, sess, renderer); err != nil {
				presentChatError(err)
			}
		}
	},
}

// pickOnlyDatabase auto-selects the database when the account has exactly
// one; otherwise it returns "" and the user picks with /use.
func pickOnlyDatabase(ctx context.Context, api backend.API) string {
	names, err := api.ListDatabases(ctx)
	if err != nil || len(names) == 0 {
		return ""
	}
	if len(names) == 1 {
		pterm.Info.Printf("Using %s (the only database on this account)\n", names[0])
		return names[0]
	}
	return ""
}

func printChatHeader(sess *chat.Session) {
	pterm.Println(pterm.NewStyle(pterm.FgLightCyan, pterm.Bold).Sprint("QueryWeaver chat"))
	if db := sess.Database(); db != "" {
		pterm.Printf("Database: %s\n", db)
	} else {
		pterm.Println("No database selected yet - run /databases, then /use <name>.")
	}
	pterm.Println("Type a question, or /help for commands.")
}

// runSlashCommand executes one local slash command. It returns true when the
// session should end.
func runSlashCommand(ctx context.Context, sess *chat.Session, api backend.API, renderer *chatRenderer, line string) bool {
	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch cmd {
	case "/exit", "/quit":
		return true

	case "/help":
		pterm.Println("  /databases          list the databases on your account")
		pterm.Println("  /use <name>         switch database (clears the conversation)")
		pterm.Println("  /reset              clear the conversation, keep the database")
		pterm.Println("  /context            show the size of the conversation")
		pterm.Println("  /instructions [...] show, set or clear standing instructions")
		pterm.Println("  /history            print the conversation so far")
		pterm.Println("  /confirm, /cancel   resolve a pending destructive operation")
		pterm.Println("  /exit               leave chat")

	case "/databases":
		names, err := api.ListDatabases(ctx)
		if err != nil {
			presentChatError(err)
			break
		}
		if len(names) == 0 {
			pterm.Println("No databases connected yet. Add one in the web UI.")
			break
		}
		for _, name := range names {
			marker := "  "
			if name == sess.Database() {
				marker = "→ "
			}
			pterm.Println(marker + name)
		}

	case "/use":
		if rest == "" {
			pterm.Println("Usage: /use <database>")
			break
		}
		names, err := api.ListDatabases(ctx)
		if err != nil {
			presentChatError(err)
			break
		}
		found := false
		for _, name := range names {
			if name == rest {
				found = true
				break
			}
		}
		if !found {
			pterm.Printf("No database named %q. Run /databases to see what is available.\n", rest)
			break
		}
		switched := sess.Database() != rest
		sess.UseDatabase(rest)
		if switched {
			pterm.Printf("Now querying %s. The conversation has been cleared.\n", rest)
		} else {
			pterm.Printf("Already querying %s.\n", rest)
		}

	case "/reset":
		sess.Reset()
		pterm.Println("Conversation cleared.")

	case "/context":
		est := sess.EstimateContext()
		pterm.Printf("Conversation: %d turns, %d result sets, ~%d tokens sent with the next question.\n",
			est.Turns, est.Results, est.Tokens)

	case "/instructions":
		switch rest {
		case "":
			if ins := sess.Instructions(); ins != "" {
				pterm.Println("Standing instructions: " + ins)
			} else {
				pterm.Println("No standing instructions set. Use /instructions <text> to add some,")
				pterm.Println("e.g. /instructions always return amounts in EUR.")
			}
		case "clear":
			sess.SetInstructions("")
			pterm.Println("Standing instructions cleared.")
		default:
			sess.SetInstructions(rest)
			pterm.Println("Standing instructions set.")
		}

	case "/history":
		history := sess.History()
		if len(history) == 0 {
			pterm.Println("Nothing yet - ask something first.")
			break
		}
		dim := pterm.NewStyle(pterm.FgGray)
		for _, turn := range history {
			dim.Printf("%s: %s\n", turn.Role, turn.Text)
		}

	case "/confirm":
		if _, ok := sess.Pending(); !ok {
			pterm.Println("Nothing is awaiting confirmation.")
			break
		}
		renderer.beginThinking("Executing")
		err := sess.Confirm(ctx)
		renderer.stopThinking()
		if err != nil {
			presentChatError(err)
		}

	case "/cancel":
		if _, ok := sess.Pending(); !ok {
			pterm.Println("Nothing is awaiting confirmation.")
			break
		}
		sess.Cancel()

	default:
		pterm.Printf("Unknown command %s - try /help.\n", cmd)
	}
	return false
}

// presentChatError prints an error without ending the session.
func presentChatError(err error) {
	var qe *qwerr.E
	if errors.As(err, &qe) {
		switch qe.Kind {
		case qwerr.NoDatabase:
			pterm.Println("⚠️  No database selected. Run /databases, then /use <name>.")
			return
		case qwerr.ConfirmationPending:
			pterm.Println("⚠️  A destructive operation is awaiting confirmation - /confirm to run it, /cancel to discard.")
			return
		case qwerr.AuthRequired, qwerr.TokenRejected:
			pterm.Println("🔒 Your session is no longer valid. Run 'queryweaver login' again.")
			return
		case qwerr.StreamInterrupted:
			logging.PresentStreamError(err.Error())
			return
		case qwerr.RequestFailed:
			cause := qe.Err
			if cause == nil {
				cause = err
			}
			_ = httperrors.FormatNetworkError(cause, "contacting the server")
			return
		}
	}
	pterm.Println(pterm.NewStyle(pterm.FgRed).Sprint("❌ " + logging.Mask(err.Error())))
}

func init() {
	chatCmd.Flags().StringVarP(&chatDatabase, "database", "d", "", "Database to query (defaults to the configured one)")
	rootCmd.AddCommand(chatCmd)
}
