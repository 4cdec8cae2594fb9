// Copyright (c) 2025 FalkorDB
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"queryweaver/cli/internal/auth"
	"queryweaver/cli/internal/config"
	qwerr "queryweaver/cli/internal/errors"
	"queryweaver/cli/internal/httperrors"
	"queryweaver/cli/internal/serverurl"
	"queryweaver/cli/internal/terminal"
)

var loginServer string

// loginCmd represents the login command for token authentication.
// The user creates an API token in the QueryWeaver web UI, pastes it at the
// prompt and the CLI verifies it against the server before storing it in the
// system keychain. The pasted token is scrubbed from the terminal afterwards.
var loginCmd = &cobra.Command{
	Use:     "login",
	Aliases: []string{"auth"},
	Short:   "Authenticate with a QueryWeaver API token",
	Long: `The login command authenticates this machine with a QueryWeaver API token.

Create a token in the QueryWeaver web UI under Settings → API Tokens, then
paste it at the prompt. The CLI verifies the token against the server and
stores it securely in your system keychain. The pasted token is wiped from
the terminal so it does not linger in your scrollback.

Use --server to authenticate against a self-hosted QueryWeaver instance.
If already logged in with a valid token, the flow is skipped.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		baseCtx := cmd.Context()
		ctx, cancel := context.WithTimeout(baseCtx, 2*time.Minute)
		defer cancel()

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if loginServer != "" {
			normalized, err := serverurl.Normalize(loginServer)
			if err != nil {
				return fmt.Errorf("invalid --server value: %w", err)
			}
			cfg.Server = normalized
		}

		svc := auth.NewService(cfg.Server)
		// If already logged in with a valid token, short-circuit
		if account, ok, _ := svc.WhoAmI(ctx); ok {
			fmt.Printf("Already logged in as %s\n", account)
			fmt.Println("Run 'queryweaver logout' first to switch accounts.")
			return nil
		}

		fmt.Println("To connect this machine, create an API token:")
		fmt.Printf("%s/settings/tokens\n\n", cfg.Server)

		token, err := promptForToken()
		if err != nil {
			return err
		}
		if token == "" {
			return fmt.Errorf("no token entered")
		}

		stop := startInlineSpinner(os.Stdout, "Verifying token", []string{"|", "/", "-", "\\"}, 120*time.Millisecond)
		account, databases, err := svc.Login(ctx, token)
		stop()
		if err != nil {
			var qe *qwerr.E
			if errors.As(err, &qe) && qe.Kind == qwerr.TokenRejected {
				fmt.Println("❌ The server rejected this token.")
				fmt.Println("   Check that you copied the whole token and that it has not been revoked.")
				return fmt.Errorf("login failed")
			}
			return httperrors.FormatNetworkError(err, "verifying your token")
		}

		if err := config.Save(cfg); err != nil {
			return err
		}

		fmt.Println(getRandomLoginGreeting(account))
		showDatabaseHint(databases)
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginServer, "server", "", "QueryWeaver server URL (defaults to "+config.DefaultServer+")")
	rootCmd.AddCommand(loginCmd)
	// Seed random number generator for greeting selection
	rand.Seed(time.Now().UnixNano())
}

// promptForToken reads the pasted token from stdin and then scrubs the prompt
// and the echoed input from the terminal so the secret stays out of scrollback.
func promptForToken() (string, error) {
	prompt := "Paste your API token: "
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	terminal.ClearPreviousLines(len(prompt) + len(line))
	return strings.TrimSpace(line), nil
}

// showDatabaseHint tells the user what they can do next given how many
// databases their account has.
func showDatabaseHint(databases []string) {
	switch len(databases) {
	case 0:
		fmt.Println("No databases connected yet. Add one in the web UI, then run 'queryweaver databases'.")
	case 1:
		fmt.Printf("1 database available (%s). Run 'queryweaver chat' to start asking questions.\n", databases[0])
	default:
		fmt.Printf("%d databases available. Run 'queryweaver chat' to start asking questions.\n", len(databases))
	}
}

// getRandomLoginGreeting returns a random greeting phrase with the user's identifier
func getRandomLoginGreeting(identifier string) string {
	greetings := []string{
		"🎉 Welcome back, %s!",
		"✨ Great to see you, %s!",
		"🚀 You're all set, %s!",
		"👋 Hello %s! Ready to query?",
		"💫 Successfully authenticated as %s",
		"🌟 Welcome aboard, %s!",
		"⚡ Logged in as %s - let's go!",
		"✅ Authentication complete! Hi %s!",
		"🎯 You're in, %s!",
		"🔓 Access granted! Welcome %s!",
	}

	idx := rand.Intn(len(greetings))
	return fmt.Sprintf(greetings[idx], identifier)
}
