package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"atomicgo.dev/cursor"
	"github.com/pterm/pterm"

	"queryweaver/cli/internal/auth"
	"queryweaver/cli/internal/backend"
	"queryweaver/cli/internal/config"
)

// startInlineSpinner starts a simple inline spinner animation on a single line.
// It displays rotating animation frames followed by the provided text, updating
// the same line in the terminal. The spinner runs in a separate goroutine and
// can be stopped by calling the returned function.
//
// The spinner automatically clears the line when stopped.
//
// Parameters:
//   - w: The io.Writer to write the spinner to (typically os.Stdout or os.Stderr)
//   - text: The text to display after the spinner animation
//   - frames: Array of strings representing animation frames (e.g., ["|", "/", "-", "\\"])
//   - interval: Time duration between frame updates
//
// Returns a function that stops the spinner and cleans up when called.
func startInlineSpinner(w io.Writer, text string, frames []string, interval time.Duration) func() {
	cursor.Hide()
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		i := 0
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				line := fmt.Sprintf("%s %s", frames[i%len(frames)], text)
				// Clear the spinner line completely, then return
				fmt.Fprintf(w, "\r%*s\r", len(line), "")
				return
			case <-ticker.C:
				line := fmt.Sprintf("%s %s", frames[i%len(frames)], text)
				fmt.Fprintf(w, "\r%s", line)
				i++
			}
		}
	}()
	return func() {
		close(stop)
		wg.Wait()
		cursor.Show()
	}
}

// requireAPI builds an authenticated backend client for commands that talk to
// the server. When the user is not logged in it prints a login hint and
// returns ok=false; callers should then return nil without a further message.
func requireAPI(ctx context.Context) (backend.API, config.Config, bool) {
	cfg, err := config.Load()
	if err != nil {
		pterm.Println("❌ Could not load configuration:", err)
		return nil, cfg, false
	}

	loggedIn, err := auth.IsLoggedIn(ctx)
	if err != nil || !loggedIn {
		pterm.Println("🔒 You're not logged in yet!")
		pterm.Println("   Run 'queryweaver login' to get started.")
		return nil, cfg, false
	}

	api, err := auth.NewService(cfg.Server).API(ctx)
	if err != nil {
		pterm.Println("🔒 You're not logged in yet!")
		pterm.Println("   Run 'queryweaver login' to get started.")
		return nil, cfg, false
	}
	return api, cfg, true
}

// promptYesNo asks a yes/no question on stdin. Anything other than an
// explicit yes counts as no.
func promptYesNo(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
