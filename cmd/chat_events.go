package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/pterm/pterm"

	"queryweaver/cli/internal/chat"
)

// maxRenderedRows caps how many result rows are printed per query; the full
// result still rides along to the model on the next question.
const maxRenderedRows = 50

// chatRenderer turns session events into terminal output. Most events arrive
// on the goroutine running Ask/Confirm, but an interrupt notice can come from
// the signal handler, so the spinner handle is guarded by a mutex.
type chatRenderer struct {
	mu          sync.Mutex
	spinnerStop func()
}

// beginThinking starts an inline spinner until the first event arrives.
func (r *chatRenderer) beginThinking(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopLocked()
	r.spinnerStop = startInlineSpinner(os.Stdout, text, []string{"|", "/", "-", "\\"}, 120*time.Millisecond)
}

// stopThinking stops the spinner if one is running. Safe to call repeatedly.
func (r *chatRenderer) stopThinking() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopLocked()
}

func (r *chatRenderer) stopLocked() {
	if r.spinnerStop != nil {
		r.spinnerStop()
		r.spinnerStop = nil
	}
}

// Sink renders one session event. It is passed to chat.NewSession.
func (r *chatRenderer) Sink(ev chat.Event) {
	r.stopThinking()

	dim := pterm.NewStyle(pterm.FgGray)
	switch ev.Type {
	case chat.EventProgress:
		if ev.Text != "" {
			dim.Println("· " + ev.Text)
		}
		if ev.SQL != "" {
			dim.Println("  " + ev.SQL)
		}

	case chat.EventSQL:
		pterm.DefaultBox.
			WithTitle(pterm.NewStyle(pterm.FgCyan, pterm.Bold).Sprint("Generated SQL")).
			WithTopPadding(1).WithBottomPadding(1).WithLeftPadding(1).WithRightPadding(1).
			Println(ev.SQL)
		if ev.Confidence != "" {
			dim.Println("confidence: " + ev.Confidence)
		}
		if ev.Explanation != "" {
			dim.Println(ev.Explanation)
		}
		if !ev.Valid {
			pterm.Println("⚠️  The model flagged this query as possibly invalid.")
		}

	case chat.EventResult:
		if ev.Tabular && !ev.Table.Empty() {
			renderResultTable(ev)
		} else if ev.Text != "" {
			pterm.Println(ev.Text)
		}

	case chat.EventAnswer:
		pterm.Println()
		pterm.Println(ev.Text)

	case chat.EventFollowup:
		pterm.Println()
		pterm.Println(pterm.NewStyle(pterm.FgYellow, pterm.Bold).Sprint("I need a bit more information"))
		if ev.Text != "" {
			pterm.Println(ev.Text)
		}
		renderBullets(ev.Missing)
		renderBullets(ev.Ambiguities)

	case chat.EventConfirmRequest:
		pterm.Println()
		title := "Destructive operation"
		if ev.Operation != "" {
			title = fmt.Sprintf("Destructive operation: %s", strings.ToUpper(ev.Operation))
		}
		pterm.DefaultBox.
			WithTitle(pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprint("⚠️  " + title)).
			WithTopPadding(1).WithBottomPadding(1).WithLeftPadding(1).WithRightPadding(1).
			Println(ev.SQL)
		if ev.Text != "" {
			pterm.Println(ev.Text)
		}

	case chat.EventNotice:
		pterm.Info.Println(ev.Text)

	case chat.EventError:
		pterm.Println(pterm.NewStyle(pterm.FgRed).Sprint("❌ " + ev.Text))

	case chat.EventText:
		if ev.Text != "" {
			pterm.Println(ev.Text)
		}
	}
}

// renderResultTable prints a query result as a table, capping very large
// results to keep the terminal usable.
func renderResultTable(ev chat.Event) {
	rows := ev.Table.Rows
	truncated := 0
	if len(rows) > maxRenderedRows {
		truncated = len(rows) - maxRenderedRows
		rows = rows[:maxRenderedRows]
	}

	data := pterm.TableData{}
	hasHeader := len(ev.Table.Columns) > 0
	if hasHeader {
		data = append(data, ev.Table.Columns)
	}
	for _, row := range rows {
		data = append(data, row)
	}

	table := pterm.DefaultTable.WithData(data)
	if hasHeader {
		table = table.WithHasHeader()
	}
	if err := table.Render(); err != nil {
		pterm.Println(ev.Text)
		return
	}
	if truncated > 0 {
		pterm.NewStyle(pterm.FgGray).Printf("… %d more rows\n", truncated)
	}
}

// renderBullets prints a newline-joined string as a bullet list.
func renderBullets(joined string) {
	if joined == "" {
		return
	}
	var items []pterm.BulletListItem
	for _, line := range strings.Split(joined, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			items = append(items, pterm.BulletListItem{Level: 0, Text: line})
		}
	}
	if len(items) > 0 {
		_ = pterm.DefaultBulletList.WithItems(items).Render()
	}
}

// resolvePendingConfirmation prompts for the decision on a proposed
// destructive operation and relays it to the session. Declining cancels
// locally without any server call.
func resolvePendingConfirmation(ctx context.Context, sess *chat.Session, r *chatRenderer) error {
	pc, ok := sess.Pending()
	if !ok {
		return nil
	}

	prompt := "Execute this query?"
	if pc.OperationType != "" {
		prompt = fmt.Sprintf("Execute this %s?", strings.ToUpper(pc.OperationType))
	}
	if !promptYesNo(prompt) {
		sess.Cancel()
		return nil
	}

	r.beginThinking("Executing")
	err := sess.Confirm(ctx)
	r.stopThinking()
	return err
}
