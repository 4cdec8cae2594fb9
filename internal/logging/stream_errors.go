// Copyright (c) 2025 FalkorDB
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
)

// StreamErrorType categorizes a mid-stream failure.
type StreamErrorType int

const (
	StreamErrorUnknown StreamErrorType = iota
	StreamErrorNetwork
	StreamErrorAuth
	StreamErrorTimeout
	StreamErrorServer
)

// ParseStreamError buckets a stream failure by its message text. The
// error arrives as a string (it crossed a response body, not an error
// chain), so sniffing is all there is.
func ParseStreamError(errMsg string) StreamErrorType {
	lower := strings.ToLower(errMsg)
	switch {
	case containsAny(lower, "connection reset", "broken pipe", "unexpected eof", "connection refused"):
		return StreamErrorNetwork
	case containsAny(lower, "status 500", "status 502", "status 503", "internal server error"):
		return StreamErrorServer
	case containsAny(lower, "deadline", "timeout"):
		return StreamErrorTimeout
	case containsAny(lower, "status 401", "status 403", "unauthorized"):
		return StreamErrorAuth
	}
	return StreamErrorUnknown
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// streamAdvice is the user-facing text for one failure category.
type streamAdvice struct {
	summary string
	reasons []string
	action  string
}

func streamAdviceFor(t StreamErrorType) streamAdvice {
	switch t {
	case StreamErrorNetwork:
		return streamAdvice{
			summary: "The connection to QueryWeaver was interrupted while streaming the answer.",
			reasons: []string{
				"Your internet connection was disrupted",
				"The network path to the service was interrupted",
				"A firewall or proxy closed the connection",
			},
			action: "→ Please ask your question again",
		}
	case StreamErrorServer:
		return streamAdvice{
			summary: "An internal error occurred on the QueryWeaver service.",
			reasons: []string{
				"The service encountered an unexpected issue",
				"The service is being updated or restarted",
				"There was a temporary problem processing your question",
			},
			action: "→ Please ask your question again",
		}
	case StreamErrorTimeout:
		return streamAdvice{
			summary: "The connection to QueryWeaver timed out.",
			reasons: []string{
				"Slow or unstable internet connection",
				"The service taking too long to respond",
			},
			action: "→ Please ask your question again",
		}
	case StreamErrorAuth:
		return streamAdvice{
			summary: "Authentication with QueryWeaver failed.",
			reasons: []string{
				"Your API token may have been revoked or expired",
			},
			action: "→ Please run 'queryweaver login' and try again",
		}
	}
	return streamAdvice{
		summary: "The chat stream was interrupted.",
		reasons: []string{
			"Network connection dropped",
			"Service is restarting or under maintenance",
		},
		action: "→ Please ask your question again",
	}
}

// FormatStreamError renders a mid-stream failure: what happened, likely
// causes, what to do, and the masked technical detail at the end.
func FormatStreamError(errMsg string) string {
	a := streamAdviceFor(ParseStreamError(errMsg))

	var b strings.Builder
	b.WriteString(pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprint("Connection Lost"))
	b.WriteString("\n\n")
	b.WriteString(a.summary)
	b.WriteString("\nThis could mean:\n")
	for _, r := range a.reasons {
		b.WriteString("  • " + r + "\n")
	}
	b.WriteString("\n")
	b.WriteString(pterm.NewStyle(pterm.FgYellow).Sprint(a.action))
	b.WriteString("\n")

	if strings.TrimSpace(errMsg) != "" {
		b.WriteString("\n")
		b.WriteString(pterm.NewStyle(pterm.FgGray).Sprint("Technical details: " + Mask(errMsg)))
	}
	return b.String()
}

// PresentStreamError prints FormatStreamError padded with blank lines so
// it stands off from the chat transcript.
func PresentStreamError(errMsg string) {
	fmt.Println()
	fmt.Println(FormatStreamError(errMsg))
	fmt.Println()
}
