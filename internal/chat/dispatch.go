// Copyright (c) 2025 FalkorDB
// Licensed under the MIT License. See LICENSE file in the project root for details.

package chat

import (
	"strings"

	"queryweaver/cli/internal/stream"
)

// dispatch routes one decoded frame through the session state machine.
// Frames from a superseded generation are dropped outright: a cancelled
// request may keep delivering frames until its body closes, and none of
// them may touch state or reach the sink. Events are emitted after the
// lock is released so a sink may call back into the session.
func (s *Session) dispatch(gen int, m stream.Message) {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return
	}

	var ev Event
	switch m.Type {
	case stream.TypeReasoning, stream.TypeReasoningStep, stream.TypeStatus:
		ev = Event{Type: EventProgress, Text: m.Text}

	case stream.TypeSQLQuery:
		ev = Event{
			Type:        EventSQL,
			Text:        m.Text,
			SQL:         m.SQL(),
			Confidence:  m.Confidence.String(),
			Missing:     m.Missing.String(),
			Ambiguities: m.Ambiguities.String(),
			Explanation: m.Explanation.String(),
			Valid:       m.Valid,
		}

	case stream.TypeQueryResult:
		raw := strings.TrimSpace(string(m.Data))
		if raw != "" && raw != "null" {
			s.results = append(s.results, raw)
		}
		table, tabular := stream.ParseTable(m.Data)
		ev = Event{Type: EventResult, Text: raw, Table: table, Tabular: tabular}

	case stream.TypeAIResponse:
		s.closeTurnLocked(m.Text)
		ev = Event{Type: EventAnswer, Text: m.Text}

	case stream.TypeFollowupQuestions:
		ev = Event{
			Type:        EventFollowup,
			Text:        m.Text,
			Missing:     strings.Join(m.MissingInfo, "\n"),
			Ambiguities: strings.Join(m.Ambiguous, "\n"),
		}
		s.closeTurnLocked(followupTurn(m))

	case stream.TypeDestructiveConfirm, stream.TypeConfirmation:
		if s.pending != nil {
			// Never replace a live proposal behind the user's back.
			ev = Event{Type: EventNotice, Text: "A destructive operation is already awaiting confirmation; ignoring a new proposal."}
			break
		}
		s.pending = &PendingConfirmation{
			SQLQuery:      m.SQL(),
			OperationType: m.OperationType,
			PromptText:    m.Text,
			History:       append([]Turn(nil), s.history...),
		}
		s.state = StateAwaitingConfirmation
		ev = Event{
			Type:      EventConfirmRequest,
			Text:      m.Text,
			SQL:       m.SQL(),
			Operation: m.OperationType,
		}

	case stream.TypeOperationCancelled:
		text := m.Text
		if text == "" {
			text = "Operation cancelled."
		}
		s.closeTurnLocked(text)
		ev = Event{Type: EventNotice, Text: text}

	case stream.TypeError:
		// Errors end the turn but contribute nothing to the history;
		// the model never saw a failed turn's answer either.
		s.closeTurnLocked("")
		ev = Event{Type: EventError, Text: m.Text}

	case stream.TypeHealingAttempt:
		text := m.Text
		if text == "" {
			text = "Query failed; attempting an automatic fix."
		}
		ev = Event{Type: EventProgress, Text: text, SQL: m.HealedSQL}

	case stream.TypeHealingSuccess:
		text := m.Text
		if text == "" {
			text = "Automatic fix succeeded."
		}
		ev = Event{Type: EventProgress, Text: text}

	case stream.TypeSchemaRefresh:
		ev = Event{Type: EventNotice, Text: refreshNotice(m)}

	default:
		// TypeRaw and tagged types this build does not know. Show the
		// text rather than hiding server output behind a version skew.
		ev = Event{Type: EventText, Text: m.Text}
	}
	s.mu.Unlock()

	if ev.Type != "" {
		s.sink(ev)
	}
}

// closeTurnLocked settles the first terminal message of a stream: the
// assistant's turn joins the history (unless empty), any pending proposal
// is resolved, and the session returns to idle. Terminal messages after
// the first render without bookkeeping, so one exchange never yields two
// assistant turns. Callers hold s.mu.
func (s *Session) closeTurnLocked(turnText string) {
	if s.state != StateStreaming {
		return
	}
	if turnText != "" {
		s.history = append(s.history, Turn{Role: RoleAssistant, Text: turnText})
	}
	s.pending = nil
	s.state = StateIdle
}

// followupTurn flattens a followup_questions message into the single
// history turn the server expects to see echoed back.
func followupTurn(m stream.Message) string {
	var b strings.Builder
	b.WriteString(m.Text)
	for _, q := range m.MissingInfo {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("- " + q)
	}
	for _, q := range m.Ambiguous {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("- " + q)
	}
	return b.String()
}

func refreshNotice(m stream.Message) string {
	if m.Text != "" {
		return m.Text
	}
	if m.RefreshStatus == "failed" {
		return "Schema refresh failed."
	}
	return "Schema refresh complete."
}
