// Copyright (c) 2025 FalkorDB
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package chat holds the conversation state machine of the CLI. A Session
// owns the conversation history for one database target, drives streamed
// responses through the protocol decoder, arbitrates destructive-operation
// confirmations and ties every outstanding request to a cancellation token.
package chat

import (
	"context"
	"errors"
	"strings"
	"sync"

	qwerr "queryweaver/cli/internal/errors"
	"queryweaver/cli/internal/stream"
)

// State is the dispatcher state of a session.
type State string

const (
	// StateIdle accepts new questions.
	StateIdle State = "idle"
	// StateStreaming has a request in flight and input disabled.
	StateStreaming State = "streaming"
	// StateAwaitingConfirmation holds a destructive proposal; only
	// Confirm or Cancel move the session on.
	StateAwaitingConfirmation State = "awaiting_confirmation"
)

// PendingConfirmation is an unresolved destructive-operation proposal. At
// most one exists per session; while it does, new questions are refused.
type PendingConfirmation struct {
	SQLQuery      string
	OperationType string
	PromptText    string
	History       []Turn // snapshot taken when the proposal arrived
}

// Session is one conversation against one database target. All methods
// are safe for concurrent use; Interrupt in particular is expected to be
// called from a signal-handling goroutine while Ask blocks.
type Session struct {
	mu        sync.Mutex
	transport Transport
	sink      Sink

	database     string
	instructions string

	history []Turn
	results []string

	state   State
	pending *PendingConfirmation

	// cancel aborts the in-flight request; generation lets late frames
	// from a superseded request be decoded and discarded without effect.
	cancel     context.CancelFunc
	generation int
}

// NewSession creates a session delivering events to sink. A nil sink
// discards events.
func NewSession(transport Transport, sink Sink) *Session {
	if sink == nil {
		sink = func(Event) {}
	}
	return &Session{
		transport: transport,
		sink:      sink,
		state:     StateIdle,
	}
}

// State returns the current dispatcher state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Database returns the active target, or "" when none is selected.
func (s *Session) Database() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.database
}

// SetInstructions attaches standing instructions to every future query.
func (s *Session) SetInstructions(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.instructions = strings.TrimSpace(text)
}

// Instructions returns the standing instructions.
func (s *Session) Instructions() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.instructions
}

// History returns a copy of the conversation turns.
func (s *Session) History() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Turn, len(s.history))
	copy(out, s.history)
	return out
}

// Pending returns the unresolved destructive proposal, if any.
func (s *Session) Pending() (PendingConfirmation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return PendingConfirmation{}, false
	}
	return *s.pending, true
}

// UseDatabase switches the active target. Changing targets aborts any
// in-flight request, drops any pending confirmation and clears the
// conversation history and result log; selecting the current target
// again is a no-op.
func (s *Session) UseDatabase(name string) {
	name = strings.TrimSpace(name)

	s.mu.Lock()
	if name == s.database {
		s.mu.Unlock()
		return
	}
	s.abortLocked()
	s.database = name
	s.history = nil
	s.results = nil
	s.pending = nil
	s.state = StateIdle
	s.mu.Unlock()
}

// Reset clears the conversation history and result log for the current
// target, aborting any in-flight request. No network calls are made.
func (s *Session) Reset() {
	s.mu.Lock()
	s.abortLocked()
	s.history = nil
	s.results = nil
	s.pending = nil
	s.state = StateIdle
	s.mu.Unlock()
}

// Interrupt aborts the in-flight request, if any. The aborted request
// appends no further conversation turns; a notice is emitted so the user
// sees why the stream stopped. Interrupting an idle session does nothing;
// interrupting twice is the same as once.
func (s *Session) Interrupt() {
	s.mu.Lock()
	if s.state != StateStreaming {
		s.mu.Unlock()
		return
	}
	s.abortLocked()
	s.state = StateIdle
	s.mu.Unlock()

	s.sink(Event{Type: EventNotice, Text: "Query paused by user."})
}

// abortLocked cancels the in-flight request and invalidates its frames.
// Callers hold s.mu.
func (s *Session) abortLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.generation++
}

// Ask submits a natural-language question and blocks until its response
// stream ends. Events are delivered to the sink as frames arrive. Any
// request still in flight is cancelled first; its late frames are
// discarded. Ask refuses to run while a destructive confirmation is
// pending.
func (s *Session) Ask(ctx context.Context, question string) error {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil
	}

	s.mu.Lock()
	if s.database == "" {
		s.mu.Unlock()
		return qwerr.New(qwerr.NoDatabase, "no database selected; pick one first")
	}
	if s.pending != nil {
		s.mu.Unlock()
		return qwerr.New(qwerr.ConfirmationPending, "a destructive operation is awaiting confirmation")
	}

	s.abortLocked()
	gen := s.generation
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.state = StateStreaming

	s.history = append(s.history, Turn{Role: RoleUser, Text: question})
	req := QueryRequest{
		Chat:         append([]Turn(nil), s.history...),
		Result:       append([]string(nil), s.results...),
		Instructions: s.instructions,
		Database:     s.database,
	}
	database := s.database
	s.mu.Unlock()

	body, err := s.transport.Query(runCtx, database, req)
	if err != nil {
		return s.finishTransport(gen, cancel, "query request failed", err)
	}
	defer body.Close()

	scanErr := stream.Scan(runCtx, body, func(m stream.Message) {
		s.dispatch(gen, m)
	})
	return s.finish(gen, cancel, scanErr)
}

// Confirm executes the pending destructive operation by sending the
// second-phase request and streaming its result through the dispatcher.
// With nothing pending, or while a stream is already running, Confirm is
// a no-op; duplicate UI events must not trigger duplicate executions.
func (s *Session) Confirm(ctx context.Context) error {
	s.mu.Lock()
	if s.pending == nil || s.state == StateStreaming {
		s.mu.Unlock()
		return nil
	}
	pc := *s.pending

	s.abortLocked()
	gen := s.generation
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.state = StateStreaming
	database := s.database
	s.mu.Unlock()

	req := ConfirmRequest{
		SQLQuery:     pc.SQLQuery,
		Confirmation: ConfirmDecision,
		Chat:         texts(pc.History),
	}

	body, err := s.transport.Confirm(runCtx, database, req)
	if err != nil {
		return s.finishTransport(gen, cancel, "confirm request failed", err)
	}
	defer body.Close()

	scanErr := stream.Scan(runCtx, body, func(m stream.Message) {
		s.dispatch(gen, m)
	})
	return s.finish(gen, cancel, scanErr)
}

// Cancel declines the pending destructive operation. Purely local: the
// proposal is dropped, a cancellation notice joins the history as an
// assistant turn, and no request of any kind is sent — the proposed
// statement is guaranteed never executed. Cancelling with nothing
// pending is a no-op.
func (s *Session) Cancel() {
	s.mu.Lock()
	if s.pending == nil {
		s.mu.Unlock()
		return
	}
	s.pending = nil
	s.state = StateIdle
	notice := "Operation cancelled. The destructive SQL query was not executed."
	s.history = append(s.history, Turn{Role: RoleAssistant, Text: notice})
	s.mu.Unlock()

	s.sink(Event{Type: EventNotice, Text: notice})
}

// finishTransport settles session state after a request failed before any
// frame arrived.
func (s *Session) finishTransport(gen int, cancel context.CancelFunc, msg string, err error) error {
	cancel()

	s.mu.Lock()
	if gen != s.generation {
		// Superseded while connecting; the newer request owns the state.
		s.mu.Unlock()
		return nil
	}
	s.cancel = nil
	s.state = StateIdle
	s.mu.Unlock()

	return qwerr.Wrap(qwerr.RequestFailed, msg, err)
}

// finish settles session state after a response stream ends.
func (s *Session) finish(gen int, cancel context.CancelFunc, scanErr error) error {
	cancel()

	s.mu.Lock()
	if gen != s.generation {
		// Interrupted or superseded; whoever bumped the generation
		// already settled the state, and this stream's verdict is moot.
		s.mu.Unlock()
		return nil
	}
	s.cancel = nil

	// The stream ending is a turn boundary even without a terminal
	// message. An unresolved destructive proposal keeps the session
	// gated on it, so AwaitingConfirmation survives the stream's end.
	if s.state == StateStreaming {
		s.state = StateIdle
	}
	s.mu.Unlock()

	if scanErr == nil {
		return nil
	}
	if errors.Is(scanErr, context.Canceled) || errors.Is(scanErr, context.DeadlineExceeded) {
		return scanErr
	}
	return qwerr.Wrap(qwerr.StreamInterrupted, "response stream ended abnormally", scanErr)
}
