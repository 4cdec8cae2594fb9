package chat

import "queryweaver/cli/internal/stream"

// EventType identifies session events delivered to the UI sink.
type EventType string

const (
	// EventProgress is an incremental reasoning/status line; transient.
	EventProgress EventType = "progress"
	// EventSQL carries the generated statement and its analysis fields.
	EventSQL EventType = "sql"
	// EventResult carries a normalized result table.
	EventResult EventType = "result"
	// EventAnswer is the final natural-language answer of a turn.
	EventAnswer EventType = "answer"
	// EventFollowup asks the user for clarification; ends the turn.
	EventFollowup EventType = "followup"
	// EventConfirmRequest proposes a destructive operation for approval.
	EventConfirmRequest EventType = "confirm_request"
	// EventNotice is an informational side-channel line.
	EventNotice EventType = "notice"
	// EventText renders unrecognized or undecodable frames verbatim.
	EventText EventType = "text"
	// EventError is a server-reported failure; ends the turn.
	EventError EventType = "error"
)

// Event is one UI-facing occurrence within a session. Fields beyond Type
// and Text are populated per event type.
type Event struct {
	Type EventType
	Text string

	// EventSQL / EventConfirmRequest
	SQL         string
	Operation   string
	Confidence  string
	Missing     string
	Ambiguities string
	Explanation string
	Valid       bool

	// EventResult
	Table   stream.Table
	Tabular bool
}

// Sink receives session events synchronously, in stream order.
type Sink func(Event)
