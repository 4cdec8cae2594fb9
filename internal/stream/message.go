// Copyright (c) 2025 FalkorDB
// Licensed under the MIT License. See LICENSE file in the project root for details.

package stream

import (
	"encoding/json"
	"strings"
)

// Type discriminates streamed messages.
type Type string

// Message types emitted by the server. Anything outside this set is
// rendered as plain text rather than rejected.
const (
	TypeReasoning          Type = "reasoning"
	TypeReasoningStep      Type = "reasoning_step"
	TypeStatus             Type = "status"
	TypeSQLQuery           Type = "sql_query"
	TypeQueryResult        Type = "query_result"
	TypeAIResponse         Type = "ai_response"
	TypeFollowupQuestions  Type = "followup_questions"
	TypeDestructiveConfirm Type = "destructive_confirmation"
	TypeConfirmation       Type = "confirmation"
	TypeSchemaRefresh      Type = "schema_refresh"
	TypeError              Type = "error"
	TypeHealingAttempt     Type = "healing_attempt"
	TypeHealingSuccess     Type = "healing_success"
	TypeOperationCancelled Type = "operation_cancelled"

	// TypeFinalResult closes schema-extraction streams (connect, refresh);
	// it does not occur in query streams.
	TypeFinalResult Type = "final_result"

	// TypeRaw is synthesized locally for frames that are not valid tagged
	// JSON; the original frame text is carried verbatim.
	TypeRaw Type = "raw"
)

// Flex is a JSON value rendered as text regardless of its wire type.
// Analysis fields come straight out of an LLM and have drifted between
// strings, numbers and nulls across server versions.
type Flex string

func (f *Flex) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = Flex(s)
		return nil
	}
	*f = Flex(string(b))
	return nil
}

func (f Flex) String() string { return string(f) }

// StringList tolerates a bare string where a string array is expected,
// for the same reason Flex exists.
type StringList []string

func (l *StringList) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		*l = nil
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*l = StringList{s}
		return nil
	}
	var items []string
	if err := json.Unmarshal(b, &items); err != nil {
		return err
	}
	*l = StringList(items)
	return nil
}

// Message is one decoded frame of a streamed response.
//
// Data is polymorphic on the wire: a JSON string holding the generated SQL
// for sql_query, an array of row objects for query_result. It is kept raw
// here; use SQL and ParseTable to interpret it.
type Message struct {
	Type          Type            `json:"type"`
	Text          string          `json:"message,omitempty"`
	Data          json.RawMessage `json:"data,omitempty"`
	Confidence    Flex            `json:"conf,omitempty"`
	Missing       Flex            `json:"miss,omitempty"`
	Ambiguities   Flex            `json:"amb,omitempty"`
	Explanation   Flex            `json:"exp,omitempty"`
	Valid         bool            `json:"is_valid,omitempty"`
	Final         bool            `json:"final_response,omitempty"`
	Success       bool            `json:"success,omitempty"`
	SQLQuery      string          `json:"sql_query,omitempty"`
	OperationType string          `json:"operation_type,omitempty"`
	RefreshStatus string          `json:"refresh_status,omitempty"`
	OriginalError string          `json:"original_error,omitempty"`
	HealedSQL     string          `json:"healed_sql,omitempty"`
	MissingInfo   StringList      `json:"missing_information,omitempty"`
	Ambiguous     StringList      `json:"ambiguities,omitempty"`
}

// Decode parses one raw frame into a Message. Frames that are not valid
// JSON, or valid JSON without a type tag, degrade to a TypeRaw message
// carrying the trimmed frame text; decoding never fails.
func Decode(frame string) Message {
	text := strings.TrimSpace(frame)
	var m Message
	if err := json.Unmarshal([]byte(text), &m); err != nil || m.Type == "" {
		return Message{Type: TypeRaw, Text: text}
	}
	return m
}

// SQL returns the SQL statement carried by the message, preferring the
// explicit sql_query field over a string-typed data payload.
func (m Message) SQL() string {
	if m.SQLQuery != "" {
		return m.SQLQuery
	}
	if len(m.Data) > 0 {
		var s string
		if err := json.Unmarshal(m.Data, &s); err == nil {
			return s
		}
	}
	return ""
}

// Terminal reports whether the message ends a conversation turn. The
// stream keeps flowing after progress messages; it is expected to close
// shortly after a terminal one.
func (m Message) Terminal() bool {
	switch m.Type {
	case TypeAIResponse, TypeFollowupQuestions, TypeError, TypeOperationCancelled:
		return true
	}
	return false
}
