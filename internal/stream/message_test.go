// Copyright (c) 2025 FalkorDB
// Licensed under the MIT License. See LICENSE file in the project root for details.

package stream

import (
	"testing"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		frame    string
		wantType Type
		wantText string
	}{
		{
			name:     "reasoning step",
			frame:    `{"type":"reasoning_step","message":"Step 1: Analyzing","final_response":false}`,
			wantType: TypeReasoningStep,
			wantText: "Step 1: Analyzing",
		},
		{
			name:     "ai response",
			frame:    `{"type":"ai_response","message":"There are 42 users.","final_response":true}`,
			wantType: TypeAIResponse,
			wantText: "There are 42 users.",
		},
		{
			name:     "error message",
			frame:    `{"type":"error","message":"something broke"}`,
			wantType: TypeError,
			wantText: "something broke",
		},
		{
			name:     "unknown type preserved",
			frame:    `{"type":"telemetry","message":"ping"}`,
			wantType: Type("telemetry"),
			wantText: "ping",
		},
		{
			name:     "invalid JSON degrades to raw",
			frame:    `not json at all`,
			wantType: TypeRaw,
			wantText: "not json at all",
		},
		{
			name:     "valid JSON without type degrades to raw",
			frame:    `{"message":"untyped"}`,
			wantType: TypeRaw,
			wantText: `{"message":"untyped"}`,
		},
		{
			name:     "JSON scalar degrades to raw",
			frame:    `"just a string"`,
			wantType: TypeRaw,
			wantText: `"just a string"`,
		},
		{
			name:     "surrounding whitespace trimmed in raw fallback",
			frame:    "  half a frame\n",
			wantType: TypeRaw,
			wantText: "half a frame",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Decode(tt.frame)
			if m.Type != tt.wantType {
				t.Errorf("Type = %v, want %v", m.Type, tt.wantType)
			}
			if m.Text != tt.wantText {
				t.Errorf("Text = %q, want %q", m.Text, tt.wantText)
			}
		})
	}
}

func TestDecodeSQLQueryFields(t *testing.T) {
	frame := `{"type":"sql_query","data":"SELECT * FROM users","conf":"high","miss":"","amb":"none","exp":"straight lookup","is_valid":true,"final_response":false}`

	m := Decode(frame)
	if m.Type != TypeSQLQuery {
		t.Fatalf("Type = %v, want %v", m.Type, TypeSQLQuery)
	}
	if got := m.SQL(); got != "SELECT * FROM users" {
		t.Errorf("SQL() = %q, want the data payload", got)
	}
	if m.Confidence.String() != "high" {
		t.Errorf("Confidence = %q, want high", m.Confidence)
	}
	if m.Explanation.String() != "straight lookup" {
		t.Errorf("Explanation = %q", m.Explanation)
	}
	if !m.Valid {
		t.Error("Valid = false, want true")
	}
}

func TestDecodeFlexFieldDrift(t *testing.T) {
	// Analysis fields have shipped as strings, numbers and nulls.
	tests := []struct {
		name string
		conf string
		want string
	}{
		{name: "string", conf: `"0.93"`, want: "0.93"},
		{name: "number", conf: `0.93`, want: "0.93"},
		{name: "null", conf: `null`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Decode(`{"type":"sql_query","data":"SELECT 1","conf":` + tt.conf + `}`)
			if m.Type != TypeSQLQuery {
				t.Fatalf("decode fell back to raw for conf=%s", tt.conf)
			}
			if m.Confidence.String() != tt.want {
				t.Errorf("Confidence = %q, want %q", m.Confidence, tt.want)
			}
		})
	}
}

func TestDecodeDestructiveConfirmation(t *testing.T) {
	frame := `{"type":"destructive_confirmation","message":"Confirm?","sql_query":"DELETE FROM t","operation_type":"DELETE","final_response":false}`

	m := Decode(frame)
	if m.Type != TypeDestructiveConfirm {
		t.Fatalf("Type = %v", m.Type)
	}
	if m.SQL() != "DELETE FROM t" {
		t.Errorf("SQL() = %q, want DELETE FROM t", m.SQL())
	}
	if m.OperationType != "DELETE" {
		t.Errorf("OperationType = %q, want DELETE", m.OperationType)
	}
	if m.Terminal() {
		t.Error("destructive_confirmation must not be terminal; the turn stays open for the decision")
	}
}

func TestDecodeFinalResult(t *testing.T) {
	m := Decode(`{"type":"final_result","success":true,"message":"Database connected and schema loaded successfully"}`)
	if m.Type != TypeFinalResult {
		t.Fatalf("Type = %v", m.Type)
	}
	if !m.Success {
		t.Error("Success = false, want true")
	}
}

func TestTerminal(t *testing.T) {
	tests := []struct {
		typ  Type
		want bool
	}{
		{TypeAIResponse, true},
		{TypeFollowupQuestions, true},
		{TypeError, true},
		{TypeOperationCancelled, true},
		{TypeReasoningStep, false},
		{TypeSQLQuery, false},
		{TypeQueryResult, false},
		{TypeSchemaRefresh, false},
		{TypeDestructiveConfirm, false},
		{TypeConfirmation, false},
		{TypeFinalResult, false},
		{TypeRaw, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			if got := (Message{Type: tt.typ}).Terminal(); got != tt.want {
				t.Errorf("Terminal() = %v, want %v", got, tt.want)
			}
		})
	}
}
