// Copyright (c) 2025 FalkorDB
// Licensed under the MIT License. See LICENSE file in the project root for details.

package stream

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

// chunkReader yields its payload in fixed-size reads to exercise delimiter
// splits across read boundaries.
type chunkReader struct {
	data []byte
	size int
	pos  int
}

func (c *chunkReader) Read(p []byte) (int, error) {
	if c.pos >= len(c.data) {
		return 0, io.EOF
	}
	n := c.size
	if n > len(p) {
		n = len(p)
	}
	if c.pos+n > len(c.data) {
		n = len(c.data) - c.pos
	}
	copy(p, c.data[c.pos:c.pos+n])
	c.pos += n
	return n, nil
}

func collect(t *testing.T, body string, chunkSize int) []Message {
	t.Helper()

	var r io.Reader = strings.NewReader(body)
	if chunkSize > 0 {
		r = &chunkReader{data: []byte(body), size: chunkSize}
	}

	var msgs []Message
	if err := Scan(context.Background(), r, func(m Message) {
		msgs = append(msgs, m)
	}); err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	return msgs
}

func TestScanFraming(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantTypes []Type
		wantTexts []string
	}{
		{
			name:      "empty body yields no messages",
			body:      "",
			wantTypes: nil,
		},
		{
			name:      "single message with trailing delimiter",
			body:      `{"type":"ai_response","message":"hi"}` + Delimiter,
			wantTypes: []Type{TypeAIResponse},
			wantTexts: []string{"hi"},
		},
		{
			name: "multiple messages",
			body: `{"type":"reasoning_step","message":"a"}` + Delimiter +
				`{"type":"status","message":"b"}` + Delimiter +
				`{"type":"ai_response","message":"c"}` + Delimiter,
			wantTypes: []Type{TypeReasoningStep, TypeStatus, TypeAIResponse},
			wantTexts: []string{"a", "b", "c"},
		},
		{
			name:      "undelimited remainder is emitted",
			body:      `{"type":"status","message":"a"}` + Delimiter + `{"type":"ai_response","message":"tail"}`,
			wantTypes: []Type{TypeStatus, TypeAIResponse},
			wantTexts: []string{"a", "tail"},
		},
		{
			name:      "consecutive delimiters produce no blank message",
			body:      Delimiter + Delimiter + `{"type":"status","message":"x"}` + Delimiter + Delimiter,
			wantTypes: []Type{TypeStatus},
			wantTexts: []string{"x"},
		},
		{
			name:      "whitespace-only frame is dropped",
			body:      "  \n " + Delimiter + `{"type":"status","message":"x"}` + Delimiter,
			wantTypes: []Type{TypeStatus},
			wantTexts: []string{"x"},
		},
		{
			name:      "delimiter only",
			body:      Delimiter,
			wantTypes: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msgs := collect(t, tt.body, 0)

			if len(msgs) != len(tt.wantTypes) {
				t.Fatalf("got %d messages, want %d", len(msgs), len(tt.wantTypes))
			}
			for i, m := range msgs {
				if m.Type != tt.wantTypes[i] {
					t.Errorf("message %d type = %v, want %v", i, m.Type, tt.wantTypes[i])
				}
				if tt.wantTexts != nil && m.Text != tt.wantTexts[i] {
					t.Errorf("message %d text = %q, want %q", i, m.Text, tt.wantTexts[i])
				}
			}
		})
	}
}

func TestScanChunkBoundaryInvariance(t *testing.T) {
	body := `{"type":"reasoning_step","message":"Parsing the question"}` + Delimiter +
		`{"type":"sql_query","data":"SELECT name FROM users","conf":"high"}` + Delimiter +
		`{"type":"query_result","data":[{"name":"ada"},{"name":"grace"}]}` + Delimiter +
		`{"type":"ai_response","message":"Two users found."}` + Delimiter

	whole := collect(t, body, 0)

	// Chunk sizes chosen to split the delimiter at every possible offset.
	for _, size := range []int{1, 2, 3, 7, 16, len(Delimiter) - 1, len(Delimiter), len(Delimiter) + 1, 1024} {
		chunked := collect(t, body, size)

		if len(chunked) != len(whole) {
			t.Fatalf("chunk size %d: got %d messages, want %d", size, len(chunked), len(whole))
		}
		for i := range whole {
			if chunked[i].Type != whole[i].Type || chunked[i].Text != whole[i].Text {
				t.Errorf("chunk size %d: message %d = %+v, want %+v", size, i, chunked[i], whole[i])
			}
		}
	}
}

func TestScanContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	body := `{"type":"reasoning_step","message":"one"}` + Delimiter +
		`{"type":"reasoning_step","message":"two"}` + Delimiter +
		`{"type":"ai_response","message":"done"}` + Delimiter

	var seen int
	err := Scan(ctx, strings.NewReader(body), func(m Message) {
		seen++
		cancel() // abort after the first delivered message
	})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Scan() error = %v, want context.Canceled", err)
	}
	if seen != 1 {
		t.Errorf("messages delivered after cancel: got %d, want 1", seen)
	}
}

func TestScanReadError(t *testing.T) {
	r := io.MultiReader(
		strings.NewReader(`{"type":"status","message":"partial"}`+Delimiter),
		&failingReader{},
	)

	var seen []Message
	err := Scan(context.Background(), r, func(m Message) { seen = append(seen, m) })

	if err == nil {
		t.Fatal("expected error from failing reader")
	}
	if len(seen) != 1 || seen[0].Text != "partial" {
		t.Errorf("messages before failure = %+v, want the one complete frame", seen)
	}
}

type failingReader struct{}

func (f *failingReader) Read(p []byte) (int, error) {
	return 0, errors.New("connection reset by peer")
}
