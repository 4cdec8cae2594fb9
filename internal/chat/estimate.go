// Copyright (c) 2025 FalkorDB
// Licensed under the MIT License. See LICENSE file in the project root for details.

package chat

import (
	"strings"
	"sync"

	"github.com/tiktoken-go/tokenizer"
)

// ContextEstimate summarizes what the next query request will carry to
// the server.
type ContextEstimate struct {
	Turns   int
	Results int
	Tokens  int
}

// EstimateContext measures the conversation context: turn and result
// counts, plus a token estimate of the combined text.
func (s *Session) EstimateContext() ContextEstimate {
	s.mu.Lock()
	turns := append([]Turn(nil), s.history...)
	results := append([]string(nil), s.results...)
	instructions := s.instructions
	s.mu.Unlock()

	var b strings.Builder
	for _, t := range turns {
		b.WriteString(string(t.Role))
		b.WriteString(": ")
		b.WriteString(t.Text)
		b.WriteString("\n")
	}
	for _, r := range results {
		b.WriteString(r)
		b.WriteString("\n")
	}
	b.WriteString(instructions)

	return ContextEstimate{
		Turns:   len(turns),
		Results: len(results),
		Tokens:  countTokens(b.String()),
	}
}

var (
	codecOnce sync.Once
	codec     tokenizer.Codec
)

// countTokens estimates with the cl100k_base vocabulary, the one the
// server's models bill against. If the codec cannot be loaded, fall back
// to the usual four-characters-per-token rule of thumb.
func countTokens(text string) int {
	if text == "" {
		return 0
	}
	codecOnce.Do(func() {
		if c, err := tokenizer.Get(tokenizer.Cl100kBase); err == nil {
			codec = c
		}
	})
	if codec != nil {
		if ids, _, err := codec.Encode(text); err == nil {
			return len(ids)
		}
	}
	return (len(text) + 3) / 4
}
