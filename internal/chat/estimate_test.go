// Copyright (c) 2025 FalkorDB
// Licensed under the MIT License. See LICENSE file in the project root for details.

package chat

import (
	"context"
	"testing"
)

func TestEstimateContextEmpty(t *testing.T) {
	sess := NewSession(&fakeTransport{}, nil)

	est := sess.EstimateContext()
	if est.Turns != 0 || est.Results != 0 || est.Tokens != 0 {
		t.Errorf("expected an all-zero estimate, got %+v", est)
	}
}

func TestEstimateContextCounts(t *testing.T) {
	sess, _, _ := newTestSession(serve(wire(msgResult, msgDone)))
	sess.SetInstructions("Prefer ISO dates.")

	if err := sess.Ask(context.Background(), "How many orders are there?"); err != nil {
		t.Fatalf("ask failed: %v", err)
	}

	est := sess.EstimateContext()
	if est.Turns != 2 {
		t.Errorf("expected 2 turns, got %d", est.Turns)
	}
	if est.Results != 1 {
		t.Errorf("expected 1 logged result, got %d", est.Results)
	}
	if est.Tokens <= 0 {
		t.Errorf("expected a positive token estimate, got %d", est.Tokens)
	}
}
