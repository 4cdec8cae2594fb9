// Copyright (c) 2025 FalkorDB
// Licensed under the MIT License. See LICENSE file in the project root for details.

package chat

import (
	"context"
	"io"
)

// ConfirmDecision is the confirmation value the server executes on. The
// client never sends a decline; cancelling resolves locally without a
// request.
const ConfirmDecision = "CONFIRM"

// QueryRequest is the body of a streaming query POST.
type QueryRequest struct {
	Chat         []Turn   `json:"chat"`
	Result       []string `json:"result"` // nil encodes as null: no prior results
	Instructions string   `json:"instructions,omitempty"`
	Database     string   `json:"database"`
}

// ConfirmRequest is the body of a streaming confirm POST. Unlike the query
// call, its chat field is plain strings.
type ConfirmRequest struct {
	SQLQuery     string   `json:"sql_query"`
	Confirmation string   `json:"confirmation"`
	Chat         []string `json:"chat"`
}

// Transport performs the streaming exchanges for a session. The returned
// body is the raw delimiter-framed response; the caller owns closing it.
// Implementations must honor ctx cancellation by tearing down the
// underlying connection so in-flight reads unblock.
type Transport interface {
	Query(ctx context.Context, database string, req QueryRequest) (io.ReadCloser, error)
	Confirm(ctx context.Context, database string, req ConfirmRequest) (io.ReadCloser, error)
}
