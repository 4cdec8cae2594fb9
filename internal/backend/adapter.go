// Copyright (c) 2025 FalkorDB
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package backend provides interfaces and implementations for communicating with the QueryWeaver backend service.
// It defines the API contract for database management, token management and the
// streaming query exchanges. The package includes both interface definitions and
// HTTP-based implementations.
package backend

import (
	"context"
	"io"

	"queryweaver/cli/internal/chat"
)

// API defines backend operations the CLI depends on.
// Implementations may call real HTTP endpoints or provide mocks for tests.
// The embedded chat.Transport carries the streaming query and confirm
// exchanges a chat session performs.
type API interface {
	chat.Transport

	// ListDatabases returns the names of the databases available to the
	// authenticated user. It doubles as the cheapest token validity probe.
	ListDatabases(ctx context.Context) ([]string, error)
	// GetSchema retrieves the table/relationship graph of one database.
	GetSchema(ctx context.Context, database string) (*Schema, error)
	// RefreshSchema re-introspects a database on the server. The returned
	// body streams progress in the delimiter-framed protocol; the caller
	// owns closing it.
	RefreshSchema(ctx context.Context, database string) (io.ReadCloser, error)
	// DeleteDatabase removes a database registration from the server.
	DeleteDatabase(ctx context.Context, database string) error
	// ListTokens returns metadata for the API tokens issued to the account.
	ListTokens(ctx context.Context) ([]TokenInfo, error)
	// RevokeToken invalidates one API token by its identifier.
	RevokeToken(ctx context.Context, tokenID string) error
}
