// Copyright (c) 2025 FalkorDB
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"queryweaver/cli/internal/chat"
)

func TestListDatabases(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{name: "bare array", body: `["shop", "warehouse"]`, want: []string{"shop", "warehouse"}},
		{name: "wrapped object", body: `{"graphs": ["shop"]}`, want: []string{"shop"}},
		{name: "empty", body: `[]`, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet || r.URL.Path != "/graphs" {
					t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
				}
				if got := r.Header.Get("Authorization"); got != "Bearer tok_test" {
					t.Errorf("unexpected authorization header: %q", got)
				}
				if r.Header.Get("X-Session-ID") == "" {
					t.Error("missing session header")
				}
				io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			api := New(srv.URL, "tok_test")
			got, err := api.ListDatabases(context.Background())
			if err != nil {
				t.Fatalf("list failed: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("expected %v, got %v", tt.want, got)
				}
			}
		})
	}
}

func TestListDatabasesUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"detail": "Invalid token"}`)
	}))
	defer srv.Close()

	api := New(srv.URL, "tok_bad")
	_, err := api.ListDatabases(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestQueryPostsConversationAndStreams(t *testing.T) {
	const streamed = `{"type": "ai_response", "message": "Done"}|||FALKORDB_MESSAGE_BOUNDARY|||`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/graphs/shop" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type: %q", ct)
		}
		var req chat.QueryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("bad request body: %v", err)
		}
		if req.Database != "shop" || len(req.Chat) != 1 || req.Chat[0].Text != "count orders" {
			t.Errorf("unexpected payload: %+v", req)
		}
		io.WriteString(w, streamed)
	}))
	defer srv.Close()

	api := New(srv.URL, "tok_test")
	body, err := api.Query(context.Background(), "shop", chat.QueryRequest{
		Chat:     []chat.Turn{{Role: chat.RoleUser, Text: "count orders"}},
		Database: "shop",
	})
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	defer body.Close()

	got, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(got) != streamed {
		t.Errorf("body not passed through verbatim: %q", got)
	}
}

func TestQuerySurfacesServerErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error": "Graph not found"}`)
	}))
	defer srv.Close()

	api := New(srv.URL, "tok_test")
	_, err := api.Query(context.Background(), "missing", chat.QueryRequest{Database: "missing"})
	if err == nil || !strings.Contains(err.Error(), "Graph not found") {
		t.Fatalf("expected the server message in the error, got %v", err)
	}
}

func TestConfirmPostsDecision(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/graphs/shop/confirm" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var req chat.ConfirmRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("bad request body: %v", err)
		}
		if req.Confirmation != "CONFIRM" {
			t.Errorf("expected CONFIRM, got %q", req.Confirmation)
		}
		if req.SQLQuery != "DELETE FROM orders" || len(req.Chat) != 2 {
			t.Errorf("unexpected payload: %+v", req)
		}
		io.WriteString(w, `{"type": "ai_response", "message": "Deleted"}|||FALKORDB_MESSAGE_BOUNDARY|||`)
	}))
	defer srv.Close()

	api := New(srv.URL, "tok_test")
	body, err := api.Confirm(context.Background(), "shop", chat.ConfirmRequest{
		SQLQuery:     "DELETE FROM orders",
		Confirmation: chat.ConfirmDecision,
		Chat:         []string{"drop them", "Confirm?"},
	})
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	body.Close()
}

func TestDeleteDatabase(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		expectError bool
	}{
		{name: "removed", status: http.StatusOK, body: `{"success": true, "graph": "shop"}`},
		{name: "refused", status: http.StatusOK, body: `{"success": false, "graph": "shop"}`, expectError: true},
		{name: "missing", status: http.StatusNotFound, body: `{"detail": "Graph not found"}`, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodDelete || r.URL.Path != "/graphs/shop" {
					t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
				}
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			api := New(srv.URL, "tok_test")
			err := api.DeleteDatabase(context.Background(), "shop")
			if tt.expectError && err == nil {
				t.Fatal("expected an error")
			}
			if !tt.expectError && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestListTokens(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/tokens/list" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		io.WriteString(w, `{"tokens": [{"token_id": "tid-1", "created_at": 1756000000, "last_4_digits": "9f8e"}]}`)
	}))
	defer srv.Close()

	api := New(srv.URL, "tok_test")
	tokens, err := api.ListTokens(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(tokens) != 1 {
		t.Fatalf("expected one token, got %d", len(tokens))
	}
	if tokens[0].TokenID != "tid-1" || tokens[0].CreatedAt != 1756000000 || tokens[0].Last4 != "9f8e" {
		t.Errorf("unexpected token info: %+v", tokens[0])
	}
}

func TestRevokeToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/tokens/tid-1" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		io.WriteString(w, `{"message": "Token deleted successfully"}`)
	}))
	defer srv.Close()

	api := New(srv.URL, "tok_test")
	if err := api.RevokeToken(context.Background(), "tid-1"); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
}

func TestRevokeTokenNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"detail": "Token not found"}`)
	}))
	defer srv.Close()

	api := New(srv.URL, "tok_test")
	err := api.RevokeToken(context.Background(), "tid-9")
	if err == nil || !strings.Contains(err.Error(), "Token not found") {
		t.Fatalf("expected the server detail in the error, got %v", err)
	}
}
