// Copyright (c) 2025 FalkorDB
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package auth provides authentication services for the QueryWeaver CLI.
// It manages API token validation and session state. Authentication state
// is persisted through the OS keychain; the token itself never touches a
// plain file.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"queryweaver/cli/internal/backend"
	qwerr "queryweaver/cli/internal/errors"
	"queryweaver/cli/internal/keychain"
	"queryweaver/cli/internal/logging"
)

// Service centralizes authentication-related operations against the backend
// and local secure storage/state.
type Service struct {
	server string
}

// NewService constructs an auth Service for the given server base URL.
func NewService(server string) *Service {
	return &Service{server: strings.TrimRight(server, "/")}
}

// Login validates a pasted API token against the backend, stores it in the
// keychain and records login state. It returns the display label for the
// account and the databases the token can see, so the caller can greet the
// user with something useful.
func (s *Service) Login(ctx context.Context, token string) (string, []string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", nil, qwerr.New(qwerr.TokenRejected, "empty token")
	}

	be := backend.New(s.server, token)
	databases, err := be.ListDatabases(ctx)
	if err != nil {
		if errors.Is(err, backend.ErrUnauthorized) {
			return "", nil, qwerr.Wrap(qwerr.TokenRejected, "the server rejected this token", err)
		}
		return "", nil, qwerr.Wrap(qwerr.RequestFailed, "could not reach the server", err)
	}

	account := resolveAccountLabel(ctx, be, token)

	km, err := keychain.GetManager()
	if err != nil {
		return "", nil, err
	}
	if err := km.SaveAPIToken(token); err != nil {
		return "", nil, err
	}
	if err := Save(State{LoggedIn: true, Account: account, Server: s.server}); err != nil {
		return "", nil, err
	}
	return account, databases, nil
}

// resolveAccountLabel derives a display label for the stored token. When
// the token registry is reachable, the server-side record wins; otherwise
// the masked token itself serves.
func resolveAccountLabel(ctx context.Context, be backend.API, token string) string {
	masked := logging.MaskToken(token)
	tokens, err := be.ListTokens(ctx)
	if err != nil {
		return masked
	}
	last4 := token
	if len(last4) > 4 {
		last4 = last4[len(last4)-4:]
	}
	for _, t := range tokens {
		if t.Last4 == last4 {
			return fmt.Sprintf("api-token ****%s", t.Last4)
		}
	}
	return masked
}

// WhoAmI validates the stored token and returns the account label when it
// is still accepted. A definitive rejection clears local auth; a network
// failure falls back to the locally recorded state so the command still
// answers offline.
func (s *Service) WhoAmI(ctx context.Context) (string, bool, error) {
	km, err := keychain.GetManager()
	if err != nil {
		return "", false, nil // keychain unavailable = not logged in
	}

	token, err := km.LoadAPIToken()
	if err == nil && token != "" {
		be := backend.New(s.serverOrStored(), token)
		if _, err := be.ListDatabases(ctx); err == nil {
			if st, err := Load(); err == nil && st.Account != "" {
				return st.Account, true, nil
			}
			return logging.MaskToken(token), true, nil
		} else if errors.Is(err, backend.ErrUnauthorized) {
			// The token was revoked or expired server-side.
			_ = s.ResetLocalAuth()
			return "", false, nil
		}
	}

	// Final fallback: local state (for offline mode)
	st, err := Load()
	if err != nil {
		return "", false, err
	}
	if st.LoggedIn && st.Account != "" {
		return st.Account, true, nil
	}
	return "", false, nil
}

// Logout clears local credentials and state. There is no remote call: the
// token stays valid for other clients until it is revoked explicitly.
func (s *Service) Logout(ctx context.Context) error {
	return s.ResetLocalAuth()
}

// ResetLocalAuth clears only local credentials/state (no remote calls).
func (s *Service) ResetLocalAuth() error {
	if err := keychain.MustGetManager().ClearAuth(); err != nil {
		return err
	}
	if err := Clear(); err != nil {
		return err
	}
	return nil
}

// Token retrieves the stored API token.
func (s *Service) Token(ctx context.Context) (string, error) {
	token, err := keychain.MustGetManager().LoadAPIToken()
	if err != nil || token == "" {
		return "", qwerr.New(qwerr.AuthRequired, "not logged in; run 'queryweaver login' first")
	}
	return token, nil
}

// API builds a backend client authenticated with the stored token.
func (s *Service) API(ctx context.Context) (backend.API, error) {
	token, err := s.Token(ctx)
	if err != nil {
		return nil, err
	}
	return backend.New(s.serverOrStored(), token), nil
}

// serverOrStored prefers the configured server but falls back to the one
// recorded at login, so a wiped config file does not strand the session.
func (s *Service) serverOrStored() string {
	if s.server != "" {
		return s.server
	}
	if st, err := Load(); err == nil && st.Server != "" {
		return st.Server
	}
	return s.server
}
