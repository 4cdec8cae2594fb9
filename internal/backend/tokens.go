// Copyright (c) 2025 FalkorDB
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// TokenInfo describes one issued API token. The secret itself is never
// returned after issuance; last_4_digits is all the server keeps in the
// clear for display.
type TokenInfo struct {
	TokenID   string `json:"token_id"`
	CreatedAt int64  `json:"created_at"` // unix seconds
	Last4     string `json:"last_4_digits"`
}

// ListTokens calls GET /tokens/list. The server orders tokens newest first.
func (h *HTTP) ListTokens(ctx context.Context) ([]TokenInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+"/tokens/list", nil)
	if err != nil {
		return nil, err
	}
	h.setStandardHeaders(req)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("list tokens", resp)
	}

	var out struct {
		Tokens []TokenInfo `json:"tokens"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return out.Tokens, nil
}

// RevokeToken calls DELETE /tokens/{tokenID}. Revoking the token the CLI
// itself authenticates with locks it out until the next login.
func (h *HTTP) RevokeToken(ctx context.Context, tokenID string) error {
	u := h.baseURL + "/tokens/" + url.PathEscape(tokenID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, u, nil)
	if err != nil {
		return err
	}
	h.setStandardHeaders(req)

	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return statusError("revoke token", resp)
	}
	return nil
}
