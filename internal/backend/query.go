// Copyright (c) 2025 FalkorDB
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"queryweaver/cli/internal/chat"
)

// Query calls POST /graphs/{database} with the conversation payload and
// returns the streaming response body. A non-OK status is a transport
// failure; protocol-level errors arrive as framed messages inside an OK
// body instead.
func (h *HTTP) Query(ctx context.Context, database string, req chat.QueryRequest) (io.ReadCloser, error) {
	u := h.baseURL + "/graphs/" + url.PathEscape(database)
	return h.postStream(ctx, "query", u, req)
}

// Confirm calls POST /graphs/{database}/confirm to execute a previously
// proposed destructive operation. The response streams like a query.
func (h *HTTP) Confirm(ctx context.Context, database string, req chat.ConfirmRequest) (io.ReadCloser, error) {
	u := h.baseURL + "/graphs/" + url.PathEscape(database) + "/confirm"
	return h.postStream(ctx, "confirm", u, req)
}

func (h *HTTP) postStream(ctx context.Context, op, u string, payload any) (io.ReadCloser, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	h.setStandardHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.streamClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, statusError(op, resp)
	}
	return resp.Body, nil
}
