// Copyright (c) 2025 FalkorDB
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrUnauthorized reports a request the backend refused for lack of a
// valid API token.
var ErrUnauthorized = errors.New("unauthorized")

// HTTP implements API over REST endpoints.
// Short management calls share a client with a fixed timeout; streaming
// query responses use a client without one, bounded by the request context
// instead, since a response legitimately stays open while the server thinks.
type HTTP struct {
	// baseURL is the base URL for all HTTP requests (e.g., "https://app.queryweaver.ai")
	baseURL string
	// token is the API token sent as a Bearer credential
	token string
	// session identifies this CLI process across requests
	session string
	// client is the HTTP client for short management requests
	client *http.Client
	// streamClient is the HTTP client for streaming responses
	streamClient *http.Client
}

// newHTTP creates a new HTTP client with the given base URL and API token.
// It configures a 10-second timeout for management requests.
func newHTTP(baseURL, token string) *HTTP {
	return &HTTP{
		baseURL:      strings.TrimRight(baseURL, "/"),
		token:        token,
		session:      uuid.NewString(),
		client:       &http.Client{Timeout: 10 * time.Second},
		streamClient: &http.Client{},
	}
}

// setStandardHeaders applies the headers every backend request carries.
func (h *HTTP) setStandardHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json, */*")
	req.Header.Set("X-Session-ID", h.session)
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}
}

// statusError converts a non-OK response into an error, preferring the
// message the server put in its JSON body over the raw payload.
func statusError(op string, resp *http.Response) error {
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return ErrUnauthorized
	}
	b, _ := io.ReadAll(resp.Body)
	if msg := extractErrorMessage(b); msg != "" {
		return fmt.Errorf("%s failed: %d %s", op, resp.StatusCode, msg)
	}
	return fmt.Errorf("%s failed: %d %s", op, resp.StatusCode, strings.TrimSpace(string(b)))
}

// extractErrorMessage pulls a human-readable message out of an error
// response body. The backend answers with {"error": ...} in some places
// and {"detail": ...} in others; be liberal in what we accept.
func extractErrorMessage(body []byte) string {
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return ""
	}
	for _, key := range []string{"error", "detail", "message"} {
		if v, ok := raw[key].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
