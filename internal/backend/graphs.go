// Copyright (c) 2025 FalkorDB
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// Column is one column of an introspected table.
type Column struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Table is one table of an introspected database schema. The wire calls
// tables "nodes"; the schema is shipped as a graph.
type Table struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Columns []Column `json:"columns"`
}

// Relation is a foreign-key edge between two tables.
type Relation struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Schema is the table/relationship graph of one database.
type Schema struct {
	Tables    []Table    `json:"nodes"`
	Relations []Relation `json:"links"`
}

// ListDatabases calls GET /graphs and returns the available database names.
func (h *HTTP) ListDatabases(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+"/graphs", nil)
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
		return nil, statusError("list databases", resp)
	}

	// The endpoint answers with a bare array; accept a wrapped object too.
	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}
	return extractNames(raw)
}

// extractNames accepts ["a","b"] as well as {"graphs": [...]} or
// {"databases": [...]} shaped payloads.
func extractNames(raw json.RawMessage) ([]string, error) {
	var names []string
	if err := json.Unmarshal(raw, &names); err == nil {
		return names, nil
	}
	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapped); err == nil {
		for _, key := range []string{"graphs", "databases"} {
			if inner, ok := wrapped[key]; ok {
				if err := json.Unmarshal(inner, &names); err == nil {
					return names, nil
				}
			}
		}
	}
	return nil, errors.New("unexpected database list response")
}

// GetSchema calls GET /graphs/{database}/data and returns the schema graph.
func (h *HTTP) GetSchema(ctx context.Context, database string) (*Schema, error) {
	u := h.baseURL + "/graphs/" + url.PathEscape(database) + "/data"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
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
		return nil, statusError("get schema", resp)
	}

	var schema Schema
	if err := json.NewDecoder(resp.Body).Decode(&schema); err != nil {
		return nil, err
	}
	return &schema, nil
}

// RefreshSchema calls POST /graphs/{database}/refresh. The response streams
// re-introspection progress in the same delimiter-framed protocol as
// queries, so it uses the stream client and hands the body to the caller.
func (h *HTTP) RefreshSchema(ctx context.Context, database string) (io.ReadCloser, error) {
	u := h.baseURL + "/graphs/" + url.PathEscape(database) + "/refresh"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, nil)
	if err != nil {
		return nil, err
	}
	h.setStandardHeaders(req)

	resp, err := h.streamClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, statusError("refresh schema", resp)
	}
	return resp.Body, nil
}

// DeleteDatabase calls DELETE /graphs/{database}.
func (h *HTTP) DeleteDatabase(ctx context.Context, database string) error {
	u := h.baseURL + "/graphs/" + url.PathEscape(database)
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

	if resp.StatusCode != http.StatusOK {
		return statusError("delete database", resp)
	}

	var out struct {
		Success bool   `json:"success"`
		Graph   string `json:"graph"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return err
	}
	if !out.Success {
		return fmt.Errorf("delete database: server refused to remove %q", database)
	}
	return nil
}
