// Copyright (c) 2025 FalkorDB
// Licensed under the MIT License. See LICENSE file in the project root for details.

package stream

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Table is a query_result payload normalized for display. Column identity
// comes from the first row's key set, in the order the server wrote them;
// rows keep arrival order. Columns is nil for positional (array-of-array)
// payloads.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Empty reports whether the table holds no rows.
func (t Table) Empty() bool { return len(t.Rows) == 0 }

// ParseTable interprets a query_result data payload. It accepts the shapes
// the server has emitted over time: an array of row objects, an array of
// row arrays, or an array of scalars. ok is false when the payload is not
// tabular at all (null, absent, or a non-array value).
func ParseTable(raw json.RawMessage) (t Table, ok bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return Table{}, false
	}

	var rows []json.RawMessage
	if err := json.Unmarshal(trimmed, &rows); err != nil {
		return Table{}, false
	}
	if len(rows) == 0 {
		return Table{}, true
	}

	first := bytes.TrimSpace(rows[0])
	if len(first) == 0 {
		return Table{}, false
	}
	switch first[0] {
	case '{':
		return parseObjectRows(rows)
	case '[':
		return parseArrayRows(rows)
	default:
		return parseScalarRows(rows)
	}
}

// parseObjectRows handles the common shape: one JSON object per row.
func parseObjectRows(rows []json.RawMessage) (Table, bool) {
	cols := firstRowColumns(rows[0])
	if len(cols) == 0 {
		return Table{}, false
	}

	t := Table{Columns: cols}
	for _, r := range rows {
		var m map[string]any
		if err := json.Unmarshal(r, &m); err != nil {
			continue
		}
		row := make([]string, len(cols))
		for i, c := range cols {
			row[i] = formatCell(m[c])
		}
		t.Rows = append(t.Rows, row)
	}
	return t, true
}

func parseArrayRows(rows []json.RawMessage) (Table, bool) {
	var t Table
	for _, r := range rows {
		var cells []any
		if err := json.Unmarshal(r, &cells); err != nil {
			continue
		}
		row := make([]string, len(cells))
		for i, c := range cells {
			row[i] = formatCell(c)
		}
		t.Rows = append(t.Rows, row)
	}
	return t, true
}

func parseScalarRows(rows []json.RawMessage) (Table, bool) {
	var t Table
	for _, r := range rows {
		var v any
		if err := json.Unmarshal(r, &v); err != nil {
			continue
		}
		t.Rows = append(t.Rows, []string{formatCell(v)})
	}
	return t, true
}

// firstRowColumns extracts the first row's keys in wire order. A plain
// map[string]any unmarshal would randomize them, so walk the tokens.
func firstRowColumns(row json.RawMessage) []string {
	dec := json.NewDecoder(bytes.NewReader(row))
	tok, err := dec.Token()
	if err != nil || tok != json.Delim('{') {
		return nil
	}

	var cols []string
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil
		}
		key, isString := keyTok.(string)
		if !isString {
			return nil
		}
		cols = append(cols, key)

		var discard json.RawMessage
		if err := dec.Decode(&discard); err != nil {
			return nil
		}
	}
	return cols
}

func formatCell(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case json.Number:
		return val.String()
	default:
		// Nested objects/arrays stay as compact JSON.
		b, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
