// Copyright (c) 2025 FalkorDB
// Licensed under the MIT License. See LICENSE file in the project root for details.

package serverurl

import "fmt"

// Info contains parsed information from a server URL.
type Info struct {
	Scheme   string
	Host     string
	Port     string
	Path     string
	Original string
}

// String returns the original URL string.
func (i *Info) String() string {
	return i.Original
}

// ParseError represents an error that occurred during server URL parsing.
type ParseError struct {
	URL    string
	Reason string
	Hint   string
}

func (e *ParseError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("invalid server URL: %s\nHint: %s", e.Reason, e.Hint)
	}
	return fmt.Sprintf("invalid server URL: %s", e.Reason)
}

// NewParseError creates a new ParseError.
func NewParseError(rawURL, reason, hint string) *ParseError {
	return &ParseError{
		URL:    rawURL,
		Reason: reason,
		Hint:   hint,
	}
}
