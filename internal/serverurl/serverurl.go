// Copyright (c) 2025 FalkorDB
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package serverurl parses and normalizes the QueryWeaver server base URL.
// Users paste URLs in many shapes (bare hosts, trailing slashes, reverse-proxy
// path prefixes); every endpoint builder in the CLI assumes the canonical form
// produced here: scheme://host[:port][/path] with no trailing slash.
package serverurl

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Normalize parses a server URL and returns it in canonical form.
// This is the main entry point for server URL handling.
func Normalize(raw string) (string, error) {
	info, err := ParseInfo(raw)
	if err != nil {
		return "", err
	}

	var builder strings.Builder
	builder.WriteString(info.Scheme)
	builder.WriteString("://")
	builder.WriteString(info.Host)
	if info.Port != "" {
		builder.WriteString(":")
		builder.WriteString(info.Port)
	}
	builder.WriteString(info.Path)

	return builder.String(), nil
}

// Validate checks a server URL without returning the normalized form.
func Validate(raw string) error {
	_, err := ParseInfo(raw)
	return err
}

// ParseInfo parses a server URL and returns detailed info.
// Useful for inspecting the configured server.
func ParseInfo(raw string) (*Info, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, NewParseError(raw, "empty server URL", "provide the QueryWeaver server address, e.g. https://app.queryweaver.ai")
	}

	// Bare hosts are common; default them to https.
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return nil, NewParseError(raw, fmt.Sprintf("unparseable URL: %v", err), "check the address for typos")
	}

	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return nil, NewParseError(raw, fmt.Sprintf("unsupported scheme %q", parsed.Scheme), "use http:// or https://")
	}

	if strings.TrimSpace(parsed.Hostname()) == "" {
		return nil, NewParseError(raw, "missing host", "provide a host, e.g. https://app.queryweaver.ai")
	}

	if parsed.User != nil {
		return nil, NewParseError(raw, "credentials embedded in URL", "authentication uses an API token, not URL credentials; run 'queryweaver login'")
	}

	if parsed.RawQuery != "" || parsed.Fragment != "" {
		return nil, NewParseError(raw, "URL carries a query string or fragment", "use only the server base address")
	}

	port := parsed.Port()
	if port != "" {
		matched, _ := regexp.MatchString(`^\d+$`, port)
		if !matched {
			return nil, NewParseError(raw, fmt.Sprintf("invalid port number: %s", port), "port must be numeric")
		}
	}

	path := strings.TrimRight(parsed.Path, "/")
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return &Info{
		Scheme:   scheme,
		Host:     strings.ToLower(parsed.Hostname()),
		Port:     port,
		Path:     path,
		Original: raw,
	}, nil
}
