// Copyright (c) 2025 FalkorDB
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package httperrors turns low-level network failures into actionable
// terminal output.
package httperrors

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"syscall"

	"github.com/pterm/pterm"
)

// failureClass buckets a transport error by what the user can do about it.
type failureClass int

const (
	classUnknown failureClass = iota
	classTimeout
	classDNS
	classRefused
	classTLS
	classServer
)

// FormatNetworkError prints a friendly, categorized explanation of a
// network failure and returns the error wrapped for callers that log it.
// The context string completes the sentence "... while <context>".
func FormatNetworkError(err error, context string) error {
	if err == nil {
		return nil
	}
	render(classify(err), context, err.Error())
	return fmt.Errorf("network error: %w", err)
}

// classify inspects the error chain first and falls back to message
// sniffing, since net/http loses type information on some paths.
func classify(err error) failureClass {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return classTimeout
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return classDNS
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && errors.Is(opErr.Err, syscall.ECONNREFUSED) {
		return classRefused
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline exceeded"):
		return classTimeout
	case strings.Contains(msg, "no such host"):
		return classDNS
	case strings.Contains(msg, "connection refused"):
		return classRefused
	case strings.Contains(msg, "tls"), strings.Contains(msg, "ssl"),
		strings.Contains(msg, "certificate"), strings.Contains(msg, "handshake"):
		return classTLS
	case strings.Contains(msg, "500"), strings.Contains(msg, "502"),
		strings.Contains(msg, "503"), strings.Contains(msg, "504"),
		strings.Contains(msg, "internal server error"),
		strings.Contains(msg, "bad gateway"),
		strings.Contains(msg, "service unavailable"),
		strings.Contains(msg, "gateway timeout"):
		return classServer
	}
	return classUnknown
}

type advice struct {
	headline string // printed as "<headline> while <context>"
	explain  string
	hints    []string
	closing  string
}

func adviceFor(class failureClass) advice {
	switch class {
	case classTimeout:
		return advice{
			headline: "⏱️  Connection timeout",
			explain:  "The server took too long to respond. This could mean:",
			hints: []string{
				"Slow internet connection",
				"Server is under heavy load",
				"Network firewall is blocking the connection",
			},
			closing: "Please try again in a few moments.",
		}
	case classDNS:
		return advice{
			headline: "🌐 Cannot resolve server address",
			explain:  "Unable to look up the QueryWeaver server. Please check:",
			hints: []string{
				"Your internet connection is working",
				"The configured server address is spelled correctly",
				"No DNS-level blocking (corporate firewall, parental controls)",
			},
		}
	case classRefused:
		return advice{
			headline: "🚫 Connection refused",
			explain:  "The server is not accepting connections. This could mean:",
			hints: []string{
				"The service is temporarily down",
				"Firewall is blocking the connection",
				"Wrong server address or port",
			},
			closing: "Please try again later or contact support.",
		}
	case classTLS:
		return advice{
			headline: "🔒 Secure connection failed",
			explain:  "Cannot establish a secure HTTPS connection. This could mean:",
			hints: []string{
				"SSL/TLS certificate issue",
				"Network proxy interfering with HTTPS",
				"System clock is incorrect",
			},
			closing: "Check your system date and time, then your proxy settings.",
		}
	case classServer:
		return advice{
			headline: "⚠️  Server error",
			explain:  "The QueryWeaver server encountered an internal error. This is not a problem with your setup.",
			hints: []string{
				"Please try again in a few minutes",
				"If it persists, contact support",
			},
		}
	}
	return advice{
		headline: "❌ Cannot reach the QueryWeaver server",
		explain:  "Please check:",
		hints: []string{
			"Your internet connection",
			"Whether the configured server is accessible from your network",
			"Firewall settings that might block HTTPS requests",
		},
	}
}

func render(class failureClass, context, detail string) {
	a := adviceFor(class)

	pterm.Printf("%s while %s\n", a.headline, context)
	pterm.Println()
	pterm.Println(a.explain)
	for _, h := range a.hints {
		pterm.Println("  • " + h)
	}
	if a.closing != "" {
		pterm.Println()
		pterm.Println(a.closing)
	}
	pterm.Println()

	if class == classUnknown && detail != "" {
		if len(detail) > 100 {
			detail = detail[:100] + "..."
		}
		pterm.Debug.Printf("Technical details: %s\n", detail)
		pterm.Println()
	}
}

// ExtractHostFromURL pulls a displayable host out of a URL, falling back
// to a generic label when the URL does not parse.
func ExtractHostFromURL(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil || u.Host == "" {
		return "server"
	}
	return u.Host
}
