// Copyright (c) 2025 FalkorDB
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package stream implements the QueryWeaver streaming response protocol.
// The server answers query, confirm and refresh requests with a chunked HTTP
// body carrying JSON messages joined by a fixed sentinel delimiter; this
// package reassembles the byte stream into frames, decodes each frame into a
// tagged Message and normalizes tabular result payloads for display.
package stream

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
)

// Delimiter is the sentinel the server inserts after every streamed message.
// It never appears inside a payload; no escaping or length prefixing is used.
const Delimiter = "|||FALKORDB_MESSAGE_BOUNDARY|||"

const (
	initialBuffer = 64 * 1024
	maxFrameSize  = 1024 * 1024
)

// splitFrames is a bufio.SplitFunc producing delimiter-separated frames.
// A delimiter split across two reads stays buffered until it completes; an
// undelimited remainder at EOF is emitted as one final best-effort frame.
func splitFrames(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.Index(data, []byte(Delimiter)); i >= 0 {
		return i + len(Delimiter), data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	// Request more data until a full delimiter is visible.
	return 0, nil, nil
}

// Scan reads delimiter-separated frames from r and hands each decoded
// Message to fn in arrival order. Blank frames are dropped; they are a
// side effect of the server appending the delimiter after every message.
// Scan returns ctx.Err() when the context is cancelled mid-stream and a
// wrapped read error when the body fails before a clean EOF.
func Scan(ctx context.Context, r io.Reader, fn func(Message)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, initialBuffer), maxFrameSize)
	scanner.Split(splitFrames)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		frame := scanner.Text()
		if strings.TrimSpace(frame) == "" {
			continue
		}
		fn(Decode(frame))
	}

	if err := scanner.Err(); err != nil {
		// Cancelling the request context surfaces as a body read error;
		// report it as cancellation, not stream corruption.
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("read stream: %w", err)
	}
	return nil
}
