// Copyright (c) 2025 FalkorDB
// Licensed under the MIT License. See LICENSE file in the project root for details.

//go:build darwin

package keychain

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

var errKeychainEntryMissing = errors.New("keychain entry not found")

// securityBackend drives /usr/bin/security directly. The keyring
// library's darwin backend needs cgo; shelling out works on every macOS
// build and honors the same Keychain ACLs.
type securityBackend struct{}

func newSecurityBackend() (*securityBackend, error) {
	if _, err := exec.LookPath("security"); err != nil {
		return nil, fmt.Errorf("security command not found: %w", err)
	}
	return &securityBackend{}, nil
}

func debugf(format string, args ...any) {
	if os.Getenv("QUERYWEAVER_VERBOSE") == "1" {
		fmt.Printf("[DEBUG] keychain: "+format+"\n", args...)
	}
}

// runSecurity executes one security subcommand and returns trimmed
// stdout plus raw stderr for error classification.
func runSecurity(args ...string) (string, string, error) {
	cmd := exec.Command("security", args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return strings.TrimSpace(stdout.String()), stderr.String(), err
}

func (s *securityBackend) Set(key, value string) error {
	debugf("storing %q (%d bytes)", key, len(value))

	// Clear any existing entry first: -U updates in place, but updating
	// an item another binary created can trigger an ACL prompt.
	_ = s.Delete(key)

	_, stderr, err := runSecurity("add-generic-password",
		"-a", ServiceName,
		"-s", key,
		"-w", value,
		"-U",
	)
	if err != nil {
		debugf("store of %q failed: %s", key, stderr)
		return fmt.Errorf("failed to store %q in keychain: %s: %w", key, stderr, err)
	}
	return nil
}

func (s *securityBackend) Get(key string) (string, error) {
	stdout, stderr, err := runSecurity("find-generic-password",
		"-a", ServiceName,
		"-s", key,
		"-w",
	)
	if err != nil {
		if strings.Contains(stderr, "could not be found") {
			debugf("%q not present", key)
			return "", errKeychainEntryMissing
		}
		debugf("read of %q failed: %s", key, stderr)
		return "", fmt.Errorf("failed to read %q from keychain: %s: %w", key, stderr, err)
	}
	debugf("read %q (%d bytes)", key, len(stdout))
	return stdout, nil
}

func (s *securityBackend) Delete(key string) error {
	_, stderr, err := runSecurity("delete-generic-password",
		"-a", ServiceName,
		"-s", key,
	)
	if err != nil {
		if strings.Contains(stderr, "could not be found") {
			return nil
		}
		return fmt.Errorf("failed to delete %q from keychain: %s: %w", key, stderr, err)
	}
	return nil
}
