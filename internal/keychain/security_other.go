// Copyright (c) 2025 FalkorDB
// Licensed under the MIT License. See LICENSE file in the project root for details.

//go:build !darwin

package keychain

import "errors"

var errSecurityUnsupported = errors.New("security backend is macOS-only")

// securityBackend exists off-darwin only so manager.go compiles; the
// constructor always fails and the keyring library takes over.
type securityBackend struct{}

func newSecurityBackend() (*securityBackend, error) {
	return nil, errSecurityUnsupported
}

func (s *securityBackend) Set(key, value string) error { return errSecurityUnsupported }

func (s *securityBackend) Get(key string) (string, error) { return "", errSecurityUnsupported }

func (s *securityBackend) Delete(key string) error { return errSecurityUnsupported }
