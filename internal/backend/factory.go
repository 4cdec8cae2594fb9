// Copyright (c) 2025 FalkorDB
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

// New returns the live HTTP implementation of API for the given server,
// authenticating every request with token.
func New(baseURL, token string) API {
	return newHTTP(baseURL, token)
}
