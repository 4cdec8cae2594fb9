// Copyright (c) 2025 FalkorDB
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import "context"

// State is the persisted login record for this machine.
type State struct {
	LoggedIn bool   `json:"logged_in"`
	Account  string `json:"account"`
	Server   string `json:"server"`
}

// IsLoggedIn reports whether a login record exists. It does not verify
// the token against the server; WhoAmI does that.
func IsLoggedIn(ctx context.Context) (bool, error) {
	st, err := Load()
	if err != nil {
		return false, err
	}
	return st.LoggedIn, nil
}
