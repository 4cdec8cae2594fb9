// Copyright (c) 2025 FalkorDB
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"encoding/json"
	"fmt"
	"os"

	"queryweaver/cli/internal/keychain"
)

func authDebugf(format string, args ...any) {
	if os.Getenv("QUERYWEAVER_VERBOSE") == "1" {
		fmt.Printf("[DEBUG] auth: "+format+"\n", args...)
	}
}

// Load reads the persisted auth state from the keychain. Callers treat
// any error, including a missing entry, as logged-out.
func Load() (State, error) {
	var s State

	km, err := keychain.GetManager()
	if err != nil {
		authDebugf("load: no keychain: %v", err)
		return s, err
	}
	data, err := km.LoadAuthState()
	if err != nil {
		authDebugf("load: %v", err)
		return s, err
	}
	if len(data) == 0 {
		authDebugf("load: no stored state")
		return s, nil
	}
	if err := json.Unmarshal(data, &s); err != nil {
		authDebugf("load: corrupt state: %v", err)
		return s, err
	}

	authDebugf("load: logged_in=%v account=%s", s.LoggedIn, s.Account)
	return s, nil
}

// Save persists the auth state to the keychain.
func Save(s State) error {
	authDebugf("save: logged_in=%v account=%s", s.LoggedIn, s.Account)

	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	km, err := keychain.GetManager()
	if err != nil {
		authDebugf("save: no keychain: %v", err)
		return err
	}
	return km.SaveAuthState(b)
}

// Clear removes the persisted auth state, leaving any stored API token
// untouched.
func Clear() error {
	km, err := keychain.GetManager()
	if err != nil {
		return err
	}
	return km.ClearAuthState()
}
