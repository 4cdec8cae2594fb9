// Copyright (c) 2025 FalkorDB
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import "fmt"

// PresentError renders err behind a context label, masked. The empty
// string for a nil error lets callers print unconditionally.
func PresentError(context string, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", context, Mask(err.Error()))
}
