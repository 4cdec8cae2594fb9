// Package main is the entry point for the QueryWeaver CLI application.
// It provides natural-language database querying through the QueryWeaver service.
package main

import (
	"queryweaver/cli/cmd"
)

// main is the entry point for the QueryWeaver CLI application.
// It initializes and executes the command-line interface.
func main() {
	cmd.Execute()
}
