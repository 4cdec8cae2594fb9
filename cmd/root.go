// Copyright (c) 2025 FalkorDB
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd wires up the queryweaver command tree: authentication,
// database and token management, and the two querying front ends (ask
// and chat). Commands render with pterm and talk to the service through
// internal/backend.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	showVersion bool
)

// rootCmd is the bare `queryweaver` invocation: it only knows how to
// print the version or the help screen.
var rootCmd = &cobra.Command{
	Use:           "queryweaver",
	Short:         "QueryWeaver CLI for querying databases in plain language",
	Long:          `QueryWeaver is a command-line tool that turns natural-language questions into SQL, runs them through the QueryWeaver service and streams the answers back to your terminal.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			fmt.Printf("queryweaver %s\n", Version)
			return nil
		}
		return cmd.Help()
	},
}

// Execute runs the root command and exits non-zero on failure. Errors
// are printed here because the commands silence cobra's own reporting.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show version information")
}
