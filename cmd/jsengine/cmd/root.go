// Package cmd implements the jsengine CLI's command tree, grounded on the
// teacher's cmd/dwscript/cmd package: a package-level rootCmd other files'
// init() functions register subcommands onto, plus an Execute() entry point
// main.go calls.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags).
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "jsengine",
	Short: "A tree-walking evaluator for a JavaScript-like IR",
	Long: `jsengine evaluates programs already parsed into a uniform
S-expression intermediate representation (IR): cons-cell lists whose head
is a tag symbol, traversed by a single converging dispatcher.

It supports lexical/function scoping with let/const temporal-dead-zone
semantics, prototype-based objects, class construction with inheritance
and private/public fields, generators, and JavaScript-style coercion —
without relying on host panics for break/continue/return/throw/yield.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}
