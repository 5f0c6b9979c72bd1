// Command jsengine runs IR programs through the evaluator core, mirroring
// the teacher's cmd/dwscript entry point: a thin main() that hands off to
// the cobra command tree in package cmd.
package main

import (
	"fmt"
	"os"

	"github.com/asynkron/jsengine-go/cmd/jsengine/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
