package cmd

import (
	"fmt"
	"os"

	"github.com/asynkron/jsengine-go/internal/evaluator"
	"github.com/asynkron/jsengine-go/internal/runner"
	"github.com/spf13/cobra"
)

var (
	evalExpr string
	dumpIR   bool
	trace    bool
	maxDepth int
)

var runCmd = &cobra.Command{
	Use:   "run [file.ir.json]",
	Short: "Run an IR program from a file or an inline S-expression",
	Long: `Execute an IR program from a JSON-encoded file or an inline
S-expression string.

Examples:
  # Run a JSON-encoded IR program
  jsengine run program.ir.json

  # Evaluate an inline S-expression
  jsengine run -e '(expr-stmt (call (symbol print) ((string "hi"))))'

  # Print the parsed IR tree before running it
  jsengine run --dump-ir program.ir.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProgram,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline S-expression code instead of reading a file")
	runCmd.Flags().BoolVar(&dumpIR, "dump-ir", false, "print the parsed cons-cell IR tree before running it")
	runCmd.Flags().BoolVar(&trace, "trace", false, "print the top-level statement count to stderr before running (individual tags are not traced)")
	runCmd.Flags().IntVar(&maxDepth, "max-call-depth", 0, "override the evaluator's call-stack depth limit (0 keeps the default)")
}

func runProgram(_ *cobra.Command, args []string) error {
	var src string
	var format runner.Format

	switch {
	case evalExpr != "":
		src = evalExpr
		format = runner.FormatSExpr
	case len(args) == 1:
		content, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
		src = string(content)
		format = runner.FormatJSON
	default:
		return fmt.Errorf("either provide a file path or use -e for inline code")
	}

	cfg := evaluator.DefaultConfig()
	if maxDepth > 0 {
		cfg.MaxRecursionDepth = maxDepth
	}

	e, ee := runner.NewWithConfig(os.Stdout, cfg)

	program, err := runner.Parse(src, format)
	if err != nil {
		return err
	}

	if dumpIR {
		dumped, err := runner.DumpIR(program)
		if err != nil {
			return err
		}
		fmt.Println(dumped)
	}

	if trace {
		fmt.Fprintf(os.Stderr, "[trace] evaluating %d top-level statement(s)\n", len(program))
	}

	result := runner.RunProgram(e, ee, program)
	if result.Thrown != nil {
		fmt.Fprintln(os.Stderr, runner.ReportThrow(result.Thrown))
		return fmt.Errorf("execution failed")
	}

	return nil
}
