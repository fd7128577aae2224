package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"emptylines/internal/version"
)

// exitError carries a process exit status without an error message.
type exitError struct {
	code int
}

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// errFindings is returned when a run reports errors.
var errFindings = &exitError{code: 1}

// newRootCmd builds the command tree. The returned cleanup stops tracing and
// profiling started by the persistent hooks.
func newRootCmd() (*cobra.Command, func()) {
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
		cleanups = nil
	}

	rootCmd := &cobra.Command{
		Use:           "emptylines",
		Short:         "Blank-line policy linter for JavaScript and TypeScript",
		Long:          `emptylines checks and fixes runs of blank lines in JavaScript and TypeScript sources against per-zone policies`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			stopProfiling, err := setupProfiling(cmd)
			if err != nil {
				return err
			}
			cleanups = append(cleanups, stopProfiling)
			stopTracing, err := setupTracing(cmd)
			if err != nil {
				return err
			}
			cleanups = append(cleanups, stopTracing)
			return nil
		},
	}

	// Глобальные флаги
	pf := rootCmd.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show timing information")
	pf.Int("max-diagnostics", 0, "maximum number of diagnostics per file (0=unlimited)")
	pf.String("trace", "", "write trace events to a file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|phase|detail|debug)")
	pf.String("trace-mode", "stream", "trace storage mode (stream|ring)")
	pf.String("trace-format", "text", "trace output format (text|ndjson)")
	pf.Int("trace-ring-size", 4096, "events kept in ring mode")
	pf.String("cpu-profile", "", "write a CPU profile to file")
	pf.String("mem-profile", "", "write a heap profile to file on exit")
	pf.String("runtime-trace", "", "write a Go runtime trace to file")

	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newFixCmd())
	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd, cleanup
}

func main() {
	rootCmd, cleanup := newRootCmd()
	os.Exit(execute(rootCmd, cleanup, os.Stderr))
}

// execute runs rootCmd and maps its error to a process exit status:
// 0 on success, 1 when findings were reported, 2 on any other failure.
func execute(rootCmd *cobra.Command, cleanup func(), stderr io.Writer) int {
	err := rootCmd.Execute()
	cleanup()
	if err == nil {
		return 0
	}
	var exit *exitError
	if errors.As(err, &exit) {
		return exit.code
	}
	fmt.Fprintf(stderr, "emptylines: %v\n", err)
	return 2
}

// isTerminal проверяет, является ли w терминалом
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// terminalWidth returns the column count of the terminal behind w, capped
// at 255, or 0 when w is not a terminal.
func terminalWidth(w io.Writer) uint8 {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	cols, _, err := term.GetSize(int(f.Fd()))
	if err != nil || cols <= 0 {
		return 0
	}
	return uint8(min(cols, 255)) //nolint:gosec // clamped above
}
