package main

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"

	"emptylines/internal/config"
	"emptylines/internal/driver"
	"emptylines/internal/rules/builtin"
)

// stdinPath is the argument that makes check and fix read standard input.
const stdinPath = "-"

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	color          bool
	quiet          bool
	timings        bool
	maxDiagnostics int
}

func readGlobalFlags(cmd *cobra.Command) (globalFlags, error) {
	var g globalFlags
	pf := cmd.Root().PersistentFlags()

	colorFlag, err := pf.GetString("color")
	if err != nil {
		return g, fmt.Errorf("failed to get color flag: %w", err)
	}
	mode, err := readColorMode(colorFlag)
	if err != nil {
		return g, err
	}
	g.color = useColor(mode, cmd.OutOrStdout())

	if g.quiet, err = pf.GetBool("quiet"); err != nil {
		return g, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if g.timings, err = pf.GetBool("timings"); err != nil {
		return g, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if g.maxDiagnostics, err = pf.GetInt("max-diagnostics"); err != nil {
		return g, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if g.maxDiagnostics < 0 {
		return g, fmt.Errorf("--max-diagnostics must not be negative")
	}
	return g, nil
}

// loadConfig returns the configuration named by --config, or the one
// discovered from the first target path.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	if path != "" {
		return config.Load(path)
	}
	start := "."
	if len(args) > 0 && args[0] != stdinPath {
		start = args[0]
	}
	return config.Discover(start)
}

// lintOptions builds driver options from cfg and the command flags.
func lintOptions(cmd *cobra.Command, cfg *config.Config, g globalFlags) (driver.Options, error) {
	enabled, err := cfg.Build(builtin.Registry())
	if err != nil {
		return driver.Options{}, err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return driver.Options{}, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	return driver.Options{
		Rules:          enabled,
		RootDir:        cfg.Root,
		Jobs:           jobs,
		MaxDiagnostics: g.maxDiagnostics,
		Fingerprint:    cfg.Fingerprint(),
	}, nil
}

// stdinName is the display path for content read from standard input.
func stdinName(cmd *cobra.Command) (string, error) {
	name, err := cmd.Flags().GetString("stdin-filename")
	if err != nil {
		return "", fmt.Errorf("failed to get stdin-filename flag: %w", err)
	}
	if name == "" {
		name = "stdin.js"
	}
	return name, nil
}

func isStdin(args []string) bool {
	return len(args) == 1 && args[0] == stdinPath
}

// warnf prints a note to stderr unless --quiet is set.
func warnf(cmd *cobra.Command, g globalFlags, format string, args ...any) {
	if g.quiet {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), format+"\n", args...)
}

func readStdin(cmd *cobra.Command) ([]byte, error) {
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	return data, nil
}
