package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"emptylines/internal/prof"
	"emptylines/internal/trace"
)

// persistentFlags reads string and int flags from the root command and keeps
// the first lookup error.
type persistentFlags struct {
	cmd *cobra.Command
	err error
}

func rootFlags(cmd *cobra.Command) *persistentFlags {
	return &persistentFlags{cmd: cmd.Root()}
}

func (f *persistentFlags) str(name string) string {
	v, err := f.cmd.PersistentFlags().GetString(name)
	if err != nil && f.err == nil {
		f.err = fmt.Errorf("failed to get %s flag: %w", name, err)
	}
	return v
}

func (f *persistentFlags) integer(name string) int {
	v, err := f.cmd.PersistentFlags().GetInt(name)
	if err != nil && f.err == nil {
		f.err = fmt.Errorf("failed to get %s flag: %w", name, err)
	}
	return v
}

// traceConfig turns the --trace* flags into a tracer config. Level stays
// LevelOff when tracing was not requested.
func traceConfig(cmd *cobra.Command) (trace.Config, error) {
	flags := rootFlags(cmd)
	output := flags.str("trace")
	levelName := flags.str("trace-level")
	modeName := flags.str("trace-mode")
	formatName := flags.str("trace-format")
	ringSize := flags.integer("trace-ring-size")
	if flags.err != nil {
		return trace.Config{}, flags.err
	}

	level, err := trace.ParseLevel(levelName)
	if err != nil {
		return trace.Config{}, err
	}
	// --trace без уровня включает фазы
	if level == trace.LevelOff && output != "" {
		level = trace.LevelPhase
	}
	mode, err := trace.ParseMode(modeName)
	if err != nil {
		return trace.Config{}, err
	}
	format, err := trace.ParseFormat(formatName)
	if err != nil {
		return trace.Config{}, err
	}
	return trace.Config{
		Level:      level,
		Mode:       mode,
		Format:     format,
		OutputPath: output,
		RingSize:   ringSize,
	}, nil
}

// setupTracing installs the tracer selected by the flags into the command
// context and returns the function that flushes and closes it.
func setupTracing(cmd *cobra.Command) (func(), error) {
	cfg, err := traceConfig(cmd)
	if err != nil {
		return nil, err
	}
	tracer, err := trace.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))
	if !tracer.Enabled() {
		return func() {}, nil
	}

	stderr := cmd.ErrOrStderr()
	return func() {
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(stderr, "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(stderr, "trace: close error: %v\n", err)
		}
	}, nil
}

// setupProfiling starts the runtime profilers named by the profiling flags.
func setupProfiling(cmd *cobra.Command) (func(), error) {
	flags := rootFlags(cmd)
	opts := prof.Options{
		CPU:   flags.str("cpu-profile"),
		Mem:   flags.str("mem-profile"),
		Trace: flags.str("runtime-trace"),
	}
	if flags.err != nil {
		return nil, flags.err
	}
	if !opts.Enabled() {
		return func() {}, nil
	}

	session, err := prof.Start(opts)
	if err != nil {
		return nil, err
	}
	return func() {
		if err := session.Stop(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "profile: %v\n", err)
		}
	}, nil
}
