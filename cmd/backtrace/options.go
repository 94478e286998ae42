package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"backtrace/internal/backtrace"
	"backtrace/internal/compile"
	"backtrace/internal/config"
	"backtrace/internal/observ"
	"backtrace/internal/source"
	"backtrace/internal/trace"
)

// loadConfig layers defaults, backtrace.toml, the environment and changed flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	flags := cmd.Root().PersistentFlags()

	path, err := flags.GetString("config")
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	var cfg config.Config
	if path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load(".")
	}
	if err != nil {
		return config.Config{}, err
	}
	cfg.ApplyEnv(os.LookupEnv)

	if flags.Changed("context") {
		if cfg.Trace.Context, err = flags.GetInt("context"); err != nil {
			return config.Config{}, fmt.Errorf("failed to get context flag: %w", err)
		}
	}
	if flags.Changed("width") {
		if cfg.Trace.Width, err = flags.GetInt("width"); err != nil {
			return config.Config{}, fmt.Errorf("failed to get width flag: %w", err)
		}
	}
	if flags.Changed("color") {
		if cfg.Trace.Color, err = flags.GetString("color"); err != nil {
			return config.Config{}, fmt.Errorf("failed to get color flag: %w", err)
		}
	}
	if flags.Changed("space") {
		if cfg.Trace.Space, err = flags.GetString("space"); err != nil {
			return config.Config{}, fmt.Errorf("failed to get space flag: %w", err)
		}
	}
	if flags.Changed("source-maps") {
		if cfg.Trace.SourceMaps, err = flags.GetBool("source-maps"); err != nil {
			return config.Config{}, fmt.Errorf("failed to get source-maps flag: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// newRenderer builds a renderer writing to out. The compiler is only started for
// compiled-space frames, so a missing transpiler is not an error in source space.
func newRenderer(cmd *cobra.Command, cfg config.Config, out *os.File, start time.Time) (*backtrace.Renderer, error) {
	mode, err := readColorMode(cfg.Trace.Color)
	if err != nil {
		return nil, err
	}
	space, err := source.ParseSpace(cfg.Trace.Space)
	if err != nil {
		return nil, err
	}
	language, err := cfg.BuildLanguage()
	if err != nil {
		return nil, err
	}

	var compiler compile.Compiler
	if space == source.SpaceCompiled {
		if compiler, err = cfg.BuildCompiler(); err != nil {
			return nil, fmt.Errorf("compiled space needs a transpiler: %w", err)
		}
	}

	// SetContext keeps an explicit 0 from the config or the environment
	return backtrace.New(backtrace.Options{
		Language:   language,
		Space:      space,
		Compiler:   compiler,
		Start:      start,
		Color:      shouldColor(mode, out),
		Width:      cfg.Trace.Width,
		SourceMaps: cfg.Trace.SourceMaps,
		Output:     out,
		Tracer:     trace.FromContext(cmd.Context()),
	}).SetContext(cfg.Trace.Context), nil
}

// newTimer returns a timer when --timings is set, nil otherwise.
func newTimer(cmd *cobra.Command) (*observ.Timer, error) {
	on, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if !on {
		return nil, nil
	}
	return observ.NewTimer(), nil
}

func printTimings(cmd *cobra.Command, t *observ.Timer) {
	if t == nil {
		return
	}
	if err := t.WriteSummary(cmd.ErrOrStderr()); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "timings: %v\n", err)
	}
}
