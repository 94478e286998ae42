// Package config loads backtrace.toml and layers the environment on top of it.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"backtrace/internal/backtrace"
	"backtrace/internal/compile"
	"backtrace/internal/lang"
	"backtrace/internal/source"
)

// FileName is the name searched for from the working directory upwards.
const FileName = "backtrace.toml"

// Config mirrors backtrace.toml.
type Config struct {
	Trace    TraceConfig    `toml:"trace"`
	Language LanguageConfig `toml:"language"`
	Compiler CompilerConfig `toml:"compiler"`

	// Path of the file the values came from, empty for defaults only.
	Path string `toml:"-"`
}

type TraceConfig struct {
	Context    int    `toml:"context"`
	Color      string `toml:"color"`
	Width      int    `toml:"width"`
	Space      string `toml:"space"`
	SourceMaps bool   `toml:"source_maps"`
}

type LanguageConfig struct {
	Name     string   `toml:"name"`
	Patterns []string `toml:"patterns"`
}

type CompilerConfig struct {
	Command []string `toml:"command"`
	Cache   bool     `toml:"cache"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Trace: TraceConfig{
			Context: backtrace.DefaultContext,
			Color:   "auto",
			Space:   source.SpaceSource.String(),
		},
		Language: LanguageConfig{
			Name:     "coffee",
			Patterns: append([]string(nil), lang.DefaultPatterns...),
		},
		Compiler: CompilerConfig{
			Command: append([]string(nil), compile.DefaultCommand...),
			Cache:   true,
		},
	}
}

// Find looks for FileName in startDir and its parents.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load returns the defaults overlaid with the nearest backtrace.toml, if any.
func Load(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile overlays the defaults with path. Keys missing from the file keep their defaults.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("language") && !meta.IsDefined("language", "patterns") {
		return Config{}, fmt.Errorf("%s: [language] needs patterns", path)
	}
	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv applies the context variables. lookup is usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(backtrace.EnvContext); ok {
		c.Trace.Context = backtrace.ContextFromEnv(v, true)
		return
	}
	if v, ok := lookup(backtrace.EnvContextLegacy); ok {
		c.Trace.Context = backtrace.ContextFromEnv(v, true)
	}
}

// Validate checks values that TOML types cannot express.
func (c *Config) Validate() error {
	if c.Trace.Context < 0 {
		return fmt.Errorf("[trace].context must not be negative, got %d", c.Trace.Context)
	}
	if c.Trace.Width < 0 {
		return fmt.Errorf("[trace].width must not be negative, got %d", c.Trace.Width)
	}
	switch strings.ToLower(strings.TrimSpace(c.Trace.Color)) {
	case "", "auto", "on", "off":
	default:
		return fmt.Errorf("[trace].color: invalid value %q (expected auto|on|off)", c.Trace.Color)
	}
	if _, err := source.ParseSpace(c.Trace.Space); err != nil {
		return fmt.Errorf("[trace].space: %w", err)
	}
	if len(c.Language.Patterns) == 0 {
		return errors.New("[language].patterns must not be empty")
	}
	if len(c.Compiler.Command) == 0 {
		return errors.New("[compiler].command must not be empty")
	}
	return nil
}

// BuildLanguage compiles the [language] section.
func (c *Config) BuildLanguage() (*lang.Language, error) {
	return lang.New(c.Language.Name, c.Language.Patterns)
}

// BuildCompiler returns the transpiler for compiled-space frames, wrapped in the disk
// cache when enabled. A cache that cannot be opened is skipped.
func (c *Config) BuildCompiler() (compile.Compiler, error) {
	cmd, err := compile.NewCommand(c.Compiler.Command)
	if err != nil {
		return nil, err
	}
	if !c.Compiler.Cache {
		return cmd, nil
	}
	cache, err := compile.OpenDiskCache("backtrace")
	if err != nil {
		return cmd, nil
	}
	return &compile.Cached{Inner: cmd, Cache: cache, Identity: cmd.String()}, nil
}
