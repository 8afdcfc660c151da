// Package config handles koala.toml run configuration.
package config

import (
	"flag"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config represents a run of the koala command.
type Config struct {
	Source   string           `toml:"source"`   // Rule source to compile.
	Image    string           `toml:"image"`    // Compiled image to run.
	Output   string           `toml:"output"`   // Compiled image to write.
	Steps    int              `toml:"steps"`    // Steps to run.
	Workers  int              `toml:"workers"`  // Parallel row bands, 0 for GOMAXPROCS.
	Verbose  bool             `toml:"verbose"`  // Verbose logging.
	Listing  bool             `toml:"listing"`  // Disassemble the program.
	Dump     bool             `toml:"dump"`     // Print the final state.
	Snapshot string           `toml:"snapshot"` // Final state snapshot to write.
	Define   map[string]int64 `toml:"define"`   // Compile time predefines.

	// Dir is the directory containing the configuration file (set at load time).
	Dir string `toml:"-"`
}

// Default returns a Config populated with defaults.
func Default() *Config {
	return &Config{Steps: 1, Define: map[string]int64{}}
}

// Load parses a koala.toml file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	c := Default()
	if err := toml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	c.Dir, err = filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", path, err)
	}

	// Defaults
	if c.Steps < 0 {
		c.Steps = 0
	}
	if c.Define == nil {
		c.Define = map[string]int64{}
	}

	for _, file := range []*string{&c.Source, &c.Image, &c.Output, &c.Snapshot} {
		if len(*file) != 0 && !filepath.IsAbs(*file) {
			*file = filepath.Join(c.Dir, *file)
		}
	}

	return c, nil
}

// defines is a flag.Value collecting name=value predefines.
type defines map[string]int64

func (d defines) String() string {
	var parts []string
	for _, name := range slices.Sorted(maps.Keys(d)) {
		parts = append(parts, fmt.Sprintf("%v=%d", name, d[name]))
	}
	return strings.Join(parts, ",")
}

func (d defines) Set(text string) error {
	name, value, ok := strings.Cut(text, "=")
	if !ok || len(name) == 0 {
		return fmt.Errorf("expected name=value, got %q", text)
	}
	v, err := strconv.ParseInt(value, 0, 64)
	if err != nil {
		return fmt.Errorf("define %v: %w", name, err)
	}
	d[name] = v
	return nil
}

// Bind attaches the configuration to the provided FlagSet. Flags override
// values already loaded.
func (c *Config) Bind(fs *flag.FlagSet) {
	if c.Define == nil {
		c.Define = map[string]int64{}
	}

	fs.StringVar(&c.Source, "c", c.Source, "rule source to compile")
	fs.StringVar(&c.Image, "i", c.Image, "compiled image to run")
	fs.StringVar(&c.Output, "o", c.Output, "compiled image to write")
	fs.IntVar(&c.Steps, "n", c.Steps, "steps to run")
	fs.IntVar(&c.Workers, "w", c.Workers, "parallel workers, 0 for all CPUs")
	fs.BoolVar(&c.Verbose, "v", c.Verbose, "verbose logging")
	fs.BoolVar(&c.Listing, "l", c.Listing, "disassemble the program")
	fs.BoolVar(&c.Dump, "dump", c.Dump, "print the final state of every rule instance")
	fs.StringVar(&c.Snapshot, "snapshot", c.Snapshot, "write the final state snapshot")
	fs.Var(defines(c.Define), "D", "predefine name=value (repeatable)")
}
