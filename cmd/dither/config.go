package main

import (
	"flag"
	"fmt"
	"os"
	"reflect"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
)

// config holds the defaults which can be provided through a TOML file.
// Flags set explicitly on the command line always take precedence.
type config struct {
	Method    string  `toml:"method"`
	Threshold int     `toml:"threshold"`
	Levels    int     `toml:"levels"`
	BayerSize int     `toml:"bayer"`
	Seed      uint64  `toml:"seed"`
	Width     int     `toml:"width"`
	Height    int     `toml:"height"`
	Gamma     float64 `toml:"gamma"`
	Sheet     bool    `toml:"sheet"`
	Workers   int     `toml:"workers"`
	LogLevel  string  `toml:"log_level"`
}

// loadConfig decodes the configuration file. An empty path returns a zero config.
func loadConfig(path string) (*config, error) {
	cfg := &config{}
	if path == "" {
		return cfg, nil
	}

	fd, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "unable to open the configuration file")
	}
	defer fd.Close()

	if err := toml.NewDecoder(fd).Decode(cfg); err != nil {
		return nil, errors.Wrapf(err, "error loading configuration (%s)", path)
	}
	return cfg, nil
}

// apply overwrites the flag values not set on the command line with the configured ones.
func (c *config) apply(fs *flag.FlagSet) error {
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})

	values := map[string]interface{}{
		"method":    c.Method,
		"threshold": c.Threshold,
		"levels":    c.Levels,
		"bayer":     c.BayerSize,
		"seed":      c.Seed,
		"width":     c.Width,
		"height":    c.Height,
		"gamma":     c.Gamma,
		"sheet":     c.Sheet,
		"conc":      c.Workers,
		"level":     c.LogLevel,
	}
	for name, v := range values {
		if set[name] || reflect.ValueOf(v).IsZero() {
			continue
		}
		if err := fs.Set(name, fmt.Sprint(v)); err != nil {
			return errors.Wrapf(err, "invalid %s value in configuration", name)
		}
	}
	return nil
}
