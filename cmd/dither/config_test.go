package main

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dither.toml")
	data := `
method = "atkinson"
threshold = 100
bayer = 8
seed = 42
sheet = true
log_level = "debug"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := loadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "atkinson", cfg.Method)
	assert.Equal(t, 100, cfg.Threshold)
	assert.Equal(t, 8, cfg.BayerSize)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.True(t, cfg.Sheet)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestConfig_EmptyPath(t *testing.T) {
	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, &config{}, cfg)
}

func TestConfig_MissingFile(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestConfig_FlagsTakePrecedence(t *testing.T) {
	fs := flag.NewFlagSet("dither", flag.ContinueOnError)
	m := fs.String("method", "floyd-steinberg", "")
	th := fs.Int("threshold", 128, "")
	s := fs.Uint64("seed", 0, "")
	sh := fs.Bool("sheet", false, "")
	lvl := fs.Int("levels", 2, "")

	require.NoError(t, fs.Parse([]string{"-threshold", "90"}))

	cfg := &config{
		Method:    "bayer",
		Threshold: 200,
		Seed:      7,
		Sheet:     true,
	}
	require.NoError(t, cfg.apply(fs))

	assert.Equal(t, "bayer", *m)
	assert.Equal(t, 90, *th)
	assert.Equal(t, uint64(7), *s)
	assert.True(t, *sh)
	assert.Equal(t, 2, *lvl)
}
