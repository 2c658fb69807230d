package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mastercactapus/milopost/post"
	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, used, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, used)
	assert.Equal(t, post.DefaultOptions(), cfg.Options())
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()

	yml := filepath.Join(dir, "milopost.yaml")
	require.NoError(t, os.WriteFile(yml, []byte("output:\n  machine: false\nlifecycle:\n  park_at_end: false\n"), 0o644))

	cfg, used, err := Load(yml)
	require.NoError(t, err)
	assert.Equal(t, yml, used)
	opts := cfg.Options()
	assert.False(t, opts.OutputMachine)
	assert.False(t, opts.ParkAtEnd)
	assert.True(t, opts.OutputTools)
	assert.True(t, opts.HomeBeforeOp)

	tml := filepath.Join(dir, "milopost.toml")
	require.NoError(t, os.WriteFile(tml, []byte("[lifecycle]\nhome_before_op = false\n"), 0o644))

	cfg, _, err = Load(tml)
	require.NoError(t, err)
	assert.False(t, cfg.Lifecycle.HomeBeforeOp)
	assert.True(t, cfg.Output.Machine)
}

func TestLoad_Missing(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("MILOPOST_LIFECYCLE_PROBE_WORKPIECE_BEFORE_OP", "false")
	t.Setenv("MILOPOST_OUTPUT_VERSION", "false")

	cfg, _, err := Load("")
	require.NoError(t, err)
	opts := cfg.Options()
	assert.False(t, opts.ProbeWorkpieceBeforeOp)
	assert.False(t, opts.OutputVersion)
	assert.True(t, opts.ProbeWorkpieceBeforeStart)
}

func TestDefaultTOML(t *testing.T) {
	data, err := DefaultTOML()
	require.NoError(t, err)
	assert.Contains(t, string(data), "park_at_end = true")

	var cfg Config
	require.NoError(t, toml.Unmarshal(data, &cfg))
	assert.Equal(t, FromOptions(post.DefaultOptions()), cfg)
}
