package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 0.05, cfg.Duplicates.EnergyTol)
	assert.Equal(t, 0.017, cfg.Duplicates.AngleTol)
	assert.Equal(t, "mayfly", cfg.Search.Optimizer)
	assert.Equal(t, 2000, cfg.Minimizer.MaxIter)
	assert.Equal(t, []string{"stderr"}, cfg.Log.OutputPaths)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gommff.yaml")
	yaml := `
duplicates:
  energy_tol: 0.1
search:
  trials: 5
  optimizer: random
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.1, cfg.Duplicates.EnergyTol)
	assert.Equal(t, 0.017, cfg.Duplicates.AngleTol) //default kept
	assert.Equal(t, 5, cfg.Search.Trials)
	assert.Equal(t, "random", cfg.Search.Optimizer)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("GOMMFF_SEARCH_TRIALS", "7")
	t.Setenv("GOMMFF_MINIMIZER_GRAD_TOL", "0.01")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Search.Trials)
	assert.Equal(t, 0.01, cfg.Minimizer.GradTol)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Duplicates.AngleTol = 0
	cfg.Search.Optimizer = "simplex"
	cfg.Log.Level = "loud"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tolerances")
	assert.Contains(t, err.Error(), "simplex")
	assert.Contains(t, err.Error(), "loud")

	cfg = Default()
	cfg.Search.Optimizer = "mayfly"
	cfg.Search.Population = 10
	assert.Error(t, cfg.Validate())
}
