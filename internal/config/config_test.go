package config_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/kerchow/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, 10_000_000, cfg.MaxSteps)
	require.Equal(t, 10_000, cfg.MaxCallDepth)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("KERCHOW_MAX_STEPS", "42")
	t.Setenv("KERCHOW_MAX_CALL_DEPTH", "7")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, 42, cfg.MaxSteps)
	require.Equal(t, 7, cfg.MaxCallDepth)
}
