package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsAreInternallyConsistent(t *testing.T) {
	cfg := Defaults()

	assert.Less(t, cfg.FilterGainMin, cfg.FilterGainMax)
	assert.Less(t, cfg.MatcherCandidateRadiusM, cfg.MatcherCandidateRadiusRetryM)
	assert.Greater(t, cfg.MaxRouteDistanceM, 0.0)
}

func TestLoadWithMissingFileFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoadOverlaysFileOnTopOfDefaults(t *testing.T) {
	dir := t.TempDir()
	content := "node_search_radius_m: 500\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.InDelta(t, 500.0, cfg.NodeSearchRadiusM, 1e-9)
	assert.InDelta(t, Defaults().MaxRouteDistanceM, cfg.MaxRouteDistanceM, 1e-9)
}
