package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 200, cfg.ZBinCount)
	assert.InDelta(t, 0.1, cfg.ClusterTolerance, 1e-9)
	assert.InDelta(t, 0.80, cfg.CircleThreshold, 1e-9)
	assert.InDelta(t, 0.75, cfg.RotationalThreshold, 1e-9)
	assert.Equal(t, 3, cfg.PatternMinMembers)
	assert.NoError(t, cfg.validate())
}

func TestParseConfigPartialOverride(t *testing.T) {
	cfg, err := ParseConfig([]byte("circle_threshold: 0.9\ncluster_tolerance: 0.25\n"))
	require.NoError(t, err)

	assert.InDelta(t, 0.9, cfg.CircleThreshold, 1e-9)
	assert.InDelta(t, 0.25, cfg.ClusterTolerance, 1e-9)
	// Untouched fields keep their defaults.
	assert.Equal(t, 200, cfg.ZBinCount)
	assert.InDelta(t, 4.0, cfg.MinFeatureArea, 1e-9)
}

func TestParseConfigEmpty(t *testing.T) {
	cfg, err := ParseConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"malformed yaml", ":\n  - ["},
		{"bin count too small", "z_bin_count: 1"},
		{"negative cluster tolerance", "cluster_tolerance: -0.5"},
		{"circle threshold above one", "circle_threshold: 1.5"},
		{"pattern members below three", "pattern_min_members: 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}
