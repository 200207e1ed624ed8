package labeler

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerRequiresLoadedConfig(t *testing.T) {
	mgr := NewManager(testLogger())

	_, err := mgr.Place(orb.MultiPolygon{rect(0, 0, 10, 10)}, "ELBE", &fixedMeasurer{w: 1, h: 1})
	assert.Error(t, err)

	_, err = mgr.Config()
	assert.Error(t, err)
}

func TestManagerLoadAndPlace(t *testing.T) {
	mgr := NewManager(testLogger())
	require.NoError(t, mgr.LoadConfig(GetDefaultConfig()))

	placement, err := mgr.Place(orb.MultiPolygon{rect(0, 0, 100, 10)}, "ELBE", &fixedMeasurer{w: 10, h: 2})
	require.NoError(t, err)
	assert.True(t, placement.Verified)

	cfg, err := mgr.Config()
	require.NoError(t, err)
	assert.Equal(t, GetDefaultConfig(), cfg)
}

func TestManagerReloadSwapsConfig(t *testing.T) {
	mgr := NewManager(testLogger())
	require.NoError(t, mgr.LoadConfig(GetDefaultConfig()))

	updated := GetDefaultConfig()
	updated.MaxOffsetSteps = 3
	require.NoError(t, mgr.LoadConfig(updated))

	cfg, err := mgr.Config()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.MaxOffsetSteps)
}

func TestManagerBadReloadKeepsPrevious(t *testing.T) {
	mgr := NewManager(testLogger())
	require.NoError(t, mgr.LoadConfig(GetDefaultConfig()))

	bad := GetDefaultConfig()
	bad.OffsetStep = -1
	require.Error(t, mgr.LoadConfig(bad))

	cfg, err := mgr.Config()
	require.NoError(t, err)
	assert.Equal(t, DEFAULT_OFFSET_STEP, cfg.OffsetStep, "previous config keeps running after a failed reload")
}
