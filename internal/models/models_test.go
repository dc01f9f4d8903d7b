package models

import (
	"testing"

	"github.com/polwatch/regime-risk-meter/internal/factors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorpusIntegrity(t *testing.T) {
	require.Len(t, All, 10)

	seen := make(map[string]bool)
	for _, m := range All {
		assert.NotEmpty(t, m.ID)
		assert.NotEmpty(t, m.Name)
		assert.NotEmpty(t, m.Cluster)
		assert.False(t, seen[m.ID], "duplicate model id %s", m.ID)
		seen[m.ID] = true

		// Every weight refers to a real factor and every model weighs all
		// ten of them.
		require.Len(t, m.Weights, len(factors.All), "model %s", m.ID)
		for name, w := range m.Weights {
			assert.Contains(t, factors.All, name, "model %s has unknown factor %s", m.ID, name)
			assert.GreaterOrEqual(t, w, 0.0, "model %s factor %s", m.ID, name)
		}
	}
}

func TestByID(t *testing.T) {
	m, ok := ByID("executive-aggrandizement")
	require.True(t, ok)
	assert.Equal(t, "executive-aggrandizement", m.ID)

	_, ok = ByID("nope")
	assert.False(t, ok)
}

func TestSelect(t *testing.T) {
	// Empty selection means the full corpus.
	all := Select(nil)
	assert.Len(t, all, len(All))

	// The returned slice is a copy.
	all[0] = Model{}
	assert.NotEmpty(t, All[0].ID)

	// Unknown ids are skipped, not errors.
	subset := Select([]string{"information-control", "bogus", "elite-defection"})
	require.Len(t, subset, 2)
	assert.Equal(t, "information-control", subset[0].ID)
	assert.Equal(t, "elite-defection", subset[1].ID)

	assert.Empty(t, Select([]string{"bogus"}))
}
