package ensemble

import (
	"testing"

	"github.com/polwatch/regime-risk-meter/internal/factors"
	"github.com/polwatch/regime-risk-meter/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testModel(id, cluster string, weights factors.Vector) models.Model {
	return models.Model{ID: id, Name: id, Cluster: cluster, Weights: weights}
}

func TestScoreRankingAndStats(t *testing.T) {
	ms := []models.Model{
		testModel("a", "institutional", factors.Vector{factors.JudicialIndependence: 1.0}),
		testModel("b", "institutional", factors.Vector{factors.MediaFreedom: 1.0}),
	}
	fv := factors.Vector{
		factors.JudicialIndependence: 40,
		factors.MediaFreedom:         80,
	}

	res := Score(ms, fv)
	require.Len(t, res.Scores, 2)

	// Sorted descending.
	assert.Equal(t, "b", res.Scores[0].Model.ID)
	assert.InDelta(t, 80.0, res.Scores[0].Score, 1e-9)
	assert.Equal(t, "a", res.Scores[1].Model.ID)
	assert.InDelta(t, 40.0, res.Scores[1].Score, 1e-9)

	assert.InDelta(t, 60.0, res.Mean, 1e-9)
	assert.InDelta(t, 20.0, res.StdDev, 1e-9)
}

func TestScoreOutlierBoundaryIsStrict(t *testing.T) {
	// Two models at 80 and 20: mean 50, stddev 30, each deviation exactly
	// 30. Neither clears the strict comparison.
	ms := []models.Model{
		testModel("hot", "elite", factors.Vector{factors.PublicOpinion: 1.0}),
		testModel("cold", "elite", factors.Vector{factors.StateCapacity: 1.0}),
	}
	fv := factors.Vector{
		factors.PublicOpinion: 80,
		factors.StateCapacity: 20,
	}

	res := Score(ms, fv)
	for _, s := range res.Scores {
		assert.False(t, s.IsOutlier, "model %s flagged as outlier at exactly one stddev", s.Model.ID)
		assert.Empty(t, s.OutlierDirection)
	}
}

func TestScoreOutlierDirections(t *testing.T) {
	ms := []models.Model{
		testModel("high1", "societal", factors.Vector{factors.PublicOpinion: 1.0}),
		testModel("mid1", "societal", factors.Vector{factors.CivilSociety: 1.0}),
		testModel("mid2", "societal", factors.Vector{factors.MediaFreedom: 1.0}),
		testModel("mid3", "societal", factors.Vector{factors.Federalism: 1.0}),
	}
	fv := factors.Vector{
		factors.PublicOpinion: 100,
		factors.CivilSociety:  50,
		factors.MediaFreedom:  50,
		factors.Federalism:    50,
	}

	res := Score(ms, fv)
	require.Equal(t, "high1", res.Scores[0].Model.ID)
	assert.True(t, res.Scores[0].IsOutlier)
	assert.Equal(t, DirectionHigh, res.Scores[0].OutlierDirection)
	assert.InDelta(t, 37.5, res.Scores[0].DeviationFromMean, 1e-9)
}

func TestScoreTopDriversPositiveOnly(t *testing.T) {
	m := testModel("m", "economic", factors.Vector{
		factors.JudicialIndependence: 0.4,
		factors.MediaFreedom:         0.3,
		factors.CivilSociety:         0.2,
		factors.PublicOpinion:        0.1,
	})
	fv := factors.Vector{
		factors.JudicialIndependence: 90,
		factors.MediaFreedom:         70,
		factors.CivilSociety:         50,
		factors.PublicOpinion:        40,
	}

	res := Score([]models.Model{m}, fv)
	drivers := res.Scores[0].TopDrivers
	require.Len(t, drivers, 3)
	assert.Equal(t, factors.JudicialIndependence, drivers[0].Factor)
	assert.Equal(t, factors.MediaFreedom, drivers[1].Factor)
	assert.Equal(t, factors.CivilSociety, drivers[2].Factor)
}

func TestScoreTopDriversOmitZeroContributions(t *testing.T) {
	m := testModel("m", "economic", factors.Vector{factors.MediaFreedom: 0.5})
	fv := factors.Vector{factors.MediaFreedom: 60}

	res := Score([]models.Model{m}, fv)
	require.Len(t, res.Scores[0].TopDrivers, 1)
	assert.Equal(t, factors.MediaFreedom, res.Scores[0].TopDrivers[0].Factor)
}

func TestScoreLowFactors(t *testing.T) {
	m := testModel("m", "institutional", factors.Vector{
		factors.JudicialIndependence: 0.15, // at the weight threshold
		factors.MediaFreedom:         0.14, // below it
		factors.CivilSociety:         0.5,
	})
	fv := factors.Vector{
		factors.JudicialIndependence: 29, // low
		factors.MediaFreedom:         10, // low score, weight too small
		factors.CivilSociety:         30, // score at threshold, not low
	}

	res := Score([]models.Model{m}, fv)
	assert.Equal(t, []string{factors.JudicialIndependence}, res.Scores[0].LowFactors)
}

func TestScoreClusterAverages(t *testing.T) {
	ms := []models.Model{
		testModel("a", "institutional", factors.Vector{factors.JudicialIndependence: 1.0}),
		testModel("b", "institutional", factors.Vector{factors.MediaFreedom: 1.0}),
		testModel("c", "societal", factors.Vector{factors.CivilSociety: 1.0}),
	}
	fv := factors.Vector{
		factors.JudicialIndependence: 60,
		factors.MediaFreedom:         40,
		factors.CivilSociety:         90,
	}

	res := Score(ms, fv)
	require.Len(t, res.Clusters, 2)
	// Sorted descending by average.
	assert.Equal(t, "societal", res.Clusters[0].Cluster)
	assert.InDelta(t, 90.0, res.Clusters[0].Score, 1e-9)
	assert.Equal(t, 1, res.Clusters[0].Models)
	assert.Equal(t, "institutional", res.Clusters[1].Cluster)
	assert.InDelta(t, 50.0, res.Clusters[1].Score, 1e-9)
	assert.Equal(t, 2, res.Clusters[1].Models)
}

func TestScoreFullCorpus(t *testing.T) {
	fv := factors.Vector{}
	for _, name := range factors.All {
		fv[name] = 50
	}

	res := Score(models.All, fv)
	require.Len(t, res.Scores, len(models.All))
	assert.Greater(t, res.Mean, 0.0)
	for _, s := range res.Scores {
		assert.Equal(t, factors.RiskLevel(s.Score), s.RiskLevel)
		assert.Equal(t, factors.ProbabilityBand(s.Score), s.ProbabilityBand)
	}
}

func TestScoreEmptyModelSet(t *testing.T) {
	res := Score(nil, factors.Vector{factors.MediaFreedom: 50})
	assert.Empty(t, res.Scores)
	assert.Zero(t, res.Mean)
	assert.Zero(t, res.StdDev)
	assert.Empty(t, res.Clusters)
}
