// Package ensemble applies every theoretical model to one factor vector and
// derives cross-model statistics: ranking, outlier flags, and per-cluster
// aggregates.
package ensemble

import (
	"math"
	"sort"

	"github.com/polwatch/regime-risk-meter/internal/factors"
	"github.com/polwatch/regime-risk-meter/internal/models"
)

// Outlier directions.
const (
	DirectionHigh = "high"
	DirectionLow  = "low"
)

// lowFactorWeight is the minimum weight a factor needs before a low raw score
// counts as a resilience signal for a model.
const (
	lowFactorWeight = 0.15
	lowFactorScore  = 30
	topDriverCount  = 3
)

// ModelScore is one model's view of the current factor vector.
type ModelScore struct {
	Model             models.Model           `json:"model"`
	Score             float64                `json:"score"`
	RiskLevel         string                 `json:"riskLevel"`
	ProbabilityBand   string                 `json:"probabilityBand"`
	TopDrivers        []factors.Contribution `json:"topDrivers"`
	LowFactors        []string               `json:"lowFactors"`
	IsOutlier         bool                   `json:"isOutlier"`
	DeviationFromMean float64                `json:"deviationFromMean"`
	OutlierDirection  string                 `json:"outlierDirection,omitempty"`
}

// ClusterScore is the average score of all models sharing a cluster label.
type ClusterScore struct {
	Cluster string  `json:"cluster"`
	Score   float64 `json:"score"`
	Models  int     `json:"models"`
}

// Result bundles the ranked model scores with population statistics.
type Result struct {
	Scores   []ModelScore   `json:"scores"`
	Mean     float64        `json:"mean"`
	StdDev   float64        `json:"stdDev"`
	Clusters []ClusterScore `json:"clusters"`
}

// Score evaluates every model against the factor vector. Missing factors
// score as 0. The returned scores are sorted descending.
func Score(ms []models.Model, fv factors.Vector) Result {
	scores := make([]ModelScore, 0, len(ms))
	for _, m := range ms {
		scores = append(scores, scoreModel(m, fv))
	}

	mean, stddev := populationStats(scores)
	for i := range scores {
		dev := scores[i].Score - mean
		scores[i].DeviationFromMean = dev
		// Strict comparison: a score exactly one stddev from the mean is
		// not an outlier.
		if math.Abs(dev) > stddev {
			scores[i].IsOutlier = true
			if dev > 0 {
				scores[i].OutlierDirection = DirectionHigh
			} else {
				scores[i].OutlierDirection = DirectionLow
			}
		}
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})

	return Result{
		Scores:   scores,
		Mean:     mean,
		StdDev:   stddev,
		Clusters: clusterScores(scores),
	}
}

func scoreModel(m models.Model, fv factors.Vector) ModelScore {
	score := factors.WeightedScore(fv, m.Weights)

	contribs := factors.Contributions(fv, m.Weights)
	sort.SliceStable(contribs, func(i, j int) bool {
		return contribs[i].Contribution > contribs[j].Contribution
	})

	drivers := make([]factors.Contribution, 0, topDriverCount)
	for _, c := range contribs {
		if c.Contribution <= 0 || len(drivers) == topDriverCount {
			break
		}
		drivers = append(drivers, c)
	}

	low := make([]string, 0)
	for _, name := range factors.All {
		if m.Weights.Get(name) >= lowFactorWeight && fv.Get(name) < lowFactorScore {
			low = append(low, name)
		}
	}

	return ModelScore{
		Model:           m,
		Score:           score,
		RiskLevel:       factors.RiskLevel(score),
		ProbabilityBand: factors.ProbabilityBand(score),
		TopDrivers:      drivers,
		LowFactors:      low,
	}
}

// populationStats returns the mean and population standard deviation of the
// model scores.
func populationStats(scores []ModelScore) (mean, stddev float64) {
	if len(scores) == 0 {
		return 0, 0
	}
	for _, s := range scores {
		mean += s.Score
	}
	mean /= float64(len(scores))

	variance := 0.0
	for _, s := range scores {
		d := s.Score - mean
		variance += d * d
	}
	variance /= float64(len(scores))
	return mean, math.Sqrt(variance)
}

// clusterScores averages model scores per cluster label, sorted descending.
func clusterScores(scores []ModelScore) []ClusterScore {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, s := range scores {
		sums[s.Model.Cluster] += s.Score
		counts[s.Model.Cluster]++
	}

	out := make([]ClusterScore, 0, len(sums))
	for cluster, sum := range sums {
		out = append(out, ClusterScore{
			Cluster: cluster,
			Score:   sum / float64(counts[cluster]),
			Models:  counts[cluster],
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Cluster < out[j].Cluster
	})
	return out
}
