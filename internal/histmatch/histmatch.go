// Package histmatch compares the current factor vector against the
// historical case corpus using weighted cosine similarity, viewed through
// one theoretical model's weight vector.
package histmatch

import (
	"math"
	"sort"

	"github.com/polwatch/regime-risk-meter/internal/factors"
	"github.com/polwatch/regime-risk-meter/internal/history"
)

// Similarity thresholds: the listing is stricter than the set feeding the
// outcome prediction.
const (
	SimilarCasesThreshold = 0.85
	PredictionThreshold   = 0.75
)

// signalWeight is the minimum model weight before a factor's raw score is
// worth flagging as a warning or hopeful signal.
const (
	signalWeight  = 0.1
	warningScore  = 60
	hopefulScore  = 30
	neutralScore  = 50
	confidenceOne = "high"
	confidenceTwo = "medium"
	confidenceLow = "low"
)

// Match pairs a historical case with its similarity to the current subject.
type Match struct {
	Case       history.Case `json:"case"`
	Similarity float64      `json:"similarity"`
}

// Prediction is the similarity-weighted outcome derived from matched cases.
type Prediction struct {
	PredictedScore   float64  `json:"predictedScore"`
	Confidence       string   `json:"confidence"`
	MostSimilarCases []Match  `json:"mostSimilarCases"`
	WarningSignals   []string `json:"warningSignals"`
	HopefulSignals   []string `json:"hopefulSignals"`
}

// weighted builds the element-wise factor*weight vector in canonical factor
// order. Missing factors contribute 0.
func weighted(v, w factors.Vector) []float64 {
	out := make([]float64, len(factors.All))
	for i, name := range factors.All {
		out[i] = v.Get(name) * w.Get(name)
	}
	return out
}

// CosineSimilarity is the standard dot/(|a||b|) similarity. It returns
// exactly 0 when either vector has zero magnitude.
func CosineSimilarity(a, b []float64) float64 {
	var dot, magA, magB float64
	for i := range a {
		dot += a[i] * b[i]
		magA += a[i] * a[i]
		magB += b[i] * b[i]
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}

// Compare scores every case in the corpus against the current vector through
// the given weight lens and returns those at or above the threshold, sorted
// descending by similarity.
func Compare(cases []history.Case, current, weights factors.Vector, threshold float64) []Match {
	cur := weighted(current, weights)
	matches := make([]Match, 0, len(cases))
	for _, c := range cases {
		sim := CosineSimilarity(cur, weighted(c.Factors, weights))
		if sim >= threshold {
			matches = append(matches, Match{Case: c, Similarity: sim})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	return matches
}

// Predict derives a similarity-weighted outcome prediction from the cases
// clearing PredictionThreshold. An empty matched set yields the neutral
// default, never an error.
func Predict(cases []history.Case, current, weights factors.Vector) Prediction {
	matches := Compare(cases, current, weights, PredictionThreshold)

	pred := Prediction{
		PredictedScore:   neutralScore,
		Confidence:       confidenceLow,
		MostSimilarCases: matches,
		WarningSignals:   signalFactors(current, weights, true),
		HopefulSignals:   signalFactors(current, weights, false),
	}
	if len(matches) == 0 {
		pred.MostSimilarCases = []Match{}
		return pred
	}

	var weightedSum, simSum float64
	outcomes := make(map[string]bool)
	for _, m := range matches {
		weightedSum += m.Case.OutcomeScore * m.Similarity
		simSum += m.Similarity
		outcomes[m.Case.Outcome] = true
	}
	if simSum > 0 {
		pred.PredictedScore = weightedSum / simSum
	}

	switch len(outcomes) {
	case 1:
		pred.Confidence = confidenceOne
	case 2:
		pred.Confidence = confidenceTwo
	default:
		pred.Confidence = confidenceLow
	}
	return pred
}

// signalFactors flags factors the model cares about (weight > signalWeight)
// whose raw score crosses the warning or hopeful threshold. Purely
// threshold-based on the current vector, independent of any matching.
func signalFactors(current, weights factors.Vector, warning bool) []string {
	out := make([]string, 0)
	for _, name := range factors.All {
		if weights.Get(name) <= signalWeight {
			continue
		}
		score := current.Get(name)
		if warning && score >= warningScore {
			out = append(out, name)
		}
		if !warning && score <= hopefulScore {
			out = append(out, name)
		}
	}
	return out
}
