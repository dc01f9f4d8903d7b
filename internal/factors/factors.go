package factors

// The ten structural factors. Each is scored 0-100 where higher means the
// factor is further along the consolidation path (worse for democratic
// resilience).
const (
	JudicialIndependence  = "judicialIndependence"
	Federalism            = "federalism"
	PoliticalCompetition  = "politicalCompetition"
	MediaFreedom          = "mediaFreedom"
	CivilSociety          = "civilSociety"
	PublicOpinion         = "publicOpinion"
	MobilizationalBalance = "mobilizationalBalance"
	StateCapacity         = "stateCapacity"
	CorporateCompliance   = "corporateCompliance"
	ElectionInterference  = "electionInterference"
)

// All lists the factor identifiers in canonical order.
var All = []string{
	JudicialIndependence,
	Federalism,
	PoliticalCompetition,
	MediaFreedom,
	CivilSociety,
	PublicOpinion,
	MobilizationalBalance,
	StateCapacity,
	CorporateCompliance,
	ElectionInterference,
}

// Trend values reported per factor by the research pipeline.
const (
	TrendImproving     = "improving"
	TrendDeteriorating = "deteriorating"
	TrendStable        = "stable"
)

// Score is one assessed factor for a subject country.
type Score struct {
	Score    float64 `json:"score"`
	Evidence string  `json:"evidence"`
	Trend    string  `json:"trend"`
	Sources  string  `json:"sources,omitempty"`
}

// Vector maps factor identifiers to numeric scores in [0,100]. Factors absent
// from the map are treated as 0 by every consumer in this package.
type Vector map[string]float64

// Get returns the score for a factor, 0 when unset.
func (v Vector) Get(name string) float64 {
	return v[name]
}

// Clone returns a shallow copy so callers can adjust without mutating the
// source vector.
func (v Vector) Clone() Vector {
	out := make(Vector, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// Clamp bounds a factor score to [0,100].
func Clamp(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 100 {
		return 100
	}
	return x
}

// WeightedScore computes the raw risk score sum(factor * weight) over all ten
// factors. Weights are used exactly as given; models encode differing
// theoretical emphasis, not a shared probability simplex, so no normalization
// happens here.
func WeightedScore(v Vector, weights Vector) float64 {
	total := 0.0
	for _, name := range All {
		total += v.Get(name) * weights.Get(name)
	}
	return total
}

// Contribution is one factor's share of a weighted score.
type Contribution struct {
	Factor       string  `json:"factor"`
	Score        float64 `json:"score"`
	Weight       float64 `json:"weight"`
	Contribution float64 `json:"contribution"`
}

// Contributions returns the per-factor score*weight terms in canonical order.
func Contributions(v Vector, weights Vector) []Contribution {
	out := make([]Contribution, 0, len(All))
	for _, name := range All {
		out = append(out, Contribution{
			Factor:       name,
			Score:        v.Get(name),
			Weight:       weights.Get(name),
			Contribution: v.Get(name) * weights.Get(name),
		})
	}
	return out
}

// RiskLevel buckets a 0-100 composite score into a display label.
func RiskLevel(score float64) string {
	switch {
	case score < 30:
		return "low"
	case score < 50:
		return "moderate"
	case score < 70:
		return "elevated"
	case score < 85:
		return "high"
	default:
		return "critical"
	}
}

// ProbabilityBand maps a composite score to a coarse consolidation-probability
// band. The bands are presentation-level only; the underlying score is never
// rounded.
func ProbabilityBand(score float64) string {
	switch {
	case score < 30:
		return "<10%"
	case score < 50:
		return "10-25%"
	case score < 70:
		return "25-50%"
	case score < 85:
		return "50-75%"
	default:
		return ">75%"
	}
}
