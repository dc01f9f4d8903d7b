// Package signals translates auxiliary signal payloads into bounded
// adjustments of the factor vector. This is a best-effort heuristic layer,
// not a formally justified model; the rule table is fixed and
// order-sensitive.
package signals

import (
	"strings"

	"github.com/polwatch/regime-risk-meter/internal/factors"
)

// TrendSignal is one search-interest keyword with spike detection applied.
type TrendSignal struct {
	Keyword  string  `json:"keyword"`
	Interest float64 `json:"interest"`
	Spike    bool    `json:"spike"`
}

// Trends is the search-interest payload.
type Trends struct {
	Signals []TrendSignal `json:"signals"`
}

// OpEdAnalysis is the editorial-sentiment payload.
type OpEdAnalysis struct {
	// ComplianceRatio is the share of surveyed outlets softening critical
	// coverage, 0-1.
	ComplianceRatio float64 `json:"complianceRatio"`
	// CriticalRatio is the share still publishing directly critical
	// editorials, 0-1.
	CriticalRatio float64 `json:"criticalRatio"`
}

// EliteSignals is the elite-defection tracking payload.
type EliteSignals struct {
	// DefectionIndex is a 0-100 composite of public breaks with the
	// governing coalition.
	DefectionIndex float64 `json:"defectionIndex"`
}

// SocialSentiment is the social-post sentiment payload.
type SocialSentiment struct {
	// NegativeSentiment is the 0-1 share of sampled posts negative toward
	// the government.
	NegativeSentiment float64 `json:"negativeSentiment"`
	// OrganizingMentions is a 0-100 index of posts referencing protest
	// organization.
	OrganizingMentions float64 `json:"organizingMentions"`
}

// AppliedRule records one rule that fired, for display provenance.
type AppliedRule struct {
	Source string  `json:"source"`
	Factor string  `json:"factor"`
	Delta  float64 `json:"delta"`
	Reason string  `json:"reason"`
}

type rule struct {
	source string
	factor string
	delta  float64
	reason string
	fires  func(in inputs) bool
}

type inputs struct {
	trends *Trends
	opEds  *OpEdAnalysis
	elites *EliteSignals
	social *SocialSentiment
}

// table is evaluated top to bottom. Rules on the same factor are additive:
// a later rule reads the accumulated adjustment, and every step is clamped
// to [0,100] independently.
var table = []rule{
	{
		source: "trends", factor: factors.PublicOpinion, delta: 15,
		reason: "spike in exit-related search interest",
		fires: func(in inputs) bool {
			return in.trends != nil && hasSpike(in.trends, "exit", "emigrate", "leave the country")
		},
	},
	{
		source: "trends", factor: factors.MobilizationalBalance, delta: -8,
		reason: "spike in protest-related search interest",
		fires: func(in inputs) bool {
			return in.trends != nil && hasSpike(in.trends, "protest", "march", "strike")
		},
	},
	{
		source: "opEds", factor: factors.MediaFreedom, delta: 10,
		reason: "majority of surveyed outlets softening coverage",
		fires: func(in inputs) bool {
			return in.opEds != nil && in.opEds.ComplianceRatio > 0.6
		},
	},
	{
		source: "opEds", factor: factors.MediaFreedom, delta: -5,
		reason: "critical editorials still widespread",
		fires: func(in inputs) bool {
			return in.opEds != nil && in.opEds.CriticalRatio > 0.5
		},
	},
	{
		source: "eliteSignals", factor: factors.CorporateCompliance, delta: -10,
		reason: "elite defection index above 40",
		fires: func(in inputs) bool {
			return in.elites != nil && in.elites.DefectionIndex > 40
		},
	},
	{
		source: "eliteSignals", factor: factors.CorporateCompliance, delta: -10,
		reason: "elite defection index above 70",
		fires: func(in inputs) bool {
			return in.elites != nil && in.elites.DefectionIndex > 70
		},
	},
	{
		source: "social", factor: factors.PublicOpinion, delta: -7,
		reason: "sampled post sentiment strongly negative toward government",
		fires: func(in inputs) bool {
			return in.social != nil && in.social.NegativeSentiment > 0.6
		},
	},
	{
		source: "social", factor: factors.CivilSociety, delta: -5,
		reason: "elevated protest-organizing mentions",
		fires: func(in inputs) bool {
			return in.social != nil && in.social.OrganizingMentions > 50
		},
	},
}

func hasSpike(t *Trends, keywords ...string) bool {
	for _, s := range t.Signals {
		if !s.Spike {
			continue
		}
		kw := strings.ToLower(s.Keyword)
		for _, want := range keywords {
			if strings.Contains(kw, want) {
				return true
			}
		}
	}
	return false
}

// Synthesize applies the rule table to the current vector and returns only
// the adjusted keys plus the rules that fired. The input vector is not
// mutated.
func Synthesize(trends *Trends, opEds *OpEdAnalysis, elites *EliteSignals, social *SocialSentiment, current factors.Vector) (factors.Vector, []AppliedRule) {
	in := inputs{trends: trends, opEds: opEds, elites: elites, social: social}

	adjusted := current.Clone()
	out := make(factors.Vector)
	applied := make([]AppliedRule, 0)

	for _, r := range table {
		if !r.fires(in) {
			continue
		}
		adjusted[r.factor] = factors.Clamp(adjusted[r.factor] + r.delta)
		out[r.factor] = adjusted[r.factor]
		applied = append(applied, AppliedRule{
			Source: r.source,
			Factor: r.factor,
			Delta:  r.delta,
			Reason: r.reason,
		})
	}
	return out, applied
}
