package signals

import (
	"testing"

	"github.com/polwatch/regime-risk-meter/internal/factors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynthesizeNoPayloads(t *testing.T) {
	current := factors.Vector{factors.PublicOpinion: 50}

	adjusted, applied := Synthesize(nil, nil, nil, nil, current)
	assert.Empty(t, adjusted)
	assert.Empty(t, applied)
	// Input untouched.
	assert.Equal(t, 50.0, current[factors.PublicOpinion])
}

func TestSynthesizeExitSpike(t *testing.T) {
	trends := &Trends{Signals: []TrendSignal{
		{Keyword: "how to emigrate", Interest: 80, Spike: true},
	}}
	current := factors.Vector{factors.PublicOpinion: 50}

	adjusted, applied := Synthesize(trends, nil, nil, nil, current)
	require.Len(t, applied, 1)
	assert.Equal(t, "trends", applied[0].Source)
	assert.Equal(t, factors.PublicOpinion, applied[0].Factor)
	assert.Equal(t, 15.0, applied[0].Delta)
	assert.Equal(t, 65.0, adjusted[factors.PublicOpinion])
}

func TestSynthesizeSpikeFlagRequired(t *testing.T) {
	trends := &Trends{Signals: []TrendSignal{
		{Keyword: "emigrate", Interest: 95, Spike: false},
	}}

	adjusted, applied := Synthesize(trends, nil, nil, nil, factors.Vector{})
	assert.Empty(t, adjusted)
	assert.Empty(t, applied)
}

func TestSynthesizeOpEdRulesAccumulate(t *testing.T) {
	// Both media rules fire: +10 then -5 on the accumulated value.
	opEds := &OpEdAnalysis{ComplianceRatio: 0.7, CriticalRatio: 0.6}
	current := factors.Vector{factors.MediaFreedom: 40}

	adjusted, applied := Synthesize(nil, opEds, nil, nil, current)
	require.Len(t, applied, 2)
	assert.Equal(t, 45.0, adjusted[factors.MediaFreedom])
}

func TestSynthesizeEliteDefectionTiers(t *testing.T) {
	tests := []struct {
		name     string
		index    float64
		expected float64
		rules    int
	}{
		{"below both thresholds", 40, 0, 0},
		{"first tier only", 55, 40, 1},
		{"both tiers", 75, 30, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current := factors.Vector{factors.CorporateCompliance: 50}
			adjusted, applied := Synthesize(nil, nil, &EliteSignals{DefectionIndex: tt.index}, nil, current)
			assert.Len(t, applied, tt.rules)
			if tt.rules > 0 {
				assert.Equal(t, tt.expected, adjusted[factors.CorporateCompliance])
			}
		})
	}
}

func TestSynthesizeClampsEachStep(t *testing.T) {
	// Starting at 95, a +15 adjustment clamps to 100.
	trends := &Trends{Signals: []TrendSignal{
		{Keyword: "exit visa applications", Interest: 90, Spike: true},
	}}
	current := factors.Vector{factors.PublicOpinion: 95}

	adjusted, _ := Synthesize(trends, nil, nil, nil, current)
	assert.Equal(t, 100.0, adjusted[factors.PublicOpinion])

	// And a negative adjustment clamps at 0.
	social := &SocialSentiment{NegativeSentiment: 0.9}
	adjusted, _ = Synthesize(nil, nil, nil, social, factors.Vector{factors.PublicOpinion: 3})
	assert.Equal(t, 0.0, adjusted[factors.PublicOpinion])
}

func TestSynthesizeCombinedPayloads(t *testing.T) {
	trends := &Trends{Signals: []TrendSignal{
		{Keyword: "protest tomorrow", Interest: 70, Spike: true},
	}}
	social := &SocialSentiment{NegativeSentiment: 0.7, OrganizingMentions: 60}
	current := factors.Vector{
		factors.MobilizationalBalance: 50,
		factors.PublicOpinion:         50,
		factors.CivilSociety:          50,
	}

	adjusted, applied := Synthesize(trends, nil, nil, social, current)
	require.Len(t, applied, 3)
	assert.Equal(t, 42.0, adjusted[factors.MobilizationalBalance])
	assert.Equal(t, 43.0, adjusted[factors.PublicOpinion])
	assert.Equal(t, 45.0, adjusted[factors.CivilSociety])

	// Rule order is the table order.
	assert.Equal(t, "trends", applied[0].Source)
	assert.Equal(t, "social", applied[1].Source)
	assert.Equal(t, "social", applied[2].Source)
}

func TestSynthesizeOnlyTouchedKeysReturned(t *testing.T) {
	opEds := &OpEdAnalysis{ComplianceRatio: 0.8}
	current := factors.Vector{
		factors.MediaFreedom: 40,
		factors.CivilSociety: 70,
	}

	adjusted, _ := Synthesize(nil, opEds, nil, nil, current)
	assert.Len(t, adjusted, 1)
	assert.Contains(t, adjusted, factors.MediaFreedom)
}
