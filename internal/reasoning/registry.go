package reasoning

import (
	"encoding/json"
	"fmt"

	"github.com/polwatch/regime-risk-meter/internal/factors"
)

// Research modes. Live mode enables web search and larger token budgets;
// quick mode answers from existing knowledge.
const (
	ModeQuick = "quick"
	ModeLive  = "live"
)

// Sub-query names. Each covers a disjoint slice of the factor vector, which
// is what makes the orchestrator's last-write-wins merge safe.
const (
	QueryInstitutional = "institutional"
	QueryPublicOpinion = "publicOpinion"
	QueryMobilization  = "mobilization"
	QueryMedia         = "media"
	QuerySynthesis     = "synthesis"
)

// SubQuery is one independently cacheable unit of research work: its prompt
// builder, token budgets per mode, and structured-output tool. Pure data.
type SubQuery struct {
	Name        string
	BudgetQuick int
	BudgetLive  int
	Factors     []string
	Prompt      func(subject string) string
	Tool        Tool
}

// Budget selects the token budget for a mode, defaulting to quick.
func (q SubQuery) Budget(mode string) int {
	if mode == ModeLive {
		return q.BudgetLive
	}
	return q.BudgetQuick
}

// factorProperty is the JSON-schema shape of one assessed factor.
func factorProperty(description string) map[string]any {
	return map[string]any{
		"type":        "object",
		"description": description,
		"properties": map[string]any{
			"score":    map[string]any{"type": "number", "minimum": 0, "maximum": 100},
			"evidence": map[string]any{"type": "string"},
			"trend":    map[string]any{"type": "string", "enum": []string{factors.TrendImproving, factors.TrendDeteriorating, factors.TrendStable}},
			"sources":  map[string]any{"type": "string"},
		},
		"required": []string{"score", "evidence", "trend"},
	}
}

func outputTool(name, description string, properties map[string]any) Tool {
	required := make([]string, 0, len(properties))
	for key := range properties {
		required = append(required, key)
	}
	return Tool{
		Name:        name,
		Description: description,
		InputSchema: map[string]any{
			"type":       "object",
			"properties": properties,
			"required":   required,
		},
	}
}

const promptPreamble = "You are a comparative-politics researcher assessing structural vulnerability to authoritarian consolidation. Score each requested factor 0-100 where 0 means fully resilient and 100 means fully consolidated. Report concrete evidence and a trend for each. Respond with the %s tool."

// SubQueries is the fixed registry the orchestrator runs, in batch order.
var SubQueries = []SubQuery{
	{
		Name:        QueryInstitutional,
		BudgetQuick: 3000,
		BudgetLive:  6000,
		Factors: []string{
			factors.JudicialIndependence, factors.Federalism,
			factors.PoliticalCompetition, factors.StateCapacity,
			factors.ElectionInterference,
		},
		Prompt: func(subject string) string {
			return fmt.Sprintf(promptPreamble, "record_institutional_assessment") +
				fmt.Sprintf("\n\nAssess the institutional landscape of %s: judicial independence, federalism and subnational autonomy, political competition, state administrative capacity, and election integrity.", subject)
		},
		Tool: outputTool("record_institutional_assessment",
			"Record the institutional factor assessment.",
			map[string]any{
				factors.JudicialIndependence: factorProperty("Capture of courts and erosion of judicial review."),
				factors.Federalism:           factorProperty("Centralization of power away from subnational governments."),
				factors.PoliticalCompetition: factorProperty("Viability of opposition parties and fairness of competition."),
				factors.StateCapacity:        factorProperty("Administrative and coercive capacity available to the executive."),
				factors.ElectionInterference: factorProperty("Manipulation of electoral administration and rules."),
			}),
	},
	{
		Name:        QueryPublicOpinion,
		BudgetQuick: 2500,
		BudgetLive:  5000,
		Factors:     []string{factors.PublicOpinion},
		Prompt: func(subject string) string {
			return fmt.Sprintf(promptPreamble, "record_public_opinion") +
				fmt.Sprintf("\n\nAssess public opinion in %s: support for strongman rule, tolerance of democratic backsliding, and polarization-driven acceptance of norm violations.", subject)
		},
		Tool: outputTool("record_public_opinion",
			"Record the public-opinion factor assessment.",
			map[string]any{
				factors.PublicOpinion: factorProperty("Mass acceptance of authoritarian measures."),
			}),
	},
	{
		Name:        QueryMobilization,
		BudgetQuick: 3000,
		BudgetLive:  6000,
		Factors:     []string{factors.MobilizationalBalance, factors.CorporateCompliance},
		Prompt: func(subject string) string {
			return fmt.Sprintf(promptPreamble, "record_mobilization_assessment") +
				fmt.Sprintf("\n\nAssess the mobilizational balance in %s: street-level strength of pro-government versus opposition movements, and the degree of preemptive compliance by major firms and business associations.", subject)
		},
		Tool: outputTool("record_mobilization_assessment",
			"Record the mobilization and corporate-compliance assessment.",
			map[string]any{
				factors.MobilizationalBalance: factorProperty("Relative mobilizational strength favoring the government."),
				factors.CorporateCompliance:   factorProperty("Preemptive alignment of major firms with the government."),
			}),
	},
	{
		Name:        QueryMedia,
		BudgetQuick: 2500,
		BudgetLive:  5000,
		Factors:     []string{factors.MediaFreedom, factors.CivilSociety},
		Prompt: func(subject string) string {
			return fmt.Sprintf(promptPreamble, "record_media_assessment") +
				fmt.Sprintf("\n\nAssess the information and associational landscape of %s: media ownership concentration, self-censorship, pressure on journalists, and the operating space for NGOs, unions, and universities.", subject)
		},
		Tool: outputTool("record_media_assessment",
			"Record the media and civil-society assessment.",
			map[string]any{
				factors.MediaFreedom: factorProperty("Capture or chilling of independent media."),
				factors.CivilSociety: factorProperty("Shrinking of civil-society operating space."),
			}),
	},
}

// Synthesis budgets mirror the sub-query table.
const (
	synthesisBudgetQuick = 3000
	synthesisBudgetLive  = 6000
)

// SynthesisBudget returns the token budget for the second-phase call.
func SynthesisBudget(mode string) int {
	if mode == ModeLive {
		return synthesisBudgetLive
	}
	return synthesisBudgetQuick
}

// SynthesisPrompt builds the second-phase prompt from the merged phase-1
// object. The merged object is embedded as JSON so the service reconciles
// exactly what the sub-queries produced.
func SynthesisPrompt(subject string, merged map[string]any) string {
	body, err := json.Marshal(merged)
	if err != nil {
		body = []byte("{}")
	}
	return fmt.Sprintf("You are a comparative-politics researcher. Below are factor assessments for %s produced by independent research passes. Reconcile them into a short overall summary: the dominant dynamics, the most load-bearing factors, and any tension between assessments. Respond with the record_synthesis tool.\n\n%s", subject, string(body))
}

// SynthesisTool is the structured-output schema for the synthesis call.
var SynthesisTool = outputTool("record_synthesis",
	"Record the cross-factor synthesis.",
	map[string]any{
		"summary": map[string]any{
			"type":        "string",
			"description": "Narrative reconciliation of the factor assessments.",
		},
		"overallTrend": map[string]any{
			"type": "string",
			"enum": []string{factors.TrendImproving, factors.TrendDeteriorating, factors.TrendStable},
		},
	})
