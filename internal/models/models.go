// Package models holds the fixed corpus of theoretical weighting models.
// Each model is one political-science school's emphasis over the ten
// structural factors. The corpus is reference data and is never mutated at
// runtime.
package models

import "github.com/polwatch/regime-risk-meter/internal/factors"

// Cluster labels group models by their broad theoretical family.
const (
	ClusterInstitutional = "institutional"
	ClusterSocietal      = "societal"
	ClusterElite         = "elite"
	ClusterEconomic      = "economic"
)

// Model is one named weighting of the ten factors. Weights are relative
// contribution, not a probability distribution.
type Model struct {
	ID      string         `json:"id"`
	Name    string         `json:"name"`
	Cluster string         `json:"cluster"`
	Weights factors.Vector `json:"weights"`
}

// All is the model corpus in declaration order.
var All = []Model{
	{
		ID:      "institutional-guardrails",
		Name:    "Institutional Guardrails",
		Cluster: ClusterInstitutional,
		Weights: factors.Vector{
			factors.JudicialIndependence:  0.25,
			factors.Federalism:            0.15,
			factors.PoliticalCompetition:  0.20,
			factors.MediaFreedom:          0.10,
			factors.CivilSociety:          0.05,
			factors.PublicOpinion:         0.05,
			factors.MobilizationalBalance: 0.05,
			factors.StateCapacity:         0.05,
			factors.CorporateCompliance:   0.05,
			factors.ElectionInterference:  0.05,
		},
	},
	{
		ID:      "executive-aggrandizement",
		Name:    "Executive Aggrandizement",
		Cluster: ClusterInstitutional,
		Weights: factors.Vector{
			factors.JudicialIndependence:  0.20,
			factors.Federalism:            0.10,
			factors.PoliticalCompetition:  0.15,
			factors.MediaFreedom:          0.10,
			factors.CivilSociety:          0.05,
			factors.PublicOpinion:         0.05,
			factors.MobilizationalBalance: 0.05,
			factors.StateCapacity:         0.10,
			factors.CorporateCompliance:   0.05,
			factors.ElectionInterference:  0.15,
		},
	},
	{
		ID:      "competitive-authoritarianism",
		Name:    "Competitive Authoritarianism",
		Cluster: ClusterInstitutional,
		Weights: factors.Vector{
			factors.JudicialIndependence:  0.12,
			factors.Federalism:            0.05,
			factors.PoliticalCompetition:  0.25,
			factors.MediaFreedom:          0.18,
			factors.CivilSociety:          0.05,
			factors.PublicOpinion:         0.05,
			factors.MobilizationalBalance: 0.05,
			factors.StateCapacity:         0.05,
			factors.CorporateCompliance:   0.05,
			factors.ElectionInterference:  0.15,
		},
	},
	{
		ID:      "polarization-dynamics",
		Name:    "Polarization Dynamics",
		Cluster: ClusterSocietal,
		Weights: factors.Vector{
			factors.JudicialIndependence:  0.05,
			factors.Federalism:            0.05,
			factors.PoliticalCompetition:  0.15,
			factors.MediaFreedom:          0.10,
			factors.CivilSociety:          0.10,
			factors.PublicOpinion:         0.30,
			factors.MobilizationalBalance: 0.15,
			factors.StateCapacity:         0.02,
			factors.CorporateCompliance:   0.03,
			factors.ElectionInterference:  0.05,
		},
	},
	{
		ID:      "civic-mobilization",
		Name:    "Civic Mobilization",
		Cluster: ClusterSocietal,
		Weights: factors.Vector{
			factors.JudicialIndependence:  0.05,
			factors.Federalism:            0.05,
			factors.PoliticalCompetition:  0.10,
			factors.MediaFreedom:          0.10,
			factors.CivilSociety:          0.25,
			factors.PublicOpinion:         0.10,
			factors.MobilizationalBalance: 0.25,
			factors.StateCapacity:         0.03,
			factors.CorporateCompliance:   0.02,
			factors.ElectionInterference:  0.05,
		},
	},
	{
		ID:      "information-control",
		Name:    "Information Control",
		Cluster: ClusterSocietal,
		Weights: factors.Vector{
			factors.JudicialIndependence:  0.05,
			factors.Federalism:            0.02,
			factors.PoliticalCompetition:  0.08,
			factors.MediaFreedom:          0.35,
			factors.CivilSociety:          0.15,
			factors.PublicOpinion:         0.15,
			factors.MobilizationalBalance: 0.05,
			factors.StateCapacity:         0.05,
			factors.CorporateCompliance:   0.05,
			factors.ElectionInterference:  0.05,
		},
	},
	{
		ID:      "elite-defection",
		Name:    "Elite Defection",
		Cluster: ClusterElite,
		Weights: factors.Vector{
			factors.JudicialIndependence:  0.08,
			factors.Federalism:            0.02,
			factors.PoliticalCompetition:  0.15,
			factors.MediaFreedom:          0.05,
			factors.CivilSociety:          0.05,
			factors.PublicOpinion:         0.05,
			factors.MobilizationalBalance: 0.10,
			factors.StateCapacity:         0.15,
			factors.CorporateCompliance:   0.30,
			factors.ElectionInterference:  0.05,
		},
	},
	{
		ID:      "coercive-capacity",
		Name:    "Coercive Capacity",
		Cluster: ClusterElite,
		Weights: factors.Vector{
			factors.JudicialIndependence:  0.10,
			factors.Federalism:            0.05,
			factors.PoliticalCompetition:  0.05,
			factors.MediaFreedom:          0.05,
			factors.CivilSociety:          0.10,
			factors.PublicOpinion:         0.05,
			factors.MobilizationalBalance: 0.15,
			factors.StateCapacity:         0.35,
			factors.CorporateCompliance:   0.05,
			factors.ElectionInterference:  0.05,
		},
	},
	{
		ID:      "business-capture",
		Name:    "Business Capture",
		Cluster: ClusterEconomic,
		Weights: factors.Vector{
			factors.JudicialIndependence:  0.10,
			factors.Federalism:            0.02,
			factors.PoliticalCompetition:  0.08,
			factors.MediaFreedom:          0.15,
			factors.CivilSociety:          0.05,
			factors.PublicOpinion:         0.05,
			factors.MobilizationalBalance: 0.05,
			factors.StateCapacity:         0.10,
			factors.CorporateCompliance:   0.35,
			factors.ElectionInterference:  0.05,
		},
	},
	{
		ID:      "electoral-manipulation",
		Name:    "Electoral Manipulation",
		Cluster: ClusterInstitutional,
		Weights: factors.Vector{
			factors.JudicialIndependence:  0.10,
			factors.Federalism:            0.10,
			factors.PoliticalCompetition:  0.15,
			factors.MediaFreedom:          0.08,
			factors.CivilSociety:          0.05,
			factors.PublicOpinion:         0.05,
			factors.MobilizationalBalance: 0.02,
			factors.StateCapacity:         0.05,
			factors.CorporateCompliance:   0.05,
			factors.ElectionInterference:  0.35,
		},
	},
}

// ByID returns the model with the given id, or false when unknown.
func ByID(id string) (Model, bool) {
	for _, m := range All {
		if m.ID == id {
			return m, true
		}
	}
	return Model{}, false
}

// Select resolves a list of model ids to models, skipping unknown ids. An
// empty or nil id list selects the full corpus.
func Select(ids []string) []Model {
	if len(ids) == 0 {
		out := make([]Model, len(All))
		copy(out, All)
		return out
	}
	out := make([]Model, 0, len(ids))
	for _, id := range ids {
		if m, ok := ByID(id); ok {
			out = append(out, m)
		}
	}
	return out
}
