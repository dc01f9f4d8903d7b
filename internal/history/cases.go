// Package history holds the fixed corpus of historical regime-transition
// cases used for comparative matching. Factor values are retrospective
// assessments on the same 0-100 scale the research pipeline produces.
// The corpus is reference data and is never mutated at runtime.
package history

import "github.com/polwatch/regime-risk-meter/internal/factors"

// Outcome labels for a historical episode.
const (
	OutcomeConsolidated = "consolidated"
	OutcomeResisted     = "resisted"
	OutcomeDemocratized = "democratized"
	OutcomeOngoing      = "ongoing"
)

// Case is one historical episode. OutcomeScore is the retrospective
// consolidation score at the end of the period (100 = full consolidation).
type Case struct {
	ID           string         `json:"id"`
	Country      string         `json:"country"`
	Period       string         `json:"period"`
	Outcome      string         `json:"outcome"`
	OutcomeScore float64        `json:"outcomeScore"`
	Factors      factors.Vector `json:"factors"`
}

// All is the case corpus in declaration order.
var All = []Case{
	{
		ID: "hungary-2010", Country: "Hungary", Period: "2010-2022",
		Outcome: OutcomeConsolidated, OutcomeScore: 75,
		Factors: factors.Vector{
			factors.JudicialIndependence: 80, factors.Federalism: 70,
			factors.PoliticalCompetition: 70, factors.MediaFreedom: 80,
			factors.CivilSociety: 65, factors.PublicOpinion: 55,
			factors.MobilizationalBalance: 60, factors.StateCapacity: 70,
			factors.CorporateCompliance: 75, factors.ElectionInterference: 70,
		},
	},
	{
		ID: "turkey-2013", Country: "Turkey", Period: "2013-2023",
		Outcome: OutcomeConsolidated, OutcomeScore: 80,
		Factors: factors.Vector{
			factors.JudicialIndependence: 85, factors.Federalism: 80,
			factors.PoliticalCompetition: 65, factors.MediaFreedom: 85,
			factors.CivilSociety: 70, factors.PublicOpinion: 55,
			factors.MobilizationalBalance: 65, factors.StateCapacity: 80,
			factors.CorporateCompliance: 80, factors.ElectionInterference: 60,
		},
	},
	{
		ID: "venezuela-1999", Country: "Venezuela", Period: "1999-2013",
		Outcome: OutcomeConsolidated, OutcomeScore: 90,
		Factors: factors.Vector{
			factors.JudicialIndependence: 90, factors.Federalism: 75,
			factors.PoliticalCompetition: 80, factors.MediaFreedom: 80,
			factors.CivilSociety: 70, factors.PublicOpinion: 60,
			factors.MobilizationalBalance: 70, factors.StateCapacity: 65,
			factors.CorporateCompliance: 85, factors.ElectionInterference: 75,
		},
	},
	{
		ID: "russia-2000", Country: "Russia", Period: "2000-2012",
		Outcome: OutcomeConsolidated, OutcomeScore: 95,
		Factors: factors.Vector{
			factors.JudicialIndependence: 90, factors.Federalism: 85,
			factors.PoliticalCompetition: 85, factors.MediaFreedom: 90,
			factors.CivilSociety: 80, factors.PublicOpinion: 65,
			factors.MobilizationalBalance: 80, factors.StateCapacity: 85,
			factors.CorporateCompliance: 90, factors.ElectionInterference: 85,
		},
	},
	{
		ID: "weimar-1930", Country: "Germany", Period: "1930-1934",
		Outcome: OutcomeConsolidated, OutcomeScore: 100,
		Factors: factors.Vector{
			factors.JudicialIndependence: 75, factors.Federalism: 85,
			factors.PoliticalCompetition: 90, factors.MediaFreedom: 85,
			factors.CivilSociety: 75, factors.PublicOpinion: 75,
			factors.MobilizationalBalance: 90, factors.StateCapacity: 80,
			factors.CorporateCompliance: 85, factors.ElectionInterference: 70,
		},
	},
	{
		ID: "italy-1920", Country: "Italy", Period: "1920-1926",
		Outcome: OutcomeConsolidated, OutcomeScore: 95,
		Factors: factors.Vector{
			factors.JudicialIndependence: 70, factors.Federalism: 75,
			factors.PoliticalCompetition: 80, factors.MediaFreedom: 75,
			factors.CivilSociety: 70, factors.PublicOpinion: 65,
			factors.MobilizationalBalance: 90, factors.StateCapacity: 60,
			factors.CorporateCompliance: 80, factors.ElectionInterference: 65,
		},
	},
	{
		ID: "chile-1970", Country: "Chile", Period: "1970-1974",
		Outcome: OutcomeConsolidated, OutcomeScore: 90,
		Factors: factors.Vector{
			factors.JudicialIndependence: 60, factors.Federalism: 70,
			factors.PoliticalCompetition: 70, factors.MediaFreedom: 60,
			factors.CivilSociety: 55, factors.PublicOpinion: 70,
			factors.MobilizationalBalance: 85, factors.StateCapacity: 75,
			factors.CorporateCompliance: 75, factors.ElectionInterference: 50,
		},
	},
	{
		ID: "poland-2015", Country: "Poland", Period: "2015-2023",
		Outcome: OutcomeResisted, OutcomeScore: 40,
		Factors: factors.Vector{
			factors.JudicialIndependence: 70, factors.Federalism: 55,
			factors.PoliticalCompetition: 45, factors.MediaFreedom: 60,
			factors.CivilSociety: 35, factors.PublicOpinion: 45,
			factors.MobilizationalBalance: 40, factors.StateCapacity: 55,
			factors.CorporateCompliance: 45, factors.ElectionInterference: 40,
		},
	},
	{
		ID: "brazil-2019", Country: "Brazil", Period: "2019-2022",
		Outcome: OutcomeResisted, OutcomeScore: 35,
		Factors: factors.Vector{
			factors.JudicialIndependence: 40, factors.Federalism: 35,
			factors.PoliticalCompetition: 40, factors.MediaFreedom: 45,
			factors.CivilSociety: 35, factors.PublicOpinion: 50,
			factors.MobilizationalBalance: 45, factors.StateCapacity: 40,
			factors.CorporateCompliance: 35, factors.ElectionInterference: 50,
		},
	},
	{
		ID: "us-2016", Country: "United States", Period: "2016-2020",
		Outcome: OutcomeResisted, OutcomeScore: 30,
		Factors: factors.Vector{
			factors.JudicialIndependence: 35, factors.Federalism: 25,
			factors.PoliticalCompetition: 35, factors.MediaFreedom: 40,
			factors.CivilSociety: 30, factors.PublicOpinion: 50,
			factors.MobilizationalBalance: 40, factors.StateCapacity: 30,
			factors.CorporateCompliance: 30, factors.ElectionInterference: 45,
		},
	},
	{
		ID: "israel-2023", Country: "Israel", Period: "2023",
		Outcome: OutcomeResisted, OutcomeScore: 35,
		Factors: factors.Vector{
			factors.JudicialIndependence: 60, factors.Federalism: 50,
			factors.PoliticalCompetition: 40, factors.MediaFreedom: 35,
			factors.CivilSociety: 25, factors.PublicOpinion: 45,
			factors.MobilizationalBalance: 30, factors.StateCapacity: 45,
			factors.CorporateCompliance: 30, factors.ElectionInterference: 30,
		},
	},
	{
		ID: "south-korea-1980", Country: "South Korea", Period: "1980-1988",
		Outcome: OutcomeDemocratized, OutcomeScore: 15,
		Factors: factors.Vector{
			factors.JudicialIndependence: 80, factors.Federalism: 85,
			factors.PoliticalCompetition: 75, factors.MediaFreedom: 80,
			factors.CivilSociety: 45, factors.PublicOpinion: 40,
			factors.MobilizationalBalance: 35, factors.StateCapacity: 80,
			factors.CorporateCompliance: 70, factors.ElectionInterference: 75,
		},
	},
	{
		ID: "taiwan-1986", Country: "Taiwan", Period: "1986-1996",
		Outcome: OutcomeDemocratized, OutcomeScore: 10,
		Factors: factors.Vector{
			factors.JudicialIndependence: 75, factors.Federalism: 85,
			factors.PoliticalCompetition: 70, factors.MediaFreedom: 70,
			factors.CivilSociety: 40, factors.PublicOpinion: 35,
			factors.MobilizationalBalance: 35, factors.StateCapacity: 80,
			factors.CorporateCompliance: 65, factors.ElectionInterference: 70,
		},
	},
	{
		ID: "india-2014", Country: "India", Period: "2014-",
		Outcome: OutcomeOngoing, OutcomeScore: 65,
		Factors: factors.Vector{
			factors.JudicialIndependence: 60, factors.Federalism: 55,
			factors.PoliticalCompetition: 55, factors.MediaFreedom: 70,
			factors.CivilSociety: 60, factors.PublicOpinion: 60,
			factors.MobilizationalBalance: 60, factors.StateCapacity: 65,
			factors.CorporateCompliance: 70, factors.ElectionInterference: 50,
		},
	},
	{
		ID: "serbia-2012", Country: "Serbia", Period: "2012-",
		Outcome: OutcomeOngoing, OutcomeScore: 70,
		Factors: factors.Vector{
			factors.JudicialIndependence: 70, factors.Federalism: 75,
			factors.PoliticalCompetition: 60, factors.MediaFreedom: 75,
			factors.CivilSociety: 55, factors.PublicOpinion: 55,
			factors.MobilizationalBalance: 55, factors.StateCapacity: 60,
			factors.CorporateCompliance: 65, factors.ElectionInterference: 60,
		},
	},
	{
		ID: "philippines-2016", Country: "Philippines", Period: "2016-2022",
		Outcome: OutcomeOngoing, OutcomeScore: 60,
		Factors: factors.Vector{
			factors.JudicialIndependence: 55, factors.Federalism: 60,
			factors.PoliticalCompetition: 50, factors.MediaFreedom: 70,
			factors.CivilSociety: 55, factors.PublicOpinion: 65,
			factors.MobilizationalBalance: 55, factors.StateCapacity: 50,
			factors.CorporateCompliance: 60, factors.ElectionInterference: 45,
		},
	},
}
