// Package catalog holds the reference data behind the deliberation
// tools: facility population profiles, response strategy playbooks,
// and regulatory exposure per parameter. Every lookup has a generic
// fallback so unknown inputs still produce a usable answer.
package catalog

import "github.com/envops/incidentd/internal/incident"

// PopulationImpact describes who is affected when a facility has an
// incident. VulnerablePopulation is derived from the percentage.
type PopulationImpact struct {
	FacilityID                  string `json:"facility_id"`
	TotalCustomers              int    `json:"total_customers"`
	Schools                     int    `json:"schools"`
	Hospitals                   int    `json:"hospitals"`
	NursingHomes                int    `json:"nursing_homes"`
	VulnerablePopulationPercent int    `json:"vulnerable_population_percentage"`
	VulnerablePopulation        int    `json:"vulnerable_population"`
}

var facilityProfiles = map[string]PopulationImpact{
	"Atlanta_WTP": {
		TotalCustomers:              125000,
		Schools:                     23,
		Hospitals:                   2,
		NursingHomes:                5,
		VulnerablePopulationPercent: 15,
	},
	"Decatur_Plant": {
		TotalCustomers:              45000,
		Schools:                     8,
		Hospitals:                   1,
		NursingHomes:                2,
		VulnerablePopulationPercent: 12,
	},
}

var genericProfile = PopulationImpact{
	TotalCustomers:              50000,
	Schools:                     10,
	Hospitals:                   1,
	NursingHomes:                3,
	VulnerablePopulationPercent: 12,
}

// LookupPopulationImpact returns the population profile for a
// facility, falling back to a generic mid-size profile.
func LookupPopulationImpact(facilityID string) PopulationImpact {
	profile, ok := facilityProfiles[facilityID]
	if !ok {
		profile = genericProfile
	}
	profile.FacilityID = facilityID
	profile.VulnerablePopulation = profile.TotalCustomers * profile.VulnerablePopulationPercent / 100
	return profile
}

// ResponseOption is one strategy for resolving an incident.
type ResponseOption struct {
	Option        string  `json:"option"`
	EstimatedCost float64 `json:"estimated_cost"`
	TimeToResolve string  `json:"time_to_resolve"`
	SuccessRate   float64 `json:"success_rate"`
	Risks         string  `json:"risks"`
	Benefits      string  `json:"benefits"`
}

// ResponseOptions lists the strategies available for one incident type.
type ResponseOptions struct {
	IncidentType     string           `json:"incident_type"`
	AvailableOptions []ResponseOption `json:"available_options"`
	Recommendation   string           `json:"recommendation"`
}

var responseStrategies = map[string][]ResponseOption{
	incident.CategoryWaterContamination: {
		{
			Option:        "Chlorine boost + flushing",
			EstimatedCost: 15000,
			TimeToResolve: "6-8 hours",
			SuccessRate:   0.92,
			Risks:         "May not work if contamination is severe",
			Benefits:      "Low cost, minimal customer impact",
		},
		{
			Option:        "Boil water advisory",
			EstimatedCost: 2000000,
			TimeToResolve: "immediate",
			SuccessRate:   1.0,
			Risks:         "Public trust damage, media coverage",
			Benefits:      "100% protects public health",
		},
		{
			Option:        "Switch to backup source",
			EstimatedCost: 50000,
			TimeToResolve: "2-4 hours",
			SuccessRate:   0.98,
			Risks:         "Backup source may have capacity limits",
			Benefits:      "Fast resolution, no public alert needed",
		},
	},
	incident.CategoryAirQuality: {
		{
			Option:        "Reduce operations to 50%",
			EstimatedCost: 100000,
			TimeToResolve: "immediate",
			SuccessRate:   0.95,
			Risks:         "Revenue loss",
			Benefits:      "Guaranteed compliance",
		},
		{
			Option:        "Equipment adjustment",
			EstimatedCost: 10000,
			TimeToResolve: "2-6 hours",
			SuccessRate:   0.85,
			Risks:         "May not be sufficient",
			Benefits:      "Low cost, no operations impact",
		},
	},
	incident.CategoryEquipmentFailure: {
		{
			Option:        "Emergency repair",
			EstimatedCost: 75000,
			TimeToResolve: "12-24 hours",
			SuccessRate:   0.80,
			Risks:         "May require parts not in stock",
			Benefits:      "Resume normal operations",
		},
		{
			Option:        "Switch to backup equipment",
			EstimatedCost: 5000,
			TimeToResolve: "1-2 hours",
			SuccessRate:   0.95,
			Risks:         "Backup may have reduced capacity",
			Benefits:      "Fast, low cost",
		},
	},
}

var genericStrategy = []ResponseOption{
	{
		Option:        "Follow standard emergency protocol",
		EstimatedCost: 25000,
		TimeToResolve: "varies",
		SuccessRate:   0.75,
		Risks:         "Generic approach may not be optimal",
		Benefits:      "Established procedure",
	},
}

// LookupResponseOptions returns the playbook for an incident type,
// falling back to the standard emergency protocol.
func LookupResponseOptions(incidentType string) ResponseOptions {
	options, ok := responseStrategies[incidentType]
	if !ok {
		options = genericStrategy
	}
	return ResponseOptions{
		IncidentType:     incidentType,
		AvailableOptions: options,
		Recommendation:   "Compare cost, time, and success rate for decision",
	}
}

// RegulatoryRisk describes the compliance exposure for one parameter.
// ViolationFine is per day, in dollars.
type RegulatoryRisk struct {
	Parameter            string  `json:"parameter"`
	CurrentValue         float64 `json:"current_value"`
	Regulation           string  `json:"regulation"`
	ViolationFine        int     `json:"violation_fine"`
	ReportingRequirement string  `json:"reporting_requirement"`
	PublicNotification   string  `json:"public_notification"`
	RiskLevel            string  `json:"risk_level"`
}

var regulatoryExposure = map[string]RegulatoryRisk{
	"ecoli": {
		Regulation:           "EPA Safe Drinking Water Act",
		ViolationFine:        37500,
		ReportingRequirement: "Immediate (within 24 hours)",
		PublicNotification:   "Required within 24 hours",
	},
	"ph": {
		Regulation:           "EPA SDWA",
		ViolationFine:        25000,
		ReportingRequirement: "Next quarterly report",
		PublicNotification:   "Required if health risk",
	},
	"pm25": {
		Regulation:           "EPA NAAQS (Clean Air Act)",
		ViolationFine:        37500,
		ReportingRequirement: "Immediate",
		PublicNotification:   "Air quality alert required",
	},
}

var genericExposure = RegulatoryRisk{
	Regulation:           "Various EPA/State regulations",
	ViolationFine:        25000,
	ReportingRequirement: "Varies",
	PublicNotification:   "May be required",
}

// LookupRegulatoryRisk returns the compliance exposure for a
// parameter reading. A nonzero reading is rated HIGH risk, zero
// MEDIUM.
func LookupRegulatoryRisk(parameter string, value float64) RegulatoryRisk {
	risk, ok := regulatoryExposure[parameter]
	if !ok {
		risk = genericExposure
	}
	risk.Parameter = parameter
	risk.CurrentValue = value
	if value != 0 {
		risk.RiskLevel = "HIGH"
	} else {
		risk.RiskLevel = "MEDIUM"
	}
	return risk
}
