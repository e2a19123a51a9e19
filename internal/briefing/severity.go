// Package briefing turns an analysis into meeting-ready artifacts: a
// severity tier, a stakeholder list, an agenda, action items, and the
// fused recommendation combining model reasoning with historical
// statistics.
package briefing

import (
	"strings"

	"github.com/envops/incidentd/internal/reasoning"
)

// Severity tiers, strongest first.
const (
	SeverityCritical  = "CRITICAL"
	SeverityEmergency = "EMERGENCY"
	SeverityHigh      = "HIGH"
	SeverityStandard  = "STANDARD"
)

// Meeting types per severity tier.
const (
	MeetingEmergencyResponse = "EMERGENCY_RESPONSE"
	MeetingUrgentResponse    = "URGENT_RESPONSE"
	MeetingPriorityReview    = "PRIORITY_REVIEW"
	MeetingStandardReview    = "STANDARD_REVIEW"
)

const maxDurationMinutes = 120

// MeetingRequest is the derived, read-only meeting view of one
// analyzed incident.
type MeetingRequest struct {
	Severity                   string   `json:"severity"`
	Priority                   string   `json:"priority"`
	MeetingType                string   `json:"meeting_type"`
	DurationMinutes            int      `json:"duration_minutes"`
	Stakeholders               []string `json:"stakeholders"`
	Agenda                     []string `json:"agenda"`
	NotifyRegulators           bool     `json:"notify_regulators"`
	NotifyExecutives           bool     `json:"notify_executives"`
	PublicNotificationRequired bool     `json:"public_notification_required"`
}

// DeriveSeverity maps (category, urgency, confidence) to a tier.
// The category substring check deliberately wins over the stated
// urgency: a contamination incident is CRITICAL even when submitted
// as MEDIUM.
func DeriveSeverity(category, urgency string, confidence float64) string {
	switch {
	case strings.Contains(category, "CONTAMINATION") || urgency == "CRITICAL":
		return SeverityCritical
	case urgency == "HIGH" || confidence < 0.5:
		return SeverityEmergency
	case urgency == "MEDIUM":
		return SeverityHigh
	default:
		return SeverityStandard
	}
}

// BuildMeetingRequest derives the full meeting view for an analyzed
// incident. population is the affected customer count used for the
// duration extension.
func BuildMeetingRequest(category string, rec reasoning.Recommendation, population int) MeetingRequest {
	severity := DeriveSeverity(category, rec.Urgency, rec.Confidence)

	return MeetingRequest{
		Severity:                   severity,
		Priority:                   priorityCode(severity),
		MeetingType:                meetingType(severity),
		DurationMinutes:            duration(severity, category, population),
		Stakeholders:               Stakeholders(category, severity),
		Agenda:                     Agenda(category, rec),
		NotifyRegulators:           severity == SeverityCritical,
		NotifyExecutives:           severity == SeverityCritical || severity == SeverityEmergency,
		PublicNotificationRequired: severity == SeverityCritical && strings.Contains(category, "CONTAMINATION"),
	}
}

func priorityCode(severity string) string {
	switch severity {
	case SeverityCritical:
		return "P1"
	case SeverityEmergency:
		return "P2"
	case SeverityHigh:
		return "P3"
	default:
		return "P4"
	}
}

func meetingType(severity string) string {
	switch severity {
	case SeverityCritical:
		return MeetingEmergencyResponse
	case SeverityEmergency:
		return MeetingUrgentResponse
	case SeverityHigh:
		return MeetingPriorityReview
	default:
		return MeetingStandardReview
	}
}

func duration(severity, category string, population int) int {
	var minutes int
	switch severity {
	case SeverityCritical:
		minutes = 60
	case SeverityEmergency:
		minutes = 45
	default:
		minutes = 30
	}

	if strings.Contains(category, "CONTAMINATION") {
		minutes += 15
	}
	if population > 100000 {
		minutes += 15
	}

	if minutes > maxDurationMinutes {
		minutes = maxDurationMinutes
	}
	return minutes
}

// Stakeholders builds the attendee list. Rule order defines list
// order, so the output is deterministic.
func Stakeholders(category, severity string) []string {
	stakeholders := []string{"Facility Operations"}

	if severity == SeverityEmergency || severity == SeverityCritical {
		stakeholders = append(stakeholders, "Emergency Response Team", "Environmental Compliance Officer")
	}
	if severity == SeverityCritical {
		stakeholders = append(stakeholders, "EPA Regional Office", "State Environmental Agency", "Public Health Department")
	}
	if strings.Contains(category, "CONTAMINATION") {
		stakeholders = append(stakeholders, "HazMat Response Team")
	}
	if strings.Contains(category, "WATER") {
		stakeholders = append(stakeholders, "Water Quality Specialist")
	}

	return stakeholders
}
