package models

import "time"

// Classification is a derived, non-persistent judgment about one
// message. Computed fresh per message and discarded after use except
// where written to an analysis record.
type Classification struct {
	NeedsResponse bool      `json:"needs_response"`
	ResponseType  string    `json:"response_type,omitempty"`
	Urgency       string    `json:"urgency"`
	KeyPoints     []string  `json:"key_points,omitempty"`
	SuggestedTone string    `json:"suggested_tone"`
	AnalyzedAt    time.Time `json:"analyzed_at"`
}

// Ticket holds the fields extracted from a ServiceNow notification
// body. Empty fields render as "Unknown" in composed responses.
type Ticket struct {
	Number           string `json:"number,omitempty"`
	Type             string `json:"type,omitempty"` // Incident, Request or Change
	State            string `json:"state,omitempty"`
	Priority         string `json:"priority,omitempty"`
	Category         string `json:"category,omitempty"`
	ShortDescription string `json:"short_description,omitempty"`
	AssignedTo       string `json:"assigned_to,omitempty"`
	Reporter         string `json:"reporter,omitempty"`
	Urgency          string `json:"urgency,omitempty"`
}
