package classify

import (
	"strings"
	"time"

	"mailpilot/models"
)

// Response types.
const (
	TypeIncident      = "servicenow_incident_response"
	TypeRequest       = "servicenow_request_response"
	TypeTicketGeneral = "servicenow_general_response"
	TypeMeeting       = "meeting_response"
	TypeQuestion      = "question_answer"
	TypeApproval      = "approval_response"
	TypeThanks        = "acknowledgment"
	TypeGeneral       = "general_response"
)

// Urgency levels.
const (
	UrgencyHigh   = "high"
	UrgencyMedium = "medium"
	UrgencyLow    = "low"
)

// Suggested tones.
const (
	ToneTechnical     = "professional_technical"
	ToneAppreciative  = "appreciative"
	ToneHelpful       = "professional_helpful"
	ToneCollaborative = "professional_collaborative"
	ToneFriendly      = "professional_friendly"
)

// Messages matching any of these never get a response drafted.
var noResponseMarkers = []string{
	"no-reply", "noreply", "do-not-reply", "newsletter", "automated",
	"marketing", "promotion", "unsubscribe", "notification only",
	"for your information", "fyi",
}

var urgencyMarkers = []string{
	"urgent", "asap", "immediate", "emergency", "critical",
	"deadline", "today", "now",
}

// Options carries signals from outside the message text.
type Options struct {
	// TicketNotification marks the message as a ticket-system
	// notification.
	TicketNotification bool
	// Priority is the ticket priority, when one was parsed.
	Priority string
}

// Classify inspects a message and decides whether and how to respond.
func Classify(msg models.Message, opts Options) models.Classification {
	combined := strings.ToLower(msg.Subject + " " + msg.Sender + " " + msg.Body)
	subjectBody := strings.ToLower(msg.Subject + " " + msg.Body)

	cls := models.Classification{
		Urgency:       urgency(subjectBody, opts),
		KeyPoints:     keyPoints(msg),
		SuggestedTone: tone(subjectBody, opts),
		AnalyzedAt:    time.Now(),
	}

	for _, marker := range noResponseMarkers {
		if strings.Contains(combined, marker) {
			return cls
		}
	}

	cls.NeedsResponse = true
	cls.ResponseType = responseType(subjectBody, opts)
	return cls
}

func responseType(subjectBody string, opts Options) string {
	if opts.TicketNotification {
		switch {
		case strings.Contains(subjectBody, "incident") || strings.Contains(subjectBody, "inc"):
			return TypeIncident
		case strings.Contains(subjectBody, "request") || strings.Contains(subjectBody, "req"):
			return TypeRequest
		default:
			return TypeTicketGeneral
		}
	}

	switch {
	case strings.Contains(subjectBody, "meeting") || strings.Contains(subjectBody, "schedule"):
		return TypeMeeting
	case strings.Contains(subjectBody, "question") || strings.Contains(subjectBody, "?"):
		return TypeQuestion
	case strings.Contains(subjectBody, "approval") || strings.Contains(subjectBody, "approve"):
		return TypeApproval
	case strings.Contains(subjectBody, "thank"):
		return TypeThanks
	default:
		return TypeGeneral
	}
}

func urgency(subjectBody string, opts Options) string {
	if strings.Contains(strings.ToLower(opts.Priority), "high") {
		return UrgencyHigh
	}
	for _, marker := range urgencyMarkers {
		if strings.Contains(subjectBody, marker) {
			return UrgencyHigh
		}
	}
	if opts.TicketNotification {
		return UrgencyMedium
	}
	return UrgencyLow
}

// keyPoints pulls the subject plus up to a few substantial sentences
// from the start of the body.
func keyPoints(msg models.Message) []string {
	var points []string
	if len(msg.Subject) > 5 {
		points = append(points, "Subject: "+msg.Subject)
	}

	sentences := strings.Split(msg.Body, ".")
	if len(sentences) > 3 {
		sentences = sentences[:3]
	}
	for _, s := range sentences {
		s = strings.TrimSpace(s)
		if len(s) > 20 && len(s) < 200 {
			points = append(points, s)
		}
		if len(points) >= 5 {
			break
		}
	}
	return points
}

func tone(subjectBody string, opts Options) string {
	switch {
	case opts.TicketNotification:
		return ToneTechnical
	case strings.Contains(subjectBody, "thank"):
		return ToneAppreciative
	case strings.Contains(subjectBody, "urgent") ||
		strings.Contains(subjectBody, "problem") ||
		strings.Contains(subjectBody, "issue") ||
		strings.Contains(subjectBody, "error"):
		return ToneHelpful
	case strings.Contains(subjectBody, "meeting"):
		return ToneCollaborative
	default:
		return ToneFriendly
	}
}
