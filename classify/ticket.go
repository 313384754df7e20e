package classify

import (
	"regexp"
	"strings"

	"mailpilot/models"
)

// Ticket numbers as they appear in notification subjects and bodies.
var ticketNumberPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(INC\d{7})\b`),
	regexp.MustCompile(`(?i)\b(REQ\d{7})\b`),
	regexp.MustCompile(`(?i)\b(CHG\d{7})\b`),
	regexp.MustCompile(`(?i)\b(RITM\d{7})\b`),
	regexp.MustCompile(`(?i)Incident Number:\s*([A-Z]{3}\d{7})`),
	regexp.MustCompile(`(?i)Request Number:\s*([A-Z]{3,4}\d{7})`),
}

// Field labels vary between notification templates; each field gets
// several candidate patterns tried in order.
var ticketFieldPatterns = map[string][]*regexp.Regexp{
	"state": {
		regexp.MustCompile(`(?im)^\s*State:\s*([^\n]+)`),
		regexp.MustCompile(`(?im)^\s*Status:\s*([^\n]+)`),
		regexp.MustCompile(`(?im)^\s*Current State:\s*([^\n]+)`),
	},
	"priority": {
		regexp.MustCompile(`(?im)^\s*Priority:\s*([^\n]+)`),
	},
	"category": {
		regexp.MustCompile(`(?im)^\s*Category:\s*([^\n]+)`),
		regexp.MustCompile(`(?im)^\s*Service Category:\s*([^\n]+)`),
	},
	"short_description": {
		regexp.MustCompile(`(?im)^\s*Short Description:\s*([^\n]+)`),
		regexp.MustCompile(`(?im)^\s*Description:\s*([^\n]+)`),
		regexp.MustCompile(`(?im)^\s*Summary:\s*([^\n]+)`),
	},
	"assigned_to": {
		regexp.MustCompile(`(?im)^\s*Assigned to:\s*([^\n]+)`),
		regexp.MustCompile(`(?im)^\s*Assignee:\s*([^\n]+)`),
	},
	"reporter": {
		regexp.MustCompile(`(?im)^\s*Reporter:\s*([^\n]+)`),
		regexp.MustCompile(`(?im)^\s*Requested by:\s*([^\n]+)`),
		regexp.MustCompile(`(?im)^\s*Caller:\s*([^\n]+)`),
	},
	"urgency": {
		regexp.MustCompile(`(?im)^\s*Urgency:\s*([^\n]+)`),
	},
}

// TicketNumber returns the first ticket number found in text, or "".
func TicketNumber(text string) string {
	for _, p := range ticketNumberPatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			return strings.ToUpper(m[1])
		}
	}
	return ""
}

// DetectTicket reports whether the message looks like a ticket-system
// notification.
func DetectTicket(msg models.Message) bool {
	if strings.Contains(strings.ToLower(msg.Sender), "servicenow") {
		return true
	}
	return TicketNumber(msg.Subject+" "+msg.Body) != ""
}

// ParseTicket extracts ticket fields from notification text. Fields
// that are not present stay empty.
func ParseTicket(text string) models.Ticket {
	ticket := models.Ticket{Number: TicketNumber(text)}

	switch {
	case strings.HasPrefix(ticket.Number, "INC"):
		ticket.Type = "Incident"
	case strings.HasPrefix(ticket.Number, "REQ"), strings.HasPrefix(ticket.Number, "RITM"):
		ticket.Type = "Request"
	case strings.HasPrefix(ticket.Number, "CHG"):
		ticket.Type = "Change"
	}

	ticket.State = ticketField(text, "state")
	ticket.Priority = ticketField(text, "priority")
	ticket.Category = ticketField(text, "category")
	ticket.ShortDescription = ticketField(text, "short_description")
	ticket.AssignedTo = ticketField(text, "assigned_to")
	ticket.Reporter = ticketField(text, "reporter")
	ticket.Urgency = ticketField(text, "urgency")

	return ticket
}

func ticketField(text, field string) string {
	for _, p := range ticketFieldPatterns[field] {
		if m := p.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}
