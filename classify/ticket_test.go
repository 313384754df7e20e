package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mailpilot/models"
)

const incidentNotification = `A new incident has been assigned to you.

Incident Number: INC0012345
Priority: 2 - High
State: In Progress
Category: Network
Short Description: VPN tunnel flapping between sites
Assigned to: Alice Smith
Caller: Bob Jones
Urgency: 2 - Medium
`

func TestTicketNumber(t *testing.T) {
	assert.Equal(t, "INC0012345", TicketNumber("Re: INC0012345 update"))
	assert.Equal(t, "REQ0034567", TicketNumber("your req0034567 was approved"))
	assert.Equal(t, "RITM0098765", TicketNumber("Item RITM0098765 ready"))
	assert.Equal(t, "CHG0011223", TicketNumber("Change CHG0011223 scheduled"))
	assert.Equal(t, "", TicketNumber("no ticket here"))
	// Too few digits is not a ticket number.
	assert.Equal(t, "", TicketNumber("INC123"))
}

func TestDetectTicket(t *testing.T) {
	assert.True(t, DetectTicket(models.Message{
		Sender: "helpdesk@servicenow.example.com",
		Body:   "anything",
	}))
	assert.True(t, DetectTicket(models.Message{
		Sender:  "it@example.com",
		Subject: "INC0012345 assigned to you",
	}))
	assert.False(t, DetectTicket(models.Message{
		Sender:  "friend@example.com",
		Subject: "lunch?",
		Body:    "tomorrow?",
	}))
}

func TestParseTicketFields(t *testing.T) {
	ticket := ParseTicket(incidentNotification)

	assert.Equal(t, "INC0012345", ticket.Number)
	assert.Equal(t, "Incident", ticket.Type)
	assert.Equal(t, "In Progress", ticket.State)
	assert.Equal(t, "2 - High", ticket.Priority)
	assert.Equal(t, "Network", ticket.Category)
	assert.Equal(t, "VPN tunnel flapping between sites", ticket.ShortDescription)
	assert.Equal(t, "Alice Smith", ticket.AssignedTo)
	assert.Equal(t, "Bob Jones", ticket.Reporter)
	assert.Equal(t, "2 - Medium", ticket.Urgency)
}

func TestParseTicketAlternateLabels(t *testing.T) {
	text := `Request Number: REQ0034567
Status: Open
Summary: New laptop for starter
Requested by: Carol White
`
	ticket := ParseTicket(text)

	assert.Equal(t, "REQ0034567", ticket.Number)
	assert.Equal(t, "Request", ticket.Type)
	assert.Equal(t, "Open", ticket.State)
	assert.Equal(t, "New laptop for starter", ticket.ShortDescription)
	assert.Equal(t, "Carol White", ticket.Reporter)
}

func TestParseTicketMissingFieldsStayEmpty(t *testing.T) {
	ticket := ParseTicket("INC0099999 happened")
	assert.Equal(t, "INC0099999", ticket.Number)
	assert.Empty(t, ticket.State)
	assert.Empty(t, ticket.Priority)
}
