package compose

import (
	"fmt"
	"regexp"
	"strings"

	"mailpilot/classify"
	"mailpilot/models"
)

// Composer renders reply drafts from a classified message and its
// thread.
type Composer struct {
	SignerName string
}

func New(signerName string) *Composer {
	return &Composer{SignerName: signerName}
}

var templates = map[string]string{
	classify.TypeIncident: "Thank you for the ServiceNow incident notification. I acknowledge receipt of this incident and will investigate accordingly.\n\n" +
		"I will provide updates as the investigation progresses and work towards resolution within the specified SLA timeframe.",
	classify.TypeRequest: "Thank you for your ServiceNow request. I have received your request and will process it according to our standard procedures.\n\n" +
		"I will keep you updated on the progress and notify you once the request has been completed.",
	classify.TypeMeeting: "Thank you for the meeting invitation. I will review my calendar and get back to you with my availability.\n\n" +
		"Please let me know if there are any specific agenda items or materials I should prepare for the meeting.",
	classify.TypeQuestion: "Thank you for your question. I will review the details and provide you with a comprehensive response.\n\n" +
		"If you need any immediate clarification or have additional questions, please don't hesitate to reach out.",
	classify.TypeApproval: "Thank you for submitting this for approval. I will review the details and provide my response within the required timeframe.\n\n" +
		"If I need any additional information or clarification, I will reach out to you directly.",
	classify.TypeThanks: "Thank you for your email. I appreciate you taking the time to reach out and provide this information.\n\n" +
		"I have noted the details and will take any necessary actions as appropriate.",
	classify.TypeGeneral: "Thank you for your email. I have received your message and will respond appropriately.\n\n" +
		"If this matter is urgent or you need immediate assistance, please feel free to contact me directly.",
}

var closings = map[string]string{
	classify.ToneTechnical:     "If you have any technical questions or need further assistance, please don't hesitate to contact me.",
	classify.ToneAppreciative:  "Thank you again for your communication. I truly appreciate it.",
	classify.ToneHelpful:       "I'm here to help resolve this matter promptly. Please let me know if you need anything else.",
	classify.ToneCollaborative: "I look forward to our collaboration on this matter.",
	classify.ToneFriendly:      "Thank you for reaching out. I look forward to hearing from you.",
}

var signerPlaceholder = regexp.MustCompile(`\[[Yy]our [Nn]ame\]`)

var angleAddr = regexp.MustCompile(`<([^>]+)>`)

// Options adjusts a composed reply.
type Options struct {
	// Subject overrides the derived subject when non-empty.
	Subject string
	// Ticket supplies details for ticket-notification replies.
	Ticket *models.Ticket
}

// Reply builds a templated reply draft for the message. The thread
// may be nil when no history is available.
func (c *Composer) Reply(msg models.Message, cls models.Classification, thread *models.Thread, opts Options) models.DraftContent {
	content := models.DraftContent{
		Subject:   replySubject(opts.Subject, msg, thread),
		Recipient: ExtractRecipient(msg),
	}
	content.InReplyTo, content.References = threadingHeaders(msg, thread)
	content.Body = c.Sign(renderBody(msg, cls, opts.Ticket))
	return content
}

// ReplyText builds a reply draft around caller-supplied body text
// instead of a template.
func (c *Composer) ReplyText(msg models.Message, thread *models.Thread, subject, body string) models.DraftContent {
	content := models.DraftContent{
		Subject:   replySubject(subject, msg, thread),
		Recipient: ExtractRecipient(msg),
	}
	content.InReplyTo, content.References = threadingHeaders(msg, thread)
	content.Body = c.Sign(body)
	return content
}

// Sign replaces the signer placeholder with the configured name, or
// appends a signature block when no placeholder is present. The
// signature appears exactly once either way.
func (c *Composer) Sign(body string) string {
	if signerPlaceholder.MatchString(body) {
		return signerPlaceholder.ReplaceAllString(body, c.SignerName)
	}
	return body + "\n\nBest regards,\n" + c.SignerName
}

// ExtractRecipient picks the address a reply should go to: Reply-To
// when set, otherwise the sender.
func ExtractRecipient(msg models.Message) string {
	raw := msg.ReplyTo
	if raw == "" {
		raw = msg.Sender
	}
	if m := angleAddr.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(raw)
}

// replySubject derives the subject. The "Re: " prefix is added only
// when thread context exists; a standalone draft keeps its subject
// as given.
func replySubject(explicit string, msg models.Message, thread *models.Thread) string {
	subject := explicit
	if subject == "" && thread != nil {
		subject = thread.Subject
	}
	if subject == "" {
		subject = msg.Subject
	}
	if subject == "" {
		subject = "No Subject"
	}
	if thread != nil && !strings.HasPrefix(strings.ToLower(subject), "re:") {
		subject = "Re: " + subject
	}
	return subject
}

// threadingHeaders returns In-Reply-To and References for the reply,
// taken from the latest thread message when a thread is present.
func threadingHeaders(msg models.Message, thread *models.Thread) (string, []string) {
	if thread != nil {
		if latest := thread.Latest(); latest != nil && latest.MessageID != "" {
			return latest.MessageID, thread.ReferenceChain()
		}
	}
	if msg.MessageID == "" {
		return "", nil
	}
	refs := append([]string{}, msg.References...)
	refs = append(refs, msg.MessageID)
	return msg.MessageID, refs
}

func renderBody(msg models.Message, cls models.Classification, ticket *models.Ticket) string {
	var b strings.Builder

	b.WriteString(greeting(msg))
	b.WriteString("\n\n")

	template, ok := templates[cls.ResponseType]
	if !ok {
		template = templates[classify.TypeGeneral]
	}
	b.WriteString(template)

	if ticket != nil && isTicketType(cls.ResponseType) {
		b.WriteString("\n\n")
		b.WriteString(ticketDetails(ticket))
	}

	b.WriteString("\n\n")
	closing, ok := closings[cls.SuggestedTone]
	if !ok {
		closing = closings[classify.ToneFriendly]
	}
	b.WriteString(closing)

	b.WriteString("\n\nBest regards,\n[Your Name]")
	return b.String()
}

func isTicketType(responseType string) bool {
	switch responseType {
	case classify.TypeIncident, classify.TypeRequest, classify.TypeTicketGeneral:
		return true
	}
	return false
}

func ticketDetails(ticket *models.Ticket) string {
	return fmt.Sprintf("Ticket Details:\n- Number: %s\n- Priority: %s\n- Current Status: %s\n- Category: %s",
		orUnknown(ticket.Number), orUnknown(ticket.Priority),
		orUnknown(ticket.State), orUnknown(ticket.Category))
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

// greeting addresses the sender by first name when the display name
// gives one.
func greeting(msg models.Message) string {
	if name := senderFirstName(msg); name != "" {
		return "Hi " + name + ","
	}
	return "Hi,"
}

func senderFirstName(msg models.Message) string {
	name := msg.SenderName
	if name == "" && strings.Contains(msg.Sender, "<") {
		name = strings.TrimSpace(strings.SplitN(msg.Sender, "<", 2)[0])
	}
	name = strings.Trim(name, `"`)
	if name == "" || strings.Contains(name, "@") {
		return ""
	}
	return strings.Fields(name)[0]
}
