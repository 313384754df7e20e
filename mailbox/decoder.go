package mailbox

import (
	"bytes"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/jhillyerd/enmime"

	"mailpilot/models"
	"mailpilot/utils"
)

// Some servers hand back dates with a trailing timezone name in
// parentheses that net/mail rejects.
var tzNamePattern = regexp.MustCompile(`\s+\([A-Z]{3,5}\)\s*$`)

// Decode parses raw RFC 5322 bytes into a Message. It never returns
// an error: a message that cannot be parsed at all still yields a
// usable record carrying its ID, and individual malformed fields
// degrade to empty values.
func Decode(id string, raw []byte) models.Message {
	msg := models.Message{ID: id}

	env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		utils.Log.Warn("Message %s could not be parsed: %v", id, err)
		return msg
	}

	msg.Subject = strings.TrimSpace(env.GetHeader("Subject"))
	msg.Sender, msg.SenderName = splitAddress(env.GetHeader("From"))
	msg.ReplyTo, _ = splitAddress(env.GetHeader("Reply-To"))
	msg.MessageID = strings.TrimSpace(env.GetHeader("Message-Id"))
	msg.InReplyTo = strings.TrimSpace(env.GetHeader("In-Reply-To"))
	msg.References = splitReferences(env.GetHeader("References"))
	msg.Recipients = splitRecipients(env.GetHeader("To"), env.GetHeader("Cc"))

	msg.RawDate = strings.TrimSpace(env.GetHeader("Date"))
	msg.Date = parseDate(msg.RawDate)

	msg.Body = extractBody(env)

	for _, part := range env.Attachments {
		msg.Attachments = append(msg.Attachments, models.Attachment{
			Filename:    part.FileName,
			ContentType: part.ContentType,
			Size:        len(part.Content),
		})
	}

	return msg
}

// parseDate returns the zero time when the header cannot be parsed;
// the raw string is kept on the message for display.
func parseDate(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	cleaned := tzNamePattern.ReplaceAllString(raw, "")
	parsed, err := mail.ParseDate(cleaned)
	if err != nil {
		return time.Time{}
	}
	return parsed
}

// extractBody prefers the plain-text part; HTML-only messages are
// stripped down to text.
func extractBody(env *enmime.Envelope) string {
	if text := strings.TrimSpace(env.Text); text != "" {
		return text
	}
	if env.HTML != "" {
		return utils.StripHTML(env.HTML)
	}
	return ""
}

// splitAddress parses a single address header into (address,
// display name). Unparseable headers fall back to the raw string as
// the address.
func splitAddress(raw string) (string, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ""
	}
	addr, err := mail.ParseAddress(raw)
	if err != nil {
		return raw, ""
	}
	return addr.Address, addr.Name
}

func splitRecipients(headers ...string) []string {
	var out []string
	for _, raw := range headers {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		addrs, err := mail.ParseAddressList(raw)
		if err != nil {
			out = append(out, raw)
			continue
		}
		for _, a := range addrs {
			out = append(out, a.Address)
		}
	}
	return out
}

func splitReferences(raw string) []string {
	var out []string
	for _, ref := range strings.Fields(raw) {
		if ref != "" {
			out = append(out, ref)
		}
	}
	return out
}
