package models

import "time"

// Message represents one decoded mail item. Immutable after decoding;
// only derived records are ever persisted.
type Message struct {
	ID         string   `json:"id"`
	MessageID  string   `json:"message_id"`
	InReplyTo  string   `json:"in_reply_to,omitempty"`
	References []string `json:"references,omitempty"` // oldest first
	Subject    string   `json:"subject"`
	Sender     string   `json:"sender"`
	SenderName string   `json:"sender_name,omitempty"`
	ReplyTo    string   `json:"reply_to,omitempty"`
	Recipients []string `json:"recipients,omitempty"`

	// Date is the parsed header value; RawDate keeps the original
	// string because parsing may fail.
	Date    time.Time `json:"date"`
	RawDate string    `json:"raw_date,omitempty"`

	Body        string       `json:"body"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// HasThreadHeaders reports whether the message carries any identifier a
// thread reconstruction can link on.
func (m *Message) HasThreadHeaders() bool {
	return m.MessageID != "" || m.InReplyTo != "" || len(m.References) > 0
}

// Attachment describes one attachment part. Content is not retained.
type Attachment struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int    `json:"size"`
}
