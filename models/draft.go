package models

import "time"

// DraftContent is a composed reply ready to be staged in the mailbox's
// drafts area.
type DraftContent struct {
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	Recipient string `json:"recipient"`

	// Threading headers, derived from the most recent message in the
	// thread context so the draft appears as the newest reply.
	InReplyTo  string   `json:"in_reply_to,omitempty"`
	References []string `json:"references,omitempty"`
}

// DraftStatus is the terminal state of a draft write.
type DraftStatus string

const (
	// DraftVerified means the draft was found again by a read-back
	// search after the append.
	DraftVerified DraftStatus = "verified"

	// DraftUnverified means the append was accepted but could not be
	// confirmed. Callers must treat the draft as "possibly saved".
	DraftUnverified DraftStatus = "unverified"
)

// DraftHandle identifies a staged draft and how confident we are that
// it exists.
type DraftHandle struct {
	ID      string      `json:"id"`
	Folder  string      `json:"folder,omitempty"`
	Status  DraftStatus `json:"status"`
	Warning string      `json:"warning,omitempty"`
}

// DraftRecord is the locally persisted metadata for one saved draft.
type DraftRecord struct {
	ID        string      `json:"id"`
	Subject   string      `json:"subject"`
	Recipient string      `json:"recipient"`
	Folder    string      `json:"folder,omitempty"`
	Status    DraftStatus `json:"status"`
	SavedAt   time.Time   `json:"saved_at"`
}

// AnalysisRecord is the per-run JSON artifact written for each
// processed message.
type AnalysisRecord struct {
	Email           Message        `json:"email"`
	Ticket          *Ticket        `json:"ticket,omitempty"`
	Classification  Classification `json:"classification"`
	ResponseDrafted bool           `json:"response_drafted"`
	Draft           *DraftHandle   `json:"draft,omitempty"`
	ProcessedAt     time.Time      `json:"processed_at"`
}
