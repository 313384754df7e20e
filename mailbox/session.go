package mailbox

// Session is the subset of IMAP operations the rest of the program
// needs. The narrow surface keeps thread reconstruction, draft saving
// and the pipeline testable without a live server.
type Session interface {
	// SelectFolder opens a folder. Read-only selection is used for
	// searches that must not clear \Recent or set \Seen.
	SelectFolder(name string, readOnly bool) error

	// SearchUnseen returns the UIDs of unseen messages in the
	// selected folder.
	SearchUnseen() ([]uint32, error)

	// SearchHeaders returns UIDs of messages matching ANY of the
	// given header field/value pairs. fields and values are parallel
	// slices.
	SearchHeaders(fields, values []string) ([]uint32, error)

	// SearchSubject returns UIDs of messages whose Subject contains
	// the given text.
	SearchSubject(subject string) ([]uint32, error)

	// FetchRaw returns the full RFC 5322 bytes of one message
	// without setting \Seen.
	FetchRaw(uid uint32) ([]byte, error)

	// Append stores a new message in the given folder with the given
	// flags.
	Append(folder string, flags []string, raw []byte) error

	AddFlags(uid uint32, flags ...string) error
	RemoveFlags(uid uint32, flags ...string) error
	Expunge() error

	Close() error
}
