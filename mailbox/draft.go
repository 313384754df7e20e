package mailbox

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/emersion/go-imap"
	"github.com/google/uuid"

	"mailpilot/models"
	"mailpilot/utils"
)

// Default folder-name candidates; providers disagree on how the
// special folders are spelled.
var (
	DefaultDraftFolders = []string{
		"[Gmail]/Drafts", "Drafts", "DRAFTS", "[Google Mail]/Drafts",
	}
	DefaultAllMailFolders = []string{
		"[Gmail]/All Mail", "[Google Mail]/All Mail", "Archive",
	}
	DefaultTrashFolders = []string{
		"[Gmail]/Trash", "Trash", "[Google Mail]/Trash", "Deleted Items",
	}
)

// DraftWriter appends composed replies to the drafts folder and
// verifies they were indexed.
type DraftWriter struct {
	DraftFolders   []string
	AllMailFolders []string
}

func NewDraftWriter(draftFolders, allMailFolders []string) *DraftWriter {
	if len(draftFolders) == 0 {
		draftFolders = DefaultDraftFolders
	}
	if len(allMailFolders) == 0 {
		allMailFolders = DefaultAllMailFolders
	}
	return &DraftWriter{DraftFolders: draftFolders, AllMailFolders: allMailFolders}
}

// SaveDraft appends the draft to the first usable drafts folder and
// verifies it landed by searching for its subject. An unverified
// draft is reported as a warning on the handle, not an error: the
// append itself succeeded.
func (w *DraftWriter) SaveDraft(sess Session, from string, content models.DraftContent) (models.DraftHandle, error) {
	handle := models.DraftHandle{ID: uuid.New().String()}

	folder, err := probeFolder(sess, w.DraftFolders, false)
	if err != nil {
		return handle, err
	}
	handle.Folder = folder

	raw := buildDraftMessage(from, content)
	if err := sess.Append(folder, []string{imap.DraftFlag}, raw); err != nil {
		return handle, &utils.WriteError{Folder: folder, Err: err}
	}

	if w.verify(sess, folder, content.Subject) {
		handle.Status = models.DraftVerified
		return handle, nil
	}

	// Some servers index appended drafts under All Mail first. Try
	// one fallback append there before giving up on verification.
	if fallback, err := probeFolder(sess, w.AllMailFolders, false); err == nil {
		if err := sess.Append(fallback, []string{imap.DraftFlag}, raw); err == nil {
			if w.verify(sess, fallback, content.Subject) {
				handle.Folder = fallback
				handle.Status = models.DraftVerified
				return handle, nil
			}
		}
	}

	handle.Status = models.DraftUnverified
	handle.Warning = fmt.Sprintf("draft appended to %q but not found when searched; it may still appear after the server reindexes", folder)
	return handle, nil
}

func (w *DraftWriter) verify(sess Session, folder, subject string) bool {
	if subject == "" {
		return false
	}
	if err := sess.SelectFolder(folder, true); err != nil {
		return false
	}
	uids, err := sess.SearchSubject(subject)
	return err == nil && len(uids) > 0
}

// buildDraftMessage renders a minimal RFC 5322 plain-text message.
func buildDraftMessage(from string, content models.DraftContent) []byte {
	var buf bytes.Buffer

	writeHeader := func(name, value string) {
		if value != "" {
			fmt.Fprintf(&buf, "%s: %s\r\n", name, value)
		}
	}

	writeHeader("From", from)
	writeHeader("To", content.Recipient)
	writeHeader("Subject", content.Subject)
	writeHeader("Date", time.Now().Format(time.RFC1123Z))
	writeHeader("Message-ID", generateMessageID(from))
	writeHeader("In-Reply-To", content.InReplyTo)
	writeHeader("References", strings.Join(content.References, " "))
	writeHeader("MIME-Version", "1.0")
	writeHeader("Content-Type", `text/plain; charset="utf-8"`)
	buf.WriteString("\r\n")
	buf.WriteString(content.Body)

	return buf.Bytes()
}

func generateMessageID(from string) string {
	domain := "localhost"
	if at := strings.Index(from, "@"); at >= 0 && at < len(from)-1 {
		domain = from[at+1:]
	}
	return fmt.Sprintf("<%d.%d@%s>", time.Now().UnixNano(), os.Getpid(), domain)
}
