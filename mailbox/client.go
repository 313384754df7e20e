package mailbox

import (
	"bytes"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"

	"mailpilot/models"
	"mailpilot/utils"
)

// Client wraps a single authenticated IMAP connection.
type Client struct {
	c        *client.Client
	username string
}

// Connect dials the IMAP server over TLS and logs in. Authentication
// failures close the connection before returning.
func Connect(server string, port int, address, password string) (*Client, error) {
	addr := fmt.Sprintf("%s:%d", server, port)

	dialer := &net.Dialer{Timeout: 30 * time.Second}
	c, err := client.DialWithDialerTLS(dialer, addr, nil)
	if err != nil {
		return nil, &utils.ConnectionError{Addr: addr, Err: err}
	}

	if err := c.Login(address, password); err != nil {
		_ = c.Logout()
		return nil, &utils.AuthenticationError{User: address, Err: err}
	}

	utils.Log.Debug("Logged in to %s as %s", addr, address)
	return &Client{c: c, username: address}, nil
}

// Close logs out. Safe to call more than once.
func (cl *Client) Close() error {
	if cl.c == nil {
		return nil
	}
	err := cl.c.Logout()
	cl.c = nil
	return err
}

func (cl *Client) SelectFolder(name string, readOnly bool) error {
	_, err := cl.c.Select(name, readOnly)
	return err
}

func (cl *Client) SearchUnseen() ([]uint32, error) {
	criteria := imap.NewSearchCriteria()
	criteria.WithoutFlags = []string{imap.SeenFlag}
	return cl.c.UidSearch(criteria)
}

// SearchHeaders issues one search matching any of the field/value
// pairs, folded into nested OR terms.
func (cl *Client) SearchHeaders(fields, values []string) ([]uint32, error) {
	if len(fields) != len(values) || len(fields) == 0 {
		return nil, fmt.Errorf("header search needs matching field/value pairs")
	}

	terms := make([]*imap.SearchCriteria, 0, len(fields))
	for i := range fields {
		term := imap.NewSearchCriteria()
		term.Header.Add(fields[i], values[i])
		terms = append(terms, term)
	}

	return cl.c.UidSearch(orCriteria(terms))
}

func (cl *Client) SearchSubject(subject string) ([]uint32, error) {
	criteria := imap.NewSearchCriteria()
	criteria.Header.Add("Subject", subject)
	return cl.c.UidSearch(criteria)
}

// orCriteria folds terms into a single criteria; IMAP OR is binary so
// more than two terms nest.
func orCriteria(terms []*imap.SearchCriteria) *imap.SearchCriteria {
	acc := terms[0]
	for _, term := range terms[1:] {
		combined := imap.NewSearchCriteria()
		combined.Or = [][2]*imap.SearchCriteria{{acc, term}}
		acc = combined
	}
	return acc
}

// FetchRaw pulls the full message body with BODY.PEEK, leaving the
// \Seen flag untouched.
func (cl *Client) FetchRaw(uid uint32) ([]byte, error) {
	seqSet := new(imap.SeqSet)
	seqSet.AddNum(uid)

	section := &imap.BodySectionName{Peek: true}
	items := []imap.FetchItem{section.FetchItem()}

	messages := make(chan *imap.Message, 1)
	done := make(chan error, 1)
	go func() {
		done <- cl.c.UidFetch(seqSet, items, messages)
	}()

	var raw []byte
	for msg := range messages {
		body := msg.GetBody(section)
		if body == nil {
			continue
		}
		data, err := io.ReadAll(body)
		if err != nil {
			return nil, err
		}
		raw = data
	}
	if err := <-done; err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, &utils.NotFoundError{ID: fmt.Sprint(uid)}
	}
	return raw, nil
}

func (cl *Client) Append(folder string, flags []string, raw []byte) error {
	return cl.c.Append(folder, flags, time.Now(), bytes.NewReader(raw))
}

func (cl *Client) AddFlags(uid uint32, flags ...string) error {
	return cl.storeFlags(uid, imap.AddFlags, flags)
}

func (cl *Client) RemoveFlags(uid uint32, flags ...string) error {
	return cl.storeFlags(uid, imap.RemoveFlags, flags)
}

func (cl *Client) storeFlags(uid uint32, op imap.FlagsOp, flags []string) error {
	seqSet := new(imap.SeqSet)
	seqSet.AddNum(uid)

	item := imap.FormatFlagsOp(op, true)
	values := make([]interface{}, len(flags))
	for i, f := range flags {
		values[i] = f
	}
	return cl.c.UidStore(seqSet, item, values, nil)
}

func (cl *Client) Expunge() error {
	return cl.c.Expunge(nil)
}

// MarkRead sets \Seen on one message.
func MarkRead(sess Session, folder string, uid uint32) error {
	if err := sess.SelectFolder(folder, false); err != nil {
		return err
	}
	return sess.AddFlags(uid, imap.SeenFlag)
}

// MarkUnread clears \Seen.
func MarkUnread(sess Session, folder string, uid uint32) error {
	if err := sess.SelectFolder(folder, false); err != nil {
		return err
	}
	return sess.RemoveFlags(uid, imap.SeenFlag)
}

// Star sets \Flagged.
func Star(sess Session, folder string, uid uint32) error {
	if err := sess.SelectFolder(folder, false); err != nil {
		return err
	}
	return sess.AddFlags(uid, imap.FlaggedFlag)
}

// Delete flags a message \Deleted and expunges the folder.
func Delete(sess Session, folder string, uid uint32) error {
	if err := sess.SelectFolder(folder, false); err != nil {
		return err
	}
	if err := sess.AddFlags(uid, imap.DeletedFlag); err != nil {
		return err
	}
	return sess.Expunge()
}

// MoveToTrash copies a message into the first usable trash folder and
// removes it from the source folder.
func MoveToTrash(sess Session, folder string, uid uint32, trashCandidates []string) error {
	if err := sess.SelectFolder(folder, false); err != nil {
		return err
	}
	raw, err := sess.FetchRaw(uid)
	if err != nil {
		return err
	}

	trash, err := probeFolder(sess, trashCandidates, false)
	if err != nil {
		return err
	}
	if err := sess.Append(trash, nil, raw); err != nil {
		return &utils.WriteError{Folder: trash, Err: err}
	}

	if err := sess.SelectFolder(folder, false); err != nil {
		return err
	}
	if err := sess.AddFlags(uid, imap.DeletedFlag); err != nil {
		return err
	}
	return sess.Expunge()
}

// probeFolder selects the first usable folder name from candidates.
// Providers disagree on special-folder names, so each candidate is
// tried in order.
func probeFolder(sess Session, candidates []string, readOnly bool) (string, error) {
	for _, name := range candidates {
		if err := sess.SelectFolder(name, readOnly); err == nil {
			return name, nil
		}
	}
	return "", &utils.FolderNotFoundError{Candidates: candidates}
}

// FetchUnread returns up to limit unseen messages from the folder,
// newest first. Messages that fail to fetch are logged and skipped.
func FetchUnread(sess Session, folder string, limit int) ([]models.Message, error) {
	if err := sess.SelectFolder(folder, false); err != nil {
		return nil, err
	}

	uids, err := sess.SearchUnseen()
	if err != nil {
		return nil, err
	}

	// Newest first: search results come back in mailbox order.
	for i, j := 0, len(uids)-1; i < j; i, j = i+1, j-1 {
		uids[i], uids[j] = uids[j], uids[i]
	}
	if limit > 0 && len(uids) > limit {
		uids = uids[:limit]
	}

	messages := make([]models.Message, 0, len(uids))
	for _, uid := range uids {
		raw, err := sess.FetchRaw(uid)
		if err != nil {
			utils.Log.Warn("Skipping message %d: %v", uid, err)
			continue
		}
		messages = append(messages, Decode(fmt.Sprint(uid), raw))
	}
	return messages, nil
}
