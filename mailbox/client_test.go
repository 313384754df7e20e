package mailbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchUnreadNewestFirstWithLimit(t *testing.T) {
	fs := newFakeSession("INBOX")
	for uid, subject := range map[uint32]string{
		1: "oldest", 2: "middle", 3: "newest",
	} {
		fs.put("INBOX", uid, rawMessage(
			"From: a@example.com\r\nSubject: "+subject+"\r\nContent-Type: text/plain",
			"body"))
	}
	fs.unseen = []uint32{1, 2, 3}

	messages, err := FetchUnread(fs, "INBOX", 2)
	require.NoError(t, err)

	require.Len(t, messages, 2)
	assert.Equal(t, "newest", messages[0].Subject)
	assert.Equal(t, "middle", messages[1].Subject)
}

func TestFetchUnreadSkipsBrokenMessages(t *testing.T) {
	fs := newFakeSession("INBOX")
	fs.put("INBOX", 1, rawMessage(
		"From: a@example.com\r\nSubject: good\r\nContent-Type: text/plain", "body"))
	// uid 2 is in the unseen list but has no stored message.
	fs.unseen = []uint32{1, 2}

	messages, err := FetchUnread(fs, "INBOX", 10)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "good", messages[0].Subject)
}

func TestFetchUnreadUnknownFolder(t *testing.T) {
	fs := newFakeSession("INBOX")
	_, err := FetchUnread(fs, "Nope", 10)
	assert.Error(t, err)
}

func TestMoveToTrash(t *testing.T) {
	fs := newFakeSession("INBOX", "Trash")
	fs.put("INBOX", 5, rawMessage(
		"From: a@example.com\r\nSubject: bye\r\nContent-Type: text/plain", "body"))

	err := MoveToTrash(fs, "INBOX", 5, []string{"[Gmail]/Trash", "Trash"})
	require.NoError(t, err)
	require.Len(t, fs.appended["Trash"], 1)
	assert.Contains(t, string(fs.appended["Trash"][0]), "Subject: bye")
}

func TestMoveToTrashNoTrashFolder(t *testing.T) {
	fs := newFakeSession("INBOX")
	fs.put("INBOX", 5, rawMessage(
		"From: a@example.com\r\nSubject: bye\r\nContent-Type: text/plain", "body"))

	err := MoveToTrash(fs, "INBOX", 5, []string{"Trash"})
	assert.Error(t, err)
}
