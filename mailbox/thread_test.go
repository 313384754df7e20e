package mailbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mailpilot/models"
)

func threadFixture() *fakeSession {
	fs := newFakeSession("INBOX")
	fs.put("INBOX", 1, rawMessage(
		"From: alice@example.com\r\n"+
			"To: bob@example.com\r\n"+
			"Subject: Project status\r\n"+
			"Date: Mon, 02 Jan 2023 10:00:00 +0000\r\n"+
			"Message-Id: <one@example.com>\r\n"+
			"Content-Type: text/plain",
		"Kicking this off."))
	fs.put("INBOX", 2, rawMessage(
		"From: bob@example.com\r\n"+
			"To: alice@example.com\r\n"+
			"Subject: Re: Project status\r\n"+
			"Date: Mon, 02 Jan 2023 11:00:00 +0000\r\n"+
			"Message-Id: <two@example.com>\r\n"+
			"In-Reply-To: <one@example.com>\r\n"+
			"References: <one@example.com>\r\n"+
			"Content-Type: text/plain",
		"Looking good."))
	return fs
}

func TestReconstructThreadOrdersByDate(t *testing.T) {
	fs := threadFixture()

	seed := Decode("3", rawMessage(
		"From: alice@example.com\r\n"+
			"To: bob@example.com\r\n"+
			"Subject: Re: Project status\r\n"+
			"Date: Mon, 02 Jan 2023 12:00:00 +0000\r\n"+
			"Message-Id: <three@example.com>\r\n"+
			"In-Reply-To: <two@example.com>\r\n"+
			"References: <one@example.com> <two@example.com>\r\n"+
			"Content-Type: text/plain",
		"Shipping it."))

	thread, err := ReconstructThread(fs, "INBOX", seed, 10)
	require.NoError(t, err)

	require.Equal(t, 3, thread.MessageCount)
	assert.Equal(t, "<one@example.com>", thread.Messages[0].MessageID)
	assert.Equal(t, "<two@example.com>", thread.Messages[1].MessageID)
	assert.Equal(t, "<three@example.com>", thread.Messages[2].MessageID)
	assert.Equal(t, "Project status", thread.Subject)
	assert.Equal(t, []string{"alice@example.com", "bob@example.com"}, thread.Participants)

	latest := thread.Latest()
	require.NotNil(t, latest)
	assert.Equal(t, "<three@example.com>", latest.MessageID)
}

func TestReconstructThreadDeduplicatesSeed(t *testing.T) {
	fs := threadFixture()

	// Seed is message 2, which the search will also return.
	raw, err := func() ([]byte, error) {
		if err := fs.SelectFolder("INBOX", true); err != nil {
			return nil, err
		}
		return fs.FetchRaw(2)
	}()
	require.NoError(t, err)
	seed := Decode("2", raw)

	thread, err := ReconstructThread(fs, "INBOX", seed, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, thread.MessageCount)
}

func TestReconstructThreadHeaderlessSeed(t *testing.T) {
	fs := newFakeSession("INBOX")

	seed := models.Message{ID: "9", Subject: "Standalone", Sender: "c@example.com"}
	thread, err := ReconstructThread(fs, "INBOX", seed, 10)
	require.NoError(t, err)

	assert.Equal(t, 1, thread.MessageCount)
	assert.Equal(t, "Standalone", thread.Subject)
	// Folder was never selected: headerless seeds skip the search.
	assert.Empty(t, fs.selected)
}

func TestReconstructThreadZeroDateSortsFirst(t *testing.T) {
	fs := newFakeSession("INBOX")
	fs.put("INBOX", 1, rawMessage(
		"From: a@example.com\r\n"+
			"Subject: Re: topic\r\n"+
			"Date: not parseable\r\n"+
			"Message-Id: <undated@example.com>\r\n"+
			"References: <seed@example.com>\r\n"+
			"Content-Type: text/plain",
		"no date"))

	seed := Decode("2", rawMessage(
		"From: b@example.com\r\n"+
			"Subject: topic\r\n"+
			"Date: Mon, 02 Jan 2023 10:00:00 +0000\r\n"+
			"Message-Id: <seed@example.com>\r\n"+
			"Content-Type: text/plain",
		"dated"))

	thread, err := ReconstructThread(fs, "INBOX", seed, 10)
	require.NoError(t, err)
	require.Equal(t, 2, thread.MessageCount)
	assert.Equal(t, "<undated@example.com>", thread.Messages[0].MessageID)
}

func TestReconstructThreadReferenceChain(t *testing.T) {
	fs := threadFixture()

	seed := Decode("2", fs.folders["INBOX"][2])
	thread, err := ReconstructThread(fs, "INBOX", seed, 10)
	require.NoError(t, err)

	chain := thread.ReferenceChain()
	assert.Equal(t, []string{"<one@example.com>", "<two@example.com>"}, chain)
}
