package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mailpilot/models"
)

func TestSaveFetchedEmailsOverwrites(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	path, err := store.SaveFetchedEmails([]models.Message{
		{ID: "1", Subject: "first"},
		{ID: "2", Subject: "second"},
	})
	require.NoError(t, err)
	assert.Equal(t, "fetched_emails.json", filepath.Base(path))

	// A second save replaces the batch rather than appending.
	_, err = store.SaveFetchedEmails([]models.Message{{ID: "3", Subject: "third"}})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var messages []models.Message
	require.NoError(t, json.Unmarshal(data, &messages))
	require.Len(t, messages, 1)
	assert.Equal(t, "3", messages[0].ID)
}

func TestSaveAnalysisRoundTrip(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	record := models.AnalysisRecord{
		Email:       models.Message{ID: "9", Subject: "INC0012345 update"},
		Ticket:      &models.Ticket{Number: "INC0012345", Type: "Incident"},
		ProcessedAt: time.Date(2023, 3, 1, 12, 30, 0, 0, time.UTC),
	}
	record.Classification.NeedsResponse = true

	path, err := store.SaveAnalysis(record)
	require.NoError(t, err)
	assert.Equal(t, "email_analysis_20230301_123000.json", filepath.Base(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got models.AnalysisRecord
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "INC0012345", got.Ticket.Number)
	assert.True(t, got.Classification.NeedsResponse)
}

func TestSaveResponsePreview(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	at := time.Date(2023, 3, 1, 12, 30, 0, 0, time.UTC)
	path, err := store.SaveResponsePreview(models.DraftContent{
		Subject:   "Re: hello",
		Recipient: "bob@example.com",
		Body:      "Hi Bob,\n\nThanks.",
	}, at)
	require.NoError(t, err)
	assert.Equal(t, "email_response_20230301_123000.txt", filepath.Base(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "Subject: Re: hello")
	assert.Contains(t, text, "To: bob@example.com")
	assert.Contains(t, text, "Hi Bob,")
}

func TestAppendDraftRecordGrows(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, store.AppendDraftRecord(models.DraftRecord{
			ID:      id,
			Subject: "s",
			SavedAt: time.Date(2023, 3, 1, 12, 0, i, 0, time.UTC),
		}))
	}

	data, err := os.ReadFile(filepath.Join(dir, "draft_records.json"))
	require.NoError(t, err)
	var records []models.DraftRecord
	require.NoError(t, json.Unmarshal(data, &records))
	require.Len(t, records, 3)
	assert.Equal(t, "c", records[2].ID)
}

func TestAppendDraftRecordRecoversFromCorruptFile(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	path := filepath.Join(dir, "draft_records.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	require.NoError(t, store.AppendDraftRecord(models.DraftRecord{ID: "x"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var records []models.DraftRecord
	require.NoError(t, json.Unmarshal(data, &records))
	require.Len(t, records, 1)
}
