package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"mailpilot/models"
	"mailpilot/utils"
)

const timestampLayout = "20060102_150405"

// Store writes processing artifacts as plain JSON and text files
// under one output directory.
type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Dir() string { return s.dir }

// SaveFetchedEmails overwrites fetched_emails.json with the latest
// batch.
func (s *Store) SaveFetchedEmails(messages []models.Message) (string, error) {
	path := filepath.Join(s.dir, "fetched_emails.json")
	if err := s.writeJSON(path, messages); err != nil {
		return "", err
	}
	return path, nil
}

// SaveAnalysis writes one per-email analysis record to a timestamped
// file.
func (s *Store) SaveAnalysis(record models.AnalysisRecord) (string, error) {
	name := fmt.Sprintf("email_analysis_%s.json", record.ProcessedAt.Format(timestampLayout))
	path := filepath.Join(s.dir, name)
	if err := s.writeJSON(path, record); err != nil {
		return "", err
	}
	return path, nil
}

// SaveResponsePreview writes a human-readable copy of a generated
// response.
func (s *Store) SaveResponsePreview(content models.DraftContent, at time.Time) (string, error) {
	name := fmt.Sprintf("email_response_%s.txt", at.Format(timestampLayout))
	path := filepath.Join(s.dir, name)

	var b strings.Builder
	fmt.Fprintf(&b, "Subject: %s\n", content.Subject)
	fmt.Fprintf(&b, "To: %s\n", content.Recipient)
	fmt.Fprintf(&b, "Generated at: %s\n", at.Format(time.RFC3339))
	b.WriteString(strings.Repeat("-", 50))
	b.WriteString("\n")
	b.WriteString(content.Body)
	b.WriteString("\n")

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// AppendDraftRecord adds one record to draft_records.json. A corrupt
// records file is logged and replaced rather than aborting the save.
func (s *Store) AppendDraftRecord(record models.DraftRecord) error {
	path := filepath.Join(s.dir, "draft_records.json")

	var records []models.DraftRecord
	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, &records); err != nil {
			utils.Log.Warn("Draft records file is corrupt, starting fresh: %v", err)
			records = nil
		}
	}

	records = append(records, record)
	return s.writeJSON(path, records)
}

func (s *Store) writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
