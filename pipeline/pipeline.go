package pipeline

import (
	"strings"
	"time"

	"mailpilot/classify"
	"mailpilot/compose"
	"mailpilot/mailbox"
	"mailpilot/models"
	"mailpilot/storage"
	"mailpilot/utils"
)

const (
	inboxFolder       = "INBOX"
	threadSearchDepth = 10
	defaultBatchLimit = 10
)

// Runner drives one fetch-classify-respond batch over the inbox.
type Runner struct {
	Store    *storage.Store
	Writer   *mailbox.DraftWriter
	Composer *compose.Composer

	// From is the mailbox address drafts are written as.
	From string

	// Dial opens a fresh session; each logical operation gets its
	// own connection.
	Dial func() (mailbox.Session, error)
}

// Summary counts the outcome of one batch.
type Summary struct {
	Processed int `json:"processed"`
	Responses int `json:"responses"`
	Drafts    int `json:"drafts_saved"`
	Errors    int `json:"errors"`
}

// Run processes up to limit unread messages. Per-message failures
// are counted and logged; they never abort the batch.
func (r *Runner) Run(limit int) (Summary, error) {
	if limit <= 0 {
		limit = defaultBatchLimit
	}

	var summary Summary

	sess, err := r.Dial()
	if err != nil {
		return summary, err
	}
	defer sess.Close()

	messages, err := mailbox.FetchUnread(sess, inboxFolder, limit)
	if err != nil {
		return summary, err
	}
	utils.Log.Info("Fetched %d unread emails", len(messages))

	if _, err := r.Store.SaveFetchedEmails(messages); err != nil {
		utils.Log.Warn("Could not save fetched emails: %v", err)
	}

	for _, msg := range messages {
		summary.Processed++
		if err := r.processOne(sess, msg, &summary); err != nil {
			utils.Log.Error("Processing email %s failed: %v", msg.ID, err)
			summary.Errors++
		}
	}

	utils.Log.Info("Processed %d emails: %d responses, %d drafts saved, %d errors",
		summary.Processed, summary.Responses, summary.Drafts, summary.Errors)
	return summary, nil
}

func (r *Runner) processOne(sess mailbox.Session, msg models.Message, summary *Summary) error {
	record := models.AnalysisRecord{Email: msg, ProcessedAt: time.Now()}

	var ticket *models.Ticket
	isTicket := classify.DetectTicket(msg)
	if isTicket {
		t := classify.ParseTicket(msg.Subject + "\n" + msg.Body)
		ticket = &t
		record.Ticket = ticket
	}

	opts := classify.Options{TicketNotification: isTicket}
	if ticket != nil {
		opts.Priority = normalizePriority(ticket.Priority)
	}
	record.Classification = classify.Classify(msg, opts)

	var draftErr error
	if record.Classification.NeedsResponse {
		summary.Responses++

		thread := r.reconstruct(sess, msg)
		content := r.Composer.Reply(msg, record.Classification, thread, compose.Options{Ticket: ticket})
		record.ResponseDrafted = true

		if _, err := r.Store.SaveResponsePreview(content, record.ProcessedAt); err != nil {
			utils.Log.Warn("Could not save response preview: %v", err)
		}

		if err := r.saveDraft(content, &record); err != nil {
			draftErr = err
		} else {
			summary.Drafts++
		}
	}

	// The analysis record is written even when the draft save failed.
	if _, err := r.Store.SaveAnalysis(record); err != nil {
		utils.Log.Warn("Could not save analysis for email %s: %v", msg.ID, err)
	}
	return draftErr
}

func (r *Runner) reconstruct(sess mailbox.Session, msg models.Message) *models.Thread {
	thread, err := mailbox.ReconstructThread(sess, inboxFolder, msg, threadSearchDepth)
	if err != nil {
		utils.Log.Warn("Thread reconstruction for email %s failed: %v", msg.ID, err)
		return nil
	}
	return thread
}

// saveDraft opens a fresh session; draft appends go through their own
// connection so a failure there cannot poison the fetch session.
func (r *Runner) saveDraft(content models.DraftContent, record *models.AnalysisRecord) error {
	sess, err := r.Dial()
	if err != nil {
		return err
	}
	defer sess.Close()

	handle, err := r.Writer.SaveDraft(sess, r.From, content)
	if err != nil {
		return err
	}
	if handle.Status == models.DraftUnverified {
		utils.Log.Warn("Draft %s: %s", handle.ID, handle.Warning)
	}
	record.Draft = &handle

	return r.Store.AppendDraftRecord(models.DraftRecord{
		ID:        handle.ID,
		Subject:   content.Subject,
		Recipient: content.Recipient,
		Folder:    handle.Folder,
		Status:    handle.Status,
		SavedAt:   time.Now(),
	})
}

// normalizePriority maps free-form ticket priority text onto the
// high/medium/low scale.
func normalizePriority(priority string) string {
	p := strings.ToLower(priority)
	switch {
	case strings.Contains(p, "1") || strings.Contains(p, "critical") || strings.Contains(p, "high"):
		return classify.UrgencyHigh
	case strings.Contains(p, "2") || strings.Contains(p, "medium") || strings.Contains(p, "moderate"):
		return classify.UrgencyMedium
	case p == "":
		return ""
	default:
		return classify.UrgencyLow
	}
}
