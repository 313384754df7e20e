package api

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"mailpilot/compose"
	"mailpilot/mailbox"
	"mailpilot/models"
	"mailpilot/pipeline"
	"mailpilot/storage"
	"mailpilot/utils"
)

const inboxFolder = "INBOX"

// EmailHandler exposes the mailbox operations over HTTP.
type EmailHandler struct {
	store    *storage.Store
	writer   *mailbox.DraftWriter
	composer *compose.Composer
	runner   *pipeline.Runner
	from     string
	dial     func() (mailbox.Session, error)

	trashFolders []string
}

func NewEmailHandler(store *storage.Store, writer *mailbox.DraftWriter, composer *compose.Composer, runner *pipeline.Runner, from string, trashFolders []string, dial func() (mailbox.Session, error)) *EmailHandler {
	if len(trashFolders) == 0 {
		trashFolders = mailbox.DefaultTrashFolders
	}
	return &EmailHandler{
		store:        store,
		writer:       writer,
		composer:     composer,
		runner:       runner,
		from:         from,
		dial:         dial,
		trashFolders: trashFolders,
	}
}

// HandleFetchEmails fetches unread messages and persists the batch.
//
// POST /api/fetch-emails {"max_emails": 10}
func (h *EmailHandler) HandleFetchEmails(c *fiber.Ctx) error {
	var req struct {
		MaxEmails int `json:"max_emails"`
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fail(c, fiber.StatusBadRequest, err)
		}
	}
	if req.MaxEmails <= 0 {
		req.MaxEmails = 10
	}

	sess, err := h.dial()
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, err)
	}
	defer sess.Close()

	messages, err := mailbox.FetchUnread(sess, inboxFolder, req.MaxEmails)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, err)
	}

	if _, err := h.store.SaveFetchedEmails(messages); err != nil {
		utils.Log.Warn("Could not save fetched emails: %v", err)
	}

	return success(c, "Fetched unread emails", fiber.Map{
		"count":  len(messages),
		"emails": messages,
	})
}

// HandleSaveDraft composes a reply draft from caller-supplied text
// and saves it to the drafts folder.
//
// POST /api/save-draft
func (h *EmailHandler) HandleSaveDraft(c *fiber.Ctx) error {
	var req struct {
		Subject    string `json:"subject"`
		Body       string `json:"body"`
		Recipient  string `json:"recipient"`
		ThreadInfo struct {
			MessageID  string   `json:"message_id"`
			References []string `json:"references"`
		} `json:"thread_info"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, err)
	}
	if req.Recipient == "" || req.Body == "" {
		return fail(c, fiber.StatusBadRequest, fiber.NewError(fiber.StatusBadRequest, "recipient and body are required"))
	}

	subject := req.Subject
	if subject == "" {
		subject = "No Subject"
	}
	if req.ThreadInfo.MessageID != "" && !strings.HasPrefix(strings.ToLower(subject), "re:") {
		subject = "Re: " + subject
	}

	// The replied-to message id must end the reference chain.
	refs := append([]string{}, req.ThreadInfo.References...)
	if id := req.ThreadInfo.MessageID; id != "" && (len(refs) == 0 || refs[len(refs)-1] != id) {
		refs = append(refs, id)
	}

	content := models.DraftContent{
		Subject:    subject,
		Body:       h.composer.Sign(req.Body),
		Recipient:  req.Recipient,
		InReplyTo:  req.ThreadInfo.MessageID,
		References: refs,
	}

	sess, err := h.dial()
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, err)
	}
	defer sess.Close()

	handle, err := h.writer.SaveDraft(sess, h.from, content)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, err)
	}

	if err := h.store.AppendDraftRecord(models.DraftRecord{
		ID:        handle.ID,
		Subject:   content.Subject,
		Recipient: content.Recipient,
		Folder:    handle.Folder,
		Status:    handle.Status,
		SavedAt:   time.Now(),
	}); err != nil {
		utils.Log.Warn("Could not record draft %s: %v", handle.ID, err)
	}

	return success(c, "Draft saved", fiber.Map{
		"draft":   handle,
		"warning": handle.Warning,
	})
}

// HandleMarkRead marks one inbox message as read.
//
// POST /api/mark-as-read/:id
func (h *EmailHandler) HandleMarkRead(c *fiber.Ctx) error {
	return h.withMessage(c, func(sess mailbox.Session, uid uint32) error {
		return mailbox.MarkRead(sess, inboxFolder, uid)
	}, "Email marked as read")
}

// HandleThreadHistory reconstructs the conversation around one
// message.
//
// GET /api/thread-history?id=42&include_attachments=false&max_depth=10
func (h *EmailHandler) HandleThreadHistory(c *fiber.Ctx) error {
	uid, err := strconv.ParseUint(c.Query("id"), 10, 32)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err)
	}
	includeAttachments := c.QueryBool("include_attachments", false)
	maxDepth := c.QueryInt("max_depth", 10)

	sess, err := h.dial()
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, err)
	}
	defer sess.Close()

	seed, err := h.fetchMessage(sess, uint32(uid))
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, err)
	}

	thread, err := mailbox.ReconstructThread(sess, inboxFolder, seed, maxDepth)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, err)
	}
	if !includeAttachments {
		for i := range thread.Messages {
			thread.Messages[i].Attachments = nil
		}
	}

	return success(c, "Thread history reconstructed", fiber.Map{"thread": thread})
}

// HandleReply composes a reply to one message, optionally threading
// it into the reconstructed conversation, and saves it as a draft.
//
// POST /api/reply
func (h *EmailHandler) HandleReply(c *fiber.Ctx) error {
	req := struct {
		EmailID         string `json:"email_id"`
		Subject         string `json:"subject"`
		Body            string `json:"body"`
		IncludeHistory  *bool  `json:"include_history"`
		MaxHistoryDepth int    `json:"max_history_depth"`
	}{}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, err)
	}
	uid, err := strconv.ParseUint(req.EmailID, 10, 32)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err)
	}
	if req.Body == "" {
		return fail(c, fiber.StatusBadRequest, fiber.NewError(fiber.StatusBadRequest, "body is required"))
	}
	includeHistory := req.IncludeHistory == nil || *req.IncludeHistory
	if req.MaxHistoryDepth <= 0 {
		req.MaxHistoryDepth = 10
	}

	sess, err := h.dial()
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, err)
	}
	defer sess.Close()

	seed, err := h.fetchMessage(sess, uint32(uid))
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, err)
	}

	var thread *models.Thread
	if includeHistory {
		thread, err = mailbox.ReconstructThread(sess, inboxFolder, seed, req.MaxHistoryDepth)
		if err != nil {
			utils.Log.Warn("Thread reconstruction for email %s failed: %v", req.EmailID, err)
			thread = nil
		}
	}

	content := h.composer.ReplyText(seed, thread, req.Subject, req.Body)

	handle, err := h.writer.SaveDraft(sess, h.from, content)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, err)
	}

	return success(c, "Reply saved as draft", fiber.Map{
		"draft":   handle,
		"subject": content.Subject,
		"warning": handle.Warning,
	})
}

// HandleProcess runs one full fetch-classify-respond batch.
//
// POST /api/process {"limit": 10}
func (h *EmailHandler) HandleProcess(c *fiber.Ctx) error {
	var req struct {
		Limit int `json:"limit"`
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fail(c, fiber.StatusBadRequest, err)
		}
	}

	summary, err := h.runner.Run(req.Limit)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, err)
	}
	return success(c, "Batch processed", fiber.Map{"summary": summary})
}

func (h *EmailHandler) fetchMessage(sess mailbox.Session, uid uint32) (models.Message, error) {
	if err := sess.SelectFolder(inboxFolder, true); err != nil {
		return models.Message{}, err
	}
	raw, err := sess.FetchRaw(uid)
	if err != nil {
		return models.Message{}, err
	}
	return mailbox.Decode(strconv.FormatUint(uint64(uid), 10), raw), nil
}
