package api

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"mailpilot/mailbox"
)

// Flag endpoints operate on one inbox message by server id.

// HandleMarkUnread clears the seen flag.
//
// POST /api/mark-as-unread/:id
func (h *EmailHandler) HandleMarkUnread(c *fiber.Ctx) error {
	return h.withMessage(c, func(sess mailbox.Session, uid uint32) error {
		return mailbox.MarkUnread(sess, inboxFolder, uid)
	}, "Email marked as unread")
}

// HandleStar flags the message.
//
// POST /api/star/:id
func (h *EmailHandler) HandleStar(c *fiber.Ctx) error {
	return h.withMessage(c, func(sess mailbox.Session, uid uint32) error {
		return mailbox.Star(sess, inboxFolder, uid)
	}, "Email starred")
}

// HandleDelete moves the message to trash.
//
// DELETE /api/emails/:id
func (h *EmailHandler) HandleDelete(c *fiber.Ctx) error {
	return h.withMessage(c, func(sess mailbox.Session, uid uint32) error {
		return mailbox.MoveToTrash(sess, inboxFolder, uid, h.trashFolders)
	}, "Email moved to trash")
}

func (h *EmailHandler) withMessage(c *fiber.Ctx, op func(mailbox.Session, uint32) error, message string) error {
	uid, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err)
	}

	sess, err := h.dial()
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, err)
	}
	defer sess.Close()

	if err := op(sess, uint32(uid)); err != nil {
		return fail(c, fiber.StatusInternalServerError, err)
	}
	return success(c, message, fiber.Map{"id": uid})
}
