package server

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"cstsite/internal/mailer"
	"cstsite/internal/models"
	"cstsite/internal/store"
)

// ContactService owns the contact-message lifecycle: public intake, admin
// triage, replies and deletion.
type ContactService struct {
	store *store.Store
	mail  *mailer.Mailer
}

func NewContactService(st *store.Store, mail *mailer.Mailer) *ContactService {
	return &ContactService{store: st, mail: mail}
}

// Submit persists a new contact message and fires the notification emails.
// Mail is best-effort: the record is already durable when it goes out, so a
// delivery failure never fails the request.
func (c *ContactService) Submit(ctx context.Context, sub contactSubmission) (*models.ContactMessage, error) {
	if err := sub.validate(); err != nil {
		return nil, err
	}

	msg := &models.ContactMessage{
		ID:      uuid.NewString(),
		Name:    sub.Name,
		Email:   sub.Email,
		Subject: sub.Subject,
		Message: sub.Message,
		Phone:   sub.Phone,
		Status:  models.ContactStatusNew,
	}
	if err := c.store.CreateContact(ctx, msg); err != nil {
		return nil, storeFailure(err)
	}

	c.mail.ContactReceived(msg)
	return msg, nil
}

// List returns one page of contact messages with attachment payloads
// stripped from the replies.
func (c *ContactService) List(ctx context.Context, statusRaw string, page, pageSize int) ([]models.ContactMessage, int64, error) {
	var status models.ContactStatus
	if statusRaw != "" {
		parsed, err := models.ParseContactStatus(statusRaw)
		if err != nil {
			return nil, 0, badRequestCode(err, ErrCodeInvalidStatus)
		}
		status = parsed
	}

	messages, total, err := c.store.ListContacts(ctx, status, page, pageSize)
	if err != nil {
		return nil, 0, storeFailure(err)
	}
	for i := range messages {
		messages[i].Replies = models.StripReplyData(messages[i].Replies)
	}
	return messages, total, nil
}

// UpdateStatus moves a contact message to another lifecycle state.
func (c *ContactService) UpdateStatus(ctx context.Context, id, statusRaw string) (*models.ContactMessage, error) {
	status, err := models.ParseContactStatus(statusRaw)
	if err != nil {
		return nil, badRequestCode(err, ErrCodeInvalidStatus)
	}

	msg, err := c.store.UpdateContactStatus(ctx, id, status)
	if err != nil {
		return nil, storeFailure(err)
	}
	if msg == nil {
		return nil, notFoundCode(fmt.Errorf("contact message not found"), ErrCodeContactNotFound)
	}
	msg.Replies = models.StripReplyData(msg.Replies)
	return msg, nil
}

// Reply appends an immutable admin reply, forces the message into the
// replied state and sends the threaded email to the submitter.
func (c *ContactService) Reply(ctx context.Context, id, message string, attachments []models.Attachment, sentBy string, now time.Time) (*models.ContactMessage, error) {
	message, err := validateReplyMessage(message)
	if err != nil {
		return nil, err
	}

	reply := models.Reply{
		Message:     message,
		Attachments: attachments,
		SentBy:      sentBy,
		SentAt:      now,
	}
	msg, err := c.store.AppendContactReply(ctx, id, reply)
	if err != nil {
		return nil, storeFailure(err)
	}
	if msg == nil {
		return nil, notFoundCode(fmt.Errorf("contact message not found"), ErrCodeContactNotFound)
	}

	c.mail.ContactReply(msg, reply)
	msg.Replies = models.StripReplyData(msg.Replies)
	return msg, nil
}

// Delete removes one contact message.
func (c *ContactService) Delete(ctx context.Context, id string) error {
	ok, err := c.store.DeleteContact(ctx, id)
	if err != nil {
		return storeFailure(err)
	}
	if !ok {
		return notFoundCode(fmt.Errorf("contact message not found"), ErrCodeContactNotFound)
	}
	return nil
}

// DeleteMany removes a batch of contact messages, tolerating ids that no
// longer exist, and reports how many rows actually went away.
func (c *ContactService) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	deleted, err := c.store.DeleteContacts(ctx, ids)
	if err != nil {
		return 0, storeFailure(err)
	}
	return deleted, nil
}
