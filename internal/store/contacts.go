package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"cstsite/internal/models"
)

const contactColumns = "id, name, email, subject, message, phone, status, replies_json, last_replied_at, created_at"

// CreateContact inserts one contact message row.
func (s *Store) CreateContact(ctx context.Context, msg *models.ContactMessage) error {
	if msg == nil {
		return fmt.Errorf("contact message is required")
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	if msg.Status == "" {
		msg.Status = models.ContactStatusNew
	}

	repliesJSON, err := repliesToJSON(msg.Replies)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO contacts (id, name, email, subject, message, phone, status, replies_json, last_replied_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, msg.ID, msg.Name, msg.Email, msg.Subject, msg.Message, nullString(msg.Phone),
		string(msg.Status), repliesJSON, nullTime(msg.LastRepliedAt), formatTime(msg.CreatedAt))
	return err
}

// GetContact returns one contact message, or nil when absent.
func (s *Store) GetContact(ctx context.Context, id string) (*models.ContactMessage, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+contactColumns+` FROM contacts WHERE id = ?`, id)
	return scanContact(row)
}

// ListContacts returns one page of contacts newest first, optionally
// filtered by status, along with the total count for the filter.
func (s *Store) ListContacts(ctx context.Context, status models.ContactStatus, page, pageSize int) ([]models.ContactMessage, int64, error) {
	where := ""
	args := []any{}
	if status != "" {
		where = " WHERE status = ?"
		args = append(args, string(status))
	}

	var total int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM contacts"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	args = append(args, pageSize, offset)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+contactColumns+` FROM contacts`+where+` ORDER BY created_at DESC LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	contacts := []models.ContactMessage{}
	for rows.Next() {
		msg, err := scanContact(rows)
		if err != nil {
			return nil, 0, err
		}
		if msg == nil {
			continue
		}
		contacts = append(contacts, *msg)
	}
	return contacts, total, rows.Err()
}

// UpdateContactStatus sets the status of one contact message and returns
// the updated row, or nil when the id does not exist. The update and the
// re-read run inside one transaction so the returned row always reflects
// this write.
func (s *Store) UpdateContactStatus(ctx context.Context, id string, status models.ContactStatus) (*models.ContactMessage, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, "UPDATE contacts SET status = ? WHERE id = ?", string(status), id)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, nil
	}

	msg, err := scanContact(tx.QueryRowContext(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE id = ?`, id))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return msg, nil
}

// AppendContactReply appends one reply, stamps last_replied_at and forces
// the status to replied. The read and rewrite of the reply list run inside
// one transaction so concurrent replies never overwrite each other. Returns
// the updated message, or nil when the id does not exist.
func (s *Store) AppendContactReply(ctx context.Context, id string, reply models.Reply) (*models.ContactMessage, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	msg, err := scanContact(tx.QueryRowContext(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE id = ?`, id))
	if err != nil || msg == nil {
		return msg, err
	}

	replies := append(msg.Replies, reply)
	repliesJSON, err := repliesToJSON(replies)
	if err != nil {
		return nil, err
	}

	sentAt := reply.SentAt.UTC()
	_, err = tx.ExecContext(ctx, `
		UPDATE contacts SET replies_json = ?, last_replied_at = ?, status = ? WHERE id = ?
	`, repliesJSON, formatTime(sentAt), string(models.ContactStatusReplied), id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	msg.Replies = replies
	msg.LastRepliedAt = &sentAt
	msg.Status = models.ContactStatusReplied
	return msg, nil
}

// DeleteContact removes one contact message. Returns false when absent.
func (s *Store) DeleteContact(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM contacts WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// DeleteContacts removes every listed contact in one statement, skipping
// ids that do not exist, and reports how many rows went away.
func (s *Store) DeleteContacts(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM contacts WHERE id IN ("+placeholders(len(ids))+")", args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// CountContacts counts contacts, optionally by status.
func (s *Store) CountContacts(ctx context.Context, status models.ContactStatus) (int64, error) {
	var count int64
	var err error
	if status == "" {
		err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM contacts").Scan(&count)
	} else {
		err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM contacts WHERE status = ?", string(status)).Scan(&count)
	}
	return count, err
}

// RecentContacts returns the n newest contact messages.
func (s *Store) RecentContacts(ctx context.Context, n int) ([]models.ContactMessage, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+contactColumns+` FROM contacts ORDER BY created_at DESC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contacts := []models.ContactMessage{}
	for rows.Next() {
		msg, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		if msg == nil {
			continue
		}
		contacts = append(contacts, *msg)
	}
	return contacts, rows.Err()
}

// ContactDailyCounts aggregates per-day submission counts since the cutoff.
func (s *Store) ContactDailyCounts(ctx context.Context, since time.Time) ([]DailyCount, error) {
	return s.dailyCounts(ctx, "contacts", "created_at", since)
}

func (s *Store) dailyCounts(ctx context.Context, table, column string, since time.Time) ([]DailyCount, error) {
	// Timestamps are RFC3339 text, so the first ten bytes are the date.
	rows, err := s.db.QueryContext(ctx, `
		SELECT substr(`+column+`, 1, 10) AS day, COUNT(*)
		FROM `+table+`
		WHERE `+column+` >= ?
		GROUP BY day
		ORDER BY day ASC
	`, formatTime(since))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := []DailyCount{}
	for rows.Next() {
		var dc DailyCount
		if err := rows.Scan(&dc.Day, &dc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, dc)
	}
	return counts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContact(row rowScanner) (*models.ContactMessage, error) {
	var (
		msg           models.ContactMessage
		phone         sql.NullString
		status        string
		repliesJSON   sql.NullString
		lastRepliedAt sql.NullString
		createdAt     string
	)
	err := row.Scan(&msg.ID, &msg.Name, &msg.Email, &msg.Subject, &msg.Message,
		&phone, &status, &repliesJSON, &lastRepliedAt, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	msg.Phone = phone.String
	msg.Status = models.ContactStatus(status)

	if msg.Replies, err = repliesFromJSON(repliesJSON); err != nil {
		return nil, err
	}
	if msg.LastRepliedAt, err = scanNullTime(lastRepliedAt); err != nil {
		return nil, err
	}
	if msg.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &msg, nil
}
