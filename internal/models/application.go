package models

import "time"

// JobApplication is a submission for an open position. The resume, when
// present, is embedded rather than referenced, so deleting the application
// discards it in the same operation.
type JobApplication struct {
	ID            string            `json:"id"`
	FullName      string            `json:"full_name"`
	Email         string            `json:"email"`
	Phone         string            `json:"phone"`
	Position      string            `json:"position"`
	Experience    string            `json:"experience"`
	CoverLetter   string            `json:"cover_letter,omitempty"`
	Resume        *Attachment       `json:"resume,omitempty"`
	Status        ApplicationStatus `json:"status"`
	Notes         string            `json:"notes,omitempty"`
	Replies       []Reply           `json:"replies,omitempty"`
	LastRepliedAt *time.Time        `json:"last_replied_at,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// HasResume reports whether the application carries an embedded resume.
func (a *JobApplication) HasResume() bool {
	return a != nil && a.Resume != nil && len(a.Resume.Data) > 0
}
