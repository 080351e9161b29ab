package models

import "time"

// ContactMessage is a message submitted through the public contact form.
// Status and replies are mutated only by authenticated admin actions.
type ContactMessage struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Email         string        `json:"email"`
	Subject       string        `json:"subject"`
	Message       string        `json:"message"`
	Phone         string        `json:"phone,omitempty"`
	Status        ContactStatus `json:"status"`
	Replies       []Reply       `json:"replies,omitempty"`
	LastRepliedAt *time.Time    `json:"last_replied_at,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}
