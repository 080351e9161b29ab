package models

import "time"

// Attachment is a small binary blob embedded in a reply or resume field.
// SizeBytes must always equal len(Data); oversized payloads are rejected
// before an Attachment value is ever constructed.
type Attachment struct {
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
	ContentType  string `json:"content_type"`
	SizeBytes    int64  `json:"size_bytes"`
	Data         []byte `json:"data,omitempty"`
}

// Reply is an admin-authored follow-up appended to a contact message or
// job application. Replies are append-only: never edited, never removed.
type Reply struct {
	Message     string       `json:"message"`
	Attachments []Attachment `json:"attachments,omitempty"`
	SentBy      string       `json:"sent_by"`
	SentAt      time.Time    `json:"sent_at"`
}

// WithoutData returns a copy of the attachment with the payload stripped,
// for listings and metadata responses.
func (a Attachment) WithoutData() Attachment {
	a.Data = nil
	return a
}

// StripReplyData removes attachment payloads from every reply, keeping
// metadata intact.
func StripReplyData(replies []Reply) []Reply {
	out := make([]Reply, len(replies))
	for i, reply := range replies {
		out[i] = reply
		if len(reply.Attachments) == 0 {
			continue
		}
		attachments := make([]Attachment, len(reply.Attachments))
		for j, att := range reply.Attachments {
			attachments[j] = att.WithoutData()
		}
		out[i].Attachments = attachments
	}
	return out
}
