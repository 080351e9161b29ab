// Package upload implements the accept/reject policy applied to every
// inbound file before it is persisted or embedded.
package upload

import (
	"fmt"
	"strings"
)

const (
	// MaxFileBytes is the ceiling for stored files, resumes and anything
	// that ends up inside a transactional email.
	MaxFileBytes int64 = 200 * 1024

	// PDFMaxBytes caps PDFs regardless of a higher general ceiling in the
	// same flow. Small-transactional-email payload vs. general attachment.
	PDFMaxBytes int64 = 200 * 1024

	// ReplyAttachmentMaxBytes is the general ceiling for ad-hoc reply
	// attachments; PDFs in the same request still get PDFMaxBytes.
	ReplyAttachmentMaxBytes int64 = 10 * 1024 * 1024

	// MaxFilesPerRequest bounds multi-uploads and reply attachments.
	MaxFilesPerRequest = 5

	pdfContentType = "application/pdf"
)

// RejectReason classifies why a candidate file was refused.
type RejectReason string

const (
	ReasonTypeNotAllowed RejectReason = "type-not-allowed"
	ReasonSizeExceeded   RejectReason = "size-exceeded"
	ReasonTooManyFiles   RejectReason = "too-many-files"
)

var allowedContentTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/jpg":  {},
	"image/png":  {},
	"image/gif":  {},
	"image/webp": {},
	"application/pdf":    {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
	"application/vnd.ms-excel": {},
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": {},
	"text/plain": {},
	"text/csv":   {},
}

// Policy carries the limits for one upload flow.
type Policy struct {
	MaxSizeBytes int64
	MaxFiles     int
}

// StoredFilePolicy is the policy for standalone file uploads and resumes.
func StoredFilePolicy() Policy {
	return Policy{MaxSizeBytes: MaxFileBytes, MaxFiles: MaxFilesPerRequest}
}

// ReplyPolicy is the policy for reply attachments: a higher general ceiling,
// with PDFs still pinned to PDFMaxBytes.
func ReplyPolicy() Policy {
	return Policy{MaxSizeBytes: ReplyAttachmentMaxBytes, MaxFiles: MaxFilesPerRequest}
}

// Candidate is one file offered for upload.
type Candidate struct {
	OriginalName string
	ContentType  string
	SizeBytes    int64
}

// Rejection reports one refused candidate with the limit it violated.
type Rejection struct {
	OriginalName string       `json:"original_name"`
	Reason       RejectReason `json:"reason"`
	SizeBytes    int64        `json:"size_bytes,omitempty"`
	LimitBytes   int64        `json:"limit_bytes,omitempty"`
	Message      string       `json:"message"`
}

// IsAllowedContentType reports whether the declared content type is on the
// allow-list. Parameters (e.g. "; charset=utf-8") are ignored.
func IsAllowedContentType(contentType string) bool {
	_, ok := allowedContentTypes[normalizeContentType(contentType)]
	return ok
}

func normalizeContentType(contentType string) string {
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	if idx := strings.Index(contentType, ";"); idx >= 0 {
		contentType = strings.TrimSpace(contentType[:idx])
	}
	return contentType
}

// IsPDF reports whether the declared content type is a PDF. PDFs get a
// distinct size branch by design.
func IsPDF(contentType string) bool {
	return normalizeContentType(contentType) == pdfContentType
}

// sizeLimit returns the effective ceiling for one candidate under the policy.
func (p Policy) sizeLimit(c Candidate) int64 {
	if IsPDF(c.ContentType) && PDFMaxBytes < p.MaxSizeBytes {
		return PDFMaxBytes
	}
	return p.MaxSizeBytes
}

// CheckOne evaluates a single candidate against the policy. A nil result
// means the file is accepted.
func (p Policy) CheckOne(c Candidate) *Rejection {
	if !IsAllowedContentType(c.ContentType) {
		return &Rejection{
			OriginalName: c.OriginalName,
			Reason:       ReasonTypeNotAllowed,
			Message:      fmt.Sprintf("file type %s is not allowed", c.ContentType),
		}
	}
	limit := p.sizeLimit(c)
	if c.SizeBytes > limit {
		return &Rejection{
			OriginalName: c.OriginalName,
			Reason:       ReasonSizeExceeded,
			SizeBytes:    c.SizeBytes,
			LimitBytes:   limit,
			Message: fmt.Sprintf("%s is %s, exceeds the %s limit",
				c.OriginalName, formatKiB(c.SizeBytes), formatKiB(limit)),
		}
	}
	return nil
}

// Check evaluates every candidate and returns all rejections, not only the
// first. Files beyond MaxFiles are rejected with too-many-files rather than
// silently dropped; the remaining candidates are still size/type checked so
// the caller can render a complete error list.
func (p Policy) Check(candidates []Candidate) []Rejection {
	var rejections []Rejection
	for i, c := range candidates {
		if p.MaxFiles > 0 && i >= p.MaxFiles {
			rejections = append(rejections, Rejection{
				OriginalName: c.OriginalName,
				Reason:       ReasonTooManyFiles,
				Message:      fmt.Sprintf("at most %d files may be attached per request", p.MaxFiles),
			})
			continue
		}
		if rej := p.CheckOne(c); rej != nil {
			rejections = append(rejections, *rej)
		}
	}
	return rejections
}

func formatKiB(n int64) string {
	kib := float64(n) / 1024
	if kib == float64(int64(kib)) {
		return fmt.Sprintf("%d KiB", int64(kib))
	}
	return fmt.Sprintf("%.1f KiB", kib)
}
