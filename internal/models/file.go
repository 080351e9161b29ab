package models

import "time"

// StoredFile is a standalone uploaded file managed through the
// file-management surface. Filename is a generated unique storage name;
// OriginalName is retained for display and download headers only.
type StoredFile struct {
	ID           string    `json:"id"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"original_name"`
	ContentType  string    `json:"content_type"`
	SizeBytes    int64     `json:"size_bytes"`
	Data         []byte    `json:"data,omitempty"`
	UploadedBy   string    `json:"uploaded_by"`
	UploadedAt   time.Time `json:"uploaded_at"`
	Tags         []string  `json:"tags,omitempty"`
	Description  string    `json:"description,omitempty"`
}

// WithoutData returns a copy with the blob stripped, for listings.
func (f StoredFile) WithoutData() StoredFile {
	f.Data = nil
	return f
}

// StorageStats aggregates file counts and sizes, computed on demand.
type StorageStats struct {
	TotalFiles int64   `json:"total_files"`
	TotalBytes int64   `json:"total_bytes"`
	AvgBytes   float64 `json:"avg_bytes"`
}

// StorageGroupStats is one aggregation bucket, keyed by owner or content type.
type StorageGroupStats struct {
	Key        string `json:"key"`
	FileCount  int64  `json:"file_count"`
	TotalBytes int64  `json:"total_bytes"`
}
