package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"cstsite/internal/models"
)

const fileColumns = "id, filename, original_name, content_type, size_bytes, data, uploaded_by, uploaded_at, tags_json, description"

// fileMetaColumns excludes the blob for listings.
const fileMetaColumns = "id, filename, original_name, content_type, size_bytes, NULL, uploaded_by, uploaded_at, tags_json, description"

// CreateFile inserts one stored file row.
func (s *Store) CreateFile(ctx context.Context, file *models.StoredFile) error {
	if file == nil {
		return fmt.Errorf("file is required")
	}
	if file.UploadedAt.IsZero() {
		file.UploadedAt = time.Now().UTC()
	}

	tagsJSON, err := tagsToJSON(file.Tags)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO files (id, filename, original_name, content_type, size_bytes, data, uploaded_by, uploaded_at, tags_json, description)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, file.ID, file.Filename, file.OriginalName, file.ContentType, file.SizeBytes, file.Data,
		file.UploadedBy, formatTime(file.UploadedAt), tagsJSON, nullString(file.Description))
	return err
}

// GetFile returns one stored file including the blob, or nil when absent.
func (s *Store) GetFile(ctx context.Context, id string) (*models.StoredFile, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+fileColumns+` FROM files WHERE id = ?`, id)
	return scanFile(row)
}

// GetFileMeta is GetFile without the blob.
func (s *Store) GetFileMeta(ctx context.Context, id string) (*models.StoredFile, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+fileMetaColumns+` FROM files WHERE id = ?`, id)
	return scanFile(row)
}

// ListFiles returns one page of file metadata newest first with the total
// count. An empty owner lists across all owners (admin-wide view).
func (s *Store) ListFiles(ctx context.Context, owner string, page, pageSize int) ([]models.StoredFile, int64, error) {
	where := ""
	args := []any{}
	if owner != "" {
		where = " WHERE uploaded_by = ?"
		args = append(args, owner)
	}

	var total int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM files"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	args = append(args, pageSize, offset)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+fileMetaColumns+` FROM files`+where+` ORDER BY uploaded_at DESC LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	return collectFiles(rows, total)
}

// SearchFiles matches a case-insensitive substring across original_name,
// tags and description. An empty owner searches admin-wide.
func (s *Store) SearchFiles(ctx context.Context, query, owner string, page, pageSize int) ([]models.StoredFile, int64, error) {
	pattern := likePattern(query)
	where := ` WHERE (LOWER(original_name) LIKE ? ESCAPE '\'
		OR LOWER(COALESCE(tags_json, '')) LIKE ? ESCAPE '\'
		OR LOWER(COALESCE(description, '')) LIKE ? ESCAPE '\')`
	args := []any{pattern, pattern, pattern}
	if owner != "" {
		where += " AND uploaded_by = ?"
		args = append(args, owner)
	}

	var total int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM files"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	args = append(args, pageSize, offset)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+fileMetaColumns+` FROM files`+where+` ORDER BY uploaded_at DESC LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	return collectFiles(rows, total)
}

// DeleteFileOwned deletes one file only when the owner matches. A missing
// row and an ownership mismatch are indistinguishable to the caller.
func (s *Store) DeleteFileOwned(ctx context.Context, id, owner string) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM files WHERE id = ? AND uploaded_by = ?", id, owner)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// DeleteFileAny deletes one file regardless of owner (superuser surface).
// Returns the original name for the confirmation message.
func (s *Store) DeleteFileAny(ctx context.Context, id string) (string, bool, error) {
	var originalName string
	err := s.db.QueryRowContext(ctx, "SELECT original_name FROM files WHERE id = ?", id).Scan(&originalName)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM files WHERE id = ?", id); err != nil {
		return "", false, err
	}
	return originalName, true, nil
}

// BulkDeleteFiles removes every listed file in one statement, skipping
// missing ids, and reports the exact count deleted.
func (s *Store) BulkDeleteFiles(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM files WHERE id IN ("+placeholders(len(ids))+")", args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// StorageStats aggregates count, total bytes and average size on demand.
// An empty owner aggregates across all owners.
func (s *Store) StorageStats(ctx context.Context, owner string) (models.StorageStats, error) {
	query := "SELECT COUNT(*), COALESCE(SUM(size_bytes), 0), COALESCE(AVG(size_bytes), 0) FROM files"
	args := []any{}
	if owner != "" {
		query += " WHERE uploaded_by = ?"
		args = append(args, owner)
	}
	var stats models.StorageStats
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&stats.TotalFiles, &stats.TotalBytes, &stats.AvgBytes)
	return stats, err
}

// StorageStatsByContentType groups file counts and bytes by content type,
// most numerous first. An empty owner aggregates admin-wide.
func (s *Store) StorageStatsByContentType(ctx context.Context, owner string) ([]models.StorageGroupStats, error) {
	return s.storageGroups(ctx, "content_type", owner)
}

// StorageStatsByOwner groups file counts and bytes by uploader.
func (s *Store) StorageStatsByOwner(ctx context.Context) ([]models.StorageGroupStats, error) {
	return s.storageGroups(ctx, "uploaded_by", "")
}

func (s *Store) storageGroups(ctx context.Context, column, owner string) ([]models.StorageGroupStats, error) {
	query := "SELECT " + column + ", COUNT(*), COALESCE(SUM(size_bytes), 0) FROM files"
	args := []any{}
	if owner != "" {
		query += " WHERE uploaded_by = ?"
		args = append(args, owner)
	}
	query += " GROUP BY " + column + " ORDER BY COUNT(*) DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups := []models.StorageGroupStats{}
	for rows.Next() {
		var g models.StorageGroupStats
		if err := rows.Scan(&g.Key, &g.FileCount, &g.TotalBytes); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func collectFiles(rows *sql.Rows, total int64) ([]models.StoredFile, int64, error) {
	files := []models.StoredFile{}
	for rows.Next() {
		file, err := scanFile(rows)
		if err != nil {
			return nil, 0, err
		}
		if file == nil {
			continue
		}
		files = append(files, *file)
	}
	return files, total, rows.Err()
}

func scanFile(row rowScanner) (*models.StoredFile, error) {
	var (
		file        models.StoredFile
		data        []byte
		uploadedAt  string
		tagsJSON    sql.NullString
		description sql.NullString
	)
	err := row.Scan(&file.ID, &file.Filename, &file.OriginalName, &file.ContentType,
		&file.SizeBytes, &data, &file.UploadedBy, &uploadedAt, &tagsJSON, &description)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	file.Data = data
	file.Description = description.String

	if file.Tags, err = tagsFromJSON(tagsJSON); err != nil {
		return nil, err
	}
	if file.UploadedAt, err = parseTime(uploadedAt); err != nil {
		return nil, err
	}
	return &file, nil
}
