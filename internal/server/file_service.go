package server

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"cstsite/internal/models"
	"cstsite/internal/store"
	"cstsite/internal/upload"
)

// FileService owns standalone stored files: admin uploads, search, stats
// and deletion, plus the resume surface projected from applications.
type FileService struct {
	store *store.Store
}

func NewFileService(st *store.Store) *FileService {
	return &FileService{store: st}
}

// fileUpload is one already-read multipart file offered for storage.
type fileUpload struct {
	OriginalName string
	ContentType  string
	Data         []byte
	Tags         []string
	Description  string
}

// Upload stores a batch of files under one owner. The whole batch is
// accepted or rejected: every offending file is reported, nothing partial
// is written.
func (f *FileService) Upload(ctx context.Context, owner string, uploads []fileUpload, now time.Time) ([]models.StoredFile, error) {
	if len(uploads) == 0 {
		return nil, badRequestCode(fmt.Errorf("no files provided"), ErrCodeMissingRequired)
	}

	candidates := make([]upload.Candidate, len(uploads))
	for i, u := range uploads {
		candidates[i] = upload.Candidate{
			OriginalName: u.OriginalName,
			ContentType:  u.ContentType,
			SizeBytes:    int64(len(u.Data)),
		}
	}
	if rejections := upload.StoredFilePolicy().Check(candidates); len(rejections) > 0 {
		return nil, uploadError(rejections)
	}

	stored := make([]models.StoredFile, 0, len(uploads))
	for _, u := range uploads {
		file := models.StoredFile{
			ID:           uuid.NewString(),
			Filename:     uuid.NewString() + "-" + u.OriginalName,
			OriginalName: u.OriginalName,
			ContentType:  u.ContentType,
			SizeBytes:    int64(len(u.Data)),
			Data:         u.Data,
			UploadedBy:   owner,
			UploadedAt:   now,
			Tags:         u.Tags,
			Description:  u.Description,
		}
		if err := f.store.CreateFile(ctx, &file); err != nil {
			return nil, storeFailure(err)
		}
		stored = append(stored, file.WithoutData())
	}
	return stored, nil
}

// List returns one page of file metadata. An empty owner means the
// admin-wide view.
func (f *FileService) List(ctx context.Context, owner string, page, pageSize int) ([]models.StoredFile, int64, error) {
	files, total, err := f.store.ListFiles(ctx, owner, page, pageSize)
	if err != nil {
		return nil, 0, storeFailure(err)
	}
	return files, total, nil
}

// Search matches the query case-insensitively against original name, tags
// and description.
func (f *FileService) Search(ctx context.Context, query, owner string, page, pageSize int) ([]models.StoredFile, int64, error) {
	if query == "" {
		return nil, 0, badRequestCode(fmt.Errorf("query is required"), ErrCodeMissingRequired)
	}
	files, total, err := f.store.SearchFiles(ctx, query, owner, page, pageSize)
	if err != nil {
		return nil, 0, storeFailure(err)
	}
	return files, total, nil
}

// Info returns metadata for one file without its payload.
func (f *FileService) Info(ctx context.Context, id string) (*models.StoredFile, error) {
	file, err := f.store.GetFileMeta(ctx, id)
	if err != nil {
		return nil, storeFailure(err)
	}
	if file == nil {
		return nil, notFoundCode(fmt.Errorf("file not found"), ErrCodeFileNotFound)
	}
	return file, nil
}

// Download returns one file with its payload.
func (f *FileService) Download(ctx context.Context, id string) (*models.StoredFile, error) {
	file, err := f.store.GetFile(ctx, id)
	if err != nil {
		return nil, storeFailure(err)
	}
	if file == nil {
		return nil, notFoundCode(fmt.Errorf("file not found"), ErrCodeFileNotFound)
	}
	return file, nil
}

// DeleteOwned deletes a file the caller uploaded. A file owned by someone
// else and a file that never existed get the same answer.
func (f *FileService) DeleteOwned(ctx context.Context, id, owner string) error {
	ok, err := f.store.DeleteFileOwned(ctx, id, owner)
	if err != nil {
		return storeFailure(err)
	}
	if !ok {
		return notFoundCode(fmt.Errorf("file not found"), ErrCodeFileNotFound)
	}
	return nil
}

// DeleteAny deletes any file regardless of owner and reports its original
// name for the audit log.
func (f *FileService) DeleteAny(ctx context.Context, id string) (string, error) {
	name, ok, err := f.store.DeleteFileAny(ctx, id)
	if err != nil {
		return "", storeFailure(err)
	}
	if !ok {
		return "", notFoundCode(fmt.Errorf("file not found"), ErrCodeFileNotFound)
	}
	return name, nil
}

// BulkDelete removes a batch of files, tolerating missing ids.
func (f *FileService) BulkDelete(ctx context.Context, ids []string) (int64, error) {
	deleted, err := f.store.BulkDeleteFiles(ctx, ids)
	if err != nil {
		return 0, storeFailure(err)
	}
	return deleted, nil
}

// storageStatsResponse aggregates usage on demand; nothing is cached.
type storageStatsResponse struct {
	Totals        models.StorageStats        `json:"totals"`
	ByContentType []models.StorageGroupStats `json:"by_content_type"`
	ByOwner       []models.StorageGroupStats `json:"by_owner,omitempty"`
}

// Stats computes storage usage for one owner, or for everything when owner
// is empty (the owner breakdown is only included in the admin-wide view).
func (f *FileService) Stats(ctx context.Context, owner string) (*storageStatsResponse, error) {
	totals, err := f.store.StorageStats(ctx, owner)
	if err != nil {
		return nil, storeFailure(err)
	}
	byType, err := f.store.StorageStatsByContentType(ctx, owner)
	if err != nil {
		return nil, storeFailure(err)
	}
	resp := &storageStatsResponse{Totals: totals, ByContentType: byType}
	if owner == "" {
		byOwner, err := f.store.StorageStatsByOwner(ctx)
		if err != nil {
			return nil, storeFailure(err)
		}
		resp.ByOwner = byOwner
	}
	return resp, nil
}

// Resumes lists resume metadata across all applications.
func (f *FileService) Resumes(ctx context.Context, page, pageSize int) ([]store.ResumeRow, int64, error) {
	resumes, total, err := f.store.ListResumes(ctx, page, pageSize)
	if err != nil {
		return nil, 0, storeFailure(err)
	}
	return resumes, total, nil
}
