package server

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"cstsite/internal/models"
	"cstsite/internal/upload"
)

const multipartMaxBody = 64 << 20 // 64 MiB

func parseMultipart(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, multipartMaxBody)
	if err := r.ParseMultipartForm(multipartMaxMemory); err != nil {
		return badRequestCode(fmt.Errorf("invalid multipart request: %w", err), ErrCodeInvalidArgument)
	}
	return nil
}

func readMultipartFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func headerContentType(fh *multipart.FileHeader) string {
	return strings.TrimSpace(fh.Header.Get("Content-Type"))
}

// formFiles collects the file headers for a field, accepting both the exact
// name and the array-style variant some clients send.
func formFiles(r *http.Request, field string) []*multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}
	headers := r.MultipartForm.File[field]
	if len(headers) == 0 {
		headers = r.MultipartForm.File[field+"[]"]
	}
	return headers
}

// multipartAttachments checks every file in the field against the policy
// and reads the survivors into attachments. All offenders are reported at
// once; nothing is read until the whole batch passes.
func multipartAttachments(r *http.Request, field string, policy upload.Policy) ([]models.Attachment, error) {
	headers := formFiles(r, field)
	if len(headers) == 0 {
		return nil, nil
	}

	candidates := make([]upload.Candidate, len(headers))
	for i, fh := range headers {
		candidates[i] = upload.Candidate{
			OriginalName: fh.Filename,
			ContentType:  headerContentType(fh),
			SizeBytes:    fh.Size,
		}
	}
	if rejections := policy.Check(candidates); len(rejections) > 0 {
		return nil, uploadError(rejections)
	}

	attachments := make([]models.Attachment, 0, len(headers))
	for _, fh := range headers {
		data, err := readMultipartFile(fh)
		if err != nil {
			return nil, badRequest(fmt.Errorf("read %s: %w", fh.Filename, err))
		}
		attachments = append(attachments, models.Attachment{
			Filename:     uuid.NewString() + "-" + fh.Filename,
			OriginalName: fh.Filename,
			ContentType:  headerContentType(fh),
			SizeBytes:    int64(len(data)),
			Data:         data,
		})
	}
	return attachments, nil
}

// multipartResume reads the optional single resume file without policy
// checks; the submission service decides whether to keep it.
func multipartResume(r *http.Request) (*models.Attachment, error) {
	headers := formFiles(r, "resume")
	if len(headers) == 0 {
		return nil, nil
	}
	fh := headers[0]
	data, err := readMultipartFile(fh)
	if err != nil {
		return nil, badRequest(fmt.Errorf("read %s: %w", fh.Filename, err))
	}
	return &models.Attachment{
		Filename:     uuid.NewString() + "-" + fh.Filename,
		OriginalName: fh.Filename,
		ContentType:  headerContentType(fh),
		SizeBytes:    int64(len(data)),
		Data:         data,
	}, nil
}

func writeDownload(w http.ResponseWriter, contentType, originalName string, size int64, data []byte) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", originalName))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", size))
	w.Write(data)
}
