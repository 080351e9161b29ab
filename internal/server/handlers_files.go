package server

import (
	"fmt"
	"net/http"
	"strings"
)

func uploadsFromRequest(r *http.Request, field string) ([]fileUpload, error) {
	headers := formFiles(r, field)
	uploads := make([]fileUpload, 0, len(headers))
	for _, fh := range headers {
		data, err := readMultipartFile(fh)
		if err != nil {
			return nil, fmt.Errorf("could not read uploaded file %s: %w", fh.Filename, err)
		}
		uploads = append(uploads, fileUpload{
			OriginalName: fh.Filename,
			ContentType:  headerContentType(fh),
			Data:         data,
			Tags:         splitCSV(r.FormValue("tags")),
			Description:  strings.TrimSpace(r.FormValue("description")),
		})
	}
	return uploads, nil
}

func splitCSV(value string) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

func (s *Server) handleFileUpload(w http.ResponseWriter, r *http.Request) {
	if err := parseMultipart(w, r); err != nil {
		s.writeErrorReq(w, r, http.StatusBadRequest, err)
		return
	}

	principal, _ := authPrincipalFromContext(r.Context())
	uploads, err := uploadsFromRequest(r, "file")
	if err != nil {
		s.writeErrorReq(w, r, http.StatusBadRequest, err)
		return
	}
	if len(uploads) > 1 {
		s.writeErrorReq(w, r, http.StatusBadRequest,
			fmt.Errorf("expected one file in field %q, got %d", "file", len(uploads)))
		return
	}

	stored, err := s.files.Upload(r.Context(), principal.Username, uploads, s.now())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.log().Info("file uploaded", "id", stored[0].ID, "name", stored[0].OriginalName, "by", principal.Username)
	s.writeJSON(w, http.StatusCreated, stored[0])
}

func (s *Server) handleFileUploadMultiple(w http.ResponseWriter, r *http.Request) {
	if err := parseMultipart(w, r); err != nil {
		s.writeErrorReq(w, r, http.StatusBadRequest, err)
		return
	}

	principal, _ := authPrincipalFromContext(r.Context())
	uploads, err := uploadsFromRequest(r, "files")
	if err != nil {
		s.writeErrorReq(w, r, http.StatusBadRequest, err)
		return
	}
	stored, err := s.files.Upload(r.Context(), principal.Username, uploads, s.now())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.log().Info("files uploaded", "count", len(stored), "by", principal.Username)
	s.writeJSON(w, http.StatusCreated, map[string]any{"files": stored})
}

func (s *Server) handleFileList(w http.ResponseWriter, r *http.Request) {
	page, pageSize, err := queryPage(r)
	if err != nil {
		s.writeErrorReq(w, r, http.StatusBadRequest, err)
		return
	}

	principal, _ := authPrincipalFromContext(r.Context())
	files, total, err := s.files.List(r.Context(), principal.Username, page, pageSize)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, pagedResponse{Items: files, Total: total, Page: page, PageSize: pageSize})
}

func (s *Server) handleFileSearch(w http.ResponseWriter, r *http.Request) {
	page, pageSize, err := queryPage(r)
	if err != nil {
		s.writeErrorReq(w, r, http.StatusBadRequest, err)
		return
	}

	principal, _ := authPrincipalFromContext(r.Context())
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	files, total, err := s.files.Search(r.Context(), query, principal.Username, page, pageSize)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, pagedResponse{Items: files, Total: total, Page: page, PageSize: pageSize})
}

func (s *Server) handleFileStats(w http.ResponseWriter, r *http.Request) {
	principal, _ := authPrincipalFromContext(r.Context())
	stats, err := s.files.Stats(r.Context(), principal.Username)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleFileInfo(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathIDOrBadRequest(w, r, "id")
	if !ok {
		return
	}

	file, err := s.files.Info(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, file)
}

func (s *Server) handleFileDownload(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathIDOrBadRequest(w, r, "id")
	if !ok {
		return
	}

	file, err := s.files.Download(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeDownload(w, file.ContentType, file.OriginalName, file.SizeBytes, file.Data)
}

func (s *Server) handleFileDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathIDOrBadRequest(w, r, "id")
	if !ok {
		return
	}

	principal, _ := authPrincipalFromContext(r.Context())
	if err := s.files.DeleteOwned(r.Context(), id, principal.Username); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{"deleted": true})
}

func (s *Server) handleResumeList(w http.ResponseWriter, r *http.Request) {
	page, pageSize, err := queryPage(r)
	if err != nil {
		s.writeErrorReq(w, r, http.StatusBadRequest, err)
		return
	}

	resumes, total, err := s.files.Resumes(r.Context(), page, pageSize)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, pagedResponse{Items: resumes, Total: total, Page: page, PageSize: pageSize})
}

func (s *Server) handleResumeDownload(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathIDOrBadRequest(w, r, "applicationId")
	if !ok {
		return
	}

	resume, err := s.applications.Resume(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeDownload(w, resume.ContentType, resume.OriginalName, resume.SizeBytes, resume.Data)
}
