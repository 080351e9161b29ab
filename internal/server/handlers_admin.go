package server

import (
	"net/http"
	"time"

	"cstsite/internal/models"
	"cstsite/internal/store"
)

const (
	dashboardRecentCount = 5
	dashboardTrailing    = 30 * 24 * time.Hour
)

type dashboardStats struct {
	Contacts struct {
		Total  int64                   `json:"total"`
		New    int64                   `json:"new"`
		Recent []models.ContactMessage `json:"recent"`
		Daily  []store.DailyCount      `json:"daily"`
	} `json:"contacts"`
	Applications struct {
		Total   int64                   `json:"total"`
		Pending int64                   `json:"pending"`
		Recent  []models.JobApplication `json:"recent"`
		Daily   []store.DailyCount      `json:"daily"`
	} `json:"applications"`
}

func (s *Server) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	since := s.now().Add(-dashboardTrailing)

	var stats dashboardStats
	var err error

	if stats.Contacts.Total, err = s.store.CountContacts(ctx, ""); err != nil {
		s.writeErrorReq(w, r, http.StatusInternalServerError, storeFailure(err))
		return
	}
	if stats.Contacts.New, err = s.store.CountContacts(ctx, models.ContactStatusNew); err != nil {
		s.writeErrorReq(w, r, http.StatusInternalServerError, storeFailure(err))
		return
	}
	if stats.Contacts.Recent, err = s.store.RecentContacts(ctx, dashboardRecentCount); err != nil {
		s.writeErrorReq(w, r, http.StatusInternalServerError, storeFailure(err))
		return
	}
	if stats.Contacts.Daily, err = s.store.ContactDailyCounts(ctx, since); err != nil {
		s.writeErrorReq(w, r, http.StatusInternalServerError, storeFailure(err))
		return
	}

	if stats.Applications.Total, err = s.store.CountApplications(ctx, ""); err != nil {
		s.writeErrorReq(w, r, http.StatusInternalServerError, storeFailure(err))
		return
	}
	if stats.Applications.Pending, err = s.store.CountApplications(ctx, models.ApplicationStatusPending); err != nil {
		s.writeErrorReq(w, r, http.StatusInternalServerError, storeFailure(err))
		return
	}
	if stats.Applications.Recent, err = s.store.RecentApplications(ctx, dashboardRecentCount); err != nil {
		s.writeErrorReq(w, r, http.StatusInternalServerError, storeFailure(err))
		return
	}
	if stats.Applications.Daily, err = s.store.ApplicationDailyCounts(ctx, since); err != nil {
		s.writeErrorReq(w, r, http.StatusInternalServerError, storeFailure(err))
		return
	}

	for i := range stats.Contacts.Recent {
		stats.Contacts.Recent[i].Replies = models.StripReplyData(stats.Contacts.Recent[i].Replies)
	}
	for i := range stats.Applications.Recent {
		stripApplication(&stats.Applications.Recent[i])
	}

	s.writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleAdminContactList(w http.ResponseWriter, r *http.Request) {
	s.handleContactList(w, r)
}

func (s *Server) handleAdminApplicationList(w http.ResponseWriter, r *http.Request) {
	s.handleApplicationList(w, r)
}

// handleAdminFileList is the admin-wide listing: every owner's files.
func (s *Server) handleAdminFileList(w http.ResponseWriter, r *http.Request) {
	page, pageSize, err := queryPage(r)
	if err != nil {
		s.writeErrorReq(w, r, http.StatusBadRequest, err)
		return
	}

	files, total, err := s.files.List(r.Context(), "", page, pageSize)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, pagedResponse{Items: files, Total: total, Page: page, PageSize: pageSize})
}

func (s *Server) handleAdminFileStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.files.Stats(r.Context(), "")
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleAdminFileDownload(w http.ResponseWriter, r *http.Request) {
	s.handleFileDownload(w, r)
}

// handleAdminFileDelete removes any file regardless of who uploaded it.
func (s *Server) handleAdminFileDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathIDOrBadRequest(w, r, "id")
	if !ok {
		return
	}

	name, err := s.files.DeleteAny(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	principal, _ := authPrincipalFromContext(r.Context())
	s.log().Info("file force-deleted", "id", id, "name", name, "by", principal.Username)
	s.writeJSON(w, http.StatusOK, map[string]any{"deleted": true, "original_name": name})
}

func (s *Server) handleAdminFileBulkDelete(w http.ResponseWriter, r *http.Request) {
	ids, ok := s.decodeIDsReq(w, r)
	if !ok {
		return
	}

	deleted, err := s.files.BulkDelete(r.Context(), ids)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	principal, _ := authPrincipalFromContext(r.Context())
	s.log().Info("files bulk-deleted", "requested", len(ids), "deleted", deleted, "by", principal.Username)
	s.writeJSON(w, http.StatusOK, map[string]any{"deleted_count": deleted})
}
