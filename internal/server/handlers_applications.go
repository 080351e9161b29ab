package server

import (
	"net/http"

	"cstsite/internal/upload"
)

func (s *Server) handleApplicationSubmit(w http.ResponseWriter, r *http.Request) {
	if err := parseMultipart(w, r); err != nil {
		s.writeErrorReq(w, r, http.StatusBadRequest, err)
		return
	}

	sub := applicationSubmission{
		FullName:    r.FormValue("full_name"),
		Email:       r.FormValue("email"),
		Phone:       r.FormValue("phone"),
		Position:    r.FormValue("position"),
		Experience:  r.FormValue("experience"),
		CoverLetter: r.FormValue("cover_letter"),
	}

	resume, err := multipartResume(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	app, warning, err := s.applications.Submit(r.Context(), sub, resume)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.log().Info("application received", "id", app.ID, "position", app.Position, "has_resume", app.HasResume())

	stripApplication(app)
	resp := map[string]any{"application": app}
	if warning != "" {
		resp["warning"] = warning
	}
	s.writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleApplicationList(w http.ResponseWriter, r *http.Request) {
	page, pageSize, err := queryPage(r)
	if err != nil {
		s.writeErrorReq(w, r, http.StatusBadRequest, err)
		return
	}

	query := r.URL.Query()
	apps, total, err := s.applications.List(r.Context(), query.Get("status"), query.Get("position"), page, pageSize)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, pagedResponse{Items: apps, Total: total, Page: page, PageSize: pageSize})
}

func (s *Server) handleApplicationGet(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathIDOrBadRequest(w, r, "id")
	if !ok {
		return
	}

	app, err := s.applications.Get(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, app)
}

func (s *Server) handleApplicationUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathIDOrBadRequest(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		Status string  `json:"status"`
		Notes  *string `json:"notes"`
	}
	if !s.decodeJSONReq(w, r, &req) {
		return
	}

	app, err := s.applications.UpdateStatus(r.Context(), id, req.Status, req.Notes, s.now())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, app)
}

func (s *Server) handleApplicationReply(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathIDOrBadRequest(w, r, "id")
	if !ok {
		return
	}
	if err := parseMultipart(w, r); err != nil {
		s.writeErrorReq(w, r, http.StatusBadRequest, err)
		return
	}

	attachments, err := multipartAttachments(r, "attachments", upload.ReplyPolicy())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	principal, _ := authPrincipalFromContext(r.Context())
	app, err := s.applications.Reply(r.Context(), id,
		r.FormValue("message"), attachments, r.FormValue("status"), principal.Username, s.now())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.log().Info("application reply sent", "id", app.ID, "by", principal.Username)
	s.writeJSON(w, http.StatusOK, app)
}

func (s *Server) handleApplicationDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathIDOrBadRequest(w, r, "id")
	if !ok {
		return
	}

	if err := s.applications.Delete(r.Context(), id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{"deleted": true})
}

func (s *Server) handleApplicationDeleteMany(w http.ResponseWriter, r *http.Request) {
	ids, ok := s.decodeIDsReq(w, r)
	if !ok {
		return
	}

	deleted, err := s.applications.DeleteMany(r.Context(), ids)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{"deleted_count": deleted})
}
