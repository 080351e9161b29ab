package server

import (
	"net/http"

	"cstsite/internal/upload"
)

func (s *Server) handleContactSubmit(w http.ResponseWriter, r *http.Request) {
	var sub contactSubmission
	if !s.decodeJSONReq(w, r, &sub) {
		return
	}

	msg, err := s.contacts.Submit(r.Context(), sub)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.log().Info("contact message received", "id", msg.ID, "subject", msg.Subject)
	s.writeJSON(w, http.StatusCreated, msg)
}

func (s *Server) handleContactList(w http.ResponseWriter, r *http.Request) {
	page, pageSize, err := queryPage(r)
	if err != nil {
		s.writeErrorReq(w, r, http.StatusBadRequest, err)
		return
	}

	messages, total, err := s.contacts.List(r.Context(), r.URL.Query().Get("status"), page, pageSize)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, pagedResponse{Items: messages, Total: total, Page: page, PageSize: pageSize})
}

func (s *Server) handleContactUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathIDOrBadRequest(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if !s.decodeJSONReq(w, r, &req) {
		return
	}

	msg, err := s.contacts.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, msg)
}

func (s *Server) handleContactReply(w http.ResponseWriter, r *http.Request) {
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
	msg, err := s.contacts.Reply(r.Context(), id, r.FormValue("message"), attachments, principal.Username, s.now())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.log().Info("contact reply sent", "id", msg.ID, "by", principal.Username)
	s.writeJSON(w, http.StatusOK, msg)
}

func (s *Server) handleContactDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathIDOrBadRequest(w, r, "id")
	if !ok {
		return
	}

	if err := s.contacts.Delete(r.Context(), id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{"deleted": true})
}

func (s *Server) handleContactDeleteMany(w http.ResponseWriter, r *http.Request) {
	ids, ok := s.decodeIDsReq(w, r)
	if !ok {
		return
	}

	deleted, err := s.contacts.DeleteMany(r.Context(), ids)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{"deleted_count": deleted})
}
