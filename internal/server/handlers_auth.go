package server

import (
	"net"
	"net/http"
)

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !s.decodeJSONReq(w, r, &req) {
		return
	}

	result, err := s.auth.Login(r.Context(), req.Username, req.Password, clientKey(r), s.now())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.log().Info("admin logged in", "username", result.Admin.Username)
	s.writeJSON(w, http.StatusOK, map[string]any{
		"token":      result.Token,
		"expires_at": result.ExpiresAt,
		"admin":      result.Admin,
	})
}

func (s *Server) handleAuthMe(w http.ResponseWriter, r *http.Request) {
	principal, ok := authPrincipalFromContext(r.Context())
	if !ok {
		s.writeErrorReq(w, r, http.StatusUnauthorized, unauthorized(nil))
		return
	}

	// In degraded mode the store is unavailable, so answer from the claims.
	if principal.Degraded {
		s.writeJSON(w, http.StatusOK, map[string]any{
			"id":       principal.AdminID,
			"username": principal.Username,
			"role":     principal.Role,
		})
		return
	}

	admin, err := s.store.GetAdminByID(r.Context(), principal.AdminID)
	if err != nil {
		s.writeErrorReq(w, r, http.StatusInternalServerError, storeFailure(err))
		return
	}
	if admin == nil {
		s.writeErrorReq(w, r, http.StatusUnauthorized, unauthorized(nil))
		return
	}
	s.writeJSON(w, http.StatusOK, admin)
}

// handleLogout is a formality with stateless bearer tokens: the client
// discards the token, the server just acknowledges.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	principal, _ := authPrincipalFromContext(r.Context())
	s.log().Info("admin logged out", "username", principal.Username)
	s.writeJSON(w, http.StatusOK, map[string]any{"logged_out": true})
}
