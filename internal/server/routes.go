package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
)

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.withRequestLogging)

	r.Route("/api", func(r chi.Router) {
		r.Use(httprate.LimitByIP(s.rateLimitRequests, s.rateLimitWindow))

		// Public surface.
		r.Get("/health", s.handleHealth)
		r.Post("/contact/submit", s.handleContactSubmit)
		r.Post("/job-applications/submit", s.handleApplicationSubmit)
		r.Post("/auth/login", s.handleLogin)

		// Admin surface, bearer token required.
		r.Group(func(r chi.Router) {
			r.Use(s.requireAdmin)

			r.Get("/auth/me", s.handleAuthMe)
			r.Post("/auth/logout", s.handleLogout)

			r.Get("/contact/all", s.handleContactList)
			r.Patch("/contact/{id}/status", s.handleContactUpdateStatus)
			r.Post("/contact/{id}/reply", s.handleContactReply)
			r.Delete("/contact/{id}", s.handleContactDelete)
			r.Post("/contact/delete-multiple", s.handleContactDeleteMany)

			r.Get("/job-applications/all", s.handleApplicationList)
			r.Get("/job-applications/{id}", s.handleApplicationGet)
			r.Patch("/job-applications/{id}/status", s.handleApplicationUpdateStatus)
			r.Post("/job-applications/{id}/reply", s.handleApplicationReply)
			r.Delete("/job-applications/{id}", s.handleApplicationDelete)
			r.Post("/job-applications/delete-multiple", s.handleApplicationDeleteMany)

			r.Post("/files/upload", s.handleFileUpload)
			r.Post("/files/upload-multiple", s.handleFileUploadMultiple)
			r.Get("/files/my-files", s.handleFileList)
			r.Get("/files/search", s.handleFileSearch)
			r.Get("/files/stats/storage", s.handleFileStats)
			r.Get("/files/info/{id}", s.handleFileInfo)
			r.Get("/files/download/{id}", s.handleFileDownload)
			r.Delete("/files/{id}", s.handleFileDelete)
			r.Get("/files/resumes", s.handleResumeList)
			r.Get("/files/resume/{applicationId}", s.handleResumeDownload)

			// Back-office, super admin only.
			r.Route("/admin", func(r chi.Router) {
				r.Use(s.requireSuperAdmin)

				r.Get("/dashboard/stats", s.handleDashboardStats)
				r.Get("/contacts", s.handleAdminContactList)
				r.Get("/applications", s.handleAdminApplicationList)
				r.Get("/files", s.handleAdminFileList)
				r.Get("/files/stats", s.handleAdminFileStats)
				r.Get("/files/{id}/download", s.handleAdminFileDownload)
				r.Delete("/files/{id}", s.handleAdminFileDelete)
				r.Post("/files/bulk-delete", s.handleAdminFileBulkDelete)
			})
		})
	})

	return r
}
