package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"cstsite/internal/config"
	"cstsite/internal/mailer"
	"cstsite/internal/server"
	"cstsite/internal/store"
)

func newSrvCmd(cfg config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "srv",
		Short: "Run the cstsite API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.JWTSecret == "" {
				return fmt.Errorf("CSTSITE_JWT_SECRET is required")
			}

			logger := slog.Default().With("component", "server")

			logger.Info("opening database", "path", cfg.DBPath)
			st, err := store.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer st.Close()

			var sender mailer.Sender
			if cfg.MailConfigured() {
				sender = mailer.NewSMTPSender(cfg.SMTP)
			} else {
				logger.Warn("smtp not configured, notification emails will be dropped")
			}
			mail := mailer.New(sender, cfg.AdminEmail, cfg.SMTP.FromName, slog.Default().With("component", "mailer"))

			srv, err := server.New(cfg, st, mail, logger)
			if err != nil {
				return err
			}
			return srv.ListenAndServe()
		},
	}
}
