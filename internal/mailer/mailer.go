// Package mailer renders and delivers transactional email. Delivery is
// best-effort: callers fire a notification and move on, the outcome is
// only logged.
package mailer

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/smtp"
	"time"

	"github.com/jordan-wright/email"

	"cstsite/internal/config"
	"cstsite/internal/models"
)

// Message is one outbound email, already rendered.
type Message struct {
	To          []string
	Subject     string
	HTML        []byte
	Attachments []models.Attachment
}

// Sender delivers a single message. Implementations must be safe for
// concurrent use.
type Sender interface {
	Send(msg *Message) error
}

// SMTPSender delivers mail over SMTP with optional plain auth.
type SMTPSender struct {
	cfg     config.SMTPConfig
	timeout time.Duration
}

func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg, timeout: config.DefaultMailSendTimeout}
}

func (s *SMTPSender) Send(msg *Message) error {
	e := email.NewEmail()
	e.From = fmt.Sprintf("%s <%s>", s.cfg.FromName, s.cfg.FromAddress)
	e.To = msg.To
	e.Subject = msg.Subject
	e.HTML = msg.HTML
	for _, att := range msg.Attachments {
		if _, err := e.Attach(bytes.NewReader(att.Data), att.OriginalName, att.ContentType); err != nil {
			return fmt.Errorf("attach %s: %w", att.OriginalName, err)
		}
	}

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	done := make(chan error, 1)
	go func() { done <- e.Send(addr, auth) }()
	select {
	case err := <-done:
		return err
	case <-time.After(s.timeout):
		return fmt.Errorf("smtp send to %s timed out after %s", addr, s.timeout)
	}
}

// Mailer renders templates and dispatches messages without blocking the
// caller. A nil Mailer, or one built without a sender, drops everything.
type Mailer struct {
	sender     Sender
	adminEmail string
	fromName   string
	log        *slog.Logger
}

// New builds a mailer. sender may be nil when mail is not configured, in
// which case every notification is logged and dropped.
func New(sender Sender, adminEmail, fromName string, log *slog.Logger) *Mailer {
	if log == nil {
		log = slog.Default()
	}
	if fromName == "" {
		fromName = config.DefaultFromName
	}
	return &Mailer{sender: sender, adminEmail: adminEmail, fromName: fromName, log: log}
}

func (m *Mailer) enabled() bool {
	return m != nil && m.sender != nil
}

// dispatch sends in the background and logs the outcome.
func (m *Mailer) dispatch(kind string, msg *Message, err error) {
	if err != nil {
		m.log.Error("email render failed", "kind", kind, "error", err)
		return
	}
	if !m.enabled() {
		m.log.Debug("email dropped, mail not configured", "kind", kind, "to", msg.To)
		return
	}
	go func() {
		if err := m.sender.Send(msg); err != nil {
			m.log.Error("email send failed", "kind", kind, "to", msg.To, "error", err)
			return
		}
		m.log.Info("email sent", "kind", kind, "to", msg.To, "subject", msg.Subject)
	}()
}

// ContactReceived notifies the operator about a new contact message and
// acknowledges the submitter.
func (m *Mailer) ContactReceived(msg *models.ContactMessage) {
	if m == nil {
		return
	}
	if m.adminEmail != "" {
		rendered, err := renderNotification("New Contact Message", notificationData{
			Intro: fmt.Sprintf("%s sent a new message through the contact form.", msg.Name),
			Rows: []notificationRow{
				{"Name", msg.Name},
				{"Email", msg.Email},
				{"Phone", msg.Phone},
				{"Subject", msg.Subject},
				{"Message", msg.Message},
			},
			FromName: m.fromName,
		})
		m.dispatch("contact-notification", &Message{
			To:      []string{m.adminEmail},
			Subject: "New contact message: " + msg.Subject,
			HTML:    rendered,
		}, err)
	}

	rendered, err := renderNotification("We Received Your Message", notificationData{
		Intro: fmt.Sprintf("Hi %s, thanks for reaching out. We received your message and will get back to you shortly.", msg.Name),
		Rows: []notificationRow{
			{"Subject", msg.Subject},
			{"Message", msg.Message},
		},
		FromName: m.fromName,
	})
	m.dispatch("contact-ack", &Message{
		To:      []string{msg.Email},
		Subject: "We received your message",
		HTML:    rendered,
	}, err)
}

// ApplicationReceived notifies the operator about a new job application and
// acknowledges the applicant.
func (m *Mailer) ApplicationReceived(app *models.JobApplication) {
	if m == nil {
		return
	}
	if m.adminEmail != "" {
		resume := "none"
		if app.HasResume() {
			resume = app.Resume.OriginalName
		}
		rendered, err := renderNotification("New Job Application", notificationData{
			Intro: fmt.Sprintf("%s applied for the %s position.", app.FullName, app.Position),
			Rows: []notificationRow{
				{"Name", app.FullName},
				{"Email", app.Email},
				{"Phone", app.Phone},
				{"Position", app.Position},
				{"Experience", app.Experience},
				{"Resume", resume},
			},
			FromName: m.fromName,
		})
		m.dispatch("application-notification", &Message{
			To:      []string{m.adminEmail},
			Subject: "New application: " + app.Position,
			HTML:    rendered,
		}, err)
	}

	rendered, err := renderNotification("Application Received", notificationData{
		Intro: fmt.Sprintf("Hi %s, we received your application for the %s position and will review it soon.", app.FullName, app.Position),
		Rows: []notificationRow{
			{"Position", app.Position},
		},
		FromName: m.fromName,
	})
	m.dispatch("application-ack", &Message{
		To:      []string{app.Email},
		Subject: "Application received: " + app.Position,
		HTML:    rendered,
	}, err)
}

// ContactReply sends an admin reply to the submitter, quoting the original
// message so the thread reads top to bottom.
func (m *Mailer) ContactReply(msg *models.ContactMessage, reply models.Reply) {
	if m == nil {
		return
	}
	rendered, err := renderReply(replyData{
		RecipientName:   msg.Name,
		ReplyMessage:    reply.Message,
		OriginalSubject: msg.Subject,
		OriginalMessage: msg.Message,
		FromName:        m.fromName,
	})
	m.dispatch("contact-reply", &Message{
		To:          []string{msg.Email},
		Subject:     "Re: " + msg.Subject,
		HTML:        rendered,
		Attachments: reply.Attachments,
	}, err)
}

// ApplicationReply sends an admin reply to the applicant.
func (m *Mailer) ApplicationReply(app *models.JobApplication, reply models.Reply) {
	if m == nil {
		return
	}
	rendered, err := renderReply(replyData{
		RecipientName:   app.FullName,
		ReplyMessage:    reply.Message,
		OriginalSubject: "your application for " + app.Position,
		OriginalMessage: app.Experience,
		FromName:        m.fromName,
	})
	m.dispatch("application-reply", &Message{
		To:          []string{app.Email},
		Subject:     "Re: your application for " + app.Position,
		HTML:        rendered,
		Attachments: reply.Attachments,
	}, err)
}

// ApplicationStatusChanged tells the applicant about a status transition.
func (m *Mailer) ApplicationStatusChanged(app *models.JobApplication) {
	if m == nil {
		return
	}
	rendered, err := renderStatusUpdate(statusData{
		FullName: app.FullName,
		Position: app.Position,
		Line:     statusLine(app.Status),
		FromName: m.fromName,
	})
	m.dispatch("application-status", &Message{
		To:      []string{app.Email},
		Subject: "Update on your application for " + app.Position,
		HTML:    rendered,
	}, err)
}
