package mailer

import (
	"strings"
	"testing"

	"cstsite/internal/models"
)

func TestRenderNotificationSkipsEmptyRows(t *testing.T) {
	out, err := renderNotification("New Contact Message", notificationData{
		Intro: "Jane sent a new message.",
		Rows: []notificationRow{
			{"Name", "Jane"},
			{"Phone", ""},
			{"Subject", "Pricing"},
		},
		FromName: "CST",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)
	if !strings.Contains(html, "Jane sent a new message.") {
		t.Fatal("expected intro in output")
	}
	if !strings.Contains(html, "Pricing") {
		t.Fatal("expected subject row in output")
	}
	if strings.Contains(html, "Phone") {
		t.Fatal("expected empty phone row to be skipped")
	}
}

func TestRenderNotificationEscapesHTML(t *testing.T) {
	out, err := renderNotification("New Contact Message", notificationData{
		Intro:    "intro",
		Rows:     []notificationRow{{"Message", "<script>alert(1)</script>"}},
		FromName: "CST",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(string(out), "<script>") {
		t.Fatal("expected user content to be escaped")
	}
}

func TestRenderReplyQuotesOriginal(t *testing.T) {
	out, err := renderReply(replyData{
		RecipientName:   "Jane",
		ReplyMessage:    "Here is the quote you asked for.",
		OriginalSubject: "Pricing question",
		OriginalMessage: "Please send pricing.",
		FromName:        "CST",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)
	for _, want := range []string{"Hi Jane", "Here is the quote you asked for.", "Pricing question", "Please send pricing."} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %q in reply email", want)
		}
	}
}

func TestStatusLine(t *testing.T) {
	if got := statusLine(models.ApplicationStatusShortlisted); !strings.Contains(got, "shortlisted") {
		t.Fatalf("unexpected shortlisted line: %q", got)
	}
	if got := statusLine(models.ApplicationStatusPending); !strings.Contains(got, "pending") {
		t.Fatalf("expected fallback to name the status, got %q", got)
	}
}

func TestMailerDropsWhenUnconfigured(t *testing.T) {
	m := New(nil, "", "CST", nil)
	// Must not panic or block with no sender wired.
	m.ContactReceived(&models.ContactMessage{Name: "Jane", Email: "jane@x.com", Subject: "Hi", Message: "Hello"})
	m.ApplicationStatusChanged(&models.JobApplication{FullName: "Ada", Email: "ada@x.com", Position: "backend", Status: models.ApplicationStatusHired})
}
