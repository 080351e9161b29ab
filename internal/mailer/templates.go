package mailer

import (
	"bytes"
	"html/template"

	"cstsite/internal/models"
)

type notificationRow struct {
	Label string
	Value string
}

type notificationData struct {
	Title    string
	Intro    string
	Rows     []notificationRow
	FromName string
}

type replyData struct {
	RecipientName   string
	ReplyMessage    string
	OriginalSubject string
	OriginalMessage string
	FromName        string
}

type statusData struct {
	FullName string
	Position string
	Line     string
	FromName string
}

var notificationTmpl = template.Must(template.New("notification").Parse(`<!DOCTYPE html>
<html><body style="font-family:Arial,sans-serif;color:#333;max-width:600px;margin:0 auto;">
<h2 style="color:#1a5276;">{{.Title}}</h2>
<p>{{.Intro}}</p>
<table style="border-collapse:collapse;width:100%;">
{{range .Rows}}{{if .Value}}<tr>
<td style="padding:6px 12px;border:1px solid #ddd;font-weight:bold;width:30%;">{{.Label}}</td>
<td style="padding:6px 12px;border:1px solid #ddd;">{{.Value}}</td>
</tr>{{end}}{{end}}
</table>
<p style="color:#888;font-size:12px;margin-top:24px;">{{.FromName}}</p>
</body></html>`))

var replyTmpl = template.Must(template.New("reply").Parse(`<!DOCTYPE html>
<html><body style="font-family:Arial,sans-serif;color:#333;max-width:600px;margin:0 auto;">
<p>Hi {{.RecipientName}},</p>
<div style="padding:12px;background:#f4f6f7;border-radius:4px;white-space:pre-wrap;">{{.ReplyMessage}}</div>
<hr style="border:none;border-top:1px solid #ddd;margin:24px 0;">
<p style="color:#888;font-size:13px;">In reply to {{.OriginalSubject}}:</p>
<blockquote style="color:#888;font-size:13px;border-left:3px solid #ddd;margin:0;padding-left:12px;white-space:pre-wrap;">{{.OriginalMessage}}</blockquote>
<p style="color:#888;font-size:12px;margin-top:24px;">{{.FromName}}</p>
</body></html>`))

var statusTmpl = template.Must(template.New("status").Parse(`<!DOCTYPE html>
<html><body style="font-family:Arial,sans-serif;color:#333;max-width:600px;margin:0 auto;">
<p>Hi {{.FullName}},</p>
<p>{{.Line}}</p>
<p>Position: <strong>{{.Position}}</strong></p>
<p style="color:#888;font-size:12px;margin-top:24px;">{{.FromName}}</p>
</body></html>`))

var statusLines = map[models.ApplicationStatus]string{
	models.ApplicationStatusReviewing:   "Your application is now being reviewed by our team.",
	models.ApplicationStatusShortlisted: "Good news: you have been shortlisted. We will reach out to schedule the next step.",
	models.ApplicationStatusRejected:    "After careful consideration we decided not to move forward with your application. Thank you for your interest.",
	models.ApplicationStatusHired:       "Congratulations, we would like to offer you the position. We will contact you with the details.",
}

func statusLine(status models.ApplicationStatus) string {
	if line, ok := statusLines[status]; ok {
		return line
	}
	return "The status of your application has been updated to " + string(status) + "."
}

func renderNotification(title string, data notificationData) ([]byte, error) {
	data.Title = title
	return render(notificationTmpl, data)
}

func renderReply(data replyData) ([]byte, error) {
	return render(replyTmpl, data)
}

func renderStatusUpdate(data statusData) ([]byte, error) {
	return render(statusTmpl, data)
}

func render(tmpl *template.Template, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
