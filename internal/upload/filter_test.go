package upload

import (
	"strings"
	"testing"
)

func TestCheckOneAcceptsAllowedFileUnderLimit(t *testing.T) {
	rej := StoredFilePolicy().CheckOne(Candidate{
		OriginalName: "notes.txt",
		ContentType:  "text/plain",
		SizeBytes:    1024,
	})
	if rej != nil {
		t.Fatalf("expected accept, got rejection: %+v", rej)
	}
}

func TestCheckOneRejectsDisallowedType(t *testing.T) {
	rej := StoredFilePolicy().CheckOne(Candidate{
		OriginalName: "run.exe",
		ContentType:  "application/x-msdownload",
		SizeBytes:    100,
	})
	if rej == nil {
		t.Fatal("expected rejection")
	}
	if rej.Reason != ReasonTypeNotAllowed {
		t.Fatalf("expected type-not-allowed, got %s", rej.Reason)
	}
}

func TestPDFCappedEvenUnderHigherGeneralCeiling(t *testing.T) {
	// 250 KiB PDF in a reply flow whose general ceiling is 10 MiB.
	rej := ReplyPolicy().CheckOne(Candidate{
		OriginalName: "quote.pdf",
		ContentType:  "application/pdf",
		SizeBytes:    250 * 1024,
	})
	if rej == nil {
		t.Fatal("expected rejection")
	}
	if rej.Reason != ReasonSizeExceeded {
		t.Fatalf("expected size-exceeded, got %s", rej.Reason)
	}
	if rej.LimitBytes != PDFMaxBytes {
		t.Fatalf("expected PDF limit %d, got %d", PDFMaxBytes, rej.LimitBytes)
	}
	if rej.SizeBytes != 250*1024 {
		t.Fatalf("expected actual size reported, got %d", rej.SizeBytes)
	}
	if !strings.Contains(rej.Message, "quote.pdf") {
		t.Fatalf("expected message to name the file: %q", rej.Message)
	}
	if !strings.Contains(rej.Message, "250 KiB") || !strings.Contains(rej.Message, "200 KiB") {
		t.Fatalf("expected message to report sizes in KiB: %q", rej.Message)
	}
}

func TestNonPDFUsesGeneralCeilingInReplyFlow(t *testing.T) {
	rej := ReplyPolicy().CheckOne(Candidate{
		OriginalName: "photo.png",
		ContentType:  "image/png",
		SizeBytes:    5 * 1024 * 1024,
	})
	if rej != nil {
		t.Fatalf("expected 5 MiB png to pass the 10 MiB reply ceiling, got %+v", rej)
	}
}

func TestStoredFileSizeExceeded(t *testing.T) {
	rej := StoredFilePolicy().CheckOne(Candidate{
		OriginalName: "big.png",
		ContentType:  "image/png",
		SizeBytes:    MaxFileBytes + 1,
	})
	if rej == nil || rej.Reason != ReasonSizeExceeded {
		t.Fatalf("expected size-exceeded, got %+v", rej)
	}
	if rej.LimitBytes != MaxFileBytes {
		t.Fatalf("expected limit %d, got %d", MaxFileBytes, rej.LimitBytes)
	}
}

func TestCheckReportsAllOffenders(t *testing.T) {
	candidates := []Candidate{
		{OriginalName: "a.txt", ContentType: "text/plain", SizeBytes: 10},
		{OriginalName: "b.exe", ContentType: "application/octet-stream", SizeBytes: 10},
		{OriginalName: "c.pdf", ContentType: "application/pdf", SizeBytes: 300 * 1024},
		{OriginalName: "d.txt", ContentType: "text/plain", SizeBytes: 10},
		{OriginalName: "e.txt", ContentType: "text/plain", SizeBytes: 10},
		{OriginalName: "f.txt", ContentType: "text/plain", SizeBytes: 10},
		{OriginalName: "g.exe", ContentType: "application/octet-stream", SizeBytes: 10},
	}

	rejections := ReplyPolicy().Check(candidates)
	if len(rejections) != 4 {
		t.Fatalf("expected 4 rejections, got %d: %+v", len(rejections), rejections)
	}

	byName := map[string]RejectReason{}
	for _, rej := range rejections {
		byName[rej.OriginalName] = rej.Reason
	}
	if byName["b.exe"] != ReasonTypeNotAllowed {
		t.Fatalf("b.exe: expected type-not-allowed, got %s", byName["b.exe"])
	}
	if byName["c.pdf"] != ReasonSizeExceeded {
		t.Fatalf("c.pdf: expected size-exceeded, got %s", byName["c.pdf"])
	}
	if byName["f.txt"] != ReasonTooManyFiles {
		t.Fatalf("f.txt: expected too-many-files, got %s", byName["f.txt"])
	}
	if byName["g.exe"] != ReasonTooManyFiles {
		t.Fatalf("g.exe: expected too-many-files, got %s", byName["g.exe"])
	}
}

func TestContentTypeNormalization(t *testing.T) {
	if !IsAllowedContentType("Text/Plain; charset=utf-8") {
		t.Fatal("expected parameters and case to be ignored")
	}
	if !IsPDF("APPLICATION/PDF") {
		t.Fatal("expected case-insensitive PDF detection")
	}
	if IsPDF("application/pdfx") {
		t.Fatal("expected pdfx to not match")
	}
}
