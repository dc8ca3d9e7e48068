package intake

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateAcceptedExtensions(t *testing.T) {
	cases := []struct {
		filename string
		want     string
	}{
		{"meeting.txt", "text/plain"},
		{"meeting.pdf", "application/pdf"},
		{"MEETING.TXT", "text/plain"},
		{"weekly sync.PDF", "application/pdf"},
	}
	for _, tc := range cases {
		mime, err := Validate(tc.filename, 50, 1024)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.filename, err)
		}
		if mime != tc.want {
			t.Fatalf("%s: mime = %q, want %q", tc.filename, mime, tc.want)
		}
	}
}

func TestValidateRejectsUnknownExtension(t *testing.T) {
	for _, filename := range []string{"image.png", "notes.docx", "archive.tar.gz", "transcript"} {
		_, err := Validate(filename, 50, 1024)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("%s: expected ValidationError, got %v", filename, err)
		}
		if !strings.Contains(verr.Detail, "allowed types") {
			t.Fatalf("%s: detail %q should name the allowed types", filename, verr.Detail)
		}
	}
}

func TestValidateRejectsMissingFilename(t *testing.T) {
	_, err := Validate("", 50, 1024)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestValidateRejectsOversizedFile(t *testing.T) {
	_, err := Validate("meeting.pdf", 11*1024*1024, 10*1024*1024)
	var tooLarge *PayloadTooLargeError
	if !errors.As(err, &tooLarge) {
		t.Fatalf("expected PayloadTooLargeError, got %v", err)
	}
	if tooLarge.Limit != 10*1024*1024 {
		t.Fatalf("limit = %d, want %d", tooLarge.Limit, 10*1024*1024)
	}
}

func TestValidateSizeAtLimit(t *testing.T) {
	if _, err := Validate("meeting.txt", 1024, 1024); err != nil {
		t.Fatalf("file exactly at the limit should pass: %v", err)
	}
}

func TestExtensionCheckedBeforeSize(t *testing.T) {
	// A bad extension is the first failure reported even when the file is
	// also too large.
	_, err := Validate("image.png", 11*1024*1024, 10*1024*1024)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}
