package intake

import (
	"fmt"
	"path/filepath"
	"strings"
)

// mimeTypes maps the accepted extensions to the MIME type sent upstream.
// Anything outside this set is rejected before any network call.
var mimeTypes = map[string]string{
	".txt": "text/plain",
	".pdf": "application/pdf",
}

// ValidationError reports an upload that failed extension or filename checks.
type ValidationError struct {
	Detail string
}

func (e *ValidationError) Error() string { return e.Detail }

// PayloadTooLargeError reports an upload exceeding the configured size limit.
type PayloadTooLargeError struct {
	Size  int64
	Limit int64
}

func (e *PayloadTooLargeError) Error() string {
	return fmt.Sprintf("file size %d exceeds maximum limit of %d bytes", e.Size, e.Limit)
}

// Validate checks the uploaded file's name and size against the accepted
// extensions and the configured maximum, and returns the inferred MIME type.
// The bytes themselves are never inspected or transformed; content
// interpretation is deferred entirely to the AI provider.
func Validate(filename string, size, maxSize int64) (string, error) {
	if filename == "" {
		return "", &ValidationError{Detail: "no filename provided"}
	}

	ext := strings.ToLower(filepath.Ext(filename))
	mimeType, ok := mimeTypes[ext]
	if !ok {
		return "", &ValidationError{
			Detail: fmt.Sprintf("invalid file type %q, allowed types: .txt, .pdf", ext),
		}
	}

	if size > maxSize {
		return "", &PayloadTooLargeError{Size: size, Limit: maxSize}
	}

	return mimeType, nil
}
