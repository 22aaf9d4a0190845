// Package ingestion reduces uploaded resume files to plain text for the
// pipeline. It owns no pipeline semantics; extraction failures surface as
// input errors at the request boundary.
package ingestion

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractionError represents a failure to extract text from an uploaded file.
type ExtractionError struct {
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extraction error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("extraction error: %s", e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// ExtractText converts an uploaded resume file to plain text. PDF and plain
// text are supported; the content type is sniffed from the bytes.
func ExtractText(data []byte) (string, error) {
	if len(data) == 0 {
		return "", &ExtractionError{Message: "file is empty"}
	}

	contentType := http.DetectContentType(data)
	switch {
	case strings.HasPrefix(contentType, "application/pdf"):
		return extractPDFText(data)
	case strings.HasPrefix(contentType, "text/"):
		return string(data), nil
	default:
		return "", &ExtractionError{Message: fmt.Sprintf("unsupported file type: %s", contentType)}
	}
}

// extractPDFText concatenates the text content of every page.
func extractPDFText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractionError{Message: "failed to read PDF", Cause: err}
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page should not sink the whole resume.
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	result := strings.TrimSpace(sb.String())
	if result == "" {
		return "", &ExtractionError{Message: "PDF contains no extractable text"}
	}
	return result, nil
}
