package sanitizer

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"prokura/internal/domain"
)

// Config holds the sanitizer's bounds. MaxChars conservatively
// approximates the completion model's context budget in characters.
type Config struct {
	MaxChars int
	MaxPages int
}

// PageTextFunc extracts per-page plain text from a PDF byte stream.
// Injectable so tests do not need real PDF fixtures.
type PageTextFunc func(data []byte, maxPages int) ([]string, error)

// Sanitizer turns an uploaded document into bounded clean text.
type Sanitizer struct {
	cfg      Config
	pageText PageTextFunc
}

// New creates a Sanitizer using the default PDF text decoder.
func New(cfg Config) *Sanitizer {
	return NewWithPageText(cfg, pdfPageText)
}

// NewWithPageText creates a Sanitizer with a custom page-text function (for testing).
func NewWithPageText(cfg Config, pageText PageTextFunc) *Sanitizer {
	if cfg.MaxChars <= 0 {
		cfg.MaxChars = 12000
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 3
	}
	return &Sanitizer{cfg: cfg, pageText: pageText}
}

// Sanitize extracts and normalizes text from a raw document. A document
// that is not a PDF, cannot be decoded, or carries no text layer fails
// with domain.ErrUnreadableDocument. The error is terminal; callers must
// not retry it.
func (s *Sanitizer) Sanitize(doc domain.RawDocument) (string, error) {
	if doc.MediaType != domain.MediaTypePDF {
		return "", fmt.Errorf("%w: unsupported media type %q", domain.ErrUnreadableDocument, doc.MediaType)
	}
	if len(doc.Bytes) == 0 {
		return "", fmt.Errorf("%w: empty upload", domain.ErrUnreadableDocument)
	}

	pages, err := s.pageText(doc.Bytes, s.cfg.MaxPages)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUnreadableDocument, err)
	}

	var parts []string
	for _, page := range pages {
		clean := scrub(page)
		if clean != "" {
			parts = append(parts, clean)
		}
	}
	text := strings.Join(parts, "\n\f\n")
	if text == "" {
		// Scanned-image PDFs with no OCR layer land here.
		return "", fmt.Errorf("%w: no text layer", domain.ErrUnreadableDocument)
	}
	return truncateAtWhitespace(text, s.cfg.MaxChars), nil
}

// scrub drops control and other non-printable artifacts, keeping tabs and
// newlines, and collapses runs of blank lines.
func scrub(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r == '\n' || r == '\t':
			b.WriteRune(r)
		case r == '\r':
			// dropped; \r\n collapses to \n
		case unicode.IsControl(r) || r == unicode.ReplacementChar:
			// binary artifact, dropped
		default:
			b.WriteRune(r)
		}
	}
	lines := strings.Split(b.String(), "\n")
	var kept []string
	for _, line := range lines {
		if trimmed := strings.TrimRight(line, " \t"); trimmed != "" {
			kept = append(kept, trimmed)
		}
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

// truncateAtWhitespace cuts text to at most max bytes, never mid-word
// and never mid-rune. The head of the document is preserved since
// vendor header information leads.
func truncateAtWhitespace(text string, max int) string {
	if len(text) <= max {
		return text
	}
	// Back up to a rune boundary so a whitespace-free head cannot leave
	// a split multi-byte rune at the cut.
	for max > 0 && !utf8.RuneStart(text[max]) {
		max--
	}
	cut := text[:max]
	if idx := strings.LastIndexFunc(cut, unicode.IsSpace); idx > 0 {
		cut = cut[:idx]
	}
	return strings.TrimRight(cut, " \t\n\f")
}

// pdfPageText decodes up to maxPages of text from a PDF byte stream.
func pdfPageText(data []byte, maxPages int) ([]string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening pdf: %w", err)
	}
	total := reader.NumPage()
	if total > maxPages {
		total = maxPages
	}
	var pages []string
	for i := 1; i <= total; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single undecodable page should not sink the document.
			continue
		}
		pages = append(pages, text)
	}
	return pages, nil
}
