package extract

import (
	"fmt"
	"strings"
	"time"
)

// Clock provides the current time. It exists so the parsed_at timestamp, the
// only impure input of a parse, can be fixed in tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Parser turns an invoice document into a structured Result. A Parser holds
// no per-document state and may be reused across calls.
type Parser struct {
	clock Clock
}

// NewParser creates a Parser using the system clock.
func NewParser() *Parser {
	return &Parser{clock: systemClock{}}
}

// NewParserWithClock creates a Parser with a custom clock for testing.
func NewParserWithClock(clock Clock) *Parser {
	return &Parser{clock: clock}
}

// ParseFile opens the document at path and parses it. The document handle is
// scoped to this call and released on every exit path. Opening or reading the
// document is the only failure this engine propagates; malformed content
// never fails a parse, it just contributes nothing to the result.
func (p *Parser) ParseFile(path string) (*Result, error) {
	src, err := OpenDocument(path)
	if err != nil {
		return nil, fmt.Errorf("opening document: %w", err)
	}
	defer src.Close()

	return p.Parse(src)
}

// Parse runs the extraction pipeline over an already-open document source.
func (p *Parser) Parse(src Source) (*Result, error) {
	pages, err := src.Pages()
	if err != nil {
		return nil, fmt.Errorf("reading document pages: %w", err)
	}

	result := &Result{
		LineItems: make([]LineItem, 0),
		ParsedAt:  p.clock.Now(),
	}

	// Pages are walked once: text accumulates into a single newline-joined
	// buffer for the line-oriented extractors, table rows are converted to
	// items as they are seen. Table items therefore precede text items in
	// the output, matching the page-by-page reading order.
	var fullText strings.Builder
	for _, page := range pages {
		if page.Text != "" {
			fullText.WriteString(page.Text)
			fullText.WriteString("\n")
		}
		result.LineItems = append(result.LineItems, extractTableItems(page.Tables)...)
	}

	text := fullText.String()
	extractHeader(text, result)
	result.LineItems = append(result.LineItems, extractTextItems(text)...)
	extractTotals(text, result)

	return result, nil
}
