package extract

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/ledongthuc/pdf"
)

const (
	// minTableColumns is the narrowest row shape the services table can have.
	minTableColumns = 5
	// cellGapPoints is the horizontal whitespace, in PDF points, that
	// separates two table cells on the same row.
	cellGapPoints = 12.0
)

// FitzSource reads a PDF from disk and implements Source. Page text comes
// from go-fitz, which yields clean reading-order text but no cell geometry;
// table rows are reconstructed separately from the positioned words that
// ledongthuc/pdf exposes.
type FitzSource struct {
	path string
	doc  *fitz.Document
}

// OpenDocument opens the PDF at path for a single parse call.
func OpenDocument(path string) (*FitzSource, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("opening pdf: %w", err)
	}
	return &FitzSource{path: path, doc: doc}, nil
}

// Pages extracts text and tables for every page of the document.
func (s *FitzSource) Pages() ([]Page, error) {
	pages := make([]Page, 0, s.doc.NumPage())
	for i := 0; i < s.doc.NumPage(); i++ {
		text, err := s.doc.Text(i)
		if err != nil {
			return nil, fmt.Errorf("extracting text from page %d: %w", i+1, err)
		}
		pages = append(pages, Page{Text: text})
	}

	// The positioned-text pass is best effort: a document that renders text
	// fine but trips up the second reader still parses, just without tables.
	tables, err := s.pageTables(len(pages))
	if err != nil {
		slog.Warn("Table recovery unavailable for document", "path", s.path, "error", err)
		return pages, nil
	}
	for i := range pages {
		if i < len(tables) {
			pages[i].Tables = tables[i]
		}
	}
	return pages, nil
}

// Close releases the underlying document handle.
func (s *FitzSource) Close() error {
	return s.doc.Close()
}

// pageTables rebuilds table rows, page by page, from word positions: words on
// one visual row are split into cells wherever the horizontal gap to the
// previous word exceeds cellGapPoints, and consecutive rows with enough cells
// are grouped into one table.
func (s *FitzSource) pageTables(pageCount int) ([][][][]string, error) {
	f, reader, err := pdf.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("opening pdf for positioned text: %w", err)
	}
	defer f.Close()

	tables := make([][][][]string, pageCount)
	for i := 1; i <= reader.NumPage() && i <= pageCount; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			return nil, fmt.Errorf("reading rows of page %d: %w", i, err)
		}
		tables[i-1] = groupTables(rows)
	}
	return tables, nil
}

// groupTables converts positioned rows into tables of cell strings. A run of
// consecutive rows that each split into minTableColumns or more cells forms
// one table; anything narrower breaks the run.
func groupTables(rows pdf.Rows) [][][]string {
	var (
		tables  [][][]string
		current [][]string
	)
	flush := func() {
		if len(current) > 0 {
			tables = append(tables, current)
			current = nil
		}
	}

	for _, row := range rows {
		cells := splitCells(row.Content)
		if len(cells) >= minTableColumns {
			current = append(current, cells)
		} else {
			flush()
		}
	}
	flush()
	return tables
}

// splitCells groups the words of one visual row into cells by horizontal gap.
func splitCells(words pdf.TextHorizontal) []string {
	var (
		cells   []string
		cell    strings.Builder
		prevEnd float64
	)
	for i, w := range words {
		if i > 0 && w.X-prevEnd > cellGapPoints {
			cells = append(cells, strings.TrimSpace(cell.String()))
			cell.Reset()
		}
		if cell.Len() > 0 {
			cell.WriteString(" ")
		}
		cell.WriteString(w.S)
		prevEnd = w.X + w.W
	}
	if cell.Len() > 0 {
		cells = append(cells, strings.TrimSpace(cell.String()))
	}
	return cells
}
