package invoice

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"invoice-parser/internal/extract"
)

// ErrUnsupportedFile is returned when an upload is not a PDF.
var ErrUnsupportedFile = errors.New("invalid file type, only PDF files are allowed")

// DocumentParser turns a document on disk into a structured invoice record.
type DocumentParser interface {
	ParseFile(path string) (*extract.Result, error)
}

// IDGenerator generates unique IDs for uploads
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

// defaultIDGenerator generates IDs using UnixNano timestamp
type defaultIDGenerator struct{}

func (g *defaultIDGenerator) Generate() string {
	return fmt.Sprintf("%d", time.Now().UnixNano())
}

// defaultTimeSource provides the current time
type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Service handles invoice parsing operations
type Service struct {
	parser      DocumentParser
	journal     Journal
	spool       Storage
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a new Service with default ID generator and time source
func NewService(parser DocumentParser, journal Journal, spool Storage) *Service {
	return &Service{
		parser:      parser,
		journal:     journal,
		spool:       spool,
		idGenerator: &defaultIDGenerator{},
		timeSource:  &defaultTimeSource{},
	}
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(parser DocumentParser, journal Journal, spool Storage, idGen IDGenerator, timeSrc TimeSource) *Service {
	return &Service{
		parser:      parser,
		journal:     journal,
		spool:       spool,
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

// sanitizeFilename cleans up a filename by removing special characters and truncating length
func sanitizeFilename(filename string) string {
	// Get the extension
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)

	// Remove special characters, keep only alphanumeric, spaces, hyphens, and underscores
	reg := regexp.MustCompile(`[^a-zA-Z0-9\s\-_]`)
	base = reg.ReplaceAllString(base, "")

	// Replace multiple spaces with single space
	reg = regexp.MustCompile(`\s+`)
	base = reg.ReplaceAllString(base, " ")

	// Trim spaces
	base = strings.TrimSpace(base)

	// Truncate to reasonable length (50 chars for base, plus extension)
	maxLen := 50
	if len(base) > maxLen {
		base = base[:maxLen]
	}

	// If base is empty after sanitization, use a default
	if base == "" {
		base = "invoice"
	}

	return base + ext
}

// ParseUpload spools an uploaded PDF to disk, runs the extraction engine over
// it and records the outcome in the journal. The spool file is removed on
// every path, success or failure.
func (s *Service) ParseUpload(filename string, data []byte) (*extract.Result, error) {
	if strings.ToLower(filepath.Ext(filename)) != ".pdf" {
		return nil, ErrUnsupportedFile
	}

	id := s.idGenerator.Generate()

	// Sanitize filename before it becomes part of a filesystem path
	cleanFilename := sanitizeFilename(filename)

	path, err := s.spool.Save(fmt.Sprintf("%s_%s", id, cleanFilename), data)
	if err != nil {
		return nil, fmt.Errorf("spooling upload: %w", err)
	}
	defer func() {
		if err := s.spool.Delete(path); err != nil {
			slog.Warn("Failed to delete spool file", "path", path, "error", err)
		}
	}()

	result, err := s.parser.ParseFile(path)

	record := &ParseRecord{
		ID:            id,
		Filename:      filename,
		FileSizeBytes: int64(len(data)),
		CreatedAt:     s.timeSource.Now(),
	}
	if err != nil {
		record.Status = StatusError
		record.Error = err.Error()
	} else {
		record.Status = StatusSuccess
		record.InvoiceNumber = result.InvoiceInfo.Number
		record.LineItemCount = len(result.LineItems)
	}
	if jerr := s.journal.Record(record); jerr != nil {
		// The journal is bookkeeping, not the product: a failed write must
		// not fail an otherwise good parse.
		slog.Warn("Failed to record parse in journal", "id", id, "error", jerr)
	}

	if err != nil {
		slog.Error("Failed to parse invoice",
			"filename", filename,
			"file_size", len(data),
			"error", err,
		)
		return nil, fmt.Errorf("parsing invoice: %w", err)
	}

	return result, nil
}

// History returns all recorded parse attempts
func (s *Service) History() ([]*ParseRecord, error) {
	records, err := s.journal.ListRecords()
	if err != nil {
		return nil, fmt.Errorf("listing parse records: %w", err)
	}
	return records, nil
}

// HistoryRecord retrieves one parse record by ID
func (s *Service) HistoryRecord(id string) (*ParseRecord, error) {
	record, err := s.journal.GetRecord(id)
	if err != nil {
		return nil, fmt.Errorf("getting parse record: %w", err)
	}
	return record, nil
}
