package invoice

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// apiResponse is the envelope wrapped around every JSON response.
type apiResponse struct {
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Data      any       `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// writeSuccess writes a success envelope
func writeSuccess(w http.ResponseWriter, data any, message string) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "application/json")
	resp := apiResponse{
		Status:    StatusSuccess,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// writeError writes an error envelope with the given status code
func writeError(w http.ResponseWriter, message string, code int) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	resp := apiResponse{
		Status:    StatusError,
		Message:   message,
		Timestamp: time.Now(),
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// handleHealth reports service health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, map[string]string{
		"service": "PDF Invoice Parser",
		"version": s.version,
		"status":  "healthy",
	}, "Success")
}

// handleParseInfo describes what the parser accepts and extracts
func (s *Server) handleParseInfo(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, map[string]any{
		"supported_formats":   []string{"PDF"},
		"max_file_size_mb":    s.maxUploadBytes / (1 << 20),
		"supported_languages": []string{"Russian"},
		"invoice_types":       []string{"Warehouse invoices", "Storage charges", "Reception charges"},
		"extracted_fields": []string{
			"invoice_info (number, date)",
			"company_info (name, INN)",
			"customer_info (name, INN, address, phone)",
			"line_items (storage, reception, shipment operations)",
			"totals (total_amount, vat_amount, total_items)",
		},
	}, "Success")
}

// handleParse accepts a multipart PDF upload and returns the parsed invoice
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	// Cap the body before reading any of it, so an oversize upload is cut
	// off at the limit instead of being drained and spooled first.
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, fmt.Sprintf("File too large. Maximum size is %dMB", s.maxUploadBytes/(1<<20)), http.StatusRequestEntityTooLarge)
			return
		}
		slog.Error("Error parsing multipart form", "error", err)
		writeError(w, "Error parsing form", http.StatusBadRequest)
		return
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, "No file provided", http.StatusBadRequest)
		return
	}
	defer f.Close()

	if header.Filename == "" {
		writeError(w, "No file selected", http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(f)
	if err != nil {
		slog.Error("Error reading file data", "error", err, "filename", header.Filename)
		writeError(w, "Error reading file", http.StatusInternalServerError)
		return
	}

	result, err := s.service.ParseUpload(header.Filename, data)
	if err != nil {
		if errors.Is(err, ErrUnsupportedFile) {
			writeError(w, "Invalid file type. Only PDF files are allowed", http.StatusBadRequest)
			return
		}
		writeError(w, fmt.Sprintf("Error parsing PDF: %v", err), http.StatusInternalServerError)
		return
	}

	slog.Info("Successfully parsed PDF", "filename", header.Filename, "line_items", len(result.LineItems))
	writeSuccess(w, map[string]any{
		"parsing_info": map[string]any{
			"original_filename": header.Filename,
			"file_size_bytes":   len(data),
			"parsed_at":         result.ParsedAt,
		},
		"invoice_data": result,
	}, "PDF parsed successfully")
}

// handleHistory returns all recorded parse attempts
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	records, err := s.service.History()
	if err != nil {
		slog.Error("Error listing parse history", "error", err)
		writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	// Ensure we always return an array, not nil
	if records == nil {
		records = []*ParseRecord{}
	}

	writeSuccess(w, records, "Success")
}

// handleHistoryRecord returns a single parse record
func (s *Server) handleHistoryRecord(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, "Record ID required", http.StatusBadRequest)
		return
	}
	record, err := s.service.HistoryRecord(id)
	if err != nil {
		writeError(w, "Record not found", http.StatusNotFound)
		return
	}

	writeSuccess(w, record, "Success")
}
