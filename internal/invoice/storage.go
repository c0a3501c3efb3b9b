package invoice

import (
	"fmt"
	"os"
	"path/filepath"
)

// Storage defines the interface for spooling uploads to disk. The PDF
// libraries read from a filesystem path, so each upload is staged as a file
// for the duration of one parse call and deleted afterwards.
type Storage interface {
	// Save writes the upload and returns the absolute path of the spool file
	Save(filename string, data []byte) (string, error)

	// Delete removes a spool file
	Delete(path string) error
}

// LocalStorage implements the Storage interface using a local spool directory
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates a new LocalStorage instance
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	// Create directory if it doesn't exist
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("creating spool directory: %w", err)
	}

	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("resolving spool directory: %w", err)
	}

	return &LocalStorage{
		basePath: abs,
	}, nil
}

// Save writes a file to the spool directory
func (l *LocalStorage) Save(filename string, data []byte) (string, error) {
	path := filepath.Join(l.basePath, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing file: %w", err)
	}
	return path, nil
}

// Delete removes a file from the spool directory
func (l *LocalStorage) Delete(path string) error {
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("deleting file: %w", err)
	}
	return nil
}
