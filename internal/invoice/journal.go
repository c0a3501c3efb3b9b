package invoice

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

const journalBucketName = "parse_journal"

// Parse outcome recorded in the journal.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// ParseRecord is the audit entry written for every upload. It carries
// operational metadata only; extracted invoice content is never persisted.
type ParseRecord struct {
	ID            string    `json:"id"`
	Filename      string    `json:"filename"`
	FileSizeBytes int64     `json:"file_size_bytes"`
	InvoiceNumber string    `json:"invoice_number,omitempty"`
	LineItemCount int       `json:"line_item_count"`
	Status        string    `json:"status"`
	Error         string    `json:"error,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Journal defines the interface for parse-journal operations
type Journal interface {
	// Record appends a parse record to the journal
	Record(record *ParseRecord) error

	// GetRecord retrieves a parse record by ID
	GetRecord(id string) (*ParseRecord, error)

	// ListRecords returns all parse records
	ListRecords() ([]*ParseRecord, error)

	// Close closes the journal
	Close() error
}

// BoltJournal implements the Journal interface using BoltDB
type BoltJournal struct {
	db *bbolt.DB
}

// NewBoltJournal creates a new BoltJournal instance
func NewBoltJournal(path string) (*BoltJournal, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(journalBucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating bucket: %w", err)
	}

	return &BoltJournal{db: db}, nil
}

// Record appends a parse record to the journal
func (b *BoltJournal) Record(record *ParseRecord) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(journalBucketName))
		data, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("marshaling parse record: %w", err)
		}
		return bucket.Put([]byte(record.ID), data)
	})
}

// GetRecord retrieves a parse record by ID
func (b *BoltJournal) GetRecord(id string) (*ParseRecord, error) {
	var record *ParseRecord
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(journalBucketName))
		data := bucket.Get([]byte(id))
		if data == nil {
			return fmt.Errorf("parse record not found: %s", id)
		}
		return json.Unmarshal(data, &record)
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// ListRecords returns all parse records
func (b *BoltJournal) ListRecords() ([]*ParseRecord, error) {
	records := make([]*ParseRecord, 0)
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(journalBucketName))
		return bucket.ForEach(func(k, v []byte) error {
			var record ParseRecord
			if err := json.Unmarshal(v, &record); err != nil {
				return fmt.Errorf("unmarshaling parse record: %w", err)
			}
			records = append(records, &record)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Close closes the journal
func (b *BoltJournal) Close() error {
	return b.db.Close()
}
