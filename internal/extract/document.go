package extract

// Page holds the extracted content of a single document page: the plain text
// in reading order and zero or more tables, each a slice of rows of text
// cells. A missing cell is an empty string.
type Page struct {
	Text   string
	Tables [][][]string
}

// Source yields the per-page content of one document. A Source is owned by a
// single parse call: it is not assumed to be reentrant or safe for concurrent
// use, and must be closed when the call finishes.
type Source interface {
	// Pages returns the document's pages in order.
	Pages() ([]Page, error)
	// Close releases the underlying document resources.
	Close() error
}
