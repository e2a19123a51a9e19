// Package semstore is the semantic document store behind incident
// recall. Documents are canonical case texts; queries return the
// nearest stored cases with a cosine distance per result.
package semstore

import "context"

// Document is one stored case text with its flat metadata.
type Document struct {
	ID       string
	Content  string
	Metadata map[string]string
}

// QueryResult is a stored document plus its distance from the query.
// Distance is 1 - cosine similarity: 0 is identical, 2 is opposite.
type QueryResult struct {
	Document
	Distance float64
}

// SemanticStore stores case documents and finds the nearest ones for
// a query text. Implementations must be safe for concurrent use.
type SemanticStore interface {
	// Store adds or replaces one document.
	Store(ctx context.Context, doc Document) error

	// Query returns up to k nearest documents, closest first. A store
	// holding fewer than k documents returns what it has; an empty
	// store returns no results and no error.
	Query(ctx context.Context, text string, k int) ([]QueryResult, error)

	// Count returns the number of stored documents.
	Count() int

	// Persist saves the store's data under dir.
	Persist(ctx context.Context, dir string) error

	// Load restores the store's data from dir.
	Load(ctx context.Context, dir string) error
}
