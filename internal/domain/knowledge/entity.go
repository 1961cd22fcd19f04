package knowledge

import "context"

// Document is one procedure clause from the knowledge base, referenced
// by writing suggestions.
type Document struct {
	ID      string `json:"id"`
	Code    string `json:"code"`
	Title   string `json:"title"`
	Section string `json:"section"`
	Content string `json:"content"`
}

// Repository port (persistence interface).
type Repository interface {
	Search(ctx context.Context, terms []string, limit int) ([]*Document, error)
}
