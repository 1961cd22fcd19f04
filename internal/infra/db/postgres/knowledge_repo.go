package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	domain "github.com/kangopak/ohisee-api/internal/domain/knowledge"
)

type KnowledgeRepository struct{ db *sql.DB }

func NewKnowledgeRepository(db *sql.DB) *KnowledgeRepository {
	return &KnowledgeRepository{db: db}
}

// Search matches procedure documents by term, any-of, case-insensitive.
func (r *KnowledgeRepository) Search(ctx context.Context, terms []string, limit int) ([]*domain.Document, error) {
	if limit <= 0 {
		limit = 5
	}

	query := `
SELECT id, code, title, section, content
FROM knowledge_documents`

	args := []any{}
	next := 1
	var clauses []string
	for _, term := range terms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		clauses = append(clauses, fmt.Sprintf("(title ILIKE $%d OR content ILIKE $%d)", next, next))
		args = append(args, "%"+term+"%")
		next++
	}
	if len(clauses) > 0 {
		query += "\nWHERE " + strings.Join(clauses, " OR ")
	}
	query += fmt.Sprintf("\nORDER BY code ASC LIMIT $%d;", next)
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying knowledge base: %w", err)
	}
	defer rows.Close()

	var out []*domain.Document
	for rows.Next() {
		var d domain.Document
		if err := rows.Scan(&d.ID, &d.Code, &d.Title, &d.Section, &d.Content); err != nil {
			return nil, err
		}
		out = append(out, &d)
	}
	return out, rows.Err()
}
