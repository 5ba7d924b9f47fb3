package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"techupnext/internal/domain"
)

type NewsStore struct {
	db *sqlx.DB
}

func NewNewsStore(db *sqlx.DB) *NewsStore {
	return &NewsStore{db: db}
}

// Clear removes every stored item. The agent calls this at the start of a
// run; readers may observe an empty or partially repopulated table until
// the run finishes.
func (s *NewsStore) Clear(ctx context.Context) error {
	exec := GetExecutor(ctx, s.db)
	if _, err := exec.ExecContext(ctx, "DELETE FROM news"); err != nil {
		return fmt.Errorf("clear news: %w", err)
	}
	return nil
}

// Insert persists one enriched item and fills in its assigned id.
func (s *NewsStore) Insert(ctx context.Context, item *domain.NewsItem) error {
	query := `
		INSERT INTO news (title, link, summary, explainer, category)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	exec := GetExecutor(ctx, s.db)
	err := exec.QueryRowxContext(ctx, query,
		item.Title,
		item.Link,
		item.Summary,
		item.Explainer,
		item.Category,
	).Scan(&item.ID)
	if err != nil {
		return fmt.Errorf("insert news item: %w", err)
	}

	return nil
}

// ReplaceAll swaps the full item set in one transaction: delete, then
// insert in the given order. It is not a diff.
func (s *NewsStore) ReplaceAll(ctx context.Context, items []domain.NewsItem) error {
	tm := NewTransactionManager(s.db)
	return tm.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.Clear(txCtx); err != nil {
			return err
		}
		for i := range items {
			if err := s.Insert(txCtx, &items[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

// List returns items in insertion order. A nil or empty filter returns
// everything; otherwise only items whose lowercase category is in the
// filter set are returned. Filter values are normalized here, so callers
// can pass categories in any casing.
func (s *NewsStore) List(ctx context.Context, categories []string) ([]domain.NewsItem, error) {
	var (
		items []domain.NewsItem
		err   error
	)

	normalized := normalizeCategories(categories)
	if len(normalized) == 0 {
		query := `SELECT id, title, link, summary, explainer, category FROM news ORDER BY id`
		err = s.db.SelectContext(ctx, &items, query)
	} else {
		query := `
			SELECT id, title, link, summary, explainer, category
			FROM news
			WHERE LOWER(category) = ANY($1)
			ORDER BY id`
		err = s.db.SelectContext(ctx, &items, query, pq.StringArray(normalized))
	}
	if err != nil {
		return nil, fmt.Errorf("list news: %w", err)
	}

	return items, nil
}

// DistinctCategories returns the lowercase categories present, in
// first-seen order, so digest composition is deterministic.
func (s *NewsStore) DistinctCategories(ctx context.Context) ([]string, error) {
	query := `
		SELECT LOWER(category)
		FROM news
		GROUP BY LOWER(category)
		ORDER BY MIN(id)`

	var categories []string
	if err := s.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("distinct categories: %w", err)
	}

	return categories, nil
}

func normalizeCategories(categories []string) []string {
	normalized := make([]string, 0, len(categories))
	for _, c := range categories {
		c = strings.ToLower(strings.TrimSpace(c))
		if c != "" {
			normalized = append(normalized, c)
		}
	}
	return normalized
}
