package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"techupnext/internal/domain"
)

type SubscriberStore struct {
	db *sqlx.DB
}

func NewSubscriberStore(db *sqlx.DB) *SubscriberStore {
	return &SubscriberStore{db: db}
}

// Add records a subscriber. Adding an address that is already present is a
// no-op, never an error and never a duplicate row.
func (s *SubscriberStore) Add(ctx context.Context, email string) error {
	query := `INSERT INTO subscribers (email) VALUES ($1) ON CONFLICT (email) DO NOTHING`

	if _, err := s.db.ExecContext(ctx, query, email); err != nil {
		return fmt.Errorf("add subscriber: %w", err)
	}

	return nil
}

// List returns all subscribers in signup order.
func (s *SubscriberStore) List(ctx context.Context) ([]domain.Subscriber, error) {
	query := `SELECT id, email FROM subscribers ORDER BY id`

	var subscribers []domain.Subscriber
	if err := s.db.SelectContext(ctx, &subscribers, query); err != nil {
		return nil, fmt.Errorf("list subscribers: %w", err)
	}

	return subscribers, nil
}
