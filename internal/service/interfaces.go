package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"techupnext/internal/domain"
	"techupnext/internal/enrich"
)

// Source yields candidate items for a feed and resolves an item's link to
// plain article text.
type Source interface {
	Fetch(ctx context.Context, feedURL string) ([]domain.FeedItem, error)
	ExtractText(ctx context.Context, link string) (string, error)
}

// Enricher derives summary, category, and explainer text from raw article
// text. Implementations pace their own calls; the agent issues them
// strictly sequentially.
type Enricher interface {
	SummarizeAndClassify(ctx context.Context, text string) (enrich.Result, error)
	Explain(ctx context.Context, text string) (string, error)
}

type NewsStore interface {
	Clear(ctx context.Context) error
	Insert(ctx context.Context, item *domain.NewsItem) error
	List(ctx context.Context, categories []string) ([]domain.NewsItem, error)
	DistinctCategories(ctx context.Context) ([]string, error)
}

type SubscriberStore interface {
	Add(ctx context.Context, email string) error
	List(ctx context.Context) ([]domain.Subscriber, error)
}

// Composer renders the grouped digest document.
type Composer interface {
	Compose(items []domain.NewsItem, categoryOrder []string) (string, error)
}

// Mailer delivers one rendered document to one address.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// Publisher emits an event per persisted item. Optional; a nil publisher
// disables it.
type Publisher interface {
	Publish(ctx context.Context, item domain.NewsItem) error
}
