package domain

import "strings"

// DefaultCategory is assigned when enrichment fails or returns no category.
const DefaultCategory = "technology"

// FeedItem is a candidate article as advertised by a feed, before
// extraction and enrichment.
type FeedItem struct {
	Title string
	Link  string
}

// NewsItem is one enriched article. The whole set is replaced on every
// agent run; nothing mutates an item after it is persisted.
type NewsItem struct {
	ID        int64  `db:"id" json:"-"`
	Title     string `db:"title" json:"title"`
	Link      string `db:"link" json:"link"`
	Summary   string `db:"summary" json:"summary"`
	Explainer string `db:"explainer" json:"explainer,omitempty"`
	Category  string `db:"category" json:"category"`
}

// NormalizedCategory returns the category folded to lowercase. Grouping and
// filtering always compare normalized values; the stored casing is kept for
// display.
func (n NewsItem) NormalizedCategory() string {
	return strings.ToLower(strings.TrimSpace(n.Category))
}

// Subscriber is one newsletter recipient. Emails are unique and stored as
// submitted; there is no unsubscribe flow.
type Subscriber struct {
	ID    int64  `db:"id"`
	Email string `db:"email"`
}
