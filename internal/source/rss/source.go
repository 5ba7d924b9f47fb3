package rss

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"techupnext/internal/domain"
)

// Config holds feed source configuration.
type Config struct {
	Timeout time.Duration
}

// Source fetches candidate items from RSS/Atom feeds and resolves each
// item's link to plain article text.
type Source struct {
	parser     *gofeed.Parser
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a feed source sharing one HTTP client between feed polling
// and article extraction.
func New(cfg Config, logger *slog.Logger) *Source {
	client := &http.Client{Timeout: cfg.Timeout}
	parser := gofeed.NewParser()
	parser.Client = client

	return &Source{
		parser:     parser,
		httpClient: client,
		logger:     logger.With("component", "source"),
	}
}

// Fetch returns the feed's items in the order the feed advertises them.
func (s *Source) Fetch(ctx context.Context, feedURL string) ([]domain.FeedItem, error) {
	feed, err := s.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", feedURL, err)
	}

	items := make([]domain.FeedItem, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item.Title == "" || item.Link == "" {
			continue
		}
		items = append(items, domain.FeedItem{
			Title: item.Title,
			Link:  item.Link,
		})
	}

	s.logger.Debug("fetched feed", "url", feedURL, "items", len(items))
	return items, nil
}

// ExtractText downloads the article page and returns its paragraph text.
// Navigation, script, and style content is stripped before extraction.
func (s *Source) ExtractText(ctx context.Context, link string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "TechUpNext/1.0")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch article: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parse article: %w", err)
	}

	text := extractParagraphs(doc)
	if text == "" {
		return "", fmt.Errorf("no article text found at %s", link)
	}

	return text, nil
}

func extractParagraphs(doc *goquery.Document) string {
	doc.Find("script, style, nav, header, footer, aside").Remove()

	paragraphs := doc.Find("article p")
	if paragraphs.Length() == 0 {
		paragraphs = doc.Find("p")
	}

	var sb strings.Builder
	paragraphs.Each(func(_ int, sel *goquery.Selection) {
		paragraph := strings.TrimSpace(sel.Text())
		if paragraph == "" {
			return
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(paragraph)
	})

	return sb.String()
}
