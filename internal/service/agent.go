package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"techupnext/internal/config"
	"techupnext/internal/domain"
	"techupnext/internal/enrich"
)

// Agent owns the run lock and runs the ingestion pipeline: for every
// configured feed it extracts, enriches, and persists a bounded number of
// items, then optionally composes and delivers the digest.
//
// The lock is a best-effort single-flight guard within one process, not a
// queue: a trigger arriving while a run is active gets StatusBusy back
// immediately. A multi-process deployment would need a distributed lock;
// that is the known scaling limit.
type Agent struct {
	feeds       []string
	source      Source
	enricher    Enricher
	news        NewsStore
	subscribers SubscriberStore
	composer    Composer
	mailer      Mailer
	publisher   Publisher
	logger      *slog.Logger
	cfg         config.AgentConfig

	running atomic.Bool
}

func NewAgent(
	feeds []string,
	source Source,
	enricher Enricher,
	news NewsStore,
	subscribers SubscriberStore,
	composer Composer,
	mailer Mailer,
	publisher Publisher,
	logger *slog.Logger,
	cfg config.AgentConfig,
) *Agent {
	return &Agent{
		feeds:       feeds,
		source:      source,
		enricher:    enricher,
		news:        news,
		subscribers: subscribers,
		composer:    composer,
		mailer:      mailer,
		publisher:   publisher,
		logger:      logger.With("component", "agent"),
		cfg:         cfg,
	}
}

// Run executes one full ingestion pass. When another run is in flight it
// returns StatusBusy without touching the store. Per-item extraction and
// enrichment failures degrade to fallbacks and never abort the run; store
// write errors are fatal to the run but still release the lock. The lock
// is released before digest delivery so mail latency never extends the
// lock window.
func (a *Agent) Run(ctx context.Context, sendMail bool) (*domain.RunStats, error) {
	if !a.running.CompareAndSwap(false, true) {
		a.logger.Info("run rejected, agent already running")
		return &domain.RunStats{Status: domain.StatusBusy}, nil
	}

	startTime := time.Now()
	stats := &domain.RunStats{Status: domain.StatusCompleted}

	err := func() error {
		defer a.running.Store(false)
		return a.ingest(ctx, stats)
	}()
	if err != nil {
		stats.Duration = time.Since(startTime)
		return stats, err
	}

	if sendMail {
		if err := a.sendDigest(ctx, stats); err != nil {
			stats.Duration = time.Since(startTime)
			return stats, err
		}
	}

	stats.Duration = time.Since(startTime)

	a.logger.Info("run completed",
		"feeds", stats.Feeds,
		"feed_errors", stats.FeedErrors,
		"items", stats.Items,
		"extract_fallbacks", stats.ExtractFallback,
		"enrich_fallbacks", stats.EnrichFallback,
		"mails_sent", stats.MailsSent,
		"mail_errors", stats.MailErrors,
		"duration", stats.Duration,
	)

	return stats, nil
}

func (a *Agent) ingest(ctx context.Context, stats *domain.RunStats) error {
	a.logger.Info("starting ingestion",
		"feeds", len(a.feeds),
		"max_items_per_feed", a.cfg.MaxItemsPerFeed,
	)

	// Prior results are discarded up front; readers may observe an empty
	// or partially repopulated set until the run completes.
	if err := a.news.Clear(ctx); err != nil {
		return fmt.Errorf("clear news: %w", err)
	}

	for _, feedURL := range a.feeds {
		stats.Feeds++

		items, err := a.source.Fetch(ctx, feedURL)
		if err != nil {
			stats.FeedErrors++
			a.logger.Warn("feed fetch failed, skipping", "feed", feedURL, "error", err)
			continue
		}

		if len(items) > a.cfg.MaxItemsPerFeed {
			items = items[:a.cfg.MaxItemsPerFeed]
		}

		for _, item := range items {
			if err := a.processItem(ctx, item, stats); err != nil {
				return err
			}
		}
	}

	return nil
}

// processItem runs extract → enrich → persist for one item. Only the
// persistence step can fail the run.
func (a *Agent) processItem(ctx context.Context, item domain.FeedItem, stats *domain.RunStats) error {
	text, err := a.source.ExtractText(ctx, item.Link)
	if err != nil {
		stats.ExtractFallback++
		a.logger.Warn("extraction failed, using title", "link", item.Link, "error", err)
		text = item.Title
	}

	result, err := a.enricher.SummarizeAndClassify(ctx, text)
	if err != nil {
		stats.EnrichFallback++
		a.logger.Warn("summarize failed, using fallback", "link", item.Link, "error", err)
		result = enrich.FallbackResult(text)
	}

	explainer, err := a.enricher.Explain(ctx, text)
	if err != nil {
		stats.EnrichFallback++
		a.logger.Warn("explain failed, using fallback", "link", item.Link, "error", err)
		explainer = enrich.FallbackExplainer(text)
	}

	news := domain.NewsItem{
		Title:     item.Title,
		Link:      item.Link,
		Summary:   result.Summary,
		Explainer: explainer,
		Category:  result.Category,
	}

	if err := a.news.Insert(ctx, &news); err != nil {
		return fmt.Errorf("persist item %s: %w", item.Link, err)
	}
	stats.Items++

	if a.publisher != nil {
		if err := a.publisher.Publish(ctx, news); err != nil {
			stats.PublishErrors++
			a.logger.Warn("publish failed", "link", item.Link, "error", err)
		} else {
			stats.Published++
		}
	}

	return nil
}

func (a *Agent) sendDigest(ctx context.Context, stats *domain.RunStats) error {
	subscribers, err := a.subscribers.List(ctx)
	if err != nil {
		return fmt.Errorf("list subscribers: %w", err)
	}

	categories, err := a.news.DistinctCategories(ctx)
	if err != nil {
		return fmt.Errorf("distinct categories: %w", err)
	}

	if len(subscribers) == 0 || len(categories) == 0 {
		a.logger.Info("no subscribers or no news, skipping digest")
		return nil
	}

	items, err := a.news.List(ctx, nil)
	if err != nil {
		return fmt.Errorf("list news: %w", err)
	}

	html, err := a.composer.Compose(items, categories)
	if err != nil {
		return fmt.Errorf("compose digest: %w", err)
	}
	if html == "" {
		return nil
	}

	// Delivery failures are per-recipient; the batch always continues.
	for _, sub := range subscribers {
		if err := a.mailer.Send(ctx, sub.Email, a.cfg.DigestSubject, html); err != nil {
			stats.MailErrors++
			a.logger.Warn("mail delivery failed", "to", sub.Email, "error", err)
			continue
		}
		stats.MailsSent++
	}

	return nil
}
