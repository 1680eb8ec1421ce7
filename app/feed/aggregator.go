package feed

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lysyi3m/rss-desk/app/database"
	"golang.org/x/sync/errgroup"
)

const DefaultWorkers = 5

type FeedFetcher interface {
	Fetch(ctx context.Context, url string) (*RawFeed, error)
}

var _ FeedFetcher = (*Fetcher)(nil)

// Aggregator runs ingestion passes over the registered sources and merges
// each pass into the article store in one step.
type Aggregator struct {
	fetcher  FeedFetcher
	articles database.ArticleRepository
	sources  database.SourceRepository
	workers  int
	now      func() time.Time

	mu     sync.Mutex // serializes id assignment and the merge
	lastID int
}

func NewAggregator(fetcher FeedFetcher, articles database.ArticleRepository,
	sources database.SourceRepository, workers int) *Aggregator {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Aggregator{
		fetcher:  fetcher,
		articles: articles,
		sources:  sources,
		workers:  workers,
		now:      time.Now,
	}
}

type sourceResult struct {
	source   database.Source
	articles []database.Article
	err      error
}

// IngestActive lists the registered sources and ingests the active ones
func (a *Aggregator) IngestActive(ctx context.Context) (*Report, error) {
	sources, err := a.sources.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}
	return a.IngestAll(ctx, sources)
}

// IngestAll fetches every active source and prepends the new articles to the
// store. Per-source failures are reported, never returned; the error result
// covers store failures only.
func (a *Aggregator) IngestAll(ctx context.Context, sources []database.Source) (*Report, error) {
	start := time.Now()
	report := &Report{
		Articles: []database.Article{},
		Errors:   []SourceError{},
	}

	active := make([]database.Source, 0, len(sources))
	for _, s := range sources {
		if s.Active() {
			active = append(active, s)
		}
	}
	if len(active) == 0 {
		slog.Debug("No active sources, skipping ingestion")
		return report, nil
	}

	now := a.now()
	results := make([]sourceResult, len(active))

	var g errgroup.Group
	g.SetLimit(a.workers)
	for i, source := range active {
		g.Go(func() error {
			results[i] = a.collect(ctx, source, now)
			return nil
		})
	}
	_ = g.Wait()

	var batch []database.Article
	for _, result := range results {
		if result.err != nil {
			name := result.source.Name
			if name == "" {
				name = result.source.URL
			}
			slog.Warn("Source fetch failed", "source_id", result.source.ID, "source", name, "error", result.err)
			report.Errors = append(report.Errors, SourceError{
				SourceID:   result.source.ID,
				SourceName: name,
				Message:    result.err.Error(),
			})
			continue
		}
		batch = append(batch, result.articles...)
	}

	if err := a.merge(batch); err != nil {
		return nil, err
	}
	report.Articles = append(report.Articles, batch...)

	for _, result := range results {
		if result.err != nil {
			continue
		}
		if err := a.sources.RecordFetch(result.source.ID, now, len(result.articles)); err != nil {
			slog.Warn("Failed to record source fetch", "source_id", result.source.ID, "error", err)
		}
	}

	slog.Info("Ingestion completed",
		"duration", time.Since(start),
		"sources", len(active),
		"new", len(report.Articles),
		"failed", len(report.Errors))

	return report, nil
}

// collect fetches one source and builds its categorized articles
func (a *Aggregator) collect(ctx context.Context, source database.Source, now time.Time) sourceResult {
	raw, err := a.fetcher.Fetch(ctx, source.URL)
	if err != nil {
		return sourceResult{source: source, err: err}
	}

	articles := make([]database.Article, 0, len(raw.Items))
	for _, item := range raw.Items {
		article := Normalize(raw, item, source, now)
		article.Category = Categorize(article.Title + " " + article.Content)
		articles = append(articles, article)
	}

	slog.Debug("Source fetched", "source_id", source.ID, "feed", raw.Title, "items", len(articles))
	return sourceResult{source: source, articles: articles}
}

// merge assigns fresh ids and prepends the batch; ids are never reused even
// when articles have since been removed from the store
func (a *Aggregator) merge(batch []database.Article) error {
	if len(batch) == 0 {
		return nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	maxID, err := a.articles.MaxID()
	if err != nil {
		return fmt.Errorf("failed to read max article id: %w", err)
	}

	next := max(a.lastID, maxID)
	for i := range batch {
		next++
		batch[i].ID = next
	}

	if err := a.articles.Prepend(batch); err != nil {
		return fmt.Errorf("failed to store articles: %w", err)
	}
	a.lastID = next

	return nil
}
