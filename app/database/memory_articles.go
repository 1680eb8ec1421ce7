package database

import (
	"slices"
	"sync"
	"time"
)

// MemoryArticleRepository keeps articles in ingestion order, newest batch first
type MemoryArticleRepository struct {
	articles []Article
	mu       sync.RWMutex
}

func NewMemoryArticleRepository(seed []Article) *MemoryArticleRepository {
	return &MemoryArticleRepository{articles: slices.Clone(seed)}
}

func (r *MemoryArticleRepository) GetAll(query ArticleQuery) ([]Article, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Article, 0, len(r.articles))
	for _, a := range r.articles {
		if matchesArticleQuery(a, query) {
			result = append(result, a)
		}
	}
	SortByPublishDate(result)
	return result, nil
}

func (r *MemoryArticleRepository) GetByID(id int) (*Article, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.articles {
		if a.ID == id {
			article := a
			return &article, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryArticleRepository) List() ([]Article, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.articles), nil
}

func (r *MemoryArticleRepository) MaxID() (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	maxID := 0
	for _, a := range r.articles {
		maxID = max(maxID, a.ID)
	}
	return maxID, nil
}

func (r *MemoryArticleRepository) Summary(now time.Time) (Summary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return buildSummary(r.articles, now), nil
}

func (r *MemoryArticleRepository) Prepend(articles []Article) error {
	if len(articles) == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	merged := make([]Article, 0, len(articles)+len(r.articles))
	merged = append(merged, articles...)
	merged = append(merged, r.articles...)
	r.articles = merged
	return nil
}
