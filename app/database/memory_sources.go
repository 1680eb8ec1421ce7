package database

import (
	"slices"
	"sync"
	"time"
)

type MemorySourceRepository struct {
	sources []Source
	mu      sync.RWMutex
	now     func() time.Time
}

func NewMemorySourceRepository(seed []Source) *MemorySourceRepository {
	return &MemorySourceRepository{sources: slices.Clone(seed), now: time.Now}
}

func (r *MemorySourceRepository) List() ([]Source, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.sources), nil
}

func (r *MemorySourceRepository) GetByID(id int) (*Source, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	source := r.sources[i]
	return &source, nil
}

func (r *MemorySourceRepository) Create(source Source) (*Source, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	maxID := 0
	for _, s := range r.sources {
		maxID = max(maxID, s.ID)
	}

	created := prepareSource(source, maxID+1, r.now().UTC())
	if err := ValidateSource(created); err != nil {
		return nil, err
	}
	r.sources = append(r.sources, created)
	return &created, nil
}

func (r *MemorySourceRepository) Update(id int, patch SourcePatch) (*Source, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, ErrNotFound
	}

	updated := r.sources[i]
	applySourcePatch(&updated, patch)
	if err := ValidateSource(updated); err != nil {
		return nil, err
	}
	r.sources[i] = updated
	return &updated, nil
}

func (r *MemorySourceRepository) Delete(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	r.sources = slices.Delete(r.sources, i, i+1)
	return nil
}

func (r *MemorySourceRepository) RecordFetch(id int, fetchedAt time.Time, added int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	r.sources[i].LastFetch = &fetchedAt
	r.sources[i].ArticleCount += added
	return nil
}

func (r *MemorySourceRepository) indexOf(id int) int {
	return slices.IndexFunc(r.sources, func(s Source) bool { return s.ID == id })
}
