package database

import (
	"slices"
	"sync"
	"time"
)

type MemoryFilterRepository struct {
	filters []Filter
	mu      sync.RWMutex
	now     func() time.Time
}

func NewMemoryFilterRepository(seed []Filter) *MemoryFilterRepository {
	return &MemoryFilterRepository{filters: slices.Clone(seed), now: time.Now}
}

func (r *MemoryFilterRepository) List() ([]Filter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.filters), nil
}

func (r *MemoryFilterRepository) GetByID(id int) (*Filter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	filter := r.filters[i]
	return &filter, nil
}

func (r *MemoryFilterRepository) Create(filter Filter) (*Filter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	maxID := 0
	for _, f := range r.filters {
		maxID = max(maxID, f.ID)
	}

	created := prepareFilter(filter, maxID+1, r.now().UTC())
	if err := ValidateFilter(created); err != nil {
		return nil, err
	}
	r.filters = append(r.filters, created)
	return &created, nil
}

func (r *MemoryFilterRepository) Update(id int, patch FilterPatch) (*Filter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, ErrNotFound
	}

	updated := r.filters[i]
	applyFilterPatch(&updated, patch)
	if err := ValidateFilter(updated); err != nil {
		return nil, err
	}
	r.filters[i] = updated
	return &updated, nil
}

func (r *MemoryFilterRepository) Delete(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	r.filters = slices.Delete(r.filters, i, i+1)
	return nil
}

func (r *MemoryFilterRepository) indexOf(id int) int {
	return slices.IndexFunc(r.filters, func(f Filter) bool { return f.ID == id })
}
