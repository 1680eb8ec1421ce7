package database

import (
	"slices"
	"sync"
	"time"
)

type MemoryWebhookRepository struct {
	webhooks []Webhook
	mu       sync.RWMutex
}

func NewMemoryWebhookRepository(seed []Webhook) *MemoryWebhookRepository {
	return &MemoryWebhookRepository{webhooks: slices.Clone(seed)}
}

func (r *MemoryWebhookRepository) List() ([]Webhook, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.webhooks), nil
}

func (r *MemoryWebhookRepository) GetByID(id int) (*Webhook, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	webhook := r.webhooks[i]
	return &webhook, nil
}

func (r *MemoryWebhookRepository) Create(webhook Webhook) (*Webhook, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	maxID := 0
	for _, w := range r.webhooks {
		maxID = max(maxID, w.ID)
	}

	created := prepareWebhook(webhook, maxID+1)
	if err := ValidateWebhook(created); err != nil {
		return nil, err
	}
	r.webhooks = append(r.webhooks, created)
	return &created, nil
}

func (r *MemoryWebhookRepository) Update(id int, patch WebhookPatch) (*Webhook, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, ErrNotFound
	}

	updated := r.webhooks[i]
	applyWebhookPatch(&updated, patch)
	if err := ValidateWebhook(updated); err != nil {
		return nil, err
	}
	r.webhooks[i] = updated
	return &updated, nil
}

func (r *MemoryWebhookRepository) Delete(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	r.webhooks = slices.Delete(r.webhooks, i, i+1)
	return nil
}

func (r *MemoryWebhookRepository) RecordTest(id int, success bool, at time.Time) (*Webhook, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, ErrNotFound
	}

	w := &r.webhooks[i]
	w.LastTriggered = &at
	if success {
		w.SuccessCount++
	} else {
		w.ErrorCount++
	}
	updated := *w
	return &updated, nil
}

func (r *MemoryWebhookRepository) indexOf(id int) int {
	return slices.IndexFunc(r.webhooks, func(w Webhook) bool { return w.ID == id })
}
