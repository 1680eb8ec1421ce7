package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

type SQLWebhookRepository struct {
	db *DB
}

var _ WebhookRepository = (*SQLWebhookRepository)(nil)

func NewWebhookRepository(db *DB) *SQLWebhookRepository {
	return &SQLWebhookRepository{db: db}
}

const webhookColumns = `id, name, url, events, is_active, last_triggered, success_count, error_count`

func scanWebhook(row rowScanner) (Webhook, error) {
	var w Webhook
	var events string
	var lastTriggered sql.NullString
	err := row.Scan(&w.ID, &w.Name, &w.URL, &events, &w.IsActive, &lastTriggered, &w.SuccessCount, &w.ErrorCount)
	if err != nil {
		return Webhook{}, err
	}
	if err := json.Unmarshal([]byte(events), &w.Events); err != nil {
		return Webhook{}, fmt.Errorf("failed to decode webhook events: %w", err)
	}
	w.LastTriggered, err = parseNullTime(lastTriggered)
	return w, err
}

func (r *SQLWebhookRepository) List() ([]Webhook, error) {
	rows, err := r.db.Query(`SELECT ` + webhookColumns + ` FROM webhooks ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list webhooks: %w", err)
	}
	defer rows.Close()

	webhooks := []Webhook{}
	for rows.Next() {
		w, err := scanWebhook(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan webhook row: %w", err)
		}
		webhooks = append(webhooks, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating webhook rows: %w", err)
	}
	return webhooks, nil
}

func (r *SQLWebhookRepository) GetByID(id int) (*Webhook, error) {
	w, err := scanWebhook(r.db.QueryRow(`SELECT `+webhookColumns+` FROM webhooks WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get webhook by ID: %w", err)
	}
	return &w, nil
}

func (r *SQLWebhookRepository) Create(webhook Webhook) (*Webhook, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	id, err := nextID(tx, "webhooks")
	if err != nil {
		return nil, err
	}

	created := prepareWebhook(webhook, id)
	if err := ValidateWebhook(created); err != nil {
		return nil, err
	}
	if err := insertWebhook(tx, created); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit webhook: %w", err)
	}
	return &created, nil
}

func insertWebhook(tx *sql.Tx, w Webhook) error {
	events, err := json.Marshal(w.Events)
	if err != nil {
		return fmt.Errorf("failed to encode webhook events: %w", err)
	}
	_, err = tx.Exec(`
		INSERT INTO webhooks (id, name, url, events, is_active, last_triggered, success_count, error_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, w.ID, w.Name, w.URL, string(events), w.IsActive, nullTime(w.LastTriggered), w.SuccessCount, w.ErrorCount)
	if err != nil {
		return fmt.Errorf("failed to insert webhook: %w", err)
	}
	return nil
}

func (r *SQLWebhookRepository) Update(id int, patch WebhookPatch) (*Webhook, error) {
	existing, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}

	updated := *existing
	applyWebhookPatch(&updated, patch)
	if err := ValidateWebhook(updated); err != nil {
		return nil, err
	}

	events, err := json.Marshal(updated.Events)
	if err != nil {
		return nil, fmt.Errorf("failed to encode webhook events: %w", err)
	}

	res, err := r.db.Exec(`
		UPDATE webhooks SET name = ?, url = ?, events = ?, is_active = ?
		WHERE id = ?
	`, updated.Name, updated.URL, string(events), updated.IsActive, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update webhook: %w", err)
	}
	if err := checkAffected(res); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *SQLWebhookRepository) Delete(id int) error {
	res, err := r.db.Exec(`DELETE FROM webhooks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete webhook: %w", err)
	}
	return checkAffected(res)
}

func (r *SQLWebhookRepository) RecordTest(id int, success bool, at time.Time) (*Webhook, error) {
	counter := "error_count"
	if success {
		counter = "success_count"
	}

	res, err := r.db.Exec(`UPDATE webhooks SET last_triggered = ?, `+counter+` = `+counter+` + 1 WHERE id = ?`,
		formatTime(at), id)
	if err != nil {
		return nil, fmt.Errorf("failed to record webhook test: %w", err)
	}
	if err := checkAffected(res); err != nil {
		return nil, err
	}
	return r.GetByID(id)
}
