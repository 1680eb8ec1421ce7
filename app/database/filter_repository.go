package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

type SQLFilterRepository struct {
	db  *DB
	now func() time.Time
}

var _ FilterRepository = (*SQLFilterRepository)(nil)

func NewFilterRepository(db *DB) *SQLFilterRepository {
	return &SQLFilterRepository{db: db, now: time.Now}
}

const filterColumns = `id, name, description, rules, created_by, created_date, is_active`

func scanFilter(row rowScanner) (Filter, error) {
	var f Filter
	var rules, createdDate string
	if err := row.Scan(&f.ID, &f.Name, &f.Description, &rules, &f.CreatedBy, &createdDate, &f.IsActive); err != nil {
		return Filter{}, err
	}
	if err := json.Unmarshal([]byte(rules), &f.Rules); err != nil {
		return Filter{}, fmt.Errorf("failed to decode filter rules: %w", err)
	}
	var err error
	f.CreatedDate, err = parseTime(createdDate)
	return f, err
}

func (r *SQLFilterRepository) List() ([]Filter, error) {
	rows, err := r.db.Query(`SELECT ` + filterColumns + ` FROM filters ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list filters: %w", err)
	}
	defer rows.Close()

	filters := []Filter{}
	for rows.Next() {
		f, err := scanFilter(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan filter row: %w", err)
		}
		filters = append(filters, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating filter rows: %w", err)
	}
	return filters, nil
}

func (r *SQLFilterRepository) GetByID(id int) (*Filter, error) {
	f, err := scanFilter(r.db.QueryRow(`SELECT `+filterColumns+` FROM filters WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get filter by ID: %w", err)
	}
	return &f, nil
}

func (r *SQLFilterRepository) Create(filter Filter) (*Filter, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	id, err := nextID(tx, "filters")
	if err != nil {
		return nil, err
	}

	created := prepareFilter(filter, id, r.now().UTC())
	if err := ValidateFilter(created); err != nil {
		return nil, err
	}
	if err := insertFilter(tx, created); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit filter: %w", err)
	}
	return &created, nil
}

func insertFilter(tx *sql.Tx, f Filter) error {
	rules, err := json.Marshal(f.Rules)
	if err != nil {
		return fmt.Errorf("failed to encode filter rules: %w", err)
	}
	_, err = tx.Exec(`
		INSERT INTO filters (id, name, description, rules, created_by, created_date, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, f.ID, f.Name, f.Description, string(rules), f.CreatedBy, formatTime(f.CreatedDate), f.IsActive)
	if err != nil {
		return fmt.Errorf("failed to insert filter: %w", err)
	}
	return nil
}

func (r *SQLFilterRepository) Update(id int, patch FilterPatch) (*Filter, error) {
	existing, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}

	updated := *existing
	applyFilterPatch(&updated, patch)
	if err := ValidateFilter(updated); err != nil {
		return nil, err
	}

	rules, err := json.Marshal(updated.Rules)
	if err != nil {
		return nil, fmt.Errorf("failed to encode filter rules: %w", err)
	}

	res, err := r.db.Exec(`
		UPDATE filters SET name = ?, description = ?, rules = ?, is_active = ?
		WHERE id = ?
	`, updated.Name, updated.Description, string(rules), updated.IsActive, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update filter: %w", err)
	}
	if err := checkAffected(res); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *SQLFilterRepository) Delete(id int) error {
	res, err := r.db.Exec(`DELETE FROM filters WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete filter: %w", err)
	}
	return checkAffected(res)
}
