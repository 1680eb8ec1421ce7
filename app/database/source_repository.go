package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SQLSourceRepository handles database operations for feed sources
type SQLSourceRepository struct {
	db  *DB
	now func() time.Time
}

var _ SourceRepository = (*SQLSourceRepository)(nil)

func NewSourceRepository(db *DB) *SQLSourceRepository {
	return &SQLSourceRepository{db: db, now: time.Now}
}

const sourceColumns = `id, name, url, fetch_interval, is_active, status, last_fetch, article_count`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSource(row rowScanner) (Source, error) {
	var s Source
	var lastFetch sql.NullString
	if err := row.Scan(&s.ID, &s.Name, &s.URL, &s.FetchInterval, &s.IsActive, &s.Status, &lastFetch, &s.ArticleCount); err != nil {
		return Source{}, err
	}
	var err error
	s.LastFetch, err = parseNullTime(lastFetch)
	return s, err
}

func (r *SQLSourceRepository) List() ([]Source, error) {
	rows, err := r.db.Query(`SELECT ` + sourceColumns + ` FROM sources ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}
	defer rows.Close()

	sources := []Source{}
	for rows.Next() {
		s, err := scanSource(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan source row: %w", err)
		}
		sources = append(sources, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating source rows: %w", err)
	}
	return sources, nil
}

func (r *SQLSourceRepository) GetByID(id int) (*Source, error) {
	s, err := scanSource(r.db.QueryRow(`SELECT `+sourceColumns+` FROM sources WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get source by ID: %w", err)
	}
	return &s, nil
}

func (r *SQLSourceRepository) Create(source Source) (*Source, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	id, err := nextID(tx, "sources")
	if err != nil {
		return nil, err
	}

	created := prepareSource(source, id, r.now().UTC())
	if err := ValidateSource(created); err != nil {
		return nil, err
	}
	if err := insertSource(tx, created); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit source: %w", err)
	}
	return &created, nil
}

func insertSource(tx *sql.Tx, s Source) error {
	_, err := tx.Exec(`
		INSERT INTO sources (id, name, url, fetch_interval, is_active, status, last_fetch, article_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, s.ID, s.Name, s.URL, s.FetchInterval, s.IsActive, s.Status, nullTime(s.LastFetch), s.ArticleCount)
	if err != nil {
		return fmt.Errorf("failed to insert source: %w", err)
	}
	return nil
}

func (r *SQLSourceRepository) Update(id int, patch SourcePatch) (*Source, error) {
	existing, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}

	updated := *existing
	applySourcePatch(&updated, patch)
	if err := ValidateSource(updated); err != nil {
		return nil, err
	}

	res, err := r.db.Exec(`
		UPDATE sources
		SET name = ?, url = ?, fetch_interval = ?, is_active = ?, status = ?
		WHERE id = ?
	`, updated.Name, updated.URL, updated.FetchInterval, updated.IsActive, updated.Status, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update source: %w", err)
	}
	if err := checkAffected(res); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *SQLSourceRepository) Delete(id int) error {
	res, err := r.db.Exec(`DELETE FROM sources WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete source: %w", err)
	}
	return checkAffected(res)
}

func (r *SQLSourceRepository) RecordFetch(id int, fetchedAt time.Time, added int) error {
	res, err := r.db.Exec(`
		UPDATE sources
		SET last_fetch = ?, article_count = article_count + ?
		WHERE id = ?
	`, formatTime(fetchedAt), added, id)
	if err != nil {
		return fmt.Errorf("failed to record source fetch: %w", err)
	}
	return checkAffected(res)
}
