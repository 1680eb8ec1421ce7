package database

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Fixtures holds the seed data loaded from the fixtures directory
type Fixtures struct {
	Sources  []Source
	Articles []Article
	Filters  []Filter
	Users    []User
	Webhooks []Webhook
}

// LoadFixtures reads sources.yml, articles.yml, filters.yml, users.yml and
// webhooks.yml from dir. Missing files or a missing directory yield empty sets.
func LoadFixtures(dir string) (*Fixtures, error) {
	fixtures := &Fixtures{}

	files := []struct {
		name   string
		target any
	}{
		{"sources.yml", &fixtures.Sources},
		{"articles.yml", &fixtures.Articles},
		{"filters.yml", &fixtures.Filters},
		{"users.yml", &fixtures.Users},
		{"webhooks.yml", &fixtures.Webhooks},
	}

	for _, f := range files {
		path := filepath.Join(dir, f.name)
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, f.target); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	if err := fixtures.validate(); err != nil {
		return nil, err
	}

	slog.Debug("Fixtures loaded", "dir", dir,
		"sources", len(fixtures.Sources),
		"articles", len(fixtures.Articles),
		"filters", len(fixtures.Filters),
		"users", len(fixtures.Users),
		"webhooks", len(fixtures.Webhooks))

	return fixtures, nil
}

func (f *Fixtures) validate() error {
	seen := make(map[int]bool, len(f.Articles))
	for i, a := range f.Articles {
		if seen[a.ID] {
			return fmt.Errorf("duplicate article id %d at index %d", a.ID, i)
		}
		seen[a.ID] = true
		if _, err := ParseCategory(string(a.Category)); err != nil {
			return fmt.Errorf("article %d: %w", a.ID, err)
		}
	}
	for i, s := range f.Sources {
		if s.ID == 0 {
			return fmt.Errorf("source at index %d has no id", i)
		}
	}
	return nil
}

// Seed writes fixtures into empty tables. Tables that already hold rows are left alone.
func Seed(db *DB, fixtures *Fixtures) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	isEmpty := func(table string) (bool, error) {
		var count int
		if err := tx.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
			return false, fmt.Errorf("failed to count %s: %w", table, err)
		}
		return count == 0, nil
	}

	seeders := []struct {
		table string
		seed  func() error
	}{
		{"sources", func() error {
			for _, s := range fixtures.Sources {
				if err := insertSource(tx, s); err != nil {
					return err
				}
			}
			return nil
		}},
		{"articles", func() error {
			return insertArticles(tx, 0, fixtures.Articles)
		}},
		{"filters", func() error {
			for _, f := range fixtures.Filters {
				if err := insertFilter(tx, f); err != nil {
					return err
				}
			}
			return nil
		}},
		{"users", func() error {
			for _, u := range fixtures.Users {
				if err := insertUser(tx, u); err != nil {
					return err
				}
			}
			return nil
		}},
		{"webhooks", func() error {
			for _, w := range fixtures.Webhooks {
				if w.Events == nil {
					w.Events = []string{}
				}
				if err := insertWebhook(tx, w); err != nil {
					return err
				}
			}
			return nil
		}},
	}

	for _, s := range seeders {
		empty, err := isEmpty(s.table)
		if err != nil {
			return err
		}
		if !empty {
			slog.Debug("Table already populated, skipping seed", "table", s.table)
			continue
		}
		if err := s.seed(); err != nil {
			return fmt.Errorf("failed to seed %s: %w", s.table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed: %w", err)
	}
	return nil
}
