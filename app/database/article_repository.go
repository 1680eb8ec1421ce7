package database

import (
	"database/sql"
	"fmt"
	"time"
)

// SQLArticleRepository handles database operations for articles
type SQLArticleRepository struct {
	db *DB
}

var _ ArticleRepository = (*SQLArticleRepository)(nil)

func NewArticleRepository(db *DB) *SQLArticleRepository {
	return &SQLArticleRepository{db: db}
}

const articleColumns = `id, title, content, url, publish_date, category, source_name, source_id, image_url, read_time, author`

func (r *SQLArticleRepository) GetAll(query ArticleQuery) ([]Article, error) {
	sqlQuery := `SELECT ` + articleColumns + ` FROM articles WHERE 1 = 1`
	var args []any

	if query.Category != "" {
		sqlQuery += ` AND category = ?`
		args = append(args, query.Category)
	}
	if query.SourceID != 0 {
		sqlQuery += ` AND source_id = ?`
		args = append(args, query.SourceID)
	}
	sqlQuery += ` ORDER BY batch DESC, position ASC`

	articles, err := r.queryArticles(sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get articles: %w", err)
	}

	// search runs in Go so matching folds case the same way as the memory store
	result := articles[:0]
	for _, a := range articles {
		if matchesArticleQuery(a, ArticleQuery{Search: query.Search}) {
			result = append(result, a)
		}
	}
	SortByPublishDate(result)
	return result, nil
}

func (r *SQLArticleRepository) GetByID(id int) (*Article, error) {
	articles, err := r.queryArticles(`SELECT `+articleColumns+` FROM articles WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get article by ID: %w", err)
	}
	if len(articles) == 0 {
		return nil, ErrNotFound
	}
	return &articles[0], nil
}

func (r *SQLArticleRepository) List() ([]Article, error) {
	articles, err := r.queryArticles(`SELECT ` + articleColumns + ` FROM articles ORDER BY batch DESC, position ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	return articles, nil
}

func (r *SQLArticleRepository) MaxID() (int, error) {
	var maxID int
	if err := r.db.QueryRow(`SELECT COALESCE(MAX(id), 0) FROM articles`).Scan(&maxID); err != nil {
		return 0, fmt.Errorf("failed to get max article ID: %w", err)
	}
	return maxID, nil
}

func (r *SQLArticleRepository) Summary(now time.Time) (Summary, error) {
	articles, err := r.List()
	if err != nil {
		return Summary{}, err
	}
	return buildSummary(articles, now), nil
}

func (r *SQLArticleRepository) Prepend(articles []Article) error {
	if len(articles) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var batch int
	if err := tx.QueryRow(`SELECT COALESCE(MAX(batch), 0) + 1 FROM articles`).Scan(&batch); err != nil {
		return fmt.Errorf("failed to allocate batch: %w", err)
	}

	if err := insertArticles(tx, batch, articles); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit articles: %w", err)
	}
	return nil
}

func insertArticles(tx *sql.Tx, batch int, articles []Article) error {
	stmt, err := tx.Prepare(`
		INSERT INTO articles (id, batch, position, title, content, url, publish_date,
			category, source_name, source_id, image_url, read_time, author)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare article insert: %w", err)
	}
	defer stmt.Close()

	for i, a := range articles {
		_, err := stmt.Exec(a.ID, batch, i, a.Title, a.Content, a.URL, formatTime(a.PublishDate),
			string(a.Category), a.SourceName, a.SourceID, nullString(a.ImageURL), a.ReadTime, a.Author)
		if err != nil {
			return fmt.Errorf("failed to insert article %d: %w", a.ID, err)
		}
	}
	return nil
}

func (r *SQLArticleRepository) queryArticles(query string, args ...any) ([]Article, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	articles := []Article{}
	for rows.Next() {
		var a Article
		var publishDate string
		var category string
		var imageURL sql.NullString

		err := rows.Scan(&a.ID, &a.Title, &a.Content, &a.URL, &publishDate, &category,
			&a.SourceName, &a.SourceID, &imageURL, &a.ReadTime, &a.Author)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article row: %w", err)
		}

		if a.PublishDate, err = parseTime(publishDate); err != nil {
			return nil, err
		}
		a.Category = Category(category)
		a.ImageURL = parseNullString(imageURL)
		articles = append(articles, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating article rows: %w", err)
	}

	return articles, nil
}
