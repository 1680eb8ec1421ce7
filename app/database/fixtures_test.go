package database

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFixture(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
}

func TestLoadFixtures(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "sources.yml", `
- id: 1
  name: Wire
  url: https://wire.example/rss
  fetchInterval: 30
  isActive: true
  status: active
`)
	writeFixture(t, dir, "articles.yml", `
- id: 7
  title: Hello
  content: World
  url: https://wire.example/hello
  publishDate: 2024-05-02T12:00:00Z
  category: Science
  sourceName: Wire
  sourceId: 1
  imageUrl: null
  readTime: 1
  author: Someone
`)

	fixtures, err := LoadFixtures(dir)
	if err != nil {
		t.Fatalf("LoadFixtures failed: %v", err)
	}

	if len(fixtures.Sources) != 1 || fixtures.Sources[0].Name != "Wire" {
		t.Errorf("Expected 1 source 'Wire', got %+v", fixtures.Sources)
	}
	if len(fixtures.Articles) != 1 {
		t.Fatalf("Expected 1 article, got %d", len(fixtures.Articles))
	}
	article := fixtures.Articles[0]
	if article.ID != 7 || article.Category != CategoryScience || !article.PublishDate.Equal(noon(2)) {
		t.Errorf("Unexpected article: %+v", article)
	}
	if article.ImageURL != nil {
		t.Errorf("Expected nil image URL, got %v", *article.ImageURL)
	}
	if len(fixtures.Filters) != 0 || len(fixtures.Users) != 0 || len(fixtures.Webhooks) != 0 {
		t.Error("Expected missing files to yield empty sets")
	}
}

func TestLoadFixturesMissingDir(t *testing.T) {
	fixtures, err := LoadFixtures(filepath.Join(t.TempDir(), "missing"))
	if err != nil {
		t.Fatalf("Expected missing dir to be fine, got %v", err)
	}
	if len(fixtures.Articles) != 0 {
		t.Errorf("Expected no articles, got %d", len(fixtures.Articles))
	}
}

func TestLoadFixturesInvalid(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"bad yaml", "sources.yml", "- id: [unterminated"},
		{"unknown category", "articles.yml", "- id: 1\n  category: Sports\n"},
		{"duplicate ids", "articles.yml", "- id: 1\n  category: Science\n- id: 1\n  category: Health\n"},
		{"source without id", "sources.yml", "- name: Nameless\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFixture(t, dir, tt.file, tt.content)
			if _, err := LoadFixtures(dir); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	fixtures := &Fixtures{
		Sources:  []Source{{ID: 1, Name: "Wire", URL: "https://wire.example/rss", FetchInterval: 30, IsActive: true, Status: "active"}},
		Articles: seedArticles(),
		Webhooks: []Webhook{{ID: 1, Name: "Hook", URL: "https://hooks.example/x"}},
	}

	for range 2 {
		if err := Seed(db, fixtures); err != nil {
			t.Fatalf("Seed failed: %v", err)
		}
	}

	articles, _ := NewArticleRepository(db).List()
	if len(articles) != 3 {
		t.Errorf("Expected 3 articles after seeding twice, got %d", len(articles))
	}
	sources, _ := NewSourceRepository(db).List()
	if len(sources) != 1 {
		t.Errorf("Expected 1 source after seeding twice, got %d", len(sources))
	}
	hook, err := NewWebhookRepository(db).GetByID(1)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if hook.Events == nil {
		t.Error("Expected seeded webhook events to be non-nil")
	}
}

func TestNewConnectionReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")

	db, err := NewConnection(path)
	if err != nil {
		t.Fatalf("NewConnection failed: %v", err)
	}
	if err := NewArticleRepository(db).Prepend(seedArticles()); err != nil {
		t.Fatalf("Prepend failed: %v", err)
	}
	db.Close()

	db, err = NewConnection(path)
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer db.Close()

	maxID, err := NewArticleRepository(db).MaxID()
	if err != nil || maxID != 3 {
		t.Errorf("Expected persisted max id 3, got %d (%v)", maxID, err)
	}
}
