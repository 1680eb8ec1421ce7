package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/rss-desk/app/database"
	"github.com/lysyi3m/rss-desk/app/feed"
	"github.com/lysyi3m/rss-desk/app/webhook"
)

type mockIngestor struct {
	report *feed.Report
	err    error
	calls  int
}

func (m *mockIngestor) IngestActive(ctx context.Context) (*feed.Report, error) {
	m.calls++
	return m.report, m.err
}

type mockInspector struct {
	inspection *feed.Inspection
	err        error
}

func (m *mockInspector) Inspect(ctx context.Context, url string) (*feed.Inspection, error) {
	return m.inspection, m.err
}

type mockTester struct {
	result *webhook.Result
	err    error
}

func (m *mockTester) Test(ctx context.Context, id int) (*webhook.Result, error) {
	return m.result, m.err
}

type testEnv struct {
	router    *gin.Engine
	repos     Repositories
	ingestor  *mockIngestor
	inspector *mockInspector
	tester    *mockTester
}

func newTestEnv(t *testing.T, apiKey string) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	day := time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC)
	repos := Repositories{
		Articles: database.NewMemoryArticleRepository([]database.Article{
			{ID: 2, Title: "Climate talks stall", Content: "Negotiators left", PublishDate: day, Category: database.CategoryEnvironment, SourceName: "Planet", SourceID: 2},
			{ID: 1, Title: "New chip", Content: "Faster AI inference", PublishDate: day.Add(-time.Hour), Category: database.CategoryTechnology, SourceName: "Wire", SourceID: 1},
		}),
		Sources: database.NewMemorySourceRepository([]database.Source{
			{ID: 1, Name: "Wire", URL: "https://wire.example/rss", FetchInterval: 30, IsActive: true, Status: "active"},
		}),
		Filters: database.NewMemoryFilterRepository([]database.Filter{
			{ID: 1, Name: "Green", Rules: database.FilterRules{Categories: []database.Category{database.CategoryEnvironment}}, IsActive: true},
		}),
		Users:    database.NewMemoryUserRepository(nil),
		Webhooks: database.NewMemoryWebhookRepository(nil),
	}

	env := &testEnv{
		repos:     repos,
		ingestor:  &mockIngestor{report: &feed.Report{Articles: []database.Article{}, Errors: []feed.SourceError{}}},
		inspector: &mockInspector{},
		tester:    &mockTester{},
	}
	handler := NewHandler(repos, env.ingestor, env.inspector, env.tester, "test")
	env.router = NewServer(handler, apiKey, false)
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
	}
	return v
}

func TestPublicEndpoints(t *testing.T) {
	env := newTestEnv(t, "secret")

	for _, path := range []string{"/", "/health"} {
		if w := env.do(t, http.MethodGet, path, nil); w.Code != http.StatusOK {
			t.Errorf("GET %s: expected 200, got %d", path, w.Code)
		}
	}
}

func TestAuthMiddleware(t *testing.T) {
	env := newTestEnv(t, "secret")

	tests := []struct {
		name     string
		headers  []string
		expected int
	}{
		{"missing key", nil, http.StatusUnauthorized},
		{"wrong key", []string{"X-API-Key", "nope"}, http.StatusUnauthorized},
		{"header key", []string{"X-API-Key", "secret"}, http.StatusOK},
		{"bearer key", []string{"Authorization", "Bearer secret"}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := env.do(t, http.MethodGet, "/api/articles", nil, tt.headers...); w.Code != tt.expected {
				t.Errorf("Expected %d, got %d", tt.expected, w.Code)
			}
		})
	}
}

func TestListArticles(t *testing.T) {
	env := newTestEnv(t, "")

	w := env.do(t, http.MethodGet, "/api/articles", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	articles := decode[[]database.Article](t, w)
	if len(articles) != 2 || articles[0].ID != 2 {
		t.Errorf("Expected 2 articles newest first, got %+v", articles)
	}

	w = env.do(t, http.MethodGet, "/api/articles?search=ai+inference&source=1", nil)
	articles = decode[[]database.Article](t, w)
	if len(articles) != 1 || articles[0].ID != 1 {
		t.Errorf("Expected article 1, got %+v", articles)
	}

	w = env.do(t, http.MethodGet, "/api/articles?category=Environment", nil)
	articles = decode[[]database.Article](t, w)
	if len(articles) != 1 || articles[0].ID != 2 {
		t.Errorf("Expected article 2, got %+v", articles)
	}

	if w := env.do(t, http.MethodGet, "/api/articles?source=abc", nil); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for bad source, got %d", w.Code)
	}
}

func TestGetArticle(t *testing.T) {
	env := newTestEnv(t, "")

	if w := env.do(t, http.MethodGet, "/api/articles/1", nil); w.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", w.Code)
	}
	if w := env.do(t, http.MethodGet, "/api/articles/99", nil); w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", w.Code)
	}
	if w := env.do(t, http.MethodGet, "/api/articles/abc", nil); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", w.Code)
	}
}

func TestGetSummary(t *testing.T) {
	env := newTestEnv(t, "")

	w := env.do(t, http.MethodGet, "/api/articles/summary", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	summary := decode[database.Summary](t, w)
	if summary.TotalArticles != 2 || len(summary.TopSources) != 2 {
		t.Errorf("Unexpected summary: %+v", summary)
	}
}

func TestFetchArticles(t *testing.T) {
	env := newTestEnv(t, "")
	env.ingestor.report = &feed.Report{
		Articles: []database.Article{{ID: 3, Title: "Fresh"}},
		Errors:   []feed.SourceError{{SourceID: 4, SourceName: "Broken", Message: "HTTP error: 500"}},
	}

	w := env.do(t, http.MethodPost, "/api/articles/fetch", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	resp := decode[fetchResponse](t, w)
	if resp.Fetched != 1 || len(resp.Articles) != 1 {
		t.Errorf("Expected 1 fetched article, got %+v", resp)
	}
	if len(resp.Errors) != 1 || resp.Errors[0] != "Broken: HTTP error: 500" {
		t.Errorf("Unexpected errors: %v", resp.Errors)
	}
	if len(resp.FailedSources) != 1 || resp.FailedSources[0].SourceID != 4 {
		t.Errorf("Unexpected failed sources: %+v", resp.FailedSources)
	}

	env.ingestor.err = errors.New("store unavailable")
	if w := env.do(t, http.MethodPost, "/api/articles/fetch", nil); w.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500 on store failure, got %d", w.Code)
	}
}

func TestSourceCRUD(t *testing.T) {
	env := newTestEnv(t, "")

	w := env.do(t, http.MethodPost, "/api/sources", map[string]any{"name": "Planet", "url": "https://planet.example/rss"})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	created := decode[database.Source](t, w)
	if created.ID != 2 || !created.IsActive || created.Status != "active" || created.FetchInterval != 30 {
		t.Errorf("Unexpected created source: %+v", created)
	}

	w = env.do(t, http.MethodPost, "/api/sources", map[string]any{"name": "Paused", "url": "https://paused.example/rss", "isActive": false})
	if paused := decode[database.Source](t, w); paused.Active() {
		t.Errorf("Expected inactive source, got %+v", paused)
	}

	if w := env.do(t, http.MethodPost, "/api/sources", map[string]any{"name": "Bad", "url": "ftp://bad"}); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for invalid URL, got %d", w.Code)
	}

	w = env.do(t, http.MethodPut, "/api/sources/2", map[string]any{"fetchInterval": 90})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if updated := decode[database.Source](t, w); updated.FetchInterval != 90 || updated.Name != "Planet" {
		t.Errorf("Unexpected updated source: %+v", updated)
	}

	if w := env.do(t, http.MethodDelete, "/api/sources/2", nil); w.Code != http.StatusNoContent {
		t.Errorf("Expected 204, got %d", w.Code)
	}
	if w := env.do(t, http.MethodGet, "/api/sources/2", nil); w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 after delete, got %d", w.Code)
	}
}

func TestTestSource(t *testing.T) {
	env := newTestEnv(t, "")

	env.inspector.inspection = &feed.Inspection{Valid: true, Title: "Wire", ItemCount: 5}
	w := env.do(t, http.MethodPost, "/api/sources/test", map[string]string{"url": "https://wire.example/rss"})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if inspection := decode[feed.Inspection](t, w); inspection.ItemCount != 5 {
		t.Errorf("Unexpected inspection: %+v", inspection)
	}

	env.inspector.err = &feed.FetchError{URL: "https://wire.example/rss", Err: errors.New("HTTP error: 503")}
	if w := env.do(t, http.MethodPost, "/api/sources/test", map[string]string{"url": "https://wire.example/rss"}); w.Code != http.StatusBadGateway {
		t.Errorf("Expected 502, got %d", w.Code)
	}

	env.inspector.err = feed.ErrInvalidInput
	if w := env.do(t, http.MethodPost, "/api/sources/test", map[string]string{"url": "wire"}); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", w.Code)
	}
}

func TestFilterEndpoints(t *testing.T) {
	env := newTestEnv(t, "")

	w := env.do(t, http.MethodGet, "/api/filters/1/articles", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if articles := decode[[]database.Article](t, w); len(articles) != 1 || articles[0].ID != 2 {
		t.Errorf("Expected only environment article, got %+v", articles)
	}

	w = env.do(t, http.MethodPost, "/api/filters", map[string]any{
		"name":  "AI",
		"rules": map[string]any{"keywords": []string{"ai"}, "categories": []string{"Technology"}},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if created := decode[database.Filter](t, w); created.CreatedBy != "admin" || !created.IsActive {
		t.Errorf("Unexpected created filter: %+v", created)
	}

	w = env.do(t, http.MethodPost, "/api/filters", map[string]any{
		"name":  "Sports",
		"rules": map[string]any{"categories": []string{"Sports"}},
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown category, got %d", w.Code)
	}

	if w := env.do(t, http.MethodGet, "/api/filters/42/articles", nil); w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", w.Code)
	}
}

func TestUserEndpoints(t *testing.T) {
	env := newTestEnv(t, "")

	w := env.do(t, http.MethodPost, "/api/users", map[string]string{"name": "Sam", "email": "sam@example.com"})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	user := decode[database.User](t, w)
	if user.IsApproved || user.APIKey != nil || user.Role != database.RoleUser {
		t.Errorf("Unexpected created user: %+v", user)
	}

	w = env.do(t, http.MethodGet, "/api/users?status=pending", nil)
	if users := decode[[]database.User](t, w); len(users) != 1 {
		t.Errorf("Expected 1 pending user, got %d", len(users))
	}
	if w := env.do(t, http.MethodGet, "/api/users?status=unknown", nil); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for bad status, got %d", w.Code)
	}

	w = env.do(t, http.MethodPost, "/api/users/1/approve", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	approved := decode[database.User](t, w)
	if !approved.IsApproved || approved.APIKey == nil {
		t.Errorf("Expected approved user with key, got %+v", approved)
	}

	w = env.do(t, http.MethodPost, "/api/users/1/api-key", nil)
	if rotated := decode[database.User](t, w); rotated.APIKey == nil || *rotated.APIKey == *approved.APIKey {
		t.Errorf("Expected rotated key, got %v", rotated.APIKey)
	}

	if w := env.do(t, http.MethodPost, "/api/users/9/approve", nil); w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", w.Code)
	}
}

func TestWebhookEndpoints(t *testing.T) {
	env := newTestEnv(t, "")

	w := env.do(t, http.MethodPost, "/api/webhooks", map[string]any{
		"name":   "Slack",
		"url":    "https://hooks.example/slack",
		"events": []string{"article.published"},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if hook := decode[database.Webhook](t, w); !hook.IsActive || hook.ID != 1 {
		t.Errorf("Unexpected created webhook: %+v", hook)
	}

	env.tester.result = &webhook.Result{Success: false, Response: "HTTP error: 500", ResponseTime: 12}
	w = env.do(t, http.MethodPost, "/api/webhooks/1/test", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if result := decode[webhook.Result](t, w); result.Success || result.ResponseTime != 12 {
		t.Errorf("Unexpected result: %+v", result)
	}

	env.tester.err = database.ErrNotFound
	if w := env.do(t, http.MethodPost, "/api/webhooks/5/test", nil); w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", w.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t, "secret")

	w := env.do(t, http.MethodOptions, "/api/sources", nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("Expected 204, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("Expected CORS header")
	}
}

func TestGetFilterRSS(t *testing.T) {
	env := newTestEnv(t, "")

	w := env.do(t, http.MethodGet, "/api/filters/1/rss", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/rss+xml; charset=utf-8" {
		t.Errorf("Unexpected content type %q", ct)
	}
	if w.Header().Get("X-Feed-Items") != "1" {
		t.Errorf("Expected 1 feed item, got %s", w.Header().Get("X-Feed-Items"))
	}

	body := w.Body.Bytes()
	if !bytes.Contains(body, []byte("<title>Climate talks stall</title>")) {
		t.Errorf("Expected matching article in feed, got %s", body)
	}
	if bytes.Contains(body, []byte("New chip")) {
		t.Error("Expected non-matching article to be excluded")
	}
}
