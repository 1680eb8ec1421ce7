package api

import (
	"context"

	"github.com/lysyi3m/rss-desk/app/database"
	"github.com/lysyi3m/rss-desk/app/feed"
	"github.com/lysyi3m/rss-desk/app/webhook"
)

type IngestorInterface interface {
	IngestActive(ctx context.Context) (*feed.Report, error)
}

type InspectorInterface interface {
	Inspect(ctx context.Context, url string) (*feed.Inspection, error)
}

type WebhookTesterInterface interface {
	Test(ctx context.Context, id int) (*webhook.Result, error)
}

type GeneratorInterface interface {
	Run(filter database.Filter, articles []database.Article, selfLink string) (string, error)
}

var (
	_ GeneratorInterface     = (*feed.Generator)(nil)
	_ IngestorInterface      = (*feed.Aggregator)(nil)
	_ InspectorInterface     = (*feed.Inspector)(nil)
	_ WebhookTesterInterface = (*webhook.Pinger)(nil)
)

type Handler struct {
	articleRepo database.ArticleRepository
	sourceRepo  database.SourceRepository
	filterRepo  database.FilterRepository
	userRepo    database.UserRepository
	webhookRepo database.WebhookRepository

	ingestor  IngestorInterface
	inspector InspectorInterface
	tester    WebhookTesterInterface
	filterer  *feed.Filterer
	generator GeneratorInterface
	version   string
}

// Repositories groups the stores the handler serves
type Repositories struct {
	Articles database.ArticleRepository
	Sources  database.SourceRepository
	Filters  database.FilterRepository
	Users    database.UserRepository
	Webhooks database.WebhookRepository
}

type fetchResponse struct {
	Fetched       int                `json:"fetched"`
	Articles      []database.Article `json:"articles"`
	Errors        []string           `json:"errors"`
	FailedSources []feed.SourceError `json:"failed_sources"`
}

type sourceRequest struct {
	Name          string `json:"name"`
	URL           string `json:"url"`
	FetchInterval int    `json:"fetchInterval"`
	IsActive      *bool  `json:"isActive"`
}

type testFeedRequest struct {
	URL string `json:"url"`
}

type filterRequest struct {
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Rules       database.FilterRules `json:"rules"`
}

type userRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type webhookRequest struct {
	Name     string   `json:"name"`
	URL      string   `json:"url"`
	Events   []string `json:"events"`
	IsActive *bool    `json:"isActive"`
}
