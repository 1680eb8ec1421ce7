package feed

import (
	"context"
)

// Inspection describes a feed URL probed before it is registered as a source
type Inspection struct {
	Valid       bool   `json:"valid"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ItemCount   int    `json:"itemCount"`
}

type Inspector struct {
	fetcher FeedFetcher
}

func NewInspector(fetcher FeedFetcher) *Inspector {
	return &Inspector{fetcher: fetcher}
}

// Inspect fetches url once; fetch failures are returned unchanged
func (i *Inspector) Inspect(ctx context.Context, url string) (*Inspection, error) {
	raw, err := i.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	title := raw.Title
	if title == "" {
		title = DefaultSourceName
	}

	return &Inspection{
		Valid:       true,
		Title:       title,
		Description: raw.Description,
		ItemCount:   len(raw.Items),
	}, nil
}
