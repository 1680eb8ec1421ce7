package feed

import (
	"fmt"
	"time"

	"github.com/lysyi3m/rss-desk/app/database"
)

// RawFeed is a parsed RSS/Atom document before normalization
type RawFeed struct {
	Title       string
	Description string
	Published   *time.Time
	Items       []RawItem
}

// RawItem carries every optional field the normalizer may fall back through.
// Empty strings and nil times mean the field was absent.
type RawItem struct {
	Title string
	Link  string

	ContentSnippet string // plain text rendition of Content
	Content        string // content:encoded, else description
	Summary        string // description / Atom summary

	Creator string // dc:creator
	Author  string

	PubDate *time.Time
	ISODate *time.Time

	MediaContentURL   string
	MediaThumbnailURL string
	EnclosureURL      string
}

// SourceError records why one source failed during an ingestion pass
type SourceError struct {
	SourceID   int    `json:"sourceId"`
	SourceName string `json:"sourceName"`
	Message    string `json:"message"`
}

func (e SourceError) String() string {
	return fmt.Sprintf("%s: %s", e.SourceName, e.Message)
}

// Report is the outcome of one ingestion pass
type Report struct {
	Articles []database.Article
	Errors   []SourceError
}

// Messages returns the per-source errors as human-readable strings
func (r *Report) Messages() []string {
	messages := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		messages = append(messages, e.String())
	}
	return messages
}
