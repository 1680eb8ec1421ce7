package feed

import (
	"cmp"
	"math"
	"strings"
	"time"

	"github.com/lysyi3m/rss-desk/app/database"
)

const (
	DefaultTitle      = "Untitled"
	DefaultAuthor     = "Unknown"
	DefaultSourceName = "RSS Feed"

	wordsPerMinute = 200
)

// Normalize maps one raw item to an Article. ID and Category are left for
// the aggregator and categorizer to fill in.
func Normalize(feed *RawFeed, item RawItem, source database.Source, now time.Time) database.Article {
	content := cmp.Or(item.ContentSnippet, item.Content, item.Summary)

	publishDate := now
	if feed != nil && feed.Published != nil {
		publishDate = *feed.Published
	}
	if d := cmp.Or(item.PubDate, item.ISODate); d != nil {
		publishDate = *d
	}

	var imageURL *string
	if u := cmp.Or(item.MediaContentURL, item.MediaThumbnailURL, item.EnclosureURL); u != "" {
		imageURL = &u
	}

	sourceName := source.Name
	if feed != nil {
		sourceName = cmp.Or(feed.Title, sourceName)
	}

	return database.Article{
		Title:       cmp.Or(item.Title, DefaultTitle),
		Content:     content,
		URL:         item.Link,
		PublishDate: publishDate,
		SourceName:  cmp.Or(sourceName, DefaultSourceName),
		SourceID:    source.ID,
		ImageURL:    imageURL,
		ReadTime:    ReadTime(content),
		Author:      cmp.Or(item.Creator, item.Author, DefaultAuthor),
	}
}

// ReadTime estimates reading minutes at 200 words per minute, never less than one
func ReadTime(content string) int {
	words := len(strings.Fields(content))
	return max(1, int(math.Ceil(float64(words)/wordsPerMinute)))
}
