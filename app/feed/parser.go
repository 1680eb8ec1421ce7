package feed

import (
	"bytes"
	"cmp"
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"
)

type Parser struct {
	gofeedParser *gofeed.Parser
	stripPolicy  *bluemonday.Policy
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
		stripPolicy:  bluemonday.StrictPolicy(),
	}
}

func (p *Parser) Run(data []byte) (*RawFeed, error) {
	feed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	raw := &RawFeed{
		Title:       feed.Title,
		Description: feed.Description,
		Published:   cmp.Or(feed.PublishedParsed, feed.UpdatedParsed),
		Items:       make([]RawItem, 0, len(feed.Items)),
	}

	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		raw.Items = append(raw.Items, p.normalizeItem(item))
	}

	return raw, nil
}

func (p *Parser) normalizeItem(item *gofeed.Item) RawItem {
	raw := RawItem{
		Title:   strings.TrimSpace(item.Title),
		Link:    strings.TrimSpace(item.Link),
		Content: cmp.Or(item.Content, item.Description),
		Summary: item.Description,
		PubDate: item.PublishedParsed,
		ISODate: item.UpdatedParsed,
	}

	raw.ContentSnippet = p.plainText(raw.Content)

	if item.DublinCoreExt != nil && len(item.DublinCoreExt.Creator) > 0 {
		raw.Creator = strings.TrimSpace(item.DublinCoreExt.Creator[0])
	}
	if item.Author != nil {
		raw.Author = strings.TrimSpace(cmp.Or(item.Author.Name, item.Author.Email))
	} else if len(item.Authors) > 0 && item.Authors[0] != nil {
		raw.Author = strings.TrimSpace(cmp.Or(item.Authors[0].Name, item.Authors[0].Email))
	}

	raw.MediaContentURL = mediaURL(item, "content")
	raw.MediaThumbnailURL = mediaURL(item, "thumbnail")

	// RSS 2.0 allows only one enclosure per item
	if len(item.Enclosures) > 0 && item.Enclosures[0] != nil {
		raw.EnclosureURL = item.Enclosures[0].URL
	}

	return raw
}

// mediaURL returns the url attribute of the first media:<name> element
func mediaURL(item *gofeed.Item, name string) string {
	media, ok := item.Extensions["media"]
	if !ok {
		return ""
	}

	for _, ext := range media[name] {
		if u := ext.Attrs["url"]; u != "" {
			return u
		}
	}

	// media:group wraps content and thumbnails in some feeds
	for _, group := range media["group"] {
		for _, ext := range group.Children[name] {
			if u := ext.Attrs["url"]; u != "" {
				return u
			}
		}
	}

	return ""
}

func (p *Parser) plainText(s string) string {
	if s == "" {
		return ""
	}
	text := html.UnescapeString(p.stripPolicy.Sanitize(s))
	return strings.Join(strings.Fields(text), " ")
}
