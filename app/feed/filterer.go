package feed

import (
	"slices"

	"github.com/lysyi3m/rss-desk/app/database"
)

type Filterer struct{}

func NewFilterer() *Filterer {
	return &Filterer{}
}

// Run returns the articles matching rules, preserving input order
func (f *Filterer) Run(articles []database.Article, rules database.FilterRules) []database.Article {
	matched := make([]database.Article, 0, len(articles))
	for _, article := range articles {
		if f.Match(article, rules) {
			matched = append(matched, article)
		}
	}
	return matched
}

func (f *Filterer) Match(article database.Article, rules database.FilterRules) bool {
	for _, exclude := range rules.ExcludeKeywords {
		if f.matchesText(article, exclude) {
			return false
		}
	}

	if len(rules.Keywords) > 0 {
		matched := false
		for _, keyword := range rules.Keywords {
			if f.matchesText(article, keyword) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if len(rules.Categories) > 0 && !slices.Contains(rules.Categories, article.Category) {
		return false
	}

	if len(rules.Sources) > 0 && !slices.Contains(rules.Sources, article.SourceID) {
		return false
	}

	return true
}

func (f *Filterer) matchesText(article database.Article, pattern string) bool {
	if pattern == "" {
		return false
	}
	return database.ContainsFold(article.Title, pattern) || database.ContainsFold(article.Content, pattern)
}
