package feed

import (
	"testing"

	"github.com/lysyi3m/rss-desk/app/database"
)

func TestFilterer_Match(t *testing.T) {
	filterer := NewFilterer()

	article := database.Article{
		ID:       1,
		Title:    "OpenAI ships a new Model",
		Content:  "The release focuses on reasoning benchmarks.",
		Category: database.CategoryTechnology,
		SourceID: 2,
	}

	tests := []struct {
		name     string
		rules    database.FilterRules
		expected bool
	}{
		{"empty rules match everything", database.FilterRules{}, true},
		{"keyword in title", database.FilterRules{Keywords: []string{"model"}}, true},
		{"keyword in content", database.FilterRules{Keywords: []string{"BENCHMARKS"}}, true},
		{"any keyword is enough", database.FilterRules{Keywords: []string{"crypto", "reasoning"}}, true},
		{"no keyword matches", database.FilterRules{Keywords: []string{"crypto"}}, false},
		{"excluded keyword", database.FilterRules{ExcludeKeywords: []string{"openai"}}, false},
		{"exclude beats keyword", database.FilterRules{Keywords: []string{"model"}, ExcludeKeywords: []string{"release"}}, false},
		{"category listed", database.FilterRules{Categories: []database.Category{database.CategoryBusiness, database.CategoryTechnology}}, true},
		{"category not listed", database.FilterRules{Categories: []database.Category{database.CategoryHealth}}, false},
		{"source listed", database.FilterRules{Sources: []int{2, 3}}, true},
		{"source not listed", database.FilterRules{Sources: []int{1}}, false},
		{"empty keyword ignored", database.FilterRules{ExcludeKeywords: []string{""}}, true},
		{
			"all rules combined",
			database.FilterRules{
				Keywords:        []string{"model"},
				Categories:      []database.Category{database.CategoryTechnology},
				Sources:         []int{2},
				ExcludeKeywords: []string{"crypto"},
			},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := filterer.Match(article, tt.rules); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestFilterer_Run(t *testing.T) {
	filterer := NewFilterer()

	articles := []database.Article{
		{ID: 3, Title: "Climate report", Category: database.CategoryEnvironment},
		{ID: 2, Title: "Chip shortage", Category: database.CategoryTechnology},
		{ID: 1, Title: "Sea levels rise", Category: database.CategoryEnvironment},
	}

	result := filterer.Run(articles, database.FilterRules{
		Categories: []database.Category{database.CategoryEnvironment},
	})

	if len(result) != 2 {
		t.Fatalf("Expected 2 articles, got %d", len(result))
	}
	if result[0].ID != 3 || result[1].ID != 1 {
		t.Errorf("Expected input order preserved, got ids %d, %d", result[0].ID, result[1].ID)
	}

	if empty := filterer.Run(nil, database.FilterRules{}); empty == nil || len(empty) != 0 {
		t.Errorf("Expected empty non-nil slice, got %v", empty)
	}
}
