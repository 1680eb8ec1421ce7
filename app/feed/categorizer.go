package feed

import (
	"strings"

	"github.com/lysyi3m/rss-desk/app/database"
	"golang.org/x/text/cases"
)

type keywordGroup struct {
	category database.Category
	keywords []string
}

// evaluated in order; the first group with a matching keyword wins
var keywordGroups = []keywordGroup{
	{database.CategoryTechnology, []string{"tech", "software", "ai", "digital"}},
	{database.CategoryBusiness, []string{"business", "market", "economy"}},
	{database.CategoryHealth, []string{"health", "medical", "wellness"}},
	{database.CategoryEnvironment, []string{"environment", "climate", "green"}},
	{database.CategoryScience, []string{"science", "research", "study"}},
	{database.CategoryFinance, []string{"finance", "money", "investment"}},
}

// Categorize assigns a category using case-insensitive substring matches.
// Text matching no group falls back to Technology.
func Categorize(text string) database.Category {
	folded := cases.Fold().String(text)

	for _, group := range keywordGroups {
		for _, keyword := range group.keywords {
			if strings.Contains(folded, keyword) {
				return group.category
			}
		}
	}

	return database.CategoryTechnology
}
