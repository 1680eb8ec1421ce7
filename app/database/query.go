package database

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
)

// Fold returns the case-folded form of s for case-insensitive matching.
func Fold(s string) string {
	return cases.Fold().String(s)
}

func ContainsFold(s, substr string) bool {
	return strings.Contains(Fold(s), Fold(substr))
}

func matchesArticleQuery(a Article, q ArticleQuery) bool {
	if q.Category != "" && string(a.Category) != q.Category {
		return false
	}
	if q.SourceID != 0 && a.SourceID != q.SourceID {
		return false
	}
	if q.Search != "" && !ContainsFold(a.Title, q.Search) && !ContainsFold(a.Content, q.Search) {
		return false
	}
	return true
}

// SortByPublishDate orders articles newest first, keeping store order for ties.
func SortByPublishDate(articles []Article) {
	slices.SortStableFunc(articles, func(a, b Article) int {
		return b.PublishDate.Compare(a.PublishDate)
	})
}

func buildSummary(articles []Article, now time.Time) Summary {
	summary := Summary{
		TotalArticles: len(articles),
		Categories:    []Category{},
		TopSources:    []string{},
	}

	y, m, d := now.In(time.Local).Date()
	sourceCounts := make(map[string]int)
	for _, a := range articles {
		ay, am, ad := a.PublishDate.In(time.Local).Date()
		if ay == y && am == m && ad == d {
			summary.TodayArticles++
		}
		if !slices.Contains(summary.Categories, a.Category) {
			summary.Categories = append(summary.Categories, a.Category)
		}
		if a.SourceName != "" {
			if _, seen := sourceCounts[a.SourceName]; !seen {
				summary.TopSources = append(summary.TopSources, a.SourceName)
			}
			sourceCounts[a.SourceName]++
		}
	}

	slices.SortFunc(summary.TopSources, func(a, b string) int {
		return cmp.Or(cmp.Compare(sourceCounts[b], sourceCounts[a]), cmp.Compare(a, b))
	})

	return summary
}

func matchesUserQuery(u User, q UserQuery) bool {
	switch q.Status {
	case "pending":
		if u.IsApproved {
			return false
		}
	case "approved":
		if !u.IsApproved {
			return false
		}
	}
	if q.Search != "" && !ContainsFold(u.Name, q.Search) && !ContainsFold(u.Email, q.Search) {
		return false
	}
	return true
}

// NewAPIKey issues a random key of the form ak_<32 hex chars>.
func NewAPIKey() string {
	return "ak_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

func applySourcePatch(s *Source, p SourcePatch) {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.URL != nil {
		s.URL = *p.URL
	}
	if p.FetchInterval != nil {
		s.FetchInterval = *p.FetchInterval
	}
	if p.IsActive != nil {
		s.IsActive = *p.IsActive
		if *p.IsActive {
			s.Status = SourceStatusActive
		} else {
			s.Status = "inactive"
		}
	}
	if p.Status != nil {
		s.Status = *p.Status
		s.IsActive = *p.Status == SourceStatusActive
	}
}

func applyFilterPatch(f *Filter, p FilterPatch) {
	if p.Name != nil {
		f.Name = *p.Name
	}
	if p.Description != nil {
		f.Description = *p.Description
	}
	if p.Rules != nil {
		f.Rules = *p.Rules
	}
	if p.IsActive != nil {
		f.IsActive = *p.IsActive
	}
}

func applyUserPatch(u *User, p UserPatch) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.IsApproved != nil {
		u.IsApproved = *p.IsApproved
	}
	if p.AssignedFilters != nil {
		u.AssignedFilters = p.AssignedFilters
	}
	if p.LastActive != nil {
		u.LastActive = p.LastActive
	}
}

func applyWebhookPatch(w *Webhook, p WebhookPatch) {
	if p.Name != nil {
		w.Name = *p.Name
	}
	if p.URL != nil {
		w.URL = *p.URL
	}
	if p.Events != nil {
		w.Events = p.Events
	}
	if p.IsActive != nil {
		w.IsActive = *p.IsActive
	}
}

// defaults applied on create, shared by every repository implementation

func prepareSource(s Source, id int, now time.Time) Source {
	s.ID = id
	if s.FetchInterval == 0 {
		s.FetchInterval = 30
	}
	if s.IsActive {
		s.Status = SourceStatusActive
	} else {
		s.Status = "inactive"
	}
	s.LastFetch = &now
	s.ArticleCount = 0
	return s
}

func prepareFilter(f Filter, id int, now time.Time) Filter {
	f.ID = id
	f.CreatedBy = "admin"
	f.CreatedDate = now
	f.IsActive = true
	return f
}

func prepareUser(u User, id int, now time.Time) User {
	u.ID = id
	u.Role = RoleUser
	u.IsApproved = false
	u.AssignedFilters = []int{}
	u.APIKey = nil
	u.RegistrationDate = now
	u.LastActive = nil
	return u
}

func prepareWebhook(w Webhook, id int) Webhook {
	w.ID = id
	if w.Events == nil {
		w.Events = []string{}
	}
	w.LastTriggered = nil
	w.SuccessCount = 0
	w.ErrorCount = 0
	return w
}
