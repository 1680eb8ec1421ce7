package database

import (
	"fmt"
	"time"
)

type Category string

const (
	CategoryTechnology  Category = "Technology"
	CategoryBusiness    Category = "Business"
	CategoryHealth      Category = "Health"
	CategoryEnvironment Category = "Environment"
	CategoryScience     Category = "Science"
	CategoryFinance     Category = "Finance"
)

// Categories lists every valid category in display order
var Categories = []Category{
	CategoryTechnology,
	CategoryBusiness,
	CategoryFinance,
	CategoryEnvironment,
	CategoryScience,
	CategoryHealth,
}

func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

type Article struct {
	ID          int       `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Content     string    `json:"content" yaml:"content"`
	URL         string    `json:"url" yaml:"url"`
	PublishDate time.Time `json:"publishDate" yaml:"publishDate"`
	Category    Category  `json:"category" yaml:"category"`
	SourceName  string    `json:"sourceName" yaml:"sourceName"`
	SourceID    int       `json:"sourceId" yaml:"sourceId"`
	ImageURL    *string   `json:"imageUrl" yaml:"imageUrl"`
	ReadTime    int       `json:"readTime" yaml:"readTime"`
	Author      string    `json:"author" yaml:"author"`
}

type ArticleQuery struct {
	Category string
	SourceID int
	Search   string
}

type Summary struct {
	TotalArticles int        `json:"totalArticles"`
	TodayArticles int        `json:"todayArticles"`
	Categories    []Category `json:"categories"`
	TopSources    []string   `json:"topSources"`
}

const SourceStatusActive = "active"

type Source struct {
	ID            int        `json:"id" yaml:"id"`
	Name          string     `json:"name" yaml:"name"`
	URL           string     `json:"url" yaml:"url"`
	FetchInterval int        `json:"fetchInterval" yaml:"fetchInterval"` // minutes
	IsActive      bool       `json:"isActive" yaml:"isActive"`
	Status        string     `json:"status" yaml:"status"`
	LastFetch     *time.Time `json:"lastFetch" yaml:"lastFetch"`
	ArticleCount  int        `json:"articleCount" yaml:"articleCount"`
}

func (s Source) Active() bool {
	return s.IsActive || s.Status == SourceStatusActive
}

type FilterRules struct {
	Keywords        []string   `json:"keywords" yaml:"keywords"`
	Categories      []Category `json:"categories" yaml:"categories"`
	Sources         []int      `json:"sources" yaml:"sources"`
	ExcludeKeywords []string   `json:"excludeKeywords" yaml:"excludeKeywords"`
}

type Filter struct {
	ID          int         `json:"id" yaml:"id"`
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description" yaml:"description"`
	Rules       FilterRules `json:"rules" yaml:"rules"`
	CreatedBy   string      `json:"createdBy" yaml:"createdBy"`
	CreatedDate time.Time   `json:"createdDate" yaml:"createdDate"`
	IsActive    bool        `json:"isActive" yaml:"isActive"`
}

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type User struct {
	ID               int        `json:"id" yaml:"id"`
	Name             string     `json:"name" yaml:"name"`
	Email            string     `json:"email" yaml:"email"`
	Role             string     `json:"role" yaml:"role"`
	IsApproved       bool       `json:"isApproved" yaml:"isApproved"`
	AssignedFilters  []int      `json:"assignedFilters" yaml:"assignedFilters"`
	APIKey           *string    `json:"apiKey" yaml:"apiKey"`
	RegistrationDate time.Time  `json:"registrationDate" yaml:"registrationDate"`
	LastActive       *time.Time `json:"lastActive" yaml:"lastActive"`
}

type UserQuery struct {
	Status string // pending, approved or empty for all
	Search string
}

// WebhookEvents lists the events a webhook may subscribe to
var WebhookEvents = []string{
	"article.published",
	"article.updated",
	"filter.applied",
	"user.registered",
}

type Webhook struct {
	ID            int        `json:"id" yaml:"id"`
	Name          string     `json:"name" yaml:"name"`
	URL           string     `json:"url" yaml:"url"`
	Events        []string   `json:"events" yaml:"events"`
	IsActive      bool       `json:"isActive" yaml:"isActive"`
	LastTriggered *time.Time `json:"lastTriggered" yaml:"lastTriggered"`
	SuccessCount  int        `json:"successCount" yaml:"successCount"`
	ErrorCount    int        `json:"errorCount" yaml:"errorCount"`
}
