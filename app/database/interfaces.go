package database

import (
	"time"
)

type ArticleRepository interface {
	GetAll(query ArticleQuery) ([]Article, error)
	GetByID(id int) (*Article, error)
	List() ([]Article, error)
	MaxID() (int, error)
	Summary(now time.Time) (Summary, error)

	// Prepend inserts the batch ahead of every stored article in one step.
	Prepend(articles []Article) error
}

type SourcePatch struct {
	Name          *string `json:"name"`
	URL           *string `json:"url"`
	FetchInterval *int    `json:"fetchInterval"`
	IsActive      *bool   `json:"isActive"`
	Status        *string `json:"status"`
}

type SourceRepository interface {
	List() ([]Source, error)
	GetByID(id int) (*Source, error)
	Create(source Source) (*Source, error)
	Update(id int, patch SourcePatch) (*Source, error)
	Delete(id int) error

	RecordFetch(id int, fetchedAt time.Time, added int) error
}

type FilterPatch struct {
	Name        *string      `json:"name"`
	Description *string      `json:"description"`
	Rules       *FilterRules `json:"rules"`
	IsActive    *bool        `json:"isActive"`
}

type FilterRepository interface {
	List() ([]Filter, error)
	GetByID(id int) (*Filter, error)
	Create(filter Filter) (*Filter, error)
	Update(id int, patch FilterPatch) (*Filter, error)
	Delete(id int) error
}

type UserPatch struct {
	Name            *string    `json:"name"`
	Email           *string    `json:"email"`
	Role            *string    `json:"role"`
	IsApproved      *bool      `json:"isApproved"`
	AssignedFilters []int      `json:"assignedFilters"`
	LastActive      *time.Time `json:"lastActive"`
}

type UserRepository interface {
	List(query UserQuery) ([]User, error)
	GetByID(id int) (*User, error)
	Create(user User) (*User, error)
	Update(id int, patch UserPatch) (*User, error)
	Delete(id int) error

	Approve(id int) (*User, error)
	GenerateAPIKey(id int) (*User, error)
}

type WebhookPatch struct {
	Name     *string  `json:"name"`
	URL      *string  `json:"url"`
	Events   []string `json:"events"`
	IsActive *bool    `json:"isActive"`
}

type WebhookRepository interface {
	List() ([]Webhook, error)
	GetByID(id int) (*Webhook, error)
	Create(webhook Webhook) (*Webhook, error)
	Update(id int, patch WebhookPatch) (*Webhook, error)
	Delete(id int) error

	RecordTest(id int, success bool, at time.Time) (*Webhook, error)
}
