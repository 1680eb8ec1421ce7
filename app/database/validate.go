package database

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

var feedURLPattern = regexp.MustCompile(`^https?://.+`)

const MinFetchInterval = 5 // minutes

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func ValidateSource(s Source) error {
	requiredFields := map[string]string{
		"name": s.Name,
		"url":  s.URL,
	}
	for fieldName, fieldValue := range requiredFields {
		if strings.TrimSpace(fieldValue) == "" {
			return invalid("%s is required", fieldName)
		}
	}
	if !feedURLPattern.MatchString(s.URL) {
		return invalid("url must start with http:// or https://")
	}
	if s.FetchInterval < MinFetchInterval {
		return invalid("fetch interval must be at least %d minutes", MinFetchInterval)
	}
	return nil
}

func ValidateFilter(f Filter) error {
	if strings.TrimSpace(f.Name) == "" {
		return invalid("name is required")
	}
	for _, c := range f.Rules.Categories {
		if _, err := ParseCategory(string(c)); err != nil {
			return invalid("%v", err)
		}
	}
	return nil
}

func ValidateUser(u User) error {
	if strings.TrimSpace(u.Name) == "" {
		return invalid("name is required")
	}
	if !strings.Contains(u.Email, "@") {
		return invalid("email %q is not valid", u.Email)
	}
	if u.Role != RoleAdmin && u.Role != RoleUser {
		return invalid("role must be %q or %q", RoleAdmin, RoleUser)
	}
	return nil
}

func ValidateWebhook(w Webhook) error {
	if strings.TrimSpace(w.Name) == "" {
		return invalid("name is required")
	}
	if !feedURLPattern.MatchString(w.URL) {
		return invalid("url must start with http:// or https://")
	}
	for _, event := range w.Events {
		if !slices.Contains(WebhookEvents, event) {
			return invalid("unknown event %q", event)
		}
	}
	return nil
}
