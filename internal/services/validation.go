package services

import (
	"strings"
	"unicode/utf8"

	"github.com/anonto42/microblog/backend/internal/apperr"
	"github.com/anonto42/microblog/backend/internal/models"
	"github.com/anonto42/microblog/backend/internal/repositories"
	"github.com/pkg/errors"
)

func validateContent(field, content string) error {
	if strings.TrimSpace(content) == "" {
		return apperr.Validation(field, "%s is required", field)
	}
	if n := utf8.RuneCountInString(content); n > models.MaxContentLength {
		return apperr.Validation(field, "%s must be at most %d characters, got %d", field, models.MaxContentLength, n)
	}
	return nil
}

func requireActor(actorID string) error {
	if strings.TrimSpace(actorID) == "" {
		return apperr.Validation("actor_id", "an authenticated actor is required")
	}
	return nil
}

// normalizeSet trims and lower-cases values, dropping blanks and repeats
// while keeping first-seen order.
func normalizeSet(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// unionIDs appends the ids of each list in order, skipping repeats.
func unionIDs(lists ...[]string) []string {
	out := []string{}
	seen := map[string]struct{}{}
	for _, list := range lists {
		for _, id := range list {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}

// isMissing reports whether a repository error means "no such record".
func isMissing(err error) bool {
	return errors.Is(err, repositories.ErrNotFound) || errors.Is(err, repositories.ErrInvalidID)
}
