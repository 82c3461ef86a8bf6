package posts

import (
	"strings"

	"postboard/internal/domain"
)

// MatchesQuery checks if a post matches the given search query.
// Matching is a case-insensitive substring test over title and body.
func MatchesQuery(post domain.Post, query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(post.Text()), strings.ToLower(query))
}

// Filter returns the posts matching query, preserving their relative order.
// An empty query returns items itself.
func Filter(items []domain.Post, query string) []domain.Post {
	if query == "" {
		return items
	}

	lowerQuery := strings.ToLower(query)
	matched := make([]domain.Post, 0, len(items))
	for _, post := range items {
		if strings.Contains(strings.ToLower(post.Text()), lowerQuery) {
			matched = append(matched, post)
		}
	}
	return matched
}
