// Package generator produces synthetic posts from a hacker-jargon lexicon.
package generator

import (
	"github.com/brianvoe/gofakeit/v7"

	"postboard/internal/domain"
)

// Func returns a freshly generated post. Title and body are never empty.
type Func func() domain.Post

// NewHacker returns a generator whose titles are "adjective noun" and whose
// bodies are single hacker phrases. A seed of 0 picks a random seed; any other
// value makes the sequence reproducible.
func NewHacker(seed uint64) Func {
	f := gofakeit.New(seed)
	return func() domain.Post {
		return domain.Post{
			Title: f.HackerAdjective() + " " + f.HackerNoun(),
			Body:  f.HackerPhrase(),
		}
	}
}

// Batch calls gen n times and returns the results in generation order.
func Batch(gen Func, n int) []domain.Post {
	if n <= 0 {
		return []domain.Post{}
	}
	out := make([]domain.Post, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, gen())
	}
	return out
}
