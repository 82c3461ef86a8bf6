// Package posts holds the post store: a list of generated posts, a search
// query and the filtered view derived from the two.
package posts

import (
	"sync"

	"go.uber.org/zap"

	"postboard/internal/domain"
	"postboard/internal/eventbus"
	"postboard/internal/generator"
)

// DefaultInitialCount is the number of posts generated when a store is created
const DefaultInitialCount = 30

// Store owns the posts and the search query.
//
// Every mutator publishes at most one event on the bus. The visible view is
// recomputed lazily and reused until the posts or the query change.
type Store struct {
	mu    sync.RWMutex
	items []domain.Post
	query string

	// version increments on every change to items
	version uint64

	cache struct {
		valid   bool
		version uint64
		query   string
		result  []domain.Post
	}

	initialCount int
	gen          generator.Func
	bus          eventbus.EventBus
	logger       *zap.Logger
}

// Option configures a Store
type Option func(*Store)

// WithBus attaches an event bus that receives change events
func WithBus(bus eventbus.EventBus) Option {
	return func(s *Store) { s.bus = bus }
}

// WithLogger sets the logger used by the store
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithInitialCount overrides how many posts are generated at creation
func WithInitialCount(n int) Option {
	return func(s *Store) {
		if n < 0 {
			n = 0
		}
		s.initialCount = n
	}
}

// New creates a store seeded with generated posts and an empty query.
func New(gen generator.Func, opts ...Option) *Store {
	s := &Store{
		initialCount: DefaultInitialCount,
		gen:          gen,
		bus:          eventbus.NullBus{},
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.bus == nil {
		s.bus = eventbus.NullBus{}
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}

	s.items = generator.Batch(gen, s.initialCount)

	s.logger.Debug("post store initialized", zap.Int("posts", len(s.items)))
	return s
}

// Generate returns a new post from the store's generator without adding it.
func (s *Store) Generate() domain.Post {
	return s.gen()
}

// Posts returns a copy of every post, newest first.
func (s *Store) Posts() []domain.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Post, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of posts held, ignoring the query.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Query returns the current search query.
func (s *Store) Query() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query
}

// VisiblePosts returns the posts matching the current query in store order.
// The returned slice must not be modified.
func (s *Store) VisiblePosts() []domain.Post {
	s.mu.RLock()
	if s.cache.valid && s.cache.version == s.version && s.cache.query == s.query {
		result := s.cache.result
		s.mu.RUnlock()
		return result
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another reader may have filled the cache meanwhile
	if s.cache.valid && s.cache.version == s.version && s.cache.query == s.query {
		return s.cache.result
	}

	s.cache.result = Filter(s.items, s.query)
	s.cache.version = s.version
	s.cache.query = s.query
	s.cache.valid = true

	s.logger.Debug("visible posts recomputed",
		zap.String("query", s.query),
		zap.Int("visible", len(s.cache.result)),
		zap.Int("total", len(s.items)))

	return s.cache.result
}

// AddPost prepends post to the store. It never fails and does not validate.
func (s *Store) AddPost(post domain.Post) {
	s.mu.Lock()
	items := make([]domain.Post, 0, len(s.items)+1)
	items = append(items, post)
	items = append(items, s.items...)
	s.items = items
	s.version++
	total := len(s.items)
	s.mu.Unlock()

	s.logger.Debug("post added", zap.String("title", post.Title), zap.Int("total", total))
	s.bus.Publish(eventbus.PostAddedEvent{Post: post, Total: total})
}

// ClearPosts removes every post. The query is left as it is, so an active
// search keeps applying to posts added afterwards.
func (s *Store) ClearPosts() {
	s.mu.Lock()
	removed := len(s.items)
	s.items = []domain.Post{}
	s.version++
	s.mu.Unlock()

	s.logger.Debug("posts cleared", zap.Int("removed", removed))
	s.bus.Publish(eventbus.PostsClearedEvent{Removed: removed})
}

// SetQuery replaces the search query. Setting the current value again is a
// no-op and publishes nothing.
func (s *Store) SetQuery(query string) {
	s.mu.Lock()
	previous := s.query
	if previous == query {
		s.mu.Unlock()
		return
	}
	s.query = query
	s.mu.Unlock()

	s.logger.Debug("query changed", zap.String("query", query))
	s.bus.Publish(eventbus.QueryChangedEvent{Previous: previous, Query: query})
}
