package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventPostAdded    EventType = "PostAdded"
	EventPostsCleared EventType = "PostsCleared"
	EventQueryChanged EventType = "QueryChanged"
	EventConfigLoaded EventType = "ConfigLoaded"
	EventConfigSaved  EventType = "ConfigSaved"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// PostAddedEvent is emitted when a post is prepended to the store
type PostAddedEvent struct {
	Post  Post
	Total int // number of posts after the addition
}

func (e PostAddedEvent) Type() EventType { return EventPostAdded }

// PostsClearedEvent is emitted when the store drops all of its posts
type PostsClearedEvent struct {
	Removed int
}

func (e PostsClearedEvent) Type() EventType { return EventPostsCleared }

// QueryChangedEvent is emitted when the search query changes
type QueryChangedEvent struct {
	Previous string
	Query    string
}

func (e QueryChangedEvent) Type() EventType { return EventQueryChanged }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path         string
	InitialPosts int
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct {
	Path string
}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }
