package domain

import "time"

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventIndexChanged      EventType = "IndexChanged"
	EventAutoplayChanged   EventType = "AutoplayChanged"
	EventGeometryInvalid   EventType = "GeometryInvalid"
	EventNavigationDropped EventType = "NavigationDropped"
	EventConfigLoaded      EventType = "ConfigLoaded"
	EventConfigSaved       EventType = "ConfigSaved"
	EventRemoteCommand     EventType = "RemoteCommand"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// IndexChangedEvent is emitted when the carousel settles on a different item index.
// It is never emitted for a repeated index.
type IndexChangedEvent struct {
	Old   int
	New   int
	Count int
}

func (e IndexChangedEvent) Type() EventType { return EventIndexChanged }

// AutoplayChangedEvent is emitted when the autoplay timer changes state
type AutoplayChangedEvent struct {
	State    string // "stopped", "running" or "paused"
	Interval time.Duration
}

func (e AutoplayChangedEvent) Type() EventType { return EventAutoplayChanged }

// GeometryInvalidEvent is emitted once when the carousel geometry becomes unusable
type GeometryInvalidEvent struct {
	Reason string
}

func (e GeometryInvalidEvent) Type() EventType { return EventGeometryInvalid }

// NavigationDroppedEvent is emitted when a navigation request is ignored
type NavigationDroppedEvent struct {
	Action string // "next", "previous" or "goto"
	Reason string // "busy", "debounced", "not_ready", "closed"
}

func (e NavigationDroppedEvent) Type() EventType { return EventNavigationDropped }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path  string
	Items int
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct {
	Path string
}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }

// RemoteCommandEvent is emitted when a remote client asks the carousel to move
type RemoteCommandEvent struct {
	Action string // "next", "previous" or "goto"
	Index  int    // only used by "goto"
}

func (e RemoteCommandEvent) Type() EventType { return EventRemoteCommand }
