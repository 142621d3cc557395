package infrastructure

import (
	"adboard/domain/events"
)

// NoopEventPublisher drops events. Used by read-only tooling paths where
// publishing would be noise.
type NoopEventPublisher struct{}

func (n *NoopEventPublisher) Publish(event events.Event) error {
	return nil
}
