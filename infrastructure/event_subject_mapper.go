package infrastructure

import (
	"fmt"

	"adboard/domain/events"
)

// EventSubjectMapper handles mapping between domain events and NATS subjects
type EventSubjectMapper struct{}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{}
}

// MapEventToSubject converts a domain event to its corresponding NATS subject
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	switch event.Type() {
	case events.EventTypeBalanceChange:
		return "ledger.balance_changed"
	case events.EventTypeAccountCreated:
		return "accounts.created"
	case events.EventTypeRequestProcessed:
		return "credits.request_processed"
	case events.EventTypePostScheduled:
		return "posts.scheduled"
	case events.EventTypeFireTimeResolved:
		return "dispatch.fire_time_resolved"
	default:
		// Fallback for unknown event types
		return fmt.Sprintf("unknown.%s", event.Type())
	}
}

// MapSubjectToEventType converts a NATS subject back to an event type
func (m *EventSubjectMapper) MapSubjectToEventType(subject string) events.EventType {
	switch subject {
	case "ledger.balance_changed":
		return events.EventTypeBalanceChange
	case "accounts.created":
		return events.EventTypeAccountCreated
	case "credits.request_processed":
		return events.EventTypeRequestProcessed
	case "posts.scheduled":
		return events.EventTypePostScheduled
	case "dispatch.fire_time_resolved":
		return events.EventTypeFireTimeResolved
	default:
		return events.EventType(subject)
	}
}

// GetAllSubjects returns all subjects that this service publishes to
func (m *EventSubjectMapper) GetAllSubjects() []string {
	return []string{
		"ledger.balance_changed",
		"accounts.created",
		"credits.request_processed",
		"posts.scheduled",
		"dispatch.fire_time_resolved",
	}
}
