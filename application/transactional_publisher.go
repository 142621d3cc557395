package application

import (
	"context"

	"adboard/domain/events"
	"adboard/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// TransactionalEventPublisher holds events published during a unit of work
// and forwards them to the real publisher only after the transaction
// commits. Events from a rolled-back transaction are discarded.
type TransactionalEventPublisher struct {
	real    interfaces.EventPublisher
	pending []events.Event // stashed until Flush
}

// NewTransactionalEventPublisher wraps a real publisher with commit-coupled
// buffering.
func NewTransactionalEventPublisher(real interfaces.EventPublisher) *TransactionalEventPublisher {
	return &TransactionalEventPublisher{real: real}
}

func (p *TransactionalEventPublisher) Publish(event events.Event) error {
	log.WithFields(log.Fields{
		"eventType":    event.Type(),
		"pendingCount": len(p.pending),
	}).Debug("Adding event to transactional publisher pending queue")
	p.pending = append(p.pending, event)
	return nil
}

// Flush forwards pending events after a successful commit. Publish failures
// are logged and skipped; the committed state is already durable and a lost
// notification must not fail the operation.
func (p *TransactionalEventPublisher) Flush(ctx context.Context) error {
	log.WithFields(log.Fields{
		"pendingEventCount": len(p.pending),
	}).Debug("Flushing pending events from transactional publisher")

	for _, event := range p.pending {
		if err := p.real.Publish(event); err != nil {
			log.WithFields(log.Fields{
				"eventType": event.Type(),
				"error":     err,
			}).Error("Failed to publish event after commit")
		}
	}
	p.pending = nil
	return nil
}

// Discard drops pending events after a rollback.
func (p *TransactionalEventPublisher) Discard() {
	p.pending = nil
}
