package application

import (
	"context"
	"fmt"
	"time"

	"adboard/domain/entities"
	"adboard/domain/interfaces"
	"adboard/domain/services"
	"adboard/observability"

	log "github.com/sirupsen/logrus"
)

// SweepResult tallies what one dispatch sweep did
type SweepResult struct {
	Claimed int
	Sent    int
	Failed  int
	Errors  []error
}

// DispatchWorker periodically claims due fire times and delivers them. The
// claim commits before any send goes out, so a crash mid-sweep leaves rows
// parked in sending rather than double-delivered.
type DispatchWorker struct {
	uowFactory UnitOfWorkFactory
	sender     MessageSender
	interval   time.Duration
	lookahead  time.Duration
}

// NewDispatchWorker creates a new dispatch worker
func NewDispatchWorker(uowFactory UnitOfWorkFactory, sender MessageSender, interval, lookahead time.Duration) *DispatchWorker {
	return &DispatchWorker{
		uowFactory: uowFactory,
		sender:     sender,
		interval:   interval,
		lookahead:  lookahead,
	}
}

// Start runs the sweep loop until the context is cancelled.
// Returns a cleanup function to stop the worker gracefully.
func (w *DispatchWorker) Start(ctx context.Context) func() {
	ticker := time.NewTicker(w.interval)
	stopChan := make(chan struct{})

	runSweep := func() {
		result, err := w.RunSweep(context.Background(), time.Now().UTC())
		if err != nil {
			log.WithError(err).Error("Dispatch sweep failed")
			return
		}
		if result.Claimed > 0 {
			log.WithFields(log.Fields{
				"claimed": result.Claimed,
				"sent":    result.Sent,
				"failed":  result.Failed,
				"errors":  len(result.Errors),
			}).Info("Dispatch sweep completed")
		}
	}

	go func() {
		log.WithField("interval", w.interval).Info("Dispatch worker started")

		// A crash between claim and finalize leaves rows parked in the
		// sending state; fail them before the first sweep so they reach a
		// terminal state instead of lingering unclaimed forever.
		if recovered, err := w.RecoverInterrupted(context.Background()); err != nil {
			log.WithError(err).Error("Failed to recover interrupted deliveries")
		} else if recovered > 0 {
			log.WithField("recovered", recovered).Warn("Failed interrupted deliveries left by a previous run")
		}

		// Run immediately on startup to catch deliveries missed while down
		runSweep()

		for {
			select {
			case <-ctx.Done():
				log.Info("Dispatch worker shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("Dispatch worker shutting down (stop requested)...")
				return
			case <-ticker.C:
				runSweep()
			}
		}
	}()

	// Return cleanup function
	return func() {
		ticker.Stop()
		close(stopChan)
	}
}

// RecoverInterrupted fails every occurrence a previous run left in the
// sending state and rolls up the affected posts. Safe only while no sweep
// is in flight. Returns the number of posts touched.
func (w *DispatchWorker) RecoverInterrupted(ctx context.Context) (int, error) {
	uow := w.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin recovery transaction: %w", err)
	}

	postIDs, err := uow.PostRepository().FailInterruptedDeliveries(ctx)
	if err != nil {
		uow.Rollback()
		return 0, fmt.Errorf("failed to fail interrupted deliveries: %w", err)
	}

	for _, postID := range postIDs {
		fireTimes, err := uow.PostRepository().ListFireTimesByPost(ctx, postID)
		if err != nil {
			uow.Rollback()
			return 0, fmt.Errorf("failed to list fire times for post %d: %w", postID, err)
		}
		if err := uow.PostRepository().UpdatePostStatus(ctx, postID, entities.RollupPostStatus(fireTimes)); err != nil {
			uow.Rollback()
			return 0, fmt.Errorf("failed to roll up post %d status: %w", postID, err)
		}
	}

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit recovery transaction: %w", err)
	}

	return len(postIDs), nil
}

// RunSweep executes one sweep: claim every due occurrence, attempt delivery
// for each, and finalize each outcome in its own transaction. One bad
// occurrence never blocks the rest of the batch.
func (w *DispatchWorker) RunSweep(ctx context.Context, now time.Time) (*SweepResult, error) {
	started := time.Now()
	observability.SweepsTotal.Inc()
	defer func() {
		observability.SweepDuration.Observe(time.Since(started).Seconds())
	}()

	due, err := w.claimDue(ctx, now)
	if err != nil {
		return nil, err
	}

	result := &SweepResult{Claimed: len(due)}
	observability.FireTimesClaimed.Add(float64(len(due)))

	for _, item := range due {
		outcome := w.attemptDelivery(ctx, item)
		if outcome.Delivered {
			result.Sent++
			observability.DeliveryResults.WithLabelValues("sent").Inc()
		} else {
			result.Failed++
			observability.DeliveryResults.WithLabelValues("failed").Inc()
		}

		if err := w.finalize(ctx, item, outcome, now); err != nil {
			log.WithError(err).WithField("fireTimeID", item.FireTime.ID).Error("Failed to finalize delivery")
			result.Errors = append(result.Errors, err)
		}
	}

	return result, nil
}

// claimDue claims every scheduled occurrence inside the sweep window. The
// claim transaction commits before any send is attempted.
func (w *DispatchWorker) claimDue(ctx context.Context, now time.Time) ([]*interfaces.DueFireTime, error) {
	uow := w.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin claim transaction: %w", err)
	}

	due, err := uow.PostRepository().ClaimDueFireTimes(ctx, now, w.lookahead)
	if err != nil {
		uow.Rollback()
		return nil, fmt.Errorf("failed to claim due fire times: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit claim transaction: %w", err)
	}

	return due, nil
}

// attemptDelivery performs the external send. It runs outside any database
// transaction; the platform call can be slow or hang and must not hold locks.
func (w *DispatchWorker) attemptDelivery(ctx context.Context, item *interfaces.DueFireTime) interfaces.DeliveryOutcome {
	if err := w.sender.SendMessage(ctx, item.DestinationID, item.Content); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"fireTimeID":    item.FireTime.ID,
			"destinationID": item.DestinationID,
		}).Warn("Delivery attempt failed")
		return interfaces.DeliveryOutcome{Delivered: false, FailureReason: err.Error()}
	}
	return interfaces.DeliveryOutcome{Delivered: true}
}

// finalize records the outcome of one delivery in its own transaction
func (w *DispatchWorker) finalize(ctx context.Context, item *interfaces.DueFireTime, outcome interfaces.DeliveryOutcome, now time.Time) error {
	uow := w.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin finalize transaction: %w", err)
	}

	dispatchService := services.NewDispatchService(
		uow.PostRepository(),
		uow.ChannelRepository(),
		uow.EventBus(),
	)

	if err := dispatchService.FinalizeDelivery(ctx, item, outcome, now); err != nil {
		uow.Rollback()
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit finalize transaction: %w", err)
	}

	return nil
}
