package services

import (
	"context"
	"fmt"
	"time"

	"adboard/domain/entities"
	"adboard/domain/events"
	"adboard/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// requestService implements the credit request workflow. Approval spans the
// status compare-and-swap and the grant append inside one unit of work, so a
// failure in either half leaves the request pending.
type requestService struct {
	requestRepo    interfaces.CreditRequestRepository
	accountRepo    interfaces.AccountRepository
	ledgerService  interfaces.LedgerService
	eventPublisher interfaces.EventPublisher
}

// NewRequestService creates a new request service
func NewRequestService(
	requestRepo interfaces.CreditRequestRepository,
	accountRepo interfaces.AccountRepository,
	ledgerService interfaces.LedgerService,
	eventPublisher interfaces.EventPublisher,
) interfaces.RequestService {
	return &requestService{
		requestRepo:    requestRepo,
		accountRepo:    accountRepo,
		ledgerService:  ledgerService,
		eventPublisher: eventPublisher,
	}
}

// CreateRequest creates a pending request for credits
func (s *requestService) CreateRequest(ctx context.Context, requesterID int64, grantorID, channelID *int64, amount int64, reason string) (*entities.CreditRequest, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("request amount must be positive: %w", entities.ErrInvalidAmount)
	}
	if grantorID != nil && *grantorID == requesterID {
		return nil, fmt.Errorf("cannot request credits from yourself")
	}

	requester, err := s.accountRepo.GetByID(ctx, requesterID)
	if err != nil {
		return nil, fmt.Errorf("failed to get requester: %w", err)
	}
	if requester == nil {
		return nil, fmt.Errorf("requester %d: %w", requesterID, entities.ErrNotFound)
	}

	request := &entities.CreditRequest{
		RequesterAccountID: requesterID,
		GrantorAccountID:   grantorID,
		ChannelID:          channelID,
		Amount:             amount,
		Reason:             reason,
		Status:             entities.CreditRequestStatusPending,
	}
	if err := s.requestRepo.Create(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to create credit request: %w", err)
	}
	return request, nil
}

// Approve transitions a pending request to approved and appends the grant
func (s *requestService) Approve(ctx context.Context, requestID, approverID int64, amountOverride *int64) (*entities.CreditRequest, error) {
	request, approver, err := s.loadForProcessing(ctx, requestID, approverID)
	if err != nil {
		return nil, err
	}

	amount := request.Amount
	if amountOverride != nil {
		if *amountOverride <= 0 {
			return nil, fmt.Errorf("override amount must be positive: %w", entities.ErrInvalidAmount)
		}
		amount = *amountOverride
	}

	// Claim the request first. A concurrent approval loses the
	// compare-and-swap and surfaces as a conflict, not a double grant.
	now := time.Now()
	swapped, err := s.requestRepo.MarkProcessed(ctx, request.ID, entities.CreditRequestStatusApproved, approverID, "", now)
	if err != nil {
		return nil, fmt.Errorf("failed to mark request approved: %w", err)
	}
	if !swapped {
		return nil, fmt.Errorf("request %d: %w", request.ID, entities.ErrNotPending)
	}

	description := fmt.Sprintf("credit request %d approved", request.ID)
	if _, err := s.ledgerService.Grant(ctx, approver.ID, request.RequesterAccountID, amount, request.GrantKind(), description); err != nil {
		return nil, fmt.Errorf("failed to append grant for request %d: %w", request.ID, err)
	}

	request.Status = entities.CreditRequestStatusApproved
	request.ProcessedByAccountID = &approverID
	request.ProcessedAt = &now
	request.Amount = amount

	s.publishProcessed(request, approverID, amount, true)
	return request, nil
}

// Reject transitions a pending request to rejected with no ledger effect
func (s *requestService) Reject(ctx context.Context, requestID, approverID int64, reason string) (*entities.CreditRequest, error) {
	request, _, err := s.loadForProcessing(ctx, requestID, approverID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	swapped, err := s.requestRepo.MarkProcessed(ctx, request.ID, entities.CreditRequestStatusRejected, approverID, reason, now)
	if err != nil {
		return nil, fmt.Errorf("failed to mark request rejected: %w", err)
	}
	if !swapped {
		return nil, fmt.Errorf("request %d: %w", request.ID, entities.ErrNotPending)
	}

	request.Status = entities.CreditRequestStatusRejected
	request.ProcessedByAccountID = &approverID
	request.ProcessedAt = &now
	request.Notes = reason

	s.publishProcessed(request, approverID, 0, false)
	return request, nil
}

// loadForProcessing fetches the request and validates the terminal-state and
// permission guards shared by approve and reject
func (s *requestService) loadForProcessing(ctx context.Context, requestID, approverID int64) (*entities.CreditRequest, *entities.Account, error) {
	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get request: %w", err)
	}
	if request == nil {
		return nil, nil, fmt.Errorf("request %d: %w", requestID, entities.ErrNotFound)
	}
	if !request.IsPending() {
		return nil, nil, fmt.Errorf("request %d: %w", requestID, entities.ErrNotPending)
	}

	approver, err := s.accountRepo.GetByID(ctx, approverID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get approver: %w", err)
	}
	if approver == nil {
		return nil, nil, fmt.Errorf("approver %d: %w", approverID, entities.ErrNotFound)
	}
	if !request.CanBeProcessedBy(approver) {
		return nil, nil, fmt.Errorf("account %d may not process request %d: %w", approverID, requestID, entities.ErrForbidden)
	}

	return request, approver, nil
}

func (s *requestService) publishProcessed(request *entities.CreditRequest, processedBy, amount int64, approved bool) {
	if err := s.eventPublisher.Publish(events.RequestProcessedEvent{
		RequestID:   request.ID,
		RequesterID: request.RequesterAccountID,
		ProcessedBy: processedBy,
		Amount:      amount,
		Approved:    approved,
	}); err != nil {
		log.WithError(err).Error("Failed to publish request processed event")
	}
}
