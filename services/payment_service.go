package services

import (
	"context"
	"time"

	"github.com/fadhlanhapp/splitbill-backend/models"
	"github.com/fadhlanhapp/splitbill-backend/utils"
)

// PaymentService transitions participant payment states and derives
// bill completion. RecordPayment is the pure transition; RecordBillPayment
// wraps it with load and a conditional write.
type PaymentService struct {
	repo BillStore
}

// NewPaymentService creates a new payment service
func NewPaymentService(repo BillStore) *PaymentService {
	return &PaymentService{repo: repo}
}

// RecordPayment returns a new bill snapshot with the participant's
// payment state advanced. The input bill is never mutated.
//
// Statuses only move forward: pending -> paid -> confirmed. A
// confirmation may still land after the bill completed (the on-chain
// receipt arrives late), but completion itself is a one-way ratchet
// and a cancelled bill accepts no payment mutations at all.
func (s *PaymentService) RecordPayment(bill *models.Bill, participantID, transactionHash, status string) (*models.Bill, error) {
	if !utils.IsSettledStatus(status) {
		return nil, utils.NewValidationError([]string{"payment status must be paid or confirmed"})
	}
	if bill.Status == utils.BillStatusCancelled {
		return nil, utils.NewBadRequestError(utils.KindBillNotJoinable, "cancelled bills do not accept payments")
	}

	participant := bill.FindParticipant(participantID)
	if participant == nil {
		return nil, utils.NewNotFoundError(utils.KindParticipantNotFound, "participant not found in this bill")
	}
	if utils.PaymentStatusRank(status) < utils.PaymentStatusRank(participant.Status) {
		return nil, utils.NewValidationError([]string{"payment status cannot move backwards"})
	}

	updated := bill.Clone()
	target := updated.FindParticipant(participantID)
	now := time.Now().UTC()
	target.Status = status
	target.TxHash = transactionHash
	target.PaidAt = &now
	updated.UpdatedAt = now

	// Completion requires a full roster: a half-filled bill where
	// everyone present has paid is still active.
	if updated.Status == utils.BillStatusActive && isFullyPaid(updated) {
		updated.Status = utils.BillStatusCompleted
	}
	return updated, nil
}

// RecordBillPayment loads the current snapshot, applies RecordPayment,
// and persists the result under an optimistic-concurrency guard.
func (s *PaymentService) RecordBillPayment(ctx context.Context, billID, participantID, transactionHash, status string) (*models.Bill, error) {
	for attempt := 0; attempt < storeRetryAttempts; attempt++ {
		bill, err := s.repo.GetBill(ctx, billID)
		if err != nil {
			return nil, err
		}

		updated, err := s.RecordPayment(bill, participantID, transactionHash, status)
		if err != nil {
			return nil, err
		}

		err = s.repo.SaveBill(ctx, updated, bill.Version)
		if utils.IsKind(err, utils.KindConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return updated, nil
	}
	return nil, utils.NewConflictError("bill is being modified concurrently, retry")
}

// isFullyPaid reports whether the roster is full and every participant
// has settled.
func isFullyPaid(bill *models.Bill) bool {
	if len(bill.Participants) != bill.ParticipantCount {
		return false
	}
	for _, participant := range bill.Participants {
		if !utils.IsSettledStatus(participant.Status) {
			return false
		}
	}
	return true
}
