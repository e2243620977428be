package services

import (
	"context"
	"strings"
	"time"

	"github.com/fadhlanhapp/splitbill-backend/logger"
	"github.com/fadhlanhapp/splitbill-backend/models"
	"github.com/fadhlanhapp/splitbill-backend/utils"
)

// storeRetryAttempts bounds the reload-and-retry loop around
// optimistic-concurrency conflicts.
const storeRetryAttempts = 3

// LedgerService admits participants into bills. The state transition
// itself is the pure Join function; JoinBill wraps it with load, a
// conditional write, and the best-effort friend fan-out.
type LedgerService struct {
	repo    BillStore
	friends *FriendService
}

// NewLedgerService creates a new ledger service
func NewLedgerService(repo BillStore, friends *FriendService) *LedgerService {
	return &LedgerService{
		repo:    repo,
		friends: friends,
	}
}

// Join returns a new bill snapshot with the address admitted as a
// pending participant. The input bill is never mutated. Preconditions
// are checked in a fixed order, each with its own error kind.
func (s *LedgerService) Join(bill *models.Bill, address, basename, displayName string) (*models.Bill, error) {
	if bill.Status != utils.BillStatusActive {
		return nil, utils.NewBadRequestError(utils.KindBillNotJoinable, "bill is no longer accepting participants")
	}
	if len(bill.Participants) >= bill.ParticipantCount {
		return nil, utils.NewBadRequestError(utils.KindBillFull, "bill already has the full number of participants")
	}
	if utils.SameAddress(address, bill.CreatorAddress) {
		return nil, utils.NewBadRequestError(utils.KindCreatorCannotJoin, "the bill creator cannot join their own bill")
	}
	for _, participant := range bill.Participants {
		if utils.SameAddress(participant.Address, address) {
			return nil, utils.NewBadRequestError(utils.KindDuplicateParticipant, "address has already joined this bill")
		}
	}
	if !utils.IsValidAddress(address) {
		return nil, utils.NewBadRequestError(utils.KindInvalidAddress, "participant address must be a valid 0x-prefixed hex address")
	}

	joined := bill.Clone()
	joined.Participants = append(joined.Participants, models.Participant{
		ID:          utils.GenerateParticipantID(),
		Address:     address,
		Basename:    strings.TrimSpace(basename),
		DisplayName: resolveDisplayName(address, basename, displayName),
		Amount:      bill.AmountPerPerson,
		Status:      utils.PaymentStatusPending,
	})
	joined.UpdatedAt = time.Now().UTC()
	return joined, nil
}

// JoinBill loads the current snapshot, applies Join, and persists the
// result under an optimistic-concurrency guard. A lost race reloads
// and re-applies, so duplicate admission can never land in the store.
// Friend sync runs after a successful write and never fails the join.
func (s *LedgerService) JoinBill(ctx context.Context, billID, address, basename, displayName string) (*models.Bill, error) {
	for attempt := 0; attempt < storeRetryAttempts; attempt++ {
		bill, err := s.repo.GetBill(ctx, billID)
		if err != nil {
			return nil, err
		}

		joined, err := s.Join(bill, address, basename, displayName)
		if err != nil {
			return nil, err
		}

		err = s.repo.SaveBillWithParticipant(ctx, joined, bill.Version, address)
		if utils.IsKind(err, utils.KindConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}

		if syncErr := s.friends.SyncAfterJoin(ctx, joined, address); syncErr != nil {
			logger.GetLogger().Warnw("Friend sync failed after join", "billId", billID, "address", address, "error", syncErr)
		}
		return joined, nil
	}
	return nil, utils.NewConflictError("bill is being modified concurrently, retry")
}

// resolveDisplayName picks the participant's visible name with
// precedence: explicit display name, then basename, then a truncated
// rendering of the address.
func resolveDisplayName(address, basename, displayName string) string {
	if trimmed := strings.TrimSpace(displayName); trimmed != "" {
		return trimmed
	}
	if trimmed := strings.TrimSpace(basename); trimmed != "" {
		return trimmed
	}
	return utils.TruncateAddress(address)
}
