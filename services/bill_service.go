package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fadhlanhapp/splitbill-backend/config"
	"github.com/fadhlanhapp/splitbill-backend/models"
	"github.com/fadhlanhapp/splitbill-backend/utils"
)

// BillService constructs bills and handles their whole-record
// lifecycle: fetch, list, cancel, delete. Join and payment mutations
// live in LedgerService and PaymentService.
type BillService struct {
	repo       BillStore
	validation *ValidationService
	cfg        *config.BillConfig
}

// NewBillService creates a new bill service
func NewBillService(repo BillStore, validation *ValidationService, cfg *config.BillConfig) *BillService {
	return &BillService{
		repo:       repo,
		validation: validation,
		cfg:        cfg,
	}
}

// CreateBill validates the input, builds the bill record, and persists
// it. Validation runs here even when the handler already validated;
// the factory never trusts its caller.
func (s *BillService) CreateBill(ctx context.Context, request *models.CreateBillRequest) (*models.Bill, error) {
	violations := s.validation.ValidateBillInput(request.Title, request.TotalAmount, request.ParticipantCount, request.CreatorAddress)
	if len(violations) > 0 {
		return nil, utils.NewValidationError(violations)
	}

	total := decimal.RequireFromString(strings.TrimSpace(request.TotalAmount))
	perPerson := s.validation.PerPersonAmount(total, request.ParticipantCount)

	now := time.Now().UTC()
	bill := &models.Bill{
		ID:               utils.GenerateBillID(),
		Title:            strings.TrimSpace(request.Title),
		Description:      strings.TrimSpace(request.Description),
		TotalAmount:      total.StringFixed(s.cfg.TokenDecimals),
		Currency:         utils.CurrencySymbol,
		ParticipantCount: request.ParticipantCount,
		AmountPerPerson:  perPerson.StringFixed(s.cfg.TokenDecimals),
		CreatorAddress:   request.CreatorAddress,
		CreatorName:      strings.TrimSpace(request.CreatorName),
		Status:           utils.BillStatusActive,
		Participants:     []models.Participant{},
		CreatedAt:        now,
		UpdatedAt:        now,
		Version:          1,
	}
	bill.ShareLink = fmt.Sprintf("%s/%s", strings.TrimRight(s.cfg.ShareBaseURL, "/"), bill.ID)

	if err := s.repo.CreateBill(ctx, bill); err != nil {
		return nil, err
	}
	return bill, nil
}

// GetBill retrieves a bill by its identifier
func (s *BillService) GetBill(ctx context.Context, billID string) (*models.Bill, error) {
	return s.repo.GetBill(ctx, billID)
}

// ListBillsByCreator returns every bill created by the address
func (s *BillService) ListBillsByCreator(ctx context.Context, address string) ([]*models.Bill, error) {
	if !utils.IsValidAddress(address) {
		return nil, utils.NewBadRequestError(utils.KindInvalidAddress, "creator address must be a valid 0x-prefixed hex address")
	}
	return s.repo.ListBillsByCreator(ctx, address)
}

// ListBillsByParticipant returns every bill the address has joined
func (s *BillService) ListBillsByParticipant(ctx context.Context, address string) ([]*models.Bill, error) {
	if !utils.IsValidAddress(address) {
		return nil, utils.NewBadRequestError(utils.KindInvalidAddress, "participant address must be a valid 0x-prefixed hex address")
	}
	return s.repo.ListBillsByParticipant(ctx, address)
}

// CancelBill flips an active bill to cancelled. Only the creator may
// cancel, and only while the bill is still active.
func (s *BillService) CancelBill(ctx context.Context, billID, callerAddress string) (*models.Bill, error) {
	for attempt := 0; attempt < storeRetryAttempts; attempt++ {
		bill, err := s.repo.GetBill(ctx, billID)
		if err != nil {
			return nil, err
		}
		if !utils.SameAddress(bill.CreatorAddress, callerAddress) {
			return nil, utils.NewForbiddenError("only the bill creator can cancel it")
		}
		if bill.Status != utils.BillStatusActive {
			return nil, utils.NewBadRequestError(utils.KindBillNotJoinable, "only active bills can be cancelled")
		}

		cancelled := bill.Clone()
		cancelled.Status = utils.BillStatusCancelled
		cancelled.UpdatedAt = time.Now().UTC()

		err = s.repo.SaveBill(ctx, cancelled, bill.Version)
		if utils.IsKind(err, utils.KindConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return cancelled, nil
	}
	return nil, utils.NewConflictError("bill is being modified concurrently, retry")
}

// DeleteBill removes a bill and its index entries. Only the creator
// may delete.
func (s *BillService) DeleteBill(ctx context.Context, billID, callerAddress string) error {
	bill, err := s.repo.GetBill(ctx, billID)
	if err != nil {
		return err
	}
	if !utils.SameAddress(bill.CreatorAddress, callerAddress) {
		return utils.NewForbiddenError("only the bill creator can delete it")
	}
	return s.repo.DeleteBill(ctx, bill)
}
