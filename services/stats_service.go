package services

import (
	"github.com/shopspring/decimal"

	"github.com/fadhlanhapp/splitbill-backend/config"
	"github.com/fadhlanhapp/splitbill-backend/models"
	"github.com/fadhlanhapp/splitbill-backend/utils"
)

// StatsService derives read-only payment-progress snapshots from a
// bill. Pure computation, no storage access.
type StatsService struct {
	cfg *config.BillConfig
}

// NewStatsService creates a new stats service
func NewStatsService(cfg *config.BillConfig) *StatsService {
	return &StatsService{cfg: cfg}
}

// Stats partitions participants into settled and pending and sums each
// side with exact decimal arithmetic. The completion rate is measured
// against the target participant count, so a half-filled bill never
// reads 100% even when everyone present has paid.
func (s *StatsService) Stats(bill *models.Bill) (*models.BillStats, error) {
	totalPaid := decimal.Zero
	totalPending := decimal.Zero
	paidCount := 0
	pendingCount := 0

	for _, participant := range bill.Participants {
		amount, err := decimal.NewFromString(participant.Amount)
		if err != nil {
			return nil, utils.NewInternalError("corrupt participant amount: " + participant.Amount)
		}
		if utils.IsSettledStatus(participant.Status) {
			totalPaid = totalPaid.Add(amount)
			paidCount++
		} else {
			totalPending = totalPending.Add(amount)
			pendingCount++
		}
	}

	completionRate := 0
	if bill.ParticipantCount > 0 {
		completionRate = int(decimal.NewFromInt(int64(paidCount * 100)).
			Div(decimal.NewFromInt(int64(bill.ParticipantCount))).
			Round(0).IntPart())
	}

	return &models.BillStats{
		TotalPaid:             totalPaid.StringFixed(s.cfg.TokenDecimals),
		TotalPending:          totalPending.StringFixed(s.cfg.TokenDecimals),
		PaidCount:             paidCount,
		PendingCount:          pendingCount,
		CompletionRatePercent: completionRate,
	}, nil
}
