package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/fadhlanhapp/splitbill-backend/config"
	"github.com/fadhlanhapp/splitbill-backend/utils"
)

const maxTitleLength = 100

// ValidationService checks bill-creation input against business
// limits. It collects every violated rule instead of stopping at the
// first failure.
type ValidationService struct {
	cfg *config.BillConfig
}

// NewValidationService creates a new validation service
func NewValidationService(cfg *config.BillConfig) *ValidationService {
	return &ValidationService{cfg: cfg}
}

// ValidateBillInput returns the full ordered list of violated rules,
// or an empty slice when the input is acceptable. Pure function, no
// side effects.
func (s *ValidationService) ValidateBillInput(title, totalAmount string, participantCount int, creatorAddress string) []string {
	violations := []string{}

	trimmedTitle := strings.TrimSpace(title)
	if trimmedTitle == "" {
		violations = append(violations, "title is required")
	} else if utf8.RuneCountInString(trimmedTitle) > maxTitleLength {
		violations = append(violations, fmt.Sprintf("title cannot exceed %d characters", maxTitleLength))
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(totalAmount))
	amountValid := err == nil && amount.IsPositive()
	if !amountValid {
		violations = append(violations, "total amount must be a positive decimal number")
	} else {
		if amount.LessThan(s.cfg.MinAmount()) {
			violations = append(violations, fmt.Sprintf("total amount must be at least %s %s", s.cfg.MinTotalAmount, utils.CurrencySymbol))
		}
		if amount.GreaterThan(s.cfg.MaxAmount()) {
			violations = append(violations, fmt.Sprintf("total amount cannot exceed %s %s", s.cfg.MaxTotalAmount, utils.CurrencySymbol))
		}
	}

	countValid := participantCount >= 2 && participantCount <= s.cfg.MaxParticipants
	if participantCount < 2 {
		violations = append(violations, "participant count must be at least 2")
	} else if participantCount > s.cfg.MaxParticipants {
		violations = append(violations, fmt.Sprintf("participant count cannot exceed %d", s.cfg.MaxParticipants))
	}

	if !utils.IsValidAddress(creatorAddress) {
		violations = append(violations, "creator address must be a valid 0x-prefixed hex address")
	}

	// The per-person share must itself clear the minimum, otherwise a
	// valid total could produce unpayable dust shares.
	if amountValid && countValid {
		perPerson := s.PerPersonAmount(amount, participantCount)
		if perPerson.LessThan(s.cfg.MinAmount()) {
			violations = append(violations, fmt.Sprintf("per-person amount must be at least %s %s", s.cfg.MinTotalAmount, utils.CurrencySymbol))
		}
	}

	return violations
}

// PerPersonAmount computes total/count truncated to the stablecoin's
// native precision. Computed once at bill creation and never again.
func (s *ValidationService) PerPersonAmount(total decimal.Decimal, participantCount int) decimal.Decimal {
	return total.Div(decimal.NewFromInt(int64(participantCount))).Truncate(s.cfg.TokenDecimals)
}
