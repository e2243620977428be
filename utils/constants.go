package utils

const (
	// Bill lifecycle statuses
	BillStatusActive    = "active"
	BillStatusCompleted = "completed"
	BillStatusCancelled = "cancelled"

	// Participant payment statuses
	PaymentStatusPending   = "pending"
	PaymentStatusPaid      = "paid"
	PaymentStatusConfirmed = "confirmed"

	// The one supported settlement currency
	CurrencySymbol = "USDC"

	// HTTP status messages
	ErrInvalidRequest   = "Invalid request"
	ErrBillNotFound     = "Bill not found"
	ErrFriendNotFound   = "Friend not found"
	ErrFailedToStore    = "Failed to store data"
	ErrFailedToRetrieve = "Failed to retrieve data"
)

// PaymentStatusRank orders payment statuses for the forward-only
// transition check: pending < paid < confirmed.
func PaymentStatusRank(status string) int {
	switch status {
	case PaymentStatusPending:
		return 0
	case PaymentStatusPaid:
		return 1
	case PaymentStatusConfirmed:
		return 2
	default:
		return -1
	}
}

// IsSettledStatus reports whether a payment status counts toward bill
// completion.
func IsSettledStatus(status string) bool {
	return status == PaymentStatusPaid || status == PaymentStatusConfirmed
}
