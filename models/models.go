// models/models.go
package models

import "time"

// Bill represents one split-payment request
type Bill struct {
	ID               string        `json:"id"`
	Title            string        `json:"title"`
	Description      string        `json:"description,omitempty"`
	TotalAmount      string        `json:"totalAmount"`
	Currency         string        `json:"currency"`
	ParticipantCount int           `json:"participantCount"`
	AmountPerPerson  string        `json:"amountPerPerson"`
	CreatorAddress   string        `json:"creatorAddress"`
	CreatorName      string        `json:"creatorName,omitempty"`
	Status           string        `json:"status"`
	Participants     []Participant `json:"participants"`
	ShareLink        string        `json:"shareLink,omitempty"`
	ReceiptTokenID   string        `json:"receiptTokenId,omitempty"`
	CreatedAt        time.Time     `json:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt"`
	// Version increments on every persisted mutation; the repository
	// rejects writes carrying a stale version.
	Version int64 `json:"version"`
}

// Participant represents one obligated payer within a bill
type Participant struct {
	ID             string     `json:"id"`
	Address        string     `json:"address"`
	Basename       string     `json:"basename,omitempty"`
	DisplayName    string     `json:"displayName"`
	Amount         string     `json:"amount"`
	Status         string     `json:"status"`
	PaidAt         *time.Time `json:"paidAt,omitempty"`
	TxHash         string     `json:"txHash,omitempty"`
	ReceiptTokenID string     `json:"receiptTokenId,omitempty"`
}

// Friend represents a directed address-book relation owned by one
// address and pointing at another
type Friend struct {
	ID         string     `json:"id"`
	Address    string     `json:"address"`
	Basename   string     `json:"basename,omitempty"`
	Nickname   string     `json:"nickname,omitempty"`
	Favorite   bool       `json:"favorite"`
	AddedAt    time.Time  `json:"addedAt"`
	LastUsedAt *time.Time `json:"lastUsedAt,omitempty"`
}

// BillStats is a read-only snapshot of payment progress
type BillStats struct {
	TotalPaid             string `json:"totalPaid"`
	TotalPending          string `json:"totalPending"`
	PaidCount             int    `json:"paidCount"`
	PendingCount          int    `json:"pendingCount"`
	CompletionRatePercent int    `json:"completionRatePercent"`
}

// CreateBillRequest request model
type CreateBillRequest struct {
	Title            string `json:"title" binding:"required"`
	Description      string `json:"description"`
	TotalAmount      string `json:"totalAmount" binding:"required"`
	ParticipantCount int    `json:"participantCount" binding:"required"`
	CreatorAddress   string `json:"creatorAddress" binding:"required"`
	CreatorName      string `json:"creatorName"`
}

// BillActionRequest is the envelope for join and payment actions
// against an existing bill
type BillActionRequest struct {
	Action string `json:"action" binding:"required"`

	// join fields
	ParticipantAddress  string `json:"participantAddress"`
	ParticipantBasename string `json:"participantBasename"`
	DisplayName         string `json:"displayName"`

	// payment fields
	ParticipantID   string `json:"participantId"`
	TransactionHash string `json:"transactionHash"`
	Status          string `json:"status"`
}

// AddFriendRequest request model
type AddFriendRequest struct {
	Address  string `json:"address" binding:"required"`
	Basename string `json:"basename"`
	Nickname string `json:"nickname"`
}

// UpdateFriendRequest request model; nil fields are left untouched
type UpdateFriendRequest struct {
	Nickname *string `json:"nickname"`
	Favorite *bool   `json:"favorite"`
}

// DeleteBillRequest request model
type DeleteBillRequest struct {
	CreatorAddress string `json:"creatorAddress" binding:"required"`
}

// CancelBillRequest request model
type CancelBillRequest struct {
	CreatorAddress string `json:"creatorAddress" binding:"required"`
}

// Clone returns a deep copy of the bill. Ledger and payment operations
// return fresh values so callers can diff before/after snapshots.
func (b *Bill) Clone() *Bill {
	clone := *b
	clone.Participants = make([]Participant, len(b.Participants))
	copy(clone.Participants, b.Participants)
	for i := range clone.Participants {
		if b.Participants[i].PaidAt != nil {
			paidAt := *b.Participants[i].PaidAt
			clone.Participants[i].PaidAt = &paidAt
		}
	}
	return &clone
}

// FindParticipant returns the participant with the given id, or nil.
func (b *Bill) FindParticipant(participantID string) *Participant {
	for i := range b.Participants {
		if b.Participants[i].ID == participantID {
			return &b.Participants[i]
		}
	}
	return nil
}
