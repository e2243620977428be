package services

import (
	"context"

	"github.com/fadhlanhapp/splitbill-backend/models"
)

// BillStore is the storage contract the bill services depend on.
// Implemented by repository.BillRepository; tests substitute an
// in-memory fake.
type BillStore interface {
	GetBill(ctx context.Context, billID string) (*models.Bill, error)
	CreateBill(ctx context.Context, bill *models.Bill) error
	SaveBill(ctx context.Context, bill *models.Bill, expectedVersion int64) error
	SaveBillWithParticipant(ctx context.Context, bill *models.Bill, expectedVersion int64, participantAddress string) error
	DeleteBill(ctx context.Context, bill *models.Bill) error
	ListBillsByCreator(ctx context.Context, address string) ([]*models.Bill, error)
	ListBillsByParticipant(ctx context.Context, address string) ([]*models.Bill, error)
}

// FriendStore is the storage contract the friend service depends on.
// Implemented by repository.FriendRepository.
type FriendStore interface {
	GetFriends(ctx context.Context, ownerAddress string) ([]models.Friend, error)
	SaveFriends(ctx context.Context, ownerAddress string, friends []models.Friend) error
}
