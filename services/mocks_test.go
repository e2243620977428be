package services

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/fadhlanhapp/splitbill-backend/config"
	"github.com/fadhlanhapp/splitbill-backend/logger"
	"github.com/fadhlanhapp/splitbill-backend/models"
	"github.com/fadhlanhapp/splitbill-backend/utils"
)

func TestMain(m *testing.M) {
	logger.IsTest = true
	os.Exit(m.Run())
}

func testBillConfig() *config.BillConfig {
	return &config.BillConfig{
		MinTotalAmount:  "1",
		MaxTotalAmount:  "10000",
		MaxParticipants: 20,
		TokenDecimals:   6,
		ShareBaseURL:    "https://splitbill.app/bill",
		BillCacheSize:   16,
	}
}

// fakeBillStore is an in-memory BillStore with the same version
// semantics as the redis repository.
type fakeBillStore struct {
	bills map[string]*models.Bill
	// joinIndex records participant-index registrations by address.
	joinIndex map[string][]string
	// conflictsLeft makes the next N saves fail with a version
	// conflict, to exercise retry loops.
	conflictsLeft int
	// failAll makes every call fail with a storage error.
	failAll bool
}

func newFakeBillStore() *fakeBillStore {
	return &fakeBillStore{
		bills:     make(map[string]*models.Bill),
		joinIndex: make(map[string][]string),
	}
}

func (f *fakeBillStore) GetBill(_ context.Context, billID string) (*models.Bill, error) {
	if f.failAll {
		return nil, utils.NewStorageError(utils.ErrFailedToRetrieve)
	}
	bill, ok := f.bills[billID]
	if !ok {
		return nil, utils.NewNotFoundError(utils.KindBillNotFound, utils.ErrBillNotFound)
	}
	return bill.Clone(), nil
}

func (f *fakeBillStore) CreateBill(_ context.Context, bill *models.Bill) error {
	if f.failAll {
		return utils.NewStorageError(utils.ErrFailedToStore)
	}
	f.bills[bill.ID] = bill.Clone()
	return nil
}

func (f *fakeBillStore) SaveBill(ctx context.Context, bill *models.Bill, expectedVersion int64) error {
	return f.SaveBillWithParticipant(ctx, bill, expectedVersion, "")
}

func (f *fakeBillStore) SaveBillWithParticipant(_ context.Context, bill *models.Bill, expectedVersion int64, participantAddress string) error {
	if f.failAll {
		return utils.NewStorageError(utils.ErrFailedToStore)
	}
	if f.conflictsLeft > 0 {
		f.conflictsLeft--
		return utils.NewConflictError("bill was modified concurrently")
	}
	current, ok := f.bills[bill.ID]
	if !ok {
		return utils.NewNotFoundError(utils.KindBillNotFound, utils.ErrBillNotFound)
	}
	if current.Version != expectedVersion {
		return utils.NewConflictError("bill was modified concurrently")
	}
	bill.Version = expectedVersion + 1
	f.bills[bill.ID] = bill.Clone()
	if participantAddress != "" {
		f.joinIndex[utils.NormalizeAddress(participantAddress)] = append(f.joinIndex[utils.NormalizeAddress(participantAddress)], bill.ID)
	}
	return nil
}

func (f *fakeBillStore) DeleteBill(_ context.Context, bill *models.Bill) error {
	if f.failAll {
		return utils.NewStorageError(utils.ErrFailedToStore)
	}
	delete(f.bills, bill.ID)
	return nil
}

func (f *fakeBillStore) ListBillsByCreator(_ context.Context, address string) ([]*models.Bill, error) {
	bills := []*models.Bill{}
	for _, bill := range f.bills {
		if utils.SameAddress(bill.CreatorAddress, address) {
			bills = append(bills, bill.Clone())
		}
	}
	return bills, nil
}

func (f *fakeBillStore) ListBillsByParticipant(_ context.Context, address string) ([]*models.Bill, error) {
	bills := []*models.Bill{}
	for _, billID := range f.joinIndex[utils.NormalizeAddress(address)] {
		if bill, ok := f.bills[billID]; ok {
			bills = append(bills, bill.Clone())
		}
	}
	return bills, nil
}

// fakeFriendStore is an in-memory FriendStore keyed by normalized
// owner address.
type fakeFriendStore struct {
	lists map[string][]models.Friend
	// failOwners makes reads and writes for these owners fail, to
	// exercise the best-effort fan-out.
	failOwners map[string]bool
	saves      int
}

func newFakeFriendStore() *fakeFriendStore {
	return &fakeFriendStore{
		lists:      make(map[string][]models.Friend),
		failOwners: make(map[string]bool),
	}
}

func (f *fakeFriendStore) GetFriends(_ context.Context, ownerAddress string) ([]models.Friend, error) {
	if f.failOwners[utils.NormalizeAddress(ownerAddress)] {
		return nil, errors.New("store unreachable")
	}
	friends := f.lists[utils.NormalizeAddress(ownerAddress)]
	copied := make([]models.Friend, len(friends))
	copy(copied, friends)
	return copied, nil
}

func (f *fakeFriendStore) SaveFriends(_ context.Context, ownerAddress string, friends []models.Friend) error {
	if f.failOwners[utils.NormalizeAddress(ownerAddress)] {
		return errors.New("store unreachable")
	}
	copied := make([]models.Friend, len(friends))
	copy(copied, friends)
	f.lists[utils.NormalizeAddress(ownerAddress)] = copied
	f.saves++
	return nil
}
