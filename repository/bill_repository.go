// repository/bill_repository.go
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/fadhlanhapp/splitbill-backend/logger"
	"github.com/fadhlanhapp/splitbill-backend/models"
	"github.com/fadhlanhapp/splitbill-backend/utils"
)

// errVersionMismatch signals a stale-version write inside the CAS
// transaction; it is translated to a Conflict AppError at the boundary.
var errVersionMismatch = errors.New("bill version mismatch")

// BillRepository handles key-value store operations for bills and
// their secondary indexes.
type BillRepository struct {
	client *redis.Client
	cache  *BillCache
}

// NewBillRepository creates a new BillRepository.
func NewBillRepository(client *redis.Client, cache *BillCache) *BillRepository {
	return &BillRepository{
		client: client,
		cache:  cache,
	}
}

func billKey(billID string) string {
	return "bill:" + billID
}

func creatorIndexKey(address string) string {
	return "bills:creator:" + utils.NormalizeAddress(address)
}

func participantIndexKey(address string) string {
	return "bills:participant:" + utils.NormalizeAddress(address)
}

// GetBill loads a bill snapshot. When the store is unreachable, a
// cached copy is served if one exists.
func (r *BillRepository) GetBill(ctx context.Context, billID string) (*models.Bill, error) {
	raw, err := r.client.Get(ctx, billKey(billID)).Result()
	if err == redis.Nil {
		return nil, utils.NewNotFoundError(utils.KindBillNotFound, utils.ErrBillNotFound)
	}
	if err != nil {
		if cached := r.cache.Get(billID); cached != nil {
			logger.GetLogger().Warnw("Serving bill from fallback cache", "billId", billID, "error", err)
			return cached, nil
		}
		return nil, utils.NewStorageError(utils.ErrFailedToRetrieve)
	}

	var bill models.Bill
	if err := json.Unmarshal([]byte(raw), &bill); err != nil {
		return nil, utils.NewInternalError(fmt.Sprintf("corrupt bill record: %v", err))
	}

	r.cache.Put(&bill)
	return &bill, nil
}

// CreateBill persists a fresh bill and registers it in the creator
// index. The bill must not already exist.
func (r *BillRepository) CreateBill(ctx context.Context, bill *models.Bill) error {
	payload, err := json.Marshal(bill)
	if err != nil {
		return utils.NewInternalError(fmt.Sprintf("failed to encode bill: %v", err))
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, billKey(bill.ID), payload, 0)
		pipe.SAdd(ctx, creatorIndexKey(bill.CreatorAddress), bill.ID)
		return nil
	})
	if err != nil {
		return utils.NewStorageError(utils.ErrFailedToStore)
	}

	r.cache.Put(bill)
	return nil
}

// SaveBill writes an updated bill snapshot, guarded by optimistic
// concurrency: the write only lands if the stored version still equals
// expectedVersion. On success the bill's version is bumped in place.
func (r *BillRepository) SaveBill(ctx context.Context, bill *models.Bill, expectedVersion int64) error {
	return r.save(ctx, bill, expectedVersion, "")
}

// SaveBillWithParticipant is SaveBill plus registration of a newly
// joined address in the participant index, inside the same
// transaction.
func (r *BillRepository) SaveBillWithParticipant(ctx context.Context, bill *models.Bill, expectedVersion int64, participantAddress string) error {
	return r.save(ctx, bill, expectedVersion, participantAddress)
}

func (r *BillRepository) save(ctx context.Context, bill *models.Bill, expectedVersion int64, newParticipant string) error {
	key := billKey(bill.ID)

	txf := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Result()
		if err == redis.Nil {
			return utils.NewNotFoundError(utils.KindBillNotFound, utils.ErrBillNotFound)
		}
		if err != nil {
			return err
		}

		var current models.Bill
		if err := json.Unmarshal([]byte(raw), &current); err != nil {
			return fmt.Errorf("corrupt bill record: %w", err)
		}
		if current.Version != expectedVersion {
			return errVersionMismatch
		}

		bill.Version = expectedVersion + 1
		payload, err := json.Marshal(bill)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, 0)
			if newParticipant != "" {
				pipe.SAdd(ctx, participantIndexKey(newParticipant), bill.ID)
			}
			return nil
		})
		return err
	}

	err := r.client.Watch(ctx, txf, key)
	switch {
	case err == nil:
		r.cache.Put(bill)
		return nil
	case errors.Is(err, errVersionMismatch) || err == redis.TxFailedErr:
		// Someone else wrote between our read and our write; the
		// caller reloads and re-applies.
		bill.Version = expectedVersion
		return utils.NewConflictError("bill was modified concurrently")
	default:
		if appErr, ok := err.(*utils.AppError); ok {
			return appErr
		}
		bill.Version = expectedVersion
		return utils.NewStorageError(utils.ErrFailedToStore)
	}
}

// DeleteBill removes a bill and every index entry pointing at it.
func (r *BillRepository) DeleteBill(ctx context.Context, bill *models.Bill) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, billKey(bill.ID))
		pipe.SRem(ctx, creatorIndexKey(bill.CreatorAddress), bill.ID)
		for _, participant := range bill.Participants {
			pipe.SRem(ctx, participantIndexKey(participant.Address), bill.ID)
		}
		return nil
	})
	if err != nil {
		return utils.NewStorageError(utils.ErrFailedToStore)
	}

	r.cache.Remove(bill.ID)
	return nil
}

// ListBillsByCreator returns every bill created by the given address,
// resolved through the creator index.
func (r *BillRepository) ListBillsByCreator(ctx context.Context, address string) ([]*models.Bill, error) {
	return r.listByIndex(ctx, creatorIndexKey(address))
}

// ListBillsByParticipant returns every bill the given address has
// joined, resolved through the participant index.
func (r *BillRepository) ListBillsByParticipant(ctx context.Context, address string) ([]*models.Bill, error) {
	return r.listByIndex(ctx, participantIndexKey(address))
}

func (r *BillRepository) listByIndex(ctx context.Context, indexKey string) ([]*models.Bill, error) {
	billIDs, err := r.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, utils.NewStorageError(utils.ErrFailedToRetrieve)
	}

	bills := make([]*models.Bill, 0, len(billIDs))
	for _, billID := range billIDs {
		bill, err := r.GetBill(ctx, billID)
		if utils.IsKind(err, utils.KindBillNotFound) {
			// Stale index entry left behind by a deleted bill; prune
			// it instead of surfacing an error.
			if remErr := r.client.SRem(ctx, indexKey, billID).Err(); remErr != nil {
				logger.GetLogger().Warnw("Failed to prune stale index entry", "index", indexKey, "billId", billID, "error", remErr)
			}
			continue
		}
		if err != nil {
			return nil, err
		}
		bills = append(bills, bill)
	}
	return bills, nil
}
