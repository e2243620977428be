// repository/cache.go
package repository

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/fadhlanhapp/splitbill-backend/models"
)

// BillCache is a bounded in-process copy of recently read bills. It is
// consulted only when the store itself is unreachable, so a stale hit
// beats a hard failure. Constructed explicitly and injected; never a
// package-level map.
type BillCache struct {
	entries *lru.Cache[string, *models.Bill]
}

// NewBillCache creates a cache holding at most size bills.
func NewBillCache(size int) (*BillCache, error) {
	entries, err := lru.New[string, *models.Bill](size)
	if err != nil {
		return nil, err
	}
	return &BillCache{entries: entries}, nil
}

// Put stores a snapshot. The bill is cloned so later mutations by the
// caller cannot leak into cached state.
func (c *BillCache) Put(bill *models.Bill) {
	c.entries.Add(bill.ID, bill.Clone())
}

// Get returns a cloned snapshot, or nil if the bill is not cached.
func (c *BillCache) Get(billID string) *models.Bill {
	bill, ok := c.entries.Get(billID)
	if !ok {
		return nil
	}
	return bill.Clone()
}

// Remove drops a bill from the cache.
func (c *BillCache) Remove(billID string) {
	c.entries.Remove(billID)
}
