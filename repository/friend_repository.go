// repository/friend_repository.go
package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/fadhlanhapp/splitbill-backend/models"
	"github.com/fadhlanhapp/splitbill-backend/utils"
)

// FriendRepository handles key-value store operations for per-address
// friend lists. Each owner address maps to one JSON-encoded list.
type FriendRepository struct {
	client *redis.Client
}

// NewFriendRepository creates a new FriendRepository.
func NewFriendRepository(client *redis.Client) *FriendRepository {
	return &FriendRepository{client: client}
}

func friendsKey(ownerAddress string) string {
	return "friends:" + utils.NormalizeAddress(ownerAddress)
}

// GetFriends loads the friend list owned by the given address. A
// missing key is an empty list, not an error.
func (r *FriendRepository) GetFriends(ctx context.Context, ownerAddress string) ([]models.Friend, error) {
	raw, err := r.client.Get(ctx, friendsKey(ownerAddress)).Result()
	if err == redis.Nil {
		return []models.Friend{}, nil
	}
	if err != nil {
		return nil, utils.NewStorageError(utils.ErrFailedToRetrieve)
	}

	var friends []models.Friend
	if err := json.Unmarshal([]byte(raw), &friends); err != nil {
		return nil, utils.NewInternalError(fmt.Sprintf("corrupt friend list: %v", err))
	}
	return friends, nil
}

// SaveFriends replaces the friend list owned by the given address.
func (r *FriendRepository) SaveFriends(ctx context.Context, ownerAddress string, friends []models.Friend) error {
	payload, err := json.Marshal(friends)
	if err != nil {
		return utils.NewInternalError(fmt.Sprintf("failed to encode friend list: %v", err))
	}
	if err := r.client.Set(ctx, friendsKey(ownerAddress), payload, 0).Err(); err != nil {
		return utils.NewStorageError(utils.ErrFailedToStore)
	}
	return nil
}
