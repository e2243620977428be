package services

import (
	"context"
	"strings"
	"time"

	"github.com/fadhlanhapp/splitbill-backend/logger"
	"github.com/fadhlanhapp/splitbill-backend/models"
	"github.com/fadhlanhapp/splitbill-backend/utils"
)

// FriendService manages per-address friend lists and the reciprocal
// fan-out that runs after a bill join.
type FriendService struct {
	repo FriendStore
}

// NewFriendService creates a new friend service
func NewFriendService(repo FriendStore) *FriendService {
	return &FriendService{repo: repo}
}

// SyncAfterJoin establishes mutual friend entries between the newly
// joined participant and every pre-existing participant of the bill.
//
// The whole operation is best-effort: a failure on one pair is logged
// and the remaining pairs still run. It is also idempotent per pair,
// so replaying the same join creates no duplicates.
func (s *FriendService) SyncAfterJoin(ctx context.Context, bill *models.Bill, newParticipantAddress string) error {
	var newParticipant *models.Participant
	for i := range bill.Participants {
		if utils.SameAddress(bill.Participants[i].Address, newParticipantAddress) {
			newParticipant = &bill.Participants[i]
			break
		}
	}
	if newParticipant == nil {
		return utils.NewBadRequestError(utils.KindParticipantNotInBill, "address is not a participant of this bill")
	}

	log := logger.GetLogger()
	for i := range bill.Participants {
		other := &bill.Participants[i]
		if utils.SameAddress(other.Address, newParticipantAddress) {
			continue
		}

		if err := s.ensureFriend(ctx, other.Address, newParticipant.Address, newParticipant.Basename); err != nil {
			log.Warnw("Failed to add friend entry", "owner", other.Address, "target", newParticipant.Address, "error", err)
		}
		if err := s.ensureFriend(ctx, newParticipant.Address, other.Address, other.Basename); err != nil {
			log.Warnw("Failed to add friend entry", "owner", newParticipant.Address, "target", other.Address, "error", err)
		}
	}
	return nil
}

// ensureFriend adds target to owner's friend list unless it is already
// there; an existing entry just gets its last-used timestamp bumped.
func (s *FriendService) ensureFriend(ctx context.Context, ownerAddress, targetAddress, targetBasename string) error {
	friends, err := s.repo.GetFriends(ctx, ownerAddress)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	for i := range friends {
		if utils.SameAddress(friends[i].Address, targetAddress) {
			friends[i].LastUsedAt = &now
			return s.repo.SaveFriends(ctx, ownerAddress, friends)
		}
	}

	friends = append(friends, models.Friend{
		ID:       utils.GenerateFriendID(),
		Address:  targetAddress,
		Basename: strings.TrimSpace(targetBasename),
		AddedAt:  now,
	})
	return s.repo.SaveFriends(ctx, ownerAddress, friends)
}

// ListFriends returns the friend list owned by the address.
func (s *FriendService) ListFriends(ctx context.Context, ownerAddress string) ([]models.Friend, error) {
	if !utils.IsValidAddress(ownerAddress) {
		return nil, utils.NewBadRequestError(utils.KindInvalidAddress, "owner address must be a valid 0x-prefixed hex address")
	}
	return s.repo.GetFriends(ctx, ownerAddress)
}

// AddFriend explicitly adds a friend entry for the owner.
func (s *FriendService) AddFriend(ctx context.Context, ownerAddress string, request *models.AddFriendRequest) (*models.Friend, error) {
	if !utils.IsValidAddress(ownerAddress) {
		return nil, utils.NewBadRequestError(utils.KindInvalidAddress, "owner address must be a valid 0x-prefixed hex address")
	}
	if !utils.IsValidAddress(request.Address) {
		return nil, utils.NewBadRequestError(utils.KindInvalidAddress, "friend address must be a valid 0x-prefixed hex address")
	}
	if utils.SameAddress(ownerAddress, request.Address) {
		return nil, utils.NewBadRequestError(utils.KindInvalidAddress, "cannot add yourself as a friend")
	}

	friends, err := s.repo.GetFriends(ctx, ownerAddress)
	if err != nil {
		return nil, err
	}
	for _, friend := range friends {
		if utils.SameAddress(friend.Address, request.Address) {
			return nil, utils.NewConflictError("address is already a friend")
		}
	}

	friend := models.Friend{
		ID:       utils.GenerateFriendID(),
		Address:  request.Address,
		Basename: strings.TrimSpace(request.Basename),
		Nickname: strings.TrimSpace(request.Nickname),
		AddedAt:  time.Now().UTC(),
	}
	friends = append(friends, friend)
	if err := s.repo.SaveFriends(ctx, ownerAddress, friends); err != nil {
		return nil, err
	}
	return &friend, nil
}

// UpdateFriend edits the nickname and/or favorite flag of an entry.
func (s *FriendService) UpdateFriend(ctx context.Context, ownerAddress, friendID string, request *models.UpdateFriendRequest) (*models.Friend, error) {
	friends, err := s.repo.GetFriends(ctx, ownerAddress)
	if err != nil {
		return nil, err
	}

	for i := range friends {
		if friends[i].ID != friendID {
			continue
		}
		if request.Nickname != nil {
			friends[i].Nickname = strings.TrimSpace(*request.Nickname)
		}
		if request.Favorite != nil {
			friends[i].Favorite = *request.Favorite
		}
		if err := s.repo.SaveFriends(ctx, ownerAddress, friends); err != nil {
			return nil, err
		}
		return &friends[i], nil
	}
	return nil, utils.NewNotFoundError(utils.KindFriendNotFound, utils.ErrFriendNotFound)
}

// DeleteFriend removes a single entry from the owner's list.
func (s *FriendService) DeleteFriend(ctx context.Context, ownerAddress, friendID string) error {
	friends, err := s.repo.GetFriends(ctx, ownerAddress)
	if err != nil {
		return err
	}

	for i := range friends {
		if friends[i].ID == friendID {
			friends = append(friends[:i], friends[i+1:]...)
			return s.repo.SaveFriends(ctx, ownerAddress, friends)
		}
	}
	return utils.NewNotFoundError(utils.KindFriendNotFound, utils.ErrFriendNotFound)
}
