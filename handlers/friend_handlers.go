package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/fadhlanhapp/splitbill-backend/models"
	"github.com/fadhlanhapp/splitbill-backend/services"
	"github.com/fadhlanhapp/splitbill-backend/utils"
)

// FriendHandler exposes per-address friend lists over HTTP.
type FriendHandler struct {
	friends *services.FriendService
}

// NewFriendHandler creates a new friend handler
func NewFriendHandler(friends *services.FriendService) *FriendHandler {
	return &FriendHandler{friends: friends}
}

// ListFriends handles listing the friend entries owned by an address
func (h *FriendHandler) ListFriends(c *gin.Context) {
	friends, err := h.friends.ListFriends(c.Request.Context(), c.Param("address"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, friends)
}

// AddFriend handles explicitly adding a friend entry
func (h *FriendHandler) AddFriend(c *gin.Context) {
	var request models.AddFriendRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.KindInvalidInput, utils.ErrInvalidRequest))
		return
	}

	friend, err := h.friends.AddFriend(c.Request.Context(), c.Param("address"), &request)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, friend)
}

// UpdateFriend handles nickname edits and favorite toggles
func (h *FriendHandler) UpdateFriend(c *gin.Context) {
	var request models.UpdateFriendRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.KindInvalidInput, utils.ErrInvalidRequest))
		return
	}

	friend, err := h.friends.UpdateFriend(c.Request.Context(), c.Param("address"), c.Param("friendId"), &request)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, friend)
}

// DeleteFriend handles removing a single friend entry
func (h *FriendHandler) DeleteFriend(c *gin.Context) {
	if err := h.friends.DeleteFriend(c.Request.Context(), c.Param("address"), c.Param("friendId")); err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, gin.H{"deleted": true})
}
