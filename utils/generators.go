package utils

import (
	"github.com/google/uuid"
)

// GenerateBillID generates a collision-resistant bill identifier.
// Bill creation can race across instances, so a UUID beats any
// timestamp-plus-suffix scheme.
func GenerateBillID() string {
	return "bill_" + uuid.NewString()
}

// GenerateParticipantID generates a participant identifier unique
// within a bill.
func GenerateParticipantID() string {
	return "part_" + uuid.NewString()
}

// GenerateFriendID generates a friend-entry identifier.
func GenerateFriendID() string {
	return "friend_" + uuid.NewString()
}
