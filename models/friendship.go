package models

type FriendshipStatus string

const (
	FriendshipPending  FriendshipStatus = "pending"
	FriendshipAccepted FriendshipStatus = "accepted"
	FriendshipRejected FriendshipStatus = "rejected"
)

// Friendship is directed (requester -> requested) but symmetric once accepted:
// either side counts as the friend of the other.
type Friendship struct {
	Base

	RequesterID uint             `gorm:"index;not null" json:"requester_id"`
	RequestedID uint             `gorm:"index;not null" json:"requested_id"`
	Status      FriendshipStatus `gorm:"size:16;default:pending" json:"status"`
}
