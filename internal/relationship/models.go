package relationship

import "time"

type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusAccepted RequestStatus = "accepted"
	StatusRejected RequestStatus = "rejected"
	StatusBlocked  RequestStatus = "blocked"
)

// ValidResponse reports whether status is one a recipient may set.
func ValidResponse(status RequestStatus) bool {
	switch status {
	case StatusAccepted, StatusRejected, StatusBlocked:
		return true
	}
	return false
}

// FriendRequest is the historical record of a friendship between two users.
// At most one row exists per unordered pair; rows are never deleted.
type FriendRequest struct {
	ID          string        `json:"id"`
	RequesterID string        `json:"requester_id"`
	RecipientID string        `json:"recipient_id"`
	Status      RequestStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

type FollowEdge struct {
	FollowerID  string    `json:"follower_id"`
	FollowingID string    `json:"following_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type FollowResult struct {
	Success          bool   `json:"success"`
	AlreadyFollowing bool   `json:"already_following,omitempty"`
	TargetID         string `json:"target_id"`
}
