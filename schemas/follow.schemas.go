package schemas

import "time"

// Follow edge statuses
const (
	FollowPending  = "PENDING"
	FollowAccepted = "ACCEPTED"
	FollowRejected = "REJECTED"
)

// FollowEdge is a row of the follows table
type FollowEdge struct {
	FollowerID  string    `json:"followerId"`
	FollowingID string    `json:"followingId"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

// FollowChange reports what a follow toggle did: whether an edge now
// exists, its status, and the notification raised (nil on unfollow)
type FollowChange struct {
	Following    bool          `json:"following"`
	Status       string        `json:"status,omitempty"`
	Notification *Notification `json:"-"`
}
