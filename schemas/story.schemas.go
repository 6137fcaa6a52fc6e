package schemas

import "time"

// Story is a row of the stories table; expired stories are filtered at
// read time
type Story struct {
	ID               string    `json:"id"`
	UserID           string    `json:"userId"`
	Media            string    `json:"media"`
	CloseFriendsOnly bool      `json:"closeFriendsOnly"`
	ViewsCount       int       `json:"viewsCount"`
	CreatedAt        time.Time `json:"createdAt"`
	ExpiresAt        time.Time `json:"expiresAt"`
}
