package schemas

import "time"

// User is a row of the users table
type User struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"`
	FullName       string    `json:"fullName"`
	Bio            string    `json:"bio"`
	ProfilePic     string    `json:"profilePic"`
	IsPrivate      bool      `json:"isPrivate"`
	FollowersCount int       `json:"followersCount"`
	FollowingCount int       `json:"followingCount"`
	CreatedAt      time.Time `json:"createdAt"`
}

// UserSummary is the projection used for follower/request/search listings
type UserSummary struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	ProfilePic string `json:"profilePic"`
}

// Profile is the response of a profile view; Posts is replaced by a
// redacted string when the target is private and the requester does not
// follow them
type Profile struct {
	ID             string      `json:"id"`
	Username       string      `json:"username"`
	FullName       string      `json:"fullName"`
	Bio            string      `json:"bio"`
	ProfilePic     string      `json:"profilePic"`
	IsPrivate      bool        `json:"isPrivate"`
	FollowersCount int         `json:"totalFollowers"`
	FollowingCount int         `json:"totalFollowing"`
	PostsCount     int         `json:"totalPosts"`
	Posts          interface{} `json:"posts"`
}

// UpdateProfileSchema struct
type UpdateProfileSchema struct {
	Username *string `json:"username" form:"username" validate:"omitempty,min=3,max=30,alphanum"`
	FullName *string `json:"fullName" form:"fullName" validate:"omitempty,max=60"`
	Email    *string `json:"email" form:"email" validate:"omitempty,email"`
	Bio      *string `json:"bio" form:"bio" validate:"omitempty,max=200"`
}
