package schemas

import "time"

// Post is a row of the posts table
type Post struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	Caption       string    `json:"caption"`
	Media         string    `json:"media"`
	LikesCount    int       `json:"likesCount"`
	CommentsCount int       `json:"commentsCount"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Comment is a row of the post_comments table
type Comment struct {
	ID        string       `json:"id"`
	PostID    string       `json:"postId"`
	UserID    string       `json:"userId"`
	Content   string       `json:"content"`
	CreatedAt time.Time    `json:"createdAt"`
	Author    *UserSummary `json:"author,omitempty"`
}

// AddCommentSchema struct
type AddCommentSchema struct {
	Content string `json:"content" validate:"required,min=1,max=500"`
}
