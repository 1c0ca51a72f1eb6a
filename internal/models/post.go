package models

import "time"

// Post represents a post owned by a user
type Post struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	UserID    int       `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PostWithUser is a post joined with its owning user, returned by the list endpoint
type PostWithUser struct {
	Post
	User User `json:"user"`
}
