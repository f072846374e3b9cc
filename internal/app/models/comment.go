package models

import "time"

// Comment belongs to exactly one post
type Comment struct {
	ID         string    `json:"id"`
	PostID     string    `json:"postId"`
	Content    string    `json:"content"`
	AuthorID   string    `json:"authorId"`
	AuthorName string    `json:"authorName"`
	Verified   bool      `json:"verified"`
	Timestamp  time.Time `json:"timestamp"`
}
