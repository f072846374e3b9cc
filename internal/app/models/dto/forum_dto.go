package dto

import "github.com/emblabrowall/donosti-guide/internal/app/models"

// CreateThreadRequest opens a forum thread
type CreateThreadRequest struct {
	Title    string `json:"title" binding:"required,notblank,max=200" example:"Where to find a room for spring?"`
	Category string `json:"category" binding:"required,thread_category" example:"housing"`
	Content  string `json:"content" binding:"required,notblank,max=10000" example:"Looking for a shared flat near Gros."`
}

// CreateReplyRequest answers a thread
type CreateReplyRequest struct {
	Content string `json:"content" binding:"required,notblank,max=10000" example:"Check the university housing board."`
}

// ThreadResponse wraps one thread
type ThreadResponse struct {
	Success bool           `json:"success" example:"true"`
	Thread  *models.Thread `json:"thread"`
}

// ThreadsResponse lists threads
type ThreadsResponse struct {
	Threads []*models.Thread `json:"threads"`
}

// ReplyResponse wraps one reply
type ReplyResponse struct {
	Success bool          `json:"success" example:"true"`
	Reply   *models.Reply `json:"reply"`
}

// RepliesResponse lists replies
type RepliesResponse struct {
	Replies []*models.Reply `json:"replies"`
}

// HelpfulResponse is returned by the helpful toggle
type HelpfulResponse struct {
	Success bool `json:"success" example:"true"`
	Helpful bool `json:"helpful" example:"true"`
}
