package models

import "time"

// ThreadCategory of a forum thread
type ThreadCategory string

const (
	ThreadQuestions ThreadCategory = "questions"
	ThreadHelp      ThreadCategory = "help"
	ThreadGeneral   ThreadCategory = "general"
	ThreadEvents    ThreadCategory = "events"
	ThreadHousing   ThreadCategory = "housing"
	ThreadMeetup    ThreadCategory = "meetup"
)

// ThreadCategories lists the forum categories
var ThreadCategories = []ThreadCategory{ThreadQuestions, ThreadHelp, ThreadGeneral, ThreadEvents, ThreadHousing, ThreadMeetup}

// Valid reports whether c is a known forum category
func (c ThreadCategory) Valid() bool {
	for _, k := range ThreadCategories {
		if c == k {
			return true
		}
	}
	return false
}

// Thread is a forum discussion. Solved holds while at least one of its
// replies is marked helpful.
type Thread struct {
	ID           string         `json:"id"`
	Category     ThreadCategory `json:"category"`
	Title        string         `json:"title"`
	Content      string         `json:"content"`
	AuthorID     string         `json:"authorId"`
	AuthorName   string         `json:"authorName"`
	Verified     bool           `json:"verified"`
	Timestamp    time.Time      `json:"timestamp"`
	LastActivity time.Time      `json:"lastActivity"`
	Upvotes      int            `json:"upvotes"`
	ReplyCount   int            `json:"replyCount"`
	Solved       bool           `json:"solved"`
}

// Reply belongs to exactly one thread
type Reply struct {
	ID         string    `json:"id"`
	ThreadID   string    `json:"threadId"`
	Content    string    `json:"content"`
	AuthorID   string    `json:"authorId"`
	AuthorName string    `json:"authorName"`
	Verified   bool      `json:"verified"`
	Timestamp  time.Time `json:"timestamp"`
	Upvotes    int       `json:"upvotes"`
	Helpful    bool      `json:"helpful"`
}
