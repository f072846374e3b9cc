package models

// Analytics is the singleton usage record
type Analytics struct {
	TotalPosts    int            `json:"totalPosts"`
	VerifiedUsers int            `json:"verifiedUsers"`
	TopSearches   map[string]int `json:"topSearches"`
}

// Contributor is one leaderboard row
type Contributor struct {
	UserID          string `json:"userId"`
	Name            string `json:"name"`
	Verified        bool   `json:"verified"`
	Posts           int    `json:"posts"`
	Comments        int    `json:"comments"`
	Threads         int    `json:"threads"`
	Replies         int    `json:"replies"`
	UpvotesReceived int    `json:"upvotesReceived"`
	TotalScore      int    `json:"totalScore"`
}

// UpvoteResult is returned by upvote toggles and status checks
type UpvoteResult struct {
	Upvotes    int  `json:"upvotes"`
	HasUpvoted bool `json:"hasUpvoted"`
}
