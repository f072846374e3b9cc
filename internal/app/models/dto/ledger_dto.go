package dto

// UpvoteResponse is returned by every upvote toggle
type UpvoteResponse struct {
	Success    bool `json:"success" example:"true"`
	Upvotes    int  `json:"upvotes" example:"12"`
	HasUpvoted bool `json:"hasUpvoted" example:"true"`
}

// UpvoteStatusResponse tells whether the caller upvoted an entity
type UpvoteStatusResponse struct {
	HasUpvoted bool `json:"hasUpvoted" example:"false"`
}
