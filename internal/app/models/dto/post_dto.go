package dto

import "github.com/emblabrowall/donosti-guide/internal/app/models"

// CreatePostRequest holds the common fields of a new tip. The category
// specific fields travel flat in the same body and are decoded separately.
type CreatePostRequest struct {
	Title     string         `json:"title" binding:"required,notblank,max=200" example:"Best pintxos in Parte Vieja"`
	Category  string         `json:"category" binding:"required,post_category" example:"food"`
	Content   string         `json:"content" binding:"max=10000" example:"Go early, order the txipirones."`
	Area      string         `json:"area" binding:"max=100" example:"Parte Vieja"`
	Price     string         `json:"price" binding:"max=20" example:"$$"`
	Rating    *models.Number `json:"rating" swaggertype:"number" example:"4.5"`
	PhotoData string         `json:"photoData" example:"data:image/jpeg;base64,/9j/4AAQ..."`
}

// CreateCommentRequest adds a comment to a post
type CreateCommentRequest struct {
	Content string `json:"content" binding:"required,notblank,max=5000" example:"Totally agree!"`
}

// PostResponse wraps one post
type PostResponse struct {
	Success bool         `json:"success" example:"true"`
	Post    *models.Post `json:"post"`
}

// PostsResponse lists posts
type PostsResponse struct {
	Posts []*models.Post `json:"posts"`
}

// PostView is the client copy of a post. The photo's storage object name
// stays server side.
func PostView(p *models.Post) *models.Post {
	if p == nil {
		return nil
	}
	v := *p
	v.PhotoObject = ""
	return &v
}

// PostViews applies PostView to every post
func PostViews(posts []*models.Post) []*models.Post {
	out := make([]*models.Post, len(posts))
	for i, p := range posts {
		out[i] = PostView(p)
	}
	return out
}

// CommentResponse wraps one comment
type CommentResponse struct {
	Success bool            `json:"success" example:"true"`
	Comment *models.Comment `json:"comment"`
}

// CommentsResponse lists comments
type CommentsResponse struct {
	Comments []*models.Comment `json:"comments"`
}

// CountResponse carries a count
type CountResponse struct {
	Count int `json:"count" example:"3"`
}
