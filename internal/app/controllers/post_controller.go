package controllers

import (
	"net/http"

	"github.com/emblabrowall/donosti-guide/internal/app/models"
	"github.com/emblabrowall/donosti-guide/internal/app/models/dto"
	"github.com/emblabrowall/donosti-guide/internal/app/services"
	"github.com/emblabrowall/donosti-guide/internal/middleware"
	"github.com/emblabrowall/donosti-guide/internal/pkg/apperrors"
	"github.com/emblabrowall/donosti-guide/internal/pkg/helpers"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/rs/zerolog"
)

// PostController handles tips and their comments
type PostController struct {
	postService services.PostService
	logger      zerolog.Logger
}

// NewPostController creates a new PostController
func NewPostController(postService services.PostService, logger zerolog.Logger) *PostController {
	return &PostController{
		postService: postService,
		logger:      logger,
	}
}

// CreatePost handles creating a tip
// @Summary Create a post
// @Description Creates a tip. Category specific fields (e.g. restaurantName, tripDates, examinationType) are sent flat in the same body. A photo that cannot be stored is dropped and the post is created without it.
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreatePostRequest true "Post"
// @Success 201 {object} dto.PostResponse "Post created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /posts [post]
func (c *PostController) CreatePost(ctx *gin.Context) {
	actor, err := middleware.MustActor(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err, "Unauthorized")
		return
	}

	var req dto.CreatePostRequest
	if err := ctx.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	var body []byte
	if raw, ok := ctx.Get(gin.BodyBytesKey); ok {
		body, _ = raw.([]byte)
	}
	details, err := models.DecodeDetails(models.Category(req.Category), body)
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError(err.Error()), "Failed to create post")
		return
	}

	post, err := c.postService.CreatePost(ctx.Request.Context(), actor, &req, details)
	if err != nil {
		middleware.HandleAPIError(ctx, err, "Failed to create post")
		return
	}

	ctx.JSON(http.StatusCreated, dto.PostResponse{Success: true, Post: dto.PostView(post)})
}

// ListPosts handles listing tips
// @Summary List posts
// @Description Lists tips newest first, optionally filtered by category ("all" lists every category)
// @Tags posts
// @Produce json
// @Param category query string false "Category" Enums(all, courses, food, clubs, activities, trips)
// @Success 200 {object} dto.PostsResponse "Posts"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /posts [get]
func (c *PostController) ListPosts(ctx *gin.Context) {
	posts, err := c.postService.ListPosts(ctx.Request.Context(), helpers.CategoryFilter(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err, "Failed to fetch posts")
		return
	}
	ctx.JSON(http.StatusOK, dto.PostsResponse{Posts: dto.PostViews(posts)})
}

// GetPost handles fetching one tip
// @Summary Get a post
// @Tags posts
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} dto.PostResponse "Post"
// @Failure 404 {object} dto.ErrorResponse "Post not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /posts/{id} [get]
func (c *PostController) GetPost(ctx *gin.Context) {
	post, err := c.postService.GetPost(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err, "Failed to fetch post")
		return
	}
	ctx.JSON(http.StatusOK, dto.PostResponse{Success: true, Post: dto.PostView(post)})
}

// DeletePost handles deleting a tip with its comments, markers and photo
// @Summary Delete a post
// @Description Only the author or an admin may delete a post
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Success 200 {object} dto.SuccessResponse "Post deleted"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Post not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /posts/{id} [delete]
func (c *PostController) DeletePost(ctx *gin.Context) {
	actor, err := middleware.MustActor(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err, "Unauthorized")
		return
	}

	if err := c.postService.DeletePost(ctx.Request.Context(), actor, ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err, "Failed to delete post")
		return
	}
	ctx.JSON(http.StatusOK, dto.OK)
}

// AddComment handles commenting on a tip
// @Summary Comment on a post
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Param request body dto.CreateCommentRequest true "Comment"
// @Success 201 {object} dto.CommentResponse "Comment created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Post not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /posts/{id}/comments [post]
func (c *PostController) AddComment(ctx *gin.Context) {
	actor, err := middleware.MustActor(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err, "Unauthorized")
		return
	}

	var req dto.CreateCommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	comment, err := c.postService.AddComment(ctx.Request.Context(), actor, ctx.Param("id"), req.Content)
	if err != nil {
		middleware.HandleAPIError(ctx, err, "Failed to add comment")
		return
	}
	ctx.JSON(http.StatusCreated, dto.CommentResponse{Success: true, Comment: comment})
}

// ListComments handles listing the comments of a tip
// @Summary List comments
// @Tags comments
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} dto.CommentsResponse "Comments, oldest first"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /posts/{id}/comments [get]
func (c *PostController) ListComments(ctx *gin.Context) {
	comments, err := c.postService.ListComments(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err, "Failed to fetch comments")
		return
	}
	ctx.JSON(http.StatusOK, dto.CommentsResponse{Comments: comments})
}

// CommentCount handles counting the comments of a tip
// @Summary Count comments
// @Tags comments
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} dto.CountResponse "Number of comments"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /posts/{id}/comment-count [get]
func (c *PostController) CommentCount(ctx *gin.Context) {
	count, err := c.postService.CommentCount(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err, "Failed to count comments")
		return
	}
	ctx.JSON(http.StatusOK, dto.CountResponse{Count: count})
}

// DeleteComment handles deleting one comment
// @Summary Delete a comment
// @Description Only the author or an admin may delete a comment
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Param commentId path string true "Comment ID"
// @Success 200 {object} dto.SuccessResponse "Comment deleted"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Comment not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /posts/{id}/comments/{commentId} [delete]
func (c *PostController) DeleteComment(ctx *gin.Context) {
	actor, err := middleware.MustActor(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err, "Unauthorized")
		return
	}

	err = c.postService.DeleteComment(ctx.Request.Context(), actor, ctx.Param("id"), ctx.Param("commentId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err, "Failed to delete comment")
		return
	}
	ctx.JSON(http.StatusOK, dto.OK)
}
