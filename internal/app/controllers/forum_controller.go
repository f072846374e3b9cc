package controllers

import (
	"net/http"

	"github.com/emblabrowall/donosti-guide/internal/app/models/dto"
	"github.com/emblabrowall/donosti-guide/internal/app/services"
	"github.com/emblabrowall/donosti-guide/internal/middleware"
	"github.com/emblabrowall/donosti-guide/internal/pkg/helpers"
	"github.com/gin-gonic/gin"
)

// ForumController handles forum threads and replies
type ForumController struct {
	forumService services.ForumService
}

// NewForumController creates a new ForumController
func NewForumController(forumService services.ForumService) *ForumController {
	return &ForumController{forumService: forumService}
}

// CreateThread handles opening a thread
// @Summary Create a thread
// @Tags forum
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateThreadRequest true "Thread"
// @Success 201 {object} dto.ThreadResponse "Thread created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /forum/threads [post]
func (c *ForumController) CreateThread(ctx *gin.Context) {
	actor, err := middleware.MustActor(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err, "Unauthorized")
		return
	}

	var req dto.CreateThreadRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	thread, err := c.forumService.CreateThread(ctx.Request.Context(), actor, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err, "Failed to create thread")
		return
	}
	ctx.JSON(http.StatusCreated, dto.ThreadResponse{Success: true, Thread: thread})
}

// ListThreads handles listing threads by most recent activity
// @Summary List threads
// @Tags forum
// @Produce json
// @Param category query string false "Category" Enums(all, questions, help, general, events, housing, meetup)
// @Success 200 {object} dto.ThreadsResponse "Threads"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /forum/threads [get]
func (c *ForumController) ListThreads(ctx *gin.Context) {
	threads, err := c.forumService.ListThreads(ctx.Request.Context(), helpers.CategoryFilter(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err, "Failed to fetch threads")
		return
	}
	ctx.JSON(http.StatusOK, dto.ThreadsResponse{Threads: threads})
}

// GetThread handles fetching one thread
// @Summary Get a thread
// @Tags forum
// @Produce json
// @Param id path string true "Thread ID"
// @Success 200 {object} dto.ThreadResponse "Thread"
// @Failure 404 {object} dto.ErrorResponse "Thread not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /forum/threads/{id} [get]
func (c *ForumController) GetThread(ctx *gin.Context) {
	thread, err := c.forumService.GetThread(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err, "Failed to fetch thread")
		return
	}
	ctx.JSON(http.StatusOK, dto.ThreadResponse{Success: true, Thread: thread})
}

// DeleteThread handles deleting a thread with its replies
// @Summary Delete a thread
// @Description Only the author or an admin may delete a thread
// @Tags forum
// @Produce json
// @Security BearerAuth
// @Param id path string true "Thread ID"
// @Success 200 {object} dto.SuccessResponse "Thread deleted"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Thread not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /forum/threads/{id} [delete]
func (c *ForumController) DeleteThread(ctx *gin.Context) {
	actor, err := middleware.MustActor(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err, "Unauthorized")
		return
	}

	if err := c.forumService.DeleteThread(ctx.Request.Context(), actor, ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err, "Failed to delete thread")
		return
	}
	ctx.JSON(http.StatusOK, dto.OK)
}

// AddReply handles answering a thread
// @Summary Reply to a thread
// @Tags forum
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Thread ID"
// @Param request body dto.CreateReplyRequest true "Reply"
// @Success 201 {object} dto.ReplyResponse "Reply created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Thread not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /forum/threads/{id}/replies [post]
func (c *ForumController) AddReply(ctx *gin.Context) {
	actor, err := middleware.MustActor(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err, "Unauthorized")
		return
	}

	var req dto.CreateReplyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	reply, err := c.forumService.AddReply(ctx.Request.Context(), actor, ctx.Param("id"), req.Content)
	if err != nil {
		middleware.HandleAPIError(ctx, err, "Failed to add reply")
		return
	}
	ctx.JSON(http.StatusCreated, dto.ReplyResponse{Success: true, Reply: reply})
}

// ListReplies handles listing the replies of a thread
// @Summary List replies
// @Tags forum
// @Produce json
// @Param id path string true "Thread ID"
// @Success 200 {object} dto.RepliesResponse "Replies, oldest first"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /forum/threads/{id}/replies [get]
func (c *ForumController) ListReplies(ctx *gin.Context) {
	replies, err := c.forumService.ListReplies(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err, "Failed to fetch replies")
		return
	}
	ctx.JSON(http.StatusOK, dto.RepliesResponse{Replies: replies})
}

// DeleteReply handles deleting one reply
// @Summary Delete a reply
// @Description Only the author or an admin may delete a reply
// @Tags forum
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reply ID"
// @Success 200 {object} dto.SuccessResponse "Reply deleted"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Reply not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /forum/replies/{id} [delete]
func (c *ForumController) DeleteReply(ctx *gin.Context) {
	actor, err := middleware.MustActor(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err, "Unauthorized")
		return
	}

	if err := c.forumService.DeleteReply(ctx.Request.Context(), actor, ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err, "Failed to delete reply")
		return
	}
	ctx.JSON(http.StatusOK, dto.OK)
}
