package controllers

import (
	"net/http"

	"github.com/emblabrowall/donosti-guide/internal/app/models"
	"github.com/emblabrowall/donosti-guide/internal/app/models/dto"
	"github.com/emblabrowall/donosti-guide/internal/app/services"
	"github.com/emblabrowall/donosti-guide/internal/middleware"
	"github.com/gin-gonic/gin"
)

// LedgerController handles upvotes, reports and helpful marks
type LedgerController struct {
	ledgerService services.LedgerService
}

// NewLedgerController creates a new LedgerController
func NewLedgerController(ledgerService services.LedgerService) *LedgerController {
	return &LedgerController{ledgerService: ledgerService}
}

func (c *LedgerController) toggleUpvote(ctx *gin.Context, kind models.EntityKind) {
	actor, err := middleware.MustActor(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err, "Unauthorized")
		return
	}

	result, err := c.ledgerService.ToggleUpvote(ctx.Request.Context(), actor, kind, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err, "Failed to upvote")
		return
	}
	ctx.JSON(http.StatusOK, dto.UpvoteResponse{
		Success:    true,
		Upvotes:    result.Upvotes,
		HasUpvoted: result.HasUpvoted,
	})
}

// upvoteStatus answers false for anonymous callers
func (c *LedgerController) upvoteStatus(ctx *gin.Context, kind models.EntityKind) {
	actor, _ := middleware.CurrentActor(ctx)
	has, err := c.ledgerService.UpvoteStatus(ctx.Request.Context(), actor, kind, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err, "Failed to check upvote status")
		return
	}
	ctx.JSON(http.StatusOK, dto.UpvoteStatusResponse{HasUpvoted: has})
}

// UpvotePost toggles the caller's upvote on a post
// @Summary Toggle upvote on a post
// @Tags ledger
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Success 200 {object} dto.UpvoteResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Post not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /posts/{id}/upvote [post]
func (c *LedgerController) UpvotePost(ctx *gin.Context) {
	c.toggleUpvote(ctx, models.EntityPost)
}

// UpvoteThread toggles the caller's upvote on a thread
// @Summary Toggle upvote on a thread
// @Tags ledger
// @Produce json
// @Security BearerAuth
// @Param id path string true "Thread ID"
// @Success 200 {object} dto.UpvoteResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Thread not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /forum/threads/{id}/upvote [post]
func (c *LedgerController) UpvoteThread(ctx *gin.Context) {
	c.toggleUpvote(ctx, models.EntityThread)
}

// UpvoteReply toggles the caller's upvote on a reply
// @Summary Toggle upvote on a reply
// @Tags ledger
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reply ID"
// @Success 200 {object} dto.UpvoteResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Reply not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /forum/replies/{id}/upvote [post]
func (c *LedgerController) UpvoteReply(ctx *gin.Context) {
	c.toggleUpvote(ctx, models.EntityReply)
}

// PostUpvoteStatus reports whether the caller upvoted a post
// @Summary Upvote status of a post
// @Tags ledger
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} dto.UpvoteStatusResponse
// @Router /posts/{id}/upvote-status [get]
func (c *LedgerController) PostUpvoteStatus(ctx *gin.Context) {
	c.upvoteStatus(ctx, models.EntityPost)
}

// ThreadUpvoteStatus reports whether the caller upvoted a thread
// @Summary Upvote status of a thread
// @Tags ledger
// @Produce json
// @Param id path string true "Thread ID"
// @Success 200 {object} dto.UpvoteStatusResponse
// @Router /forum/threads/{id}/upvote-status [get]
func (c *LedgerController) ThreadUpvoteStatus(ctx *gin.Context) {
	c.upvoteStatus(ctx, models.EntityThread)
}

// ReplyUpvoteStatus reports whether the caller upvoted a reply
// @Summary Upvote status of a reply
// @Tags ledger
// @Produce json
// @Param id path string true "Reply ID"
// @Success 200 {object} dto.UpvoteStatusResponse
// @Router /forum/replies/{id}/upvote-status [get]
func (c *LedgerController) ReplyUpvoteStatus(ctx *gin.Context) {
	c.upvoteStatus(ctx, models.EntityReply)
}

// Report handles reporting a post
// @Summary Report a post
// @Description Each user may report a post once
// @Tags ledger
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Success 200 {object} dto.SuccessResponse "Reported"
// @Failure 400 {object} dto.ErrorResponse "Already reported"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Post not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /posts/{id}/report [post]
func (c *LedgerController) Report(ctx *gin.Context) {
	actor, err := middleware.MustActor(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err, "Unauthorized")
		return
	}

	if err := c.ledgerService.Report(ctx.Request.Context(), actor, ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err, "Failed to report post")
		return
	}
	ctx.JSON(http.StatusOK, dto.OK)
}

// MarkReplyHelpful handles toggling the helpful flag of a reply
// @Summary Toggle helpful on a reply
// @Description Only the author of the reply's thread may mark it. The thread is solved while any of its replies is helpful.
// @Tags ledger
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reply ID"
// @Success 200 {object} dto.HelpfulResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Only thread author can mark helpful"
// @Failure 404 {object} dto.ErrorResponse "Reply not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /forum/replies/{id}/helpful [post]
func (c *LedgerController) MarkReplyHelpful(ctx *gin.Context) {
	actor, err := middleware.MustActor(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err, "Unauthorized")
		return
	}

	helpful, err := c.ledgerService.MarkReplyHelpful(ctx.Request.Context(), actor, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err, "Failed to mark helpful")
		return
	}
	ctx.JSON(http.StatusOK, dto.HelpfulResponse{Success: true, Helpful: helpful})
}
