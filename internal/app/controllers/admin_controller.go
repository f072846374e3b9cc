package controllers

import (
	"net/http"

	"github.com/emblabrowall/donosti-guide/internal/app/models/dto"
	"github.com/emblabrowall/donosti-guide/internal/app/services"
	"github.com/emblabrowall/donosti-guide/internal/middleware"
	"github.com/gin-gonic/gin"
)

// AdminController handles account moderation
type AdminController struct {
	adminService services.AdminService
}

// NewAdminController creates a new AdminController
func NewAdminController(adminService services.AdminService) *AdminController {
	return &AdminController{adminService: adminService}
}

// ListUsers handles listing every account
// @Summary List users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.UsersResponse "Users, newest first"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden: Admin access required"
// @Failure 500 {object} dto.ErrorResponse "Failed to get users"
// @Router /admin/users [get]
func (c *AdminController) ListUsers(ctx *gin.Context) {
	users, err := c.adminService.ListUsers(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err, "Failed to get users")
		return
	}
	ctx.JSON(http.StatusOK, dto.UsersResponse{Users: users})
}

// DeleteUser handles deleting an account and everything it authored
// @Summary Delete a user
// @Description Removes the profile, posts, comments, threads, replies and events of the user, then the provider account. Admins cannot delete themselves.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} dto.SuccessResponse "User deleted"
// @Failure 400 {object} dto.ErrorResponse "Cannot delete your own account"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden: Admin access required"
// @Failure 500 {object} dto.ErrorResponse "Failed to delete user"
// @Router /admin/users/{id} [delete]
func (c *AdminController) DeleteUser(ctx *gin.Context) {
	actor, err := middleware.MustActor(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err, "Unauthorized")
		return
	}

	if err := c.adminService.DeleteUser(ctx.Request.Context(), actor, ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err, "Failed to delete user")
		return
	}
	ctx.JSON(http.StatusOK, dto.OK)
}
