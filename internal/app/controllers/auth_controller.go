// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"

	"github.com/emblabrowall/donosti-guide/internal/app/models/dto"
	"github.com/emblabrowall/donosti-guide/internal/app/services"
	"github.com/emblabrowall/donosti-guide/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// AuthController handles signup, sign-in and code redemption
type AuthController struct {
	accountService services.AccountService
	logger         zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(accountService services.AccountService, logger zerolog.Logger) *AuthController {
	return &AuthController{
		accountService: accountService,
		logger:         logger,
	}
}

// Signup handles account creation
// @Summary Create an account
// @Description Creates an account with the auth provider and stores its profile. A valid verification code marks the account verified.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.SignupRequest true "Signup information"
// @Success 201 {object} dto.UserResponse "Account created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request or rejected by the auth provider"
// @Failure 429 {object} dto.ErrorResponse "Too many requests"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /signup [post]
func (c *AuthController) Signup(ctx *gin.Context) {
	var req dto.SignupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid signup request payload")
		middleware.HandleBindingError(ctx, err)
		return
	}

	profile, err := c.accountService.Signup(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err, "Signup failed")
		return
	}

	ctx.JSON(http.StatusCreated, dto.UserResponse{User: profile})
}

// Login handles sign-in with the local identity provider
// @Summary Sign in
// @Description Exchanges email and password for a bearer token. Only available with the local auth provider.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.LoginResponse "Signed in"
// @Failure 400 {object} dto.ErrorResponse "Invalid request or unsupported by the auth provider"
// @Failure 401 {object} dto.ErrorResponse "Invalid login credentials"
// @Failure 429 {object} dto.ErrorResponse "Too many requests"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	session, profile, err := c.accountService.Login(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err, "Login failed")
		return
	}

	ctx.JSON(http.StatusOK, dto.LoginResponse{
		AccessToken: session.AccessToken,
		ExpiresIn:   session.ExpiresIn,
		User:        profile,
	})
}

// CurrentUser returns the caller's profile
// @Summary Get current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.UserResponse "Current user"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /user [get]
func (c *AuthController) CurrentUser(ctx *gin.Context) {
	actor, err := middleware.MustActor(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err, "Unauthorized")
		return
	}

	profile, err := c.accountService.CurrentUser(ctx.Request.Context(), actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err, "Failed to get user")
		return
	}

	ctx.JSON(http.StatusOK, dto.UserResponse{User: profile})
}

// VerifyCode redeems a verification or admin code for the caller
// @Summary Redeem a code
// @Description A verification code marks the caller verified, the admin code grants admin. A code that changes nothing is rejected.
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.VerifyCodeRequest true "Code"
// @Success 200 {object} dto.UserResponse "Updated user"
// @Failure 400 {object} dto.ErrorResponse "No code provided, or invalid code or no change"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /verify-code [post]
func (c *AuthController) VerifyCode(ctx *gin.Context) {
	actor, err := middleware.MustActor(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err, "Unauthorized")
		return
	}

	var req dto.VerifyCodeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	profile, err := c.accountService.VerifyCode(ctx.Request.Context(), actor, req.Code)
	if err != nil {
		middleware.HandleAPIError(ctx, err, "Verification failed")
		return
	}

	ctx.JSON(http.StatusOK, dto.UserResponse{User: profile})
}
