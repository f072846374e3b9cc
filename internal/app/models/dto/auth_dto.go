package dto

import "github.com/emblabrowall/donosti-guide/internal/app/models"

// SignupRequest creates an account. A valid verification code marks the
// account verified; the admin code grants moderation rights.
type SignupRequest struct {
	Email            string `json:"email" binding:"required,email" example:"ane@ehu.eus"`
	Password         string `json:"password" binding:"required,min=6,max=128" example:"secret123"`
	Name             string `json:"name" binding:"required,notblank,max=80" example:"Ane"`
	VerificationCode string `json:"verificationCode" binding:"max=64" example:"DONOSTI2025"`
}

// LoginRequest signs in with the local identity provider
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"ane@ehu.eus"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

// VerifyCodeRequest redeems a verification or admin code
type VerifyCodeRequest struct {
	Code string `json:"code" binding:"max=64" example:"EXCHANGE2025"`
}

// UserResponse wraps a profile
type UserResponse struct {
	User *models.Profile `json:"user"`
}

// LoginResponse carries the access token of a local sign-in
type LoginResponse struct {
	AccessToken string          `json:"accessToken"`
	ExpiresIn   int             `json:"expiresIn" example:"604800"`
	User        *models.Profile `json:"user"`
}

// UsersResponse lists accounts for admins
type UsersResponse struct {
	Users []models.AdminUserView `json:"users"`
}
