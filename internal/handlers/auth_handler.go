package handlers

import (
	"mechseva/internal/services"
	"mechseva/internal/utils"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterCustomer handles POST /api/v1/auth/customer/register
func (h *AuthHandler) RegisterCustomer(c *gin.Context) {
	var req services.RegisterCustomerRequest
	if !bindJSON(c, &req) {
		return
	}

	customer, tokens, err := h.authService.RegisterCustomer(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, "Customer registered successfully", gin.H{
		"customer": customer,
		"tokens":   tokens,
	})
}

// RegisterMechanic handles POST /api/v1/auth/mechanic/register
func (h *AuthHandler) RegisterMechanic(c *gin.Context) {
	var req services.RegisterMechanicRequest
	if !bindJSON(c, &req) {
		return
	}

	mechanic, tokens, err := h.authService.RegisterMechanic(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, "Mechanic registered successfully", gin.H{
		"mechanic": mechanic,
		"tokens":   tokens,
	})
}

// LoginCustomer handles POST /api/v1/auth/customer/login
func (h *AuthHandler) LoginCustomer(c *gin.Context) {
	var req services.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	customer, tokens, err := h.authService.LoginCustomer(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Login successful", gin.H{
		"customer": customer,
		"tokens":   tokens,
	})
}

// LoginMechanic handles POST /api/v1/auth/mechanic/login
func (h *AuthHandler) LoginMechanic(c *gin.Context) {
	var req services.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	mechanic, tokens, err := h.authService.LoginMechanic(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Login successful", gin.H{
		"mechanic": mechanic,
		"tokens":   tokens,
	})
}

// RefreshToken handles POST /api/v1/auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}

	tokens, err := h.authService.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Token refreshed", gin.H{"tokens": tokens})
}

// ForgotPassword handles POST /api/v1/auth/forgot-password
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if !bindJSON(c, &req) {
		return
	}

	token, err := h.authService.RequestPasswordReset(c.Request.Context(), req.Email)
	if err != nil {
		respondError(c, err)
		return
	}

	// The raw token would normally ride out on an email. Returned here
	// until a mail channel is wired up.
	utils.SuccessResponse(c, "Password reset token issued", gin.H{"reset_token": token})
}

// ResetPassword handles POST /api/v1/auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req struct {
		Token    string `json:"token" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Password reset successful", nil)
}
