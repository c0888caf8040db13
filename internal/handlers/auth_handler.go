package handlers

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"paycycle/internal/config"
	apperrors "paycycle/internal/errors"
	"paycycle/internal/middleware"
)

// AuthHandler exchanges the configured access password for a bearer token.
// The ledger is single-tenant; there is no user registration.
type AuthHandler struct{}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

// LoginRequest represents the request payload for logging in.
type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued access token.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

// Login handles the password-for-token exchange.
// @Summary     Log in
// @Description Exchange the configured access password for a JWT access token
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body LoginRequest true "Access password"
// @Success     200 {object} LoginResponse "Access token"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid access password"
// @Router      /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if !verifyPassword(req.Password) {
		respondWithError(c, apperrors.ErrInvalidCredentials)
		return
	}

	token, err := middleware.GenerateAccessToken()
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	c.JSON(http.StatusOK, LoginResponse{AccessToken: token})
}

// verifyPassword checks the supplied password against the configured bcrypt
// hash, or against the plain configured password when only that is set.
func verifyPassword(password string) bool {
	cfg := config.Get()
	if cfg.AppPasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(cfg.AppPasswordHash), []byte(password)) == nil
	}
	if cfg.AppPassword != "" {
		return subtle.ConstantTimeCompare([]byte(cfg.AppPassword), []byte(password)) == 1
	}
	return false
}
