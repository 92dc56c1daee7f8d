package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"homeclean_backend/internal/models"
	"homeclean_backend/internal/services"
	"homeclean_backend/internal/session"
	"homeclean_backend/pkg/utils"
)

// AuthHandler handles administrator sign-in and sign-out.
type AuthHandler struct {
	authService services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(as services.AuthService) *AuthHandler {
	return &AuthHandler{authService: as}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var creds models.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Email and password are required", err.Error()))
		return
	}
	resp, err := h.authService.Login(c.Request.Context(), creds)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid email or password", ""))
			return
		}
		utils.LogError(err, "Login: Error from authService.Login")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Login failed", ""))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Me returns the administrator of the current session.
func (h *AuthHandler) Me(c *gin.Context) {
	sess, ok := session.Current(c)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Not signed in", ""))
		return
	}
	admin, err := h.authService.CurrentAdmin(c.Request.Context(), sess)
	if err != nil {
		if errors.Is(err, services.ErrAdminNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Account no longer exists", ""))
			return
		}
		utils.LogError(err, "Me: Error from authService.CurrentAdmin")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to load account", ""))
		return
	}
	c.JSON(http.StatusOK, gin.H{"admin": admin, "session": sess})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	sess, ok := session.Current(c)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Not signed in", ""))
		return
	}
	if err := h.authService.Logout(c.Request.Context(), sess); err != nil {
		utils.LogError(err, "Logout: Error from authService.Logout")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to sign out", ""))
		return
	}
	c.Status(http.StatusNoContent)
}
