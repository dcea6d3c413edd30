package handlers

import (
	"net/http"

	"ttms-analytics/models"
	"ttms-analytics/services"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	auth *services.AuthService
}

func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type LoginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AdminSessionRequest struct {
	LoginSessionID string `json:"loginSessionId" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}

	user, err := h.auth.Authenticate(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		respondError(c, "authenticate", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": user})
}

// AdminSession меняет логин-сессию на админ-сессию
func (h *AuthHandler) AdminSession(c *gin.Context) {
	var req AdminSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}

	adminSessionID, err := h.auth.Exchange(c.Request.Context(), req.LoginSessionID)
	if err != nil {
		respondError(c, "exchange session", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"adminSessionId": adminSessionID}})
}
