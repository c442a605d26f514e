package handlers

import (
	"net/http"
	"strconv"
	"time"

	"taskboard/internal/logger"
	"taskboard/internal/service"
	"taskboard/internal/telegram"

	"github.com/gin-gonic/gin"
)

type AuthRequest struct {
	InitData string `json:"init_data" binding:"required"`
}

// AuthHandler exchanges Telegram WebApp init data for an API token.
type AuthHandler struct {
	tokens   *service.TokenIssuer
	botToken string
	allowed  []int64
	now      func() time.Time
}

// NewAuthHandler: an empty allowed list admits every verified user.
func NewAuthHandler(tokens *service.TokenIssuer, botToken string, allowed []int64) *AuthHandler {
	return &AuthHandler{tokens: tokens, botToken: botToken, allowed: allowed, now: time.Now}
}

// Telegram handles POST /api/v1/auth/telegram.
func (h *AuthHandler) Telegram(c *gin.Context) {
	var req AuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	user, err := telegram.Verify(req.InitData, h.botToken, h.now())
	if err != nil {
		logger.WithContext(c.Request.Context()).Warn("telegram auth rejected", "error", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid init data"})
		return
	}
	if !h.isAllowed(user.ID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "user not allowed"})
		return
	}

	subject := "tg:" + strconv.FormatInt(user.ID, 10)
	token, err := h.tokens.Generate(subject)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":         user.ID,
			"username":   user.Username,
			"first_name": user.FirstName,
		},
	})
}

func (h *AuthHandler) isAllowed(id int64) bool {
	if len(h.allowed) == 0 {
		return true
	}
	for _, a := range h.allowed {
		if a == id {
			return true
		}
	}
	return false
}
