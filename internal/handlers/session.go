package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"todo-dapp/client/internal/engine"
	"todo-dapp/client/internal/middleware"
)

type SessionHandler struct {
	engine      *engine.Engine
	tokenSecret string
	tokenTTL    time.Duration
}

func NewSessionHandler(eng *engine.Engine, tokenSecret string, tokenTTL time.Duration) *SessionHandler {
	return &SessionHandler{
		engine:      eng,
		tokenSecret: tokenSecret,
		tokenTTL:    tokenTTL,
	}
}

// Connect binds the wallet account (or falls back to demo mode) and returns
// a session token for subsequent intents.
func (h *SessionHandler) Connect(c *gin.Context) {
	info, err := h.engine.Connect(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "connect_failed",
			"message": err.Error(),
		})
		return
	}

	h.respondWithToken(c, info)
}

// ConnectDemo skips the wallet and starts a local-only session directly.
func (h *SessionHandler) ConnectDemo(c *gin.Context) {
	info, err := h.engine.ConnectDemo(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "connect_failed",
			"message": err.Error(),
		})
		return
	}

	h.respondWithToken(c, info)
}

func (h *SessionHandler) Disconnect(c *gin.Context) {
	h.engine.Disconnect(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"message": "wallet disconnected"})
}

func (h *SessionHandler) GetSession(c *gin.Context) {
	c.JSON(http.StatusOK, h.engine.Session())
}

func (h *SessionHandler) respondWithToken(c *gin.Context, info engine.SessionInfo) {
	token, err := middleware.IssueSessionToken(h.tokenSecret, info.Address, info.Mode, h.tokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "token_issue_failed",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session": info,
		"token":   token,
	})
}
