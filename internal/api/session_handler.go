package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/trip-planner-backend/internal/auth"
	"github.com/nekogravitycat/trip-planner-backend/internal/session"
)

type SessionHandler struct {
	sessions   *session.Manager
	jwtManager *auth.JWTManager
}

func NewSessionHandler(sessions *session.Manager, jwtManager *auth.JWTManager) *SessionHandler {
	return &SessionHandler{
		sessions:   sessions,
		jwtManager: jwtManager,
	}
}

//
// POST /v1/sessions
//

func (h *SessionHandler) Start(c *gin.Context) {
	id, _ := h.sessions.Start()

	token, err := h.jwtManager.GenerateSessionToken(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to generate token",
		})
		return
	}

	c.JSON(http.StatusCreated, SessionResponse{
		SessionID:   id,
		AccessToken: token,
		ExpiresIn:   int64(h.jwtManager.TTL().Seconds()),
	})
}
