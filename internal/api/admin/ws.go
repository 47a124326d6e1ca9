package admin

import (
	"net/http"

	"github.com/cpkimr/olympreg/internal/auth"
	"github.com/cpkimr/olympreg/internal/database"
	"github.com/cpkimr/olympreg/internal/pubsub"
	"github.com/cpkimr/olympreg/internal/scoring"
	"github.com/cpkimr/olympreg/internal/util"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// handleScoreboardWs streams rating changes to an admin dashboard.
// Browsers cannot set headers on websocket requests, so the JWT is
// passed as a token query parameter instead.
func (h *Handler) handleScoreboardWs(c *gin.Context) {
	token := c.Query("token")
	claims, err := auth.ValidateJWT(token, h.cfg.Auth.JWT.Secret)
	if err != nil {
		util.Error(c, http.StatusUnauthorized, "invalid token")
		return
	}
	user, err := database.GetUserByID(h.db, claims.Subject)
	if err != nil || (!user.IsAdmin && !user.IsManager) {
		util.Error(c, http.StatusForbidden, "admin access required")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		zap.S().Errorf("failed to upgrade websocket: %v", err)
		return
	}
	defer conn.Close()

	msgChan, unsubscribe := pubsub.GetBroker().Subscribe(scoring.TopicScoreboard)
	defer unsubscribe()

	go func() {
		for msg := range msgChan {
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				zap.S().Warnf("error writing to websocket: %v", err)
				return
			}
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				zap.S().Infof("websocket unexpected close error: %v", err)
			}
			return
		}
	}
}
