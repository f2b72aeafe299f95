package ws

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/sportivai/federation-api/internal/ws"
	"github.com/sportivai/federation-api/pkg/auth"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Handler struct {
	hub    *ws.Hub
	jwtSvc auth.JWTService
	logger *zerolog.Logger
}

func NewHandler(hub *ws.Hub, jwtSvc auth.JWTService, logger *zerolog.Logger) *Handler {
	return &Handler{hub: hub, jwtSvc: jwtSvc, logger: logger}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/ws/notifications", h.Connect)
}

// Connect upgrades the request and parks the connection in the hub until the
// peer goes away. Browsers cannot set an Authorization header on a websocket
// handshake, so the token rides in the query string.
func (h *Handler) Connect(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "missing token"})
		return
	}

	principal, err := h.jwtSvc.ValidateToken(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	channel := ws.NewWSChannel(conn)
	h.hub.Register(principal.UserID, channel)
	h.logger.Debug().Str("user_id", principal.UserID.String()).Msg("websocket connected")

	// The read loop only drains control frames and detects the close; the
	// protocol is push-only.
	go func() {
		defer func() {
			h.hub.Unregister(principal.UserID, channel)
			channel.Close()
			h.logger.Debug().Str("user_id", principal.UserID.String()).Msg("websocket disconnected")
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
