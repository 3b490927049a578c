package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"MindWell/pkg/logger"
	"MindWell/pkg/services"
	"MindWell/pkg/store"
	"MindWell/pkg/token"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS handled at HTTP level; allow WS here
		return true
	},
}

type wsStartPayload struct {
	Type           string `json:"type"`
	Prompt         string `json:"prompt"`
	Section        string `json:"section"`
	ConversationID string `json:"conversation_id"`
	Timestamp      string `json:"timestamp"`
}

// GenerateWS streams a completion over WebSocket.
// Client protocol (JSON messages):
//
//	-> {type: "start", prompt: string, section?: string, conversation_id?: string, timestamp?: string}
//	<- {type: "delta", data: string}
//	<- {type: "done", ok: true}
//	<- {type: "error", error: string}
//
// Non-gossip sections record the exchange like POST /generate does; gossip
// skips persistence entirely.
func GenerateWS(users *store.UserStore, convs *store.ConversationStore, ai services.StreamCompleter) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Authenticate via ?token=JWT; browsers cannot set headers on WS dials
		tokenStr := strings.TrimSpace(c.Query("token"))
		if tokenStr == "" {
			c.Header("WWW-Authenticate", "Bearer")
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "missing token query"})
			return
		}
		email, err := token.Validate(tokenStr)
		if err != nil {
			c.Header("WWW-Authenticate", "Bearer")
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Could not validate credentials"})
			return
		}
		user, err := users.FindByEmail(email)
		if err != nil {
			c.Header("WWW-Authenticate", "Bearer")
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Could not validate credentials"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.L().Warnf("[ws] upgrade error: %v", err)
			return
		}
		defer conn.Close()

		conn.SetReadLimit(1 << 20) // 1MB
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		})

		// one start message per connection
		_, msgBytes, err := conn.ReadMessage()
		if err != nil {
			logger.L().Warnf("[ws] read message error: %v", err)
			return
		}
		var start wsStartPayload
		if err := json.Unmarshal(msgBytes, &start); err != nil || strings.ToLower(start.Type) != "start" || strings.TrimSpace(start.Prompt) == "" {
			_ = conn.WriteJSON(gin.H{"type": "error", "error": "invalid start payload"})
			return
		}

		onDelta := func(chunk string) {
			_ = conn.WriteJSON(gin.H{"type": "delta", "data": chunk})
		}

		if start.Section == "gossip" {
			if _, err := ai.StreamComplete(c.Request.Context(), start.Prompt, onDelta); err != nil {
				logger.L().Warnf("[ws] freeform stream failed: %v", err)
				_ = conn.WriteJSON(gin.H{"type": "error", "error": "completion failed"})
				return
			}
			_ = conn.WriteJSON(gin.H{"type": "done", "ok": true})
			return
		}

		if start.ConversationID == "" {
			_ = conn.WriteJSON(gin.H{"type": "error", "error": "conversation_id is required for non-gossip sections"})
			return
		}

		streaming := store.CompleterFunc(func(ctx context.Context, prompt string) (string, error) {
			return ai.StreamComplete(ctx, prompt, onDelta)
		})
		if _, err := convs.RecordExchange(c.Request.Context(), user.ID, start.ConversationID, start.Prompt, start.Timestamp, streaming); err != nil {
			logger.L().Warnf("[ws] exchange failed: %v", err)
			_ = conn.WriteJSON(gin.H{"type": "error", "error": "failed to record exchange"})
			return
		}
		_ = conn.WriteJSON(gin.H{"type": "done", "ok": true})
	}
}
