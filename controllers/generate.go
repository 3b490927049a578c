package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"MindWell/middleware"
	"MindWell/pkg/cache"
	"MindWell/pkg/config"
	"MindWell/pkg/logger"
	"MindWell/pkg/services"
	"MindWell/pkg/store"
)

type generateRequest struct {
	Prompt         string `json:"prompt"`
	Section        string `json:"section"`
	ConversationID string `json:"conversation_id"`
	Timestamp      string `json:"timestamp"`
}

// Generate is the main prompt endpoint. section "gossip" is the freeform
// path: the prompt goes straight to the completion collaborator and nothing
// is persisted. Every other section records the full exchange in the
// caller's conversation.
func Generate(convs *store.ConversationStore, ai services.Completer) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)

		var body generateRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request"})
			return
		}
		if strings.TrimSpace(body.Prompt) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Prompt is required."})
			return
		}

		if body.Section == "gossip" {
			result, err := freeformComplete(c.Request.Context(), ai, body.Prompt)
			if err != nil {
				logger.L().Warnf("[generate] freeform completion failed: %v", err)
				c.JSON(http.StatusBadGateway, gin.H{"detail": "completion failed"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"result": result})
			return
		}

		if body.ConversationID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "conversation_id is required for non-gossip sections"})
			return
		}

		result, err := convs.RecordExchange(c.Request.Context(), user.ID, body.ConversationID, body.Prompt, body.Timestamp, ai)
		if errors.Is(err, store.ErrCompletion) {
			logger.L().Warnf("[generate] completion failed: %v", err)
			c.JSON(http.StatusBadGateway, gin.H{"detail": "completion failed"})
			return
		}
		if err != nil {
			logger.L().Errorf("[generate] record exchange failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to record exchange"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"result": result})
	}
}

// freeformComplete memoizes freeform completions in the process cache;
// a hit returns the same body a fresh call would.
func freeformComplete(ctx context.Context, ai services.Completer, prompt string) (string, error) {
	key := cache.KeyFromStrings("gossip", prompt)
	if text, ok := cache.Default().Get(key); ok {
		return text, nil
	}
	text, err := ai.Complete(ctx, prompt)
	if err != nil {
		return "", err
	}
	cache.Default().Set(key, text, time.Duration(config.CompletionCacheTTLSeconds)*time.Second)
	return text, nil
}

// GenerateStream mirrors Generate over SSE. Events:
//   - user_saved (persisted path only) with the conversation id
//   - delta with partial text chunks
//   - done / error
func GenerateStream(convs *store.ConversationStore, ai services.StreamCompleter) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "text/event-stream")
		c.Writer.Header().Set("Cache-Control", "no-cache")
		c.Writer.Header().Set("Connection", "keep-alive")
		c.Writer.Header().Set("X-Accel-Buffering", "no") // nginx buffering off

		flusher, ok := c.Writer.(http.Flusher)
		if !ok {
			c.String(http.StatusInternalServerError, "streaming unsupported")
			return
		}

		user := middleware.CurrentUser(c)

		var body generateRequest
		if err := c.ShouldBindJSON(&body); err != nil || strings.TrimSpace(body.Prompt) == "" {
			c.Status(http.StatusBadRequest)
			return
		}

		emit := func(event, data string) {
			fmt.Fprintf(c.Writer, "event: %s\n", event)
			fmt.Fprintf(c.Writer, "data: %s\n\n", data)
			flusher.Flush()
		}
		onDelta := func(chunk string) {
			emit("delta", strings.ReplaceAll(chunk, "\n", "\\n"))
		}

		if body.Section == "gossip" {
			if _, err := ai.StreamComplete(c.Request.Context(), body.Prompt, onDelta); err != nil {
				logger.L().Warnf("[generate] freeform stream failed: %v", err)
				emit("error", "completion failed")
				return
			}
			emit("done", `{"ok": true}`)
			return
		}

		if body.ConversationID == "" {
			c.Status(http.StatusBadRequest)
			return
		}

		emit("user_saved", fmt.Sprintf(`{"conversation_id": %q}`, body.ConversationID))

		streaming := store.CompleterFunc(func(ctx context.Context, prompt string) (string, error) {
			return ai.StreamComplete(ctx, prompt, onDelta)
		})
		if _, err := convs.RecordExchange(c.Request.Context(), user.ID, body.ConversationID, body.Prompt, body.Timestamp, streaming); err != nil {
			logger.L().Warnf("[generate] stream exchange failed: %v", err)
			emit("error", "failed to record exchange")
			return
		}
		emit("done", `{"ok": true}`)
	}
}
