package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"MindWell/middleware"
	"MindWell/pkg/logger"
	"MindWell/pkg/store"
)

func ListConversations(convs *store.ConversationStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)

		list, err := convs.List(user.ID)
		if err != nil {
			logger.L().Errorf("[conversations] list failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "db error"})
			return
		}

		result := make([]gin.H, 0, len(list))
		for _, conv := range list {
			result = append(result, gin.H{
				"id":         conv.ID,
				"title":      conv.Title,
				"created_at": conv.CreatedAt,
			})
		}
		c.JSON(http.StatusOK, result)
	}
}

func GetMessages(convs *store.ConversationStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		convID := c.Param("conversation_id")

		msgs, err := convs.Messages(user.ID, convID)
		if errors.Is(err, store.ErrNotFound) {
			// also masks conversations owned by someone else
			c.JSON(http.StatusNotFound, gin.H{"detail": "Conversation not found or access denied"})
			return
		}
		if err != nil {
			logger.L().Errorf("[conversations] messages failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "db error"})
			return
		}

		result := make([]gin.H, 0, len(msgs))
		for _, m := range msgs {
			result = append(result, gin.H{
				"role":      m.Sender,
				"content":   m.Text,
				"timestamp": m.Timestamp,
			})
		}
		c.JSON(http.StatusOK, result)
	}
}

// DeleteConversation always reports success; deleting an absent or foreign
// conversation is a no-op.
func DeleteConversation(convs *store.ConversationStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		convID := c.Param("conversation_id")

		if err := convs.Delete(user.ID, convID); err != nil {
			logger.L().Errorf("[conversations] delete failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to delete conversation"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "deleted"})
	}
}
