package conversation

import (
	"github.com/gin-gonic/gin"

	"MindWell/controllers"
	"MindWell/pkg/store"
)

// Register registers conversation routes (protected)
func Register(g *gin.RouterGroup, convs *store.ConversationStore) {
	g.GET("/conversations", controllers.ListConversations(convs))
	g.GET("/conversations/:conversation_id/messages", controllers.GetMessages(convs))
	g.DELETE("/conversations/:conversation_id", controllers.DeleteConversation(convs))
}
