package websocket

import (
	"github.com/gin-gonic/gin"

	"MindWell/controllers"
	"MindWell/pkg/services"
	"MindWell/pkg/store"
)

// Register registers the WebSocket surface; auth happens inside the handler
// via the token query parameter.
func Register(r *gin.Engine, users *store.UserStore, convs *store.ConversationStore, ai services.StreamCompleter) {
	r.GET("/ws/generate", controllers.GenerateWS(users, convs, ai))
}
