package generate

import (
	"github.com/gin-gonic/gin"

	"MindWell/controllers"
	"MindWell/pkg/services"
	"MindWell/pkg/store"
)

// Register registers generate routes (protected)
func Register(g *gin.RouterGroup, convs *store.ConversationStore, ai services.StreamCompleter) {
	g.POST("/generate", controllers.Generate(convs, ai))
	g.POST("/generate/stream", controllers.GenerateStream(convs, ai))
}
