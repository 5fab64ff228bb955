package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ihexyousex/mangalore-properties-sub000/controllers"
	"github.com/ihexyousex/mangalore-properties-sub000/repositories"
	"github.com/ihexyousex/mangalore-properties-sub000/websocket"
)

// RegisterWizardRoutes sets up the server-side wizard session endpoints
func RegisterWizardRoutes(e *echo.Echo, db *mongo.Client, sessions *repositories.SessionRepository, hub *websocket.Hub) {
	wizardController := controllers.NewWizardController(db, sessions, hub)

	api := e.Group("/api")

	api.POST("/wizard", wizardController.StartSession)
	api.GET("/wizard/:sessionId", wizardController.GetSession)
	api.POST("/wizard/:sessionId/category", wizardController.SelectCategory)
	api.POST("/wizard/:sessionId/next", wizardController.Next)
	api.POST("/wizard/:sessionId/back", wizardController.Back)
	api.POST("/wizard/:sessionId/submit", wizardController.Submit)
	api.POST("/wizard/:sessionId/draft", wizardController.SaveDraft)
}
