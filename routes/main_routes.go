package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ihexyousex/mangalore-properties-sub000/repositories"
	"github.com/ihexyousex/mangalore-properties-sub000/utils"
	"github.com/ihexyousex/mangalore-properties-sub000/websocket"
)

// SetupRoutes configures all API routes by calling individual route
// registration functions
func SetupRoutes(e *echo.Echo, db *mongo.Client, sessions *repositories.SessionRepository, hub *websocket.Hub) {
	RegisterListingRoutes(e, db, hub)
	RegisterWizardRoutes(e, db, sessions, hub)
	RegisterAdminRoutes(e, db, hub)
	RegisterUserRoutes(e, db)

	// Serve uploaded photos, thumbnails and video tours
	e.GET("/uploads/*", echo.WrapHandler(http.HandlerFunc(utils.ServeFiles)))
}
