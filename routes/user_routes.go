package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ihexyousex/mangalore-properties-sub000/controllers"
	"github.com/ihexyousex/mangalore-properties-sub000/middleware"
)

// RegisterUserRoutes sets up visitor accounts: signup, login, profile,
// favorites and the saved compare shortlist.
func RegisterUserRoutes(e *echo.Echo, db *mongo.Client) {
	userController := controllers.NewUserController(db)

	e.POST("/api/auth/signup", userController.Register)
	e.POST("/api/auth/login", userController.Login)

	r := e.Group("/api/user")
	r.Use(middleware.JWTMiddleware())

	r.GET("/profile", userController.GetProfile)
	r.PUT("/profile", userController.UpdateProfile)
	r.POST("/favorites/:listingId", userController.ToggleFavorite)
	r.GET("/favorites", userController.GetFavorites)
	r.PUT("/compare", userController.SaveCompareList)
	r.GET("/compare", userController.GetCompareList)
}
