package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ihexyousex/mangalore-properties-sub000/controllers"
	"github.com/ihexyousex/mangalore-properties-sub000/middleware"
	"github.com/ihexyousex/mangalore-properties-sub000/websocket"
)

// RegisterListingRoutes sets up the public browse and submission surface
func RegisterListingRoutes(e *echo.Echo, db *mongo.Client, hub *websocket.Hub) {
	listingController := controllers.NewListingController(db)
	submissionController := controllers.NewSubmissionController(db, hub)
	inquiryController := controllers.NewInquiryController(db)

	api := e.Group("/api")

	// Browse surface
	api.GET("/listings", listingController.GetListings)
	api.GET("/listings/:id", listingController.GetListing)
	api.POST("/listings/compare", listingController.CompareListings)
	api.GET("/categories", listingController.GetCategories)
	api.GET("/track/:trackingId", listingController.TrackSubmission)

	// Public submission boundary
	api.POST("/submit-listing", submissionController.SubmitListing)
	api.POST("/uploads/photo", submissionController.UploadPhoto)
	api.POST("/uploads/video", submissionController.UploadVideo)

	// Inquiries
	api.POST("/listings/:id/inquiries", inquiryController.CreateInquiry)

	// Partner submissions authenticate against the external identity provider
	partner := e.Group("/api/partner")
	partner.Use(middleware.PartnerAuth())
	partner.POST("/submit-listing", submissionController.SubmitListing)
}
