package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ihexyousex/mangalore-properties-sub000/controllers"
	"github.com/ihexyousex/mangalore-properties-sub000/middleware"
	"github.com/ihexyousex/mangalore-properties-sub000/websocket"
)

// RegisterAdminRoutes sets up the review dashboard: login, the approval
// pipeline, data entry and drafts.
func RegisterAdminRoutes(e *echo.Echo, db *mongo.Client, hub *websocket.Hub) {
	adminController := controllers.NewAdminController(db)
	approvalController := controllers.NewApprovalController(db, hub)
	submissionController := controllers.NewSubmissionController(db, hub)
	inquiryController := controllers.NewInquiryController(db)

	e.POST("/api/admin/login", adminController.Login)

	admin := e.Group("/api/admin")
	admin.Use(middleware.JWTMiddleware())
	admin.Use(middleware.RequireUserType("admin"))

	admin.POST("/logout", adminController.Logout)
	admin.GET("/stats", adminController.GetDashboardStats)

	// Review pipeline
	admin.GET("/approvals", approvalController.GetApprovals)
	admin.POST("/approve-property", approvalController.ApproveProperty)
	admin.POST("/reject-property", approvalController.RejectProperty)
	admin.GET("/ws", approvalController.ReviewFeed)

	// Admin data entry skips the review queue
	admin.POST("/projects", submissionController.CreateProject)
	admin.POST("/listings/draft", submissionController.SaveDraft)
	admin.GET("/drafts", approvalController.GetDrafts)
	admin.DELETE("/drafts/:id", approvalController.DeleteDraft)

	// Inquiry review
	admin.GET("/listings/:id/inquiries", inquiryController.GetInquiries)
}
