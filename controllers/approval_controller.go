// controllers/approval_controller.go
package controllers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ihexyousex/mangalore-properties-sub000/middleware"
	"github.com/ihexyousex/mangalore-properties-sub000/models"
	"github.com/ihexyousex/mangalore-properties-sub000/repositories"
	"github.com/ihexyousex/mangalore-properties-sub000/utils"
	"github.com/ihexyousex/mangalore-properties-sub000/websocket"
)

// ApprovalController drives the review pipeline: listing pending
// submissions, approving them onto the live site and rejecting them with a
// reason back to the submitter.
type ApprovalController struct {
	DB       *mongo.Client
	listings *repositories.ListingRepository
	drafts   *repositories.DraftRepository
	hub      *websocket.Hub
}

func NewApprovalController(db *mongo.Client, hub *websocket.Hub) *ApprovalController {
	return &ApprovalController{
		DB:       db,
		listings: repositories.NewListingRepository(db),
		drafts:   repositories.NewDraftRepository(db),
		hub:      hub,
	}
}

// GetApprovals lists submissions by review status (pending by default)
func (ac *ApprovalController) GetApprovals(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	status := c.QueryParam("status")
	if status == "" {
		status = models.ApprovalPending
	}

	listings, err := ac.listings.FindByStatus(ctx, status)
	if err != nil {
		log.Printf("Failed to fetch approvals: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve submissions",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Submissions retrieved successfully",
		Data: map[string]interface{}{
			"listings": listings,
			"count":    len(listings),
		},
	})
}

// decide resolves one pending submission and notifies the submitter through
// every channel we have for them.
func (ac *ApprovalController) decide(c echo.Context, listingID, status, reason string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	claims, err := middleware.GetUserFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication required",
		})
	}

	id, err := primitive.ObjectIDFromHex(listingID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid listing ID",
		})
	}

	adminID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		adminID = primitive.NilObjectID
	}

	listing, err := ac.listings.FindByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Submission not found",
		})
	}

	if err := ac.listings.SetApproval(ctx, id, status, reason, adminID); err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: "Submission has already been processed",
			})
		}
		log.Printf("Failed to update approval status: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to process submission",
		})
	}

	if listing.Submitter != nil {
		go utils.SendDecisionEmail(*listing.Submitter, listing.Title, status, reason)
	}
	ac.hub.NotifySubmissionDecided(map[string]interface{}{
		"trackingId": listing.TrackingID,
		"title":      listing.Title,
		"status":     status,
	})
	ac.notifySubmitterAccount(listing, status, reason)

	message := "Listing approved and published"
	if status == models.ApprovalRejected {
		message = "Listing rejected"
	}
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: message,
		Data: map[string]interface{}{
			"trackingId": listing.TrackingID,
			"status":     status,
		},
	})
}

// notifySubmitterAccount sends push and in-app notifications when the
// submitter has a marketplace account.
func (ac *ApprovalController) notifySubmitterAccount(listing *models.Listing, status, reason string) {
	if listing.Submitter == nil || listing.Submitter.Email == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	userRepo := repositories.NewUserRepository(ac.DB)
	user, err := userRepo.FindByEmail(ctx, listing.Submitter.Email)
	if err != nil {
		return
	}

	var title, message string
	if status == models.ApprovalApproved {
		title = "Listing approved"
		message = "Your listing \"" + listing.Title + "\" is now live."
	} else {
		title = "Listing rejected"
		message = "Your listing \"" + listing.Title + "\" was not approved: " + reason
	}

	if err := utils.SaveNotification(ac.DB, user.ID, title, message, "listing_decision", map[string]interface{}{
		"trackingId": listing.TrackingID,
		"status":     status,
	}); err != nil {
		log.Printf("Failed to save notification: %v", err)
	}

	if err := utils.SendFCMNotificationToUser(ac.DB, user.ID, title, message, map[string]interface{}{
		"trackingId": listing.TrackingID,
		"status":     status,
	}); err != nil {
		log.Printf("Failed to send push notification: %v", err)
	}
}

// ApproveProperty publishes a pending submission
func (ac *ApprovalController) ApproveProperty(c echo.Context) error {
	var req models.ApproveRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Project ID is required",
		})
	}

	return ac.decide(c, req.ProjectID, models.ApprovalApproved, "")
}

// RejectProperty declines a pending submission with a reason
func (ac *ApprovalController) RejectProperty(c echo.Context) error {
	var req models.RejectRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Project ID and rejection reason are required",
		})
	}

	return ac.decide(c, req.ProjectID, models.ApprovalRejected, req.Reason)
}

// GetDrafts lists saved admin drafts
func (ac *ApprovalController) GetDrafts(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	drafts, err := ac.drafts.FindAll(ctx)
	if err != nil {
		log.Printf("Failed to fetch drafts: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve drafts",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Drafts retrieved successfully",
		Data:    drafts,
	})
}

// DeleteDraft discards a saved draft
func (ac *ApprovalController) DeleteDraft(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid draft ID",
		})
	}

	if err := ac.drafts.Delete(ctx, id); err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Draft not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Draft deleted",
	})
}

// ReviewFeed upgrades the connection to the live review-queue WebSocket
func (ac *ApprovalController) ReviewFeed(c echo.Context) error {
	claims, err := middleware.GetUserFromToken(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication required",
		})
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		userID = primitive.NewObjectID()
	}

	return websocket.HandleWebSocket(c, ac.hub, userID)
}
