// controllers/submission_controller.go
package controllers

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ihexyousex/mangalore-properties-sub000/models"
	"github.com/ihexyousex/mangalore-properties-sub000/repositories"
	"github.com/ihexyousex/mangalore-properties-sub000/services"
	"github.com/ihexyousex/mangalore-properties-sub000/utils"
	"github.com/ihexyousex/mangalore-properties-sub000/websocket"
	"github.com/ihexyousex/mangalore-properties-sub000/wizard"
)

// SubmissionController is the persistence boundary for completed wizard
// flows: public submissions enter the review queue, admin entries go live
// immediately.
type SubmissionController struct {
	DB       *mongo.Client
	listings *repositories.ListingRepository
	drafts   *repositories.DraftRepository
	geocoder *services.GeocodeService
	hub      *websocket.Hub
}

func NewSubmissionController(db *mongo.Client, hub *websocket.Hub) *SubmissionController {
	return &SubmissionController{
		DB:       db,
		listings: repositories.NewListingRepository(db),
		drafts:   repositories.NewDraftRepository(db),
		geocoder: services.NewGeocodeService(),
		hub:      hub,
	}
}

// validateRecord re-checks the submitted record server-side: the category
// must exist and every field its schema requires must be present.
func validateRecord(rec map[string]interface{}) error {
	category := wizard.Category(fmt.Sprint(rec["category"]))
	if !category.IsValid() {
		return fmt.Errorf("unknown category %q", rec["category"])
	}

	schema, err := wizard.SchemaFor(category)
	if err != nil {
		return err
	}

	for _, name := range schema.RequiredNames() {
		v, ok := rec[name]
		if !ok || v == nil || fmt.Sprint(v) == "" {
			return fmt.Errorf("missing required field %q", name)
		}
	}
	return nil
}

// persist stores the listing, resolving coordinates best-effort from the
// location text before insert.
func (sc *SubmissionController) persist(ctx context.Context, listing *models.Listing) error {
	if listing.Location != "" && listing.Coordinates == nil {
		if result, err := sc.geocoder.Resolve(ctx, listing.Location); err != nil {
			log.Printf("Geocoding failed for %q: %v", listing.Location, err)
		} else if result != nil {
			listing.Coordinates = &result.Point
		}
	}

	_, err := sc.listings.Create(ctx, listing)
	return err
}

// SubmitListing handles public submissions. The listing lands in the review
// queue as pending; the submitter gets a tracking ID and QR code back.
func (sc *SubmissionController) SubmitListing(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.SubmitListingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Submitter name, email and phone are required",
		})
	}

	if err := validateRecord(req.Listing); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	email, err := utils.SanitizeEmail(req.Submitter.Email)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid submitter email",
		})
	}
	phone, err := utils.SanitizePhone(req.Submitter.Phone)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid submitter phone",
		})
	}

	listing := models.ListingFromRecord(req.Listing)
	listing.Flow = "public"
	listing.Title = utils.SanitizeInput(listing.Title)
	listing.Description = utils.SanitizeInput(listing.Description)
	listing.Amenities = utils.SanitizeStringArray(listing.Amenities)
	listing.ApprovalStatus = models.ApprovalPending
	listing.TrackingID = utils.GenerateTrackingID(time.Now())
	listing.Submitter = &models.Submitter{
		Name:     utils.SanitizeInput(req.Submitter.Name),
		Email:    email,
		Phone:    phone,
		FCMToken: req.Submitter.FCMToken,
	}
	if listing.SubmittedAt.IsZero() {
		listing.SubmittedAt = time.Now().UTC()
	}

	if err := sc.persist(ctx, &listing); err != nil {
		log.Printf("Failed to save submission: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to save listing",
		})
	}

	qrCode, err := utils.GenerateTrackingQR(listing.TrackingID)
	if err != nil {
		log.Printf("Failed to generate tracking QR: %v", err)
	}

	go utils.SendSubmissionReceivedEmail(*listing.Submitter, listing.Title, listing.TrackingID)
	sc.hub.NotifySubmissionReceived(map[string]interface{}{
		"trackingId": listing.TrackingID,
		"title":      listing.Title,
		"category":   listing.Category,
	})

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Listing submitted for review",
		Data: map[string]interface{}{
			"trackingId": listing.TrackingID,
			"qrCode":     qrCode,
		},
	})
}

// CreateProject handles admin data-entry submissions: the record arrives
// flat, is marked approved on create, and skips the review queue.
func (sc *SubmissionController) CreateProject(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var rec map[string]interface{}
	if err := c.Bind(&rec); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	if err := validateRecord(rec); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	listing := models.ListingFromRecord(rec)
	listing.Flow = "admin"
	listing.ApprovalStatus = models.ApprovalApproved
	listing.TrackingID = utils.GenerateTrackingID(time.Now())
	if listing.SubmittedAt.IsZero() {
		listing.SubmittedAt = time.Now().UTC()
	}

	if err := sc.persist(ctx, &listing); err != nil {
		log.Printf("Failed to save project: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to save listing",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Project created",
		Data: map[string]interface{}{
			"trackingId": listing.TrackingID,
		},
	})
}

// SaveDraft stores a partial admin entry without validation so data entry
// can resume later.
func (sc *SubmissionController) SaveDraft(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var snap wizard.Snapshot
	if err := c.Bind(&snap); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	draft := &models.Draft{
		Flow:     snap.Flow,
		Step:     snap.Step,
		Category: string(snap.Category),
		Fields:   snap.Fields,
	}

	id, err := sc.drafts.Save(ctx, draft)
	if err != nil {
		log.Printf("Failed to save draft: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to save draft",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Draft saved",
		Data: map[string]interface{}{
			"draftId": id.Hex(),
		},
	})
}

// UploadPhoto stores a listing photo plus browse thumbnail
func (sc *SubmissionController) UploadPhoto(c echo.Context) error {
	file, err := c.FormFile("photo")
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Photo file is required",
		})
	}
	if !utils.IsValidImageFile(file) {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Unsupported image format",
		})
	}

	src, err := file.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to read uploaded file",
		})
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to read uploaded file",
		})
	}

	photoURL, thumbnailURL, err := utils.SaveListingPhoto(data, file.Filename)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Photo uploaded",
		Data: map[string]interface{}{
			"url":       photoURL,
			"thumbnail": thumbnailURL,
		},
	})
}

// UploadVideo stores a video walkthrough and extracts a poster frame
func (sc *SubmissionController) UploadVideo(c echo.Context) error {
	file, err := c.FormFile("video")
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Video file is required",
		})
	}

	src, err := file.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to read uploaded file",
		})
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to read uploaded file",
		})
	}

	videoURL, err := utils.SaveVideoTour(data, file.Filename)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	posterURL, err := utils.GenerateVideoPoster(videoURL)
	if err != nil {
		log.Printf("Failed to generate video poster: %v", err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Video uploaded",
		Data: map[string]interface{}{
			"url":    videoURL,
			"poster": posterURL,
		},
	})
}
