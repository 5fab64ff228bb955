// controllers/listing_controller.go
package controllers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ihexyousex/mangalore-properties-sub000/models"
	"github.com/ihexyousex/mangalore-properties-sub000/repositories"
	"github.com/ihexyousex/mangalore-properties-sub000/utils"
	"github.com/ihexyousex/mangalore-properties-sub000/wizard"
)

// ListingController serves the public browse surface: approved listings,
// detail pages, side-by-side comparison and submission tracking.
type ListingController struct {
	DB       *mongo.Client
	listings *repositories.ListingRepository
}

func NewListingController(db *mongo.Client) *ListingController {
	return &ListingController{
		DB:       db,
		listings: repositories.NewListingRepository(db),
	}
}

// GetListings returns approved listings filtered by category, locality and
// price range.
func (lc *ListingController) GetListings(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := repositories.ListingFilter{
		Category: c.QueryParam("category"),
		City:     c.QueryParam("locality"),
	}
	if v := c.QueryParam("minPrice"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MinPrice = f
		}
	}
	if v := c.QueryParam("maxPrice"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MaxPrice = f
		}
	}
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = int64(n)
		}
	}
	if v := c.QueryParam("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 1 {
			limit := filter.Limit
			if limit == 0 {
				limit = 20
			}
			filter.Skip = int64(n-1) * limit
		}
	}

	if filter.Category != "" && !wizard.Category(filter.Category).IsValid() {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Unknown category",
		})
	}

	listings, err := lc.listings.FindApproved(ctx, filter)
	if err != nil {
		log.Printf("Failed to fetch listings: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve listings",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Listings retrieved successfully",
		Data: map[string]interface{}{
			"listings": listings,
			"count":    len(listings),
		},
	})
}

// GetListing returns one listing by ID. Pending and rejected listings are
// only visible to admins.
func (lc *ListingController) GetListing(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid listing ID",
		})
	}

	listing, err := lc.listings.FindByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Listing not found",
		})
	}

	if listing.ApprovalStatus != models.ApprovalApproved {
		userType, _ := c.Get("userType").(string)
		if userType != "admin" {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Listing not found",
			})
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Listing retrieved successfully",
		Data:    listing,
	})
}

// CompareListings returns two to four approved listings side by side, with
// the union of their schema fields so clients can render aligned rows.
func (lc *ListingController) CompareListings(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.CompareRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Between 2 and 4 listing IDs are required",
		})
	}

	ids := make([]primitive.ObjectID, 0, len(req.IDs))
	for _, raw := range req.IDs {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid listing ID: " + raw,
			})
		}
		ids = append(ids, id)
	}

	listings, err := lc.listings.FindByIDs(ctx, ids)
	if err != nil {
		log.Printf("Failed to fetch listings for comparison: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve listings",
		})
	}
	if len(listings) < 2 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "At least two of the requested listings must be approved",
		})
	}

	// Union of the compared listings' field names, so rows where only some
	// listings have a value still show up.
	fieldSet := make(map[string]bool)
	rows := make([]map[string]interface{}, 0, len(listings))
	for _, listing := range listings {
		flat := listing.Flatten()
		flat["id"] = listing.ID.Hex()
		rows = append(rows, flat)
		for name := range flat {
			fieldSet[name] = true
		}
	}
	fields := make([]string, 0, len(fieldSet))
	for name := range fieldSet {
		fields = append(fields, name)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Comparison ready",
		Data: map[string]interface{}{
			"fields":   fields,
			"listings": rows,
		},
	})
}

// TrackSubmission reports review status by tracking ID, no account needed
func (lc *ListingController) TrackSubmission(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	trackingID := c.Param("trackingId")
	listing, err := lc.listings.FindByTrackingID(ctx, trackingID)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "No submission found for this tracking ID",
		})
	}

	qrCode, err := utils.GenerateTrackingQR(trackingID)
	if err != nil {
		log.Printf("Failed to generate tracking QR: %v", err)
	}

	data := map[string]interface{}{
		"trackingId":  listing.TrackingID,
		"title":       listing.Title,
		"status":      listing.ApprovalStatus,
		"submittedAt": listing.SubmittedAt,
		"qrCode":      qrCode,
	}
	if listing.ApprovalStatus == models.ApprovalRejected {
		data["rejectionReason"] = listing.RejectionReason
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Submission status retrieved",
		Data:    data,
	})
}

// GetCategories lists the selectable categories and their field schemas so
// clients can render wizard screens without hardcoding them.
func (lc *ListingController) GetCategories(c echo.Context) error {
	categories := make([]map[string]interface{}, 0, len(wizard.Categories()))
	for _, cat := range wizard.Categories() {
		schema, err := wizard.SchemaFor(cat)
		if err != nil {
			continue
		}
		categories = append(categories, map[string]interface{}{
			"category": string(cat),
			"required": schema.RequiredNames(),
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Categories retrieved successfully",
		Data:    categories,
	})
}
