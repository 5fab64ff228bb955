// controllers/inquiry_controller.go
package controllers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ihexyousex/mangalore-properties-sub000/models"
	"github.com/ihexyousex/mangalore-properties-sub000/repositories"
	"github.com/ihexyousex/mangalore-properties-sub000/utils"
)

// InquiryController accepts buyer questions on approved listings and relays
// them to the listing owner by email.
type InquiryController struct {
	DB        *mongo.Client
	inquiries *repositories.InquiryRepository
	listings  *repositories.ListingRepository
}

func NewInquiryController(db *mongo.Client) *InquiryController {
	return &InquiryController{
		DB:        db,
		inquiries: repositories.NewInquiryRepository(db),
		listings:  repositories.NewListingRepository(db),
	}
}

// CreateInquiry records a buyer inquiry and emails the listing owner
func (ic *InquiryController) CreateInquiry(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	listingID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid listing ID",
		})
	}

	var inquiry models.Inquiry
	if err := c.Bind(&inquiry); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&inquiry); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Name, email, phone and message are required",
		})
	}

	listing, err := ic.listings.FindByID(ctx, listingID)
	if err != nil || listing.ApprovalStatus != models.ApprovalApproved {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Listing not found",
		})
	}

	email, err := utils.SanitizeEmail(inquiry.Email)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid email address",
		})
	}
	phone, err := utils.SanitizePhone(inquiry.Phone)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid phone number",
		})
	}

	inquiry.ListingID = listingID
	inquiry.Name = utils.SanitizeInput(inquiry.Name)
	inquiry.Email = email
	inquiry.Phone = phone
	inquiry.Message = utils.SanitizeInput(inquiry.Message)

	if err := ic.inquiries.Create(ctx, &inquiry); err != nil {
		log.Printf("Failed to save inquiry: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to save inquiry",
		})
	}

	if listing.Submitter != nil && listing.Submitter.Email != "" {
		go utils.SendInquiryEmail(listing.Submitter.Email, listing.Title, inquiry)
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Inquiry sent to the listing owner",
	})
}

// GetInquiries lists inquiries for one listing (admin review surface)
func (ic *InquiryController) GetInquiries(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	listingID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid listing ID",
		})
	}

	inquiries, err := ic.inquiries.FindByListing(ctx, listingID)
	if err != nil {
		log.Printf("Failed to fetch inquiries: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve inquiries",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Inquiries retrieved successfully",
		Data: map[string]interface{}{
			"inquiries": inquiries,
			"count":     len(inquiries),
		},
	})
}
