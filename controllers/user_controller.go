// controllers/user_controller.go
package controllers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/ihexyousex/mangalore-properties-sub000/middleware"
	"github.com/ihexyousex/mangalore-properties-sub000/models"
	"github.com/ihexyousex/mangalore-properties-sub000/repositories"
	"github.com/ihexyousex/mangalore-properties-sub000/utils"
)

// UserController handles visitor accounts: signup, login, profile and the
// saved-favorites list.
type UserController struct {
	DB       *mongo.Client
	users    *repositories.UserRepository
	listings *repositories.ListingRepository
}

func NewUserController(db *mongo.Client) *UserController {
	return &UserController{
		DB:       db,
		users:    repositories.NewUserRepository(db),
		listings: repositories.NewListingRepository(db),
	}
}

// Register creates a visitor account
func (uc *UserController) Register(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req struct {
		FullName string `json:"fullName" validate:"required,min=2"`
		Email    string `json:"email" validate:"required,email"`
		Phone    string `json:"phone,omitempty"`
		Password string `json:"password" validate:"required,min=8"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Name, email and a password of at least 8 characters are required",
		})
	}

	email, err := utils.SanitizeEmail(req.Email)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid email address",
		})
	}

	if _, err := uc.users.FindByEmail(ctx, email); err == nil {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "An account with this email already exists",
		})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create account",
		})
	}

	phone, _ := utils.SanitizePhone(req.Phone)
	user := &models.User{
		Email:    email,
		FullName: utils.SanitizeInput(req.FullName),
		Phone:    phone,
		Password: string(hashedPassword),
		UserType: "user",
	}

	id, err := uc.users.Create(ctx, user)
	if err != nil {
		log.Printf("Failed to create user: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create account",
		})
	}

	token, err := middleware.GenerateJWT(id.Hex(), email, "user")
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate token",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Account created",
		Data: map[string]interface{}{
			"token": token,
			"user": map[string]interface{}{
				"id":       id.Hex(),
				"email":    email,
				"fullName": user.FullName,
			},
		},
	})
}

// Login authenticates a visitor account
func (uc *UserController) Login(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Email and password are required",
		})
	}

	user, err := uc.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid credentials",
		})
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid credentials",
		})
	}

	token, err := middleware.GenerateJWT(user.ID.Hex(), user.Email, user.UserType)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate token",
		})
	}

	if err := uc.users.TouchLastSeen(ctx, user.ID); err != nil {
		log.Printf("Failed to update last seen: %v", err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Login successful",
		Data: map[string]interface{}{
			"token": token,
			"user": map[string]interface{}{
				"id":       user.ID.Hex(),
				"email":    user.Email,
				"fullName": user.FullName,
				"userType": user.UserType,
			},
		},
	})
}

func (uc *UserController) currentUserID(c echo.Context) (primitive.ObjectID, error) {
	claims, err := middleware.GetUserFromToken(c)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return primitive.ObjectIDFromHex(claims.UserID)
}

// GetProfile returns the logged-in user's profile
func (uc *UserController) GetProfile(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID, err := uc.currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication required",
		})
	}

	user, err := uc.users.FindByID(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "User not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Profile retrieved successfully",
		Data:    user,
	})
}

// UpdateProfile edits the profile fields that are allowed to change
func (uc *UserController) UpdateProfile(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID, err := uc.currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication required",
		})
	}

	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	req.FullName = utils.SanitizeInput(req.FullName)
	if req.Phone != "" {
		phone, err := utils.SanitizePhone(req.Phone)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid phone number",
			})
		}
		req.Phone = phone
	}

	if err := uc.users.UpdateProfile(ctx, userID, req); err != nil {
		log.Printf("Failed to update profile: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update profile",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Profile updated",
	})
}

// ToggleFavorite saves or unsaves a listing on the user's favorites list
func (uc *UserController) ToggleFavorite(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID, err := uc.currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication required",
		})
	}

	listingID, err := primitive.ObjectIDFromHex(c.Param("listingId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid listing ID",
		})
	}

	listing, err := uc.listings.FindByID(ctx, listingID)
	if err != nil || listing.ApprovalStatus != models.ApprovalApproved {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Listing not found",
		})
	}

	favorited, err := uc.users.ToggleFavorite(ctx, userID, listingID)
	if err != nil {
		log.Printf("Failed to toggle favorite: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update favorites",
		})
	}

	message := "Listing removed from favorites"
	if favorited {
		message = "Listing added to favorites"
	}
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: message,
		Data: map[string]interface{}{
			"favorited": favorited,
		},
	})
}

// SaveCompareList stores the user's compare shortlist so it survives across
// devices; an empty list clears it.
func (uc *UserController) SaveCompareList(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID, err := uc.currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication required",
		})
	}

	var req struct {
		IDs []string `json:"ids" validate:"max=4"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "A compare shortlist holds at most 4 listings",
		})
	}

	listingIDs := make([]primitive.ObjectID, 0, len(req.IDs))
	for _, raw := range req.IDs {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid listing ID: " + raw,
			})
		}
		listingIDs = append(listingIDs, id)
	}

	if err := uc.users.SetCompareList(ctx, userID, listingIDs); err != nil {
		log.Printf("Failed to save compare list: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to save compare list",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Compare list saved",
		Data: map[string]interface{}{
			"count": len(listingIDs),
		},
	})
}

// GetCompareList returns the listings on the user's saved shortlist
func (uc *UserController) GetCompareList(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID, err := uc.currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication required",
		})
	}

	user, err := uc.users.FindByID(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "User not found",
		})
	}

	listings := []models.Listing{}
	if len(user.CompareList) > 0 {
		listings, err = uc.listings.FindByIDs(ctx, user.CompareList)
		if err != nil {
			log.Printf("Failed to fetch compare listings: %v", err)
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to retrieve compare list",
			})
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Compare list retrieved successfully",
		Data: map[string]interface{}{
			"listings": listings,
			"count":    len(listings),
		},
	})
}

// GetFavorites returns the user's saved listings
func (uc *UserController) GetFavorites(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID, err := uc.currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Authentication required",
		})
	}

	user, err := uc.users.FindByID(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "User not found",
		})
	}

	listings := []models.Listing{}
	if len(user.Favorites) > 0 {
		listings, err = uc.listings.FindByIDs(ctx, user.Favorites)
		if err != nil {
			log.Printf("Failed to fetch favorite listings: %v", err)
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to retrieve favorites",
			})
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Favorites retrieved successfully",
		Data: map[string]interface{}{
			"listings": listings,
			"count":    len(listings),
		},
	})
}
