// controllers/admin_controller.go
package controllers

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/ihexyousex/mangalore-properties-sub000/config"
	"github.com/ihexyousex/mangalore-properties-sub000/middleware"
	"github.com/ihexyousex/mangalore-properties-sub000/models"
	"github.com/ihexyousex/mangalore-properties-sub000/repositories"
)

// AdminController handles the review dashboard's authentication and stats.
type AdminController struct {
	DB    *mongo.Client
	users *repositories.UserRepository
}

func NewAdminController(db *mongo.Client) *AdminController {
	return &AdminController{
		DB:    db,
		users: repositories.NewUserRepository(db),
	}
}

// Login authenticates a reviewer. The bootstrap admin comes from the
// environment; further admin accounts live in the users collection.
func (ac *AdminController) Login(c echo.Context) error {
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

	// Bootstrap admin from environment
	envEmail := os.Getenv("ADMIN_EMAIL")
	envPassword := os.Getenv("ADMIN_PASSWORD")
	if envEmail != "" && strings.EqualFold(req.Email, envEmail) && req.Password == envPassword {
		token, err := middleware.GenerateJWT("admin", envEmail, "admin")
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to generate token",
			})
		}

		cookie := new(http.Cookie)
		cookie.Name = "admin_token"
		cookie.Value = token
		cookie.Expires = time.Now().Add(24 * time.Hour)
		cookie.HttpOnly = true
		cookie.SameSite = http.SameSiteStrictMode
		c.SetCookie(cookie)

		return c.JSON(http.StatusOK, models.Response{
			Status:  http.StatusOK,
			Message: "Admin login successful",
			Data: map[string]interface{}{
				"token": token,
				"user": map[string]interface{}{
					"email": envEmail,
					"role":  "admin",
				},
			},
		})
	}

	// Admin account stored in the users collection
	admin, err := ac.users.FindByEmail(ctx, req.Email)
	if err != nil || admin.UserType != "admin" {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid admin credentials",
		})
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(req.Password)); err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid admin credentials",
		})
	}

	token, err := middleware.GenerateJWT(admin.ID.Hex(), admin.Email, "admin")
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate token",
		})
	}

	cookie := new(http.Cookie)
	cookie.Name = "admin_token"
	cookie.Value = token
	cookie.Expires = time.Now().Add(24 * time.Hour)
	cookie.HttpOnly = true
	cookie.SameSite = http.SameSiteStrictMode
	c.SetCookie(cookie)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Admin login successful",
		Data: map[string]interface{}{
			"token": token,
			"user": map[string]interface{}{
				"id":    admin.ID.Hex(),
				"email": admin.Email,
				"role":  "admin",
			},
		},
	})
}

// Logout invalidates the presented token until it expires
func (ac *AdminController) Logout(c echo.Context) error {
	authHeader := c.Request().Header.Get("Authorization")
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString != "" && tokenString != authHeader {
		middleware.BlacklistToken(tokenString, time.Now().Add(24*time.Hour))
	}

	cookie := new(http.Cookie)
	cookie.Name = "admin_token"
	cookie.Value = ""
	cookie.Expires = time.Now().Add(-time.Hour)
	c.SetCookie(cookie)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Logged out",
	})
}

// GetDashboardStats returns review-queue counts for the dashboard header
func (ac *AdminController) GetDashboardStats(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := config.GetCollection(ac.DB, "listings")

	stats := map[string]int64{}
	for _, status := range []string{models.ApprovalPending, models.ApprovalApproved, models.ApprovalRejected} {
		count, err := collection.CountDocuments(ctx, bson.M{"approvalStatus": status})
		if err != nil {
			log.Printf("Failed to count %s listings: %v", status, err)
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to compute dashboard stats",
			})
		}
		stats[status] = count
	}

	inquiries, err := config.GetCollection(ac.DB, "inquiries").CountDocuments(ctx, bson.M{})
	if err != nil {
		log.Printf("Failed to count inquiries: %v", err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Dashboard stats retrieved successfully",
		Data: map[string]interface{}{
			"pending":   stats[models.ApprovalPending],
			"approved":  stats[models.ApprovalApproved],
			"rejected":  stats[models.ApprovalRejected],
			"inquiries": inquiries,
		},
	})
}
