package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a marketplace account: a visitor profile with saved favorites and a
// compare shortlist, or an admin reviewing submissions.
type User struct {
	ID          primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	Email       string               `json:"email" bson:"email"`
	FullName    string               `json:"fullName" bson:"fullName"`
	Phone       string               `json:"phone,omitempty" bson:"phone,omitempty"`
	Password    string               `json:"-" bson:"password"`
	UserType    string               `json:"userType" bson:"userType"` // "user", "admin"
	FCMToken    string               `json:"-" bson:"fcmToken,omitempty"`
	Favorites   []primitive.ObjectID `json:"favorites" bson:"favorites"`
	CompareList []primitive.ObjectID `json:"compareList" bson:"compareList"`
	IsActive    bool                 `json:"isActive" bson:"isActive"`
	LastSeen    time.Time            `json:"lastSeen,omitempty" bson:"lastSeen,omitempty"`
	CreatedAt   time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// LoginRequest is the admin dashboard login payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest carries the editable profile fields.
type UpdateProfileRequest struct {
	FullName string `json:"fullName,omitempty"`
	Phone    string `json:"phone,omitempty"`
	FCMToken string `json:"fcmToken,omitempty"`
}

// Notification is an in-app notification row.
type Notification struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID    primitive.ObjectID `json:"userId" bson:"userId"`
	Title     string             `json:"title" bson:"title"`
	Message   string             `json:"message" bson:"message"`
	Type      string             `json:"type" bson:"type"`
	Data      interface{}        `json:"data,omitempty" bson:"data,omitempty"`
	IsRead    bool               `json:"isRead" bson:"isRead"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// Response is the JSON envelope every endpoint answers with.
type Response struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
