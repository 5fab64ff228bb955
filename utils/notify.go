package utils

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"firebase.google.com/go/v4/messaging"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"gopkg.in/gomail.v2"

	"github.com/ihexyousex/mangalore-properties-sub000/config"
	"github.com/ihexyousex/mangalore-properties-sub000/models"
)

// SaveNotification saves an in-app notification to the database
func SaveNotification(db *mongo.Client, userID primitive.ObjectID, title, message, notifType string, data interface{}) error {
	collection := config.GetCollection(db, "notifications")

	notification := models.Notification{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Title:     title,
		Message:   message,
		Type:      notifType,
		Data:      data,
		IsRead:    false,
		CreatedAt: time.Now(),
	}

	_, err := collection.InsertOne(context.Background(), notification)
	return err
}

// SendEmail sends a plain-text email through the configured SMTP relay
func SendEmail(to, subject, body string) error {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpUser := os.Getenv("SMTP_USER")
	smtpPass := os.Getenv("SMTP_PASS")
	smtpPort := 2525
	if portStr := os.Getenv("SMTP_PORT"); portStr != "" {
		fmt.Sscanf(portStr, "%d", &smtpPort)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", smtpUser)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPass)
	return d.DialAndSend(m)
}

// SendSubmissionReceivedEmail tells the submitter their listing entered the
// review queue and how to track it.
func SendSubmissionReceivedEmail(submitter models.Submitter, title, trackingID string) {
	subject := "Your property listing has been received"
	body := fmt.Sprintf(
		"Dear %s,\n\nYour listing \"%s\" has been received and is pending review.\nYour tracking ID is %s. You can check the status anytime at https://mangaloreproperties.in/track/%s.\n\nBest regards,\nMangalore Properties",
		submitter.Name, title, trackingID, trackingID)

	if err := SendEmail(submitter.Email, subject, body); err != nil {
		log.Printf("Failed to send submission email to %s: %v", submitter.Email, err)
	}
}

// SendDecisionEmail tells the submitter the review outcome. Reason is only
// included for rejections.
func SendDecisionEmail(submitter models.Submitter, title, status, reason string) {
	var subject, body string
	if status == models.ApprovalApproved {
		subject = "Your property listing is now live"
		body = fmt.Sprintf(
			"Dear %s,\n\nGood news! Your listing \"%s\" has been approved and is now visible to buyers on Mangalore Properties.\n\nBest regards,\nMangalore Properties",
			submitter.Name, title)
	} else {
		subject = "Your property listing was not approved"
		body = fmt.Sprintf(
			"Dear %s,\n\nUnfortunately your listing \"%s\" was not approved.\nReason: %s\n\nYou can correct the issue and submit again.\n\nBest regards,\nMangalore Properties",
			submitter.Name, title, reason)
	}

	if err := SendEmail(submitter.Email, subject, body); err != nil {
		log.Printf("Failed to send decision email to %s: %v", submitter.Email, err)
	}
}

// SendInquiryEmail forwards a buyer inquiry to the listing owner
func SendInquiryEmail(ownerEmail, listingTitle string, inquiry models.Inquiry) {
	subject := fmt.Sprintf("New inquiry for %s", listingTitle)
	body := fmt.Sprintf(
		"You have a new inquiry for your listing \"%s\".\n\nFrom: %s (%s, %s)\n\n%s\n\nReply directly to the buyer to continue the conversation.",
		listingTitle, inquiry.Name, inquiry.Email, inquiry.Phone, inquiry.Message)

	if err := SendEmail(ownerEmail, subject, body); err != nil {
		log.Printf("Failed to send inquiry email to %s: %v", ownerEmail, err)
	}
}

// SendFCMNotificationToUser sends a Firebase Cloud Messaging notification to a user
func SendFCMNotificationToUser(db *mongo.Client, userID primitive.ObjectID, title, message string, data map[string]interface{}) error {
	collection := config.GetCollection(db, "users")
	var user models.User
	err := collection.FindOne(context.Background(), bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}

	if user.FCMToken == "" {
		log.Printf("User %s has no FCM token", userID.Hex())
		return fmt.Errorf("user has no FCM token")
	}

	if config.FirebaseApp == nil {
		log.Printf("Firebase app is not initialized")
		return fmt.Errorf("firebase app not initialized")
	}

	ctx := context.Background()
	client, err := config.FirebaseApp.Messaging(ctx)
	if err != nil {
		log.Printf("Error getting messaging client: %v", err)
		return fmt.Errorf("failed to initialize messaging client: %w", err)
	}

	notificationData := map[string]string{
		"type":      "listing_update",
		"timestamp": time.Now().Format(time.RFC3339),
	}
	// Override/merge with provided data
	for key, value := range data {
		if str, ok := value.(string); ok {
			notificationData[key] = str
		} else {
			notificationData[key] = ""
		}
	}

	fcmMessage := &messaging.Message{
		Token: user.FCMToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  message,
		},
		Data: notificationData,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				Sound:     "default",
				ChannelID: "mangalore_properties_channel",
			},
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Alert: &messaging.ApsAlert{
						Title: title,
						Body:  message,
					},
					Sound:    "default",
					Badge:    func() *int { v := 1; return &v }(),
					Category: "LISTING_UPDATE",
				},
			},
		},
	}

	response, err := client.Send(ctx, fcmMessage)
	if err != nil {
		log.Printf("Error sending FCM notification to user: %v", err)
		return fmt.Errorf("failed to send FCM notification: %w", err)
	}

	log.Printf("FCM notification sent successfully to user %s: %s", userID.Hex(), response)
	return nil
}
