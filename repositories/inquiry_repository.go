package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ihexyousex/mangalore-properties-sub000/config"
	"github.com/ihexyousex/mangalore-properties-sub000/models"
)

type InquiryRepository struct {
	collection *mongo.Collection
}

func NewInquiryRepository(db *mongo.Client) *InquiryRepository {
	return &InquiryRepository{
		collection: config.GetCollection(db, "inquiries"),
	}
}

// Create records a visitor inquiry against a listing.
func (r *InquiryRepository) Create(ctx context.Context, inquiry *models.Inquiry) error {
	inquiry.ID = primitive.NewObjectID()
	inquiry.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, inquiry)
	return err
}

// FindByListing lists inquiries for one listing, newest first.
func (r *InquiryRepository) FindByListing(ctx context.Context, listingID primitive.ObjectID) ([]models.Inquiry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"listingId": listingID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var inquiries []models.Inquiry
	if err := cursor.All(ctx, &inquiries); err != nil {
		return nil, err
	}
	return inquiries, nil
}
