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

// ListingFilter narrows the public browse query.
type ListingFilter struct {
	Category string
	City     string
	MinPrice float64
	MaxPrice float64
	Limit    int64
	Skip     int64
}

type ListingRepository struct {
	collection *mongo.Collection
}

func NewListingRepository(db *mongo.Client) *ListingRepository {
	return &ListingRepository{
		collection: config.GetCollection(db, "listings"),
	}
}

// Create inserts a new listing record and returns its ID.
func (r *ListingRepository) Create(ctx context.Context, listing *models.Listing) (primitive.ObjectID, error) {
	now := time.Now()
	listing.CreatedAt = now
	listing.UpdatedAt = now
	if listing.SubmittedAt.IsZero() {
		listing.SubmittedAt = now
	}

	result, err := r.collection.InsertOne(ctx, listing)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return result.InsertedID.(primitive.ObjectID), nil
}

// approvedQuery builds the browse query for a filter. Price bounds apply to
// the numeric priceValue column, not the display string.
func approvedQuery(filter ListingFilter) bson.M {
	query := bson.M{"approvalStatus": models.ApprovalApproved}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.City != "" {
		query["location"] = bson.M{"$regex": filter.City, "$options": "i"}
	}
	if filter.MinPrice > 0 || filter.MaxPrice > 0 {
		price := bson.M{}
		if filter.MinPrice > 0 {
			price["$gte"] = filter.MinPrice
		}
		if filter.MaxPrice > 0 {
			price["$lte"] = filter.MaxPrice
		}
		query["priceValue"] = price
	}
	return query
}

// FindApproved returns approved listings matching the filter, newest first.
func (r *ListingRepository) FindApproved(ctx context.Context, filter ListingFilter) ([]models.Listing, error) {
	query := approvedQuery(filter)

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "submittedAt", Value: -1}}).
		SetLimit(limit).
		SetSkip(filter.Skip)

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var listings []models.Listing
	if err := cursor.All(ctx, &listings); err != nil {
		return nil, err
	}
	return listings, nil
}

// FindByStatus returns listings in the given approval state; "all" skips the
// status filter.
func (r *ListingRepository) FindByStatus(ctx context.Context, status string) ([]models.Listing, error) {
	query := bson.M{}
	if status != "" && status != "all" {
		query["approvalStatus"] = status
	}

	opts := options.Find().SetSort(bson.D{{Key: "submittedAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var listings []models.Listing
	if err := cursor.All(ctx, &listings); err != nil {
		return nil, err
	}
	return listings, nil
}

// FindByID returns a single listing.
func (r *ListingRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Listing, error) {
	var listing models.Listing
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&listing)
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// FindByIDs returns the listings for a compare request, preserving only
// approved records.
func (r *ListingRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Listing, error) {
	cursor, err := r.collection.Find(ctx, bson.M{
		"_id":            bson.M{"$in": ids},
		"approvalStatus": models.ApprovalApproved,
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var listings []models.Listing
	if err := cursor.All(ctx, &listings); err != nil {
		return nil, err
	}
	return listings, nil
}

// FindByTrackingID resolves a public tracking identifier.
func (r *ListingRepository) FindByTrackingID(ctx context.Context, trackingID string) (*models.Listing, error) {
	var listing models.Listing
	err := r.collection.FindOne(ctx, bson.M{"trackingId": trackingID}).Decode(&listing)
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// SetApproval transitions a pending listing to approved or rejected.
func (r *ListingRepository) SetApproval(ctx context.Context, id primitive.ObjectID, status, reason string, adminID primitive.ObjectID) error {
	update := bson.M{
		"approvalStatus": status,
		"processedBy":    adminID,
		"processedAt":    time.Now(),
		"updatedAt":      time.Now(),
	}
	if reason != "" {
		update["rejectionReason"] = reason
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "approvalStatus": models.ApprovalPending},
		bson.M{"$set": update},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
