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

type DraftRepository struct {
	collection *mongo.Collection
}

func NewDraftRepository(db *mongo.Client) *DraftRepository {
	return &DraftRepository{
		collection: config.GetCollection(db, "drafts"),
	}
}

// Save inserts a new draft or updates an existing one. Drafts carry no
// validation state; whatever was collected is stored as-is.
func (r *DraftRepository) Save(ctx context.Context, draft *models.Draft) (primitive.ObjectID, error) {
	now := time.Now()
	draft.UpdatedAt = now

	if draft.ID.IsZero() {
		draft.ID = primitive.NewObjectID()
		draft.CreatedAt = now
		if _, err := r.collection.InsertOne(ctx, draft); err != nil {
			return primitive.NilObjectID, err
		}
		return draft.ID, nil
	}

	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": draft.ID}, draft)
	return draft.ID, err
}

// FindByID loads a draft for resumption.
func (r *DraftRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Draft, error) {
	var draft models.Draft
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&draft)
	if err != nil {
		return nil, err
	}
	return &draft, nil
}

// FindAll lists drafts, most recently touched first.
func (r *DraftRepository) FindAll(ctx context.Context) ([]models.Draft, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var drafts []models.Draft
	if err := cursor.All(ctx, &drafts); err != nil {
		return nil, err
	}
	return drafts, nil
}

// Delete removes a draft, typically after it was published.
func (r *DraftRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
