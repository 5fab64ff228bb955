package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ihexyousex/mangalore-properties-sub000/config"
	"github.com/ihexyousex/mangalore-properties-sub000/models"
)

// UserRepository is the data access layer for marketplace accounts.
type UserRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(db *mongo.Client) *UserRepository {
	return &UserRepository{collection: config.GetCollection(db, "users")}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) (primitive.ObjectID, error) {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	user.IsActive = true
	if user.Favorites == nil {
		user.Favorites = []primitive.ObjectID{}
	}
	if user.CompareList == nil {
		user.CompareList = []primitive.ObjectID{}
	}

	result, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return result.InsertedID.(primitive.ObjectID), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile applies the editable profile fields, skipping empty values
func (r *UserRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, req models.UpdateProfileRequest) error {
	update := bson.M{"updatedAt": time.Now()}
	if req.FullName != "" {
		update["fullName"] = req.FullName
	}
	if req.Phone != "" {
		update["phone"] = req.Phone
	}
	if req.FCMToken != "" {
		update["fcmToken"] = req.FCMToken
	}

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	return err
}

// ToggleFavorite adds the listing to the user's favorites, or removes it if
// already saved. Returns true when the listing ended up favorited.
func (r *UserRepository) ToggleFavorite(ctx context.Context, userID, listingID primitive.ObjectID) (bool, error) {
	user, err := r.FindByID(ctx, userID)
	if err != nil {
		return false, err
	}

	for _, fav := range user.Favorites {
		if fav == listingID {
			_, err := r.collection.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
				"$pull": bson.M{"favorites": listingID},
				"$set":  bson.M{"updatedAt": time.Now()},
			})
			return false, err
		}
	}

	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
		"$addToSet": bson.M{"favorites": listingID},
		"$set":      bson.M{"updatedAt": time.Now()},
	})
	return true, err
}

// SetCompareList replaces the user's compare shortlist
func (r *UserRepository) SetCompareList(ctx context.Context, userID primitive.ObjectID, listingIDs []primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
		"$set": bson.M{
			"compareList": listingIDs,
			"updatedAt":   time.Now(),
		},
	})
	return err
}

// TouchLastSeen records activity for the account
func (r *UserRepository) TouchLastSeen(ctx context.Context, userID primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
		"$set": bson.M{"lastSeen": time.Now()},
	})
	return err
}
