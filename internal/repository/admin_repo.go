package repository

import (
	"context"

	"feedback-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type AdminRepo struct {
	collection *mongo.Collection
}

func NewAdminRepo(db *mongo.Database) *AdminRepo {
	return &AdminRepo{
		collection: db.Collection("admins"),
	}
}

func (r *AdminRepo) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var admin models.Admin
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&admin)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &admin, nil
}

func (r *AdminRepo) Create(ctx context.Context, admin *models.Admin) error {
	result, err := r.collection.InsertOne(ctx, admin)
	if err != nil {
		return err
	}
	admin.ID = result.InsertedID.(bson.ObjectID)
	return nil
}

// Update persists password and profile picture changes for an existing admin.
func (r *AdminRepo) Update(ctx context.Context, admin *models.Admin) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"email": admin.Email}, bson.M{
		"$set": bson.M{
			"password":       admin.Password,
			"profilePicture": admin.ProfilePicture,
		},
	})
	return err
}

// EnsureIndexes creates necessary indexes for the admins collection
func (r *AdminRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
