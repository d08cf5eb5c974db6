package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"sahara-be/engine"
	"sahara-be/models"
)

// MongoDirectory reads users and department workload snapshots from the
// users collection and owns the reporter point-balance increments.
type MongoDirectory struct {
	collection *mongo.Collection
}

// NewMongoDirectory wraps a users collection.
func NewMongoDirectory(collection *mongo.Collection) *MongoDirectory {
	return &MongoDirectory{collection: collection}
}

// GetUser returns the user by id.
func (d *MongoDirectory) GetUser(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var u models.User
	err := d.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, engine.ErrNotFound
	}
	if err != nil {
		return models.User{}, storageErr("get user", err)
	}
	return u, nil
}

// AddPoints increments the user's point balance atomically.
func (d *MongoDirectory) AddPoints(ctx context.Context, id primitive.ObjectID, delta int) error {
	res, err := d.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"points": delta}})
	if err != nil {
		return storageErr("add points", err)
	}
	if res.MatchedCount == 0 {
		return engine.ErrNotFound
	}
	return nil
}

// Departments lists department users matching the category and municipality.
func (d *MongoDirectory) Departments(ctx context.Context, category models.ProblemCategory, municipality string) ([]models.User, error) {
	cursor, err := d.collection.Find(ctx, bson.M{
		"role":                  models.RoleDepartment,
		"department":            category,
		"location.municipality": municipality,
	})
	if err != nil {
		return nil, storageErr("list departments", err)
	}
	defer cursor.Close(ctx)

	var departments []models.User
	if err := cursor.All(ctx, &departments); err != nil {
		return nil, storageErr("decode departments", err)
	}
	return departments, nil
}
