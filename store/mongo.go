package store

import (
	"context"
	"errors"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"sahara-be/engine"
	"sahara-be/models"
)

// MongoStore persists problems in a single collection. Vote, comment and
// status writes use single-document update operators, so Mongo's
// per-document atomicity serializes writes to one problem while different
// problems update in parallel.
type MongoStore struct {
	collection *mongo.Collection
}

// NewMongoStore wraps a problems collection.
func NewMongoStore(collection *mongo.Collection) *MongoStore {
	return &MongoStore{collection: collection}
}

// EnsureProblemIndexes creates the query indexes the triage reads rely on.
func EnsureProblemIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "location.municipality", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	})
	return err
}

func storageErr(op string, err error) error {
	return &engine.StorageError{Op: op, Err: err}
}

func filterQuery(f engine.ProblemFilter) bson.M {
	query := bson.M{}
	if f.Category != "" {
		query["category"] = f.Category
	}
	if f.Municipality != "" {
		query["location.municipality"] = f.Municipality
	}
	if !f.Reporter.IsZero() {
		query["reporter"] = f.Reporter
	}
	if len(f.Statuses) > 0 {
		query["status"] = bson.M{"$in": f.Statuses}
	}
	if f.Search != "" {
		query["$or"] = []bson.M{
			{"title": bson.M{"$regex": f.Search, "$options": "i"}},
			{"description": bson.M{"$regex": f.Search, "$options": "i"}},
		}
	}
	return query
}

// Insert stores a new problem document.
func (s *MongoStore) Insert(ctx context.Context, p *models.Problem) error {
	if _, err := s.collection.InsertOne(ctx, p); err != nil {
		return storageErr("insert problem", err)
	}
	return nil
}

// Get returns the problem by id.
func (s *MongoStore) Get(ctx context.Context, id primitive.ObjectID) (models.Problem, error) {
	var p models.Problem
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Problem{}, engine.ErrNotFound
	}
	if err != nil {
		return models.Problem{}, storageErr("get problem", err)
	}
	return p, nil
}

// List returns filtered problems sorted by creation time.
func (s *MongoStore) List(ctx context.Context, f engine.ProblemFilter) ([]models.Problem, error) {
	sortDir := -1
	if f.SortOldest {
		sortDir = 1
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: sortDir}})
	if f.Skip > 0 {
		opts.SetSkip(f.Skip)
	}
	if f.Limit > 0 {
		opts.SetLimit(f.Limit)
	}

	cursor, err := s.collection.Find(ctx, filterQuery(f), opts)
	if err != nil {
		return nil, storageErr("list problems", err)
	}
	defer cursor.Close(ctx)

	var problems []models.Problem
	if err := cursor.All(ctx, &problems); err != nil {
		return nil, storageErr("decode problems", err)
	}
	return problems, nil
}

// Count returns the number of problems matching the filter.
func (s *MongoStore) Count(ctx context.Context, f engine.ProblemFilter) (int64, error) {
	count, err := s.collection.CountDocuments(ctx, filterQuery(f))
	if err != nil {
		return 0, storageErr("count problems", err)
	}
	return count, nil
}

// ToggleUpvote flips the user's membership in the upvoter set. Both
// directions are single conditional updates, so concurrent toggles from
// different users never lose an addition or removal.
func (s *MongoStore) ToggleUpvote(ctx context.Context, id, userID primitive.ObjectID) (bool, int, error) {
	now := time.Now()

	// Add wins only when the user is not in the set yet.
	res, err := s.collection.UpdateOne(ctx,
		bson.M{"_id": id, "upvoters": bson.M{"$ne": userID}},
		bson.M{
			"$addToSet": bson.M{"upvoters": userID},
			"$inc":      bson.M{"upvoteCount": 1},
			"$set":      bson.M{"updatedAt": now},
		})
	if err != nil {
		return false, 0, storageErr("add upvote", err)
	}
	if res.MatchedCount == 1 {
		count, err := s.upvoteCount(ctx, id)
		return true, count, err
	}

	// Already voted (or unknown id): try the removal direction.
	res, err = s.collection.UpdateOne(ctx,
		bson.M{"_id": id, "upvoters": userID},
		bson.M{
			"$pull": bson.M{"upvoters": userID},
			"$inc":  bson.M{"upvoteCount": -1},
			"$set":  bson.M{"updatedAt": now},
		})
	if err != nil {
		return false, 0, storageErr("remove upvote", err)
	}
	if res.MatchedCount == 1 {
		count, err := s.upvoteCount(ctx, id)
		return false, count, err
	}

	return false, 0, engine.ErrNotFound
}

func (s *MongoStore) upvoteCount(ctx context.Context, id primitive.ObjectID) (int, error) {
	var doc struct {
		UpvoteCount int `bson:"upvoteCount"`
	}
	opts := options.FindOne().SetProjection(bson.M{"upvoteCount": 1})
	if err := s.collection.FindOne(ctx, bson.M{"_id": id}, opts).Decode(&doc); err != nil {
		return 0, storageErr("read upvote count", err)
	}
	return doc.UpvoteCount, nil
}

// AppendComment pushes onto the problem's comment sequence.
func (s *MongoStore) AppendComment(ctx context.Context, id primitive.ObjectID, c models.Comment) error {
	res, err := s.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{
			"$push": bson.M{"comments": c},
			"$set":  bson.M{"updatedAt": time.Now()},
		})
	if err != nil {
		return storageErr("append comment", err)
	}
	if res.MatchedCount == 0 {
		return engine.ErrNotFound
	}
	return nil
}

// ChangeStatus applies the from→to edge with a conditional update on the
// expected current status.
func (s *MongoStore) ChangeStatus(ctx context.Context, id primitive.ObjectID, from, to models.ProblemStatus, change engine.StatusChange) (models.Problem, error) {
	set := bson.M{"status": to, "updatedAt": time.Now()}
	if change.Resolution != nil {
		set["resolutionDetails"] = change.Resolution
	}
	if change.Priority != "" {
		set["priority"] = change.Priority
	}
	if change.AssignedTo != nil {
		set["assignedTo"] = change.AssignedTo
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Problem
	err := s.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": set},
		opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// Either the id is unknown or the status moved underneath us.
		count, countErr := s.collection.CountDocuments(ctx, bson.M{"_id": id})
		if countErr != nil {
			return models.Problem{}, storageErr("change status", countErr)
		}
		if count == 0 {
			return models.Problem{}, engine.ErrNotFound
		}
		return models.Problem{}, engine.ErrStaleStatus
	}
	if err != nil {
		return models.Problem{}, storageErr("change status", err)
	}
	return updated, nil
}

// Assign sets assignedTo without touching status.
func (s *MongoStore) Assign(ctx context.Context, id, departmentID primitive.ObjectID) (models.Problem, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Problem
	err := s.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"assignedTo": departmentID, "updatedAt": time.Now()}},
		opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Problem{}, engine.ErrNotFound
	}
	if err != nil {
		return models.Problem{}, storageErr("assign department", err)
	}
	return updated, nil
}

// Stats aggregates the dashboard overview.
func (s *MongoStore) Stats(ctx context.Context) (engine.AdminStats, error) {
	stats := engine.AdminStats{}

	statusCounts := map[models.ProblemStatus]*int64{
		models.Pending:    &stats.Pending,
		models.InProgress: &stats.InProgress,
		models.Resolved:   &stats.Resolved,
		models.Rejected:   &stats.Rejected,
	}
	total, err := s.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return engine.AdminStats{}, storageErr("count problems", err)
	}
	stats.Total = total
	for status, target := range statusCounts {
		count, err := s.collection.CountDocuments(ctx, bson.M{"status": status})
		if err != nil {
			return engine.AdminStats{}, storageErr("count problems", err)
		}
		*target = count
	}

	groupStage := func(key string) bson.M {
		return bson.M{
			"$group": bson.M{
				"_id":   key,
				"count": bson.M{"$sum": 1},
				"resolved": bson.M{
					"$sum": bson.M{"$cond": bson.A{bson.M{"$eq": bson.A{"$status", models.Resolved}}, 1, 0}},
				},
			},
		}
	}

	categoryCursor, err := s.collection.Aggregate(ctx, []bson.M{groupStage("$category"), {"$sort": bson.M{"_id": 1}}})
	if err != nil {
		return engine.AdminStats{}, storageErr("aggregate by category", err)
	}
	defer categoryCursor.Close(ctx)
	if err := categoryCursor.All(ctx, &stats.ByCategory); err != nil {
		return engine.AdminStats{}, storageErr("decode category stats", err)
	}

	municipalityCursor, err := s.collection.Aggregate(ctx, []bson.M{groupStage("$location.municipality"), {"$sort": bson.M{"_id": 1}}})
	if err != nil {
		return engine.AdminStats{}, storageErr("aggregate by municipality", err)
	}
	defer municipalityCursor.Close(ctx)
	if err := municipalityCursor.All(ctx, &stats.ByMunicipality); err != nil {
		return engine.AdminStats{}, storageErr("decode municipality stats", err)
	}

	if stats.Total > 0 {
		stats.ResolutionRate = math.Round(float64(stats.Resolved)/float64(stats.Total)*10000) / 100
	}
	return stats, nil
}
