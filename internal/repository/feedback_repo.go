package repository

import (
	"context"
	"time"

	"feedback-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type FeedbackRepo struct {
	collection *mongo.Collection
}

func NewFeedbackRepo(db *mongo.Database) *FeedbackRepo {
	return &FeedbackRepo{
		collection: db.Collection("feedbacks"),
	}
}

// Create appends one immutable feedback record, stamping the creation time.
func (r *FeedbackRepo) Create(ctx context.Context, feedback *models.Feedback) error {
	feedback.Timestamp = time.Now()
	result, err := r.collection.InsertOne(ctx, feedback)
	if err != nil {
		return err
	}
	feedback.ID = result.InsertedID.(bson.ObjectID)
	return nil
}

// CountByService groups all records by service and counts them. The result
// contains whatever service strings exist in the store; callers project it
// onto the known-service baseline.
func (r *FeedbackRepo) CountByService(ctx context.Context) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$service"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	return r.aggregateCounts(ctx, pipeline)
}

// CountByEmoji groups one service's records by sentiment.
func (r *FeedbackRepo) CountByEmoji(ctx context.Context, service string) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{{Key: "service", Value: service}}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$emoji"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	return r.aggregateCounts(ctx, pipeline)
}

func (r *FeedbackRepo) aggregateCounts(ctx context.Context, pipeline mongo.Pipeline) (map[string]int64, error) {
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var rows []struct {
		ID    string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.ID] = row.Count
	}
	return counts, nil
}

// FindByService returns every record for a service in store order.
func (r *FeedbackRepo) FindByService(ctx context.Context, service string) ([]models.Feedback, error) {
	return r.find(ctx, bson.M{"service": service}, nil)
}

// FindBySentiment is the generic service+emoji lookup. Store order, no
// ordering guarantee.
func (r *FeedbackRepo) FindBySentiment(ctx context.Context, service, emoji string) ([]models.Feedback, error) {
	return r.find(ctx, bson.M{"service": service, "emoji": emoji}, nil)
}

// FindBySentimentNewestFirst backs the per-service detail view and sorts by
// descending creation time.
func (r *FeedbackRepo) FindBySentimentNewestFirst(ctx context.Context, service, emoji string) ([]models.Feedback, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	return r.find(ctx, bson.M{"service": service, "emoji": emoji}, opts)
}

func (r *FeedbackRepo) find(ctx context.Context, filter bson.M, opts *options.FindOptionsBuilder) ([]models.Feedback, error) {
	var cursor *mongo.Cursor
	var err error
	if opts != nil {
		cursor, err = r.collection.Find(ctx, filter, opts)
	} else {
		cursor, err = r.collection.Find(ctx, filter)
	}
	if err != nil {
		return nil, err
	}
	feedbacks := []models.Feedback{}
	if err := cursor.All(ctx, &feedbacks); err != nil {
		return nil, err
	}
	return feedbacks, nil
}

// EnsureIndexes creates the indexes backing the lookup and sort paths.
func (r *FeedbackRepo) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "service", Value: 1}, {Key: "emoji", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "service", Value: 1}, {Key: "timestamp", Value: -1}},
		},
	}
	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}
