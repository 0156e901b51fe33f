// Package mongodb provides the MongoDB persistence layer.
package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"edu-tutor-api/internal/domain/entity"
	"edu-tutor-api/pkg/errors"
)

// UsageRecordRepository stores usage records in the "usos" collection.
type UsageRecordRepository struct {
	coll *mongo.Collection
}

func NewUsageRecordRepository(client *Client) *UsageRecordRepository {
	return &UsageRecordRepository{
		coll: client.Database().Collection(entity.UsageRecord{}.CollectionName()),
	}
}

// Create inserts record with a server-assigned timestamp.
func (r *UsageRecordRepository) Create(ctx context.Context, record *entity.UsageRecord) error {
	ctx, span := tracer.Start(ctx, "mongodb.UsageRecordRepository.Create")
	defer span.End()

	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	res, err := r.coll.InsertOne(ctx, record)
	if err != nil {
		span.RecordError(err)
		return errors.Wrap(err, errors.CodeDatabaseError, "failed to create usage record")
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		record.ID = oid
	}
	return nil
}

// FindByGrade returns all records for grade, newest first.
func (r *UsageRecordRepository) FindByGrade(ctx context.Context, grade string) ([]*entity.UsageRecord, error) {
	ctx, span := tracer.Start(ctx, "mongodb.UsageRecordRepository.FindByGrade")
	defer span.End()

	opts := options.Find().SetSort(bson.D{{Key: "fecha", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{"grado": grade}, opts)
	if err != nil {
		span.RecordError(err)
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to query usage records")
	}
	defer cur.Close(ctx)

	records := make([]*entity.UsageRecord, 0)
	if err := cur.All(ctx, &records); err != nil {
		span.RecordError(err)
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to decode usage records")
	}
	return records, nil
}
