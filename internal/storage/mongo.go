package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type kvDoc struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// MongoKV stores each key as one document of a collection.
type MongoKV struct {
	coll *mongo.Collection
}

func NewMongoKV(db *mongo.Database, collection string) *MongoKV {
	return &MongoKV{coll: db.Collection(collection)}
}

// EnsureIndexes creates the indexes used for housekeeping queries.
func (m *MongoKV) EnsureIndexes(ctx context.Context) error {
	_, err := m.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "updated_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("create indexes: %w", err)
	}
	return nil
}

func (m *MongoKV) Get(ctx context.Context, key string) (string, bool, error) {
	var doc kvDoc
	err := m.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("find key %s: %w", key, err)
	}
	return doc.Value, true, nil
}

func (m *MongoKV) Set(ctx context.Context, key, value string) error {
	doc := kvDoc{Key: key, Value: value, UpdatedAt: time.Now()}
	opts := options.Replace().SetUpsert(true)
	if _, err := m.coll.ReplaceOne(ctx, bson.M{"_id": key}, doc, opts); err != nil {
		return fmt.Errorf("set key %s: %w", key, err)
	}
	return nil
}

func (m *MongoKV) Remove(ctx context.Context, key string) error {
	if _, err := m.coll.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("remove key %s: %w", key, err)
	}
	return nil
}
