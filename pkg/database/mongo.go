package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoRecord struct {
	Name      string    `bson:"_id"`
	Body      string    `bson:"body"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// MongoStore keeps the document in a `documents` collection, one record per
// document name. The body stays JSON so every driver shares one codec.
type MongoStore[T any] struct {
	client *mongo.Client
	col    *mongo.Collection
	name   string
}

// OpenMongo connects to uri and selects db.documents.
func OpenMongo[T any](ctx context.Context, uri, db, name string) (*MongoStore[T], error) {
	if uri == "" {
		return nil, errors.New("database: MONGO_URI is required for driver \"mongo\"")
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetConnectTimeout(5*time.Second))
	if err != nil {
		return nil, fmt.Errorf("database: mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("database: mongo ping: %w", err)
	}

	return &MongoStore[T]{
		client: client,
		col:    client.Database(db).Collection("documents"),
		name:   name,
	}, nil
}

// Collection returns another collection in the store's database. It shares
// the store's connection and is unusable after Close.
func (s *MongoStore[T]) Collection(name string) *mongo.Collection {
	return s.col.Database().Collection(name)
}

func (s *MongoStore[T]) Load(ctx context.Context) (*T, error) {
	var rec mongoRecord
	err := s.col.FindOne(ctx, bson.M{"_id": s.name}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNoDocument
	}
	if err != nil {
		return nil, fmt.Errorf("finding document: %w", err)
	}

	var doc T
	if err := json.Unmarshal([]byte(rec.Body), &doc); err != nil {
		return nil, fmt.Errorf("%w: record %q: %v", ErrCorrupt, s.name, err)
	}
	return &doc, nil
}

func (s *MongoStore[T]) Save(ctx context.Context, doc *T) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}

	rec := mongoRecord{Name: s.name, Body: string(raw), UpdatedAt: time.Now().UTC()}
	_, err = s.col.ReplaceOne(ctx, bson.M{"_id": s.name}, rec, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("replacing document: %w", err)
	}
	return nil
}

func (s *MongoStore[T]) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
