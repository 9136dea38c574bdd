package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/microbeflow/crossfeed/pkg/errors"
)

const graphCollection = "graphs"

// MongoStore persists graph records in a MongoDB collection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB and verifies the connection with a
// ping before returning.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "connect %s", uri)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "ping %s", uri)
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(graphCollection),
	}, nil
}

// Save stores a record, assigning an ID if it has none.
// An existing record with the same ID is replaced.
func (s *MongoStore) Save(ctx context.Context, rec *GraphRecord) error {
	prepare(rec)
	opts := options.Replace().SetUpsert(true)
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": rec.ID}, rec, opts)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreUnavailable, err, "save graph %s", rec.ID)
	}
	return nil
}

// Get retrieves a record by ID.
func (s *MongoStore) Get(ctx context.Context, id string) (*GraphRecord, error) {
	var rec GraphRecord
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, errors.New(errors.ErrCodeGraphNotFound, "graph %s not found", id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "get graph %s", id)
	}
	return &rec, nil
}

// List returns all records sorted by creation time, newest first.
// The graph payload is projected out to keep listings small.
func (s *MongoStore) List(ctx context.Context) ([]*GraphRecord, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetProjection(bson.M{"graph": 0})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "list graphs")
	}
	defer cur.Close(ctx)

	var out []*GraphRecord
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "decode graphs")
	}
	return out, nil
}

// Delete removes a record. Deleting a missing record is a no-op.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return errors.Wrap(errors.ErrCodeStoreUnavailable, err, "delete graph %s", id)
	}
	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)
