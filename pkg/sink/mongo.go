package sink

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	errs "github.com/matzehuels/benchgraph/pkg/errors"
	"github.com/matzehuels/benchgraph/pkg/record"
)

// MongoConfig configures a [MongoSink].
type MongoConfig struct {
	URI        string // mongodb:// or mongodb+srv:// connection string
	Database   string
	Collection string
}

// collection is the subset of *mongo.Collection used by MongoSink.
type collection interface {
	UpdateOne(ctx context.Context, filter, update any, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
}

// MongoSink upserts one document per record, keyed by record name:
//
//	{_id: name, name, run_id, updated_at, record: {edge_index, node_type, ...}}
type MongoSink struct {
	client *mongo.Client
	coll   collection
	now    func() time.Time
}

// NewMongoSink connects to MongoDB and verifies the connection.
func NewMongoSink(ctx context.Context, cfg MongoConfig) (*MongoSink, error) {
	if cfg.Database == "" || cfg.Collection == "" {
		return nil, errs.New(errs.ErrCodeInvalidConfig, "mongo sink needs a database and a collection")
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "ping mongodb")
	}
	return &MongoSink{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
		now:    time.Now,
	}, nil
}

// Put upserts the document for name.
func (s *MongoSink) Put(ctx context.Context, name string, rec *record.Record) error {
	if err := errs.ValidateName(name); err != nil {
		return err
	}
	update := bson.M{"$set": bson.M{
		"name":       name,
		"run_id":     RunID(ctx),
		"updated_at": s.now().UTC(),
		"record":     rec.Document(),
	}}
	_, err := s.coll.UpdateOne(ctx, bson.M{"_id": name}, update, options.Update().SetUpsert(true))
	if err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "store %s", name)
	}
	return nil
}

// Close disconnects the client.
func (s *MongoSink) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnect mongodb: %w", err)
	}
	return nil
}

var _ Sink = (*MongoSink)(nil)
