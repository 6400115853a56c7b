package store

import (
	"context"
	stderrors "errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/themescope/pkg/errors"
)

// MongoConfig configures a MongoStore.
type MongoConfig struct {
	// URI is the connection string (default "mongodb://localhost:27017").
	URI string

	// Database holds the revisions collection (default "themescope").
	Database string

	// Collection overrides the collection name (default "revisions").
	Collection string
}

// MongoStore keeps revisions in a MongoDB collection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB and ensures the created_at and hash indexes.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.URI == "" {
		cfg.URI = "mongodb://localhost:27017"
	}
	if cfg.Database == "" {
		cfg.Database = "themescope"
	}
	if cfg.Collection == "" {
		cfg.Collection = "revisions"
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to mongodb")
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "ping mongodb at %s", cfg.URI)
	}

	coll := client.Database(cfg.Database).Collection(cfg.Collection)
	_, err = coll.Indexes().CreateMany(connectCtx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "hash", Value: 1}}},
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("create indexes: %w", err)
	}

	return &MongoStore{client: client, coll: coll}, nil
}

func (s *MongoStore) Save(ctx context.Context, rev *Revision) (*Revision, error) {
	if err := prepare(rev); err != nil {
		return nil, err
	}

	latest, err := s.Latest(ctx)
	switch {
	case err == nil && latest.Hash == rev.Hash:
		return latest, nil
	case err != nil && !errors.Is(err, errors.ErrCodeRevisionNotFound):
		return nil, err
	}

	if _, err := s.coll.InsertOne(ctx, rev); err != nil {
		return nil, fmt.Errorf("insert revision: %w", err)
	}
	return rev, nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*Revision, error) {
	if id == "" {
		return nil, notFound(id)
	}

	var rev Revision
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&rev)
	if err == nil {
		return &rev, nil
	}
	if !stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("find revision: %w", err)
	}

	prefix := bson.M{"_id": bson.M{"$regex": "^" + regexp.QuoteMeta(id)}}
	revs, err := s.find(ctx, prefix, options.Find().SetLimit(2))
	if err != nil {
		return nil, err
	}
	switch len(revs) {
	case 0:
		return nil, notFound(id)
	case 1:
		return revs[0], nil
	default:
		return nil, ambiguous(id, []string{revs[0].ID, revs[1].ID})
	}
}

func (s *MongoStore) List(ctx context.Context, limit int) ([]*Revision, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit))
	return s.find(ctx, bson.M{}, opts)
}

func (s *MongoStore) Latest(ctx context.Context) (*Revision, error) {
	revs, err := s.List(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(revs) == 0 {
		return nil, ErrNotFound
	}
	return revs[0], nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*Revision, error) {
	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find revisions: %w", err)
	}
	var revs []*Revision
	if err := cur.All(ctx, &revs); err != nil {
		return nil, fmt.Errorf("decode revisions: %w", err)
	}
	return revs, nil
}

var _ Store = (*MongoStore)(nil)
