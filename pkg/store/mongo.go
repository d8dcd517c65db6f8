package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/graphweave/pkg/errors"
)

// mongoCollection is the collection projects live in.
const mongoCollection = "projects"

// MongoStore is a MongoDB-backed project store for the server.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// MongoConfig configures the MongoDB connection.
type MongoConfig struct {
	// URI is the mongodb:// connection string.
	URI string

	// Database defaults to "graphweave".
	Database string

	// ConnectTimeout bounds the initial connection. Zero means 10s.
	ConnectTimeout time.Duration
}

// NewMongoStore connects to MongoDB and verifies the connection with a ping.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" {
		cfg.Database = "graphweave"
	}
	timeout := cfg.ConnectTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "connect to mongodb")
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "ping mongodb")
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(mongoCollection),
	}, nil
}

// Create stores a new project.
func (s *MongoStore) Create(ctx context.Context, p *Project) error {
	prepare(p)
	if _, err := s.coll.InsertOne(ctx, p); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errors.New(errors.ErrCodeInvalidInput, "project %s already exists", p.ID)
		}
		return errors.Wrap(errors.ErrCodeStorage, err, "insert project %s", p.ID)
	}
	return nil
}

// Get retrieves a project by ID.
func (s *MongoStore) Get(ctx context.Context, id string) (*Project, error) {
	var p Project
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, errors.New(errors.ErrCodeProjectNotFound, "project %s not found", id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "find project %s", id)
	}
	return &p, nil
}

// List returns all projects, newest first.
func (s *MongoStore) List(ctx context.Context) ([]*Project, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list projects")
	}
	defer cur.Close(ctx)

	var projects []*Project
	if err := cur.All(ctx, &projects); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "decode projects")
	}
	return projects, nil
}

// Update replaces a stored project, preserving its creation time.
func (s *MongoStore) Update(ctx context.Context, p *Project) error {
	stored, err := s.Get(ctx, p.ID)
	if err != nil {
		return err
	}
	p.CreatedAt = stored.CreatedAt
	p.UpdatedAt = time.Now().UTC()

	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "update project %s", p.ID)
	}
	if res.MatchedCount == 0 {
		return errors.New(errors.ErrCodeProjectNotFound, "project %s not found", p.ID)
	}
	return nil
}

// Delete removes a project.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "delete project %s", id)
	}
	if res.DeletedCount == 0 {
		return errors.New(errors.ErrCodeProjectNotFound, "project %s not found", id)
	}
	return nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)
