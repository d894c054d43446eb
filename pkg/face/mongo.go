package face

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoConfig configures the mongo registry backend.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// Mongo is a registry stored in a MongoDB collection, one document per face
// with the face name as _id.
type Mongo struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// mongoRecord is the per-face document.
type mongoRecord struct {
	Name    string `bson:"_id"`
	Height  *int   `bson:"height,omitempty"`
	Inherit string `bson:"inherit,omitempty"`
}

// NewMongo connects to mongo and verifies the connection with a ping.
func NewMongo(ctx context.Context, cfg MongoConfig) (*Mongo, error) {
	if cfg.Database == "" {
		cfg.Database = "facezoom"
	}
	if cfg.Collection == "" {
		cfg.Collection = "faces"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return &Mongo{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// List returns face names sorted by _id for stable enumeration.
func (m *Mongo) List(ctx context.Context) ([]string, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetProjection(bson.D{{Key: "_id", Value: 1}})

	cursor, err := m.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list faces: %w", err)
	}
	defer cursor.Close(ctx)

	var names []string
	for cursor.Next(ctx) {
		var doc struct {
			Name string `bson:"_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode face: %w", err)
		}
		names = append(names, doc.Name)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("list faces: %w", err)
	}
	return names, nil
}

// Height returns the explicit height of a face, if it has one.
func (m *Mongo) Height(ctx context.Context, name string) (int, bool, error) {
	rec, exists, err := m.get(ctx, name)
	if err != nil || !exists || rec.Height == nil {
		return 0, false, err
	}
	return *rec.Height, true, nil
}

// SetHeight writes an explicit height. The update is not an upsert, so
// unknown faces are a silent no-op.
func (m *Mongo) SetHeight(ctx context.Context, name string, height int) error {
	_, err := m.coll.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: name}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "height", Value: height}}}},
	)
	if err != nil {
		return fmt.Errorf("write face %s: %w", name, err)
	}
	return nil
}

// Parent returns the inheritance parent of a face, if it has one.
func (m *Mongo) Parent(ctx context.Context, name string) (string, bool, error) {
	rec, exists, err := m.get(ctx, name)
	if err != nil || !exists || rec.Inherit == "" {
		return "", false, err
	}
	return rec.Inherit, true, nil
}

// Put adds or replaces a face. Used for seeding and by the editor host.
func (m *Mongo) Put(ctx context.Context, f Face) error {
	rec := mongoRecord{Name: f.Name, Height: f.Height, Inherit: f.Inherit}
	_, err := m.coll.ReplaceOne(ctx,
		bson.D{{Key: "_id", Value: f.Name}},
		rec,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("put face %s: %w", f.Name, err)
	}
	return nil
}

// Close disconnects from mongo.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func (m *Mongo) get(ctx context.Context, name string) (mongoRecord, bool, error) {
	var rec mongoRecord
	err := m.coll.FindOne(ctx, bson.D{{Key: "_id", Value: name}}).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return mongoRecord{}, false, nil
	}
	if err != nil {
		return mongoRecord{}, false, fmt.Errorf("read face %s: %w", name, err)
	}
	return rec, true, nil
}

// Ensure Mongo implements Registry.
var _ Registry = (*Mongo)(nil)
