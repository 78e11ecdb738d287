package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/influencemap/pkg/stakeholder"
)

// MongoConfig configures a MongoDB connection.
type MongoConfig struct {
	URI        string // default mongodb://localhost:27017
	Database   string // default "influencemap"
	Collection string // default "maps"
}

// MongoStore keeps each snapshot as one document keyed by _id.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type mongoDoc struct {
	Key          string             `bson:"_id"`
	Stakeholders []mongoStakeholder `bson:"stakeholders"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

type mongoStakeholder struct {
	Name              string `bson:"name"`
	Role              string `bson:"role"`
	Division          string `bson:"division"`
	ReportsTo         string `bson:"reportsTo"`
	RelationshipScore int    `bson:"relationshipScore"`
	DecisionWeighting int    `bson:"decisionWeighting"`
}

// NewMongoStore connects to MongoDB and verifies the connection with a ping.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.URI == "" {
		cfg.URI = "mongodb://localhost:27017"
	}
	if cfg.Database == "" {
		cfg.Database = "influencemap"
	}
	if cfg.Collection == "" {
		cfg.Collection = "maps"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	ping := func(ctx context.Context) error { return client.Ping(ctx, nil) }
	if err := retry(ctx, connectAttempts, connectDelay, ping); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

func (m *MongoStore) Save(ctx context.Context, key string, set stakeholder.Set) error {
	if err := checkKey(key); err != nil {
		return err
	}
	doc := mongoDoc{Key: key, Stakeholders: make([]mongoStakeholder, len(set)), UpdatedAt: time.Now().UTC()}
	for i, s := range set {
		doc.Stakeholders[i] = mongoStakeholder{
			Name:              s.Name,
			Role:              s.Role,
			Division:          s.Division,
			ReportsTo:         s.ReportsTo.String(),
			RelationshipScore: s.RelationshipScore,
			DecisionWeighting: s.DecisionWeighting,
		}
	}
	_, err := m.coll.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return saveErr("mongo", key, err)
	}
	return nil
}

func (m *MongoStore) Load(ctx context.Context, key string) (stakeholder.Set, bool, error) {
	if err := checkKey(key); err != nil {
		return nil, false, err
	}
	var doc mongoDoc
	err := m.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, loadErr("mongo", key, err)
	}

	set := make(stakeholder.Set, len(doc.Stakeholders))
	for i, s := range doc.Stakeholders {
		set[i] = stakeholder.Stakeholder{
			Name:              s.Name,
			Role:              s.Role,
			Division:          s.Division,
			ReportsTo:         stakeholder.ParseParent(s.ReportsTo),
			RelationshipScore: s.RelationshipScore,
			DecisionWeighting: s.DecisionWeighting,
		}
	}
	if err := set.Validate(); err != nil {
		return nil, false, loadErr("mongo", key, err)
	}
	return set, true, nil
}

func (m *MongoStore) Delete(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	_, err := m.coll.DeleteOne(ctx, bson.M{"_id": key})
	return err
}

func (m *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}

func (m *MongoStore) String() string {
	return describe("mongo", m.coll.Database().Name()+"."+m.coll.Name())
}

var _ Store = (*MongoStore)(nil)
