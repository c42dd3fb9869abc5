package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

	"github.com/matzehuels/farelock/pkg/errors"
)

const (
	// MongoCollection holds one document per report.
	MongoCollection = "reports"

	defaultMongoDatabase = "farelock"
)

// MongoStore keeps reports in a MongoDB collection.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
	maxReports int
}

// NewMongoStore connects to the deployment at uri. The database is taken
// from the URI path and defaults to "farelock". maxReports caps the
// collection to the newest documents; zero keeps everything.
func NewMongoStore(ctx context.Context, uri string, maxReports int) (*MongoStore, error) {
	cs, err := connstring.ParseAndValidate(uri)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse mongodb uri")
	}
	database := cs.Database
	if database == "" {
		database = defaultMongoDatabase
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeStore, err, "ping mongodb")
	}

	coll := client.Database(database).Collection(MongoCollection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeStore, err, "create report index")
	}
	return &MongoStore{client: client, collection: coll, maxReports: maxReports}, nil
}

// mongoReport is the stored document shape. The payload is kept as a
// string so it round-trips byte for byte.
type mongoReport struct {
	ID           string    `bson:"_id"`
	Kind         string    `bson:"kind"`
	Subject      string    `bson:"subject"`
	CreatedAt    time.Time `bson:"created_at"`
	Primary      string    `bson:"primary,omitempty"`
	Dependencies int       `bson:"dependencies"`
	WithMetadata int       `bson:"with_metadata"`
	Payload      string    `bson:"payload,omitempty"`
}

func toMongo(r Report) mongoReport {
	return mongoReport{
		ID:           r.ID,
		Kind:         r.Kind,
		Subject:      r.Subject,
		CreatedAt:    r.CreatedAt,
		Primary:      r.Primary,
		Dependencies: r.Dependencies,
		WithMetadata: r.WithMetadata,
		Payload:      string(r.Payload),
	}
}

func (m mongoReport) report() Report {
	r := Report{
		ID:           m.ID,
		Kind:         m.Kind,
		Subject:      m.Subject,
		CreatedAt:    m.CreatedAt.UTC(),
		Primary:      m.Primary,
		Dependencies: m.Dependencies,
		WithMetadata: m.WithMetadata,
	}
	if m.Payload != "" {
		r.Payload = []byte(m.Payload)
	}
	return r
}

func (s *MongoStore) Save(ctx context.Context, r Report) error {
	if _, err := s.collection.InsertOne(ctx, toMongo(r)); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "save report %s", r.ID)
	}
	if s.maxReports > 0 {
		if err := s.prune(ctx); err != nil {
			return errors.Wrap(errors.ErrCodeStore, err, "prune reports")
		}
	}
	return nil
}

// prune deletes every document past the newest maxReports.
func (s *MongoStore) prune(ctx context.Context) error {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(s.maxReports)).
		SetProjection(bson.D{{Key: "_id", Value: 1}})
	cur, err := s.collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return err
	}
	var stale []struct {
		ID string `bson:"_id"`
	}
	if err := cur.All(ctx, &stale); err != nil {
		return err
	}
	if len(stale) == 0 {
		return nil
	}
	ids := make(bson.A, 0, len(stale))
	for _, d := range stale {
		ids = append(ids, d.ID)
	}
	_, err = s.collection.DeleteMany(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}})
	return err
}

func (s *MongoStore) List(ctx context.Context, limit int) ([]Report, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := s.collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "list reports")
	}
	var docs []mongoReport
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "decode reports")
	}

	reports := make([]Report, 0, len(docs))
	for _, d := range docs {
		reports = append(reports, d.report())
	}
	return reports, nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
