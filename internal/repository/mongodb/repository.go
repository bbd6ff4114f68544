package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/meatledger/internal/domain/models"
	"github.com/mamadbah2/meatledger/internal/repository/storage"
)

const (
	kvCollection      = "kv"
	reportsCollection = "daily_reports"
)

// ReportArchive stores end-of-day snapshots.
type ReportArchive interface {
	SaveDailyReport(ctx context.Context, report models.DailyReport) error
}

// kvDocument holds one collection blob under its storage key.
type kvDocument struct {
	Key   string `bson:"_id"`
	Value string `bson:"value"`
}

// Repository implements storage.KV and ReportArchive on MongoDB.
type Repository struct {
	client *mongo.Client
	dbName string
}

// NewRepository connects to MongoDB and verifies the connection.
func NewRepository(ctx context.Context, uri string, dbName string) (*Repository, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &Repository{client: client, dbName: dbName}, nil
}

func (r *Repository) collection(name string) *mongo.Collection {
	return r.client.Database(r.dbName).Collection(name)
}

// Get returns the blob stored under key.
func (r *Repository) Get(ctx context.Context, key string) (string, bool, error) {
	var doc kvDocument
	err := r.collection(kvCollection).FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: mongodb find %s: %w", storage.ErrUnavailable, key, err)
	}
	return doc.Value, true, nil
}

// Set replaces the blob stored under key.
func (r *Repository) Set(ctx context.Context, key, value string) error {
	_, err := r.collection(kvCollection).ReplaceOne(ctx,
		bson.M{"_id": key},
		kvDocument{Key: key, Value: value},
		options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("%w: mongodb replace %s: %w", storage.ErrUnavailable, key, err)
	}
	return nil
}

// SaveDailyReport upserts the snapshot for report.Date, so re-running a day
// overwrites rather than duplicates.
func (r *Repository) SaveDailyReport(ctx context.Context, report models.DailyReport) error {
	_, err := r.collection(reportsCollection).ReplaceOne(ctx,
		bson.M{"date": report.Date},
		report,
		options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert daily report %s: %w", report.Date, err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *Repository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
