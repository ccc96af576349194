package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/clinicstock/internal/domain/models"
)

const (
	stockUpdatesCollection = "stock_updates"
	lowStockCollection     = "low_stock_reports"
)

// Repository stores the stock update audit trail and low-stock snapshots.
type Repository interface {
	SaveStockUpdate(ctx context.Context, audit models.StockUpdateAudit) error
	SaveLowStockReport(ctx context.Context, report models.LowStockReport) error
	RecentStockUpdates(ctx context.Context, limit int64) ([]models.StockUpdateAudit, error)
}

// MongoDBRepository implements the Repository interface for MongoDB.
type MongoDBRepository struct {
	client *mongo.Client
	dbName string
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client: client,
		dbName: dbName,
	}, nil
}

// SaveStockUpdate records the outcome of one commit.
func (r *MongoDBRepository) SaveStockUpdate(ctx context.Context, audit models.StockUpdateAudit) error {
	collection := r.client.Database(r.dbName).Collection(stockUpdatesCollection)
	if _, err := collection.InsertOne(ctx, audit); err != nil {
		return fmt.Errorf("failed to insert stock update: %w", err)
	}
	return nil
}

// SaveLowStockReport stores a low-stock snapshot.
func (r *MongoDBRepository) SaveLowStockReport(ctx context.Context, report models.LowStockReport) error {
	collection := r.client.Database(r.dbName).Collection(lowStockCollection)
	if _, err := collection.InsertOne(ctx, report); err != nil {
		return fmt.Errorf("failed to insert low stock report: %w", err)
	}
	return nil
}

// RecentStockUpdates returns the newest audit entries first.
func (r *MongoDBRepository) RecentStockUpdates(ctx context.Context, limit int64) ([]models.StockUpdateAudit, error) {
	collection := r.client.Database(r.dbName).Collection(stockUpdatesCollection)
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)

	cursor, err := collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock updates: %w", err)
	}
	defer cursor.Close(ctx)

	var out []models.StockUpdateAudit
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode stock updates: %w", err)
	}
	return out, nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
