// internal/output/mongodb.go
package output

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/valpere/MovieScrapexter/internal/utils"
	"github.com/valpere/MovieScrapexter/pkg/types"
)

// MongoWriter inserts records into a MongoDB collection. Records keep their
// struct shape; empty fields are omitted via the bson tags on MovieRecord
// mirrored here as a document map.
type MongoWriter struct {
	client     *mongo.Client
	collection *mongo.Collection
	mu         sync.Mutex
	closed     bool
}

// NewMongoWriter connects to MongoDB.
func NewMongoWriter(uri, database, collection string) (*MongoWriter, error) {
	if uri == "" {
		return nil, utils.NewError(utils.ErrCodeDatabaseError, "mongodb writer needs a URI")
	}
	if database == "" {
		return nil, utils.NewError(utils.ErrCodeDatabaseError, "mongodb writer needs a database name")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, utils.WrapError(utils.ErrCodeDatabaseError, "connecting to mongodb", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, utils.WrapError(utils.ErrCodeDatabaseError, "pinging mongodb", err)
	}

	return &MongoWriter{
		client:     client,
		collection: client.Database(database).Collection(collection),
	}, nil
}

// Write inserts the batch.
func (w *MongoWriter) Write(ctx context.Context, records []types.MovieRecord) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return utils.NewError(utils.ErrCodeDatabaseError, "write after close")
	}
	if len(records) == 0 {
		return nil
	}

	docs := make([]interface{}, len(records))
	for i, record := range records {
		docs[i] = mongoDocument(record)
	}

	if _, err := w.collection.InsertMany(ctx, docs); err != nil {
		return utils.WrapError(utils.ErrCodeDatabaseError, "inserting records", err)
	}
	return nil
}

// mongoDocument flattens a record, omitting empty fields.
func mongoDocument(r types.MovieRecord) map[string]interface{} {
	doc := make(map[string]interface{})
	for field, value := range r.Fields() {
		doc[field] = value
	}
	if r.SourceURL != "" {
		doc["source_url"] = r.SourceURL
	}
	if !r.ScrapedAt.IsZero() {
		doc["scraped_at"] = r.ScrapedAt.UTC()
	}
	return doc
}

// Close disconnects from MongoDB.
func (w *MongoWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return w.client.Disconnect(ctx)
}
