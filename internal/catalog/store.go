package catalog

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yourorg/notespot/internal/models"
)

// Store is the catalog persistence surface the workflows depend on.
// The Mongo implementation below is the production one; tests substitute fakes.
type Store interface {
	// Save inserts the document when it has no id yet, otherwise replaces the
	// stored record. Returns the document with its store-assigned id.
	Save(ctx context.Context, doc *models.Document) (*models.Document, error)
	FindByID(ctx context.Context, id string) (*models.Document, error)
	// FindByToken looks a record up by its opaque download token.
	FindByToken(ctx context.Context, token string) (*models.Document, error)
	// Find returns records matching filter, newest publish date first.
	Find(ctx context.Context, filter bson.D) ([]models.Document, error)
	DeleteByID(ctx context.Context, id string) error
}

// Mongo is the catalog store backed by a MongoDB database.
type Mongo struct {
	client  *mongo.Client
	docs    *mongo.Collection
	authors *mongo.Collection
}

// Connect dials MongoDB at uri and verifies connectivity before returning.
func Connect(ctx context.Context, uri, dbName string) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	db := client.Database(dbName)
	return &Mongo{
		client:  client,
		docs:    db.Collection("documents"),
		authors: db.Collection("authors"),
	}, nil
}

// Close disconnects the underlying client.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func (m *Mongo) Save(ctx context.Context, doc *models.Document) (*models.Document, error) {
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
		if doc.CreatedAt.IsZero() {
			doc.CreatedAt = time.Now().UTC()
		}
		if _, err := m.docs.InsertOne(ctx, doc); err != nil {
			return nil, err
		}
		return doc, nil
	}
	if _, err := m.docs.ReplaceOne(ctx, bson.D{{Key: "_id", Value: doc.ID}}, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (m *Mongo) FindByID(ctx context.Context, id string) (*models.Document, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// a malformed id can never match a record
		return nil, ErrNotFound
	}
	return m.findOne(ctx, bson.D{{Key: "_id", Value: oid}})
}

func (m *Mongo) FindByToken(ctx context.Context, token string) (*models.Document, error) {
	if token == "" {
		return nil, ErrNotFound
	}
	return m.findOne(ctx, bson.D{{Key: "uuid", Value: token}})
}

func (m *Mongo) findOne(ctx context.Context, filter bson.D) (*models.Document, error) {
	var doc models.Document
	err := m.docs.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

func (m *Mongo) Find(ctx context.Context, filter bson.D) ([]models.Document, error) {
	opts := options.Find().SetSort(bson.D{{Key: "publish_date", Value: -1}})
	cur, err := m.docs.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var docs []models.Document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (m *Mongo) DeleteByID(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := m.docs.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListAuthors returns all known authors, for the new-item form dropdown.
func (m *Mongo) ListAuthors(ctx context.Context) ([]models.Author, error) {
	cur, err := m.authors.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var authors []models.Author
	if err := cur.All(ctx, &authors); err != nil {
		return nil, err
	}
	return authors, nil
}

// FindAuthor looks up a single author by hex id.
func (m *Mongo) FindAuthor(ctx context.Context, id string) (*models.Author, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var a models.Author
	if err := m.authors.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}
