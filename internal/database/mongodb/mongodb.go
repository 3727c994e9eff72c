// Package mongodb is the MongoDB store behind the data-access core.
//
// NewDialer turns the database configuration into a database.Dialer. Each
// dial creates a mongo.Client (which pools connections internally), pings
// the primary and binds the configured database. Driver errors are
// classified into the database error taxonomy where the core needs to tell
// them apart, and passed through unchanged otherwise.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/deppfellow/go-signup/internal/config"
	"github.com/deppfellow/go-signup/internal/database"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// codeIndexAlreadyExists is the server error code for an index that is
// already present with the requested definition.
const codeIndexAlreadyExists = 68

// DefaultConnectTimeout applies when the configuration leaves it unset.
const DefaultConnectTimeout = 10 * time.Second

// NewDialer returns a Dialer connecting to cfg.URI.
func NewDialer(cfg *config.DatabaseConfig) database.Dialer {
	return func(ctx context.Context, name string) (database.Conn, error) {
		timeout := cfg.ConnectTimeout
		if timeout <= 0 {
			timeout = DefaultConnectTimeout
		}

		opts := options.Client().
			ApplyURI(cfg.URI).
			SetConnectTimeout(timeout).
			SetServerSelectionTimeout(timeout)
		if cfg.AppName != "" {
			opts.SetAppName(cfg.AppName)
		}

		client, err := mongo.Connect(ctx, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to create mongo client: %w", err)
		}

		pingCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}

		return &Conn{client: client, db: client.Database(name)}, nil
	}
}

// Conn is a connected mongo.Client bound to one database.
type Conn struct {
	client *mongo.Client
	db     *mongo.Database
}

func (c *Conn) Collection(name string) database.Collection {
	return &Collection{coll: c.db.Collection(name)}
}

func (c *Conn) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, readpref.Primary())
}

func (c *Conn) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

// Collection adapts a mongo.Collection to database.Collection.
type Collection struct {
	coll *mongo.Collection
}

func (c *Collection) CreateUniqueIndex(ctx context.Context, field string) (string, error) {
	model := mongo.IndexModel{
		Keys:    bson.D{{Key: field, Value: 1}},
		Options: options.Index().SetUnique(true),
	}

	name, err := c.coll.Indexes().CreateOne(ctx, model)
	if err != nil {
		return "", classify(err, c.coll.Name(), field)
	}
	return name, nil
}

func (c *Collection) Exists(ctx context.Context, filter database.Filter) (bool, error) {
	opts := options.FindOne().SetProjection(bson.D{{Key: "_id", Value: 1}})

	err := c.coll.FindOne(ctx, toFilter(filter), opts).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (c *Collection) Insert(ctx context.Context, document any) (string, error) {
	res, err := c.coll.InsertOne(ctx, document)
	if err != nil {
		return "", classify(err, c.coll.Name(), "")
	}
	return idString(res.InsertedID), nil
}

func (c *Collection) DeleteMany(ctx context.Context, filter database.Filter) (int64, error) {
	res, err := c.coll.DeleteMany(ctx, toFilter(filter))
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// classify maps the driver errors the core distinguishes onto the database
// taxonomy. Everything else is returned as is.
func classify(err error, collection, field string) error {
	var code database.Code
	switch {
	case mongo.IsDuplicateKeyError(err):
		code = database.DuplicateKey
	case isIndexAlreadyExists(err):
		code = database.IndexConflict
	default:
		return err
	}

	e := database.Wrap(code, err)
	e.Collection, e.Field = collection, field
	return e
}

func isIndexAlreadyExists(err error) bool {
	var se mongo.ServerError
	return errors.As(err, &se) && se.HasErrorCode(codeIndexAlreadyExists)
}

func toFilter(f database.Filter) bson.D {
	if f.IsZero() {
		return bson.D{}
	}
	return bson.D{{Key: f.Field, Value: f.Value}}
}

func idString(id any) string {
	switch v := id.(type) {
	case primitive.ObjectID:
		return v.Hex()
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
