// Package memory is an in-process document store for local runs and tests.
//
// A Server plays the part of the database server: its data outlives the
// connections dialed to it, so a Manager can disconnect and reconnect and
// still see what it wrote. Documents are normalized through BSON, which
// means bson struct tags apply exactly as they do against MongoDB.
//
// Unique indexes follow MongoDB semantics for the cases the data-access
// core relies on: a missing field counts as null, _id is always unique,
// and creating an index over duplicate data fails. Numbers compare by
// value across Go numeric types, as MongoDB compares int32, int64 and
// double.
package memory

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/deppfellow/go-signup/internal/database"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

// ErrClosed is returned by operations on a closed connection.
var ErrClosed = errors.New("memory: connection closed")

// Server holds every database and collection of the store.
type Server struct {
	mu        sync.Mutex
	databases map[string]map[string]*collectionData

	dials     atomic.Int64
	dialErr   error
	dialDelay time.Duration
}

type collectionData struct {
	docs   []bson.M
	unique map[string]struct{}
}

// NewServer returns an empty store.
func NewServer() *Server {
	return &Server{
		databases: make(map[string]map[string]*collectionData),
	}
}

// Dial is a database.Dialer. Every call counts as one connection attempt.
func (s *Server) Dial(ctx context.Context, name string) (database.Conn, error) {
	s.dials.Add(1)

	s.mu.Lock()
	dialErr, delay := s.dialErr, s.dialDelay
	s.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if dialErr != nil {
		return nil, dialErr
	}

	return &conn{server: s, name: name}, nil
}

// Dials reports how many connection attempts were made.
func (s *Server) Dials() int {
	return int(s.dials.Load())
}

// SetDialError makes subsequent dials fail with err until it is reset
// with nil.
func (s *Server) SetDialError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dialErr = err
}

// SetDialDelay slows down subsequent dials.
func (s *Server) SetDialDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dialDelay = d
}

// Count returns the number of documents stored in db.collection.
func (s *Server) Count(db, collection string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if data, ok := s.databases[db][collection]; ok {
		return len(data.docs)
	}
	return 0
}

// data returns the collection, creating it on first use. s.mu must be held.
func (s *Server) data(db, collection string) *collectionData {
	colls, ok := s.databases[db]
	if !ok {
		colls = make(map[string]*collectionData)
		s.databases[db] = colls
	}

	data, ok := colls[collection]
	if !ok {
		data = &collectionData{unique: make(map[string]struct{})}
		colls[collection] = data
	}
	return data
}

type conn struct {
	server *Server
	name   string
	closed atomic.Bool
}

func (c *conn) Collection(name string) database.Collection {
	return &collection{conn: c, name: name}
}

func (c *conn) Ping(ctx context.Context) error {
	if c.closed.Load() {
		return ErrClosed
	}
	return ctx.Err()
}

func (c *conn) Close(context.Context) error {
	if !c.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	return nil
}

type collection struct {
	conn *conn
	name string
}

func (c *collection) check(ctx context.Context) error {
	if c.conn.closed.Load() {
		return ErrClosed
	}
	return ctx.Err()
}

func (c *collection) namespace() string {
	return c.conn.name + "." + c.name
}

func (c *collection) CreateUniqueIndex(ctx context.Context, field string) (string, error) {
	if err := c.check(ctx); err != nil {
		return "", err
	}
	if field == "" {
		return "", fmt.Errorf("memory: index key pattern on %s is empty", c.namespace())
	}

	index := field + "_1"

	s := c.conn.server
	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.data(c.conn.name, c.name)
	if _, ok := data.unique[field]; ok {
		e := database.Wrap(database.IndexConflict, fmt.Errorf("memory: index %s already exists on %s", index, c.namespace()))
		e.Collection, e.Field = c.name, field
		return "", e
	}

	seen := make(map[string]struct{}, len(data.docs))
	for _, doc := range data.docs {
		key, err := valueKey(doc[field])
		if err != nil {
			return "", err
		}
		if _, dup := seen[key]; dup {
			return "", c.duplicate(index, field, doc[field])
		}
		seen[key] = struct{}{}
	}

	data.unique[field] = struct{}{}
	return index, nil
}

func (c *collection) Exists(ctx context.Context, filter database.Filter) (bool, error) {
	if err := c.check(ctx); err != nil {
		return false, err
	}

	s := c.conn.server
	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.data(c.conn.name, c.name)
	for _, doc := range data.docs {
		ok, err := matches(doc, filter)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func (c *collection) Insert(ctx context.Context, document any) (string, error) {
	if err := c.check(ctx); err != nil {
		return "", err
	}

	doc, err := normalize(document)
	if err != nil {
		return "", err
	}
	if doc["_id"] == nil {
		doc["_id"] = uuid.NewString()
	}

	s := c.conn.server
	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.data(c.conn.name, c.name)

	fields := make([]string, 0, len(data.unique)+1)
	fields = append(fields, "_id")
	for field := range data.unique {
		fields = append(fields, field)
	}

	for _, field := range fields {
		key, err := valueKey(doc[field])
		if err != nil {
			return "", err
		}
		for _, existing := range data.docs {
			other, err := valueKey(existing[field])
			if err != nil {
				return "", err
			}
			if key == other {
				index := field + "_1"
				if field == "_id" {
					index = "_id_"
				}
				return "", c.duplicate(index, field, doc[field])
			}
		}
	}

	data.docs = append(data.docs, doc)
	return idString(doc["_id"]), nil
}

func (c *collection) DeleteMany(ctx context.Context, filter database.Filter) (int64, error) {
	if err := c.check(ctx); err != nil {
		return 0, err
	}

	s := c.conn.server
	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.data(c.conn.name, c.name)
	kept := data.docs[:0]
	var deleted int64
	for _, doc := range data.docs {
		ok, err := matches(doc, filter)
		if err != nil {
			return 0, err
		}
		if ok {
			deleted++
			continue
		}
		kept = append(kept, doc)
	}
	// Clear the tail so removed documents can be collected.
	for i := len(kept); i < len(data.docs); i++ {
		data.docs[i] = nil
	}
	data.docs = kept

	return deleted, nil
}

func (c *collection) duplicate(index, field string, value any) error {
	e := database.Wrap(database.DuplicateKey, fmt.Errorf(
		"memory: duplicate key error collection: %s index: %s dup key: { %s: %v }",
		c.namespace(), index, field, value,
	))
	e.Collection, e.Field = c.name, field
	return e
}

func matches(doc bson.M, filter database.Filter) (bool, error) {
	if filter.IsZero() {
		return true, nil
	}

	want, err := valueKey(filter.Value)
	if err != nil {
		return false, err
	}
	got, err := valueKey(doc[filter.Field])
	if err != nil {
		return false, err
	}
	return want == got, nil
}

// normalize copies document into a bson.M the way the driver would encode it.
func normalize(document any) (bson.M, error) {
	raw, err := bson.Marshal(document)
	if err != nil {
		return nil, fmt.Errorf("memory: encode document: %w", err)
	}

	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("memory: decode document: %w", err)
	}
	return doc, nil
}

// valueKey returns the BSON encoding of v, so that values compare equal
// exactly when they encode identically. A nil value encodes as null.
// Top-level numbers are normalized first, so int32(5), int64(5) and 5.0
// share a key as they do in MongoDB; numbers nested in arrays or
// subdocuments are compared by type.
func valueKey(v any) (string, error) {
	raw, err := bson.Marshal(bson.D{{Key: "v", Value: numericKey(v)}})
	if err != nil {
		return "", fmt.Errorf("memory: encode value: %w", err)
	}
	return string(raw), nil
}

// numericKey maps every integral number to int64 and every other number to
// float64. Non-numeric values are returned unchanged.
func numericKey(v any) any {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int8:
		return int64(n)
	case int16:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	case uint8:
		return int64(n)
	case uint16:
		return int64(n)
	case uint32:
		return int64(n)
	case uint:
		return uintKey(uint64(n))
	case uint64:
		return uintKey(n)
	case float32:
		return floatKey(float64(n))
	case float64:
		return floatKey(n)
	default:
		return v
	}
}

func uintKey(n uint64) any {
	if n <= math.MaxInt64 {
		return int64(n)
	}
	return float64(n)
}

func floatKey(f float64) any {
	if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
		return int64(f)
	}
	return f
}

func idString(id any) string {
	if s, ok := id.(string); ok {
		return s
	}
	return fmt.Sprint(id)
}
