package database

import (
	"context"
	"fmt"
)

// DocumentExists reports whether at least one document in collection has
// field equal to value. Store failures are returned unchanged.
func (m *Manager) DocumentExists(ctx context.Context, field string, value any, collection string) (bool, error) {
	if field == "" {
		return false, fmt.Errorf("database: document exists in %q: empty field name", collection)
	}

	coll, err := m.collection(ctx, collection)
	if err != nil {
		return false, err
	}

	return coll.Exists(ctx, BuildQuery(field, value))
}

// AddDocument inserts document into collection and returns the identifier
// the store assigned to it. A unique index collision fails with
// DuplicateKey.
func (m *Manager) AddDocument(ctx context.Context, collection string, document any) (string, error) {
	if document == nil {
		return "", fmt.Errorf("database: add document to %q: nil document", collection)
	}

	coll, err := m.collection(ctx, collection)
	if err != nil {
		return "", err
	}

	id, err := coll.Insert(ctx, document)
	if err != nil {
		return "", err
	}

	m.log.Debug().
		Str("database", m.name).
		Str("collection", collection).
		Str("id", id).
		Msg("document added")

	return id, nil
}

// RemoveAllDocuments deletes every document in collection and returns how
// many were removed. There is no scoping and no dry run; it exists for test
// and reset paths and callers must gate it themselves.
func (m *Manager) RemoveAllDocuments(ctx context.Context, collection string) (int64, error) {
	coll, err := m.collection(ctx, collection)
	if err != nil {
		return 0, err
	}

	deleted, err := coll.DeleteMany(ctx, MatchAll())
	if err != nil {
		return 0, err
	}

	m.log.Warn().
		Str("database", m.name).
		Str("collection", collection).
		Int64("deleted", deleted).
		Msg("removed all documents")

	return deleted, nil
}
