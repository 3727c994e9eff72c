package database

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

// CreateUniqueIndex ensures a unique ascending index on field.
//
// An index that already exists with an equivalent definition is not an
// error: it is logged and the call succeeds. Any other failure is returned
// as IndexFatal.
func (m *Manager) CreateUniqueIndex(ctx context.Context, field, collection string) error {
	conn, err := m.ensure(ctx)
	if err != nil {
		return err
	}
	return m.createUniqueIndex(ctx, conn, field, collection)
}

func (m *Manager) createUniqueIndex(ctx context.Context, conn Conn, field, collection string) error {
	log := m.log.With().
		Str("database", m.name).
		Str("collection", collection).
		Str("field", field).
		Logger()

	name, err := conn.Collection(collection).CreateUniqueIndex(ctx, field)
	if err != nil {
		if errors.Is(err, ErrIndexConflict) {
			log.Info().Err(err).Msg("unique index already exists")
			return nil
		}
		log.Error().Err(err).Msg("failed to create unique index")
		return &Error{Code: IndexFatal, Op: "create index", Collection: collection, Field: field, err: err}
	}

	log.Info().Str("index", name).Msg("unique index ensured")
	return nil
}

// InitDB connects if needed and ensures a unique index on every field of
// collection.
//
// At most width requests are in flight at once; width <= 0 uses the
// Manager's configured width and width == 1 creates them one by one. InitDB
// returns when all requests have finished or with the first fatal error, in
// which case requests not yet started are abandoned. Indexes created before
// the failure stay in place.
func (m *Manager) InitDB(ctx context.Context, collection string, fields []string, width int) error {
	conn, err := m.ensure(ctx)
	if err != nil {
		return err
	}

	if width <= 0 {
		width = m.indexWidth
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(width)

	for _, field := range fields {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return m.createUniqueIndex(gctx, conn, field, collection)
		})
	}

	return g.Wait()
}
