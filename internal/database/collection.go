package database

import "context"

// Collection returns a handle for name on the current connection.
//
// Unlike the CRUD operations it does not connect lazily: with no
// connection it fails with NotInitialized. Call Connect first.
func (m *Manager) Collection(name string) (Collection, error) {
	m.mu.RLock()
	conn := m.conn
	m.mu.RUnlock()

	if conn == nil {
		return nil, &Error{Code: NotInitialized, Op: "collection", Collection: name}
	}
	return conn.Collection(name), nil
}

// collection connects if needed, then resolves name.
func (m *Manager) collection(ctx context.Context, name string) (Collection, error) {
	conn, err := m.ensure(ctx)
	if err != nil {
		return nil, err
	}
	return conn.Collection(name), nil
}
