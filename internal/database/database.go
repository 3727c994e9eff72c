// Package database contains the data-access core of the application.
//
// A Manager owns the single shared connection to a named document
// database. It connects lazily, reconnects after an explicit Disconnect,
// maintains unique indexes and exposes a narrow CRUD surface:
//   - DocumentExists (single-field equality)
//   - AddDocument
//   - RemoveAllDocuments
//
// The Manager never talks to a driver directly. It drives a Conn obtained
// from a Dialer, so the concrete store (see the mongodb and memory
// subpackages) is chosen at process configuration time.
//
// Exactly one Manager exists per process. It is handed out by a Registry,
// never constructed ad hoc.
package database

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// Conn is an established handle to one database of a document store.
type Conn interface {
	// Collection returns a handle for the named collection. It never
	// creates the collection; the store does that on first write.
	Collection(name string) Collection

	// Ping checks that the store is reachable through this handle.
	Ping(ctx context.Context) error

	// Close releases the handle. The Conn must not be used afterwards.
	Close(ctx context.Context) error
}

// Collection is the set of per-collection operations the Manager needs.
//
// Implementations classify their own failures: a unique constraint
// violation is reported as an *Error with Code DuplicateKey, an index that
// already exists with an equivalent definition as Code IndexConflict.
// Everything else is returned unchanged.
type Collection interface {
	CreateUniqueIndex(ctx context.Context, field string) (string, error)
	Exists(ctx context.Context, filter Filter) (bool, error)
	Insert(ctx context.Context, document any) (string, error)
	DeleteMany(ctx context.Context, filter Filter) (int64, error)
}

// Dialer establishes a new Conn bound to the named database.
type Dialer func(ctx context.Context, name string) (Conn, error)

// DefaultIndexWidth bounds how many index requests InitDB issues at once
// when neither the caller nor the configuration picks a width.
const DefaultIndexWidth = 4

// State is the connection state of a Manager.
type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "DISCONNECTED"
	case StateConnecting:
		return "CONNECTING"
	case StateConnected:
		return "CONNECTED"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Manager owns the process-wide connection to one named database.
//
// mu serializes the connect and disconnect transitions. Operations only
// take the read lock long enough to pick up the current handle, so any
// number of them may be outstanding on the shared Conn. Concurrent
// connects join one in-flight dial through connecting.
type Manager struct {
	name       string
	dial       Dialer
	log        *zerolog.Logger
	indexWidth int

	mu         sync.RWMutex
	conn       Conn
	state      atomic.Int32
	connecting singleflight.Group
}

// Option configures a Manager when the Registry creates it.
type Option func(*Manager)

// WithDialer sets how the Manager reaches the store. It is required.
func WithDialer(dial Dialer) Option {
	return func(m *Manager) {
		m.dial = dial
	}
}

// WithLogger sets the lifecycle logger. Without it the Manager is silent.
func WithLogger(logger *zerolog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.log = logger
		}
	}
}

// WithIndexWidth sets the default fan-out width of InitDB.
func WithIndexWidth(width int) Option {
	return func(m *Manager) {
		if width > 0 {
			m.indexWidth = width
		}
	}
}

func newManager(name string, opts ...Option) (*Manager, error) {
	if name == "" {
		return nil, fmt.Errorf("database: empty database name")
	}

	nop := zerolog.Nop()
	m := &Manager{
		name:       name,
		log:        &nop,
		indexWidth: DefaultIndexWidth,
	}
	for _, opt := range opts {
		opt(m)
	}

	if m.dial == nil {
		return nil, fmt.Errorf("database: no dialer configured for %q", name)
	}

	return m, nil
}

// Name returns the database the Manager is bound to.
func (m *Manager) Name() string {
	return m.name
}

// State reports the current connection state.
func (m *Manager) State() State {
	return State(m.state.Load())
}

// Connect establishes the shared connection if there is none. It is
// idempotent, and concurrent first callers share a single dial.
func (m *Manager) Connect(ctx context.Context) error {
	_, err := m.connect(ctx)
	return err
}

// connect joins the in-flight dial, if any, or starts one. Every caller
// that joins an attempt gets its result, failure included; a caller
// arriving after it settled starts a new one. The dial runs with the ctx
// of the caller that started it.
func (m *Manager) connect(ctx context.Context) (Conn, error) {
	v, err, _ := m.connecting.Do(m.name, func() (any, error) {
		return m.dialOnce(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(Conn), nil
}

func (m *Manager) dialOnce(ctx context.Context) (Conn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.conn != nil {
		return m.conn, nil
	}

	m.state.Store(int32(StateConnecting))
	m.log.Debug().Str("database", m.name).Msg("connecting to the database")

	conn, err := m.dial(ctx, m.name)
	if err != nil {
		m.state.Store(int32(StateDisconnected))
		m.log.Error().Err(err).Str("database", m.name).Msg("failed to connect to the database")
		return nil, &Error{Code: ConnectionFailed, Op: "connect", err: err}
	}

	m.conn = conn
	m.state.Store(int32(StateConnected))
	m.log.Info().Str("database", m.name).Msg("connected to the database")

	return conn, nil
}

// Disconnect closes the shared connection. Calling it while disconnected
// is a no-op. The Manager may connect again afterwards.
func (m *Manager) Disconnect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.conn == nil {
		return nil
	}

	m.log.Info().Str("database", m.name).Msg("closing database connection")

	err := m.conn.Close(ctx)
	m.conn = nil
	m.state.Store(int32(StateDisconnected))

	if err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}
	return nil
}

// Ping connects if needed and checks that the store answers.
func (m *Manager) Ping(ctx context.Context) error {
	conn, err := m.ensure(ctx)
	if err != nil {
		return err
	}
	return conn.Ping(ctx)
}

// ensure is the single lazy-connect entry point shared by every CRUD and
// index operation.
func (m *Manager) ensure(ctx context.Context) (Conn, error) {
	m.mu.RLock()
	conn := m.conn
	m.mu.RUnlock()

	if conn != nil {
		return conn, nil
	}
	return m.connect(ctx)
}
