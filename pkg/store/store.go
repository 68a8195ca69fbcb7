// Package store is the public persistence facade: a generic entity
// repository over a pluggable storage backend. Application code creates,
// updates, deletes, and queries records by table name; the store assigns ids,
// stamps timestamps, runs all values through the schema-driven codec, and
// serializes access for a single process.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/halcyon-apps/daystore/internal/backend"
	"github.com/halcyon-apps/daystore/internal/codec"
	"github.com/halcyon-apps/daystore/internal/memory"
	"github.com/halcyon-apps/daystore/internal/schema"
	"github.com/halcyon-apps/daystore/internal/sqlite"
	"github.com/halcyon-apps/daystore/pkg/types"
)

// Store is the repository handle. Open once at startup, pass by reference to
// every component that needs it, and Close at teardown.
type Store struct {
	mu      sync.RWMutex
	cfg     types.Config
	backend backend.Backend
	caps    backend.Caps
	ready   bool

	now   func() time.Time
	newID func() string

	subMu   sync.Mutex
	subs    map[int]subscriber
	nextSub int
}

type subscriber struct {
	table string
	ch    chan struct{}
}

// Option adjusts store construction.
type Option func(*Store)

// WithClock replaces the timestamp source. Used by tests and by hosts that
// inject a frozen or monotonic clock.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDSource replaces the id generator. Ids must be unique per table for
// the lifetime of the store.
func WithIDSource(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// Open constructs the store: selects a backend, initializes the schema, and
// returns a ready handle. An empty Config.Backend probes for the native
// engine and falls back to the emulated one. Initialization failure is fatal;
// the returned handle must not be used if err is non-nil.
func Open(cfg types.Config, opts ...Option) (*Store, error) {
	if cfg.StoreName == "" {
		cfg.StoreName = types.DefaultStoreName
	}
	s := &Store{
		cfg:   cfg,
		now:   time.Now,
		newID: newUUID,
		subs:  make(map[int]subscriber),
	}
	for _, opt := range opts {
		opt(s)
	}

	b, err := openBackend(cfg)
	if err != nil {
		return nil, err
	}
	if err := schema.Initialize(b); err != nil {
		b.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	s.backend = b
	s.caps = b.Caps()
	s.ready = true
	return s, nil
}

// openBackend selects and opens the configured backend. The selection is
// made exactly once here; nothing downstream branches on the backend kind
// beyond its reported capabilities.
func openBackend(cfg types.Config) (backend.Backend, error) {
	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	kind := cfg.Backend
	if kind == "" {
		kind = probeBackend(dataDir)
	}
	probed := types.Config{Backend: kind, StoreName: cfg.StoreName}
	if err := probed.Validate(); err != nil {
		return nil, err
	}

	switch kind {
	case types.BackendSQLite:
		return sqlite.Open(filepath.Join(dataDir, cfg.StoreName+".db"))
	default:
		return memory.Open(dataDir, cfg.StoreName)
	}
}

// probeBackend checks whether the native engine is usable in this
// environment and falls back to the emulated backend otherwise.
func probeBackend(dataDir string) string {
	b, err := sqlite.Open(filepath.Join(dataDir, ".probe.db"))
	if err != nil {
		return types.BackendMemory
	}
	b.Close()
	os.Remove(filepath.Join(dataDir, ".probe.db"))
	return types.BackendSQLite
}

// newUUID generates a time-ordered 36-character entity id.
func newUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// Ready reports whether the store is open and initialized.
func (s *Store) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// UserID returns the current user identifier supplied by the auth
// collaborator. May be empty before sign-in.
func (s *Store) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.UserID
}

// SetUserID replaces the current user identifier.
func (s *Store) SetUserID(id string) {
	s.mu.Lock()
	s.cfg.UserID = id
	s.mu.Unlock()
}

// Create inserts a new record. The id is generated unless the caller supplies
// one; created_at and updated_at are stamped from the store clock. The
// returned record is the canonical decoded form.
func (s *Store) Create(table string, fields types.Record) (types.Record, error) {
	s.mu.Lock()
	rec, err := s.createLocked(table, fields)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	s.notify(table)
	return rec, nil
}

func (s *Store) createLocked(table string, fields types.Record) (types.Record, error) {
	spec, err := s.specLocked(table)
	if err != nil {
		return nil, err
	}

	rec := fields.Clone()
	if rec.String(types.ColID) == "" {
		rec[types.ColID] = s.newID()
	}
	now := s.now()
	rec[types.ColCreatedAt] = now
	rec[types.ColUpdatedAt] = now

	row, err := codec.EncodeRecord(spec, rec)
	if err != nil {
		return nil, err
	}
	if err := s.backend.Insert(spec, row); err != nil {
		return nil, err
	}
	return codec.DecodeRow(spec, row)
}

// Update merges partial fields onto the stored record, refreshes updated_at,
// and writes the result. The id and created_at are never touched. Returns
// ErrNotFound when no record with the id exists. The read-modify-write runs
// under the store's write lock, so it is atomic with respect to other store
// operations.
func (s *Store) Update(table, id string, fields types.Record) (types.Record, error) {
	s.mu.Lock()
	rec, err := s.updateLocked(table, id, fields)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	s.notify(table)
	return rec, nil
}

func (s *Store) updateLocked(table, id string, fields types.Record) (types.Record, error) {
	spec, err := s.specLocked(table)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, types.ErrInvalidID
	}

	existing, err := s.getByIDLocked(spec, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("%w: %s %q", types.ErrNotFound, table, id)
	}

	merged := existing.Clone()
	for k, v := range fields {
		if k == types.ColID || k == types.ColCreatedAt {
			continue
		}
		merged[k] = v
	}
	merged[types.ColUpdatedAt] = s.now()

	row, err := codec.EncodeRecord(spec, merged)
	if err != nil {
		return nil, err
	}
	if err := s.backend.Update(spec, id, row); err != nil {
		return nil, err
	}
	return codec.DecodeRow(spec, row)
}

// Delete removes the record with the given id. Deleting an absent id is not
// an error. When the backend does not enforce foreign keys, deleting a task
// cascades to its subtasks here. Either way the cascade mutates the subtasks
// table, so deleting a task signals both tables.
func (s *Store) Delete(table, id string) error {
	s.mu.Lock()
	err := s.deleteLocked(table, id)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.notify(table)
	if table == types.TasksTable {
		s.notify(types.SubTasksTable)
	}
	return nil
}

func (s *Store) deleteLocked(table, id string) error {
	spec, err := s.specLocked(table)
	if err != nil {
		return err
	}
	if id == "" {
		return types.ErrInvalidID
	}

	if table == types.TasksTable && !s.caps.ForeignKeys {
		subs, err := s.backend.Select(backend.Query{
			Table: types.SubTasksTable,
			Where: &backend.Equality{Column: "task_id", Value: id},
		})
		if err != nil {
			return err
		}
		for _, sub := range subs {
			subID, _ := sub[types.ColID].(string)
			if err := s.backend.Delete(types.SubTasksSpec, subID); err != nil {
				return err
			}
		}
	}

	return s.backend.Delete(spec, id)
}

// GetByID returns the record with the given id, or nil when absent.
func (s *Store) GetByID(table, id string) (types.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	spec, err := s.specLocked(table)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, types.ErrInvalidID
	}
	return s.getByIDLocked(spec, id)
}

func (s *Store) getByIDLocked(spec types.TableSpec, id string) (types.Record, error) {
	rows, err := s.backend.Select(backend.Query{
		Table: spec.Name,
		Where: &backend.Equality{Column: spec.IDColumn(), Value: id},
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return codec.DecodeRow(spec, rows[0])
}

// GetAll returns every record in the table, in no guaranteed order.
func (s *Store) GetAll(table string) ([]types.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	spec, err := s.specLocked(table)
	if err != nil {
		return nil, err
	}
	return s.selectLocked(spec, backend.Query{Table: spec.Name})
}

// GetByFilter returns the records whose field equals value, in no guaranteed
// order. The field must be declared in the table schema.
func (s *Store) GetByFilter(table, field string, value any) ([]types.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	spec, err := s.specLocked(table)
	if err != nil {
		return nil, err
	}
	f, ok := spec.Field(field)
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", types.ErrInvalidField, table, field)
	}
	enc, err := codec.EncodeValue(f, value)
	if err != nil {
		return nil, fmt.Errorf("encoding filter value for %s.%s: %w", table, field, err)
	}
	return s.selectLocked(spec, backend.Query{
		Table: spec.Name,
		Where: &backend.Equality{Column: field, Value: enc},
	})
}

func (s *Store) selectLocked(spec types.TableSpec, q backend.Query) ([]types.Record, error) {
	rows, err := s.backend.Select(q)
	if err != nil {
		return nil, err
	}
	recs := make([]types.Record, 0, len(rows))
	for _, row := range rows {
		rec, err := codec.DecodeRow(spec, row)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// SubtasksOf returns the subtasks of a task in ascending order_index order.
func (s *Store) SubtasksOf(taskID string) ([]types.Record, error) {
	recs, err := s.GetByFilter(types.SubTasksTable, "task_id", taskID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Int("order_index") < recs[j].Int("order_index")
	})
	return recs, nil
}

// Query is the raw escape hatch for statements the typed API cannot express.
// Rows come back as flat column-to-primitive maps, undecoded. Arguments may
// be typed values; they are coerced to store primitives before binding.
// Against the emulated backend only the reduced SELECT subset is accepted.
func (s *Store) Query(stmt string, args ...any) ([]types.Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.ready {
		return nil, types.ErrNotReady
	}
	bound := make([]any, len(args))
	for i, a := range args {
		bound[i] = encodeArg(a)
	}
	return s.backend.Query(stmt, bound...)
}

// encodeArg coerces convenience argument types to store primitives.
func encodeArg(a any) any {
	switch v := a.(type) {
	case bool:
		if v {
			return int64(1)
		}
		return int64(0)
	case time.Time:
		return v.UTC().Format(codec.TimeLayout)
	}
	return a
}

// Flush persists any state the backend buffers in memory. A write-through
// backend makes this a no-op.
func (s *Store) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return types.ErrNotReady
	}
	return s.backend.Flush()
}

// Close flushes and releases the backend. Idempotent; all operations after
// Close fail with ErrNotReady.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return nil
	}
	s.ready = false
	return s.backend.Close()
}

// specLocked resolves a table spec, guarding readiness. The metadata table is
// reserved and not addressable through the repository.
func (s *Store) specLocked(table string) (types.TableSpec, error) {
	if !s.ready {
		return types.TableSpec{}, types.ErrNotReady
	}
	spec, ok := types.TableByName(table)
	if !ok {
		return types.TableSpec{}, fmt.Errorf("%w: %s", types.ErrTableNotFound, table)
	}
	return spec, nil
}

// subscribe registers interest in changes to a table. The returned channel
// receives a best-effort signal after each mutation; cancel unregisters.
func (s *Store) subscribe(table string) (<-chan struct{}, func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSub
	s.nextSub++
	ch := make(chan struct{}, 1)
	s.subs[id] = subscriber{table: table, ch: ch}
	return ch, func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

// notify signals subscribers of a table without blocking; a subscriber that
// already has a pending signal is not signalled again.
func (s *Store) notify(table string) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, sub := range s.subs {
		if sub.table != table {
			continue
		}
		select {
		case sub.ch <- struct{}{}:
		default:
		}
	}
}
