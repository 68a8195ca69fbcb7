package store

import (
	"sort"
	"sync"

	"github.com/halcyon-apps/daystore/pkg/types"
)

// Binding is a live view over one table, optionally narrowed by a single
// equality filter. It re-fetches whenever the table changes or the filter
// value is replaced, and exposes the last completed snapshot. A binding is
// eventually consistent with the last completed fetch and nothing more.
type Binding struct {
	store  *Store
	table  string
	cancel func()
	kick   chan struct{}
	stop   chan struct{}
	done   chan struct{}

	mu        sync.Mutex
	filterKey string
	filterVal any
	results   []types.Record
	loading   bool
	err       error
}

// Bind starts a live binding over a whole table.
func (s *Store) Bind(table string) (*Binding, error) {
	return s.BindFilter(table, "", nil)
}

// BindFilter starts a live binding narrowed to records whose field equals
// value. Stop the binding when the consuming view goes away.
func (s *Store) BindFilter(table, field string, value any) (*Binding, error) {
	if _, err := s.specLocked(table); err != nil {
		return nil, err
	}

	ch, cancel := s.subscribe(table)
	b := &Binding{
		store:     s,
		table:     table,
		cancel:    cancel,
		kick:      make(chan struct{}, 1),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
		filterKey: field,
		filterVal: value,
		loading:   true,
	}

	go func() {
		defer close(b.done)
		b.refetch()
		for {
			select {
			case <-b.stop:
				return
			case <-ch:
				b.refetch()
			case <-b.kick:
				b.refetch()
			}
		}
	}()
	return b, nil
}

// refetch runs the underlying repository call and replaces the snapshot.
func (b *Binding) refetch() {
	b.mu.Lock()
	b.loading = true
	key, val := b.filterKey, b.filterVal
	b.mu.Unlock()

	var recs []types.Record
	var err error
	if key == "" {
		recs, err = b.store.GetAll(b.table)
	} else {
		recs, err = b.store.GetByFilter(b.table, key, val)
	}

	b.mu.Lock()
	b.loading = false
	b.err = err
	if err == nil {
		b.results = recs
	}
	b.mu.Unlock()
}

// SetFilterValue replaces the filter value and triggers a re-fetch.
func (b *Binding) SetFilterValue(value any) {
	b.mu.Lock()
	b.filterVal = value
	b.mu.Unlock()
	select {
	case b.kick <- struct{}{}:
	default:
	}
}

// Results returns the last completed snapshot.
func (b *Binding) Results() []types.Record {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]types.Record, len(b.results))
	copy(out, b.results)
	return out
}

// Loading reports whether a fetch is in flight.
func (b *Binding) Loading() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loading
}

// Err returns the error of the last fetch, if any.
func (b *Binding) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.err
}

// Filtered returns the snapshot entries matching pred. Pure: operates on the
// last-fetched snapshot and triggers no fetch.
func (b *Binding) Filtered(pred func(types.Record) bool) []types.Record {
	var out []types.Record
	for _, r := range b.Results() {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}

// Sorted returns a sorted copy of the snapshot. Comparators apply in order;
// the first that distinguishes two records decides. Pure, non-mutating.
func (b *Binding) Sorted(less ...func(a, c types.Record) bool) []types.Record {
	out := b.Results()
	sortRecords(out, less)
	return out
}

func sortRecords(recs []types.Record, less []func(a, c types.Record) bool) {
	if len(less) == 0 {
		return
	}
	sort.SliceStable(recs, func(i, j int) bool {
		a, c := recs[i], recs[j]
		for _, l := range less {
			if l(a, c) {
				return true
			}
			if l(c, a) {
				return false
			}
		}
		return false
	})
}

// Stop ends the binding and unregisters its subscription. Blocks until the
// refresh goroutine has exited.
func (b *Binding) Stop() {
	b.cancel()
	close(b.stop)
	<-b.done
}
