package store

import (
	"context"
	"encoding/json"
	"reflect"
	"sync"
)

type Record interface {
	RecordID() string
}

// Collection is a typed view over one stored collection. Every call reads the whole
// collection and, for writes, stores it back. Calls are serialised per backend and
// collection name, so separate Collection values over the same data share one lock.
type Collection[T Record] struct {
	backend Backend
	name    string

	mu *sync.Mutex
}

func NewCollection[T Record](backend Backend, name string) *Collection[T] {
	return &Collection[T]{backend: backend, name: name, mu: collectionLock(backend, name)}
}

type lockKey struct {
	backend Backend
	name    string
}

var collectionLocks sync.Map // lockKey -> *sync.Mutex

// collectionLock returns the process-wide mutex for name on backend. Backends whose
// dynamic type cannot be a map key share the lock by name alone.
func collectionLock(backend Backend, name string) *sync.Mutex {
	key := lockKey{backend: backend, name: name}
	if backend != nil && !reflect.TypeOf(backend).Comparable() {
		key.backend = nil
	}
	mu, _ := collectionLocks.LoadOrStore(key, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

func (c *Collection[T]) Name() string {
	return c.name
}

func (c *Collection[T]) List(ctx context.Context) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load(ctx)
}

func (c *Collection[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	rows, err := c.List(ctx)
	if err != nil {
		return zero, err
	}
	for _, r := range rows {
		if r.RecordID() == id {
			return r, nil
		}
	}
	return zero, ErrNotFound
}

// Find returns the first record matching pred.
func (c *Collection[T]) Find(ctx context.Context, pred func(T) bool) (T, bool, error) {
	var zero T
	rows, err := c.List(ctx)
	if err != nil {
		return zero, false, err
	}
	for _, r := range rows {
		if pred(r) {
			return r, true, nil
		}
	}
	return zero, false, nil
}

// Put replaces the record with the same id in place or appends it.
func (c *Collection[T]) Put(ctx context.Context, rec T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	rows, err := c.load(ctx)
	if err != nil {
		return err
	}
	idx := indexByID(rows)
	if i, ok := idx[rec.RecordID()]; ok {
		rows[i] = rec
	} else {
		rows = append(rows, rec)
	}
	return c.store(ctx, rows)
}

// Delete removes the record with id and reports whether it existed. Deleting an
// unknown id still succeeds.
func (c *Collection[T]) Delete(ctx context.Context, id string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rows, err := c.load(ctx)
	if err != nil {
		return false, err
	}
	out := rows[:0]
	removed := false
	for _, r := range rows {
		if r.RecordID() == id {
			removed = true
			continue
		}
		out = append(out, r)
	}
	if !removed {
		return false, nil
	}
	return true, c.store(ctx, out)
}

func (c *Collection[T]) Replace(ctx context.Context, rows []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store(ctx, rows)
}

func (c *Collection[T]) load(ctx context.Context) ([]T, error) {
	payload, err := c.backend.Load(ctx, c.name)
	if err != nil {
		return nil, &PersistenceError{Op: "load", Collection: c.name, Err: err}
	}
	if len(payload) == 0 {
		return []T{}, nil
	}
	var rows []T
	if err := json.Unmarshal(payload, &rows); err != nil {
		return nil, &PersistenceError{Op: "decode", Collection: c.name, Err: err}
	}
	if rows == nil {
		rows = []T{}
	}
	return rows, nil
}

func (c *Collection[T]) store(ctx context.Context, rows []T) error {
	if rows == nil {
		rows = []T{}
	}
	payload, err := json.Marshal(rows)
	if err != nil {
		return &PersistenceError{Op: "encode", Collection: c.name, Err: err}
	}
	if err := c.backend.StoreAll(ctx, c.name, payload); err != nil {
		return &PersistenceError{Op: "store", Collection: c.name, Err: err}
	}
	return nil
}

func indexByID[T Record](rows []T) map[string]int {
	idx := make(map[string]int, len(rows))
	for i, r := range rows {
		idx[r.RecordID()] = i
	}
	return idx
}

// Document is a single stored value, such as the weekly availability template.
type Document[T any] struct {
	backend Backend
	name    string
}

func NewDocument[T any](backend Backend, name string) *Document[T] {
	return &Document[T]{backend: backend, name: name}
}

// Load returns the stored value and whether one was found.
func (d *Document[T]) Load(ctx context.Context) (T, bool, error) {
	var v T
	payload, err := d.backend.Load(ctx, d.name)
	if err != nil {
		return v, false, &PersistenceError{Op: "load", Collection: d.name, Err: err}
	}
	if len(payload) == 0 {
		return v, false, nil
	}
	if err := json.Unmarshal(payload, &v); err != nil {
		return v, false, &PersistenceError{Op: "decode", Collection: d.name, Err: err}
	}
	return v, true, nil
}

func (d *Document[T]) Store(ctx context.Context, v T) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return &PersistenceError{Op: "encode", Collection: d.name, Err: err}
	}
	if err := d.backend.StoreAll(ctx, d.name, payload); err != nil {
		return &PersistenceError{Op: "store", Collection: d.name, Err: err}
	}
	return nil
}
