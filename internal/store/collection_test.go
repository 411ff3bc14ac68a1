package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"cronos/backend/internal/domain"
	"cronos/backend/internal/store/memory"
)

type fakeBackend struct {
	loadFn  func(ctx context.Context, collection string) ([]byte, error)
	storeFn func(ctx context.Context, collection string, payload []byte) error
}

func (f *fakeBackend) Load(ctx context.Context, collection string) ([]byte, error) {
	if f.loadFn == nil {
		return nil, nil
	}
	return f.loadFn(ctx, collection)
}

func (f *fakeBackend) StoreAll(ctx context.Context, collection string, payload []byte) error {
	if f.storeFn == nil {
		return nil
	}
	return f.storeFn(ctx, collection, payload)
}

func TestCollection_PutUpsertsInPlace(t *testing.T) {
	ctx := context.Background()
	c := NewCollection[domain.Client](memory.New(), CollectionClients)

	for _, cl := range []domain.Client{{ID: "1", Name: "Maria"}, {ID: "2", Name: "Joao"}, {ID: "1", Name: "Maria Silva"}} {
		if err := c.Put(ctx, cl); err != nil {
			t.Fatalf("Put error: %v", err)
		}
	}

	rows, err := c.List(ctx)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}
	if rows[0].ID != "1" || rows[0].Name != "Maria Silva" {
		t.Fatalf("rows[0] = %+v, want updated record in first position", rows[0])
	}
}

func TestCollection_GetAndDelete(t *testing.T) {
	ctx := context.Background()
	c := NewCollection[domain.Provider](memory.New(), CollectionProviders)

	if _, err := c.Get(ctx, "1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get on empty collection error = %v, want %v", err, ErrNotFound)
	}
	if err := c.Put(ctx, domain.Provider{ID: "1", Name: "Carlos", Active: true}); err != nil {
		t.Fatalf("Put error: %v", err)
	}

	got, err := c.Get(ctx, "1")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.Name != "Carlos" {
		t.Fatalf("name = %q, want %q", got.Name, "Carlos")
	}

	removed, err := c.Delete(ctx, "1")
	if err != nil || !removed {
		t.Fatalf("Delete = %v, %v; want true, nil", removed, err)
	}
	removed, err = c.Delete(ctx, "1")
	if err != nil || removed {
		t.Fatalf("second Delete = %v, %v; want false, nil", removed, err)
	}
}

func TestCollection_WrapsBackendErrors(t *testing.T) {
	boom := errors.New("disk full")
	c := NewCollection[domain.Client](&fakeBackend{
		storeFn: func(ctx context.Context, collection string, payload []byte) error { return boom },
	}, CollectionClients)

	err := c.Put(context.Background(), domain.Client{ID: "1"})
	var pErr *PersistenceError
	if !errors.As(err, &pErr) {
		t.Fatalf("error = %v, want *PersistenceError", err)
	}
	if pErr.Op != "store" || pErr.Collection != CollectionClients {
		t.Fatalf("PersistenceError = %+v", pErr)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("error does not unwrap to backend error")
	}
}

func TestCollection_DecodeError(t *testing.T) {
	c := NewCollection[domain.Client](&fakeBackend{
		loadFn: func(ctx context.Context, collection string) ([]byte, error) { return []byte(`{not json`), nil },
	}, CollectionClients)

	_, err := c.List(context.Background())
	var pErr *PersistenceError
	if !errors.As(err, &pErr) || pErr.Op != "decode" {
		t.Fatalf("error = %v, want decode PersistenceError", err)
	}
}

func TestDocument_LoadReportsMissing(t *testing.T) {
	ctx := context.Background()
	d := NewDocument[domain.WeekAvailability](memory.New(), CollectionAvailability)

	_, found, err := d.Load(ctx)
	if err != nil || found {
		t.Fatalf("Load = found %v, err %v; want not found", found, err)
	}

	if err := d.Store(ctx, domain.DefaultWeek()); err != nil {
		t.Fatalf("Store error: %v", err)
	}
	week, found, err := d.Load(ctx)
	if err != nil || !found {
		t.Fatalf("Load = found %v, err %v; want found", found, err)
	}
	if week[domain.Sunday].Active {
		t.Fatalf("round-tripped template lost sunday closure")
	}
}

// slowBackend widens the window between load and store.
type slowBackend struct {
	*memory.Backend
	delay time.Duration
}

func (b *slowBackend) Load(ctx context.Context, collection string) ([]byte, error) {
	time.Sleep(b.delay)
	return b.Backend.Load(ctx, collection)
}

func TestCollection_SeparateValuesShareLock(t *testing.T) {
	ctx := context.Background()
	backend := &slowBackend{Backend: memory.New(), delay: time.Millisecond}
	first := NewCollection[domain.Transaction](backend, CollectionTransactions)
	second := NewCollection[domain.Transaction](backend, CollectionTransactions)

	const perSide = 10
	var wg sync.WaitGroup
	errs := make(chan error, 2*perSide)
	for i := 0; i < perSide; i++ {
		for side, c := range []*Collection[domain.Transaction]{first, second} {
			wg.Add(1)
			go func(c *Collection[domain.Transaction], id string) {
				defer wg.Done()
				errs <- c.Put(ctx, domain.Transaction{ID: id})
			}(c, fmt.Sprintf("%d-%d", side, i))
		}
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("Put error: %v", err)
		}
	}

	rows, err := first.List(ctx)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(rows) != 2*perSide {
		t.Fatalf("rows = %d, want %d", len(rows), 2*perSide)
	}
}

func TestCollection_LockIsPerBackend(t *testing.T) {
	a := NewCollection[domain.Client](memory.New(), CollectionClients)
	b := NewCollection[domain.Client](memory.New(), CollectionClients)
	c := NewCollection[domain.Client](a.backend, CollectionClients)
	if a.mu == b.mu {
		t.Fatal("collections on different backends share a lock")
	}
	if a.mu != c.mu {
		t.Fatal("collections on the same backend use different locks")
	}
}
