package catalog

import (
	"context"
	"errors"
	"testing"

	"cronos/backend/internal/domain"
	"cronos/backend/internal/store"
	"cronos/backend/internal/store/memory"
)

func TestServiceSaveClient(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.New())

	tests := []struct {
		name    string
		in      domain.Client
		wantErr string
	}{
		{name: "blank name", in: domain.Client{Name: "  "}, wantErr: "name is required"},
		{name: "bad email", in: domain.Client{Name: "Ana", Email: "ana-at-mail"}, wantErr: "invalid email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SaveClient(ctx, tt.in)
			var vErr *ValidationError
			if !errors.As(err, &vErr) || vErr.Error() != tt.wantErr {
				t.Fatalf("error = %v, want %q", err, tt.wantErr)
			}
		})
	}

	saved, err := svc.SaveClient(ctx, domain.Client{Name: " Ana ", Email: "ana@example.com"})
	if err != nil {
		t.Fatalf("SaveClient error: %v", err)
	}
	if saved.ID == "" || saved.Name != "Ana" || saved.CreatedAt.IsZero() {
		t.Fatalf("saved = %+v, want id, trimmed name and creation time", saved)
	}

	got, err := svc.Client(ctx, saved.ID)
	if err != nil || got.Email != "ana@example.com" {
		t.Fatalf("Client = %+v, %v", got, err)
	}
}

func TestServiceClients_SortedByName(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.New())
	for _, name := range []string{"carla", "Bruno", "ana"} {
		if _, err := svc.SaveClient(ctx, domain.Client{Name: name}); err != nil {
			t.Fatalf("SaveClient error: %v", err)
		}
	}

	rows, err := svc.Clients(ctx)
	if err != nil {
		t.Fatalf("Clients error: %v", err)
	}
	if rows[0].Name != "ana" || rows[1].Name != "Bruno" || rows[2].Name != "carla" {
		t.Fatalf("rows = %+v, want case-insensitive name order", rows)
	}
}

func TestServiceActiveFilters(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.New())

	for _, s := range []domain.Service{
		{ID: "cut", Name: "Corte", DurationMinutes: 30, Price: 50, Active: true},
		{ID: "dye", Name: "Coloracao", DurationMinutes: 90, Price: 150, Active: false},
	} {
		if _, err := svc.SaveService(ctx, s); err != nil {
			t.Fatalf("SaveService error: %v", err)
		}
	}
	for _, p := range []domain.Provider{
		{ID: "p1", Name: "Carlos", Active: true},
		{ID: "p2", Name: "Julia", Active: false},
	} {
		if _, err := svc.SaveProvider(ctx, p); err != nil {
			t.Fatalf("SaveProvider error: %v", err)
		}
	}

	services, err := svc.ActiveServices(ctx)
	if err != nil || len(services) != 1 || services[0].ID != "cut" {
		t.Fatalf("ActiveServices = %+v, %v", services, err)
	}
	providers, err := svc.ActiveProviders(ctx)
	if err != nil || len(providers) != 1 || providers[0].ID != "p1" {
		t.Fatalf("ActiveProviders = %+v, %v", providers, err)
	}

	all, err := svc.Services(ctx)
	if err != nil || len(all) != 2 {
		t.Fatalf("Services = %+v, %v; want both", all, err)
	}
}

func TestServiceSaveService_Validation(t *testing.T) {
	svc := NewService(memory.New())
	for _, in := range []domain.Service{
		{Name: "", DurationMinutes: 30},
		{Name: "Corte", DurationMinutes: 0},
		{Name: "Corte", DurationMinutes: 30, Price: -5},
	} {
		_, err := svc.SaveService(context.Background(), in)
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("SaveService(%+v) error = %v, want *ValidationError", in, err)
		}
	}
}

func TestServiceDelete_UnknownID(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.New())

	if err := svc.DeleteProvider(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("DeleteProvider error = %v, want %v", err, store.ErrNotFound)
	}

	p, err := svc.SaveProvider(ctx, domain.Provider{Name: "Carlos", Active: true})
	if err != nil {
		t.Fatalf("SaveProvider error: %v", err)
	}
	if err := svc.DeleteProvider(ctx, p.ID); err != nil {
		t.Fatalf("DeleteProvider error: %v", err)
	}
	if _, err := svc.Provider(ctx, p.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("Provider after delete error = %v, want %v", err, store.ErrNotFound)
	}
}
