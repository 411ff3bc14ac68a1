// Package seed loads the demo records used for local runs.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cronos/backend/internal/domain"
	"cronos/backend/internal/store"
)

// Demo fills every empty demo collection. Collections that already hold records are
// left alone, so it is safe to run on each start.
func Demo(ctx context.Context, backend store.Backend, now time.Time, log *slog.Logger) error {
	if log == nil {
		log = slog.Default()
	}
	log = log.With(slog.String("component", "seed"))
	now = now.UTC()

	clients := []domain.Client{
		{ID: "1", Name: "Maria Silva", Email: "maria@example.com", Phone: "11999999999", CreatedAt: now},
		{ID: "2", Name: "João Santos", Email: "joao@example.com", Phone: "11988888888", CreatedAt: now},
	}
	services := []domain.Service{
		{ID: "1", Name: "Corte de Cabelo", DurationMinutes: 45, Price: 50, Active: true},
		{ID: "2", Name: "Barba", DurationMinutes: 30, Price: 30, Active: true},
	}
	providers := []domain.Provider{
		{ID: "1", Name: "Carlos Barbeiro", Active: true},
		{ID: "2", Name: "Ana Cabeleireira", Active: true},
	}
	events := []domain.Event{{
		ID:              "1",
		Name:            "Workshop de Tendências",
		Date:            now.AddDate(0, 0, 5),
		DurationMinutes: 120,
		Capacity:        50,
		Speaker:         "Ana Cabeleireira",
		Attendees:       []string{"1", "2"},
	}}
	transactions := []domain.Transaction{
		{
			ID: "1", Description: "Corte de Cabelo (João)", Amount: 50,
			Type: domain.TransactionIncome, Status: domain.TransactionPaid,
			Date: now.AddDate(0, 0, -1), PaymentMethod: domain.PaymentPix,
		},
		{
			ID: "2", Description: "Conta de Luz", Amount: 150,
			Type: domain.TransactionExpense, Status: domain.TransactionPaid,
			Date: now.AddDate(0, 0, -2), PaymentMethod: domain.PaymentBoleto,
		},
	}

	steps := []struct {
		name string
		run  func() (bool, error)
	}{
		{store.CollectionClients, func() (bool, error) { return fill(ctx, backend, store.CollectionClients, clients) }},
		{store.CollectionServices, func() (bool, error) { return fill(ctx, backend, store.CollectionServices, services) }},
		{store.CollectionProviders, func() (bool, error) { return fill(ctx, backend, store.CollectionProviders, providers) }},
		{store.CollectionEvents, func() (bool, error) { return fill(ctx, backend, store.CollectionEvents, events) }},
		{store.CollectionTransactions, func() (bool, error) { return fill(ctx, backend, store.CollectionTransactions, transactions) }},
	}
	for _, step := range steps {
		seeded, err := step.run()
		if err != nil {
			return fmt.Errorf("seed %s: %w", step.name, err)
		}
		if seeded {
			log.Info("demo data loaded", slog.String("collection", step.name))
		}
	}
	return nil
}

func fill[T store.Record](ctx context.Context, backend store.Backend, name string, rows []T) (bool, error) {
	c := store.NewCollection[T](backend, name)
	existing, err := c.List(ctx)
	if err != nil {
		return false, err
	}
	if len(existing) > 0 {
		return false, nil
	}
	return true, c.Replace(ctx, rows)
}
