package finance

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"cronos/backend/internal/domain"
	"cronos/backend/internal/store"
	"cronos/backend/internal/store/memory"
)

func seeded(t *testing.T) *Service {
	t.Helper()
	svc := NewService(memory.New(), time.UTC)
	march := func(day int) time.Time { return time.Date(2026, 3, day, 12, 0, 0, 0, time.UTC) }

	for _, tx := range []domain.Transaction{
		{ID: "1", Description: "Corte", Amount: 50, Type: domain.TransactionIncome, Status: domain.TransactionPaid, Date: march(2), PaymentMethod: domain.PaymentPix, ProviderID: "p1"},
		{ID: "2", Description: "Escova", Amount: 80, Type: domain.TransactionIncome, Status: domain.TransactionPaid, Date: march(3), PaymentMethod: domain.PaymentMoney, ProviderID: "p2"},
		{ID: "3", Description: "Aluguel", Amount: 30, Type: domain.TransactionExpense, Status: domain.TransactionPaid, Date: march(5)},
		{ID: "4", Description: "Pacote noiva", Amount: 200, Type: domain.TransactionIncome, Status: domain.TransactionPending, Date: march(20), PaymentMethod: domain.PaymentPix},
		{ID: "5", Description: "Fevereiro", Amount: 999, Type: domain.TransactionIncome, Status: domain.TransactionPaid, Date: time.Date(2026, 2, 28, 23, 0, 0, 0, time.UTC)},
	} {
		if _, err := svc.Save(context.Background(), tx); err != nil {
			t.Fatalf("Save(%s) error: %v", tx.ID, err)
		}
	}
	return svc
}

func TestServiceSummary(t *testing.T) {
	svc := seeded(t)
	month, err := svc.ParseMonth("2026-03")
	if err != nil {
		t.Fatalf("ParseMonth error: %v", err)
	}

	sum, err := svc.Summary(context.Background(), month)
	if err != nil {
		t.Fatalf("Summary error: %v", err)
	}
	if sum.Income != 130 || sum.Expense != 30 || sum.Pending != 200 || sum.Balance != 100 {
		t.Fatalf("summary = %+v, want income 130 expense 30 pending 200 balance 100", sum)
	}
	if sum.ByMethod["pix"] != 250 || sum.ByMethod["money"] != 80 || sum.ByMethod[MethodOther] != 30 {
		t.Fatalf("byMethod = %v", sum.ByMethod)
	}
	if sum.ByProvider["p1"] != 50 || sum.ByProvider["p2"] != 80 || len(sum.ByProvider) != 2 {
		t.Fatalf("byProvider = %v", sum.ByProvider)
	}
}

func TestServiceSummary_UsesCalendarLocation(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	svc := NewService(memory.New(), loc)
	// 01:00 UTC on March 1st is still February in BRT
	_, err := svc.Save(context.Background(), domain.Transaction{
		Description: "Late", Amount: 10, Type: domain.TransactionIncome, Status: domain.TransactionPaid,
		Date: time.Date(2026, 3, 1, 1, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Save error: %v", err)
	}

	month, _ := svc.ParseMonth("2026-02")
	sum, err := svc.Summary(context.Background(), month)
	if err != nil || sum.Income != 10 {
		t.Fatalf("Summary = %+v, %v; want the transaction in February", sum, err)
	}
}

func TestServiceSave_Validation(t *testing.T) {
	svc := NewService(memory.New(), nil)
	base := domain.Transaction{Description: "x", Amount: 1, Type: domain.TransactionExpense, Date: time.Now()}

	tests := []struct {
		name   string
		mutate func(tx *domain.Transaction)
	}{
		{name: "no description", mutate: func(tx *domain.Transaction) { tx.Description = "" }},
		{name: "zero amount", mutate: func(tx *domain.Transaction) { tx.Amount = 0 }},
		{name: "bad type", mutate: func(tx *domain.Transaction) { tx.Type = "refund" }},
		{name: "bad method", mutate: func(tx *domain.Transaction) { tx.PaymentMethod = "cheque" }},
		{name: "bad status", mutate: func(tx *domain.Transaction) { tx.Status = "void" }},
		{name: "no date", mutate: func(tx *domain.Transaction) { tx.Date = time.Time{} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := base
			tt.mutate(&tx)
			_, err := svc.Save(context.Background(), tx)
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("error = %v, want *ValidationError", err)
			}
		})
	}

	saved, err := svc.Save(context.Background(), base)
	if err != nil || saved.Status != domain.TransactionPending || saved.ID == "" {
		t.Fatalf("Save = %+v, %v; want pending with id", saved, err)
	}
	if err := svc.Delete(context.Background(), saved.ID); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if err := svc.Delete(context.Background(), saved.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("second Delete error = %v, want %v", err, store.ErrNotFound)
	}
}

func TestServiceWriteCSV(t *testing.T) {
	svc := seeded(t)
	month, _ := svc.ParseMonth("2026-03")

	var buf bytes.Buffer
	if err := svc.WriteCSV(context.Background(), &buf, month); err != nil {
		t.Fatalf("WriteCSV error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("lines = %d, want header plus 4 rows:\n%s", len(lines), buf.String())
	}
	if lines[1] != "20/03/2026,Pacote noiva,income,200.00,pix,pending" {
		t.Fatalf("first row = %q, want newest transaction", lines[1])
	}
	if lines[2] != "05/03/2026,Aluguel,expense,30.00,-,paid" {
		t.Fatalf("second row = %q, want expense without method", lines[2])
	}
}
