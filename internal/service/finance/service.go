package finance

import (
	"context"
	"encoding/csv"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"cronos/backend/internal/domain"
	"cronos/backend/internal/store"
)

type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationError(msg string) error {
	return &ValidationError{msg: msg}
}

// MethodOther groups transactions recorded without a payment method.
const MethodOther = "other"

type Summary struct {
	Month      string             `json:"month"`
	Income     float64            `json:"income"`
	Expense    float64            `json:"expense"`
	Pending    float64            `json:"pending"`
	Balance    float64            `json:"balance"`
	ByMethod   map[string]float64 `json:"byMethod"`
	ByProvider map[string]float64 `json:"byProvider"`
}

type Service struct {
	transactions *store.Collection[domain.Transaction]
	loc          *time.Location
}

func NewService(backend store.Backend, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		transactions: store.NewCollection[domain.Transaction](backend, store.CollectionTransactions),
		loc:          loc,
	}
}

// List returns transactions newest first.
func (s *Service) List(ctx context.Context) ([]domain.Transaction, error) {
	rows, err := s.transactions.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Date.After(rows[j].Date) })
	return rows, nil
}

func (s *Service) Get(ctx context.Context, id string) (domain.Transaction, error) {
	return s.transactions.Get(ctx, id)
}

func (s *Service) Save(ctx context.Context, tx domain.Transaction) (domain.Transaction, error) {
	tx.ID = strings.TrimSpace(tx.ID)
	tx.Description = strings.TrimSpace(tx.Description)
	switch {
	case tx.Description == "":
		return domain.Transaction{}, validationError("description is required")
	case tx.Amount <= 0:
		return domain.Transaction{}, validationError("amount must be positive")
	case tx.Type != domain.TransactionIncome && tx.Type != domain.TransactionExpense:
		return domain.Transaction{}, validationError("invalid type")
	case tx.PaymentMethod != "" && !tx.PaymentMethod.Valid():
		return domain.Transaction{}, validationError("invalid paymentMethod")
	}
	if tx.Status == "" {
		tx.Status = domain.TransactionPending
	}
	if tx.Status != domain.TransactionPaid && tx.Status != domain.TransactionPending {
		return domain.Transaction{}, validationError("invalid status")
	}
	if tx.Date.IsZero() {
		return domain.Transaction{}, validationError("date is required")
	}
	tx.Date = tx.Date.UTC()
	if tx.ID == "" {
		id, err := domain.NewID()
		if err != nil {
			return domain.Transaction{}, err
		}
		tx.ID = id
	}
	if err := s.transactions.Put(ctx, tx); err != nil {
		return domain.Transaction{}, err
	}
	return tx, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	removed, err := s.transactions.Delete(ctx, strings.TrimSpace(id))
	if err != nil {
		return err
	}
	if !removed {
		return store.ErrNotFound
	}
	return nil
}

// ParseMonth reads a YYYY-MM month in the service location.
func (s *Service) ParseMonth(month string) (time.Time, error) {
	m, err := time.ParseInLocation("2006-01", strings.TrimSpace(month), s.loc)
	if err != nil {
		return time.Time{}, validationError("month must be YYYY-MM")
	}
	return m, nil
}

// InMonth returns the transactions dated within the calendar month containing month.
func (s *Service) InMonth(ctx context.Context, month time.Time) ([]domain.Transaction, error) {
	rows, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	m := month.In(s.loc)
	start := time.Date(m.Year(), m.Month(), 1, 0, 0, 0, 0, s.loc)
	end := start.AddDate(0, 1, 0)

	out := rows[:0]
	for _, tx := range rows {
		if !tx.Date.Before(start) && tx.Date.Before(end) {
			out = append(out, tx)
		}
	}
	return out, nil
}

// Summary totals one month. Income and expense count paid transactions only; pending
// sums every unpaid transaction. ByProvider covers paid income.
func (s *Service) Summary(ctx context.Context, month time.Time) (Summary, error) {
	rows, err := s.InMonth(ctx, month)
	if err != nil {
		return Summary{}, err
	}

	sum := Summary{
		Month:      month.In(s.loc).Format("2006-01"),
		ByMethod:   map[string]float64{},
		ByProvider: map[string]float64{},
	}
	for _, tx := range rows {
		method := string(tx.PaymentMethod)
		if method == "" {
			method = MethodOther
		}
		sum.ByMethod[method] += tx.Amount

		if tx.Status == domain.TransactionPending {
			sum.Pending += tx.Amount
			continue
		}
		switch tx.Type {
		case domain.TransactionIncome:
			sum.Income += tx.Amount
			if tx.ProviderID != "" {
				sum.ByProvider[tx.ProviderID] += tx.Amount
			}
		case domain.TransactionExpense:
			sum.Expense += tx.Amount
		}
	}
	sum.Balance = sum.Income - sum.Expense
	return sum, nil
}

// WriteCSV writes the month's transactions as the spreadsheet export.
func (s *Service) WriteCSV(ctx context.Context, w io.Writer, month time.Time) error {
	rows, err := s.InMonth(ctx, month)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "description", "type", "amount", "paymentMethod", "status"}); err != nil {
		return err
	}
	for _, tx := range rows {
		method := string(tx.PaymentMethod)
		if method == "" {
			method = "-"
		}
		rec := []string{
			tx.Date.In(s.loc).Format("02/01/2006"),
			tx.Description,
			string(tx.Type),
			strconv.FormatFloat(tx.Amount, 'f', 2, 64),
			method,
			string(tx.Status),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
