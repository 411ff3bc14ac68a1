package catalog

import (
	"context"
	"net/mail"
	"sort"
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

// Service manages the clients, services and providers referenced by appointments.
// Deleting an entity does not touch the appointments that reference it.
type Service struct {
	clients   *store.Collection[domain.Client]
	services  *store.Collection[domain.Service]
	providers *store.Collection[domain.Provider]
	now       func() time.Time
}

func NewService(backend store.Backend) *Service {
	return &Service{
		clients:   store.NewCollection[domain.Client](backend, store.CollectionClients),
		services:  store.NewCollection[domain.Service](backend, store.CollectionServices),
		providers: store.NewCollection[domain.Provider](backend, store.CollectionProviders),
		now:       time.Now,
	}
}

func (s *Service) Clients(ctx context.Context) ([]domain.Client, error) {
	rows, err := s.clients.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return strings.ToLower(rows[i].Name) < strings.ToLower(rows[j].Name)
	})
	return rows, nil
}

func (s *Service) Client(ctx context.Context, id string) (domain.Client, error) {
	return s.clients.Get(ctx, id)
}

func (s *Service) SaveClient(ctx context.Context, c domain.Client) (domain.Client, error) {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	c.Phone = strings.TrimSpace(c.Phone)
	if c.Name == "" {
		return domain.Client{}, validationError("name is required")
	}
	if c.Email != "" {
		if _, err := mail.ParseAddress(c.Email); err != nil {
			return domain.Client{}, validationError("invalid email")
		}
	}
	if err := assignID(&c.ID); err != nil {
		return domain.Client{}, err
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now().UTC()
	}
	if err := s.clients.Put(ctx, c); err != nil {
		return domain.Client{}, err
	}
	return c, nil
}

func (s *Service) DeleteClient(ctx context.Context, id string) error {
	return deleteByID(ctx, s.clients, id)
}

func (s *Service) Services(ctx context.Context) ([]domain.Service, error) {
	return s.services.List(ctx)
}

// ActiveServices returns the services offered in the booking form.
func (s *Service) ActiveServices(ctx context.Context) ([]domain.Service, error) {
	rows, err := s.services.List(ctx)
	if err != nil {
		return nil, err
	}
	out := rows[:0]
	for _, r := range rows {
		if r.Active {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *Service) ServiceByID(ctx context.Context, id string) (domain.Service, error) {
	return s.services.Get(ctx, id)
}

func (s *Service) SaveService(ctx context.Context, svc domain.Service) (domain.Service, error) {
	svc.Name = strings.TrimSpace(svc.Name)
	if svc.Name == "" {
		return domain.Service{}, validationError("name is required")
	}
	if svc.DurationMinutes <= 0 {
		return domain.Service{}, validationError("durationMinutes must be positive")
	}
	if svc.Price < 0 {
		return domain.Service{}, validationError("price must not be negative")
	}
	if err := assignID(&svc.ID); err != nil {
		return domain.Service{}, err
	}
	if err := s.services.Put(ctx, svc); err != nil {
		return domain.Service{}, err
	}
	return svc, nil
}

func (s *Service) DeleteService(ctx context.Context, id string) error {
	return deleteByID(ctx, s.services, id)
}

func (s *Service) Providers(ctx context.Context) ([]domain.Provider, error) {
	return s.providers.List(ctx)
}

func (s *Service) ActiveProviders(ctx context.Context) ([]domain.Provider, error) {
	rows, err := s.providers.List(ctx)
	if err != nil {
		return nil, err
	}
	out := rows[:0]
	for _, r := range rows {
		if r.Active {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *Service) Provider(ctx context.Context, id string) (domain.Provider, error) {
	return s.providers.Get(ctx, id)
}

func (s *Service) SaveProvider(ctx context.Context, p domain.Provider) (domain.Provider, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.Email = strings.TrimSpace(p.Email)
	if p.Name == "" {
		return domain.Provider{}, validationError("name is required")
	}
	if err := assignID(&p.ID); err != nil {
		return domain.Provider{}, err
	}
	if err := s.providers.Put(ctx, p); err != nil {
		return domain.Provider{}, err
	}
	return p, nil
}

func (s *Service) DeleteProvider(ctx context.Context, id string) error {
	return deleteByID(ctx, s.providers, id)
}

func assignID(id *string) error {
	*id = strings.TrimSpace(*id)
	if *id != "" {
		return nil
	}
	generated, err := domain.NewID()
	if err != nil {
		return err
	}
	*id = generated
	return nil
}

func deleteByID[T store.Record](ctx context.Context, c *store.Collection[T], id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return validationError("id is required")
	}
	removed, err := c.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		return store.ErrNotFound
	}
	return nil
}
