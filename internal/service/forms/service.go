package forms

import (
	"context"
	"fmt"
	"net/mail"
	"strconv"
	"strings"

	"cronos/backend/internal/domain"
	"cronos/backend/internal/store"
)

type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationError(format string, args ...any) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// Service holds the extra fields the booking form asks for.
type Service struct {
	fields *store.Collection[domain.CustomField]
}

func NewService(backend store.Backend) *Service {
	return &Service{fields: store.NewCollection[domain.CustomField](backend, store.CollectionFormConfig)}
}

func (s *Service) Fields(ctx context.Context) ([]domain.CustomField, error) {
	return s.fields.List(ctx)
}

// SaveFields replaces the whole form configuration.
func (s *Service) SaveFields(ctx context.Context, fields []domain.CustomField) ([]domain.CustomField, error) {
	seen := make(map[string]struct{}, len(fields))
	out := make([]domain.CustomField, 0, len(fields))
	for i, f := range fields {
		f.ID = strings.TrimSpace(f.ID)
		f.Label = strings.TrimSpace(f.Label)
		if f.ID == "" {
			id, err := domain.NewID()
			if err != nil {
				return nil, err
			}
			f.ID = id
		}
		if _, dup := seen[f.ID]; dup {
			return nil, validationError("duplicate field id %q", f.ID)
		}
		seen[f.ID] = struct{}{}

		if f.Label == "" {
			return nil, validationError("field %d: label is required", i)
		}
		if !f.Type.Valid() {
			return nil, validationError("field %q: invalid type %q", f.Label, f.Type)
		}
		if f.Type == domain.FieldSelect && len(f.Options) == 0 {
			return nil, validationError("field %q: select needs options", f.Label)
		}
		out = append(out, f)
	}

	if err := s.fields.Replace(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Validate checks appointment custom field values against the configured fields. Values
// for unknown fields are kept as they are.
func (s *Service) Validate(ctx context.Context, values map[string]any) error {
	fields, err := s.fields.List(ctx)
	if err != nil {
		return err
	}
	for _, f := range fields {
		v, present := values[f.ID]
		if !present || isBlank(v) {
			if f.Required {
				return validationError("%s is required", f.Label)
			}
			continue
		}
		if err := checkValue(f, v); err != nil {
			return err
		}
	}
	return nil
}

func isBlank(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case bool:
		return !t
	}
	return false
}

func checkValue(f domain.CustomField, v any) error {
	switch f.Type {
	case domain.FieldNumber:
		switch t := v.(type) {
		case float64, int:
		case string:
			if _, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err != nil {
				return validationError("%s must be a number", f.Label)
			}
		default:
			return validationError("%s must be a number", f.Label)
		}
	case domain.FieldEmail:
		s, ok := v.(string)
		if !ok {
			return validationError("%s must be an email address", f.Label)
		}
		if _, err := mail.ParseAddress(strings.TrimSpace(s)); err != nil {
			return validationError("%s must be an email address", f.Label)
		}
	case domain.FieldCheckbox:
		if _, ok := v.(bool); !ok {
			return validationError("%s must be true or false", f.Label)
		}
	case domain.FieldSelect:
		s, ok := v.(string)
		if !ok {
			return validationError("%s has an invalid option", f.Label)
		}
		for _, opt := range f.Options {
			if opt == s {
				return nil
			}
		}
		return validationError("%s has an invalid option", f.Label)
	default:
		if _, ok := v.(string); !ok {
			return validationError("%s must be text", f.Label)
		}
	}
	return nil
}
