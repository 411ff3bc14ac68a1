package domain

import "time"

type Client struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (c Client) RecordID() string { return c.ID }

type Service struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	DurationMinutes int     `json:"durationMinutes"`
	Price           float64 `json:"price"`
	Active          bool    `json:"active"`
}

func (s Service) RecordID() string { return s.ID }

type Provider struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Active bool   `json:"active"`
	Avatar string `json:"avatar,omitempty"`
}

func (p Provider) RecordID() string { return p.ID }

type Event struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	Date            time.Time `json:"date"`
	DurationMinutes int       `json:"durationMinutes"`
	Capacity        int       `json:"capacity"`
	MeetingURL      string    `json:"meetingUrl,omitempty"`
	Speaker         string    `json:"speaker,omitempty"`
	Attendees       []string  `json:"attendees"`
	Attachments     []string  `json:"attachments,omitempty"`
}

func (e Event) RecordID() string { return e.ID }

func (e Event) Full() bool {
	return len(e.Attendees) >= e.Capacity
}

type CustomFieldType string

const (
	FieldText     CustomFieldType = "text"
	FieldTextarea CustomFieldType = "textarea"
	FieldNumber   CustomFieldType = "number"
	FieldEmail    CustomFieldType = "email"
	FieldPhone    CustomFieldType = "phone"
	FieldCheckbox CustomFieldType = "checkbox"
	FieldSelect   CustomFieldType = "select"
)

func (t CustomFieldType) Valid() bool {
	switch t {
	case FieldText, FieldTextarea, FieldNumber, FieldEmail, FieldPhone, FieldCheckbox, FieldSelect:
		return true
	}
	return false
}

type CustomField struct {
	ID       string          `json:"id"`
	Label    string          `json:"label"`
	Type     CustomFieldType `json:"type"`
	Required bool            `json:"required"`
	Options  []string        `json:"options,omitempty"`
}

func (f CustomField) RecordID() string { return f.ID }

type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

type TransactionStatus string

const (
	TransactionPaid    TransactionStatus = "paid"
	TransactionPending TransactionStatus = "pending"
)

type Transaction struct {
	ID                   string            `json:"id"`
	Description          string            `json:"description"`
	Amount               float64           `json:"amount"`
	Type                 TransactionType   `json:"type"`
	Status               TransactionStatus `json:"status"`
	Date                 time.Time         `json:"date"`
	PaymentMethod        PaymentMethod     `json:"paymentMethod,omitempty"`
	Category             string            `json:"category,omitempty"`
	RelatedAppointmentID string            `json:"relatedAppointmentId,omitempty"`
	RelatedEventID       string            `json:"relatedEventId,omitempty"`
	ProviderID           string            `json:"providerId,omitempty"`
}

func (t Transaction) RecordID() string { return t.ID }

// TransactionForAppointment builds the income record derived from a paid appointment.
func TransactionForAppointment(id string, a Appointment, now time.Time) Transaction {
	method := a.PaymentMethod
	if method == "" {
		method = PaymentMoney
	}
	return Transaction{
		ID:                   id,
		Description:          "Appointment: " + a.Title,
		Amount:               a.Price,
		Type:                 TransactionIncome,
		Status:               TransactionPaid,
		Date:                 now.UTC(),
		PaymentMethod:        method,
		RelatedAppointmentID: a.ID,
		ProviderID:           a.ProviderID,
	}
}
