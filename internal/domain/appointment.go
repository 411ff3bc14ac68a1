package domain

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	StatusPending    AppointmentStatus = "pending"
	StatusConfirmed  AppointmentStatus = "confirmed"
	StatusOnWay      AppointmentStatus = "on_way"
	StatusInProgress AppointmentStatus = "in_progress"
	StatusCompleted  AppointmentStatus = "completed"
	StatusCancelled  AppointmentStatus = "cancelled"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusOnWay, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

type AppointmentType string

const (
	AppointmentTypeService AppointmentType = "service"
	AppointmentTypeBlock   AppointmentType = "block"
)

func (t AppointmentType) Valid() bool {
	return t == AppointmentTypeService || t == AppointmentTypeBlock
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

func (s PaymentStatus) Valid() bool {
	return s == PaymentPending || s == PaymentPaid
}

type PaymentMethod string

const (
	PaymentPix        PaymentMethod = "pix"
	PaymentCreditCard PaymentMethod = "credit_card"
	PaymentMoney      PaymentMethod = "money"
	PaymentDebitCard  PaymentMethod = "debit_card"
	PaymentBoleto     PaymentMethod = "boleto"
	PaymentTransfer   PaymentMethod = "transfer"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentPix, PaymentCreditCard, PaymentMoney, PaymentDebitCard, PaymentBoleto, PaymentTransfer:
		return true
	}
	return false
}

type Appointment struct {
	ID            string            `json:"id"`
	ClientID      string            `json:"clientId"`
	ProviderID    string            `json:"providerId,omitempty"`
	ServiceID     string            `json:"serviceId,omitempty"`
	Title         string            `json:"title"`
	Start         time.Time         `json:"start"`
	End           time.Time         `json:"end"`
	Status        AppointmentStatus `json:"status"`
	Notes         string            `json:"notes,omitempty"`
	Type          AppointmentType   `json:"type"`
	CustomFields  map[string]any    `json:"customFields,omitempty"`
	PaymentStatus PaymentStatus     `json:"paymentStatus,omitempty"`
	PaymentMethod PaymentMethod     `json:"paymentMethod,omitempty"`
	Price         float64           `json:"price,omitempty"`
}

func (a Appointment) RecordID() string { return a.ID }

func (a Appointment) Cancelled() bool { return a.Status == StatusCancelled }

// Paid reports whether the appointment should produce an income transaction.
func (a Appointment) Paid() bool {
	return a.PaymentStatus == PaymentPaid && a.Price > 0
}

// NewID returns a time-ordered identifier for new records.
func NewID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
