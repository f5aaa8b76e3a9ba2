package schema

import (
	"time"

	"github.com/contalink/backoffice/internal/core/domain"
)

// PaymentForm registers a payment received from a client.
type PaymentForm struct {
	ClientID  string     `json:"client_id" validate:"required,max=64"`
	Amount    float64    `json:"amount"    validate:"gt=0"`
	Currency  string     `json:"currency"  validate:"len=3,alpha"`
	Method    string     `json:"method"    validate:"required,oneof=cash transfer card check"`
	Status    string     `json:"status"    validate:"oneof=pending completed failed refunded"`
	Reference string     `json:"reference" validate:"omitempty,max=80"`
	PaidAt    *time.Time `json:"paid_at"`
}

func (f *PaymentForm) normalize() {
	f.ClientID = collapse(f.ClientID)
	f.Amount = cents(f.Amount)
	f.Currency = upper(f.Currency)
	if f.Currency == "" {
		f.Currency = domain.DefaultCurrency
	}
	f.Method = lower(f.Method)
	f.Status = lower(f.Status)
	if f.Status == "" {
		f.Status = domain.PaymentPending
	}
	f.Reference = collapse(f.Reference)
}

// PaymentStatusForm changes the status of an existing payment.
type PaymentStatusForm struct {
	Status string `json:"status" validate:"required,oneof=pending completed failed refunded"`
}

// PaymentQuery filters the payment list view.
type PaymentQuery struct {
	ListQuery
	ClientID string `query:"client_id" validate:"omitempty,max=64"`
	Status   string `query:"status"    validate:"omitempty,oneof=pending completed failed refunded"`
	Method   string `query:"method"    validate:"omitempty,oneof=cash transfer card check"`
	From     string `query:"from"      validate:"omitempty,datetime=2006-01-02"`
	To       string `query:"to"        validate:"omitempty,datetime=2006-01-02"`
}

func (q *PaymentQuery) normalize() {
	q.ListQuery.normalize()
	q.ClientID = collapse(q.ClientID)
}
