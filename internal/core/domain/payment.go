package domain

import "time"

const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
	PaymentRefunded  = "refunded"
)

const (
	MethodCash     = "cash"
	MethodTransfer = "transfer"
	MethodCard     = "card"
	MethodCheck    = "check"
)

// DefaultCurrency is applied when a payment is submitted without one.
const DefaultCurrency = "MXN"

// Payment records money received from a client. OwnerID is the seller that
// owns the client at the time the payment is registered.
type Payment struct {
	ID        string    `json:"id" bson:"_id"`
	TenantID  string    `json:"tenant_id" bson:"tenant_id"`
	OwnerID   string    `json:"owner_id" bson:"owner_id"`
	ClientID  string    `json:"client_id" bson:"client_id"`
	Amount    float64   `json:"amount" bson:"amount"`
	Currency  string    `json:"currency" bson:"currency"`
	Method    string    `json:"method" bson:"method"`
	Status    string    `json:"status" bson:"status"`
	Reference string    `json:"reference,omitempty" bson:"reference,omitempty"`
	PaidAt    time.Time `json:"paid_at" bson:"paid_at"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// StatusTotal aggregates payments sharing a status or method.
type StatusTotal struct {
	Count  int64   `json:"count" bson:"count"`
	Amount float64 `json:"amount" bson:"amount"`
}

// PaymentStats summarizes the payments visible to an actor.
type PaymentStats struct {
	Count           int64                  `json:"count"`
	TotalAmount     float64                `json:"total_amount"`
	CompletedAmount float64                `json:"completed_amount"`
	PendingAmount   float64                `json:"pending_amount"`
	AverageAmount   float64                `json:"average_amount"`
	ByStatus        map[string]StatusTotal `json:"by_status"`
	ByMethod        map[string]StatusTotal `json:"by_method"`
}
