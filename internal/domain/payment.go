package domain

import "time"

type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodCard     PaymentMethod = "card"
	PaymentMethodTransfer PaymentMethod = "transfer"
	PaymentMethodOnline   PaymentMethod = "online"
	PaymentMethodOther    PaymentMethod = "other"
)

// Payment is an append-only ledger row. Amount is signed: negative is a refund.
type Payment struct {
	ID         int64         `json:"id"`
	PropertyID int64         `json:"property_id"`
	BookingID  int64         `json:"booking_id"`
	Amount     int64         `json:"amount"`
	Method     PaymentMethod `json:"method"`
	Reference  string        `json:"reference,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
}

// IsRefund reports whether the payment gives money back.
func (p *Payment) IsRefund() bool {
	return p.Amount < 0
}

// PaymentResult is returned by RecordPayment with the booking's recomputed state.
type PaymentResult struct {
	Payment     *Payment `json:"payment"`
	PaidAmount  int64    `json:"paid_amount"`
	TotalAmount int64    `json:"total_amount"`
	Balance     int64    `json:"balance"`
	Overpaid    bool     `json:"overpaid"`
}
