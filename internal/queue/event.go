package queue

// Events published to the settlement queue.  Consumers identify the
// payload by the Event field.

// BookingPaidEvent is emitted when a payment completes and the booking
// flips to PAID.
type BookingPaidEvent struct {
	Event       string `json:"event"`
	BookingID   uint64 `json:"booking_id"`
	UserID      uint64 `json:"user_id"`
	ShowtimeID  uint64 `json:"showtime_id"`
	PaymentID   uint64 `json:"payment_id"`
	AmountCents int64  `json:"amount_cents"`
	Provider    string `json:"provider"`
	ExternalRef string `json:"external_ref"`
	PaidAt      string `json:"paid_at"`
}

// EventBookingPaid is the Event value of BookingPaidEvent.
const EventBookingPaid = "booking.paid"

// PaymentRefundedEvent is emitted when a completed payment is refunded
// and the booking chain is reversed.
type PaymentRefundedEvent struct {
	Event       string `json:"event"`
	PaymentID   uint64 `json:"payment_id"`
	BookingID   uint64 `json:"booking_id"`
	UserID      uint64 `json:"user_id"`
	ShowtimeID  uint64 `json:"showtime_id"`
	AmountCents int64  `json:"amount_cents"`
	Reason      string `json:"reason"`
	RefundedAt  string `json:"refunded_at"`
}

// EventPaymentRefunded is the Event value of PaymentRefundedEvent.
const EventPaymentRefunded = "payment.refunded"
