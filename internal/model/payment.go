package model

import "time"

// PaymentStatus is the lifecycle state of a payment.  A payment starts
// PENDING, becomes COMPLETED or FAILED after the synchronous provider
// confirmation, and may move from COMPLETED to REFUNDED while the
// refund window is open.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentFailed    PaymentStatus = "FAILED"
	PaymentRefunded  PaymentStatus = "REFUNDED"
)

// Payment providers accepted at payment creation.  The provider call
// itself is modeled as an opaque synchronous confirmation; these values
// only gate what the API accepts.
const (
	ProviderCreditCard   = "credit_card"
	ProviderCash         = "cash"
	ProviderEWallet      = "e_wallet"
	ProviderBankTransfer = "bank_transfer"
)

var validProviders = map[string]bool{
	ProviderCreditCard:   true,
	ProviderCash:         true,
	ProviderEWallet:      true,
	ProviderBankTransfer: true,
}

// ValidProvider reports whether name is an accepted payment provider.
func ValidProvider(name string) bool { return validProviders[name] }

// Payment settles exactly one booking.  The amount mirrors the
// booking's total at creation time.  ExternalRef carries the opaque
// transaction id returned by the provider on completion.
//
// Fields:
//  ID          – primary key identifier.
//  BookingID   – booking being settled (one payment per booking).
//  AmountCents – amount charged in cents.
//  Provider    – provider name, see the Provider* constants.
//  ExternalRef – provider transaction reference, set on completion.
//  Status      – lifecycle state, see PaymentStatus.
//  PaidAt      – completion timestamp, set when status turns COMPLETED.
//  CreatedAt   – creation timestamp.
type Payment struct {
	ID          uint64        // payments.id
	BookingID   uint64        // payments.booking_id
	AmountCents int64         // payments.amount_cents
	Provider    string        // payments.provider
	ExternalRef *string       // payments.external_ref (nullable)
	Status      PaymentStatus // payments.status
	PaidAt      *time.Time    // payments.paid_at (nullable)
	CreatedAt   time.Time     // payments.created_at
}
