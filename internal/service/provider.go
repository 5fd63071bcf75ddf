package service

import (
	"context"

	"github.com/google/uuid"
)

// TxnProvider is the built-in payment confirmation used until a real
// gateway is integrated.  Every charge succeeds and gets an opaque
// transaction reference; the engine handles declines the day a gateway
// returns them.
type TxnProvider struct{}

// NewTxnProvider returns the stub provider.
func NewTxnProvider() *TxnProvider { return &TxnProvider{} }

// Charge confirms the amount and returns a fresh transaction reference.
func (TxnProvider) Charge(_ context.Context, _ string, _ int64) (string, error) {
	return "TXN-" + uuid.NewString(), nil
}
