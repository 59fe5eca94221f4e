package v1

import (
	"time"

	"github.com/Behyna/streamstore/internal/model"
	"github.com/Behyna/streamstore/pkg/money"
)

type SessionResponse struct {
	Phone     string    `json:"phone"`
	ExpiresAt time.Time `json:"expires_at"`
}

type BalanceResponse struct {
	Phone   string       `json:"phone"`
	Balance money.Amount `json:"balance"`
}

type ProofUploadResponse struct {
	Proof *model.PaymentProof `json:"proof"`
}
