package service

import (
	"time"

	"github.com/Behyna/streamstore/internal/model"
	"github.com/Behyna/streamstore/pkg/money"
)

type BalanceResult struct {
	Phone   string       `json:"phone"`
	Balance money.Amount `json:"balance"`
}

// DebitOutcome is returned for every well-formed debit. Insufficient funds is
// an outcome, not an error.
type DebitOutcome struct {
	Succeeded bool         `json:"succeeded"`
	Balance   money.Amount `json:"balance"`
	Required  money.Amount `json:"required"`
}

type AuditResult struct {
	Phone      string       `json:"phone"`
	Balance    money.Amount `json:"balance"`
	LedgerSum  money.Amount `json:"ledger_sum"`
	Consistent bool         `json:"consistent"`
}

type PurchaseOutcome string

const (
	OutcomeCompleted         PurchaseOutcome = "completed"
	OutcomeItemNotFound      PurchaseOutcome = "item_not_found"
	OutcomeInsufficientFunds PurchaseOutcome = "insufficient_funds"
	OutcomeItemUnavailable   PurchaseOutcome = "item_unavailable"
)

type PurchaseResult struct {
	Outcome  PurchaseOutcome      `json:"outcome"`
	Item     *model.InventoryItem `json:"item,omitempty"`
	Balance  money.Amount         `json:"balance"`
	Required money.Amount         `json:"required,omitempty"`
}

type PlatformGroup struct {
	Platform string                `json:"platform"`
	Items    []model.InventoryItem `json:"items"`
}

type SweepResult struct {
	AsOf    string `json:"as_of"`
	Expired int64  `json:"expired"`
}

type CheckInResult struct {
	User        *model.User `json:"user"`
	IsNew       bool        `json:"is_new"`
	ShouldGreet bool        `json:"should_greet"`
}

type Summary struct {
	TotalUsers     int64                 `json:"total_users"`
	AvailableItems int64                 `json:"available_items"`
	SoldItems      int64                 `json:"sold_items"`
	ExpiredItems   int64                 `json:"expired_items"`
	AverageBalance money.Amount          `json:"average_balance"`
	RecentSales    []model.InventoryItem `json:"recent_sales"`
	GeneratedAt    time.Time             `json:"generated_at"`
}

type BroadcastResult struct {
	Total  int `json:"total"`
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

type ProofImage struct {
	Data        []byte
	ContentType string
}
