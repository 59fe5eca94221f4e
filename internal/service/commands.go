package service

import "github.com/Behyna/streamstore/pkg/money"

type BalanceCommand struct {
	Phone       string
	Amount      money.Amount
	Description string
}

type AddItemCommand struct {
	Platform  string
	Slot      int
	ExpiresOn string
	Email     string
	Password  string
	Price     money.Amount
}

type PurchaseCommand struct {
	ItemID int64
	Buyer  string
}

type SubmitProofCommand struct {
	Phone       string
	Amount      money.Amount
	Data        []byte
	ContentType string
}

type ApproveProofCommand struct {
	ID     int64
	Amount money.Amount
}

type RejectProofCommand struct {
	ID   int64
	Note string
}

type CheckInCommand struct {
	Phone string
	Name  string
}

type PaymentKey struct {
	Type   string `json:"type"`
	Key    string `json:"key"`
	Holder string `json:"holder,omitempty"`
}
