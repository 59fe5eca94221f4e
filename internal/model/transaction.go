package model

import (
	"time"

	"github.com/Behyna/streamstore/pkg/money"
)

type TransactionKind string

const (
	TransactionKindCredit TransactionKind = "credit"
	TransactionKindDebit  TransactionKind = "debit"
)

// Transaction is an append-only ledger entry. Amount is signed: credits are
// positive and debits negative, so a user's entries sum to their balance.
type Transaction struct {
	ID          int64           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserPhone   string          `gorm:"column:user_phone;type:varchar(32);not null;index" json:"user_phone"`
	Amount      money.Amount    `gorm:"column:amount;not null" json:"amount"`
	Kind        TransactionKind `gorm:"column:kind;type:varchar(10);not null" json:"kind"`
	Description string          `gorm:"column:description;type:varchar(255)" json:"description"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	User *User `gorm:"foreignKey:UserPhone;references:Phone" json:"-"`
}

func (Transaction) TableName() string {
	return "transactions"
}
