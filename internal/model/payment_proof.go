package model

import (
	"time"

	"github.com/Behyna/streamstore/pkg/money"
)

type ProofStatus string

const (
	ProofStatusPending  ProofStatus = "pending"
	ProofStatusApproved ProofStatus = "approved"
	ProofStatusRejected ProofStatus = "rejected"
)

type PaymentProof struct {
	ID          int64        `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserPhone   string       `gorm:"column:user_phone;type:varchar(32);not null;index" json:"user_phone"`
	Amount      money.Amount `gorm:"column:amount;not null;default:0" json:"amount"`
	ImageRef    string       `gorm:"column:image_ref;type:varchar(255);not null" json:"image_ref"`
	Status      ProofStatus  `gorm:"column:status;type:varchar(16);not null;default:'pending';index" json:"status"`
	SubmittedAt time.Time    `gorm:"column:submitted_at;autoCreateTime" json:"submitted_at"`
	ProcessedAt *time.Time   `gorm:"column:processed_at" json:"processed_at,omitempty"`
	Note        *string      `gorm:"column:note;type:varchar(255)" json:"note,omitempty"`

	User *User `gorm:"foreignKey:UserPhone;references:Phone" json:"user,omitempty"`
}

func (PaymentProof) TableName() string {
	return "payment_proofs"
}
