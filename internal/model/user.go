package model

import (
	"time"

	"github.com/Behyna/streamstore/pkg/money"
)

type User struct {
	Phone             string       `gorm:"column:phone;primaryKey;type:varchar(32)" json:"phone"`
	Name              string       `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Balance           money.Amount `gorm:"column:balance;not null;default:0;check:chk_users_balance,balance >= 0" json:"balance"`
	RegisteredAt      time.Time    `gorm:"column:registered_at;autoCreateTime" json:"registered_at"`
	LastInteractionAt *time.Time   `gorm:"column:last_interaction_at" json:"last_interaction_at,omitempty"`
}

func (User) TableName() string {
	return "users"
}
