package model

import (
	"time"

	"github.com/Behyna/streamstore/pkg/money"
)

type ItemStatus string

const (
	ItemStatusAvailable ItemStatus = "available"
	ItemStatusSold      ItemStatus = "sold"
	ItemStatusExpired   ItemStatus = "expired"
)

// DateLayout is the format of InventoryItem.ExpiresOn. Dates in this layout
// order the same lexically and chronologically.
const DateLayout = "2006-01-02"

type InventoryItem struct {
	ID        int64        `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Platform  string       `gorm:"column:platform;type:varchar(100);not null;index:idx_items_platform_slot" json:"platform"`
	Slot      int          `gorm:"column:slot;not null;index:idx_items_platform_slot" json:"slot"`
	Email     *string      `gorm:"column:email;type:varchar(255)" json:"email,omitempty"`
	Password  *string      `gorm:"column:password;type:varchar(255)" json:"password,omitempty"`
	Price     money.Amount `gorm:"column:price;not null" json:"price"`
	Status    ItemStatus   `gorm:"column:status;type:varchar(16);not null;default:'available';index" json:"status"`
	Owner     *string      `gorm:"column:owner;type:varchar(32)" json:"owner,omitempty"`
	SoldAt    *time.Time   `gorm:"column:sold_at" json:"sold_at,omitempty"`
	ExpiresOn string       `gorm:"column:expires_on;type:varchar(10);not null;index" json:"expires_on"`
	CreatedAt time.Time    `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	Buyer *User `gorm:"foreignKey:Owner;references:Phone" json:"buyer,omitempty"`
}

func (InventoryItem) TableName() string {
	return "inventory_items"
}

func (i InventoryItem) IsAvailable() bool {
	return i.Status == ItemStatusAvailable
}
