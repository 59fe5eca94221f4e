package repository

import (
	"github.com/Behyna/streamstore/internal/model"
	"gorm.io/gorm"
)

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Transaction{},
		&model.InventoryItem{},
		&model.PaymentProof{},
		&model.Setting{},
	)
}
