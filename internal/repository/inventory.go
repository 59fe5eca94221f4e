package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Behyna/streamstore/internal/model"
	"gorm.io/gorm"
)

var ErrItemNotFound = errors.New("ITEM_NOT_FOUND")

type InventoryRepository interface {
	Create(ctx context.Context, item *model.InventoryItem) error
	GetByID(ctx context.Context, id int64) (*model.InventoryItem, error)
	ListAvailable(ctx context.Context) ([]model.InventoryItem, error)
	ListAll(ctx context.Context) ([]model.InventoryItem, error)
	MarkSold(ctx context.Context, id int64, owner string, at time.Time) (bool, error)
	ExpireBefore(ctx context.Context, date string) (int64, error)
	CountByStatus(ctx context.Context, status model.ItemStatus) (int64, error)
	RecentSales(ctx context.Context, limit int) ([]model.InventoryItem, error)
}

type inventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) Create(ctx context.Context, item *model.InventoryItem) error {
	return GetTx(ctx, r.db).Create(item).Error
}

func (r *inventoryRepository) GetByID(ctx context.Context, id int64) (*model.InventoryItem, error) {
	var item model.InventoryItem
	err := GetTx(ctx, r.db).Where("id = ?", id).First(&item).Error
	if err == nil {
		return &item, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrItemNotFound
	}

	return nil, err
}

func (r *inventoryRepository) ListAvailable(ctx context.Context) ([]model.InventoryItem, error) {
	var items []model.InventoryItem
	err := GetTx(ctx, r.db).Where("status = ?", model.ItemStatusAvailable).
		Order("platform ASC").
		Order("slot ASC").
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *inventoryRepository) ListAll(ctx context.Context) ([]model.InventoryItem, error) {
	var items []model.InventoryItem
	err := GetTx(ctx, r.db).
		Order("status ASC").
		Order("platform ASC").
		Order("expires_on ASC").
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// MarkSold flips an available item to sold. It reports false when the item
// is missing or no longer available.
func (r *inventoryRepository) MarkSold(ctx context.Context, id int64, owner string, at time.Time) (bool, error) {
	result := GetTx(ctx, r.db).Model(&model.InventoryItem{}).
		Where("id = ? AND status = ?", id, model.ItemStatusAvailable).
		Updates(map[string]interface{}{
			"status":  model.ItemStatusSold,
			"owner":   owner,
			"sold_at": at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *inventoryRepository) ExpireBefore(ctx context.Context, date string) (int64, error) {
	result := GetTx(ctx, r.db).Model(&model.InventoryItem{}).
		Where("status = ? AND expires_on < ?", model.ItemStatusAvailable, date).
		Update("status", model.ItemStatusExpired)
	return result.RowsAffected, result.Error
}

func (r *inventoryRepository) CountByStatus(ctx context.Context, status model.ItemStatus) (int64, error) {
	var count int64
	err := GetTx(ctx, r.db).Model(&model.InventoryItem{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

func (r *inventoryRepository) RecentSales(ctx context.Context, limit int) ([]model.InventoryItem, error) {
	var items []model.InventoryItem
	err := GetTx(ctx, r.db).Preload("Buyer").
		Where("status = ?", model.ItemStatusSold).
		Order("sold_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
