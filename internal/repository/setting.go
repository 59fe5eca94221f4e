package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Behyna/streamstore/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrSettingNotFound = errors.New("SETTING_NOT_FOUND")

type SettingRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

type settingRepository struct {
	db *gorm.DB
}

func NewSettingRepository(db *gorm.DB) SettingRepository {
	return &settingRepository{db: db}
}

func (r *settingRepository) Get(ctx context.Context, key string) (string, error) {
	var setting model.Setting
	err := GetTx(ctx, r.db).Where("config_key = ?", key).First(&setting).Error
	if err == nil {
		return setting.Value, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrSettingNotFound
	}

	return "", err
}

func (r *settingRepository) Set(ctx context.Context, key, value string) error {
	setting := model.Setting{Key: key, Value: value, UpdatedAt: time.Now()}
	return GetTx(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "config_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"config_value", "updated_at"}),
	}).Create(&setting).Error
}
