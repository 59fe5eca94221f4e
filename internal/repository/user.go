package repository

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"time"

	"github.com/Behyna/streamstore/internal/model"
	"github.com/Behyna/streamstore/pkg/money"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrUserNotFound   = errors.New("USER_NOT_FOUND")
	ErrNoRowsAffected = errors.New("NO_ROWS_AFFECTED")
)

type UserRepository interface {
	CreateIfAbsent(ctx context.Context, user *model.User) (bool, error)
	GetByPhone(ctx context.Context, phone string) (*model.User, error)
	TouchLastInteraction(ctx context.Context, phone string, at time.Time) error
	IncreaseBalance(ctx context.Context, phone string, amount money.Amount) error
	DecreaseBalanceIfSufficient(ctx context.Context, phone string, amount money.Amount) (bool, error)
	List(ctx context.Context) ([]model.User, error)
	ListPhones(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int64, error)
	AverageBalance(ctx context.Context) (money.Amount, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateIfAbsent(ctx context.Context, user *model.User) (bool, error) {
	result := GetTx(ctx, r.db).Clauses(clause.OnConflict{DoNothing: true}).Create(user)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *userRepository) GetByPhone(ctx context.Context, phone string) (*model.User, error) {
	var user model.User
	err := GetTx(ctx, r.db).Where("phone = ?", phone).First(&user).Error
	if err == nil {
		return &user, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}

	return nil, err
}

func (r *userRepository) TouchLastInteraction(ctx context.Context, phone string, at time.Time) error {
	return GetTx(ctx, r.db).Model(&model.User{}).
		Where("phone = ?", phone).
		Update("last_interaction_at", at).Error
}

func (r *userRepository) IncreaseBalance(ctx context.Context, phone string, amount money.Amount) error {
	result := GetTx(ctx, r.db).Model(&model.User{}).
		Where("phone = ?", phone).
		Update("balance", gorm.Expr("balance + ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// DecreaseBalanceIfSufficient subtracts amount only when the stored balance
// covers it. The check sits in the UPDATE predicate, so it holds under
// concurrent writers. It reports false when no row qualified.
func (r *userRepository) DecreaseBalanceIfSufficient(ctx context.Context, phone string, amount money.Amount) (bool, error) {
	result := GetTx(ctx, r.db).Model(&model.User{}).
		Where("phone = ? AND balance >= ?", phone, amount).
		Update("balance", gorm.Expr("balance - ?", amount))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := GetTx(ctx, r.db).Order("name ASC").Order("phone ASC").Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) ListPhones(ctx context.Context) ([]string, error) {
	var phones []string
	err := GetTx(ctx, r.db).Model(&model.User{}).Order("phone ASC").Pluck("phone", &phones).Error
	if err != nil {
		return nil, err
	}
	return phones, nil
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := GetTx(ctx, r.db).Model(&model.User{}).Count(&count).Error
	return count, err
}

func (r *userRepository) AverageBalance(ctx context.Context) (money.Amount, error) {
	var avg sql.NullFloat64
	err := GetTx(ctx, r.db).Model(&model.User{}).Select("AVG(balance)").Row().Scan(&avg)
	if err != nil || !avg.Valid {
		return money.Zero, err
	}
	return money.Amount(math.Round(avg.Float64)), nil
}
