package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Behyna/streamstore/internal/model"
	"github.com/Behyna/streamstore/internal/repository"
	"github.com/Behyna/streamstore/pkg/money"
)

const (
	ReasonInsufficientFunds = "insufficient_funds"
	ReasonNotAvailable      = "not_available"
)

var (
	ErrPersistence         = errors.New("PERSISTENCE_ERROR")
	ErrUserNotFound        = errors.New("USER_NOT_FOUND")
	ErrProofNotFound       = errors.New("PROOF_NOT_FOUND")
	ErrProofAlreadyDecided = errors.New("PROOF_ALREADY_DECIDED")
)

type DebitResult struct {
	Succeeded bool
	Reason    string
	Balance   money.Amount
}

type SaleResult struct {
	Succeeded bool
	Reason    string
}

type Snapshot struct {
	TotalUsers     int64
	AvailableItems int64
	SoldItems      int64
	ExpiredItems   int64
	AverageBalance money.Amount
	RecentSales    []model.InventoryItem
}

// Store is the only gateway to persisted state. Credit, Debit and
// SellInventoryItem are atomic; when ctx already carries a transaction they
// join it instead of opening a new one.
type Store interface {
	GetUser(ctx context.Context, phone string) (*model.User, error)
	CreateUserIfAbsent(ctx context.Context, phone, name string) (bool, error)
	TouchLastInteraction(ctx context.Context, phone string) error
	ListUsers(ctx context.Context) ([]model.User, error)
	ListUserPhones(ctx context.Context) ([]string, error)

	GetBalance(ctx context.Context, phone string) (money.Amount, error)
	Credit(ctx context.Context, phone string, amount money.Amount, description string) (money.Amount, error)
	Debit(ctx context.Context, phone string, amount money.Amount, description string) (DebitResult, error)
	ListTransactions(ctx context.Context, phone string) ([]model.Transaction, error)
	LedgerSum(ctx context.Context, phone string) (money.Amount, error)

	AddInventoryItem(ctx context.Context, item *model.InventoryItem) (int64, error)
	ListAvailableInventory(ctx context.Context) ([]model.InventoryItem, error)
	ListInventory(ctx context.Context) ([]model.InventoryItem, error)
	GetInventoryItem(ctx context.Context, id int64) (*model.InventoryItem, error)
	SellInventoryItem(ctx context.Context, id int64, buyer string) (SaleResult, error)
	ExpireOverdueInventory(ctx context.Context, asOf string) (int64, error)

	RecordPaymentProof(ctx context.Context, phone string, amount money.Amount, imageRef string) (int64, error)
	ListPendingProofs(ctx context.Context) ([]model.PaymentProof, error)
	GetPaymentProof(ctx context.Context, id int64) (*model.PaymentProof, error)
	DecidePaymentProof(ctx context.Context, id int64, status model.ProofStatus, note string) error

	GetConfig(ctx context.Context, key string) (string, bool, error)
	SetConfig(ctx context.Context, key, value string) error

	Snapshot(ctx context.Context, recentSales int) (Snapshot, error)
}

type store struct {
	txManager    repository.TxManager
	users        repository.UserRepository
	transactions repository.TransactionRepository
	inventory    repository.InventoryRepository
	proofs       repository.PaymentProofRepository
	settings     repository.SettingRepository
	now          func() time.Time
}

func NewStore(txManager repository.TxManager, users repository.UserRepository,
	transactions repository.TransactionRepository, inventory repository.InventoryRepository,
	proofs repository.PaymentProofRepository, settings repository.SettingRepository) Store {
	return &store{
		txManager:    txManager,
		users:        users,
		transactions: transactions,
		inventory:    inventory,
		proofs:       proofs,
		settings:     settings,
		now:          time.Now,
	}
}

func persistence(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
}

func (s *store) GetUser(ctx context.Context, phone string) (*model.User, error) {
	const op = "ledger.GetUser"

	user, err := s.users.GetByPhone(ctx, phone)
	if err == nil {
		return user, nil
	}
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, nil
	}
	return nil, persistence(op, err)
}

func (s *store) CreateUserIfAbsent(ctx context.Context, phone, name string) (bool, error) {
	const op = "ledger.CreateUserIfAbsent"

	created, err := s.users.CreateIfAbsent(ctx, &model.User{Phone: phone, Name: name, RegisteredAt: s.now()})
	if err != nil {
		return false, persistence(op, err)
	}
	return created, nil
}

func (s *store) TouchLastInteraction(ctx context.Context, phone string) error {
	const op = "ledger.TouchLastInteraction"

	if err := s.users.TouchLastInteraction(ctx, phone, s.now()); err != nil {
		return persistence(op, err)
	}
	return nil
}

func (s *store) ListUsers(ctx context.Context) ([]model.User, error) {
	const op = "ledger.ListUsers"

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, persistence(op, err)
	}
	return users, nil
}

func (s *store) ListUserPhones(ctx context.Context) ([]string, error) {
	const op = "ledger.ListUserPhones"

	phones, err := s.users.ListPhones(ctx)
	if err != nil {
		return nil, persistence(op, err)
	}
	return phones, nil
}

func (s *store) GetBalance(ctx context.Context, phone string) (money.Amount, error) {
	const op = "ledger.GetBalance"

	user, err := s.users.GetByPhone(ctx, phone)
	if err == nil {
		return user.Balance, nil
	}
	if errors.Is(err, repository.ErrUserNotFound) {
		return money.Zero, nil
	}
	return money.Zero, persistence(op, err)
}

func (s *store) Credit(ctx context.Context, phone string, amount money.Amount, description string) (money.Amount, error) {
	const op = "ledger.Credit"

	var balance money.Amount
	err := s.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := s.users.IncreaseBalance(ctx, phone, amount); err != nil {
			return err
		}

		entry := model.Transaction{
			UserPhone:   phone,
			Amount:      amount,
			Kind:        model.TransactionKindCredit,
			Description: description,
			CreatedAt:   s.now(),
		}
		if err := s.transactions.Create(ctx, &entry); err != nil {
			return err
		}

		user, err := s.users.GetByPhone(ctx, phone)
		if err != nil {
			return err
		}
		balance = user.Balance
		return nil
	})

	if err == nil {
		return balance, nil
	}
	if errors.Is(err, repository.ErrUserNotFound) {
		return money.Zero, fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	return money.Zero, persistence(op, err)
}

func (s *store) Debit(ctx context.Context, phone string, amount money.Amount, description string) (DebitResult, error) {
	const op = "ledger.Debit"

	var result DebitResult
	err := s.txManager.WithTx(ctx, func(ctx context.Context) error {
		ok, err := s.users.DecreaseBalanceIfSufficient(ctx, phone, amount)
		if err != nil {
			return err
		}

		if !ok {
			current, err := s.GetBalance(ctx, phone)
			if err != nil {
				return err
			}
			result = DebitResult{Succeeded: false, Reason: ReasonInsufficientFunds, Balance: current}
			return nil
		}

		entry := model.Transaction{
			UserPhone:   phone,
			Amount:      amount.Neg(),
			Kind:        model.TransactionKindDebit,
			Description: description,
			CreatedAt:   s.now(),
		}
		if err := s.transactions.Create(ctx, &entry); err != nil {
			return err
		}

		user, err := s.users.GetByPhone(ctx, phone)
		if err != nil {
			return err
		}
		result = DebitResult{Succeeded: true, Balance: user.Balance}
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrPersistence) {
			return DebitResult{}, err
		}
		return DebitResult{}, persistence(op, err)
	}
	return result, nil
}

func (s *store) ListTransactions(ctx context.Context, phone string) ([]model.Transaction, error) {
	const op = "ledger.ListTransactions"

	txs, err := s.transactions.ListByUser(ctx, phone)
	if err != nil {
		return nil, persistence(op, err)
	}
	return txs, nil
}

func (s *store) LedgerSum(ctx context.Context, phone string) (money.Amount, error) {
	const op = "ledger.LedgerSum"

	sum, err := s.transactions.SumByUser(ctx, phone)
	if err != nil {
		return money.Zero, persistence(op, err)
	}
	return sum, nil
}

func (s *store) AddInventoryItem(ctx context.Context, item *model.InventoryItem) (int64, error) {
	const op = "ledger.AddInventoryItem"

	item.Status = model.ItemStatusAvailable
	item.Owner = nil
	item.SoldAt = nil
	if err := s.inventory.Create(ctx, item); err != nil {
		return 0, persistence(op, err)
	}
	return item.ID, nil
}

func (s *store) ListAvailableInventory(ctx context.Context) ([]model.InventoryItem, error) {
	const op = "ledger.ListAvailableInventory"

	items, err := s.inventory.ListAvailable(ctx)
	if err != nil {
		return nil, persistence(op, err)
	}
	return items, nil
}

func (s *store) ListInventory(ctx context.Context) ([]model.InventoryItem, error) {
	const op = "ledger.ListInventory"

	items, err := s.inventory.ListAll(ctx)
	if err != nil {
		return nil, persistence(op, err)
	}
	return items, nil
}

func (s *store) GetInventoryItem(ctx context.Context, id int64) (*model.InventoryItem, error) {
	const op = "ledger.GetInventoryItem"

	item, err := s.inventory.GetByID(ctx, id)
	if err == nil {
		return item, nil
	}
	if errors.Is(err, repository.ErrItemNotFound) {
		return nil, nil
	}
	return nil, persistence(op, err)
}

func (s *store) SellInventoryItem(ctx context.Context, id int64, buyer string) (SaleResult, error) {
	const op = "ledger.SellInventoryItem"

	var result SaleResult
	err := s.txManager.WithTx(ctx, func(ctx context.Context) error {
		ok, err := s.inventory.MarkSold(ctx, id, buyer, s.now())
		if err != nil {
			return err
		}
		if !ok {
			result = SaleResult{Succeeded: false, Reason: ReasonNotAvailable}
			return nil
		}
		result = SaleResult{Succeeded: true}
		return nil
	})
	if err != nil {
		return SaleResult{}, persistence(op, err)
	}
	return result, nil
}

func (s *store) ExpireOverdueInventory(ctx context.Context, asOf string) (int64, error) {
	const op = "ledger.ExpireOverdueInventory"

	count, err := s.inventory.ExpireBefore(ctx, asOf)
	if err != nil {
		return 0, persistence(op, err)
	}
	return count, nil
}

func (s *store) RecordPaymentProof(ctx context.Context, phone string, amount money.Amount, imageRef string) (int64, error) {
	const op = "ledger.RecordPaymentProof"

	proof := model.PaymentProof{
		UserPhone:   phone,
		Amount:      amount,
		ImageRef:    imageRef,
		Status:      model.ProofStatusPending,
		SubmittedAt: s.now(),
	}
	if err := s.proofs.Create(ctx, &proof); err != nil {
		return 0, persistence(op, err)
	}
	return proof.ID, nil
}

func (s *store) ListPendingProofs(ctx context.Context) ([]model.PaymentProof, error) {
	const op = "ledger.ListPendingProofs"

	proofs, err := s.proofs.ListPending(ctx)
	if err != nil {
		return nil, persistence(op, err)
	}
	return proofs, nil
}

func (s *store) GetPaymentProof(ctx context.Context, id int64) (*model.PaymentProof, error) {
	const op = "ledger.GetPaymentProof"

	proof, err := s.proofs.GetByID(ctx, id)
	if err == nil {
		return proof, nil
	}
	if errors.Is(err, repository.ErrProofNotFound) {
		return nil, nil
	}
	return nil, persistence(op, err)
}

func (s *store) DecidePaymentProof(ctx context.Context, id int64, status model.ProofStatus, note string) error {
	const op = "ledger.DecidePaymentProof"

	ok, err := s.proofs.DecideIfPending(ctx, id, status, note, s.now())
	if err != nil {
		return persistence(op, err)
	}
	if ok {
		return nil
	}

	if _, err := s.proofs.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrProofNotFound) {
			return fmt.Errorf("%s: %w", op, ErrProofNotFound)
		}
		return persistence(op, err)
	}
	return fmt.Errorf("%s: %w", op, ErrProofAlreadyDecided)
}

func (s *store) GetConfig(ctx context.Context, key string) (string, bool, error) {
	const op = "ledger.GetConfig"

	value, err := s.settings.Get(ctx, key)
	if err == nil {
		return value, true, nil
	}
	if errors.Is(err, repository.ErrSettingNotFound) {
		return "", false, nil
	}
	return "", false, persistence(op, err)
}

func (s *store) SetConfig(ctx context.Context, key, value string) error {
	const op = "ledger.SetConfig"

	if err := s.settings.Set(ctx, key, value); err != nil {
		return persistence(op, err)
	}
	return nil
}

func (s *store) Snapshot(ctx context.Context, recentSales int) (Snapshot, error) {
	const op = "ledger.Snapshot"

	var snap Snapshot
	var err error

	if snap.TotalUsers, err = s.users.Count(ctx); err != nil {
		return Snapshot{}, persistence(op, err)
	}
	if snap.AvailableItems, err = s.inventory.CountByStatus(ctx, model.ItemStatusAvailable); err != nil {
		return Snapshot{}, persistence(op, err)
	}
	if snap.SoldItems, err = s.inventory.CountByStatus(ctx, model.ItemStatusSold); err != nil {
		return Snapshot{}, persistence(op, err)
	}
	if snap.ExpiredItems, err = s.inventory.CountByStatus(ctx, model.ItemStatusExpired); err != nil {
		return Snapshot{}, persistence(op, err)
	}
	if snap.AverageBalance, err = s.users.AverageBalance(ctx); err != nil {
		return Snapshot{}, persistence(op, err)
	}
	if snap.RecentSales, err = s.inventory.RecentSales(ctx, recentSales); err != nil {
		return Snapshot{}, persistence(op, err)
	}

	return snap, nil
}
