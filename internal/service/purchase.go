package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Behyna/streamstore/internal/config"
	"github.com/Behyna/streamstore/internal/constants"
	"github.com/Behyna/streamstore/internal/ledger"
	"github.com/Behyna/streamstore/internal/metrics"
	"github.com/Behyna/streamstore/internal/model"
	"github.com/Behyna/streamstore/internal/repository"
	"github.com/Behyna/streamstore/pkg/money"
	"go.uber.org/zap"
)

const refundDescription = "refund - item unavailable"

type PurchaseService interface {
	Purchase(ctx context.Context, cmd PurchaseCommand) (PurchaseResult, error)
}

type purchaseService struct {
	store     ledger.Store
	txManager repository.TxManager
	balance   BalanceService
	inventory InventoryService
	mode      string
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

// NewPurchaseService builds the orchestrator. Debits and refunds go through
// balance and sales through inventory; store is only read.
func NewPurchaseService(store ledger.Store, txManager repository.TxManager, balance BalanceService,
	inventory InventoryService, cfg *config.Config, logger *zap.Logger, metrics *metrics.Metrics) PurchaseService {
	mode := cfg.Purchase.Mode
	if mode != config.PurchaseModeSaga {
		mode = config.PurchaseModeAtomic
	}

	return &purchaseService{
		store:     store,
		txManager: txManager,
		balance:   balance,
		inventory: inventory,
		mode:      mode,
		logger:    logger,
		metrics:   metrics,
	}
}

func (p *purchaseService) Purchase(ctx context.Context, cmd PurchaseCommand) (PurchaseResult, error) {
	result, err := p.purchase(ctx, cmd)
	if err != nil {
		p.metrics.RecordPurchase(p.mode, "error")
		return PurchaseResult{}, err
	}

	p.metrics.RecordPurchase(p.mode, string(result.Outcome))
	return result, nil
}

func (p *purchaseService) purchase(ctx context.Context, cmd PurchaseCommand) (PurchaseResult, error) {
	item, err := p.store.GetInventoryItem(ctx, cmd.ItemID)
	if err != nil {
		return PurchaseResult{}, storeError(err)
	}
	if item == nil || !item.IsAvailable() {
		p.logger.Debug("Purchase of missing or unavailable item",
			zap.Int64("itemID", cmd.ItemID),
			zap.String("buyer", cmd.Buyer))
		return PurchaseResult{Outcome: OutcomeItemNotFound}, nil
	}

	balance, err := p.balance.GetBalance(ctx, cmd.Buyer)
	if err != nil {
		return PurchaseResult{}, err
	}
	if balance < item.Price {
		return PurchaseResult{Outcome: OutcomeInsufficientFunds, Balance: balance, Required: item.Price}, nil
	}

	if p.mode == config.PurchaseModeSaga {
		return p.purchaseSaga(ctx, cmd, item)
	}
	return p.purchaseAtomic(ctx, cmd, item)
}

// purchaseAtomic runs the debit and the sale in one transaction. A lost sale
// rolls the debit back, so no refund entry is ever written.
func (p *purchaseService) purchaseAtomic(ctx context.Context, cmd PurchaseCommand,
	item *model.InventoryItem) (PurchaseResult, error) {
	var debit DebitOutcome

	err := p.txManager.WithTx(ctx, func(ctx context.Context) error {
		var err error
		debit, err = p.balance.RemoveBalance(ctx, debitCommand(cmd, item))
		if err != nil {
			return err
		}
		if !debit.Succeeded {
			return nil
		}

		sale, err := p.inventory.Sell(ctx, item.ID, cmd.Buyer)
		if err != nil {
			return err
		}
		if !sale.Succeeded {
			return errSaleNotCompleted
		}
		return nil
	})

	switch {
	case err == nil && !debit.Succeeded:
		return PurchaseResult{Outcome: OutcomeInsufficientFunds, Balance: debit.Balance, Required: item.Price}, nil

	case errors.Is(err, errSaleNotCompleted):
		p.logger.Info("Item sold to another buyer, debit rolled back",
			zap.Int64("itemID", item.ID),
			zap.String("buyer", cmd.Buyer))

		balance, err := p.balance.GetBalance(ctx, cmd.Buyer)
		if err != nil {
			return PurchaseResult{}, err
		}
		return PurchaseResult{Outcome: OutcomeItemUnavailable, Balance: balance}, nil

	case err != nil:
		p.logger.Error("Purchase transaction failed",
			zap.Int64("itemID", item.ID),
			zap.String("buyer", cmd.Buyer),
			zap.Error(err))
		return PurchaseResult{}, storeError(err)
	}

	return p.completed(ctx, cmd, item.ID, debit.Balance)
}

// purchaseSaga debits and sells in separate transactions and refunds the
// buyer when the sale does not go through.
func (p *purchaseService) purchaseSaga(ctx context.Context, cmd PurchaseCommand,
	item *model.InventoryItem) (PurchaseResult, error) {
	debit, err := p.balance.RemoveBalance(ctx, debitCommand(cmd, item))
	if err != nil {
		return PurchaseResult{}, err
	}
	if !debit.Succeeded {
		return PurchaseResult{Outcome: OutcomeInsufficientFunds, Balance: debit.Balance, Required: item.Price}, nil
	}

	sale, saleErr := p.inventory.Sell(ctx, item.ID, cmd.Buyer)
	if saleErr == nil && sale.Succeeded {
		return p.completed(ctx, cmd, item.ID, debit.Balance)
	}

	if saleErr == nil {
		saleErr = fmt.Errorf("item %d: %s", item.ID, sale.Reason)
	}

	p.logger.Error("Critical: Debit succeeded but sale failed, initiating refund",
		zap.Int64("itemID", item.ID),
		zap.String("buyer", cmd.Buyer),
		zap.Error(saleErr))

	refund, refundErr := p.balance.AddBalance(ctx, BalanceCommand{
		Phone:       cmd.Buyer,
		Amount:      item.Price,
		Description: refundDescription,
	})
	if refundErr != nil {
		p.metrics.RecordCompensationFailure()
		p.logger.DPanic("CRITICAL: User charged without service - manual intervention required",
			zap.Int64("itemID", item.ID),
			zap.String("buyer", cmd.Buyer),
			zap.String("amount", item.Price.String()),
			zap.NamedError("saleError", saleErr),
			zap.NamedError("refundError", refundErr))

		return PurchaseResult{}, NewServiceError(constants.ErrCodeCompensationFailed, &CompensationError{
			UserPhone: cmd.Buyer,
			Amount:    item.Price,
			SaleErr:   saleErr,
			RefundErr: refundErr,
		})
	}

	p.logger.Warn("Buyer refunded after failed sale",
		zap.Int64("itemID", item.ID),
		zap.String("buyer", cmd.Buyer),
		zap.String("balance", refund.Balance.String()))

	if sale.Reason != ledger.ReasonNotAvailable {
		return PurchaseResult{}, storeError(saleErr)
	}
	return PurchaseResult{Outcome: OutcomeItemUnavailable, Balance: refund.Balance}, nil
}

func (p *purchaseService) completed(ctx context.Context, cmd PurchaseCommand, itemID int64,
	balance money.Amount) (PurchaseResult, error) {
	item, err := p.store.GetInventoryItem(ctx, itemID)
	if err != nil {
		return PurchaseResult{}, storeError(err)
	}

	p.logger.Info("Purchase completed",
		zap.Int64("itemID", itemID),
		zap.String("buyer", cmd.Buyer),
		zap.String("mode", p.mode),
		zap.String("balance", balance.String()))

	return PurchaseResult{Outcome: OutcomeCompleted, Item: item, Balance: balance}, nil
}

func debitCommand(cmd PurchaseCommand, item *model.InventoryItem) BalanceCommand {
	return BalanceCommand{
		Phone:       cmd.Buyer,
		Amount:      item.Price,
		Description: "purchase of " + item.Platform,
	}
}
