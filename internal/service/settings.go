package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/Behyna/streamstore/internal/config"
	"github.com/Behyna/streamstore/internal/constants"
	"github.com/Behyna/streamstore/internal/ledger"
	"go.uber.org/zap"
)

const DefaultGreetingTemplate = "Hello [NAME]! Welcome to the store.\n" +
	"Your balance is " + constants.CurrencySymbol + " [BALANCE].\n" +
	"Type *menu* to see what we offer."

type SettingsService interface {
	PaymentKey(ctx context.Context) (PaymentKey, error)
	SetPaymentKey(ctx context.Context, key PaymentKey) error
	GreetingTemplate(ctx context.Context) (string, error)
	SetGreetingTemplate(ctx context.Context, text string) error
}

type settingsService struct {
	store           ledger.Store
	fallbackKey     PaymentKey
	fallbackGreeter string
	logger          *zap.Logger
}

func NewSettingsService(store ledger.Store, cfg *config.Config, logger *zap.Logger) SettingsService {
	greeting := cfg.Shop.Greeting
	if strings.TrimSpace(greeting) == "" {
		greeting = DefaultGreetingTemplate
	}

	return &settingsService{
		store: store,
		fallbackKey: PaymentKey{
			Type:   cfg.Shop.PaymentType,
			Key:    cfg.Shop.PaymentKey,
			Holder: cfg.Shop.PaymentHolder,
		},
		fallbackGreeter: greeting,
		logger:          logger,
	}
}

// PaymentKey returns the stored payment key, or the configured one when none
// was stored or the stored value is unreadable.
func (s *settingsService) PaymentKey(ctx context.Context) (PaymentKey, error) {
	value, found, err := s.store.GetConfig(ctx, constants.SettingPaymentKey)
	if err != nil {
		return PaymentKey{}, storeError(err)
	}
	if !found {
		return s.fallbackKey, nil
	}

	var key PaymentKey
	if err := json.Unmarshal([]byte(value), &key); err != nil || key.Key == "" {
		s.logger.Warn("Stored payment key is invalid, using configured key", zap.Error(err))
		return s.fallbackKey, nil
	}
	return key, nil
}

func (s *settingsService) SetPaymentKey(ctx context.Context, key PaymentKey) error {
	key.Type = strings.TrimSpace(key.Type)
	key.Key = strings.TrimSpace(key.Key)
	key.Holder = strings.TrimSpace(key.Holder)
	if key.Type == "" || key.Key == "" {
		return validationError(ErrInvalidPaymentKey)
	}

	value, err := json.Marshal(key)
	if err != nil {
		return NewServiceError(constants.ErrCodeInternalError, err)
	}

	if err := s.store.SetConfig(ctx, constants.SettingPaymentKey, string(value)); err != nil {
		return storeError(err)
	}

	s.logger.Info("Payment key updated", zap.String("type", key.Type))
	return nil
}

func (s *settingsService) GreetingTemplate(ctx context.Context) (string, error) {
	value, found, err := s.store.GetConfig(ctx, constants.SettingGreetingTemplate)
	if err != nil {
		return "", storeError(err)
	}
	if !found || strings.TrimSpace(value) == "" {
		return s.fallbackGreeter, nil
	}
	return value, nil
}

func (s *settingsService) SetGreetingTemplate(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return validationError(ErrEmptyText)
	}

	if err := s.store.SetConfig(ctx, constants.SettingGreetingTemplate, text); err != nil {
		return storeError(err)
	}

	s.logger.Info("Greeting template updated")
	return nil
}

// RenderGreeting fills the [NAME] and [BALANCE] placeholders of a template.
func RenderGreeting(template, name, balance string) string {
	return strings.NewReplacer("[NAME]", name, "[BALANCE]", balance).Replace(template)
}
