package service

import (
	"context"
	"strings"
	"time"

	"github.com/Behyna/streamstore/internal/config"
	"github.com/Behyna/streamstore/internal/constants"
	"github.com/Behyna/streamstore/internal/ledger"
	"github.com/Behyna/streamstore/internal/model"
	"go.uber.org/zap"
)

type UserService interface {
	CheckIn(ctx context.Context, cmd CheckInCommand) (CheckInResult, error)
	Get(ctx context.Context, phone string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
}

type userService struct {
	store      ledger.Store
	greetAfter time.Duration
	now        func() time.Time
	logger     *zap.Logger
}

func NewUserService(store ledger.Store, cfg *config.Config, logger *zap.Logger) UserService {
	greetAfter := cfg.Shop.GreetAfter
	if greetAfter <= 0 {
		greetAfter = 24 * time.Hour
	}
	return &userService{store: store, greetAfter: greetAfter, now: time.Now, logger: logger}
}

// CheckIn registers the user on first contact, decides whether a greeting is
// due and records the interaction.
func (s *userService) CheckIn(ctx context.Context, cmd CheckInCommand) (CheckInResult, error) {
	if cmd.Phone == "" {
		return CheckInResult{}, validationError(ErrInvalidPhone)
	}

	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		name = constants.DefaultCustomerName
	}

	created, err := s.store.CreateUserIfAbsent(ctx, cmd.Phone, name)
	if err != nil {
		return CheckInResult{}, storeError(err)
	}

	user, err := s.store.GetUser(ctx, cmd.Phone)
	if err != nil {
		return CheckInResult{}, storeError(err)
	}
	if user == nil {
		return CheckInResult{}, NewServiceError(constants.ErrCodeUserNotFound, ErrUserNotFound)
	}

	now := s.now()
	shouldGreet := created || user.LastInteractionAt == nil || now.Sub(*user.LastInteractionAt) > s.greetAfter

	if err := s.store.TouchLastInteraction(ctx, cmd.Phone); err != nil {
		return CheckInResult{}, storeError(err)
	}
	user.LastInteractionAt = &now

	if created {
		s.logger.Info("User registered", zap.String("phone", cmd.Phone), zap.String("name", name))
	}

	return CheckInResult{User: user, IsNew: created, ShouldGreet: shouldGreet}, nil
}

func (s *userService) Get(ctx context.Context, phone string) (*model.User, error) {
	user, err := s.store.GetUser(ctx, phone)
	if err != nil {
		return nil, storeError(err)
	}
	if user == nil {
		return nil, NewServiceError(constants.ErrCodeUserNotFound, ErrUserNotFound)
	}
	return user, nil
}

func (s *userService) List(ctx context.Context) ([]model.User, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, storeError(err)
	}
	return users, nil
}
