package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type Sender struct {
	mock.Mock
}

func (s *Sender) SendText(ctx context.Context, phone, text string) error {
	args := s.Called(ctx, phone, text)
	return args.Error(0)
}

type Notifier struct {
	mock.Mock
}

func (n *Notifier) Notify(ctx context.Context, phone, text string) error {
	args := n.Called(ctx, phone, text)
	return args.Error(0)
}
