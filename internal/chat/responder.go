package chat

import "context"

// Responder answers free text that matched no command.
type Responder interface {
	Respond(ctx context.Context, phone, text string) (string, error)
}

// FallbackResponder stands in for a language model and always points the
// user to the menu.
type FallbackResponder struct{}

func NewFallbackResponder() *FallbackResponder {
	return &FallbackResponder{}
}

func (FallbackResponder) Respond(_ context.Context, _, _ string) (string, error) {
	return msgFallback, nil
}
