package service_test

import (
	"context"
	"testing"

	"github.com/Behyna/streamstore/internal/constants"
	"github.com/Behyna/streamstore/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettings_PaymentKey(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := service.NewSettingsService(env.store, env.cfg, env.logger)

	key, err := svc.PaymentKey(ctx)
	require.NoError(t, err)
	assert.Equal(t, service.PaymentKey{Type: "email", Key: "store@pix.example.com", Holder: "Stream Store"}, key)

	require.NoError(t, svc.SetPaymentKey(ctx, service.PaymentKey{Type: "phone", Key: " 5511999 "}))

	key, err = svc.PaymentKey(ctx)
	require.NoError(t, err)
	assert.Equal(t, service.PaymentKey{Type: "phone", Key: "5511999"}, key)

	assertCode(t, svc.SetPaymentKey(ctx, service.PaymentKey{Type: "phone"}), constants.ErrCodeValidationFailed)

	require.NoError(t, env.store.SetConfig(ctx, constants.SettingPaymentKey, "not json"))
	key, err = svc.PaymentKey(ctx)
	require.NoError(t, err)
	assert.Equal(t, "store@pix.example.com", key.Key)
}

func TestSettings_Greeting(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := service.NewSettingsService(env.store, env.cfg, env.logger)

	template, err := svc.GreetingTemplate(ctx)
	require.NoError(t, err)
	assert.Equal(t, service.DefaultGreetingTemplate, template)

	assertCode(t, svc.SetGreetingTemplate(ctx, "   "), constants.ErrCodeValidationFailed)
	require.NoError(t, svc.SetGreetingTemplate(ctx, "Hi [NAME], you have R$ [BALANCE]"))

	template, err = svc.GreetingTemplate(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Hi Ana, you have R$ 10.00", service.RenderGreeting(template, "Ana", "10.00"))
}
