package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/Behyna/streamstore/internal/constants"
	"github.com/Behyna/streamstore/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_CheckIn(t *testing.T) {
	ctx := context.Background()

	t.Run("First contact registers and greets", func(t *testing.T) {
		env := newTestEnv(t)
		svc := service.NewUserService(env.store, env.cfg, env.logger)

		result, err := svc.CheckIn(ctx, service.CheckInCommand{Phone: "5511", Name: ""})

		require.NoError(t, err)
		assert.True(t, result.IsNew)
		assert.True(t, result.ShouldGreet)
		assert.Equal(t, constants.DefaultCustomerName, result.User.Name)
		assert.NotNil(t, result.User.LastInteractionAt)
	})

	t.Run("Recent interaction is not greeted again", func(t *testing.T) {
		env := newTestEnv(t)
		svc := service.NewUserService(env.store, env.cfg, env.logger)

		_, err := svc.CheckIn(ctx, service.CheckInCommand{Phone: "5511", Name: "Ana"})
		require.NoError(t, err)

		result, err := svc.CheckIn(ctx, service.CheckInCommand{Phone: "5511", Name: "Ana"})
		require.NoError(t, err)
		assert.False(t, result.IsNew)
		assert.False(t, result.ShouldGreet)
		assert.Equal(t, "Ana", result.User.Name)
	})

	t.Run("Greeted again after the inactivity window", func(t *testing.T) {
		env := newTestEnv(t)
		env.cfg.Shop.GreetAfter = time.Millisecond
		svc := service.NewUserService(env.store, env.cfg, env.logger)

		_, err := svc.CheckIn(ctx, service.CheckInCommand{Phone: "5511"})
		require.NoError(t, err)
		time.Sleep(20 * time.Millisecond)

		result, err := svc.CheckIn(ctx, service.CheckInCommand{Phone: "5511"})
		require.NoError(t, err)
		assert.False(t, result.IsNew)
		assert.True(t, result.ShouldGreet)
	})

	t.Run("Empty phone is rejected", func(t *testing.T) {
		env := newTestEnv(t)
		svc := service.NewUserService(env.store, env.cfg, env.logger)

		_, err := svc.CheckIn(ctx, service.CheckInCommand{})
		assertCode(t, err, constants.ErrCodeValidationFailed)
	})
}

func TestUser_GetAndList(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.user(t, "2", 0)
	env.user(t, "1", 0)
	svc := service.NewUserService(env.store, env.cfg, env.logger)

	user, err := svc.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "1", user.Phone)

	_, err = svc.Get(ctx, "404")
	assertCode(t, err, constants.ErrCodeUserNotFound)

	users, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
