package service

import (
	"context"
	"errors"
	"testing"

	"stayfinder/internal/api"
	"stayfinder/internal/events"
	"stayfinder/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAuthServiceLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		client := new(mockMarketplace)
		store := new(mockSessionStore)
		bus := new(mockEventBus)
		svc := NewAuthService(client, store, bus, testLogger())

		identity := models.Identity{ID: "u1", Role: models.RoleHost}
		client.On("Login", ctx, "a@example.com", "secret").Return(&api.AuthResponse{Token: "tok-1", User: identity}, nil)
		store.On("Establish", ctx, int64(100), "tok-1", identity).Return(nil)
		store.On("Get", int64(100)).Return(&models.Session{ChatID: 100, Token: "tok-1", Identity: identity})
		bus.On("PublishJSON", events.EventSessionEstablished, mock.Anything).Return(nil)

		sess, err := svc.Login(ctx, 100, "a@example.com", "secret")
		require.NoError(t, err)
		assert.Equal(t, "tok-1", sess.Token)
		assert.Equal(t, models.RoleHost, sess.Role())

		store.AssertExpectations(t)
		bus.AssertExpectations(t)
	})

	t.Run("BadCredentials", func(t *testing.T) {
		client := new(mockMarketplace)
		store := new(mockSessionStore)
		svc := NewAuthService(client, store, nil, testLogger())

		client.On("Login", ctx, "a@example.com", "wrong").Return(nil, errors.New("http 401"))

		_, err := svc.Login(ctx, 100, "a@example.com", "wrong")
		require.Error(t, err)
		store.AssertNotCalled(t, "Establish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("PersistFailure", func(t *testing.T) {
		client := new(mockMarketplace)
		store := new(mockSessionStore)
		svc := NewAuthService(client, store, nil, testLogger())

		identity := models.Identity{ID: "u1", Role: models.RoleUser}
		client.On("Login", ctx, "a@example.com", "secret").Return(&api.AuthResponse{Token: "tok-1", User: identity}, nil)
		store.On("Establish", ctx, int64(100), "tok-1", identity).Return(errors.New("disk full"))

		_, err := svc.Login(ctx, 100, "a@example.com", "secret")
		assert.Error(t, err)
	})
}

func TestAuthServiceRegister(t *testing.T) {
	ctx := context.Background()
	client := new(mockMarketplace)
	store := new(mockSessionStore)
	bus := new(mockEventBus)
	svc := NewAuthService(client, store, bus, testLogger())

	identity := models.Identity{ID: "u2", Name: "Bob", Role: models.RoleUser}
	client.On("Register", ctx, "b@example.com", "secret", "Bob").Return(&api.AuthResponse{Token: "tok-2", User: identity}, nil)
	store.On("Establish", ctx, int64(200), "tok-2", identity).Return(nil)
	store.On("Get", int64(200)).Return(&models.Session{ChatID: 200, Token: "tok-2", Identity: identity})
	bus.On("PublishJSON", events.EventSessionEstablished, mock.Anything).Return(nil)

	sess, err := svc.Register(ctx, 200, "b@example.com", "secret", "Bob")
	require.NoError(t, err)
	assert.Equal(t, "u2", sess.Identity.ID)
}

func TestAuthServiceLogout(t *testing.T) {
	ctx := context.Background()
	store := new(mockSessionStore)
	bus := new(mockEventBus)
	svc := NewAuthService(nil, store, bus, testLogger())

	sess := userSession(models.RoleUser)
	store.On("Get", int64(100)).Return(sess)
	store.On("Clear", ctx, int64(100)).Return(nil)
	bus.On("PublishJSON", events.EventSessionCleared, mock.Anything).Return(nil)

	require.NoError(t, svc.Logout(ctx, 100))
	bus.AssertCalled(t, "PublishJSON", events.EventSessionCleared, mock.Anything)
}

func TestAuthServiceLogoutWithoutSession(t *testing.T) {
	ctx := context.Background()
	store := new(mockSessionStore)
	bus := new(mockEventBus)
	svc := NewAuthService(nil, store, bus, testLogger())

	store.On("Get", int64(100)).Return(nil)
	store.On("Clear", ctx, int64(100)).Return(nil)

	require.NoError(t, svc.Logout(ctx, 100))
	bus.AssertNotCalled(t, "PublishJSON", mock.Anything, mock.Anything)
}

func TestAuthServiceAuthorize(t *testing.T) {
	store := new(mockSessionStore)
	svc := NewAuthService(nil, store, nil, testLogger())

	store.On("Get", int64(1)).Return(nil)
	store.On("Get", int64(2)).Return(userSession(models.RoleHost))

	d := svc.Authorize(1, models.RoleUser)
	assert.False(t, d.Allowed)
	assert.Equal(t, models.RouteLogin, d.Redirect)

	d = svc.Authorize(2, models.RoleHost)
	assert.True(t, d.Allowed)
}
