package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/solarcrm/pipeline-crm/internal/entity"
	"github.com/solarcrm/pipeline-crm/internal/infra/integration/sheets"
	"github.com/solarcrm/pipeline-crm/internal/usecase"
)

func newAuth() (*usecase.Auth, *MockGateway, *mapStore, *recorder) {
	gw := new(MockGateway)
	store := newMapStore()
	rec := &recorder{}
	return usecase.NewAuth(gw, store, rec, zap.NewNop()), gw, store, rec
}

// ============ LOGIN ============

func TestLoginStoresSession(t *testing.T) {
	auth, gw, store, rec := newAuth()
	ctx := context.Background()
	gw.On("Login", mock.Anything, "ana@solar.co", "secreto").
		Return(&entity.User{ID: "u1", Email: "ana@solar.co", Name: "Ana", Role: entity.RoleAmbassador, Active: "Si"}, nil)

	sess, err := auth.Login(ctx, "ana@solar.co", "secreto")
	require.NoError(t, err)
	require.NotEmpty(t, sess.Token)
	assert.Equal(t, "Ana", sess.AmbassadorFilter())
	assert.True(t, store.has("crm_user:"+sess.Token))

	n := rec.last()
	assert.Equal(t, "Bienvenido", n.Title)
	assert.Equal(t, "Hola, Ana", n.Description)
	assert.Equal(t, sess.Token, n.Session)
	assert.Equal(t, "ana@solar.co", n.Actor)

	restored, err := auth.Restore(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, sess.User, restored.User)
}

func TestLoginRejected(t *testing.T) {
	auth, gw, store, rec := newAuth()
	gw.On("Login", mock.Anything, "ana@solar.co", "mala").
		Return(nil, &sheets.RemoteError{Action: "login"})

	_, err := auth.Login(context.Background(), "ana@solar.co", "mala")
	require.Error(t, err)
	assert.True(t, usecase.IsDomainError(err))
	assert.Equal(t, "Credenciales incorrectas", err.Error())
	assert.Empty(t, store.blobs)

	n := rec.last()
	assert.Equal(t, "Error de acceso", n.Title)
	assert.Equal(t, usecase.VariantDestructive, n.Variant)
}

func TestLoginRejectedKeepsMensaje(t *testing.T) {
	auth, gw, _, _ := newAuth()
	gw.On("Login", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, &sheets.RemoteError{Action: "login", Message: "Usuario inactivo"})

	_, err := auth.Login(context.Background(), "x@solar.co", "y")
	assert.EqualError(t, err, "Usuario inactivo")
}

func TestLoginUnreachable(t *testing.T) {
	auth, gw, _, rec := newAuth()
	gw.On("Login", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, &sheets.NetworkError{Action: "login", Err: errors.New("no route to host")})

	_, err := auth.Login(context.Background(), "x@solar.co", "y")
	var te *usecase.TechnicalError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "AUTH_UNAVAILABLE", te.Code)

	n := rec.last()
	assert.Equal(t, "Error de servidor", n.Title)
	assert.Equal(t, "No se pudo conectar con el servicio de autenticación.", n.Description)
}

// ============ RESTORE / LOGOUT ============

func TestRestoreMissingToken(t *testing.T) {
	auth, _, _, _ := newAuth()
	ctx := context.Background()

	_, err := auth.Restore(ctx, "")
	assert.ErrorIs(t, err, usecase.ErrNoSession)
	_, err = auth.Restore(ctx, "nope")
	assert.ErrorIs(t, err, usecase.ErrNoSession)
}

func TestRestoreDiscardsMalformedBlob(t *testing.T) {
	auth, _, store, _ := newAuth()
	ctx := context.Background()

	for token, blob := range map[string]string{
		"garbage": "{not json",
		"empty":   `{"rol":"ADMIN"}`,
	} {
		require.NoError(t, store.Set(ctx, "crm_user:"+token, []byte(blob)))

		_, err := auth.Restore(ctx, token)
		assert.ErrorIs(t, err, usecase.ErrNoSession, token)
		assert.False(t, store.has("crm_user:"+token), token)
	}
}

func TestLogoutClearsSession(t *testing.T) {
	auth, gw, store, rec := newAuth()
	ctx := context.Background()
	gw.On("Login", mock.Anything, mock.Anything, mock.Anything).
		Return(&entity.User{Email: "admin@solar.co", Name: "Admin", Role: entity.RoleAdmin}, nil)

	sess, err := auth.Login(ctx, "admin@solar.co", "x")
	require.NoError(t, err)

	require.NoError(t, auth.Logout(ctx, sess))
	assert.False(t, store.has("crm_user:"+sess.Token))
	assert.Equal(t, "Sesión cerrada", rec.last().Title)

	_, err = auth.Restore(ctx, sess.Token)
	assert.ErrorIs(t, err, usecase.ErrNoSession)

	assert.ErrorIs(t, auth.Logout(ctx, nil), usecase.ErrNoSession)
}

func TestAmbassadorFilter(t *testing.T) {
	var none *usecase.Session
	assert.Equal(t, "", none.AmbassadorFilter())
	assert.False(t, none.IsAdmin())

	admin := &usecase.Session{User: entity.User{Name: "Root", Role: entity.RoleAdmin}}
	assert.Equal(t, "", admin.AmbassadorFilter())
	assert.True(t, admin.IsAdmin())

	user := &usecase.Session{User: entity.User{Name: "Op", Role: entity.RoleUser}}
	assert.Equal(t, "", user.AmbassadorFilter())
}
