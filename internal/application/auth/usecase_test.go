package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/controlpos-api/internal/application/auth"
	"github.com/jhoicas/controlpos-api/internal/application/dto"
	"github.com/jhoicas/controlpos-api/internal/domain"
	"github.com/jhoicas/controlpos-api/internal/domain/entity"
	"github.com/jhoicas/controlpos-api/internal/infrastructure/memory"
)

const tenantID = "11111111-1111-1111-1111-111111111111"

func newAuth(t *testing.T) (*auth.AuthUseCase, *memory.Identity) {
	t.Helper()
	store := memory.NewStore()
	idp := memory.NewIdentity()
	tid := tenantID
	idp.AddUser("u-ana", "ana@user.local", "secreto")
	store.AddProfile(entity.Profile{ID: "u-ana", TenantID: &tid, Role: entity.RoleSeller, Username: "ana"})
	return auth.NewAuthUseCase(idp, store.Profiles(), "user.local"), idp
}

func TestSignIn_UsuarioSinArrobaUsaDominioVirtual(t *testing.T) {
	uc, _ := newAuth(t)

	out, err := uc.SignIn(context.Background(), dto.SignInRequest{Identifier: "Ana", Password: "secreto"})
	require.NoError(t, err)
	assert.NotEmpty(t, out.Session.AccessToken)
	assert.Equal(t, "u-ana", out.User.ID)
	require.NotNil(t, out.User.Profile)
	assert.Equal(t, entity.RoleSeller, out.User.Profile.Role)
}

func TestSignIn_CredencialesInvalidas(t *testing.T) {
	uc, _ := newAuth(t)

	_, err := uc.SignIn(context.Background(), dto.SignInRequest{Email: "ana@user.local", Password: "mala"})
	var ext *domain.ExternalError
	require.ErrorAs(t, err, &ext)
	assert.ErrorIs(t, err, domain.ErrExternal)

	_, err = uc.SignIn(context.Background(), dto.SignInRequest{Identifier: "ana"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRefresh_EmiteNuevaSesionYConsumeLaAnterior(t *testing.T) {
	uc, _ := newAuth(t)
	ctx := context.Background()

	first, err := uc.SignIn(ctx, dto.SignInRequest{Identifier: "ana", Password: "secreto"})
	require.NoError(t, err)

	second, err := uc.Refresh(ctx, dto.RefreshRequest{Snake: first.Session.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, first.Session.AccessToken, second.Session.AccessToken)
	assert.NotNil(t, second.User.Profile)

	_, err = uc.Refresh(ctx, dto.RefreshRequest{RefreshToken: first.Session.RefreshToken})
	assert.ErrorIs(t, err, domain.ErrExternal)
}

func TestSignUpYSignOut(t *testing.T) {
	uc, idp := newAuth(t)
	ctx := context.Background()

	out, err := uc.SignUp(ctx, dto.SignUpRequest{Email: "Nuevo@Correo.com", Password: "secreto"})
	require.NoError(t, err)
	assert.Equal(t, "nuevo@correo.com", out.User.Email)
	assert.Nil(t, out.User.Profile)

	_, err = uc.SignUp(ctx, dto.SignUpRequest{Email: "corto@correo.com", Password: "123"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	session, err := uc.SignIn(ctx, dto.SignInRequest{Email: "nuevo@correo.com", Password: "secreto"})
	require.NoError(t, err)
	require.NoError(t, uc.SignOut(ctx, session.Session.AccessToken))
	_, _, err = idp.Verify(ctx, session.Session.AccessToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
