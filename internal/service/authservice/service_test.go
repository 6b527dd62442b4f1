package authservice_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pranchashop/internal/domain"
	apperror "pranchashop/internal/errors"
	"pranchashop/internal/pkg/logger"
	"pranchashop/internal/service/authservice"
)

type MockUsuarioRepository struct {
	mock.Mock
}

func (m *MockUsuarioRepository) Save(ctx context.Context, u domain.Usuario) (domain.Usuario, error) {
	args := m.Called(ctx, u)
	return args.Get(0).(domain.Usuario), args.Error(1)
}

func (m *MockUsuarioRepository) FindByLogin(ctx context.Context, login string) (domain.Usuario, error) {
	args := m.Called(ctx, login)
	return args.Get(0).(domain.Usuario), args.Error(1)
}

type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) GenerateToken(login, perfil string) (string, error) {
	args := m.Called(login, perfil)
	return args.String(0), args.Error(1)
}

func newService(repo *MockUsuarioRepository, tokens *MockTokenService) *authservice.Service {
	return authservice.NewService(repo, tokens, logger.NewLogger("error"))
}

func TestLogin(t *testing.T) {
	hash, err := authservice.HashSenha("segredo123")
	require.NoError(t, err)
	joao := domain.Usuario{ID: 1, Login: "joao", SenhaHash: hash, Perfil: domain.PerfilUSER}

	t.Run("credenciais corretas", func(t *testing.T) {
		repo, tokens := new(MockUsuarioRepository), new(MockTokenService)
		repo.On("FindByLogin", mock.Anything, "joao").Return(joao, nil)
		tokens.On("GenerateToken", "joao", "USER").Return("jwt", nil)

		token, err := newService(repo, tokens).Login(context.Background(), "joao", "segredo123")

		require.NoError(t, err)
		assert.Equal(t, "jwt", token)
	})

	t.Run("senha errada", func(t *testing.T) {
		repo, tokens := new(MockUsuarioRepository), new(MockTokenService)
		repo.On("FindByLogin", mock.Anything, "joao").Return(joao, nil)

		_, err := newService(repo, tokens).Login(context.Background(), "joao", "outra")

		assert.IsType(t, &apperror.UnauthorizedError{}, err)
		tokens.AssertNotCalled(t, "GenerateToken", mock.Anything, mock.Anything)
	})

	t.Run("usuário inexistente", func(t *testing.T) {
		repo, tokens := new(MockUsuarioRepository), new(MockTokenService)
		repo.On("FindByLogin", mock.Anything, "maria").Return(domain.Usuario{}, apperror.NewNotFoundError("login", "x"))

		_, err := newService(repo, tokens).Login(context.Background(), "maria", "segredo123")

		assert.IsType(t, &apperror.UnauthorizedError{}, err)
	})

	t.Run("falha no banco propaga", func(t *testing.T) {
		repo, tokens := new(MockUsuarioRepository), new(MockTokenService)
		repo.On("FindByLogin", mock.Anything, "joao").Return(domain.Usuario{}, apperror.NewDBError("falha", errors.New("conn refused")))

		_, err := newService(repo, tokens).Login(context.Background(), "joao", "segredo123")

		assert.IsType(t, &apperror.InternalError{}, err)
	})
}

func TestCreateUsuario(t *testing.T) {
	t.Run("grava hash e perfil", func(t *testing.T) {
		repo := new(MockUsuarioRepository)
		repo.On("Save", mock.Anything, mock.MatchedBy(func(u domain.Usuario) bool {
			return u.Login == "admin" && u.Perfil == domain.PerfilADM && u.SenhaHash != "" && u.SenhaHash != "segredo123"
		})).Return(domain.Usuario{ID: 1, Login: "admin", Perfil: domain.PerfilADM}, nil)

		u, err := newService(repo, new(MockTokenService)).CreateUsuario(context.Background(), domain.UsuarioRequest{Login: "admin", Senha: "segredo123", IDPerfil: 1})

		require.NoError(t, err)
		assert.Equal(t, int64(1), u.ID)
		repo.AssertExpectations(t)
	})

	t.Run("login duplicado", func(t *testing.T) {
		repo := new(MockUsuarioRepository)
		repo.On("Save", mock.Anything, mock.Anything).Return(domain.Usuario{}, apperror.NewConflictError("O login 'admin' já está em uso."))

		_, err := newService(repo, new(MockTokenService)).CreateUsuario(context.Background(), domain.UsuarioRequest{Login: "admin", Senha: "segredo123", IDPerfil: 2})

		status, _, _ := apperror.MapToHTTPStatus(err)
		assert.Equal(t, 409, status)
	})

	t.Run("validações", func(t *testing.T) {
		tests := []struct {
			req   domain.UsuarioRequest
			campo string
		}{
			{domain.UsuarioRequest{Senha: "segredo123", IDPerfil: 1}, "login"},
			{domain.UsuarioRequest{Login: "a", Senha: "123", IDPerfil: 1}, "senha"},
			{domain.UsuarioRequest{Login: "a", Senha: "segredo123", IDPerfil: 3}, "idPerfil"},
		}
		for _, tt := range tests {
			repo := new(MockUsuarioRepository)
			_, err := newService(repo, new(MockTokenService)).CreateUsuario(context.Background(), tt.req)
			assert.Equal(t, tt.campo, apperror.FieldOf(err))
			repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		}
	})
}
