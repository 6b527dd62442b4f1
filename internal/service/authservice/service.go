package authservice

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"pranchashop/internal/domain"
	apperror "pranchashop/internal/errors"
	"pranchashop/internal/pkg/logger"
)

// UsuarioRepository é a persistência de usuários (usuariorepo).
type UsuarioRepository interface {
	Save(ctx context.Context, u domain.Usuario) (domain.Usuario, error)
	FindByLogin(ctx context.Context, login string) (domain.Usuario, error)
}

// TokenService é o contrato da camada de token (internal/pkg/token).
type TokenService interface {
	GenerateToken(login string, perfil string) (string, error)
}

type Service struct {
	repo     UsuarioRepository
	tokenSvc TokenService
	logger   logger.Logger
}

func NewService(repo UsuarioRepository, tokenSvc TokenService, logger logger.Logger) *Service {
	return &Service{repo: repo, tokenSvc: tokenSvc, logger: logger}
}

// HashSenha gera o hash bcrypt gravado em usuarios.senha.
func HashSenha(senha string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(senha), bcrypt.DefaultCost)
	if err != nil {
		return "", apperror.NewInternalError("Falha ao gerar hash da senha.", err)
	}
	return string(hash), nil
}

// CreateUsuario valida o payload, gera o hash da senha e grava o usuário.
func (s *Service) CreateUsuario(ctx context.Context, req domain.UsuarioRequest) (domain.Usuario, error) {
	login := strings.TrimSpace(req.Login)
	if login == "" {
		return domain.Usuario{}, apperror.NewValidationError("login", "O login é obrigatório.")
	}
	if len(req.Senha) < 6 {
		return domain.Usuario{}, apperror.NewValidationError("senha", "A senha deve ter ao menos 6 caracteres.")
	}
	perfil := domain.Perfil(req.IDPerfil)
	if perfil.String() == "" {
		return domain.Usuario{}, apperror.NewValidationError("idPerfil", "Perfil inválido. Use 1 (Administrador) ou 2 (Usuário).")
	}

	hash, err := HashSenha(req.Senha)
	if err != nil {
		s.logger.Error("Falha ao gerar hash da senha.", err)
		return domain.Usuario{}, err
	}

	u, err := s.repo.Save(ctx, domain.Usuario{Login: login, SenhaHash: hash, Perfil: perfil})
	if err != nil {
		return domain.Usuario{}, err
	}

	s.logger.Info("Usuário cadastrado.", map[string]interface{}{"id": u.ID, "login": u.Login, "perfil": u.Perfil.String()})
	return u, nil
}

// Login confere login e senha e emite o JWT. Credenciais erradas viram UnauthorizedError.
func (s *Service) Login(ctx context.Context, login, senha string) (string, error) {
	if login == "" || senha == "" {
		return "", apperror.NewUnauthorizedError("Login e senha são obrigatórios.")
	}

	u, err := s.repo.FindByLogin(ctx, login)
	if err != nil {
		if apperror.IsNotFound(err) {
			s.logger.Warn("Tentativa de login com usuário inexistente.", map[string]interface{}{"login": login})
			return "", apperror.NewUnauthorizedError("Credenciais inválidas.")
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.SenhaHash), []byte(senha)); err != nil {
		s.logger.Warn("Senha incorreta.", map[string]interface{}{"login": login})
		return "", apperror.NewUnauthorizedError("Credenciais inválidas.")
	}

	token, err := s.tokenSvc.GenerateToken(u.Login, u.Perfil.String())
	if err != nil {
		s.logger.Error("Falha ao gerar token de autenticação.", err)
		return "", apperror.NewInternalError("Falha ao gerar token de autenticação.", err)
	}

	s.logger.Info("Login realizado.", map[string]interface{}{"login": login})
	return token, nil
}
