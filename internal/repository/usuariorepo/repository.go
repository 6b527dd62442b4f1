package usuariorepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"pranchashop/internal/domain"
	apperror "pranchashop/internal/errors"
	"pranchashop/internal/pkg/logger"
)

// Código do PostgreSQL para violação de UNIQUE.
const uniqueViolation = "23505"

// UsuarioRepository implementa authservice.UsuarioRepository.
type UsuarioRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewUsuarioRepository cria uma nova instância do UsuarioRepository, injetando o DB.
func NewUsuarioRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *UsuarioRepository {
	return &UsuarioRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

// Save insere um novo usuário. Login repetido vira ConflictError.
func (r *UsuarioRepository) Save(ctx context.Context, u domain.Usuario) (domain.Usuario, error) {
	r.logger.Debug("Iniciando Save de usuário no repositório.", map[string]interface{}{"login": u.Login})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	err := r.DB.QueryRowContext(ctxTimeout,
		`INSERT INTO usuarios (login, senha, perfil) VALUES ($1, $2, $3) RETURNING id`,
		u.Login, u.SenhaHash, int(u.Perfil),
	).Scan(&u.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			r.logger.Warn("Login já cadastrado.", map[string]interface{}{"login": u.Login})
			return domain.Usuario{}, apperror.NewConflictError(fmt.Sprintf("O login '%s' já está em uso.", u.Login))
		}
		r.logger.Error("Falha ao inserir usuário no DB.", err)
		return domain.Usuario{}, apperror.NewDBError("Falha ao inserir usuário", err)
	}

	r.logger.Info("Usuário salvo com sucesso no repositório.", map[string]interface{}{"id": u.ID, "login": u.Login})
	return u, nil
}

// FindByLogin busca um usuário pelo login.
func (r *UsuarioRepository) FindByLogin(ctx context.Context, login string) (domain.Usuario, error) {
	r.logger.Debug("Iniciando FindByLogin no repositório.", map[string]interface{}{"login": login})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var (
		u      domain.Usuario
		perfil int
	)
	err := r.DB.QueryRowContext(ctxTimeout,
		`SELECT id, login, senha, perfil FROM usuarios WHERE login = $1`, login,
	).Scan(&u.ID, &u.Login, &u.SenhaHash, &perfil)
	if errors.Is(err, sql.ErrNoRows) {
		r.logger.Info("Usuário não encontrado no DB por login.", map[string]interface{}{"login": login})
		return domain.Usuario{}, apperror.NewNotFoundError("login", fmt.Sprintf("Usuário '%s' não encontrado", login))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar usuário por login no DB.", err)
		return domain.Usuario{}, apperror.NewDBError("Falha ao buscar usuário por login", err)
	}
	u.Perfil = domain.Perfil(perfil)

	return u, nil
}
