package crudrepo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"pranchashop/internal/errors"
	"pranchashop/internal/pkg/database"
	"pranchashop/internal/pkg/logger"
)

// Scanner é satisfeito por *sql.Row e *sql.Rows.
type Scanner interface {
	Scan(dest ...interface{}) error
}

// Table descreve como uma entidade é gravada e lida de uma tabela.
type Table[T any] struct {
	Name    string
	Columns []string // colunas graváveis, sem o id
	Filter  string   // condição fixa aplicada a toda consulta, ex.: "forma = 'PIX'"
	OrderBy string

	Values func(T) []interface{}      // valores na ordem de Columns
	Scan   func(Scanner) (T, error)   // lê id seguido de Columns
	SetID  func(*T, int64)
}

// Store implementa o CRUD genérico sobre uma Table.
type Store[T any] struct {
	DB        database.Querier
	DBTimeout time.Duration
	table     Table[T]
	logger    logger.Logger
}

// NewStore cria o repositório genérico da tabela informada.
func NewStore[T any](db database.Querier, dbTimeout time.Duration, table Table[T], logger logger.Logger) *Store[T] {
	return &Store[T]{
		DB:        db,
		DBTimeout: dbTimeout,
		table:     table,
		logger:    logger,
	}
}

func (s *Store[T]) selectSQL(cond string) string {
	query := fmt.Sprintf("SELECT id, %s FROM %s", strings.Join(s.table.Columns, ", "), s.table.Name)

	var where []string
	if s.table.Filter != "" {
		where = append(where, s.table.Filter)
	}
	if cond != "" {
		where = append(where, cond)
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	return query
}

func (s *Store[T]) orderBy() string {
	if s.table.OrderBy == "" {
		return " ORDER BY id"
	}
	return " ORDER BY " + s.table.OrderBy
}

func (s *Store[T]) insertSQL() string {
	params := make([]string, len(s.table.Columns))
	for i := range s.table.Columns {
		params[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING id",
		s.table.Name, strings.Join(s.table.Columns, ", "), strings.Join(params, ", "))
}

func (s *Store[T]) updateSQL() string {
	sets := make([]string, len(s.table.Columns))
	for i, c := range s.table.Columns {
		sets[i] = fmt.Sprintf("%s = $%d", c, i+1)
	}
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d",
		s.table.Name, strings.Join(sets, ", "), len(s.table.Columns)+1)
	if s.table.Filter != "" {
		query += " AND " + s.table.Filter
	}
	return query
}

func (s *Store[T]) deleteSQL() string {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", s.table.Name)
	if s.table.Filter != "" {
		query += " AND " + s.table.Filter
	}
	return query
}

func (s *Store[T]) hasColumn(column string) bool {
	for _, c := range s.table.Columns {
		if c == column {
			return true
		}
	}
	return false
}

func (s *Store[T]) query(ctx context.Context, op, query string, args ...interface{}) ([]T, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, s.DBTimeout)
	defer cancel()

	rows, err := s.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		s.logger.Error(fmt.Sprintf("Falha ao executar %s em %s.", op, s.table.Name), err)
		return nil, errors.NewDBError(fmt.Sprintf("Falha ao consultar %s", s.table.Name), err)
	}
	defer rows.Close()

	var items []T
	for rows.Next() {
		item, err := s.table.Scan(rows)
		if err != nil {
			s.logger.Error(fmt.Sprintf("Falha ao mapear linha de %s.", s.table.Name), err)
			return nil, errors.NewDBError(fmt.Sprintf("Falha ao mapear %s do DB", s.table.Name), err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		s.logger.Error(fmt.Sprintf("Erro após iteração das linhas de %s.", s.table.Name), err)
		return nil, errors.NewDBError(fmt.Sprintf("Erro após iteração de %s", s.table.Name), err)
	}

	return items, nil
}

// GetAll lista todos os registros.
func (s *Store[T]) GetAll(ctx context.Context) ([]T, error) {
	s.logger.Debug("Iniciando GetAll no repositório.", map[string]interface{}{"tabela": s.table.Name})

	items, err := s.query(ctx, "GetAll", s.selectSQL("")+s.orderBy())
	if err != nil {
		return nil, err
	}

	s.logger.Info("GetAll concluído com sucesso.", map[string]interface{}{"tabela": s.table.Name, "total": len(items)})
	return items, nil
}

// GetByID busca um registro pelo ID.
func (s *Store[T]) GetByID(ctx context.Context, id int64) (T, error) {
	s.logger.Debug("Iniciando GetByID no repositório.", map[string]interface{}{"tabela": s.table.Name, "id": id})

	ctxTimeout, cancel := context.WithTimeout(ctx, s.DBTimeout)
	defer cancel()

	var zero T
	item, err := s.table.Scan(s.DB.QueryRowContext(ctxTimeout, s.selectSQL("id = $1"), id))
	if err == sql.ErrNoRows {
		s.logger.Info("Registro não encontrado.", map[string]interface{}{"tabela": s.table.Name, "id": id})
		return zero, errors.NewNotFoundError("id", fmt.Sprintf("Registro %d não encontrado em %s.", id, s.table.Name))
	}
	if err != nil {
		s.logger.Error(fmt.Sprintf("Falha ao buscar registro em %s.", s.table.Name), err)
		return zero, errors.NewDBError(fmt.Sprintf("Falha ao buscar %s", s.table.Name), err)
	}

	return item, nil
}

// GetBy lista os registros cuja coluna é igual ao valor.
func (s *Store[T]) GetBy(ctx context.Context, column string, value interface{}) ([]T, error) {
	s.logger.Debug("Iniciando GetBy no repositório.", map[string]interface{}{"tabela": s.table.Name, "coluna": column})

	if !s.hasColumn(column) {
		return nil, errors.NewInternalError(fmt.Sprintf("Coluna %s desconhecida em %s", column, s.table.Name), nil)
	}
	return s.query(ctx, "GetBy", s.selectSQL(column+" = $1")+s.orderBy(), value)
}

// Search lista os registros cuja coluna contém o termo (sem diferenciar maiúsculas).
func (s *Store[T]) Search(ctx context.Context, column, term string) ([]T, error) {
	s.logger.Debug("Iniciando Search no repositório.", map[string]interface{}{"tabela": s.table.Name, "coluna": column, "termo": term})

	if !s.hasColumn(column) {
		return nil, errors.NewInternalError(fmt.Sprintf("Coluna %s desconhecida em %s", column, s.table.Name), nil)
	}
	return s.query(ctx, "Search", s.selectSQL(column+" ILIKE '%' || $1 || '%'")+s.orderBy(), term)
}

// Create insere o registro e devolve com o ID gerado.
func (s *Store[T]) Create(ctx context.Context, item T) (T, error) {
	s.logger.Debug("Iniciando Create no repositório.", map[string]interface{}{"tabela": s.table.Name})

	ctxTimeout, cancel := context.WithTimeout(ctx, s.DBTimeout)
	defer cancel()

	var id int64
	if err := s.DB.QueryRowContext(ctxTimeout, s.insertSQL(), s.table.Values(item)...).Scan(&id); err != nil {
		s.logger.Error(fmt.Sprintf("Falha ao inserir em %s.", s.table.Name), err)
		var zero T
		return zero, errors.NewDBError(fmt.Sprintf("Falha ao criar registro em %s", s.table.Name), err)
	}
	s.table.SetID(&item, id)

	s.logger.Info("Registro criado com sucesso.", map[string]interface{}{"tabela": s.table.Name, "id": id})
	return item, nil
}

// Update grava todas as colunas do registro informado.
func (s *Store[T]) Update(ctx context.Context, id int64, item T) (T, error) {
	s.logger.Debug("Iniciando Update no repositório.", map[string]interface{}{"tabela": s.table.Name, "id": id})

	ctxTimeout, cancel := context.WithTimeout(ctx, s.DBTimeout)
	defer cancel()

	var zero T
	args := append(s.table.Values(item), id)
	result, err := s.DB.ExecContext(ctxTimeout, s.updateSQL(), args...)
	if err != nil {
		s.logger.Error(fmt.Sprintf("Falha ao atualizar %s.", s.table.Name), err)
		return zero, errors.NewDBError(fmt.Sprintf("Falha ao atualizar %s", s.table.Name), err)
	}

	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return zero, errors.NewNotFoundError("id", fmt.Sprintf("Registro %d não encontrado em %s.", id, s.table.Name))
	}
	s.table.SetID(&item, id)

	s.logger.Info("Registro atualizado com sucesso.", map[string]interface{}{"tabela": s.table.Name, "id": id})
	return item, nil
}

// Delete remove o registro.
func (s *Store[T]) Delete(ctx context.Context, id int64) error {
	s.logger.Debug("Iniciando Delete no repositório.", map[string]interface{}{"tabela": s.table.Name, "id": id})

	ctxTimeout, cancel := context.WithTimeout(ctx, s.DBTimeout)
	defer cancel()

	result, err := s.DB.ExecContext(ctxTimeout, s.deleteSQL(), id)
	if err != nil {
		s.logger.Error(fmt.Sprintf("Falha ao excluir de %s.", s.table.Name), err)
		return errors.NewDBError(fmt.Sprintf("Falha ao excluir registro de %s", s.table.Name), err)
	}

	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return errors.NewNotFoundError("id", fmt.Sprintf("Registro %d não encontrado em %s.", id, s.table.Name))
	}

	s.logger.Info("Registro excluído com sucesso.", map[string]interface{}{"tabela": s.table.Name, "id": id})
	return nil
}
