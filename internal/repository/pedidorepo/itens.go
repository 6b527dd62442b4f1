package pedidorepo

import (
	"context"
	"database/sql"
	"time"

	"pranchashop/internal/domain"
	"pranchashop/internal/errors"
	"pranchashop/internal/pkg/database"
	"pranchashop/internal/pkg/logger"
	"pranchashop/internal/repository/crudrepo"
	"pranchashop/internal/service/itempedidoservice"
)

const itemSelect = `SELECT id, id_pedido, id_prancha, quantidade, preco_unit, sub_total FROM itens_pedido`

func scanItem(s crudrepo.Scanner) (domain.ItemPedido, error) {
	var i domain.ItemPedido
	err := s.Scan(&i.ID, &i.IDPedido, &i.IDPrancha, &i.Quantidade, &i.PrecoUnit, &i.SubTotal)
	return i, err
}

func queryItens(ctx context.Context, q database.Querier, timeout time.Duration, log logger.Logger, query string, args ...interface{}) ([]domain.ItemPedido, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	rows, err := q.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		log.Error("Falha ao buscar itens de pedido.", err)
		return nil, errors.NewDBError("Falha ao buscar itens de pedido", err)
	}
	defer rows.Close()

	var itens []domain.ItemPedido
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			log.Error("Falha ao mapear item de pedido.", err)
			return nil, errors.NewDBError("Falha ao mapear itens de pedido do DB", err)
		}
		itens = append(itens, item)
	}
	if err := rows.Err(); err != nil {
		log.Error("Erro após iteração das linhas de itens.", err)
		return nil, errors.NewDBError("Erro após iteração de itens", err)
	}
	return itens, nil
}

func insertItem(ctx context.Context, q database.Querier, timeout time.Duration, log logger.Logger, item domain.ItemPedido) (domain.ItemPedido, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	query := `
        INSERT INTO itens_pedido (id_pedido, id_prancha, quantidade, preco_unit, sub_total)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id`

	err := q.QueryRowContext(ctxTimeout, query,
		item.IDPedido, item.IDPrancha, item.Quantidade, item.PrecoUnit, item.SubTotal,
	).Scan(&item.ID)
	if err != nil {
		log.Error("Falha ao inserir item de pedido no DB.", err)
		return domain.ItemPedido{}, errors.NewDBError("Falha ao criar item de pedido", err)
	}
	return item, nil
}

// ItemRepository persiste as linhas do pedido e mantém o valor_total em dia.
type ItemRepository struct {
	DB        *sql.DB
	q         database.Querier
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewItemRepository cria e retorna uma nova instância do Repositório de Itens de Pedido.
func NewItemRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *ItemRepository {
	return &ItemRepository{
		DB:        db,
		q:         db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

// WithTx executa fn com um repositório preso a uma transação.
func (r *ItemRepository) WithTx(ctx context.Context, fn func(repo itempedidoservice.ItemRepository) error) error {
	if r.DB == nil {
		return fn(r)
	}
	return runInTx(ctx, r.DB, r.DBTimeout, r.logger, func(tx *sql.Tx) error {
		return fn(&ItemRepository{q: tx, DBTimeout: r.DBTimeout, logger: r.logger})
	})
}

func (r *ItemRepository) GetAll(ctx context.Context) ([]domain.ItemPedido, error) {
	r.logger.Debug("Iniciando GetAll de itens no repositório.", nil)
	return queryItens(ctx, r.q, r.DBTimeout, r.logger, itemSelect+" ORDER BY id")
}

func (r *ItemRepository) GetByPedido(ctx context.Context, idPedido int64) ([]domain.ItemPedido, error) {
	r.logger.Debug("Iniciando GetByPedido no repositório.", map[string]interface{}{"id_pedido": idPedido})
	return queryItens(ctx, r.q, r.DBTimeout, r.logger, itemSelect+" WHERE id_pedido = $1 ORDER BY id", idPedido)
}

func (r *ItemRepository) GetByID(ctx context.Context, id int64) (domain.ItemPedido, error) {
	r.logger.Debug("Iniciando GetByID de item no repositório.", map[string]interface{}{"id": id})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	item, err := scanItem(r.q.QueryRowContext(ctxTimeout, itemSelect+" WHERE id = $1", id))
	if err == sql.ErrNoRows {
		return domain.ItemPedido{}, errors.NewNotFoundError("id", "Item de Pedido não encontrado.")
	}
	if err != nil {
		r.logger.Error("Falha ao buscar item de pedido no DB.", err)
		return domain.ItemPedido{}, errors.NewDBError("Falha ao buscar item de pedido", err)
	}
	return item, nil
}

// ExistePedido informa se o pedido existe.
func (r *ItemRepository) ExistePedido(ctx context.Context, idPedido int64) (bool, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var existe bool
	err := r.q.QueryRowContext(ctxTimeout, `SELECT EXISTS (SELECT 1 FROM pedidos WHERE id = $1)`, idPedido).Scan(&existe)
	if err != nil {
		r.logger.Error("Falha ao verificar pedido no DB.", err)
		return false, errors.NewDBError("Falha ao buscar pedido", err)
	}
	return existe, nil
}

func (r *ItemRepository) Insert(ctx context.Context, item domain.ItemPedido) (domain.ItemPedido, error) {
	r.logger.Debug("Iniciando Insert de item no repositório.", map[string]interface{}{"id_pedido": item.IDPedido, "id_prancha": item.IDPrancha})

	created, err := insertItem(ctx, r.q, r.DBTimeout, r.logger, item)
	if err != nil {
		return domain.ItemPedido{}, err
	}

	r.logger.Info("Item de pedido criado com sucesso.", map[string]interface{}{"id": created.ID})
	return created, nil
}

func (r *ItemRepository) Update(ctx context.Context, item domain.ItemPedido) (domain.ItemPedido, error) {
	r.logger.Debug("Iniciando Update de item no repositório.", map[string]interface{}{"id": item.ID})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        UPDATE itens_pedido
        SET id_pedido = $1, id_prancha = $2, quantidade = $3, preco_unit = $4, sub_total = $5
        WHERE id = $6`

	result, err := r.q.ExecContext(ctxTimeout, query,
		item.IDPedido, item.IDPrancha, item.Quantidade, item.PrecoUnit, item.SubTotal, item.ID)
	if err != nil {
		r.logger.Error("Falha ao atualizar item de pedido no DB.", err)
		return domain.ItemPedido{}, errors.NewDBError("Falha ao atualizar item de pedido", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return domain.ItemPedido{}, errors.NewNotFoundError("id", "Item de Pedido não encontrado.")
	}

	r.logger.Info("Item de pedido atualizado com sucesso.", map[string]interface{}{"id": item.ID})
	return item, nil
}

func (r *ItemRepository) Delete(ctx context.Context, id int64) error {
	r.logger.Debug("Iniciando Delete de item no repositório.", map[string]interface{}{"id": id})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.q.ExecContext(ctxTimeout, `DELETE FROM itens_pedido WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Falha ao excluir item de pedido no DB.", err)
		return errors.NewDBError("Falha ao excluir item de pedido", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return errors.NewNotFoundError("id", "Item de Pedido não encontrado.")
	}
	return nil
}

// RecalcularTotal grava em valor_total a soma dos subtotais atuais do pedido.
func (r *ItemRepository) RecalcularTotal(ctx context.Context, idPedido int64) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        UPDATE pedidos
        SET valor_total = (SELECT COALESCE(SUM(sub_total), 0) FROM itens_pedido WHERE id_pedido = $1)
        WHERE id = $1`

	if _, err := r.q.ExecContext(ctxTimeout, query, idPedido); err != nil {
		r.logger.Error("Falha ao recalcular total do pedido.", err)
		return errors.NewDBError("Falha ao recalcular total do pedido", err)
	}
	return nil
}
