package pedidorepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"pranchashop/internal/domain"
	"pranchashop/internal/errors"
	"pranchashop/internal/pkg/database"
	"pranchashop/internal/pkg/logger"
	"pranchashop/internal/repository/crudrepo"
	"pranchashop/internal/service/pedidoservice"
)

// PedidoRepository persiste o agregado Pedido (pedido, pagamento e itens).
type PedidoRepository struct {
	DB        *sql.DB
	q         database.Querier // *sql.DB fora de transação, *sql.Tx dentro
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewPedidoRepository cria e retorna uma nova instância do Repositório de Pedidos.
func NewPedidoRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *PedidoRepository {
	return &PedidoRepository{
		DB:        db,
		q:         db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

// WithTx executa fn com um repositório preso a uma transação. Erro em fn desfaz tudo.
func (r *PedidoRepository) WithTx(ctx context.Context, fn func(repo pedidoservice.PedidoRepository) error) error {
	if r.DB == nil {
		// já dentro de uma transação
		return fn(r)
	}
	return runInTx(ctx, r.DB, r.DBTimeout, r.logger, func(tx *sql.Tx) error {
		return fn(&PedidoRepository{q: tx, DBTimeout: r.DBTimeout, logger: r.logger})
	})
}

func (r *PedidoRepository) pagamentos() *crudrepo.Store[domain.Pagamento] {
	return crudrepo.NewStore(r.q, r.DBTimeout, crudrepo.PagamentoTable(""), r.logger)
}

const pedidoSelect = `
        SELECT p.id, p.data_pedido, p.valor_total, p.cidade, p.estado, p.cep,
               c.id, c.nome, c.cpf, c.ddd, c.numero,
               pg.id, pg.forma, pg.status, pg.data_pagamento, pg.chave, pg.codigo_barras,
               pg.numero_cartao, pg.nome_titular, pg.data_vencimento
        FROM pedidos p
        JOIN clientes c ON c.id = p.id_cliente
        JOIN pagamentos pg ON pg.id = p.id_pagamento`

func scanPedido(s crudrepo.Scanner) (domain.Pedido, error) {
	var p domain.Pedido
	var pg crudrepo.PagamentoRow

	dest := []interface{}{
		&p.ID, &p.DataPedido, &p.ValorTotal, &p.Endereco.Cidade, &p.Endereco.Estado, &p.Endereco.Cep,
		&p.Cliente.ID, &p.Cliente.Nome, &p.Cliente.Cpf, &p.Cliente.Telefone.Ddd, &p.Cliente.Telefone.Numero,
	}
	if err := s.Scan(append(dest, pg.Dest()...)...); err != nil {
		return domain.Pedido{}, err
	}

	pagamento, err := pg.Pagamento()
	if err != nil {
		return domain.Pedido{}, err
	}
	p.Pagamento = pagamento
	return p, nil
}

func (r *PedidoRepository) queryPedidos(ctx context.Context, op, query string, args ...interface{}) ([]domain.Pedido, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.q.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		r.logger.Error(fmt.Sprintf("Falha ao executar %s query.", op), err)
		return nil, errors.NewDBError("Falha ao buscar pedidos", err)
	}
	defer rows.Close()

	var pedidos []domain.Pedido
	for rows.Next() {
		p, err := scanPedido(rows)
		if err != nil {
			r.logger.Error(fmt.Sprintf("Falha ao mapear pedido na iteração de %s.", op), err)
			return nil, errors.NewDBError("Falha ao mapear pedidos do DB", err)
		}
		pedidos = append(pedidos, p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("Erro após iteração das linhas de pedidos.", err)
		return nil, errors.NewDBError("Erro após iteração de pedidos", err)
	}

	if err := r.loadItens(ctx, pedidos); err != nil {
		return nil, err
	}
	return pedidos, nil
}

// loadItens preenche os itens de todos os pedidos com uma única consulta.
func (r *PedidoRepository) loadItens(ctx context.Context, pedidos []domain.Pedido) error {
	if len(pedidos) == 0 {
		return nil
	}

	ids := make([]int64, len(pedidos))
	pos := make(map[int64]int, len(pedidos))
	for i, p := range pedidos {
		ids[i] = p.ID
		pos[p.ID] = i
	}

	itens, err := queryItens(ctx, r.q, r.DBTimeout, r.logger,
		itemSelect+" WHERE id_pedido = ANY($1) ORDER BY id", pq.Array(ids))
	if err != nil {
		return err
	}

	for _, item := range itens {
		i := pos[item.IDPedido]
		pedidos[i].Itens = append(pedidos[i].Itens, item)
	}
	return nil
}

// GetAll busca todos os pedidos com seus itens.
func (r *PedidoRepository) GetAll(ctx context.Context) ([]domain.Pedido, error) {
	r.logger.Debug("Iniciando GetAll de pedidos no repositório.", nil)

	pedidos, err := r.queryPedidos(ctx, "GetAll", pedidoSelect+" ORDER BY p.id")
	if err != nil {
		return nil, err
	}

	r.logger.Info("GetAll de pedidos concluído com sucesso.", map[string]interface{}{"total_pedidos": len(pedidos)})
	return pedidos, nil
}

// GetByCliente busca os pedidos de um cliente.
func (r *PedidoRepository) GetByCliente(ctx context.Context, idCliente int64) ([]domain.Pedido, error) {
	r.logger.Debug("Iniciando GetByCliente no repositório.", map[string]interface{}{"id_cliente": idCliente})

	return r.queryPedidos(ctx, "GetByCliente", pedidoSelect+" WHERE p.id_cliente = $1 ORDER BY p.id", idCliente)
}

// GetByID busca um pedido completo pelo ID.
func (r *PedidoRepository) GetByID(ctx context.Context, id int64) (domain.Pedido, error) {
	r.logger.Debug("Iniciando GetByID de pedido no repositório.", map[string]interface{}{"id": id})

	pedidos, err := r.queryPedidos(ctx, "GetByID", pedidoSelect+" WHERE p.id = $1", id)
	if err != nil {
		return domain.Pedido{}, err
	}
	if len(pedidos) == 0 {
		r.logger.Info("Pedido não encontrado.", map[string]interface{}{"id": id})
		return domain.Pedido{}, errors.NewNotFoundError("id", "Pedido não encontrado")
	}
	return pedidos[0], nil
}

// Insert grava pagamento, pedido e itens. Deve rodar dentro de WithTx.
func (r *PedidoRepository) Insert(ctx context.Context, p domain.Pedido) (domain.Pedido, error) {
	r.logger.Debug("Iniciando Insert de pedido no repositório.", map[string]interface{}{"id_cliente": p.Cliente.ID, "itens": len(p.Itens)})

	pagamento, err := r.pagamentos().Create(ctx, p.Pagamento)
	if err != nil {
		return domain.Pedido{}, err
	}
	p.Pagamento = pagamento

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        INSERT INTO pedidos (data_pedido, valor_total, id_cliente, cidade, estado, cep, id_pagamento)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id`

	err = r.q.QueryRowContext(ctxTimeout, query,
		p.DataPedido, p.ValorTotal, p.Cliente.ID, p.Endereco.Cidade, p.Endereco.Estado, p.Endereco.Cep, p.Pagamento.ID,
	).Scan(&p.ID)
	if err != nil {
		r.logger.Error("Falha ao inserir pedido no DB.", err)
		return domain.Pedido{}, errors.NewDBError("Falha ao criar pedido", err)
	}

	for i := range p.Itens {
		p.Itens[i].IDPedido = p.ID
		item, err := insertItem(ctx, r.q, r.DBTimeout, r.logger, p.Itens[i])
		if err != nil {
			return domain.Pedido{}, err
		}
		p.Itens[i] = item
	}

	r.logger.Info("Pedido criado com sucesso.", map[string]interface{}{"id": p.ID, "valor_total": p.ValorTotal})
	return p, nil
}

// UpdateEndereco troca o endereço de entrega do pedido.
func (r *PedidoRepository) UpdateEndereco(ctx context.Context, id int64, e domain.Endereco) error {
	r.logger.Debug("Iniciando UpdateEndereco no repositório.", map[string]interface{}{"id": id})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.q.ExecContext(ctxTimeout,
		`UPDATE pedidos SET cidade = $1, estado = $2, cep = $3 WHERE id = $4`,
		e.Cidade, e.Estado, e.Cep, id)
	if err != nil {
		r.logger.Error("Falha ao atualizar endereço do pedido.", err)
		return errors.NewDBError("Falha ao atualizar pedido", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return errors.NewNotFoundError("id", "Pedido não encontrado")
	}
	return nil
}

// UpdatePagamento regrava o pagamento inteiro (forma, campos, status e data).
func (r *PedidoRepository) UpdatePagamento(ctx context.Context, pg domain.Pagamento) error {
	_, err := r.pagamentos().Update(ctx, pg.ID, pg)
	return err
}

// Delete exclui o pedido (itens em cascata) e o seu pagamento. Deve rodar dentro de WithTx.
func (r *PedidoRepository) Delete(ctx context.Context, p domain.Pedido) error {
	r.logger.Debug("Iniciando Delete de pedido no repositório.", map[string]interface{}{"id": p.ID})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.q.ExecContext(ctxTimeout, `DELETE FROM pedidos WHERE id = $1`, p.ID)
	if err != nil {
		r.logger.Error("Falha ao excluir pedido no DB.", err)
		return errors.NewDBError("Falha ao excluir pedido", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return errors.NewNotFoundError("id", "Pedido não encontrado")
	}

	if err := r.pagamentos().Delete(ctx, p.Pagamento.ID); err != nil {
		return err
	}

	r.logger.Info("Pedido excluído com sucesso.", map[string]interface{}{"id": p.ID})
	return nil
}

// LockEstoque trava a linha da prancha até o fim da transação e devolve o estoque atual.
func (r *PedidoRepository) LockEstoque(ctx context.Context, idPrancha int64) (int, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var estoque int
	err := r.q.QueryRowContext(ctxTimeout, `SELECT estoque FROM pranchas WHERE id = $1 FOR UPDATE`, idPrancha).Scan(&estoque)
	if err == sql.ErrNoRows {
		return 0, errors.NewNotFoundError("idPrancha", fmt.Sprintf("Prancha %d não encontrada", idPrancha))
	}
	if err != nil {
		r.logger.Error("Falha ao travar estoque da prancha.", err)
		return 0, errors.NewDBError("Falha ao consultar estoque", err)
	}
	return estoque, nil
}

// DecrementEstoque baixa a quantidade do estoque; nunca deixa o estoque negativo.
func (r *PedidoRepository) DecrementEstoque(ctx context.Context, idPrancha int64, quantidade int) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.q.ExecContext(ctxTimeout,
		`UPDATE pranchas SET estoque = estoque - $2 WHERE id = $1 AND estoque >= $2`,
		idPrancha, quantidade)
	if err != nil {
		r.logger.Error("Falha ao baixar estoque da prancha.", err)
		return errors.NewDBError("Falha ao atualizar estoque", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return errors.NewValidationError("estoque", fmt.Sprintf("Prancha %d não tem estoque suficiente!", idPrancha))
	}

	r.logger.Info("Estoque baixado.", map[string]interface{}{"id_prancha": idPrancha, "quantidade": quantidade})
	return nil
}
