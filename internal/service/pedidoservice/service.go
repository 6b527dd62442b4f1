package pedidoservice

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"pranchashop/internal/domain"
	apperror "pranchashop/internal/errors"
	"pranchashop/internal/pkg/events"
	"pranchashop/internal/pkg/logger"
)

// PedidoRepository define o contrato que o Serviço de Pedidos espera da camada de Persistência.
// Operações que alteram mais de uma tabela devem rodar dentro de WithTx.
type PedidoRepository interface {
	GetAll(ctx context.Context) ([]domain.Pedido, error)
	GetByCliente(ctx context.Context, idCliente int64) ([]domain.Pedido, error)
	GetByID(ctx context.Context, id int64) (domain.Pedido, error)
	Insert(ctx context.Context, p domain.Pedido) (domain.Pedido, error)
	UpdateEndereco(ctx context.Context, id int64, e domain.Endereco) error
	UpdatePagamento(ctx context.Context, pg domain.Pagamento) error
	Delete(ctx context.Context, p domain.Pedido) error
	LockEstoque(ctx context.Context, idPrancha int64) (int, error)
	DecrementEstoque(ctx context.Context, idPrancha int64, quantidade int) error
	WithTx(ctx context.Context, fn func(repo PedidoRepository) error) error
}

// ClienteFinder é o único acesso do pedido ao cadastro de clientes.
type ClienteFinder interface {
	FindByID(ctx context.Context, id int64) (domain.Cliente, error)
}

// PranchaFinder é o único acesso do pedido ao catálogo de pranchas.
type PranchaFinder interface {
	FindByID(ctx context.Context, id int64) (domain.Prancha, error)
}

// PranchaCache descarta pranchas em cache depois da baixa de estoque.
type PranchaCache interface {
	Invalidate(ctx context.Context, ids ...int64)
}

// Service orquestra o fluxo de pedidos.
type Service struct {
	repo      PedidoRepository
	clientes  ClienteFinder
	pranchas  PranchaFinder
	cache     PranchaCache
	publisher events.Publisher
	logger    logger.Logger
	now       func() time.Time
}

// NewService cria e retorna uma nova instância do Serviço de Pedidos.
func NewService(repo PedidoRepository, clientes ClienteFinder, pranchas PranchaFinder, cache PranchaCache, publisher events.Publisher, logger logger.Logger) *Service {
	return &Service{
		repo:      repo,
		clientes:  clientes,
		pranchas:  pranchas,
		cache:     cache,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// CriarPagamento monta a forma de pagamento escolhida, pendente e sem data.
// Só os dados da forma informada são lidos.
func CriarPagamento(req domain.PedidoRequest) (domain.Pagamento, error) {
	forma := strings.ToUpper(strings.TrimSpace(req.FormaPagamento))
	if forma == "" {
		return domain.Pagamento{}, apperror.NewValidationError("formaPagamento", "A forma de pagamento deve ser informada.")
	}

	switch domain.FormaPagamento(forma) {
	case domain.FormaPix:
		if req.Pix == nil {
			return domain.Pagamento{}, apperror.NewValidationError("pix", "Dados do PIX devem ser enviados.")
		}
		return domain.NovoPagamento(*req.Pix), nil
	case domain.FormaBoleto:
		if req.Boleto == nil {
			return domain.Pagamento{}, apperror.NewValidationError("boleto", "Dados do boleto devem ser enviados.")
		}
		return domain.NovoPagamento(*req.Boleto), nil
	case domain.FormaCartao:
		if req.Cartao == nil {
			return domain.Pagamento{}, apperror.NewValidationError("cartao", "Dados do cartão devem ser enviados.")
		}
		return domain.NovoPagamento(*req.Cartao), nil
	}

	return domain.Pagamento{}, apperror.NewValidationError("formaPagamento", "Forma de pagamento inválida. Use PIX, BOLETO ou CARTAO.")
}

// FindAll lista todos os pedidos.
func (s *Service) FindAll(ctx context.Context) ([]domain.PedidoResponse, error) {
	s.logger.Debug("Buscando todos os pedidos no serviço.", nil)

	pedidos, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("Falha ao buscar pedidos no repositório.", err)
		return nil, err
	}
	if len(pedidos) == 0 {
		s.logger.Warn("Nenhum pedido encontrado.", nil)
		return nil, apperror.NewValidationError("listaPedidos", "Nenhum pedido cadastrado")
	}

	s.logger.Info("Pedidos encontrados.", map[string]interface{}{"total": len(pedidos)})
	return toResponses(pedidos), nil
}

// FindByCliente devolve o histórico de pedidos do cliente.
func (s *Service) FindByCliente(ctx context.Context, idCliente int64) ([]domain.PedidoResponse, error) {
	s.logger.Debug("Buscando pedidos do cliente.", map[string]interface{}{"id_cliente": idCliente})

	if _, err := s.findCliente(ctx, idCliente); err != nil {
		return nil, err
	}

	pedidos, err := s.repo.GetByCliente(ctx, idCliente)
	if err != nil {
		s.logger.Error("Falha ao buscar pedidos do cliente no repositório.", err)
		return nil, err
	}
	return toResponses(pedidos), nil
}

// FindByID busca um pedido.
func (s *Service) FindByID(ctx context.Context, id int64) (domain.PedidoResponse, error) {
	s.logger.Debug("Buscando pedido por ID.", map[string]interface{}{"id": id})

	pedido, err := s.findPedido(ctx, id, "id")
	if err != nil {
		return domain.PedidoResponse{}, err
	}
	return ToResponse(pedido), nil
}

// Create monta e grava o pedido. O preço de cada item vem da prancha; estoque não é tocado.
func (s *Service) Create(ctx context.Context, req domain.PedidoRequest) (domain.PedidoResponse, error) {
	s.logger.Debug("Criando novo pedido.", map[string]interface{}{"id_cliente": req.IDCliente, "itens": len(req.Itens)})

	cliente, err := s.findCliente(ctx, req.IDCliente)
	if err != nil {
		return domain.PedidoResponse{}, err
	}

	if req.Endereco == nil {
		return domain.PedidoResponse{}, s.rejeitar(apperror.NewValidationError("endereco", "O endereço de entrega é obrigatório."))
	}

	pagamento, err := CriarPagamento(req)
	if err != nil {
		return domain.PedidoResponse{}, s.rejeitar(err)
	}

	if len(req.Itens) == 0 {
		return domain.PedidoResponse{}, s.rejeitar(apperror.NewValidationError("itens", "O pedido deve ter ao menos um item."))
	}

	pedido := domain.Pedido{
		DataPedido: s.now(),
		Cliente:    cliente,
		Endereco: domain.Endereco{
			Cidade: req.Endereco.Cidade,
			Estado: req.Endereco.Estado,
			Cep:    req.Endereco.Cep,
		},
		Pagamento: pagamento,
	}

	for _, dto := range req.Itens {
		prancha, err := s.findPrancha(ctx, dto.IDPrancha)
		if err != nil {
			return domain.PedidoResponse{}, err
		}
		if dto.Quantidade <= 0 {
			return domain.PedidoResponse{}, s.rejeitar(apperror.NewValidationError("quantidade", "A quantidade deve ser maior que zero."))
		}

		item := domain.ItemPedido{
			IDPrancha:  prancha.ID,
			Quantidade: dto.Quantidade,
			PrecoUnit:  prancha.Valor,
		}
		item.CalcularSubTotal()
		pedido.Itens = append(pedido.Itens, item)
	}
	pedido.ValorTotal = domain.SomarItens(pedido.Itens)

	err = s.repo.WithTx(ctx, func(tx PedidoRepository) error {
		created, err := tx.Insert(ctx, pedido)
		if err != nil {
			return err
		}
		pedido = created
		return nil
	})
	if err != nil {
		s.logger.Error("Falha ao gravar pedido.", err)
		return domain.PedidoResponse{}, err
	}

	s.logger.Info("Pedido criado com sucesso.", map[string]interface{}{"id": pedido.ID, "valor_total": pedido.ValorTotal})
	s.publicar(ctx, events.PedidoCriado, pedido)
	return ToResponse(pedido), nil
}

// Update troca endereço e pagamento. O pagamento é substituído por inteiro e volta a PENDENTE,
// mesmo que já estivesse pago. Itens e total ficam como estão.
func (s *Service) Update(ctx context.Context, id int64, req domain.PedidoRequest) error {
	s.logger.Debug("Atualizando pedido.", map[string]interface{}{"id": id})

	pedido, err := s.findPedido(ctx, id, "id")
	if err != nil {
		return err
	}

	if req.Endereco == nil {
		return s.rejeitar(apperror.NewValidationError("endereco", "O endereço de entrega é obrigatório."))
	}

	pagamento, err := CriarPagamento(req)
	if err != nil {
		return s.rejeitar(err)
	}
	pagamento.ID = pedido.Pagamento.ID

	pedido.Endereco = domain.Endereco{Cidade: req.Endereco.Cidade, Estado: req.Endereco.Estado, Cep: req.Endereco.Cep}
	pedido.Pagamento = pagamento

	err = s.repo.WithTx(ctx, func(tx PedidoRepository) error {
		if err := tx.UpdateEndereco(ctx, id, pedido.Endereco); err != nil {
			return err
		}
		return tx.UpdatePagamento(ctx, pedido.Pagamento)
	})
	if err != nil {
		s.logger.Error("Falha ao atualizar pedido.", err)
		return err
	}

	s.logger.Info("Pedido atualizado com sucesso.", map[string]interface{}{"id": id, "forma": pagamento.Forma()})
	s.publicar(ctx, events.PedidoAtualizado, pedido)
	return nil
}

// Pagar marca o pagamento como PAGO com a data atual. Chamar de novo só move a data.
func (s *Service) Pagar(ctx context.Context, id int64) error {
	s.logger.Debug("Processando pagamento do pedido.", map[string]interface{}{"id": id})

	pedido, err := s.findPedido(ctx, id, "id")
	if err != nil {
		return err
	}

	pedido.Pagamento.MarcarPago(s.now())
	if err := s.repo.UpdatePagamento(ctx, pedido.Pagamento); err != nil {
		s.logger.Error("Falha ao registrar pagamento.", err)
		return err
	}

	s.logger.Info("Pagamento confirmado.", map[string]interface{}{"id": id})
	s.publicar(ctx, events.PedidoPago, pedido)
	return nil
}

// Finalizar baixa o estoque de todas as linhas e marca o pagamento como PAGO.
// Se alguma linha não tiver estoque, nada é alterado.
func (s *Service) Finalizar(ctx context.Context, idPedido int64) error {
	s.logger.Debug("Finalizando pedido.", map[string]interface{}{"id": idPedido})

	pedido, err := s.findPedido(ctx, idPedido, "idPedido")
	if err != nil {
		return err
	}

	ids := pranchasDoPedido(pedido.Itens)

	err = s.repo.WithTx(ctx, func(tx PedidoRepository) error {
		// Trava as pranchas em ordem crescente de ID antes de conferir qualquer linha.
		restante := make(map[int64]int, len(ids))
		for _, id := range ids {
			estoque, err := tx.LockEstoque(ctx, id)
			if err != nil {
				return err
			}
			restante[id] = estoque
		}

		for _, item := range pedido.Itens {
			if item.Quantidade > restante[item.IDPrancha] {
				s.logger.Warn("Estoque insuficiente.", map[string]interface{}{
					"id_pedido": idPedido, "id_prancha": item.IDPrancha,
					"estoque": restante[item.IDPrancha], "quantidade": item.Quantidade,
				})
				return apperror.NewValidationError("estoque", fmt.Sprintf("Prancha %d não tem estoque suficiente!", item.IDPrancha))
			}
			restante[item.IDPrancha] -= item.Quantidade
		}

		for _, item := range pedido.Itens {
			if err := tx.DecrementEstoque(ctx, item.IDPrancha, item.Quantidade); err != nil {
				return err
			}
		}

		pedido.Pagamento.MarcarPago(s.now())
		return tx.UpdatePagamento(ctx, pedido.Pagamento)
	})
	if err != nil {
		if !apperror.IsValidation(err) {
			s.logger.Error("Falha ao finalizar pedido.", err)
		}
		return err
	}

	s.cache.Invalidate(ctx, ids...)

	s.logger.Info("Pedido finalizado com sucesso.", map[string]interface{}{"id": idPedido})
	s.publicar(ctx, events.PedidoFinalizado, pedido)
	return nil
}

// Delete exclui o pedido, seus itens e seu pagamento.
func (s *Service) Delete(ctx context.Context, id int64) error {
	s.logger.Debug("Excluindo pedido.", map[string]interface{}{"id": id})

	pedido, err := s.findPedido(ctx, id, "id")
	if err != nil {
		return err
	}

	err = s.repo.WithTx(ctx, func(tx PedidoRepository) error {
		return tx.Delete(ctx, pedido)
	})
	if err != nil {
		s.logger.Error("Falha ao excluir pedido.", err)
		return err
	}

	s.logger.Info("Pedido excluído com sucesso.", map[string]interface{}{"id": id})
	s.publicar(ctx, events.PedidoExcluido, pedido)
	return nil
}

// --- auxiliares ---

func (s *Service) findPedido(ctx context.Context, id int64, campo string) (domain.Pedido, error) {
	pedido, err := s.repo.GetByID(ctx, id)
	if apperror.IsNotFound(err) {
		s.logger.Warn("Pedido não encontrado.", map[string]interface{}{"id": id})
		return domain.Pedido{}, apperror.NewNotFoundError(campo, "Pedido não encontrado")
	}
	if err != nil {
		s.logger.Error("Falha ao buscar pedido no repositório.", err)
		return domain.Pedido{}, err
	}
	return pedido, nil
}

func (s *Service) findCliente(ctx context.Context, id int64) (domain.Cliente, error) {
	cliente, err := s.clientes.FindByID(ctx, id)
	if apperror.IsValidation(err) {
		s.logger.Warn("Cliente não encontrado.", map[string]interface{}{"id_cliente": id})
		return domain.Cliente{}, apperror.NewNotFoundError("idCliente", "Cliente não encontrado")
	}
	return cliente, err
}

func (s *Service) findPrancha(ctx context.Context, id int64) (domain.Prancha, error) {
	prancha, err := s.pranchas.FindByID(ctx, id)
	if apperror.IsValidation(err) {
		s.logger.Warn("Prancha não encontrada.", map[string]interface{}{"id_prancha": id})
		return domain.Prancha{}, apperror.NewNotFoundError("idPrancha", "Prancha não encontrada")
	}
	return prancha, err
}

func (s *Service) rejeitar(err error) error {
	s.logger.Warn("Pedido rejeitado na validação.", map[string]interface{}{"campo": apperror.FieldOf(err), "error": err.Error()})
	return err
}

// publicar envia o evento depois do commit. Falha no broker não desfaz a operação.
func (s *Service) publicar(ctx context.Context, tipo string, pedido domain.Pedido) {
	env, err := events.NewEnvelope(tipo, strconv.FormatInt(pedido.ID, 10), ToResponse(pedido))
	if err == nil {
		err = s.publisher.Publish(ctx, env)
	}
	if err != nil {
		s.logger.Warn("Falha ao publicar evento de pedido.", map[string]interface{}{"tipo": tipo, "id": pedido.ID, "error": err.Error()})
	}
}

func pranchasDoPedido(itens []domain.ItemPedido) []int64 {
	vistos := make(map[int64]bool, len(itens))
	var ids []int64
	for _, item := range itens {
		if !vistos[item.IDPrancha] {
			vistos[item.IDPrancha] = true
			ids = append(ids, item.IDPrancha)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
