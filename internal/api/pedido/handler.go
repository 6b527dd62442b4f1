package pedido

import (
	"context"
	"net/http"

	"pranchashop/internal/api/response"
	"pranchashop/internal/domain"
	"pranchashop/internal/pkg/logger"
)

// PedidoService define o contrato que o Handler espera da camada de Serviço.
type PedidoService interface {
	FindAll(ctx context.Context) ([]domain.PedidoResponse, error)
	FindByCliente(ctx context.Context, idCliente int64) ([]domain.PedidoResponse, error)
	FindByID(ctx context.Context, id int64) (domain.PedidoResponse, error)
	Create(ctx context.Context, req domain.PedidoRequest) (domain.PedidoResponse, error)
	Update(ctx context.Context, id int64, req domain.PedidoRequest) error
	Pagar(ctx context.Context, id int64) error
	Finalizar(ctx context.Context, idPedido int64) error
	Delete(ctx context.Context, id int64) error
}

// Handler agrupa todos os métodos de Handler do pedido.
type Handler struct {
	Service PedidoService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc PedidoService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// ListHandler lida com GET /pedidos.
// @Summary Lista os pedidos
// @Tags pedidos
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.PedidoResponse
// @Failure 400 {object} domain.ErrorResponse "Nenhum pedido cadastrado"
// @Router /pedidos [get]
func (h *Handler) ListHandler(w http.ResponseWriter, r *http.Request) {
	pedidos, err := h.Service.FindAll(r.Context())
	response.Handle(w, r, h.Logger, pedidos, err, http.StatusOK)
}

// GetByIDHandler lida com GET /pedidos/{id}.
// @Summary Busca um pedido
// @Tags pedidos
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID do pedido"
// @Success 200 {object} domain.PedidoResponse
// @Failure 404 {object} domain.ErrorResponse "Pedido não encontrado"
// @Router /pedidos/{id} [get]
func (h *Handler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := response.PathID(r, "id")
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	p, err := h.Service.FindByID(r.Context(), id)
	response.Handle(w, r, h.Logger, p, err, http.StatusOK)
}

// ListByClienteHandler lida com GET /pedidos/cliente/{idCliente}.
// @Summary Lista os pedidos de um cliente
// @Tags pedidos
// @Produce json
// @Security BearerAuth
// @Param idCliente path int true "ID do cliente"
// @Success 200 {array} domain.PedidoResponse
// @Failure 404 {object} domain.ErrorResponse "Cliente não encontrado"
// @Router /pedidos/cliente/{idCliente} [get]
func (h *Handler) ListByClienteHandler(w http.ResponseWriter, r *http.Request) {
	idCliente, err := response.PathID(r, "idCliente")
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	pedidos, err := h.Service.FindByCliente(r.Context(), idCliente)
	response.Handle(w, r, h.Logger, pedidos, err, http.StatusOK)
}

// CreateHandler lida com POST /pedidos.
// @Summary Cria um pedido
// @Description O preço de cada item vem do cadastro da prancha; precoUnit enviado é ignorado.
// @Tags pedidos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param pedido body domain.PedidoRequest true "Cliente, endereço, pagamento e itens"
// @Success 201 {object} domain.PedidoResponse
// @Failure 400 {object} domain.ErrorResponse "Campo inválido"
// @Failure 404 {object} domain.ErrorResponse "Cliente ou prancha não encontrados"
// @Router /pedidos [post]
func (h *Handler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.PedidoRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	p, err := h.Service.Create(r.Context(), req)
	response.Handle(w, r, h.Logger, p, err, http.StatusCreated)
}

// UpdateHandler lida com PUT /pedidos/{id}.
// @Summary Altera endereço e pagamento
// @Description O pagamento é substituído e volta para PENDENTE.
// @Tags pedidos
// @Accept json
// @Security BearerAuth
// @Param id path int true "ID do pedido"
// @Param pedido body domain.PedidoRequest true "Endereço e pagamento"
// @Success 204
// @Failure 400 {object} domain.ErrorResponse "Campo inválido"
// @Failure 404 {object} domain.ErrorResponse "Pedido não encontrado"
// @Router /pedidos/{id} [put]
func (h *Handler) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	id, err := response.PathID(r, "id")
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	var req domain.PedidoRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	response.Handle(w, r, h.Logger, nil, h.Service.Update(r.Context(), id, req), http.StatusNoContent)
}

// PagarHandler lida com PUT /pedidos/{id}/pagar.
// @Summary Marca o pagamento do pedido como pago
// @Tags pedidos
// @Security BearerAuth
// @Param id path int true "ID do pedido"
// @Success 204
// @Failure 404 {object} domain.ErrorResponse "Pedido não encontrado"
// @Router /pedidos/{id}/pagar [put]
func (h *Handler) PagarHandler(w http.ResponseWriter, r *http.Request) {
	id, err := response.PathID(r, "id")
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	response.Handle(w, r, h.Logger, nil, h.Service.Pagar(r.Context(), id), http.StatusNoContent)
}

// FinalizarHandler lida com PUT /pedidos/{id}/finalizar.
// @Summary Finaliza o pedido
// @Description Baixa o estoque de todas as pranchas e marca o pagamento como pago. Nada é baixado se algum item não tiver estoque.
// @Tags pedidos
// @Produce plain
// @Security BearerAuth
// @Param id path int true "ID do pedido"
// @Success 200 {string} string "Pedido finalizado com sucesso."
// @Failure 400 {object} domain.ErrorResponse "Estoque insuficiente"
// @Failure 404 {object} domain.ErrorResponse "Pedido não encontrado"
// @Router /pedidos/{id}/finalizar [put]
func (h *Handler) FinalizarHandler(w http.ResponseWriter, r *http.Request) {
	id, err := response.PathID(r, "id")
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	if err := h.Service.Finalizar(r.Context(), id); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Pedido finalizado com sucesso."))
}

// DeleteHandler lida com DELETE /pedidos/{id}.
// @Summary Exclui o pedido
// @Tags pedidos
// @Security BearerAuth
// @Param id path int true "ID do pedido"
// @Success 204
// @Failure 404 {object} domain.ErrorResponse "Pedido não encontrado"
// @Router /pedidos/{id} [delete]
func (h *Handler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id, err := response.PathID(r, "id")
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	response.Handle(w, r, h.Logger, nil, h.Service.Delete(r.Context(), id), http.StatusNoContent)
}
