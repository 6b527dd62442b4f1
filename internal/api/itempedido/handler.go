package itempedido

import (
	"context"
	"net/http"

	"pranchashop/internal/api/response"
	"pranchashop/internal/domain"
	"pranchashop/internal/pkg/logger"
)

// ItemService define o contrato que o Handler espera da camada de Serviço.
type ItemService interface {
	FindAll(ctx context.Context) ([]domain.ItemPedido, error)
	FindByPedido(ctx context.Context, idPedido int64) ([]domain.ItemPedido, error)
	FindByID(ctx context.Context, id int64) (domain.ItemPedido, error)
	Create(ctx context.Context, idPedido int64, dto domain.ItemPedidoDTO) (domain.ItemPedido, error)
	Update(ctx context.Context, idItem, idPedido int64, dto domain.ItemPedidoDTO) error
	Delete(ctx context.Context, id int64) error
}

type Handler struct {
	Service ItemService
	Logger  logger.Logger
}

func NewHandler(svc ItemService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// ListHandler lida com GET /itens.
// @Summary Lista todos os itens de pedido
// @Tags itens
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.ItemPedido
// @Failure 400 {object} domain.ErrorResponse "Nenhum item de pedido cadastrado"
// @Router /itens [get]
func (h *Handler) ListHandler(w http.ResponseWriter, r *http.Request) {
	itens, err := h.Service.FindAll(r.Context())
	response.Handle(w, r, h.Logger, itens, err, http.StatusOK)
}

// GetByIDHandler lida com GET /itens/{id}.
// @Summary Busca um item de pedido
// @Tags itens
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID do item"
// @Success 200 {object} domain.ItemPedido
// @Failure 404 {object} domain.ErrorResponse "Item de Pedido não encontrado."
// @Router /itens/{id} [get]
func (h *Handler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := response.PathID(r, "id")
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	item, err := h.Service.FindByID(r.Context(), id)
	response.Handle(w, r, h.Logger, item, err, http.StatusOK)
}

// ListByPedidoHandler lida com GET /pedidos/{idPedido}/itens.
// @Summary Lista os itens de um pedido
// @Tags itens
// @Produce json
// @Security BearerAuth
// @Param idPedido path int true "ID do pedido"
// @Success 200 {array} domain.ItemPedido
// @Failure 404 {object} domain.ErrorResponse "Nenhum item encontrado para o Pedido informado."
// @Router /pedidos/{idPedido}/itens [get]
func (h *Handler) ListByPedidoHandler(w http.ResponseWriter, r *http.Request) {
	idPedido, err := response.PathID(r, "idPedido")
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	itens, err := h.Service.FindByPedido(r.Context(), idPedido)
	response.Handle(w, r, h.Logger, itens, err, http.StatusOK)
}

// CreateHandler lida com POST /pedidos/{idPedido}/itens.
// @Summary Adiciona um item ao pedido
// @Description O precoUnit enviado é usado no subtotal. O total do pedido é recalculado.
// @Tags itens
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param idPedido path int true "ID do pedido"
// @Param item body domain.ItemPedidoDTO true "Prancha, quantidade e preço"
// @Success 201 {object} domain.ItemPedido
// @Failure 400 {object} domain.ErrorResponse "Campo inválido"
// @Failure 404 {object} domain.ErrorResponse "Pedido ou prancha não encontrados"
// @Router /pedidos/{idPedido}/itens [post]
func (h *Handler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	idPedido, err := response.PathID(r, "idPedido")
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	var dto domain.ItemPedidoDTO
	if err := response.Decode(r, &dto); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	item, err := h.Service.Create(r.Context(), idPedido, dto)
	response.Handle(w, r, h.Logger, item, err, http.StatusCreated)
}

// UpdateHandler lida com PUT /pedidos/{idPedido}/itens/{idItem}.
// @Summary Altera um item do pedido
// @Tags itens
// @Accept json
// @Security BearerAuth
// @Param idPedido path int true "ID do pedido"
// @Param idItem path int true "ID do item"
// @Param item body domain.ItemPedidoDTO true "Prancha, quantidade e preço"
// @Success 204
// @Failure 400 {object} domain.ErrorResponse "Campo inválido"
// @Failure 404 {object} domain.ErrorResponse "Item, pedido ou prancha não encontrados"
// @Router /pedidos/{idPedido}/itens/{idItem} [put]
func (h *Handler) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	idPedido, err := response.PathID(r, "idPedido")
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	idItem, err := response.PathID(r, "idItem")
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	var dto domain.ItemPedidoDTO
	if err := response.Decode(r, &dto); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	response.Handle(w, r, h.Logger, nil, h.Service.Update(r.Context(), idItem, idPedido, dto), http.StatusNoContent)
}

// DeleteHandler lida com DELETE /pedidos/{idPedido}/itens/{idItem}.
// @Summary Remove um item do pedido
// @Tags itens
// @Security BearerAuth
// @Param idPedido path int true "ID do pedido"
// @Param idItem path int true "ID do item"
// @Success 204
// @Failure 404 {object} domain.ErrorResponse "Item de Pedido não encontrado."
// @Router /pedidos/{idPedido}/itens/{idItem} [delete]
func (h *Handler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	idItem, err := response.PathID(r, "idItem")
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	response.Handle(w, r, h.Logger, nil, h.Service.Delete(r.Context(), idItem), http.StatusNoContent)
}
