package pagamento

import (
	"context"
	"net/http"

	"pranchashop/internal/api/response"
	"pranchashop/internal/domain"
	"pranchashop/internal/pkg/logger"
)

type PagamentoService interface {
	FindByID(ctx context.Context, id int64) (domain.Pagamento, error)
	AtualizarStatus(ctx context.Context, id int64, status string) (domain.Pagamento, error)
}

type Handler struct {
	Service PagamentoService
	Logger  logger.Logger
}

func NewHandler(svc PagamentoService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// GetByIDHandler lida com GET /pagamentos/{id}.
// @Summary Busca um pagamento de qualquer forma
// @Tags pagamentos
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID do pagamento"
// @Success 200 {object} object "Pagamento com os campos da forma"
// @Failure 404 {object} domain.ErrorResponse "Pagamento não encontrado"
// @Router /pagamentos/{id} [get]
func (h *Handler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := response.PathID(r, "id")
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	pg, err := h.Service.FindByID(r.Context(), id)
	response.Handle(w, r, h.Logger, pg, err, http.StatusOK)
}

// AtualizarStatusHandler lida com PUT /pagamentos/{id}/status.
// @Summary Altera o status do pagamento
// @Tags pagamentos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID do pagamento"
// @Param status body domain.StatusRequest true "PENDENTE ou PAGO"
// @Success 200 {object} object "Pagamento atualizado"
// @Failure 400 {object} domain.ErrorResponse "Status inválido"
// @Failure 404 {object} domain.ErrorResponse "Pagamento não encontrado"
// @Router /pagamentos/{id}/status [put]
func (h *Handler) AtualizarStatusHandler(w http.ResponseWriter, r *http.Request) {
	id, err := response.PathID(r, "id")
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	var req domain.StatusRequest
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	pg, err := h.Service.AtualizarStatus(r.Context(), id, req.Status)
	response.Handle(w, r, h.Logger, pg, err, http.StatusOK)
}
