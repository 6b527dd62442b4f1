package cadastro

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pranchashop/internal/api/response"
	"pranchashop/internal/domain"
	"pranchashop/internal/pkg/logger"
)

// CadastroService é o contrato de cadastroservice.Service[T].
type CadastroService[T any] interface {
	FindAll(ctx context.Context) ([]T, error)
	FindBy(ctx context.Context, campo, valor string) ([]T, error)
	FindByID(ctx context.Context, id int64) (T, error)
	Create(ctx context.Context, item T) (T, error)
	Update(ctx context.Context, id int64, item T) error
	Delete(ctx context.Context, id int64) error
}

// Decoder lê o corpo da requisição como a entidade T.
type Decoder[T any] func(r *http.Request) (T, error)

// DecodeJSON decodifica o corpo direto na entidade.
func DecodeJSON[T any](r *http.Request) (T, error) {
	var item T
	err := response.Decode(r, &item)
	return item, err
}

// DecodeMetodo lê os campos de uma forma de pagamento e devolve um pagamento pendente.
func DecodeMetodo[M domain.MetodoPagamento](r *http.Request) (domain.Pagamento, error) {
	var metodo M
	if err := response.Decode(r, &metodo); err != nil {
		return domain.Pagamento{}, err
	}
	return domain.NovoPagamento(metodo), nil
}

// Handler expõe o CRUD de uma entidade de cadastro. Finder é o campo de GET /x/<finder>/{valor}.
type Handler[T any] struct {
	Service CadastroService[T]
	Finder  string
	Decode  Decoder[T]
	Logger  logger.Logger
}

func NewHandler[T any](svc CadastroService[T], finder string, decode Decoder[T], log logger.Logger) *Handler[T] {
	return &Handler[T]{
		Service: svc,
		Finder:  finder,
		Decode:  decode,
		Logger:  log,
	}
}

// Rotas de leitura e escrita; o roteador aplica as permissões em cada grupo.

func (h *Handler[T]) ListHandler(w http.ResponseWriter, r *http.Request) {
	lista, err := h.Service.FindAll(r.Context())
	response.Handle(w, r, h.Logger, lista, err, http.StatusOK)
}

func (h *Handler[T]) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := response.PathID(r, "id")
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	item, err := h.Service.FindByID(r.Context(), id)
	response.Handle(w, r, h.Logger, item, err, http.StatusOK)
}

func (h *Handler[T]) FindByHandler(w http.ResponseWriter, r *http.Request) {
	lista, err := h.Service.FindBy(r.Context(), h.Finder, chi.URLParam(r, "valor"))
	response.Handle(w, r, h.Logger, lista, err, http.StatusOK)
}

func (h *Handler[T]) CreateHandler(w http.ResponseWriter, r *http.Request) {
	item, err := h.Decode(r)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	criado, err := h.Service.Create(r.Context(), item)
	response.Handle(w, r, h.Logger, criado, err, http.StatusCreated)
}

func (h *Handler[T]) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	id, err := response.PathID(r, "id")
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	item, err := h.Decode(r)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	response.Handle(w, r, h.Logger, nil, h.Service.Update(r.Context(), id, item), http.StatusNoContent)
}

func (h *Handler[T]) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id, err := response.PathID(r, "id")
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	response.Handle(w, r, h.Logger, nil, h.Service.Delete(r.Context(), id), http.StatusNoContent)
}
