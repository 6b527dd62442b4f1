package pagamento_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"pranchashop/internal/api/pagamento"
	"pranchashop/internal/domain"
	apperror "pranchashop/internal/errors"
	"pranchashop/internal/pkg/logger"
)

type MockPagamentoService struct {
	mock.Mock
}

func (m *MockPagamentoService) FindByID(ctx context.Context, id int64) (domain.Pagamento, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Pagamento), args.Error(1)
}

func (m *MockPagamentoService) AtualizarStatus(ctx context.Context, id int64, status string) (domain.Pagamento, error) {
	args := m.Called(ctx, id, status)
	return args.Get(0).(domain.Pagamento), args.Error(1)
}

func rotas(svc *MockPagamentoService) http.Handler {
	h := pagamento.NewHandler(svc, logger.NewLogger("error"))
	r := chi.NewRouter()
	r.Get("/pagamentos/{id}", h.GetByIDHandler)
	r.Put("/pagamentos/{id}/status", h.AtualizarStatusHandler)
	return r
}

func TestGetByIDHandler_AchataAForma(t *testing.T) {
	svc := new(MockPagamentoService)
	svc.On("FindByID", mock.Anything, int64(2)).Return(domain.NovoPagamento(domain.Pix{Chave: "surf@pix"}), nil)

	rec := httptest.NewRecorder()
	rotas(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/pagamentos/2", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"chave":"surf@pix"`)
	assert.Contains(t, rec.Body.String(), `"formaPagamento":"Pix"`)
	assert.Contains(t, rec.Body.String(), `"statusPagamento":"PENDENTE"`)
}

func TestAtualizarStatusHandler(t *testing.T) {
	pagoEm := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

	t.Run("pago", func(t *testing.T) {
		svc := new(MockPagamentoService)
		svc.On("AtualizarStatus", mock.Anything, int64(2), "pago").
			Return(domain.Pagamento{ID: 2, Status: domain.StatusPago, DataPagamento: &pagoEm, Metodo: domain.Pix{Chave: "k"}}, nil)

		rec := httptest.NewRecorder()
		rotas(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/pagamentos/2/status", strings.NewReader(`{"status":"pago"}`)))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"statusPagamento":"PAGO"`)
	})

	t.Run("status inválido", func(t *testing.T) {
		svc := new(MockPagamentoService)
		svc.On("AtualizarStatus", mock.Anything, int64(2), "ESTORNADO").
			Return(domain.Pagamento{}, apperror.NewValidationError("statusPagamento", "Status inválido"))

		rec := httptest.NewRecorder()
		rotas(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/pagamentos/2/status", strings.NewReader(`{"status":"ESTORNADO"}`)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), `"field":"statusPagamento"`)
	})
}
