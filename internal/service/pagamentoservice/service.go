package pagamentoservice

import (
	"context"
	"time"

	"pranchashop/internal/domain"
	apperror "pranchashop/internal/errors"
	"pranchashop/internal/pkg/logger"
)

// PagamentoRepository é satisfeito por crudrepo.Store[domain.Pagamento] sem filtro de forma.
type PagamentoRepository interface {
	GetByID(ctx context.Context, id int64) (domain.Pagamento, error)
	Update(ctx context.Context, id int64, p domain.Pagamento) (domain.Pagamento, error)
}

type Service struct {
	repo   PagamentoRepository
	logger logger.Logger
	now    func() time.Time
}

func NewService(repo PagamentoRepository, logger logger.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

func (s *Service) FindByID(ctx context.Context, id int64) (domain.Pagamento, error) {
	if id <= 0 {
		return domain.Pagamento{}, apperror.NewValidationError("idPagamento", "id inválido")
	}

	pg, err := s.repo.GetByID(ctx, id)
	if apperror.IsNotFound(err) {
		s.logger.Warn("Pagamento não encontrado.", map[string]interface{}{"id": id})
		return domain.Pagamento{}, apperror.NewNotFoundError("idPagamento", "Pagamento não encontrado")
	}
	return pg, err
}

// AtualizarStatus troca o status; PAGO registra a data atual e PENDENTE a remove.
func (s *Service) AtualizarStatus(ctx context.Context, id int64, status string) (domain.Pagamento, error) {
	pg, err := s.FindByID(ctx, id)
	if err != nil {
		return domain.Pagamento{}, err
	}

	novo, ok := domain.ParseStatusPagamento(status)
	if !ok {
		return domain.Pagamento{}, apperror.NewValidationError("statusPagamento", "Status inválido")
	}

	pg.AlterarStatus(novo, s.now())
	if _, err := s.repo.Update(ctx, id, pg); err != nil {
		s.logger.Error("Falha ao atualizar status do pagamento.", err)
		return domain.Pagamento{}, err
	}

	s.logger.Info("Status do pagamento atualizado.", map[string]interface{}{"id": id, "status": novo})
	return pg, nil
}
