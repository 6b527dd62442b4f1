package itempedidoservice

import (
	"context"

	"pranchashop/internal/domain"
	apperror "pranchashop/internal/errors"
	"pranchashop/internal/pkg/logger"
)

// ItemRepository define o contrato que o Serviço de Itens espera da camada de Persistência.
type ItemRepository interface {
	GetAll(ctx context.Context) ([]domain.ItemPedido, error)
	GetByPedido(ctx context.Context, idPedido int64) ([]domain.ItemPedido, error)
	GetByID(ctx context.Context, id int64) (domain.ItemPedido, error)
	ExistePedido(ctx context.Context, idPedido int64) (bool, error)
	Insert(ctx context.Context, item domain.ItemPedido) (domain.ItemPedido, error)
	Update(ctx context.Context, item domain.ItemPedido) (domain.ItemPedido, error)
	Delete(ctx context.Context, id int64) error
	RecalcularTotal(ctx context.Context, idPedido int64) error
	WithTx(ctx context.Context, fn func(repo ItemRepository) error) error
}

// PranchaFinder é o único acesso dos itens ao catálogo de pranchas.
type PranchaFinder interface {
	FindByID(ctx context.Context, id int64) (domain.Prancha, error)
}

type Service struct {
	repo     ItemRepository
	pranchas PranchaFinder
	logger   logger.Logger
}

func NewService(repo ItemRepository, pranchas PranchaFinder, logger logger.Logger) *Service {
	return &Service{repo: repo, pranchas: pranchas, logger: logger}
}

func (s *Service) FindAll(ctx context.Context) ([]domain.ItemPedido, error) {
	itens, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("Falha ao buscar itens de pedido.", err)
		return nil, err
	}
	if len(itens) == 0 {
		return nil, apperror.NewValidationError("Lista de Itens", "Nenhum item de pedido cadastrado.")
	}
	return itens, nil
}

func (s *Service) FindByPedido(ctx context.Context, idPedido int64) ([]domain.ItemPedido, error) {
	if idPedido <= 0 {
		return nil, apperror.NewValidationError("idPedido", "id de Pedido inválido.")
	}

	itens, err := s.repo.GetByPedido(ctx, idPedido)
	if err != nil {
		s.logger.Error("Falha ao buscar itens do pedido.", err)
		return nil, err
	}
	if len(itens) == 0 {
		return nil, apperror.NewNotFoundError("idPedido", "Nenhum item encontrado para o Pedido informado.")
	}
	return itens, nil
}

func (s *Service) FindByID(ctx context.Context, id int64) (domain.ItemPedido, error) {
	if id <= 0 {
		return domain.ItemPedido{}, apperror.NewValidationError("id", "id inválido.")
	}

	item, err := s.repo.GetByID(ctx, id)
	if apperror.IsNotFound(err) {
		return domain.ItemPedido{}, apperror.NewNotFoundError("id", "Item de Pedido não encontrado.")
	}
	return item, err
}

// Create adiciona um item ao pedido com o preço informado e recalcula o total do pedido.
func (s *Service) Create(ctx context.Context, idPedido int64, dto domain.ItemPedidoDTO) (domain.ItemPedido, error) {
	s.logger.Debug("Criando item de pedido.", map[string]interface{}{"id_pedido": idPedido, "id_prancha": dto.IDPrancha})

	item, err := s.montarItem(ctx, idPedido, dto)
	if err != nil {
		return domain.ItemPedido{}, err
	}

	err = s.repo.WithTx(ctx, func(tx ItemRepository) error {
		if item, err = tx.Insert(ctx, item); err != nil {
			return err
		}
		return tx.RecalcularTotal(ctx, idPedido)
	})
	if err != nil {
		s.logger.Error("Falha ao criar item de pedido.", err)
		return domain.ItemPedido{}, err
	}

	s.logger.Info("Item de pedido criado.", map[string]interface{}{"id": item.ID, "id_pedido": idPedido, "sub_total": item.SubTotal})
	return item, nil
}

// Update troca prancha, quantidade e preço do item. Se o item mudar de pedido, os dois totais são recalculados.
func (s *Service) Update(ctx context.Context, idItem, idPedido int64, dto domain.ItemPedidoDTO) error {
	s.logger.Debug("Alterando item de pedido.", map[string]interface{}{"id": idItem, "id_pedido": idPedido})

	atual, err := s.FindByID(ctx, idItem)
	if err != nil {
		return err
	}

	item, err := s.montarItem(ctx, idPedido, dto)
	if err != nil {
		return err
	}
	item.ID = idItem

	err = s.repo.WithTx(ctx, func(tx ItemRepository) error {
		if _, err := tx.Update(ctx, item); err != nil {
			return err
		}
		if atual.IDPedido != idPedido {
			if err := tx.RecalcularTotal(ctx, atual.IDPedido); err != nil {
				return err
			}
		}
		return tx.RecalcularTotal(ctx, idPedido)
	})
	if err != nil {
		s.logger.Error("Falha ao alterar item de pedido.", err)
		return err
	}

	s.logger.Info("Item de pedido alterado.", map[string]interface{}{"id": idItem})
	return nil
}

// Delete remove o item e recalcula o total do pedido.
func (s *Service) Delete(ctx context.Context, id int64) error {
	atual, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}

	err = s.repo.WithTx(ctx, func(tx ItemRepository) error {
		if err := tx.Delete(ctx, id); err != nil {
			return err
		}
		return tx.RecalcularTotal(ctx, atual.IDPedido)
	})
	if err != nil {
		s.logger.Error("Falha ao excluir item de pedido.", err)
		return err
	}

	s.logger.Info("Item de pedido excluído.", map[string]interface{}{"id": id, "id_pedido": atual.IDPedido})
	return nil
}

// montarItem confere pedido e prancha e calcula o subtotal com o preço recebido.
func (s *Service) montarItem(ctx context.Context, idPedido int64, dto domain.ItemPedidoDTO) (domain.ItemPedido, error) {
	if idPedido <= 0 {
		return domain.ItemPedido{}, apperror.NewValidationError("idPedido", "ID de Pedido é obrigatório e válido.")
	}
	existe, err := s.repo.ExistePedido(ctx, idPedido)
	if err != nil {
		return domain.ItemPedido{}, err
	}
	if !existe {
		s.logger.Warn("Pedido não encontrado para o item.", map[string]interface{}{"id_pedido": idPedido})
		return domain.ItemPedido{}, apperror.NewNotFoundError("idPedido", "Pedido não encontrado.")
	}

	if dto.IDPrancha <= 0 {
		return domain.ItemPedido{}, apperror.NewValidationError("idPrancha", "ID de Prancha é obrigatório e válido.")
	}
	if _, err := s.pranchas.FindByID(ctx, dto.IDPrancha); err != nil {
		if apperror.IsValidation(err) {
			s.logger.Warn("Prancha não encontrada para o item.", map[string]interface{}{"id_prancha": dto.IDPrancha})
			return domain.ItemPedido{}, apperror.NewNotFoundError("idPrancha", "Prancha não encontrada.")
		}
		return domain.ItemPedido{}, err
	}

	if dto.Quantidade <= 0 {
		return domain.ItemPedido{}, apperror.NewValidationError("quantidade", "A quantidade deve ser maior que zero.")
	}

	item := domain.ItemPedido{
		IDPedido:   idPedido,
		IDPrancha:  dto.IDPrancha,
		Quantidade: dto.Quantidade,
		PrecoUnit:  dto.PrecoUnit,
	}
	item.CalcularSubTotal()
	return item, nil
}
