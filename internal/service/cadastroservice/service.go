package cadastroservice

import (
	"context"
	"fmt"
	"strings"

	apperror "pranchashop/internal/errors"
	"pranchashop/internal/pkg/logger"
)

// Repository é o CRUD genérico que o serviço espera (crudrepo.Store[T] ou um decorador dele).
type Repository[T any] interface {
	GetAll(ctx context.Context) ([]T, error)
	GetByID(ctx context.Context, id int64) (T, error)
	GetBy(ctx context.Context, column string, value interface{}) ([]T, error)
	Search(ctx context.Context, column, term string) ([]T, error)
	Create(ctx context.Context, item T) (T, error)
	Update(ctx context.Context, id int64, item T) (T, error)
	Delete(ctx context.Context, id int64) error
}

// Checker confirma que um registro referenciado existe.
type Checker interface {
	Existe(ctx context.Context, id int64) error
}

// Finder descreve uma busca por campo exposta em GET /x/<campo>/{valor}.
type Finder struct {
	Coluna  string
	Parcial bool // ILIKE em vez de igualdade
	// Converter transforma o valor recebido na URL (ex.: "FISH" -> 4). Nil repassa a string.
	Converter func(string) (interface{}, error)
}

// Referencia é uma chave estrangeira conferida antes de gravar.
type Referencia[T any] struct {
	Campo   string
	Msg     string // mensagem quando o registro referenciado não existe
	ID      func(T) int64
	Checker Checker
}

// Rules parametriza o serviço genérico para uma entidade.
type Rules[T any] struct {
	Entidade    string // nome de exibição, ex.: "Modelo"
	Feminino    bool
	Lista       string // campo da falha de lista vazia, ex.: "listaModelos"
	Validar     func(T) error
	Referencias []Referencia[T]
	Finders     map[string]Finder
	// Mesclar decide o que o update preserva do registro atual. Nil grava o novo como veio.
	Mesclar func(atual, novo T) T
}

type Service[T any] struct {
	repo   Repository[T]
	rules  Rules[T]
	logger logger.Logger
}

func NewService[T any](repo Repository[T], rules Rules[T], logger logger.Logger) *Service[T] {
	return &Service[T]{repo: repo, rules: rules, logger: logger}
}

// Entidade devolve o nome da entidade atendida.
func (s *Service[T]) Entidade() string { return s.rules.Entidade }

func (s *Service[T]) nenhum() string {
	if s.rules.Feminino {
		return "Nenhuma " + strings.ToLower(s.rules.Entidade)
	}
	return "Nenhum " + strings.ToLower(s.rules.Entidade)
}

func (s *Service[T]) naoEncontrado() string {
	if s.rules.Feminino {
		return s.rules.Entidade + " não encontrada"
	}
	return s.rules.Entidade + " não encontrado"
}

func (s *Service[T]) cadastrado() string {
	if s.rules.Feminino {
		return "cadastrada"
	}
	return "cadastrado"
}

func (s *Service[T]) FindAll(ctx context.Context) ([]T, error) {
	s.logger.Debug("Buscando todos os registros.", map[string]interface{}{"entidade": s.rules.Entidade})

	lista, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(lista) == 0 {
		s.logger.Warn("Nenhum registro encontrado.", map[string]interface{}{"entidade": s.rules.Entidade})
		return nil, apperror.NewValidationError(s.rules.Lista, fmt.Sprintf("%s %s", s.nenhum(), s.cadastrado()))
	}
	return lista, nil
}

// FindBy executa o finder registrado com o nome informado.
func (s *Service[T]) FindBy(ctx context.Context, campo, valor string) ([]T, error) {
	finder, ok := s.rules.Finders[campo]
	if !ok {
		return nil, apperror.NewInternalError(fmt.Sprintf("Busca por %s não suportada em %s", campo, s.rules.Entidade), nil)
	}

	valor = strings.TrimSpace(valor)
	if valor == "" {
		return nil, apperror.NewValidationError(campo, fmt.Sprintf("O campo %s é obrigatório", campo))
	}

	var (
		lista []T
		err   error
	)
	switch {
	case finder.Converter != nil:
		v, convErr := finder.Converter(valor)
		if convErr != nil {
			return nil, apperror.NewValidationError(campo, convErr.Error())
		}
		lista, err = s.repo.GetBy(ctx, finder.Coluna, v)
	case finder.Parcial:
		lista, err = s.repo.Search(ctx, finder.Coluna, valor)
	default:
		lista, err = s.repo.GetBy(ctx, finder.Coluna, valor)
	}
	if err != nil {
		return nil, err
	}

	if len(lista) == 0 {
		s.logger.Warn("Busca sem resultados.", map[string]interface{}{"entidade": s.rules.Entidade, "campo": campo, "valor": valor})
		encontrado := "encontrado"
		if s.rules.Feminino {
			encontrado = "encontrada"
		}
		return nil, apperror.NewNotFoundError(campo, fmt.Sprintf("%s %s para o %s informado", s.nenhum(), encontrado, campo))
	}
	return lista, nil
}

func (s *Service[T]) FindByID(ctx context.Context, id int64) (T, error) {
	var zero T
	if id <= 0 {
		return zero, apperror.NewValidationError("id", "id inválido")
	}

	item, err := s.repo.GetByID(ctx, id)
	if apperror.IsNotFound(err) {
		s.logger.Warn("Registro não encontrado.", map[string]interface{}{"entidade": s.rules.Entidade, "id": id})
		return zero, apperror.NewNotFoundError("id", s.naoEncontrado())
	}
	return item, err
}

// Existe satisfaz Checker para que outras entidades referenciem esta.
func (s *Service[T]) Existe(ctx context.Context, id int64) error {
	_, err := s.FindByID(ctx, id)
	return err
}

func (s *Service[T]) Create(ctx context.Context, item T) (T, error) {
	s.logger.Debug("Criando registro.", map[string]interface{}{"entidade": s.rules.Entidade})

	var zero T
	if err := s.validar(ctx, item); err != nil {
		return zero, err
	}

	criado, err := s.repo.Create(ctx, item)
	if err != nil {
		return zero, err
	}

	s.logger.Info("Registro criado.", map[string]interface{}{"entidade": s.rules.Entidade})
	return criado, nil
}

func (s *Service[T]) Update(ctx context.Context, id int64, item T) error {
	s.logger.Debug("Alterando registro.", map[string]interface{}{"entidade": s.rules.Entidade, "id": id})

	atual, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.validar(ctx, item); err != nil {
		return err
	}
	if s.rules.Mesclar != nil {
		item = s.rules.Mesclar(atual, item)
	}

	if _, err := s.repo.Update(ctx, id, item); err != nil {
		if apperror.IsNotFound(err) {
			return apperror.NewNotFoundError("id", s.naoEncontrado())
		}
		return err
	}

	s.logger.Info("Registro alterado.", map[string]interface{}{"entidade": s.rules.Entidade, "id": id})
	return nil
}

func (s *Service[T]) Delete(ctx context.Context, id int64) error {
	if _, err := s.FindByID(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if apperror.IsNotFound(err) {
			return apperror.NewNotFoundError("id", s.naoEncontrado())
		}
		return err
	}

	s.logger.Info("Registro excluído.", map[string]interface{}{"entidade": s.rules.Entidade, "id": id})
	return nil
}

// validar aplica os campos obrigatórios e depois confere as referências.
func (s *Service[T]) validar(ctx context.Context, item T) error {
	if s.rules.Validar != nil {
		if err := s.rules.Validar(item); err != nil {
			s.logger.Warn("Registro rejeitado.", map[string]interface{}{"entidade": s.rules.Entidade, "campo": apperror.FieldOf(err)})
			return err
		}
	}

	for _, ref := range s.rules.Referencias {
		id := ref.ID(item)
		if id <= 0 {
			return apperror.NewValidationError(ref.Campo, ref.Campo+" inválido")
		}
		if err := ref.Checker.Existe(ctx, id); err != nil {
			if apperror.IsValidation(err) {
				s.logger.Warn("Referência inexistente.", map[string]interface{}{"entidade": s.rules.Entidade, "campo": ref.Campo, "id": id})
				return apperror.NewNotFoundError(ref.Campo, ref.Msg)
			}
			return err
		}
	}
	return nil
}
