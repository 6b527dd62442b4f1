package cadastroservice_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pranchashop/internal/domain"
	apperror "pranchashop/internal/errors"
	"pranchashop/internal/pkg/logger"
	"pranchashop/internal/service/cadastroservice"
)

type MockRepository[T any] struct {
	mock.Mock
}

func (m *MockRepository[T]) GetAll(ctx context.Context) ([]T, error) {
	args := m.Called(ctx)
	return args.Get(0).([]T), args.Error(1)
}

func (m *MockRepository[T]) GetByID(ctx context.Context, id int64) (T, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(T), args.Error(1)
}

func (m *MockRepository[T]) GetBy(ctx context.Context, column string, value interface{}) ([]T, error) {
	args := m.Called(ctx, column, value)
	return args.Get(0).([]T), args.Error(1)
}

func (m *MockRepository[T]) Search(ctx context.Context, column, term string) ([]T, error) {
	args := m.Called(ctx, column, term)
	return args.Get(0).([]T), args.Error(1)
}

func (m *MockRepository[T]) Create(ctx context.Context, item T) (T, error) {
	args := m.Called(ctx, item)
	return args.Get(0).(T), args.Error(1)
}

func (m *MockRepository[T]) Update(ctx context.Context, id int64, item T) (T, error) {
	args := m.Called(ctx, id, item)
	return args.Get(0).(T), args.Error(1)
}

func (m *MockRepository[T]) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// existentes responde Existe com sucesso só para os IDs cadastrados.
type existentes map[int64]bool

func (e existentes) Existe(ctx context.Context, id int64) error {
	if !e[id] {
		return apperror.NewNotFoundError("id", "não encontrado")
	}
	return nil
}

var log = logger.NewLogger("error")

func assertCampo(t *testing.T, err error, campo string) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, campo, apperror.FieldOf(err))
}

func TestFindByID_IdInvalidoENaoEncontrado(t *testing.T) {
	repo := new(MockRepository[domain.Marca])
	repo.On("GetByID", mock.Anything, int64(7)).Return(domain.Marca{}, apperror.NewNotFoundError("id", "Registro 7 não encontrado em marcas."))
	svc := cadastroservice.NewService[domain.Marca](repo, cadastroservice.RegrasMarca(), log)

	_, err := svc.FindByID(context.Background(), 0)
	assertCampo(t, err, "id")
	assert.Contains(t, err.Error(), "id inválido")
	repo.AssertNotCalled(t, "GetByID", mock.Anything, int64(0))

	_, err = svc.FindByID(context.Background(), 7)
	assertCampo(t, err, "id")
	assert.True(t, apperror.IsNotFound(err))
	assert.Contains(t, err.Error(), "Marca não encontrada")
}

func TestFindAll_ListaVazia(t *testing.T) {
	repo := new(MockRepository[domain.TipoQuilha])
	repo.On("GetAll", mock.Anything).Return([]domain.TipoQuilha(nil), nil)
	svc := cadastroservice.NewService[domain.TipoQuilha](repo, cadastroservice.RegrasTipoQuilha(), log)

	_, err := svc.FindAll(context.Background())

	assertCampo(t, err, "listaTiposQuilha")
	assert.Contains(t, err.Error(), "Nenhum tipo de quilha cadastrado")
}

func TestFindBy(t *testing.T) {
	t.Run("valor em branco", func(t *testing.T) {
		repo := new(MockRepository[domain.Cliente])
		svc := cadastroservice.NewService[domain.Cliente](repo, cadastroservice.RegrasCliente(), log)

		_, err := svc.FindBy(context.Background(), "cpf", "  ")

		assertCampo(t, err, "cpf")
		repo.AssertNotCalled(t, "GetBy", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("igualdade sem resultado", func(t *testing.T) {
		repo := new(MockRepository[domain.Cliente])
		repo.On("GetBy", mock.Anything, "cpf", "123").Return([]domain.Cliente{}, nil)
		svc := cadastroservice.NewService[domain.Cliente](repo, cadastroservice.RegrasCliente(), log)

		_, err := svc.FindBy(context.Background(), "cpf", "123")

		assertCampo(t, err, "cpf")
		assert.True(t, apperror.IsNotFound(err))
	})

	t.Run("nome usa busca parcial", func(t *testing.T) {
		repo := new(MockRepository[domain.Marca])
		repo.On("Search", mock.Anything, "nome", "lost").Return([]domain.Marca{{ID: 1, Nome: "Lost"}}, nil)
		svc := cadastroservice.NewService[domain.Marca](repo, cadastroservice.RegrasMarca(), log)

		marcas, err := svc.FindBy(context.Background(), "nome", "lost")

		require.NoError(t, err)
		assert.Len(t, marcas, 1)
	})

	t.Run("tipo de prancha convertido para o id", func(t *testing.T) {
		repo := new(MockRepository[domain.Prancha])
		repo.On("GetBy", mock.Anything, "tipo_prancha", int(domain.Fish)).Return([]domain.Prancha{{ID: 5}}, nil)
		svc := cadastroservice.NewService[domain.Prancha](repo, cadastroservice.RegrasPrancha(existentes{}, existentes{}, existentes{}), log)

		pranchas, err := svc.FindBy(context.Background(), "tipo", "fish")

		require.NoError(t, err)
		assert.Equal(t, int64(5), pranchas[0].ID)
	})

	t.Run("tipo de prancha desconhecido", func(t *testing.T) {
		repo := new(MockRepository[domain.Prancha])
		svc := cadastroservice.NewService[domain.Prancha](repo, cadastroservice.RegrasPrancha(existentes{}, existentes{}, existentes{}), log)

		_, err := svc.FindBy(context.Background(), "tipo", "SUP")

		assertCampo(t, err, "tipo")
		assert.False(t, apperror.IsNotFound(err))
	})
}

func TestCreate_ReferenciaInexistente(t *testing.T) {
	repo := new(MockRepository[domain.Modelo])
	svc := cadastroservice.NewService[domain.Modelo](repo, cadastroservice.RegrasModelo(existentes{1: true}), log)

	_, err := svc.Create(context.Background(), domain.Modelo{Nome: "Puddle Jumper", IDMarca: 2})

	assertCampo(t, err, "idMarca")
	assert.True(t, apperror.IsNotFound(err))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreate_Prancha(t *testing.T) {
	valida := domain.Prancha{Tamanho: 5.8, Valor: 1500, Estoque: 3, TipoPrancha: domain.Fish, Habilidade: domain.Intermediario, IDMarca: 1, IDModelo: 2, IDQuilha: 3}
	refs := existentes{1: true, 2: true, 3: true}

	tests := []struct {
		name  string
		muda  func(p *domain.Prancha)
		campo string
	}{
		{"tamanho zero", func(p *domain.Prancha) { p.Tamanho = 0 }, "tamanho"},
		{"estoque negativo", func(p *domain.Prancha) { p.Estoque = -1 }, "estoque"},
		{"tipo ausente", func(p *domain.Prancha) { p.TipoPrancha = 0 }, "tipoPrancha"},
		{"habilidade fora da enumeração", func(p *domain.Prancha) { p.Habilidade = 9 }, "habilidade"},
		{"modelo sem id", func(p *domain.Prancha) { p.IDModelo = 0 }, "idModelo"},
		{"quilha inexistente", func(p *domain.Prancha) { p.IDQuilha = 30 }, "idQuilha"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository[domain.Prancha])
			svc := cadastroservice.NewService[domain.Prancha](repo, cadastroservice.RegrasPrancha(refs, refs, refs), log)
			p := valida
			tt.muda(&p)

			_, err := svc.Create(context.Background(), p)

			assertCampo(t, err, tt.campo)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}

	t.Run("válida", func(t *testing.T) {
		repo := new(MockRepository[domain.Prancha])
		criada := valida
		criada.ID = 10
		repo.On("Create", mock.Anything, valida).Return(criada, nil)
		svc := cadastroservice.NewService[domain.Prancha](repo, cadastroservice.RegrasPrancha(refs, refs, refs), log)

		p, err := svc.Create(context.Background(), valida)

		require.NoError(t, err)
		assert.Equal(t, int64(10), p.ID)
	})
}

func TestUpdate_PixPreservaStatus(t *testing.T) {
	pagoEm := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	atual := domain.Pagamento{ID: 4, Status: domain.StatusPago, DataPagamento: &pagoEm, Metodo: domain.Pix{Chave: "antiga"}}
	esperado := domain.Pagamento{ID: 4, Status: domain.StatusPago, DataPagamento: &pagoEm, Metodo: domain.Pix{Chave: "nova"}}

	repo := new(MockRepository[domain.Pagamento])
	repo.On("GetByID", mock.Anything, int64(4)).Return(atual, nil)
	repo.On("Update", mock.Anything, int64(4), esperado).Return(esperado, nil)
	svc := cadastroservice.NewService[domain.Pagamento](repo, cadastroservice.RegrasPix(), log)

	err := svc.Update(context.Background(), 4, domain.NovoPagamento(domain.Pix{Chave: "nova"}))

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestCreate_BoletoSemVencimento(t *testing.T) {
	repo := new(MockRepository[domain.Pagamento])
	svc := cadastroservice.NewService[domain.Pagamento](repo, cadastroservice.RegrasBoleto(), log)

	_, err := svc.Create(context.Background(), domain.NovoPagamento(domain.Boleto{CodigoBarras: "0019"}))
	assertCampo(t, err, "dataVencimento")

	_, err = svc.Create(context.Background(), domain.NovoPagamento(domain.Pix{Chave: "k"}))
	assertCampo(t, err, "dto")
}

func TestDelete(t *testing.T) {
	repo := new(MockRepository[domain.Telefone])
	repo.On("GetByID", mock.Anything, int64(3)).Return(domain.Telefone{ID: 3}, nil)
	repo.On("Delete", mock.Anything, int64(3)).Return(nil)
	repo.On("GetByID", mock.Anything, int64(4)).Return(domain.Telefone{}, apperror.NewNotFoundError("id", "x"))
	svc := cadastroservice.NewService[domain.Telefone](repo, cadastroservice.RegrasTelefone(), log)

	require.NoError(t, svc.Delete(context.Background(), 3))

	err := svc.Delete(context.Background(), 4)
	assertCampo(t, err, "id")
	repo.AssertNotCalled(t, "Delete", mock.Anything, int64(4))
}

func TestExiste(t *testing.T) {
	repo := new(MockRepository[domain.Marca])
	repo.On("GetByID", mock.Anything, int64(1)).Return(domain.Marca{ID: 1}, nil)
	svc := cadastroservice.NewService[domain.Marca](repo, cadastroservice.RegrasMarca(), log)

	assert.NoError(t, svc.Existe(context.Background(), 1))
	assert.Error(t, svc.Existe(context.Background(), -1))
}
