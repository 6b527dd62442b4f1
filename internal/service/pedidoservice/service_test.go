package pedidoservice_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pranchashop/internal/domain"
	apperror "pranchashop/internal/errors"
	"pranchashop/internal/pkg/events"
	"pranchashop/internal/pkg/logger"
	"pranchashop/internal/service/pedidoservice"
)

// memRepo guarda pedidos e estoque em memória; WithTx desfaz tudo se fn falhar.
type memRepo struct {
	pedidos map[int64]domain.Pedido
	estoque map[int64]int
	nextID  int64
}

func newMemRepo(estoque map[int64]int) *memRepo {
	return &memRepo{pedidos: map[int64]domain.Pedido{}, estoque: estoque}
}

func (r *memRepo) GetAll(ctx context.Context) ([]domain.Pedido, error) {
	var out []domain.Pedido
	for _, p := range r.pedidos {
		out = append(out, p)
	}
	return out, nil
}

func (r *memRepo) GetByCliente(ctx context.Context, idCliente int64) ([]domain.Pedido, error) {
	var out []domain.Pedido
	for _, p := range r.pedidos {
		if p.Cliente.ID == idCliente {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memRepo) GetByID(ctx context.Context, id int64) (domain.Pedido, error) {
	p, ok := r.pedidos[id]
	if !ok {
		return domain.Pedido{}, apperror.NewNotFoundError("id", "Pedido não encontrado")
	}
	p.Itens = append([]domain.ItemPedido(nil), p.Itens...)
	return p, nil
}

func (r *memRepo) Insert(ctx context.Context, p domain.Pedido) (domain.Pedido, error) {
	r.nextID++
	p.ID = r.nextID
	p.Pagamento.ID = r.nextID * 10
	for i := range p.Itens {
		p.Itens[i].ID = r.nextID*100 + int64(i)
		p.Itens[i].IDPedido = p.ID
	}
	r.pedidos[p.ID] = p
	return p, nil
}

func (r *memRepo) UpdateEndereco(ctx context.Context, id int64, e domain.Endereco) error {
	p := r.pedidos[id]
	p.Endereco = e
	r.pedidos[id] = p
	return nil
}

func (r *memRepo) UpdatePagamento(ctx context.Context, pg domain.Pagamento) error {
	for id, p := range r.pedidos {
		if p.Pagamento.ID == pg.ID {
			p.Pagamento = pg
			r.pedidos[id] = p
			return nil
		}
	}
	return apperror.NewNotFoundError("id", "Pagamento não encontrado")
}

func (r *memRepo) Delete(ctx context.Context, p domain.Pedido) error {
	delete(r.pedidos, p.ID)
	return nil
}

func (r *memRepo) LockEstoque(ctx context.Context, idPrancha int64) (int, error) {
	e, ok := r.estoque[idPrancha]
	if !ok {
		return 0, apperror.NewNotFoundError("idPrancha", "Prancha não encontrada")
	}
	return e, nil
}

func (r *memRepo) DecrementEstoque(ctx context.Context, idPrancha int64, quantidade int) error {
	r.estoque[idPrancha] -= quantidade
	return nil
}

func (r *memRepo) WithTx(ctx context.Context, fn func(repo pedidoservice.PedidoRepository) error) error {
	pedidos := make(map[int64]domain.Pedido, len(r.pedidos))
	for k, v := range r.pedidos {
		pedidos[k] = v
	}
	estoque := make(map[int64]int, len(r.estoque))
	for k, v := range r.estoque {
		estoque[k] = v
	}

	if err := fn(r); err != nil {
		r.pedidos, r.estoque = pedidos, estoque
		return err
	}
	return nil
}

// MockPedidoRepository é usado onde só importa qual chamada chega ao repositório.
type MockPedidoRepository struct {
	mock.Mock
}

func (m *MockPedidoRepository) GetAll(ctx context.Context) ([]domain.Pedido, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Pedido), args.Error(1)
}

func (m *MockPedidoRepository) GetByCliente(ctx context.Context, idCliente int64) ([]domain.Pedido, error) {
	args := m.Called(ctx, idCliente)
	return args.Get(0).([]domain.Pedido), args.Error(1)
}

func (m *MockPedidoRepository) GetByID(ctx context.Context, id int64) (domain.Pedido, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Pedido), args.Error(1)
}

func (m *MockPedidoRepository) Insert(ctx context.Context, p domain.Pedido) (domain.Pedido, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(domain.Pedido), args.Error(1)
}

func (m *MockPedidoRepository) UpdateEndereco(ctx context.Context, id int64, e domain.Endereco) error {
	return m.Called(ctx, id, e).Error(0)
}

func (m *MockPedidoRepository) UpdatePagamento(ctx context.Context, pg domain.Pagamento) error {
	return m.Called(ctx, pg).Error(0)
}

func (m *MockPedidoRepository) Delete(ctx context.Context, p domain.Pedido) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPedidoRepository) LockEstoque(ctx context.Context, idPrancha int64) (int, error) {
	args := m.Called(ctx, idPrancha)
	return args.Int(0), args.Error(1)
}

func (m *MockPedidoRepository) DecrementEstoque(ctx context.Context, idPrancha int64, quantidade int) error {
	return m.Called(ctx, idPrancha, quantidade).Error(0)
}

func (m *MockPedidoRepository) WithTx(ctx context.Context, fn func(repo pedidoservice.PedidoRepository) error) error {
	return fn(m)
}

type fakeClientes map[int64]domain.Cliente

func (f fakeClientes) FindByID(ctx context.Context, id int64) (domain.Cliente, error) {
	c, ok := f[id]
	if !ok {
		return domain.Cliente{}, apperror.NewNotFoundError("id", "Cliente não encontrado")
	}
	return c, nil
}

type fakePranchas map[int64]domain.Prancha

func (f fakePranchas) FindByID(ctx context.Context, id int64) (domain.Prancha, error) {
	p, ok := f[id]
	if !ok {
		return domain.Prancha{}, apperror.NewNotFoundError("id", "Prancha não encontrado")
	}
	return p, nil
}

type fakeCache struct {
	invalidados []int64
}

func (f *fakeCache) Invalidate(ctx context.Context, ids ...int64) {
	f.invalidados = append(f.invalidados, ids...)
}

type fakePublisher struct {
	tipos []string
	err   error
}

func (f *fakePublisher) Publish(ctx context.Context, env events.Envelope) error {
	f.tipos = append(f.tipos, env.EventType)
	return f.err
}

func (f *fakePublisher) Close() error { return nil }

// Helper function to create a basic logger
func newTestLogger() logger.Logger {
	return logger.NewLogger("error")
}

var (
	maria     = domain.Cliente{ID: 1, Nome: "Maria", Cpf: "123", Telefone: domain.Telefone{Ddd: "63", Numero: "99999"}}
	fish      = domain.Prancha{ID: 5, Valor: 100, Estoque: 5, TipoPrancha: domain.Fish}
	longboard = domain.Prancha{ID: 6, Valor: 300, Estoque: 1, TipoPrancha: domain.Longboard}
	palmas    = &domain.Endereco{Cidade: "Palmas", Estado: "TO", Cep: "77000"}
)

type cenario struct {
	svc       *pedidoservice.Service
	repo      *memRepo
	cache     *fakeCache
	publisher *fakePublisher
}

func novoCenario() cenario {
	repo := newMemRepo(map[int64]int{fish.ID: fish.Estoque, longboard.ID: longboard.Estoque})
	c := &fakeCache{}
	pub := &fakePublisher{}
	svc := pedidoservice.NewService(repo,
		fakeClientes{maria.ID: maria},
		fakePranchas{fish.ID: fish, longboard.ID: longboard},
		c, pub, newTestLogger())
	return cenario{svc: svc, repo: repo, cache: c, publisher: pub}
}

func pedidoPix(itens ...domain.ItemPedidoDTO) domain.PedidoRequest {
	return domain.PedidoRequest{
		IDCliente:      maria.ID,
		Endereco:       palmas,
		FormaPagamento: "PIX",
		Pix:            &domain.Pix{Chave: "maria@pix"},
		Itens:          itens,
	}
}

func assertCampo(t *testing.T, err error, campo string) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err), "esperava ValidationError, veio %T", err)
	assert.Equal(t, campo, apperror.FieldOf(err))
}

// --- CriarPagamento ---

func TestCriarPagamento(t *testing.T) {
	venc := domain.NovaData(2026, time.December, 1)

	tests := []struct {
		name  string
		req   domain.PedidoRequest
		campo string
		forma domain.FormaPagamento
	}{
		{"forma vazia", domain.PedidoRequest{FormaPagamento: "  "}, "formaPagamento", ""},
		{"pix sem dados", domain.PedidoRequest{FormaPagamento: "PIX"}, "pix", ""},
		{"boleto sem dados", domain.PedidoRequest{FormaPagamento: "BOLETO"}, "boleto", ""},
		{"cartao sem dados", domain.PedidoRequest{FormaPagamento: "CARTAO", Pix: &domain.Pix{Chave: "x"}}, "cartao", ""},
		{"forma desconhecida", domain.PedidoRequest{FormaPagamento: "DINHEIRO"}, "formaPagamento", ""},
		{"pix minusculo", domain.PedidoRequest{FormaPagamento: "pix", Pix: &domain.Pix{Chave: "k"}}, "", domain.FormaPix},
		{"boleto", domain.PedidoRequest{FormaPagamento: "Boleto", Boleto: &domain.Boleto{CodigoBarras: "1", DataVencimento: venc}}, "", domain.FormaBoleto},
		{"cartao ignora pix", domain.PedidoRequest{FormaPagamento: "cartao", Pix: &domain.Pix{Chave: "k"}, Cartao: &domain.Cartao{NumeroCartao: "4111"}}, "", domain.FormaCartao},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pg, err := pedidoservice.CriarPagamento(tt.req)
			if tt.campo != "" {
				assertCampo(t, err, tt.campo)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.forma, pg.Forma())
			assert.Equal(t, domain.StatusPendente, pg.Status)
			assert.Nil(t, pg.DataPagamento)
		})
	}
}

// --- Create ---

func TestCreate_PrecoDaPranchaETotal(t *testing.T) {
	c := novoCenario()

	resp, err := c.svc.Create(context.Background(), pedidoPix(
		domain.ItemPedidoDTO{IDPrancha: fish.ID, Quantidade: 2, PrecoUnit: 1},
		domain.ItemPedidoDTO{IDPrancha: longboard.ID, Quantidade: 1},
	))

	require.NoError(t, err)
	assert.Equal(t, 500.0, resp.ValorTotal)
	assert.Equal(t, 100.0, resp.Itens[0].PrecoUnit)

	salvo := c.repo.pedidos[resp.ID]
	assert.Equal(t, 200.0, salvo.Itens[0].SubTotal)
	assert.Equal(t, domain.SomarItens(salvo.Itens), salvo.ValorTotal)
	assert.Equal(t, fish.Estoque, c.repo.estoque[fish.ID], "criar não mexe no estoque")

	assert.Equal(t, "Pix", resp.FormaPagamento)
	assert.NotNil(t, resp.Pix)
	assert.Nil(t, resp.Boleto)
	assert.Nil(t, resp.Cartao)
	assert.Equal(t, "Maria", resp.Cliente.Nome)
	assert.Equal(t, "Palmas", resp.Endereco.Cidade)
	assert.Equal(t, []string{events.PedidoCriado}, c.publisher.tipos)
}

func TestCreate_Falhas(t *testing.T) {
	tests := []struct {
		name  string
		req   func() domain.PedidoRequest
		campo string
	}{
		{"cliente inexistente", func() domain.PedidoRequest {
			r := pedidoPix(domain.ItemPedidoDTO{IDPrancha: fish.ID, Quantidade: 1})
			r.IDCliente = 99
			return r
		}, "idCliente"},
		{"sem endereco", func() domain.PedidoRequest {
			r := pedidoPix(domain.ItemPedidoDTO{IDPrancha: fish.ID, Quantidade: 1})
			r.Endereco = nil
			return r
		}, "endereco"},
		{"pix sem dados", func() domain.PedidoRequest {
			r := pedidoPix(domain.ItemPedidoDTO{IDPrancha: fish.ID, Quantidade: 1})
			r.Pix = nil
			return r
		}, "pix"},
		{"sem itens", func() domain.PedidoRequest { return pedidoPix() }, "itens"},
		{"prancha inexistente", func() domain.PedidoRequest {
			return pedidoPix(domain.ItemPedidoDTO{IDPrancha: 42, Quantidade: 1})
		}, "idPrancha"},
		{"quantidade zero", func() domain.PedidoRequest {
			return pedidoPix(domain.ItemPedidoDTO{IDPrancha: fish.ID, Quantidade: 0})
		}, "quantidade"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := novoCenario()

			_, err := c.svc.Create(context.Background(), tt.req())

			assertCampo(t, err, tt.campo)
			assert.Empty(t, c.repo.pedidos)
			assert.Empty(t, c.publisher.tipos)
		})
	}
}

func TestCreate_ClienteInexistenteResponde404(t *testing.T) {
	c := novoCenario()
	req := pedidoPix(domain.ItemPedidoDTO{IDPrancha: fish.ID, Quantidade: 1})
	req.IDCliente = 99

	_, err := c.svc.Create(context.Background(), req)

	assert.True(t, apperror.IsNotFound(err))
}

func TestCreate_FalhaNoBrokerNaoDesfazPedido(t *testing.T) {
	c := novoCenario()
	c.publisher.err = errors.New("broker fora do ar")

	resp, err := c.svc.Create(context.Background(), pedidoPix(domain.ItemPedidoDTO{IDPrancha: fish.ID, Quantidade: 1}))

	require.NoError(t, err)
	assert.Contains(t, c.repo.pedidos, resp.ID)
}

// --- Finalizar (cenários C1/B1) ---

func TestFinalizar_BaixaEstoqueEPaga(t *testing.T) {
	c := novoCenario()
	ctx := context.Background()

	resp, err := c.svc.Create(ctx, pedidoPix(domain.ItemPedidoDTO{IDPrancha: fish.ID, Quantidade: 2}))
	require.NoError(t, err)
	assert.Equal(t, 200.0, resp.ValorTotal)

	require.NoError(t, c.svc.Finalizar(ctx, resp.ID))

	assert.Equal(t, 3, c.repo.estoque[fish.ID])
	pg := c.repo.pedidos[resp.ID].Pagamento
	assert.Equal(t, domain.StatusPago, pg.Status)
	assert.NotNil(t, pg.DataPagamento)
	assert.Equal(t, []int64{fish.ID}, c.cache.invalidados)
	assert.Equal(t, []string{events.PedidoCriado, events.PedidoFinalizado}, c.publisher.tipos)

	// segundo pedido acima do estoque restante
	resp2, err := c.svc.Create(ctx, pedidoPix(domain.ItemPedidoDTO{IDPrancha: fish.ID, Quantidade: 10}))
	require.NoError(t, err)

	err = c.svc.Finalizar(ctx, resp2.ID)

	assertCampo(t, err, "estoque")
	assert.Contains(t, err.Error(), "Prancha 5 não tem estoque suficiente!")
	assert.Equal(t, 3, c.repo.estoque[fish.ID])
	assert.Equal(t, domain.StatusPendente, c.repo.pedidos[resp2.ID].Pagamento.Status)
}

func TestFinalizar_TudoOuNada(t *testing.T) {
	c := novoCenario()
	ctx := context.Background()

	// a primeira linha cabe no estoque, a segunda não
	resp, err := c.svc.Create(ctx, pedidoPix(
		domain.ItemPedidoDTO{IDPrancha: fish.ID, Quantidade: 2},
		domain.ItemPedidoDTO{IDPrancha: longboard.ID, Quantidade: 3},
	))
	require.NoError(t, err)

	err = c.svc.Finalizar(ctx, resp.ID)

	assertCampo(t, err, "estoque")
	assert.Equal(t, 5, c.repo.estoque[fish.ID])
	assert.Equal(t, 1, c.repo.estoque[longboard.ID])
	assert.Empty(t, c.cache.invalidados)
}

func TestFinalizar_LinhasDaMesmaPranchaSomam(t *testing.T) {
	c := novoCenario()
	ctx := context.Background()

	resp, err := c.svc.Create(ctx, pedidoPix(
		domain.ItemPedidoDTO{IDPrancha: fish.ID, Quantidade: 3},
		domain.ItemPedidoDTO{IDPrancha: fish.ID, Quantidade: 3},
	))
	require.NoError(t, err)

	assertCampo(t, c.svc.Finalizar(ctx, resp.ID), "estoque")
	assert.Equal(t, 5, c.repo.estoque[fish.ID])
}

func TestFinalizar_PedidoInexistente(t *testing.T) {
	c := novoCenario()

	err := c.svc.Finalizar(context.Background(), 77)

	assertCampo(t, err, "idPedido")
	assert.True(t, apperror.IsNotFound(err))
}

func TestFinalizar_TravaPranchasEmOrdem(t *testing.T) {
	repo := new(MockPedidoRepository)
	pedido := domain.Pedido{
		ID:        1,
		Pagamento: domain.NovoPagamento(domain.Pix{Chave: "k"}),
		Itens: []domain.ItemPedido{
			{IDPrancha: 9, Quantidade: 1},
			{IDPrancha: 3, Quantidade: 1},
		},
	}
	repo.On("GetByID", mock.Anything, int64(1)).Return(pedido, nil)
	lock3 := repo.On("LockEstoque", mock.Anything, int64(3)).Return(1, nil).Once()
	repo.On("LockEstoque", mock.Anything, int64(9)).Return(1, nil).Once().NotBefore(lock3)
	repo.On("DecrementEstoque", mock.Anything, mock.Anything, 1).Return(nil).Twice()
	repo.On("UpdatePagamento", mock.Anything, mock.MatchedBy(func(pg domain.Pagamento) bool {
		return pg.Status == domain.StatusPago && pg.DataPagamento != nil
	})).Return(nil)

	svc := pedidoservice.NewService(repo, fakeClientes{}, fakePranchas{}, &fakeCache{}, events.NopPublisher{}, newTestLogger())

	require.NoError(t, svc.Finalizar(context.Background(), 1))
	repo.AssertExpectations(t)
}

// --- Pagar / Update ---

func TestPagar_Idempotente(t *testing.T) {
	c := novoCenario()
	ctx := context.Background()
	t1 := time.Date(2026, time.May, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)

	resp, err := c.svc.Create(ctx, pedidoPix(domain.ItemPedidoDTO{IDPrancha: fish.ID, Quantidade: 1}))
	require.NoError(t, err)

	c.svc.SetClock(func() time.Time { return t1 })
	require.NoError(t, c.svc.Pagar(ctx, resp.ID))
	c.svc.SetClock(func() time.Time { return t2 })
	require.NoError(t, c.svc.Pagar(ctx, resp.ID))

	pg := c.repo.pedidos[resp.ID].Pagamento
	assert.Equal(t, domain.StatusPago, pg.Status)
	assert.Equal(t, t2, *pg.DataPagamento)
	assert.Equal(t, 5, c.repo.estoque[fish.ID], "pagar não mexe no estoque")
}

func TestPagar_PedidoInexistente(t *testing.T) {
	c := novoCenario()

	assertCampo(t, c.svc.Pagar(context.Background(), 3), "id")
}

func TestUpdate_DepoisDePagarVoltaParaPendente(t *testing.T) {
	c := novoCenario()
	ctx := context.Background()

	resp, err := c.svc.Create(ctx, pedidoPix(domain.ItemPedidoDTO{IDPrancha: fish.ID, Quantidade: 2}))
	require.NoError(t, err)
	require.NoError(t, c.svc.Pagar(ctx, resp.ID))
	idPagamento := c.repo.pedidos[resp.ID].Pagamento.ID

	err = c.svc.Update(ctx, resp.ID, domain.PedidoRequest{
		Endereco:       &domain.Endereco{Cidade: "Floripa", Estado: "SC", Cep: "88000"},
		FormaPagamento: "boleto",
		Boleto:         &domain.Boleto{CodigoBarras: "789", DataVencimento: domain.NovaData(2026, time.June, 1)},
	})
	require.NoError(t, err)

	salvo := c.repo.pedidos[resp.ID]
	assert.Equal(t, "Floripa", salvo.Endereco.Cidade)
	assert.Equal(t, idPagamento, salvo.Pagamento.ID)
	assert.Equal(t, domain.FormaBoleto, salvo.Pagamento.Forma())
	assert.Equal(t, domain.StatusPendente, salvo.Pagamento.Status)
	assert.Nil(t, salvo.Pagamento.DataPagamento)
	assert.Equal(t, 200.0, salvo.ValorTotal, "itens e total ficam como estão")
}

func TestUpdate_Falhas(t *testing.T) {
	c := novoCenario()
	ctx := context.Background()

	assertCampo(t, c.svc.Update(ctx, 50, pedidoPix()), "id")

	resp, err := c.svc.Create(ctx, pedidoPix(domain.ItemPedidoDTO{IDPrancha: fish.ID, Quantidade: 1}))
	require.NoError(t, err)

	req := pedidoPix()
	req.FormaPagamento = "cheque"
	assertCampo(t, c.svc.Update(ctx, resp.ID, req), "formaPagamento")
	assert.Equal(t, domain.FormaPix, c.repo.pedidos[resp.ID].Pagamento.Forma())
}

// --- Consultas / Delete ---

func TestFindAll_Vazio(t *testing.T) {
	repo := new(MockPedidoRepository)
	repo.On("GetAll", mock.Anything).Return([]domain.Pedido(nil), nil)
	svc := pedidoservice.NewService(repo, fakeClientes{}, fakePranchas{}, &fakeCache{}, events.NopPublisher{}, newTestLogger())

	_, err := svc.FindAll(context.Background())

	assertCampo(t, err, "listaPedidos")
}

func TestFindAll_ErroDoRepositorio(t *testing.T) {
	repo := new(MockPedidoRepository)
	repo.On("GetAll", mock.Anything).Return([]domain.Pedido(nil), apperror.NewDBError("falha", errors.New("conexão perdida")))
	svc := pedidoservice.NewService(repo, fakeClientes{}, fakePranchas{}, &fakeCache{}, events.NopPublisher{}, newTestLogger())

	_, err := svc.FindAll(context.Background())

	assert.IsType(t, &apperror.InternalError{}, err)
}

func TestFindByCliente(t *testing.T) {
	c := novoCenario()
	ctx := context.Background()

	_, err := c.svc.FindByCliente(ctx, 99)
	assertCampo(t, err, "idCliente")

	_, err = c.svc.Create(ctx, pedidoPix(domain.ItemPedidoDTO{IDPrancha: fish.ID, Quantidade: 1}))
	require.NoError(t, err)

	pedidos, err := c.svc.FindByCliente(ctx, maria.ID)
	require.NoError(t, err)
	assert.Len(t, pedidos, 1)
}

func TestDelete(t *testing.T) {
	c := novoCenario()
	ctx := context.Background()

	resp, err := c.svc.Create(ctx, pedidoPix(domain.ItemPedidoDTO{IDPrancha: fish.ID, Quantidade: 1}))
	require.NoError(t, err)

	require.NoError(t, c.svc.Delete(ctx, resp.ID))
	assert.NotContains(t, c.repo.pedidos, resp.ID)

	_, err = c.svc.FindByID(ctx, resp.ID)
	assertCampo(t, err, "id")
}
