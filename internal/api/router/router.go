package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"pranchashop/internal/api/auth"
	"pranchashop/internal/api/cadastro"
	"pranchashop/internal/api/itempedido"
	"pranchashop/internal/api/pagamento"
	"pranchashop/internal/api/pedido"
	"pranchashop/internal/domain"
	"pranchashop/internal/pkg/cache"
	"pranchashop/internal/pkg/logger"
	"pranchashop/internal/pkg/middleware"
)

// Handlers reúne os handlers já montados por injeção de dependências.
type Handlers struct {
	Pedido    *pedido.Handler
	Item      *itempedido.Handler
	Pagamento *pagamento.Handler
	Auth      *auth.Handler

	Prancha       *cadastro.Handler[domain.Prancha]
	Marca         *cadastro.Handler[domain.Marca]
	Modelo        *cadastro.Handler[domain.Modelo]
	Quilha        *cadastro.Handler[domain.Quilha]
	TipoQuilha    *cadastro.Handler[domain.TipoQuilha]
	Fornecedor    *cadastro.Handler[domain.Fornecedor]
	Administrador *cadastro.Handler[domain.Administrador]
	Cliente       *cadastro.Handler[domain.Cliente]
	Endereco      *cadastro.Handler[domain.Endereco]
	Telefone      *cadastro.Handler[domain.Telefone]
	Pix           *cadastro.Handler[domain.Pagamento]
	Boleto        *cadastro.Handler[domain.Pagamento]
	Cartao        *cadastro.Handler[domain.Pagamento]
}

// RateLimit é a configuração do limitador por IP.
type RateLimit struct {
	MaxRequests int
	Period      time.Duration
}

var (
	somenteADM  = []domain.Perfil{domain.PerfilADM}
	somenteUSER = []domain.Perfil{domain.PerfilUSER}
	todos       = []domain.Perfil{domain.PerfilADM, domain.PerfilUSER}
)

// NewRouter configura e retorna o roteador HTTP principal.
func NewRouter(h Handlers, tokenSvc middleware.TokenService, cacheClient cache.Client, limit RateLimit, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID, chimw.RealIP, chimw.Logger, chimw.Recoverer)
	r.Use(chimw.Timeout(15 * time.Second))
	r.Use(middleware.RateLimiter(cacheClient, limit.MaxRequests, limit.Period, log))

	r.Get("/ping", PingHandler)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	r.Post("/auth", h.Auth.LoginHandler)

	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAuthMiddleware(tokenSvc))

		r.With(middleware.PermissionMiddleware(somenteADM...)).Post("/usuarios", h.Auth.CreateUsuarioHandler)

		r.Route("/pedidos", func(r chi.Router) {
			leitura := r.With(middleware.PermissionMiddleware(todos...))
			leitura.Get("/", h.Pedido.ListHandler)
			leitura.Get("/{id}", h.Pedido.GetByIDHandler)
			leitura.Get("/cliente/{idCliente}", h.Pedido.ListByClienteHandler)
			leitura.Get("/{idPedido}/itens", h.Item.ListByPedidoHandler)

			escrita := r.With(middleware.PermissionMiddleware(somenteUSER...))
			escrita.Post("/", h.Pedido.CreateHandler)
			escrita.Put("/{id}", h.Pedido.UpdateHandler)
			escrita.Put("/{id}/pagar", h.Pedido.PagarHandler)
			escrita.Put("/{id}/finalizar", h.Pedido.FinalizarHandler)
			escrita.Delete("/{id}", h.Pedido.DeleteHandler)
			escrita.Post("/{idPedido}/itens", h.Item.CreateHandler)
			escrita.Put("/{idPedido}/itens/{idItem}", h.Item.UpdateHandler)
			escrita.Delete("/{idPedido}/itens/{idItem}", h.Item.DeleteHandler)
		})

		r.Route("/itens", func(r chi.Router) {
			r.Use(middleware.PermissionMiddleware(somenteADM...))
			r.Get("/", h.Item.ListHandler)
			r.Get("/{id}", h.Item.GetByIDHandler)
		})

		r.Route("/pagamentos", func(r chi.Router) {
			r.With(middleware.PermissionMiddleware(todos...)).Get("/{id}", h.Pagamento.GetByIDHandler)
			r.With(middleware.PermissionMiddleware(somenteADM...)).Put("/{id}/status", h.Pagamento.AtualizarStatusHandler)
		})

		// Catálogo: escrita só ADM.
		montarCadastro(r, "/pranchas", h.Prancha, somenteADM)
		montarCadastro(r, "/marcas", h.Marca, somenteADM)
		montarCadastro(r, "/modelos", h.Modelo, somenteADM)
		montarCadastro(r, "/quilhas", h.Quilha, somenteADM)
		montarCadastro(r, "/tiposquilha", h.TipoQuilha, somenteADM)
		montarCadastro(r, "/fornecedores", h.Fornecedor, somenteADM)
		montarCadastro(r, "/administradores", h.Administrador, somenteADM)

		// Lado do cliente: escrita USER ou ADM.
		montarCadastro(r, "/clientes", h.Cliente, todos)
		montarCadastro(r, "/enderecos", h.Endereco, todos)
		montarCadastro(r, "/telefones", h.Telefone, todos)
		montarCadastro(r, "/pix", h.Pix, todos)
		montarCadastro(r, "/boletos", h.Boleto, todos)
		montarCadastro(r, "/cartoes", h.Cartao, todos)
	})

	return r
}

// montarCadastro registra o CRUD de uma entidade: leitura para ADM e USER, escrita para os perfis informados.
func montarCadastro[T any](r chi.Router, path string, h *cadastro.Handler[T], escrita []domain.Perfil) {
	r.Route(path, func(r chi.Router) {
		leitura := r.With(middleware.PermissionMiddleware(todos...))
		leitura.Get("/", h.ListHandler)
		leitura.Get("/{id}", h.GetByIDHandler)
		leitura.Get("/"+h.Finder+"/{valor}", h.FindByHandler)

		grava := r.With(middleware.PermissionMiddleware(escrita...))
		grava.Post("/", h.CreateHandler)
		grava.Put("/{id}", h.UpdateHandler)
		grava.Delete("/{id}", h.DeleteHandler)
	})
}

// PingHandler é o health check.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}
