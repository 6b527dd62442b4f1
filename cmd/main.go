package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	// Infraestrutura e utilitários
	"pranchashop/config"
	"pranchashop/internal/pkg/cache"
	"pranchashop/internal/pkg/database"
	"pranchashop/internal/pkg/events"
	"pranchashop/internal/pkg/logger"
	"pranchashop/internal/pkg/token"

	// Camadas para Injeção de Dependências
	"pranchashop/internal/api/auth"
	"pranchashop/internal/api/cadastro"
	"pranchashop/internal/api/itempedido"
	"pranchashop/internal/api/pagamento"
	"pranchashop/internal/api/pedido"
	"pranchashop/internal/api/router"
	"pranchashop/internal/domain"
	"pranchashop/internal/repository/crudrepo"
	"pranchashop/internal/repository/pedidorepo"
	"pranchashop/internal/repository/prancharepo"
	"pranchashop/internal/repository/usuariorepo"
	"pranchashop/internal/service/authservice"
	"pranchashop/internal/service/cadastroservice"
	"pranchashop/internal/service/itempedidoservice"
	"pranchashop/internal/service/pagamentoservice"
	"pranchashop/internal/service/pedidoservice"
)

// @title PranchaShop API
// @version 1.0
// @description Loja de pranchas de surf: catálogo, clientes, pedidos, itens e pagamentos.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Configuração e Inicialização
	log.Println("⚡ Inicializando serviço PranchaShop...")
	// O .env é opcional: em contêiner as variáveis já vêm do ambiente.
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ Aviso: Arquivo .env não encontrado ou erro de leitura. Carregando configs apenas do ambiente do sistema.")
	}

	cfg := config.LoadConfig()
	log := logger.NewLogger(cfg.LogLevel)
	log.Info("Configurações carregadas.", map[string]interface{}{"env": cfg.Environment})

	// 2. Conexão com Recursos de Infraestrutura

	// A. Banco de Dados (PostgreSQL)
	db, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Falha ao conectar ao banco de dados.", err)
	}
	defer db.Close()
	log.Info("Conexão PostgreSQL estabelecida.", nil)

	// B. Cache (Redis)
	cacheClient := cache.NewRedisClient(cfg.RedisAddr)
	log.Info("Conexão Redis estabelecida.", nil)

	// C. Eventos de pedido
	publisher := novoPublisher(cfg, log)

	// 3. INJEÇÃO DE DEPENDÊNCIAS
	// Ordem: Repository -> Service -> Handler

	// A. Cadastros de referência
	telefoneSvc := cadastroservice.NewService[domain.Telefone](
		crudrepo.NewStore(db, cfg.DBTimeout, crudrepo.TelefoneTable, log), cadastroservice.RegrasTelefone(), log)
	enderecoSvc := cadastroservice.NewService[domain.Endereco](
		crudrepo.NewStore(db, cfg.DBTimeout, crudrepo.EnderecoTable, log), cadastroservice.RegrasEndereco(), log)
	marcaSvc := cadastroservice.NewService[domain.Marca](
		crudrepo.NewStore(db, cfg.DBTimeout, crudrepo.MarcaTable, log), cadastroservice.RegrasMarca(), log)
	modeloSvc := cadastroservice.NewService[domain.Modelo](
		crudrepo.NewStore(db, cfg.DBTimeout, crudrepo.ModeloTable, log), cadastroservice.RegrasModelo(marcaSvc), log)
	tipoQuilhaSvc := cadastroservice.NewService[domain.TipoQuilha](
		crudrepo.NewStore(db, cfg.DBTimeout, crudrepo.TipoQuilhaTable, log), cadastroservice.RegrasTipoQuilha(), log)
	quilhaSvc := cadastroservice.NewService[domain.Quilha](
		crudrepo.NewStore(db, cfg.DBTimeout, crudrepo.QuilhaTable, log), cadastroservice.RegrasQuilha(tipoQuilhaSvc), log)
	fornecedorSvc := cadastroservice.NewService[domain.Fornecedor](
		crudrepo.NewStore(db, cfg.DBTimeout, crudrepo.FornecedorTable, log), cadastroservice.RegrasFornecedor(), log)
	administradorSvc := cadastroservice.NewService[domain.Administrador](
		crudrepo.NewStore(db, cfg.DBTimeout, crudrepo.AdministradorTable, log), cadastroservice.RegrasAdministrador(), log)
	clienteSvc := cadastroservice.NewService[domain.Cliente](
		crudrepo.NewStore(db, cfg.DBTimeout, crudrepo.ClienteTable, log), cadastroservice.RegrasCliente(), log)

	// Pix, boleto e cartão dividem a tabela de pagamentos, cada um filtrando a sua forma.
	pixSvc := cadastroservice.NewService[domain.Pagamento](
		crudrepo.NewStore(db, cfg.DBTimeout, crudrepo.PagamentoTable(domain.FormaPix), log), cadastroservice.RegrasPix(), log)
	boletoSvc := cadastroservice.NewService[domain.Pagamento](
		crudrepo.NewStore(db, cfg.DBTimeout, crudrepo.PagamentoTable(domain.FormaBoleto), log), cadastroservice.RegrasBoleto(), log)
	cartaoSvc := cadastroservice.NewService[domain.Pagamento](
		crudrepo.NewStore(db, cfg.DBTimeout, crudrepo.PagamentoTable(domain.FormaCartao), log), cadastroservice.RegrasCartao(), log)

	// B. Pranchas (Cache-Aside sobre o store)
	pranchaRepo := prancharepo.NewPranchaRepository(
		crudrepo.NewStore(db, cfg.DBTimeout, crudrepo.PranchaTable, log), cacheClient, cfg.CacheTTL, cfg.CacheTimeout, log)
	pranchaSvc := cadastroservice.NewService[domain.Prancha](pranchaRepo, cadastroservice.RegrasPrancha(marcaSvc, modeloSvc, quilhaSvc), log)
	log.Debug("Cadastros inicializados.", nil)

	// C. Pedidos, itens e pagamentos
	pedidoRepo := pedidorepo.NewPedidoRepository(db, cfg.DBTimeout, log)
	pedidoSvc := pedidoservice.NewService(pedidoRepo, clienteSvc, pranchaSvc, pranchaRepo, publisher, log)

	itemRepo := pedidorepo.NewItemRepository(db, cfg.DBTimeout, log)
	itemSvc := itempedidoservice.NewService(itemRepo, pranchaSvc, log)

	pagamentoSvc := pagamentoservice.NewService(crudrepo.NewStore(db, cfg.DBTimeout, crudrepo.PagamentoTable(""), log), log)
	log.Debug("Serviços de pedido inicializados.", nil)

	// D. Autenticação (JWT + usuários)
	tokenSvc := token.NewService(cfg.JWTSecretKey, cfg.JWTIssuer, cfg.TokenExpiry)
	usuarioRepo := usuariorepo.NewUsuarioRepository(db, cfg.DBTimeout, log)
	authSvc := authservice.NewService(usuarioRepo, tokenSvc, log)
	log.Debug("Serviço de autenticação inicializado.", nil)

	// E. Handlers
	handlers := router.Handlers{
		Pedido:    pedido.NewHandler(pedidoSvc, log),
		Item:      itempedido.NewHandler(itemSvc, log),
		Pagamento: pagamento.NewHandler(pagamentoSvc, log),
		Auth:      auth.NewHandler(authSvc, log),

		Prancha:       cadastro.NewHandler[domain.Prancha](pranchaSvc, "tipo", cadastro.DecodeJSON[domain.Prancha], log),
		Marca:         cadastro.NewHandler[domain.Marca](marcaSvc, "nome", cadastro.DecodeJSON[domain.Marca], log),
		Modelo:        cadastro.NewHandler[domain.Modelo](modeloSvc, "nome", cadastro.DecodeJSON[domain.Modelo], log),
		Quilha:        cadastro.NewHandler[domain.Quilha](quilhaSvc, "tipoQuilha", cadastro.DecodeJSON[domain.Quilha], log),
		TipoQuilha:    cadastro.NewHandler[domain.TipoQuilha](tipoQuilhaSvc, "nome", cadastro.DecodeJSON[domain.TipoQuilha], log),
		Fornecedor:    cadastro.NewHandler[domain.Fornecedor](fornecedorSvc, "cnpj", cadastro.DecodeJSON[domain.Fornecedor], log),
		Administrador: cadastro.NewHandler[domain.Administrador](administradorSvc, "nome", cadastro.DecodeJSON[domain.Administrador], log),
		Cliente:       cadastro.NewHandler[domain.Cliente](clienteSvc, "cpf", cadastro.DecodeJSON[domain.Cliente], log),
		Endereco:      cadastro.NewHandler[domain.Endereco](enderecoSvc, "cep", cadastro.DecodeJSON[domain.Endereco], log),
		Telefone:      cadastro.NewHandler[domain.Telefone](telefoneSvc, "numero", cadastro.DecodeJSON[domain.Telefone], log),
		Pix:           cadastro.NewHandler[domain.Pagamento](pixSvc, "chave", cadastro.DecodeMetodo[domain.Pix], log),
		Boleto:        cadastro.NewHandler[domain.Pagamento](boletoSvc, "codigoBarras", cadastro.DecodeMetodo[domain.Boleto], log),
		Cartao:        cadastro.NewHandler[domain.Pagamento](cartaoSvc, "numeroCartao", cadastro.DecodeMetodo[domain.Cartao], log),
	}

	// 4. Roteador e Servidor
	r := router.NewRouter(handlers, tokenSvc, cacheClient, router.RateLimit{
		MaxRequests: cfg.RateLimitMaxRequests,
		Period:      cfg.RateLimitPeriod,
	}, log)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 20 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 5. Execução e Graceful Shutdown
	go func() {
		log.Info("Servidor PranchaShop ouvindo na porta", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Servidor falhou.", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info("Sinal de encerramento recebido. Desligando servidor...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Desligamento do servidor forçado.", err)
	}

	// Entrega o que ficou na fila antes de sair.
	if err := publisher.Close(); err != nil {
		log.Error("Falha ao encerrar o publisher de eventos.", err)
	}

	log.Info("Servidor encerrado com sucesso.", nil)
}

// novoPublisher escolhe o broker pelo EVENTS_DRIVER. Sem driver (ou com o RabbitMQ fora do ar)
// os eventos são descartados e a API segue no ar.
func novoPublisher(cfg *config.Config, log logger.Logger) events.Publisher {
	switch cfg.EventsDriver {
	case "kafka":
		log.Info("Eventos de pedido publicados no Kafka.", map[string]interface{}{"topic": cfg.KafkaTopic, "brokers": cfg.KafkaBrokers})
		return events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, 256, log)
	case "rabbitmq":
		p, err := events.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQExchange, log)
		if err != nil {
			log.Error("RabbitMQ indisponível, eventos desligados.", err)
			return events.NopPublisher{}
		}
		log.Info("Eventos de pedido publicados no RabbitMQ.", map[string]interface{}{"exchange": cfg.RabbitMQExchange})
		return p
	default:
		log.Info("Eventos de pedido desligados.", nil)
		return events.NopPublisher{}
	}
}
