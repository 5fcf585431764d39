package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/tu-usuario/pdv-nfce/internal/application/auth"
	"github.com/tu-usuario/pdv-nfce/internal/application/billing"
	"github.com/tu-usuario/pdv-nfce/internal/application/usecase"
	"github.com/tu-usuario/pdv-nfce/internal/infrastructure/nuvemfiscal"
	infrapdf "github.com/tu-usuario/pdv-nfce/internal/infrastructure/pdf"
	"github.com/tu-usuario/pdv-nfce/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/pdv-nfce/internal/interfaces/http"
	"github.com/tu-usuario/pdv-nfce/pkg/config"
	"github.com/tu-usuario/pdv-nfce/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("carregar configuração: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicação")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexão ao PostgreSQL")
	}
	defer pool.Close()

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)

	// Provedor fiscal: token OAuth2 por empresa + cliente da API NFC-e
	tokenProvider := nuvemfiscal.NewTokenProvider(cfg.NuvemFiscal.AuthURL, log)
	providerClient := nuvemfiscal.NewClient(cfg.NuvemFiscal, log)
	receiptGen := infrapdf.NewReceiptGenerator()

	issueUC := billing.NewIssueInvoiceUseCase(
		companyRepo, customerRepo, productRepo, invoiceRepo,
		tokenProvider, providerClient, log,
	)
	reconcileUC := billing.NewReconcileUseCase(
		companyRepo, invoiceRepo, tokenProvider, providerClient, log,
	)
	documentUC := billing.NewDocumentUseCase(
		companyRepo, invoiceRepo, tokenProvider, providerClient, receiptGen, log,
	)
	customerUC := billing.NewCustomerUseCase(customerRepo)
	companyUC := usecase.NewCompanyUseCase(companyRepo)
	productUC := usecase.NewProductUseCase(productRepo)
	authUC := auth.NewAuthUseCase(userRepo, companyRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI em local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "PDV NFC-e API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CompanyUC:   companyUC,
		ProductUC:   productUC,
		CustomerUC:  customerUC,
		IssueUC:     issueUC,
		ReconcileUC: reconcileUC,
		DocumentUC:  documentUC,
		AuthUC:      authUC,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("sinal de desligamento recebido, encerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("encerramento do servidor")
	}

	log.Info().Msg("aplicação finalizada")
}
