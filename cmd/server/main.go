package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/kpcrm/backend/internal/config"
	"github.com/kpcrm/backend/internal/db"
	"github.com/kpcrm/backend/internal/goroutine"
	httpHandlers "github.com/kpcrm/backend/internal/http/handlers"
	httpRouter "github.com/kpcrm/backend/internal/http/router"
	"github.com/kpcrm/backend/internal/logger"
	"github.com/kpcrm/backend/internal/pdf"
	"github.com/kpcrm/backend/internal/render"
	"github.com/kpcrm/backend/internal/repository"
	"github.com/kpcrm/backend/internal/service"
	"github.com/kpcrm/backend/internal/storage"
	"github.com/kpcrm/backend/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	// Инициализация логгера
	logLevel := "info"
	if cfg.Env == "development" {
		logLevel = "debug"
	}
	logger.Init(logLevel, cfg.Env)

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: ошибка подключения к базе: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("main: ошибка миграций: %v", err)
	}

	// Инициализируем вспомогательные сервисы.
	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	exportStorage, err := storage.NewExportStorage(cfg.ExportStoragePath)
	if err != nil {
		log.Fatalf("main: не удалось подготовить архив экспорта: %v", err)
	}

	// Движок подстановки переменных и конвертер PDF.
	renderPolicy, err := render.ParsePolicy(cfg.RenderOnMissing)
	if err != nil {
		log.Fatalf("main: %v", err)
	}
	renderEngine := render.NewEngine(renderPolicy)
	exporter := pdf.NewExporter(pdf.NewWkhtmlConverter(cfg.WkhtmltopdfPath), cfg.ExportTimeout)

	// Репозитории.
	userRepo := repository.NewUserRepository(dbConn)
	clientRepo := repository.NewClientRepository(dbConn)
	templateRepo := repository.NewTemplateRepository(dbConn)
	proposalRepo := repository.NewProposalRepository(dbConn)

	// Вебсокеты ленты активности.
	hub := ws.NewHub()
	goroutine.SafeGo(hub.Run)

	// Сервисы.
	authService := service.NewAuthService(userRepo, tokenManager)
	clientService := service.NewClientService(clientRepo, hub)
	templateService := service.NewTemplateService(templateRepo, hub)
	proposalService := service.NewProposalService(proposalRepo, clientRepo, templateRepo, renderEngine, hub)
	exportService := service.NewExportService(proposalRepo, exporter, exportStorage, hub)
	seedService := service.NewSeedService(dbConn, clientRepo, templateRepo, proposalService, templateService)

	// HTTP хэндлеры.
	authHandler := httpHandlers.NewAuthHandler(authService)
	clientHandler := httpHandlers.NewClientHandler(clientService)
	templateHandler := httpHandlers.NewTemplateHandler(templateService)
	proposalHandler := httpHandlers.NewProposalHandler(proposalService, exportService)
	wsHandler := httpHandlers.NewWSHandler(hub, tokenManager, cfg.AllowedOrigins)
	healthHandler := httpHandlers.NewHealthHandler(dbConn, exportStorage)
	seedHandler := httpHandlers.NewSeedHandler(seedService)

	// Роутер.
	engine := httpRouter.SetupRouter(cfg, authHandler, clientHandler, templateHandler, proposalHandler, wsHandler, healthHandler, seedHandler, tokenManager)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: ошибка остановки http сервера: %v", err)
		}
	}()

	log.Printf("main: HTTP сервер запущен на порту %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: ошибка закрытия базы: %v", err)
	}
}
