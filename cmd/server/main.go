package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/cleancity-backend/internal/config"
	"github.com/ignatzorin/cleancity-backend/internal/db"
	httpHandlers "github.com/ignatzorin/cleancity-backend/internal/http/handlers"
	httpRouter "github.com/ignatzorin/cleancity-backend/internal/http/router"
	"github.com/ignatzorin/cleancity-backend/internal/logger"
	"github.com/ignatzorin/cleancity-backend/internal/repository"
	"github.com/ignatzorin/cleancity-backend/internal/service"
	"github.com/ignatzorin/cleancity-backend/internal/storage"
	"github.com/ignatzorin/cleancity-backend/internal/ws"
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
		logger.Init(logLevel)
		logger.SetTextFormatter()
	} else {
		logger.Init(logLevel)
	}

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

	photoStorage, err := storage.NewPhotoStorage(cfg.UploadDir, cfg.MaxUploadSizeMB)
	if err != nil {
		log.Fatalf("main: не удалось подготовить файловое хранилище: %v", err)
	}

	// Репозитории.
	userRepo := repository.NewUserRepository(dbConn)
	reportRepo := repository.NewReportRepository(dbConn)
	pickupRepo := repository.NewPickupRepository(dbConn)
	agencyRepo := repository.NewAgencyRepository(dbConn)
	campaignRepo := repository.NewCampaignRepository(dbConn)

	// Сервисы.
	authService := service.NewAuthService(userRepo, tokenManager)
	reportService := service.NewReportService(reportRepo, agencyRepo, userRepo)
	pickupService := service.NewPickupService(pickupRepo, agencyRepo)
	agencyService := service.NewAgencyService(agencyRepo, userRepo)
	campaignService := service.NewCampaignService(campaignRepo)

	// Вебсокеты: живая лента событий жизненного цикла.
	hub := ws.NewHub()
	go hub.Run()

	reportService.SetHub(hub)
	pickupService.SetHub(hub)
	campaignService.SetHub(hub)

	// HTTP хэндлеры.
	authHandler := httpHandlers.NewAuthHandler(authService)
	reportHandler := httpHandlers.NewReportHandler(reportService, photoStorage)
	pickupHandler := httpHandlers.NewPickupHandler(pickupService)
	agencyHandler := httpHandlers.NewAgencyHandler(agencyService, reportService, pickupService)
	campaignHandler := httpHandlers.NewCampaignHandler(campaignService)
	wsHandler := httpHandlers.NewWSHandler(hub, tokenManager)
	healthHandler := httpHandlers.NewHealthHandler(dbConn)

	// Роутер.
	engine := httpRouter.SetupRouter(cfg, authHandler, reportHandler, pickupHandler, agencyHandler, campaignHandler, wsHandler, healthHandler, tokenManager)

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
