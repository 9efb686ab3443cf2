package main

import (
	"log"
	"net/http"
	"time"

	"catsafe/internal/config"
	"catsafe/internal/export"
	apihttp "catsafe/internal/http"
	"catsafe/internal/i18n"
	"catsafe/internal/repository"
	"catsafe/internal/service"
	"catsafe/internal/webhook"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	translator, err := i18n.NewTranslator()
	if err != nil {
		logger.Fatal("load locale catalogs", zap.Error(err))
	}

	defaultLocale, err := i18n.ParseLocale(cfg.DefaultLocale)
	if err != nil {
		logger.Warn("unsupported default locale, falling back", zap.String("locale", cfg.DefaultLocale))
		defaultLocale = i18n.DefaultLocale
	}

	dispatcher := webhook.Dispatcher(webhook.NewDisabledDispatcher("webhook url not configured"))
	if cfg.WebhookURL != "" {
		dispatcher = webhook.NewHTTPDispatcher(cfg.WebhookURL, logger)
	} else {
		logger.Warn("webhook url not configured, submissions will not be forwarded")
	}

	pipeline := export.Pipeline(export.NewDisabledPipeline("export disabled"))
	if cfg.ExportEnabled {
		chrome := export.NewChromePipeline(cfg.ChromePath, logger)
		defer chrome.Close()
		pipeline = chrome
	}
	exporter := export.NewExporter(pipeline, logger)

	sessionRepo := repository.NewMemorySessionRepository()
	composer := service.NewReportComposer(translator)
	intakeSvc := service.NewIntakeService(logger, sessionRepo, dispatcher, translator, composer)

	intakeHandler := apihttp.NewIntakeHandler(logger, intakeSvc, exporter, translator, defaultLocale)
	router := apihttp.NewRouter(logger, intakeHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
