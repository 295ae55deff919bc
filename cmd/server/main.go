package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"plaintdraft-backend/auth"
	"plaintdraft-backend/config"
	"plaintdraft-backend/draft"
	"plaintdraft-backend/drafting"
	"plaintdraft-backend/formschema"
	"plaintdraft-backend/handlers"
	"plaintdraft-backend/logging"
	"plaintdraft-backend/repository"
	"plaintdraft-backend/service"
	"plaintdraft-backend/storage"
)

const shutdownGrace = 30 * time.Second

func main() {
	foundEnv := config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if !foundEnv {
		logger.Warn("No .env file found, using environment variables")
	}
	if cfg.JWTSecret == "" {
		logger.Fatal("JWT_SECRET must be set")
	}

	ctx := context.Background()

	db, err := initPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to initialize Postgres", zap.Error(err))
	}
	defer db.Close()
	logger.Info("Postgres connection established")

	fileStorage, err := storage.NewStorage(ctx, cfg.Storage)
	if err != nil {
		logger.Fatal("Failed to initialize storage", zap.Error(err))
	}
	logger.Info("Storage initialized", zap.String("type", string(cfg.Storage.Type)))

	schema := formschema.Default()
	if cfg.FormSchemaPath != "" {
		schema, err = formschema.Load(cfg.FormSchemaPath)
		if err != nil {
			logger.Fatal("Failed to load form schema", zap.String("path", cfg.FormSchemaPath), zap.Error(err))
		}
		logger.Info("Form schema loaded", zap.String("path", cfg.FormSchemaPath))
	}

	// Initialize repositories
	advocateRepo := repository.NewAdvocateRepository(db)
	plaintRepo := repository.NewPlaintRepository(db)
	jobRepo := repository.NewGenerationJobRepository(db)
	fileRepo := repository.NewFileRepository(db)
	provisionRepo := repository.NewLegalProvisionRepository(db)

	composer := newComposer(cfg.Sanitize)
	generator, closeGenerator, err := initGenerator(ctx, cfg, composer, logger)
	if err != nil {
		logger.Fatal("Failed to initialize generator", zap.Error(err))
	}
	defer closeGenerator()

	var validator drafting.Validator = drafting.NewStructureValidator()
	if cfg.Validator == config.ValidatorStub {
		validator = drafting.StubValidator{}
	}

	// Initialize services
	authService := auth.NewService(advocateRepo, cfg.JWTSecret, auth.WithTokenTTL(cfg.TokenTTL))

	plaintService := service.NewPlaintService(
		service.WithPlaintRepository(plaintRepo),
		service.WithLogger(logger),
	)

	draftService := service.NewDraftService(
		service.DraftWithPlaintRepository(plaintRepo),
		service.DraftWithGenerationJobRepository(jobRepo),
		service.DraftWithFileRepository(fileRepo),
		service.DraftWithProvisionRepository(provisionRepo),
		service.DraftWithStorage(fileStorage),
		service.DraftWithComposer(composer),
		service.DraftWithGenerator(generator),
		service.DraftWithValidator(validator),
		service.DraftWithLogger(logger),
	)

	router := handlers.NewRouter(handlers.RouterConfig{
		Logger:        logger,
		AuthService:   authService,
		PlaintService: plaintService,
		DraftService:  draftService,
		FormSchema:    schema,
	})

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("Server starting",
			zap.String("port", cfg.Port),
			zap.String("generator", cfg.Generator),
			zap.String("validator", cfg.Validator))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errChan:
		logger.Fatal("Failed to start server", zap.Error(err))
	case <-sigCtx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown failed", zap.Error(err))
	}
	logger.Info("Waiting for generation jobs to finish")
	draftService.Wait()
}

func initPostgres(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// newComposer returns the draft composer for the configured field sanitation
func newComposer(mode string) *draft.Composer {
	switch mode {
	case config.SanitizeControl:
		return draft.NewComposer(draft.WithSanitizer(draft.NewSanitizer()))
	case config.SanitizeMarkup:
		return draft.NewComposer(draft.WithSanitizer(draft.NewSanitizer(draft.StripMarkup())))
	default:
		return draft.NewComposer()
	}
}

// initGenerator returns the configured drafting strategy and a cleanup func
func initGenerator(ctx context.Context, cfg *config.Config, composer *draft.Composer, logger *zap.Logger) (drafting.Generator, func(), error) {
	noop := func() {}

	switch cfg.Generator {
	case config.GeneratorStub:
		return drafting.StubGenerator{}, noop, nil
	case config.GeneratorGemini:
		client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
		if err != nil {
			return nil, noop, err
		}
		logger.Info("Gemini client initialized", zap.String("model", cfg.GeminiModel))

		model := drafting.NewGeminiModel(client, cfg.GeminiModel)
		closeClient := func() {
			if err := client.Close(); err != nil {
				logger.Warn("Failed to close Gemini client", zap.Error(err))
			}
		}
		return drafting.NewGeminiGenerator(model,
			drafting.GeminiWithLogger(logger),
			drafting.GeminiWithComposer(composer),
		), closeClient, nil
	default:
		return drafting.NewTemplateGenerator(composer), noop, nil
	}
}
