package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"reflekt/internal/anonymizer"
	"reflekt/internal/auth"
	"reflekt/internal/collective"
	"reflekt/internal/config"
	"reflekt/internal/db"
	httpx "reflekt/internal/http"
	"reflekt/internal/insight"
	"reflekt/internal/jobs"
	"reflekt/internal/logging"
	"reflekt/internal/reflection"
	"reflekt/internal/state"
)

func main() {
	cfg := config.Load()

	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	gdb, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("db connect failed", zap.Error(err))
	}
	if err := db.AutoMigrateAndIndexes(gdb); err != nil {
		log.Fatal("db migrate failed", zap.Error(err))
	}

	jwtSvc := auth.NewJWT(cfg.JWTSecret)
	anon := anonymizer.New(anonymizer.GermanRules())

	jobsRepo := &jobs.Repo{DB: gdb}

	states := &state.Store{
		DB:      gdb,
		Log:     log,
		Enqueue: jobsRepo.EnqueueAnalyze,
	}
	analyzer := &state.Analyzer{
		Store:      states,
		WindowDays: cfg.AnalysisWindowDays,
		Log:        log,
	}
	reflections := &reflection.Store{DB: gdb, Log: log}

	var statsClient collective.Client = collective.Disabled{}
	if cfg.CollectiveStatsURL != "" {
		statsClient = collective.NewHTTPClient(cfg.CollectiveStatsURL, cfg.CollectiveTimeout)
	}
	var sharer collective.Sharer = collective.NoSharing{}
	if cfg.ShareGatewayURL != "" {
		sharer = collective.NewGateway(cfg.ShareGatewayURL, cfg.CollectiveTimeout)
	}

	engine := &insight.Engine{
		Patterns:   states,
		States:     states,
		Collective: statsClient,
		Log:        log,
	}

	r := httpx.NewRouter(cfg, httpx.Deps{
		DB:          gdb,
		JWT:         jwtSvc,
		Anonymizer:  anon,
		States:      states,
		Reflections: reflections,
		Engine:      engine,
		Sharer:      sharer,
		Log:         log,
	})

	worker := &jobs.Worker{
		ID:            "worker-1",
		Repo:          jobsRepo,
		Store:         states,
		Analyzer:      analyzer,
		RetentionDays: cfg.RetentionDays,
		Log:           log,
	}

	ctx, cancel := context.WithCancel(context.Background())
	go worker.Run(ctx)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
}
