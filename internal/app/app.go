package app

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/voxhealth/voxhealth-backend/internal/data/db"
	"github.com/voxhealth/voxhealth-backend/internal/observability"
	"github.com/voxhealth/voxhealth-backend/internal/platform/logger"
	"github.com/voxhealth/voxhealth-backend/internal/sse"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Clients  Clients
	Services Services
	Hub      *sse.Hub

	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading configuration...")
	cfg := LoadConfig(log)

	ctx := context.Background()
	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: "voxhealth",
		Environment: cfg.Environment,
		Version:     cfg.Version,
	})

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("postgres automigrate: %w", err)
	}
	theDB := pg.DB()

	hub := sse.NewHub(log)

	reposet := wireRepos(theDB, log)
	clientset := wireClients(ctx, theDB, log)
	serviceset := wireServices(theDB, log, cfg, reposet, clientset, hub)
	handlerset := wireHandlers(log, serviceset, hub)
	mw := wireMiddleware(log, serviceset)
	router := wireRouter(log, handlerset, mw, otelShutdown != nil)

	return &App{
		Log:          log,
		DB:           theDB,
		Router:       router,
		Cfg:          cfg,
		Repos:        reposet,
		Clients:      clientset,
		Services:     serviceset,
		Hub:          hub,
		otelShutdown: otelShutdown,
	}, nil
}

// Start launches background work: the redis-to-hub event forwarder when
// a bus is configured.
func (a *App) Start() {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	if a.Clients.EventBus != nil {
		if err := a.Clients.EventBus.StartForwarder(ctx, func(m sse.Message) {
			a.Hub.Broadcast(m)
		}); err != nil {
			a.Log.Warn("Failed to start redis event forwarder", "error", err)
		}
	}
}

func (a *App) Run(addr string) error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Router.Run(addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.Clients.EventBus != nil {
		_ = a.Clients.EventBus.Close()
	}
	if a.otelShutdown != nil {
		_ = a.otelShutdown(context.Background())
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
