package daemon

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/apukou/petapd/internal/api"
	"github.com/apukou/petapd/internal/app/challenge"
	"github.com/apukou/petapd/internal/app/entitlement"
	"github.com/apukou/petapd/internal/app/sticker"
	"github.com/apukou/petapd/internal/domain"
	"github.com/apukou/petapd/internal/health"
	_ "github.com/apukou/petapd/internal/infra/metrics" // Register Prometheus metrics
	"github.com/apukou/petapd/internal/infra/sqlite"
)

// Daemon is the core petapd runtime. It wires together all services.
type Daemon struct {
	Config       Config
	DB           *sqlite.DB
	Engine       *challenge.Engine
	Album        *sticker.Album
	Entitlements *entitlement.Manager
	Server       *api.Server
	Health       *health.Checker
	cancel       context.CancelFunc
}

// New creates and initializes a Daemon with all services wired.
func New() (*Daemon, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return NewWithConfig(cfg)
}

// NewWithConfig creates a Daemon with the given configuration.
func NewWithConfig(cfg Config) (*Daemon, error) {
	storeDir := cfg.Store.Dir
	if storeDir == "" {
		storeDir = petapHome()
	}

	db, err := sqlite.Open(storeDir)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	clock := domain.SystemClock()
	ents := entitlement.NewManager(db, clock)
	album := sticker.NewAlbum(db, ents, clock)
	engine := challenge.NewEngine(db, clock, ents, album, nil)

	srv := api.NewServer(engine, album, ents)
	if cfg.Telemetry.Prometheus {
		srv.EnableMetrics()
	}

	return &Daemon{
		Config:       cfg,
		DB:           db,
		Engine:       engine,
		Album:        album,
		Entitlements: ents,
		Server:       srv,
		Health:       health.NewChecker(db, storeDir),
	}, nil
}

// Serve starts the HTTP server and blocks until shutdown.
func (d *Daemon) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	// Health checker (always runs)
	go d.Health.Run(ctx)

	addr := fmt.Sprintf("%s:%d", d.Config.API.Host, d.Config.API.Port)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      d.Server.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	// Graceful shutdown on signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
		case <-ctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		_ = httpServer.Shutdown(shutdownCtx)
		_ = d.DB.Close()
	}()

	fmt.Printf("petapd serving on http://%s\n", addr)
	if d.Config.Telemetry.Prometheus {
		fmt.Printf("  Metrics: http://%s/metrics\n", addr)
	}

	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close shuts down all daemon resources.
func (d *Daemon) Close() {
	if d.cancel != nil {
		d.cancel()
	}
	if d.DB != nil {
		_ = d.DB.Close()
	}
}
