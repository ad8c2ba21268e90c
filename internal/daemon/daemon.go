package daemon

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prody-app/prody/internal/api"
	"github.com/prody-app/prody/internal/app/achievement"
	"github.com/prody-app/prody/internal/app/journal"
	"github.com/prody-app/prody/internal/app/message"
	"github.com/prody-app/prody/internal/app/reward"
	"github.com/prody-app/prody/internal/app/seed"
	"github.com/prody-app/prody/internal/app/streak"
	"github.com/prody-app/prody/internal/domain"
	_ "github.com/prody-app/prody/internal/infra/metrics" // Register Prometheus metrics
	"github.com/prody-app/prody/internal/infra/sqlite"
)

// Version is stamped by the build; overridden via SetVersion.
var version = "dev"

// SetVersion records the build version reported by /api/version.
func SetVersion(v string) { version = v }

// Daemon is the core Prody runtime. It wires together all services.
type Daemon struct {
	Config Config
	DB     *sqlite.DB
	Clock  domain.Clock
	Server *api.Server
	cancel context.CancelFunc

	Streak      *streak.Service
	Ledger      *reward.Ledger
	Skills      *reward.Skills
	Seed        *seed.Service
	Journal     *journal.Service
	Message     *message.Service
	Achievement *achievement.Service
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
	dataDir := cfg.Data.Dir
	if dataDir == "" {
		dataDir = prodyHome()
	}
	db, err := sqlite.Open(dataDir)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	d := &Daemon{
		Config: cfg,
		DB:     db,
		Clock:  domain.SystemClock{},
	}

	d.Streak = streak.NewService(db)
	d.Ledger = reward.NewLedger(db)
	d.Skills = reward.NewSkills(db, reward.Caps{
		Wisdom:     cfg.Engagement.WisdomDailyCap,
		Reflection: cfg.Engagement.ReflectionDailyCap,
		Discipline: cfg.Engagement.DisciplineDailyCap,
	})
	d.Seed = seed.NewService(db, d.Ledger, d.Skills, seed.Rewards{
		XP:     cfg.Engagement.BloomXP,
		Tokens: cfg.Engagement.BloomTokens,
	})
	d.Journal = journal.NewService(db, d.Streak, d.Seed, d.Ledger, d.Skills, cfg.Engagement.JournalXP)
	d.Message = message.NewService(db, d.Ledger, d.Skills, cfg.Engagement.MessageTokens)
	d.Achievement = achievement.NewService(db, d.Ledger, d.Skills)

	srv := api.NewServer(d.Streak, d.Seed, d.Journal, d.Message, d.Achievement, d.Skills, d.Clock, version)
	if cfg.Telemetry.Prometheus {
		srv.EnableMetrics()
	}
	d.Server = srv

	return d, nil
}

// Serve starts the HTTP server and blocks until shutdown.
func (d *Daemon) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	addr := fmt.Sprintf("%s:%d", d.Config.API.Host, d.Config.API.Port)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      d.Server.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	// Periodic maintenance: prune consumed reward keys past retention.
	go d.pruneLoop(ctx)

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

	fmt.Printf("Prody serving on http://%s\n", addr)
	if d.Config.Telemetry.Prometheus {
		fmt.Printf("  Metrics: http://%s/metrics\n", addr)
	}

	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (d *Daemon) pruneLoop(ctx context.Context) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = d.Ledger.Prune(d.Clock.Now())
		}
	}
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
