// Package app is the vault's context object: it builds every component once
// from the configuration and hands them to the command layer. Nothing in the
// client keeps package-level state.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/evidencevault/internal/audit"
	"github.com/dmitrijs2005/evidencevault/internal/client/collect"
	"github.com/dmitrijs2005/evidencevault/internal/client/config"
	"github.com/dmitrijs2005/evidencevault/internal/client/models"
	"github.com/dmitrijs2005/evidencevault/internal/client/netwatch"
	"github.com/dmitrijs2005/evidencevault/internal/client/processor"
	"github.com/dmitrijs2005/evidencevault/internal/client/registry"
	"github.com/dmitrijs2005/evidencevault/internal/client/remote"
	"github.com/dmitrijs2005/evidencevault/internal/client/review"
	"github.com/dmitrijs2005/evidencevault/internal/client/storage"
	"github.com/dmitrijs2005/evidencevault/internal/client/syncer"
	"github.com/dmitrijs2005/evidencevault/internal/clock"
	"github.com/dmitrijs2005/evidencevault/internal/cryptox"
	"github.com/dmitrijs2005/evidencevault/internal/filex"
	"github.com/dmitrijs2005/evidencevault/internal/logging"
	"github.com/dmitrijs2005/evidencevault/internal/metrics"
)

// Options carries what cannot come from the config file.
type Options struct {
	// Passphrase is asked for when no key file is configured.
	Passphrase func() ([]byte, error)
	// Remote replaces the gRPC client (tests).
	Remote remote.Store
	// Collector and Filter replace the inbox and the rule filter (tests).
	Collector processor.Collector
	Filter    processor.Filter
	Clock     clock.Clock
	Logger    logging.Logger
}

type App struct {
	Config    *config.Config
	Logger    logging.Logger
	Store     storage.KeyValueStore
	Registry  *registry.Registry
	Review    *review.Store
	Crypto    *cryptox.Service
	Remote    remote.Store
	Engine    *syncer.Engine
	Processor *processor.Processor
	Watcher   *netwatch.Watcher
	Metrics   *metrics.Vault

	registry *prometheus.Registry
	audit    *audit.Log
	master   cryptox.SymmetricKey
	closers  []io.Closer
}

// New opens the vault and wires every component.
func New(ctx context.Context, cfg *config.Config, opts Options) (a *App, err error) {
	if opts.Clock == nil {
		opts.Clock = clock.System{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.New(os.Stderr, "text", cfg.LogLevel)
	}

	a = &App{Config: cfg, Logger: opts.Logger, registry: prometheus.NewRegistry()}
	defer func() {
		if err != nil {
			_ = a.Close()
		}
	}()

	a.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	a.Metrics = metrics.NewVault(a.registry)

	if err := filex.EnsureParentDirs(cfg.DBPath, cfg.AuditLogPath, cfg.KeyFile); err != nil {
		return nil, err
	}

	store, err := storage.OpenSQLite(ctx, cfg.DBPath)
	if err != nil {
		return nil, err
	}
	a.Store = store
	a.closers = append(a.closers, store)

	if err := a.loadKey(ctx, opts.Passphrase); err != nil {
		return nil, err
	}

	a.audit, err = audit.Open(cfg.AuditLogPath, 1024, audit.WithDropHook(a.Metrics.AuditDrop))
	if err != nil {
		return nil, fmt.Errorf("open audit log: %w", err)
	}
	a.closers = append(a.closers, a.audit)

	a.Crypto = cryptox.NewService(a.audit)
	a.Registry = registry.New(store, registry.Options{
		CacheSize: cfg.CacheSize,
		Clock:     opts.Clock,
		Logger:    a.Logger,
		Metrics:   a.Metrics,
	})
	a.Review = review.NewStore(store, opts.Clock)

	a.Remote = opts.Remote
	if a.Remote == nil {
		c, err := remote.NewGRPCClient(cfg.ServerEndpointAddr, cfg.AccessToken)
		if err != nil {
			return nil, fmt.Errorf("evidence store client: %w", err)
		}
		a.Remote = c
		a.closers = append(a.closers, c)
	}

	a.Engine = syncer.New(a.Registry, a.Crypto, a.Remote, a.master, syncer.Options{
		CollectionID: cfg.CollectionID,
		BaseDelay:    cfg.RetryBaseDelay,
		MaxRetries:   cfg.MaxRetries,
		Interval:     cfg.SyncInterval,
		Clock:        opts.Clock,
		Logger:       a.Logger,
		Metrics:      a.Metrics,
		Audit:        a.audit,
	})
	a.Watcher = netwatch.New(a.Remote, cfg.OnlineCheckInterval, opts.Clock, a.Logger, a.Engine.SetOnline)

	collector := opts.Collector
	if collector == nil {
		collector = collect.NewInbox(cfg.InboxDir)
	}
	var filter processor.Filter = collect.Rules{MaxBytes: cfg.FilterMaxBytes, BlockedTerms: cfg.BlockedTerms}
	if opts.Filter != nil {
		filter = opts.Filter
	}
	a.Processor = processor.New(collector, filter, a.Registry, a.Crypto, a.Review, processor.Options{
		MaxMessages:         cfg.MaxMessages,
		AllowManualOverride: cfg.AllowManualOverride,
		Clock:               opts.Clock,
		Logger:              a.Logger,
		Metrics:             a.Metrics,
	})
	return a, nil
}

func (a *App) loadKey(ctx context.Context, passphrase func() ([]byte, error)) error {
	if a.Config.KeyFile != "" {
		k, created, err := loadKeyFile(a.Config.KeyFile)
		if err != nil {
			return err
		}
		if created {
			a.Logger.Warn(ctx, "created new vault key file, back it up", "path", a.Config.KeyFile)
		}
		a.master = k
		return nil
	}
	if passphrase == nil {
		return errors.New("no key file configured and no passphrase available")
	}
	pw, err := passphrase()
	if err != nil {
		return fmt.Errorf("read passphrase: %w", err)
	}
	defer clear(pw)
	a.master, err = passphraseKey(ctx, a.Store, pw)
	return err
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// Gatherer exposes the client's metrics registry.
func (a *App) Gatherer() prometheus.Gatherer { return a.registry }

// Run is the daemon mode: connectivity watcher, sync engine and, when
// configured, the metrics endpoint, until ctx is done or one of them fails.
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return a.Watcher.Run(ctx) })
	g.Go(func() error { return a.Engine.Run(ctx) })

	if a.Config.MetricsAddr != "" {
		srv := &http.Server{
			Addr:              a.Config.MetricsAddr,
			Handler:           metricsMux(a.registry),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			a.Logger.Info(ctx, "metrics listening", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	return g.Wait()
}

func metricsMux(g prometheus.Gatherer) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(g))
	return mux
}

// CheckOnline pings the evidence store once and updates the engine.
func (a *App) CheckOnline(ctx context.Context) bool {
	return a.Watcher.Check(ctx)
}

// Verify decrypts a freshly encrypted package of the entry and checks it
// against the hashes stamped at packaging time. It counts as a read of the
// entry and updates its access stats.
func (a *App) Verify(ctx context.Context, id string) (*models.EvidenceEntry, error) {
	if err := a.Registry.Touch(ctx, id); err != nil {
		return nil, err
	}
	e, err := a.Registry.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	key, err := cryptox.PackageKey(a.master, e.Descriptor.PackageID)
	if err != nil {
		return nil, err
	}
	pkg, err := a.Crypto.EncryptPackage(e.Content, key)
	if err != nil {
		return nil, err
	}
	b, err := a.Crypto.DecryptPackage(pkg, key)
	if err != nil {
		return nil, err
	}
	got := a.Crypto.VerificationHashes(b)
	if want := e.Descriptor.Verification; want.IsSet() && got != want {
		return nil, fmt.Errorf("evidence %s: %w", id, cryptox.ErrIntegrityMismatch)
	}
	return e, nil
}
