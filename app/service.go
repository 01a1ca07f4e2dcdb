package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dutymgr/dutymgr/api/schedule"
	"github.com/dutymgr/dutymgr/config"
	"github.com/dutymgr/dutymgr/core/roster"
	"github.com/dutymgr/dutymgr/infra/logger"
	"github.com/dutymgr/dutymgr/internal/eventbus"
	"github.com/dutymgr/dutymgr/internal/store"
	"github.com/dutymgr/dutymgr/metrics"
)

// Service orchestrates the schedule manager, the HTTP API and the metrics
// exporters.
type Service struct {
	Manager *roster.ScheduleManager
	Store   *store.FileStore

	addr        string
	bus         eventbus.EventBus
	log         logger.Logger
	promEnabled bool
	promAddr    string
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	var sinks []metrics.Sink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(nil)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(cfg.Metrics))
	}
	var sink metrics.Sink
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	runStore, err := cfg.RunLog.OpenStore()
	if err != nil {
		return nil, fmt.Errorf("run store: %w", err)
	}

	bus := eventbus.New()
	manager, err := roster.NewScheduleManager(cfg.Roster, logg, sink, bus, runStore)
	if err != nil {
		return nil, fmt.Errorf("schedule manager: %w", err)
	}

	return &Service{
		Manager:     manager,
		Store:       store.NewFileStore(cfg.Server.DataFile, cfg.Server.BackupDir),
		addr:        cfg.Server.Addr,
		bus:         bus,
		log:         logg,
		promEnabled: cfg.Metrics.PrometheusEnabled,
		promAddr:    cfg.Metrics.PrometheusAddr,
	}, nil
}

// Run starts the HTTP API and blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	schedule.NewHandler(s.Manager, s.Store).Register(mux)

	srv := &http.Server{
		Addr:              s.addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	if s.promEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promAddr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("listening on %s", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	return s.Manager.Close()
}
