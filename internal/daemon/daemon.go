// Package daemon keeps the active plan applied and serves the API.
package daemon

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeberg.org/mutker/atkctl/internal/api"
	"codeberg.org/mutker/atkctl/internal/config"
	"codeberg.org/mutker/atkctl/internal/engine"
	"codeberg.org/mutker/atkctl/internal/errors"
	"codeberg.org/mutker/atkctl/internal/history"
	"codeberg.org/mutker/atkctl/internal/logger"
	"codeberg.org/mutker/atkctl/internal/pid"
	"github.com/oklog/run"
)

const shutdownTimeout = 5 * time.Second

// Loader reads the configuration again on reload.
type Loader func() (*config.Config, error)

// IntervalFunc returns how often a plan is re-sent. Zero disables refreshing.
type IntervalFunc func(plan config.Plan) time.Duration

type Options struct {
	Engine *engine.Engine
	Load   Loader
	// API is optional. It is started when the configuration enables it.
	API      *api.Server
	PIDFile  string
	Interval IntervalFunc
	Logger   logger.Logger
	// Signals disables OS signal handling when false, used by tests.
	Signals bool
}

type Daemon struct {
	engine   *engine.Engine
	load     Loader
	api      *api.Server
	pidFile  string
	interval IntervalFunc
	log      logger.Logger
	signals  bool

	reload chan struct{}
}

func New(opts Options) *Daemon {
	d := &Daemon{
		engine:   opts.Engine,
		load:     opts.Load,
		api:      opts.API,
		pidFile:  opts.PIDFile,
		interval: opts.Interval,
		log:      opts.Logger,
		signals:  opts.Signals,
		reload:   make(chan struct{}, 1),
	}
	if d.interval == nil {
		d.interval = func(plan config.Plan) time.Duration {
			return plan.RefreshInterval()
		}
	}
	if d.log == nil {
		d.log = logger.Default()
	}

	return d
}

// Reload asks the running daemon to re-read its configuration and re-apply
// the active plan. Requests made while one is pending are merged.
func (d *Daemon) Reload() {
	select {
	case d.reload <- struct{}{}:
	default:
	}
}

// Run blocks until ctx is cancelled or a termination signal arrives.
func (d *Daemon) Run(ctx context.Context) error {
	if err := pid.Write(d.pidFile); err != nil {
		return err
	}
	defer func() {
		if err := pid.Remove(d.pidFile); err != nil {
			d.log.Warn().Err(err).Msg("Unable to remove PID file")
		}
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var g run.Group
	{
		// === plan refresh
		g.Add(func() error {
			return d.refresh(ctx)
		}, func(error) {
			cancel()
		})
	}
	if cfg := d.engine.Config(); d.api != nil && cfg.API.Enabled {
		// === REST API
		host, port := cfg.API.Host, cfg.API.Port
		g.Add(func() error {
			if err := d.api.Start(host, port); err != nil {
				d.log.Error().Err(err).Msg("Cannot start API server")
			}
			<-ctx.Done()
			return nil
		}, func(error) {
			cancel()
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer shutdownCancel()
			if err := d.api.Shutdown(shutdownCtx); err != nil {
				d.log.Warn().Err(err).Msg("Error stopping API server")
			}
		})
	}
	if d.signals {
		// === signals
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

		g.Add(func() error {
			for {
				select {
				case s := <-sig:
					if s == syscall.SIGHUP {
						d.log.Info().Msg("Received SIGHUP signal, reloading configuration")
						d.Reload()
						continue
					}
					d.log.Info().Str("signal", s.String()).Msg("Received signal, exiting")
					return nil
				case <-ctx.Done():
					return nil
				}
			}
		}, func(error) {
			signal.Stop(sig)
			cancel()
		})
	}

	d.log.Info().Int("pid", os.Getpid()).Msg("Daemon started")
	err := g.Run()
	d.log.Info().Msg("Daemon stopped")

	return err
}

func (d *Daemon) refresh(ctx context.Context) error {
	d.apply(ctx, history.SourceDaemon)

	for {
		var (
			timer *time.Timer
			tick  <-chan time.Time
		)
		if plan, ok := d.engine.ActivePlan(); ok {
			if interval := d.interval(plan); interval > 0 {
				timer = time.NewTimer(interval)
				tick = timer.C
			}
		}

		select {
		case <-ctx.Done():
			stopTimer(timer)
			return nil
		case <-tick:
			d.apply(ctx, history.SourceRefresh)
		case <-d.reload:
			stopTimer(timer)
			d.reloadConfig()
			d.apply(ctx, history.SourceDaemon)
		}
	}
}

func (d *Daemon) apply(ctx context.Context, source history.Source) {
	result, err := d.engine.ApplyActive(history.WithSource(ctx, source))
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		var appErr errors.Error
		if errors.As(err, &appErr) {
			d.log.ErrorWithContext(appErr, "daemon", string(source)).Msg("Unable to apply active plan")
		} else {
			d.log.Error().Err(err).Msg("Unable to apply active plan")
		}
		return
	}

	if result.Status == engine.Applied {
		d.log.Debug().
			Str("plan", result.Plan).
			Str("source", string(source)).
			Msg("Active plan applied")
	}
}

func (d *Daemon) reloadConfig() {
	if d.load == nil {
		return
	}

	cfg, err := d.load()
	if err != nil {
		d.log.Error().Err(err).Msg("Unable to reload configuration, keeping the current one")
		return
	}
	d.engine.Reload(cfg)
	d.log.Info().Str("path", cfg.Path()).Msg("Configuration reloaded")
}

func stopTimer(timer *time.Timer) {
	if timer != nil {
		timer.Stop()
	}
}
