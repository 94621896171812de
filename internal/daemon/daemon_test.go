package daemon_test

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"codeberg.org/mutker/atkctl/internal/atk"
	"codeberg.org/mutker/atkctl/internal/atk/atktest"
	"codeberg.org/mutker/atkctl/internal/config"
	"codeberg.org/mutker/atkctl/internal/daemon"
	"codeberg.org/mutker/atkctl/internal/engine"
	"codeberg.org/mutker/atkctl/internal/errors"
	"codeberg.org/mutker/atkctl/internal/history"
	"codeberg.org/mutker/atkctl/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

type fixture struct {
	channel  *atktest.Channel
	engine   *engine.Engine
	history  history.Recorder
	pidFile  string
	dir      string
	interval time.Duration

	mu     sync.Mutex
	loaded *config.Config
}

func newFixture(t *testing.T, active string) *fixture {
	t.Helper()

	dir := t.TempDir()
	cfg := config.Default()
	cfg.ActivePlan = active
	cfg.SetPath(filepath.Join(dir, "atkctl.yaml"))

	recorder, err := history.NewRecorder(history.Config{
		Enabled: true,
		DBPath:  filepath.Join(dir, "history.db"),
	}, logger.Default())
	require.NoError(t, err)
	t.Cleanup(func() { _ = recorder.Close() })

	f := &fixture{
		channel: atktest.NewChannel(),
		history: recorder,
		pidFile: filepath.Join(dir, "atkctl.pid"),
		dir:     dir,
	}
	f.engine = engine.New(engine.Options{
		Config: cfg,
		Open: func(string) (atk.Controller, error) {
			return atk.NewClient(f.channel), nil
		},
		History: recorder,
	})

	return f
}

func (f *fixture) daemon() *daemon.Daemon {
	return daemon.New(daemon.Options{
		Engine:  f.engine,
		PIDFile: f.pidFile,
		Load: func() (*config.Config, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			if f.loaded == nil {
				return nil, errors.New().New(errors.ErrReadConfig)
			}
			return f.loaded, nil
		},
		Interval: func(config.Plan) time.Duration {
			return f.interval
		},
	})
}

func (f *fixture) start(t *testing.T, d *daemon.Daemon) (context.CancelFunc, <-chan error) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- d.Run(ctx)
	}()
	t.Cleanup(cancel)

	return cancel, done
}

func stop(t *testing.T, cancel context.CancelFunc, done <-chan error) {
	t.Helper()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(waitFor):
		t.Fatal("daemon did not stop")
	}
}

func TestRunAppliesActivePlan(t *testing.T) {
	f := newFixture(t, "Silent (low-speed fan)")
	cancel, done := f.start(t, f.daemon())

	assert.Eventually(t, func() bool {
		return len(f.channel.Calls()) == 3
	}, waitFor, tick)
	assert.FileExists(t, f.pidFile)

	stop(t, cancel, done)
	assert.NoFileExists(t, f.pidFile)

	records, err := f.history.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, history.SourceDaemon, records[0].Source)
	assert.True(t, records[0].Success)
}

func TestRunRefreshesActivePlan(t *testing.T) {
	f := newFixture(t, "Turbo")
	f.interval = 10 * time.Millisecond
	cancel, done := f.start(t, f.daemon())

	assert.Eventually(t, func() bool {
		return len(f.channel.Calls()) >= 3
	}, waitFor, tick)
	stop(t, cancel, done)

	records, err := f.history.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(records), 3)
	assert.Equal(t, history.SourceRefresh, records[0].Source)
}

func TestRunWithoutActivePlan(t *testing.T) {
	f := newFixture(t, "")
	f.interval = time.Millisecond
	cancel, done := f.start(t, f.daemon())

	time.Sleep(50 * time.Millisecond)
	stop(t, cancel, done)

	assert.Empty(t, f.channel.Calls())
}

func TestReload(t *testing.T) {
	f := newFixture(t, "Windows")
	d := f.daemon()
	cancel, done := f.start(t, d)

	require.Eventually(t, func() bool {
		return len(f.channel.Calls()) == 1
	}, waitFor, tick)

	next := config.Default()
	next.ActivePlan = "Silent (low-speed fan)"
	next.SetPath(filepath.Join(f.dir, "atkctl.yaml"))
	f.mu.Lock()
	f.loaded = next
	f.mu.Unlock()

	d.Reload()
	assert.Eventually(t, func() bool {
		return len(f.channel.Calls()) == 4
	}, waitFor, tick)
	assert.Same(t, next, f.engine.Config())

	stop(t, cancel, done)
}

func TestReloadFailureKeepsConfig(t *testing.T) {
	f := newFixture(t, "Windows")
	before := f.engine.Config()
	d := f.daemon()
	cancel, done := f.start(t, d)

	require.Eventually(t, func() bool {
		return len(f.channel.Calls()) == 1
	}, waitFor, tick)

	d.Reload()
	assert.Eventually(t, func() bool {
		return len(f.channel.Calls()) == 2
	}, waitFor, tick)
	assert.Same(t, before, f.engine.Config())

	stop(t, cancel, done)
}

func TestRunKeepsGoingAfterDeviceFailure(t *testing.T) {
	f := newFixture(t, "Turbo")
	f.channel.Fail = context.DeadlineExceeded
	f.interval = 10 * time.Millisecond
	cancel, done := f.start(t, f.daemon())

	assert.Eventually(t, func() bool {
		return len(f.channel.Calls()) >= 2
	}, waitFor, tick)
	stop(t, cancel, done)

	records, err := f.history.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.NotEmpty(t, records)
	assert.False(t, records[0].Success)
}

func TestRunRefusesSecondInstance(t *testing.T) {
	f := newFixture(t, "Turbo")
	require.NoError(t, os.WriteFile(f.pidFile, []byte(strconv.Itoa(os.Getppid())), 0o600))

	err := f.daemon().Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, daemon.ErrAlreadyRunning))
	assert.Empty(t, f.channel.Calls())
	assert.FileExists(t, f.pidFile)
}
