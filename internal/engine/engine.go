package engine

import (
	"context"
	"sync"

	"codeberg.org/mutker/atkctl/internal/atk"
	"codeberg.org/mutker/atkctl/internal/config"
	"codeberg.org/mutker/atkctl/internal/errors"
	"codeberg.org/mutker/atkctl/internal/fancurve"
	"codeberg.org/mutker/atkctl/internal/history"
	"codeberg.org/mutker/atkctl/internal/logger"
)

// Result describes one apply.
type Result struct {
	Status    Status               `json:"status"`
	Plan      string               `json:"plan,omitempty"`
	PowerPlan atk.PowerPlan        `json:"powerPlan"`
	CPU       *fancurve.Conversion `json:"-"`
	GPU       *fancurve.Conversion `json:"-"`
}

type Options struct {
	Config  *config.Config
	Open    Opener
	History history.Recorder
	Stats   Observer
	Logger  logger.Logger
	// Strict rejects curves that would need adjusting instead of repairing them.
	Strict bool
}

// Engine sequences power plan and fan curve commands and keeps the active
// plan of the configuration up to date.
type Engine struct {
	mu      sync.Mutex
	cfg     *config.Config
	open    Opener
	history history.Recorder
	stats   Observer
	log     logger.Logger
	strict  bool
}

type noopObserver struct{}

func (noopObserver) ObserveApply(string, error)        {}
func (noopObserver) ObservePowerPlan(atk.PowerPlan)    {}
func (noopObserver) ObserveCurve(fancurve.Table, bool) {}

// DefaultOpener opens the ATK ACPI device.
func DefaultOpener(device string) (atk.Controller, error) {
	return atk.Open(device)
}

func New(opts Options) *Engine {
	e := &Engine{
		cfg:     opts.Config,
		open:    opts.Open,
		history: opts.History,
		stats:   opts.Stats,
		log:     opts.Logger,
		strict:  opts.Strict,
	}
	if e.cfg == nil {
		e.cfg = &config.Config{}
	}
	if e.open == nil {
		e.open = DefaultOpener
	}
	if e.history == nil {
		e.history = history.Discard()
	}
	if e.stats == nil {
		e.stats = noopObserver{}
	}
	if e.log == nil {
		e.log = logger.Default()
	}

	return e
}

// Config returns the configuration in use.
func (e *Engine) Config() *config.Config {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.cfg
}

// Reload swaps the configuration, e.g. after the file changed on disk.
func (e *Engine) Reload(cfg *config.Config) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.cfg = cfg
}

// SetPowerPlan sends a power plan without fan curves.
func (e *Engine) SetPowerPlan(ctx context.Context, plan atk.PowerPlan) (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.send(ctx, plan.String(), plan, nil, nil)
}

// SetFanCurves sends a power plan followed by the CPU and GPU curves. Both
// curves are converted before the device is touched, so a malformed curve
// leaves the hardware as it was. A blank curve selects the minimum curve.
func (e *Engine) SetFanCurves(ctx context.Context, plan atk.PowerPlan, cpu, gpu string) (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cpuCurve, gpuCurve, err := e.convertCurves(cpu, gpu)
	if err != nil {
		return Result{}, err
	}

	return e.send(ctx, plan.String(), plan, cpuCurve, gpuCurve)
}

// Apply sends the named plan from the configuration and makes it the active
// plan. The configuration is saved when the active plan changed.
func (e *Engine) Apply(ctx context.Context, name string) (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	plan, ok := e.cfg.FindPlan(name)
	if !ok {
		return Result{}, errors.New().WithData(ErrUnknownPlan, name)
	}

	result, err := e.applyPlan(ctx, plan)
	if err != nil {
		return result, err
	}

	changed, err := e.cfg.SetActivePlan(name)
	if err != nil {
		return result, err
	}
	if changed {
		if err := e.cfg.Save(); err != nil {
			return result, errors.New().Wrap(ErrSaveConfig, err)
		}
		e.log.Info().Str("plan", name).Msg("Active plan changed")
	}

	return result, nil
}

// ApplyActive re-sends the active plan. Without one it returns NoPlan and
// sends nothing.
func (e *Engine) ApplyActive(ctx context.Context) (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	plan, ok := e.cfg.ActivePlanConfig()
	if !ok {
		e.log.Warn().Msg("No active plan found (cannot apply plan)")
		return Result{Status: NoPlan}, nil
	}

	return e.applyPlan(ctx, plan)
}

// ActivePlan returns a copy of the active plan.
func (e *Engine) ActivePlan() (config.Plan, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	plan, ok := e.cfg.ActivePlanConfig()
	if !ok {
		return config.Plan{}, false
	}

	return *plan, true
}

// Plans returns a copy of the configured plans.
func (e *Engine) Plans() []config.Plan {
	e.mu.Lock()
	defer e.mu.Unlock()

	return append([]config.Plan(nil), e.cfg.Plans...)
}

// History returns the recorder applies are written to.
func (e *Engine) History() history.Recorder {
	return e.history
}

func (e *Engine) applyPlan(ctx context.Context, plan *config.Plan) (Result, error) {
	powerPlan := plan.Plan.PowerPlan()
	if !plan.HasCurves() {
		return e.send(ctx, plan.Name, powerPlan, nil, nil)
	}

	cpuCurve, gpuCurve, err := e.convertCurves(*plan.CPUCurve, *plan.GPUCurve)
	if err != nil {
		return Result{}, err
	}

	return e.send(ctx, plan.Name, powerPlan, cpuCurve, gpuCurve)
}
