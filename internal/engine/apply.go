package engine

import (
	"context"

	"codeberg.org/mutker/atkctl/internal/atk"
	"codeberg.org/mutker/atkctl/internal/errors"
	"codeberg.org/mutker/atkctl/internal/fancurve"
	"codeberg.org/mutker/atkctl/internal/history"
)

func (e *Engine) convertCurves(cpu, gpu string) (*fancurve.Conversion, *fancurve.Conversion, error) {
	cpuCurve, err := e.convert(fancurve.CPU, cpu)
	if err != nil {
		return nil, nil, err
	}
	gpuCurve, err := e.convert(fancurve.GPU, gpu)
	if err != nil {
		return nil, nil, err
	}

	return cpuCurve, gpuCurve, nil
}

func (e *Engine) convert(device fancurve.Device, text string) (*fancurve.Conversion, error) {
	conversion, err := fancurve.Convert(device, text, e.strict)
	if err != nil {
		return nil, err
	}

	if conversion.Adjusted {
		e.log.Warn().
			Str("device", device.String()).
			Int("violations", len(conversion.Violations)).
			Msgf("Fan curve for %s might damage your device and has been auto-adjusted to the minimum safe values: %s.",
				device, conversion.Table.String())
	}

	return &conversion, nil
}

// send transmits plan, then the CPU curve, then the GPU curve. A failing
// command stops the sequence; nothing already sent is rolled back.
func (e *Engine) send(ctx context.Context, name string, plan atk.PowerPlan, cpu, gpu *fancurve.Conversion) (Result, error) {
	result := Result{Status: Applied, Plan: name, PowerPlan: plan, CPU: cpu, GPU: gpu}

	err := e.transmit(ctx, plan, cpu, gpu)
	e.record(ctx, result, err)
	e.stats.ObserveApply(name, err)
	if err != nil {
		result.Status = Failed
		return result, err
	}

	e.stats.ObservePowerPlan(plan)
	if cpu != nil && gpu != nil {
		e.stats.ObserveCurve(cpu.Table, cpu.Adjusted)
		e.stats.ObserveCurve(gpu.Table, gpu.Adjusted)
		e.log.Info().Msgf("Power plan updated with custom fan curve: %s; CPU %s; GPU %s.",
			plan, cpu.Table.String(), gpu.Table.String())
	} else {
		e.log.Info().Msgf("Power plan updated (no custom fan curve): %s.", plan)
	}

	return result, nil
}

func (e *Engine) transmit(ctx context.Context, plan atk.PowerPlan, cpu, gpu *fancurve.Conversion) error {
	errFactory := errors.New()

	if err := ctx.Err(); err != nil {
		return errFactory.Wrap(errors.ErrTimeout, err)
	}

	controller, err := e.open(e.cfg.Device)
	if err != nil {
		return errFactory.Wrap(ErrOpenDevice, err)
	}
	defer func() {
		if err := controller.Close(); err != nil {
			e.log.Debug().Err(err).Msg("Failed to close device")
		}
	}()

	if err := controller.SetPowerPlan(plan); err != nil {
		return errFactory.Wrap(ErrApplyFailed, err)
	}
	if cpu == nil || gpu == nil {
		return nil
	}
	if err := controller.SetFanCurve(cpu.Table); err != nil {
		return errFactory.Wrap(ErrApplyFailed, err)
	}
	if err := controller.SetFanCurve(gpu.Table); err != nil {
		return errFactory.Wrap(ErrApplyFailed, err)
	}

	return nil
}

func (e *Engine) record(ctx context.Context, result Result, err error) {
	record := &history.Record{
		Source:    history.SourceFrom(ctx),
		PlanName:  result.Plan,
		PowerPlan: result.PowerPlan.String(),
		Success:   err == nil,
	}
	if result.CPU != nil {
		record.CPUCurve = result.CPU.Table.String()
		record.CPUAdjusted = result.CPU.Adjusted
	}
	if result.GPU != nil {
		record.GPUCurve = result.GPU.Table.String()
		record.GPUAdjusted = result.GPU.Adjusted
	}
	if err != nil {
		record.Error = err.Error()
	}

	// A cancelled ctx must not lose the record of what reached the hardware.
	if recErr := e.history.Record(context.WithoutCancel(ctx), record); recErr != nil {
		e.log.Warn().Err(recErr).Msg("Failed to record apply history")
	}
}
