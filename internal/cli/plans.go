package cli

import (
	"strconv"

	"codeberg.org/mutker/atkctl/internal/config"
	"codeberg.org/mutker/atkctl/internal/engine"
	"codeberg.org/mutker/atkctl/internal/errors"
	"codeberg.org/mutker/atkctl/internal/ui"
	"github.com/spf13/cobra"
)

func (a *app) plansCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "plans",
		Short: "Lists the configured plans",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if len(a.cfg.Plans) == 0 {
				ui.Warning("No plans configured")
				return nil
			}

			rows := [][]string{{"", "Name", "Power plan", "Refresh", "CPU curve", "GPU curve"}}
			for _, plan := range a.cfg.Plans {
				rows = append(rows, planRow(plan, plan.Name == a.cfg.ActivePlan))
			}

			return ui.Table(rows)
		},
	}
}

func planRow(plan config.Plan, active bool) []string {
	marker := ""
	if active {
		marker = "*"
	}
	refresh := "-"
	if plan.RefreshIntervalSec > 0 {
		refresh = strconv.Itoa(plan.RefreshIntervalSec) + "s"
	}
	cpu, gpu := "-", "-"
	if plan.HasCurves() {
		cpu, gpu = *plan.CPUCurve, *plan.GPUCurve
	}

	return []string{marker, plan.Name, string(plan.Plan), refresh, cpu, gpu}
}

func (a *app) applyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "apply [plan]",
		Short: "Applies a configured plan, or the active plan when none is named",
		Long: `Applies a plan from the configuration file. The plan becomes the active
plan and the configuration file is updated.`,
		Args: cobra.MaximumNArgs(1),
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 || a.cfg == nil {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return a.cfg.PlanNames(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			e, done, err := a.newEngine(nil)
			if err != nil {
				return err
			}
			defer done()

			var result engine.Result
			if len(args) == 0 {
				result, err = e.ApplyActive(cliContext(cmd))
			} else {
				result, err = e.Apply(cliContext(cmd), args[0])
			}
			if err != nil {
				return err
			}
			if result.Status == engine.NoPlan {
				return errors.New().New(engine.ErrNoActivePlan)
			}

			ui.Success("Plan %s applied", result.Plan)

			return nil
		},
	}
}
