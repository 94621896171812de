package cli

import (
	"codeberg.org/mutker/atkctl/internal/config"
	"codeberg.org/mutker/atkctl/internal/ui"
	"github.com/spf13/cobra"
)

const curveHelp = `If not given, the fan speed is set to the minimum. Must be a list of 8 comma
separated entries, each looking like <DEGREES>c:<PERCENTAGE>%.
Example: 30c:0%,40c:0%,50c:0%,60c:0%,70c:34%,80c:51%,90c:61%,100c:61%`

func planNames() []string {
	names := make([]string, 0, len(config.PowerPlanNames()))
	for _, name := range config.PowerPlanNames() {
		names = append(names, string(name))
	}

	return names
}

func (a *app) planCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "plan <windows|silent|performance|turbo>",
		Aliases:   []string{"set-plan"},
		Short:     "Sets the power plan and uses the default fan curve",
		Args:      cobra.ExactArgs(1),
		ValidArgs: planNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := config.ParsePowerPlanName(args[0])
			if err != nil {
				return err
			}

			e, done, err := a.newEngine(nil)
			if err != nil {
				return err
			}
			defer done()

			if _, err := e.SetPowerPlan(cliContext(cmd), name.PowerPlan()); err != nil {
				return err
			}
			ui.Success("Power plan set to %s", name)

			return nil
		},
	}
}

func (a *app) fanCommand() *cobra.Command {
	var plan, cpu, gpu string

	cmd := &cobra.Command{
		Use:     "fan",
		Aliases: []string{"set-fan"},
		Short:   "Sets a custom fan curve with a power plan",
		Long:    "Sets a power plan followed by custom CPU and GPU fan curves.\n\n" + curveHelp,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			name, err := config.ParsePowerPlanName(plan)
			if err != nil {
				return err
			}

			e, done, err := a.newEngine(nil)
			if err != nil {
				return err
			}
			defer done()

			result, err := e.SetFanCurves(cliContext(cmd), name.PowerPlan(), cpu, gpu)
			if err != nil {
				return err
			}
			ui.Success("Power plan %s set with CPU curve %s and GPU curve %s",
				name, result.CPU.Table, result.GPU.Table)

			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&plan, "plan", string(config.PlanSilent), "power plan to set with the custom fan curve")
	flags.StringVar(&cpu, "cpu", "", "CPU fan curve")
	flags.StringVar(&gpu, "gpu", "", "GPU fan curve")

	return cmd
}
