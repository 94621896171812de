package cli

import (
	"time"

	"codeberg.org/mutker/atkctl/internal/history"
	"codeberg.org/mutker/atkctl/internal/ui"
	"github.com/spf13/cobra"
)

func (a *app) historyCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Shows the most recent applies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !a.cfg.History.Enabled {
				ui.Warning("History is disabled, set history.enabled in the configuration")
				return nil
			}

			e, done, err := a.newEngine(nil)
			if err != nil {
				return err
			}
			defer done()

			records, err := e.History().Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				ui.Info("Nothing has been applied yet")
				return nil
			}

			rows := [][]string{{"Time", "Source", "Plan", "Power plan", "Adjusted", "Result"}}
			for _, record := range records {
				rows = append(rows, historyRow(record))
			}

			return ui.Table(rows)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", history.DefaultLimit, "number of applies to show")

	return cmd
}

func historyRow(record history.Record) []string {
	adjusted := "-"
	switch {
	case record.CPUAdjusted && record.GPUAdjusted:
		adjusted = "cpu, gpu"
	case record.CPUAdjusted:
		adjusted = "cpu"
	case record.GPUAdjusted:
		adjusted = "gpu"
	}

	result := "ok"
	if !record.Success {
		result = "failed: " + record.Error
	}

	return []string{
		record.Timestamp.Local().Format(time.DateTime),
		string(record.Source),
		record.PlanName,
		record.PowerPlan,
		adjusted,
		result,
	}
}
