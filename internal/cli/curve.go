package cli

import (
	"bytes"
	"strconv"

	"codeberg.org/mutker/atkctl/internal/fancurve"
	"codeberg.org/mutker/atkctl/internal/ui"
	"github.com/guptarohit/asciigraph"
	"github.com/mgutz/ansi"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"
)

func (a *app) curveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "curve",
		Short: "Fan curve related commands",
	}
	cmd.AddCommand(a.curveCheckCommand())

	return cmd
}

func (a *app) curveCheckCommand() *cobra.Command {
	var (
		deviceName string
		graph      bool
	)

	cmd := &cobra.Command{
		Use:         "check [curve]",
		Short:       "Validates a fan curve and prints the curve that would be sent",
		Long:        "Validates a fan curve without touching the hardware.\n\n" + curveHelp,
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{annotationNoConfig: "true"},
		RunE: func(_ *cobra.Command, args []string) error {
			device, err := fancurve.ParseDevice(deviceName)
			if err != nil {
				return err
			}

			var text string
			if len(args) > 0 {
				text = args[0]
			}

			conversion, err := fancurve.Convert(device, text, a.strict)
			if err != nil {
				return err
			}

			if err := printCurve(conversion.Table, !a.noColor); err != nil {
				return err
			}
			if graph {
				ui.Printfln("%s", plotCurve(conversion.Table))
			}

			switch {
			case conversion.Minimum:
				ui.Info("No curve given, the minimum %s curve is used: %s", device, conversion.Table)
			case conversion.Adjusted:
				for _, violation := range conversion.Violations {
					ui.Warning("%s", violation)
				}
				ui.Warning("Fan curve for %s has been auto-adjusted to: %s", device, conversion.Table)
			default:
				ui.Success("Fan curve for %s is valid: %s", device, conversion.Table)
			}

			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&deviceName, "device", "d", fancurve.CPU.String(), "device the curve is for (cpu, gpu)")
	flags.BoolVarP(&graph, "graph", "g", false, "plot the curve")

	return cmd
}

func printCurve(curve fancurve.Table, color bool) error {
	tab := table.Table{
		Headers: []string{"Point", "Temperature", "Fan", "Allowed temperature", "Minimum fan"},
	}
	for _, index := range fancurve.Indices() {
		entry := curve.Entry(index)
		tab.Rows = append(tab.Rows, []string{
			strconv.Itoa(index.Ordinal() + 1),
			strconv.Itoa(int(entry.Degrees)) + "°C",
			strconv.Itoa(int(entry.FanPercent)) + "%",
			strconv.Itoa(int(index.MinDegrees())) + "-" + strconv.Itoa(int(index.MaxDegrees())) + "°C",
			strconv.Itoa(int(index.MinPercent(curve.Device()))) + "%",
		})
	}

	var buf bytes.Buffer
	err := tab.WriteTable(&buf, &table.Config{
		ShowIndex:       false,
		Color:           color,
		AlternateColors: true,
		TitleColorCode:  ansi.ColorCode("white+buf"),
		AltColorCodes: []string{
			ansi.ColorCode("white"),
			ansi.ColorCode("white:236"),
		},
	})
	if err != nil {
		return err
	}
	ui.Printfln("%s", buf.String())

	return nil
}

// plotCurve renders the fan percentage for every degree from the first to the
// last point; the controller holds a point's speed until the next point.
func plotCurve(curve fancurve.Table) string {
	entries := curve.Entries()
	first, last := int(entries[0].Degrees), int(entries[len(entries)-1].Degrees)

	values := make([]float64, 0, last-first+1)
	point := 0
	for degrees := first; degrees <= last; degrees++ {
		for point+1 < len(entries) && int(entries[point+1].Degrees) <= degrees {
			point++
		}
		values = append(values, float64(entries[point].FanPercent))
	}

	caption := "Fan % / °C (" + strconv.Itoa(first) + "°C to " + strconv.Itoa(last) + "°C)"

	return asciigraph.Plot(values, asciigraph.Height(15), asciigraph.Width(100), asciigraph.Caption(caption))
}
