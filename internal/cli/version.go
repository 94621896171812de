package cli

import (
	"codeberg.org/mutker/atkctl/internal/ui"
	"github.com/spf13/cobra"
)

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print the version number of atkctl",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationNoConfig: "true"},
		Run: func(_ *cobra.Command, _ []string) {
			ui.Printfln("%s", Version)
		},
	}
}
