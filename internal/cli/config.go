package cli

import (
	"codeberg.org/mutker/atkctl/internal/config"
	"codeberg.org/mutker/atkctl/internal/ui"
	"github.com/spf13/cobra"
)

func (a *app) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration related commands",
	}
	cmd.AddCommand(a.configValidateCommand(), a.configInitCommand())

	return cmd
}

func (a *app) configValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validates the current configuration",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// note: the config file path comes from the root command (-c)
			if path := a.cfg.Path(); path != "" {
				ui.Info("Using configuration file at: %s", path)
			} else {
				ui.Info("No configuration file found, checking the defaults")
			}

			status := a.cfg.Status()
			if !status.Valid {
				for _, problem := range status.ValidationErrors {
					ui.Error("%s", problem)
				}
				return a.cfg.Validate()
			}

			ui.Success("Config looks good! :)")

			return nil
		},
	}
}

func (a *app) configInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "init",
		Short:       "Writes a configuration file with the default plans",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationNoConfig: "true"},
		RunE: func(_ *cobra.Command, _ []string) error {
			path := a.configFile
			if path == "" {
				var err error
				if path, err = config.DefaultPath(); err != nil {
					return err
				}
			}

			if err := config.WriteDefault(path); err != nil {
				return err
			}
			ui.Success("Configuration written to %s", path)

			return nil
		},
	}
}
