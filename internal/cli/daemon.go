package cli

import (
	"codeberg.org/mutker/atkctl/internal/api"
	"codeberg.org/mutker/atkctl/internal/config"
	"codeberg.org/mutker/atkctl/internal/daemon"
	"codeberg.org/mutker/atkctl/internal/logger"
	"codeberg.org/mutker/atkctl/internal/statistics"
	"github.com/spf13/cobra"
)

func (a *app) daemonCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Keeps the active plan applied and serves the REST API",
		Long: `Applies the active plan, re-applies it every refresh_interval_sec and
serves the REST API when enabled. SIGHUP reloads the configuration.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			stats := statistics.New()
			e, done, err := a.newEngine(stats)
			if err != nil {
				return err
			}
			defer done()

			var server *api.Server
			if a.cfg.API.Enabled {
				server = api.New(e, stats.Handler())
			}

			d := daemon.New(daemon.Options{
				Engine: e,
				Load: func() (*config.Config, error) {
					cfg, err := a.loadConfig(cmd)
					if err != nil {
						return nil, err
					}
					if err := cfg.Validate(); err != nil {
						return nil, err
					}
					return cfg, nil
				},
				API:     server,
				PIDFile: a.cfg.Daemon.PIDFile,
				Logger:  logger.Default(),
				Signals: true,
			})

			return d.Run(cmd.Context())
		},
	}
}
