// Package cli implements the atkctl command line.
package cli

import (
	"context"

	"codeberg.org/mutker/atkctl/internal/config"
	"codeberg.org/mutker/atkctl/internal/engine"
	"codeberg.org/mutker/atkctl/internal/history"
	"codeberg.org/mutker/atkctl/internal/logger"
	"codeberg.org/mutker/atkctl/internal/ui"
	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X ...cli.Version=...".
var Version = "dev"

const annotationNoConfig = "no-config"

// flagKeys maps configuration keys to the persistent flags overriding them.
var flagKeys = map[string]string{
	"log_level": "log-level",
	"device":    "device-file",
}

// Options lets tests replace the hardware.
type Options struct {
	Open engine.Opener
}

type app struct {
	opts Options

	configFile string
	logLevel   string
	deviceFile string
	strict     bool
	noColor    bool
	noStyle    bool

	cfg *config.Config
}

// NewRootCommand builds the command tree.
func NewRootCommand(opts Options) *cobra.Command {
	if opts.Open == nil {
		opts.Open = engine.DefaultOpener
	}
	a := &app{opts: opts}

	root := &cobra.Command{
		Use:   config.AppName,
		Short: "Sets power plans and fan curves on ASUS ATK laptops",
		Long: `atkctl controls the embedded fan controller of ASUS laptops through the
ATK ACPI interface: it selects power plans and uploads custom fan curves.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configFile, "config", "c", "", "config file (default is ~/.config/atkctl/atkctl.yaml)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warning, error)")
	flags.StringVar(&a.deviceFile, "device-file", "", `ATK device to open (default is \\.\ATKACPI)`)
	flags.BoolVar(&a.strict, "strict", false, "reject fan curves that need adjusting instead of repairing them")
	flags.BoolVar(&a.noColor, "no-color", false, "disable all terminal output coloration")
	flags.BoolVar(&a.noStyle, "no-style", false, "disable all terminal output styling")

	root.AddCommand(
		a.planCommand(),
		a.fanCommand(),
		a.curveCommand(),
		a.plansCommand(),
		a.applyCommand(),
		a.daemonCommand(),
		a.historyCommand(),
		a.configCommand(),
		versionCommand(),
	)

	return root
}

// Execute runs the command line against the real device.
func Execute() error {
	return NewRootCommand(Options{}).ExecuteContext(context.Background())
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if a.noColor {
		ui.DisableColor()
	}
	if a.noStyle {
		ui.DisableStyling()
	}

	if cmd.Annotations[annotationNoConfig] != "" {
		return logger.Init(logger.Options{Level: a.logLevel, IsService: logger.IsService()})
	}

	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return err
	}
	a.cfg = cfg

	return logger.Init(logger.Options{
		Level:     cfg.LogLevel,
		File:      cfg.LogFile,
		Disabled:  cfg.DisableLogging,
		IsService: logger.IsService(),
	})
}

// loadConfig writes the default plans to disk on first run.
func (a *app) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	return config.Load(
		config.WithConfigFile(a.configFile),
		config.WithFlags(cmd.Flags(), flagKeys),
		config.WithCreateDefault(),
	)
}

// newEngine opens the history database and returns an engine using it. The
// returned func closes the database.
func (a *app) newEngine(stats engine.Observer) (*engine.Engine, func(), error) {
	recorder, err := history.NewRecorder(history.Config{
		Enabled: a.cfg.History.Enabled,
		DBPath:  a.cfg.History.DBPath,
	}, logger.Default())
	if err != nil {
		return nil, nil, err
	}

	e := engine.New(engine.Options{
		Config:  a.cfg,
		Open:    a.opts.Open,
		History: recorder,
		Stats:   stats,
		Logger:  logger.Default(),
		Strict:  a.strict,
	})
	closer := func() {
		if err := recorder.Close(); err != nil {
			logger.Warn().Err(err).Msg("Failed to close history")
		}
	}

	return e, closer, nil
}

func cliContext(cmd *cobra.Command) context.Context {
	return history.WithSource(cmd.Context(), history.SourceCLI)
}
