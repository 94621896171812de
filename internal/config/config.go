package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"codeberg.org/mutker/atkctl/internal/errors"
	"codeberg.org/mutker/atkctl/internal/logger"
	"github.com/mitchellh/go-homedir"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const (
	AppName          = "atkctl"
	DefaultEnvPrefix = "ATKCTL"
	DefaultLogLevel  = "info"
	DefaultAPIHost   = "localhost"
	DefaultAPIPort   = 9785
	configFileName   = AppName + ".yaml"
)

type Config struct {
	LogLevel       string  `mapstructure:"log_level" yaml:"log_level"`
	LogFile        string  `mapstructure:"log_file" yaml:"log_file,omitempty"`
	DisableLogging bool    `mapstructure:"disable_logging" yaml:"disable_logging"`
	Device         string  `mapstructure:"device" yaml:"device,omitempty"`
	ActivePlan     string  `mapstructure:"active_plan" yaml:"active_plan,omitempty"`
	Plans          []Plan  `mapstructure:"plans" yaml:"plans"`
	History        History `mapstructure:"history" yaml:"history"`
	API            API     `mapstructure:"api" yaml:"api"`
	Daemon         Daemon  `mapstructure:"daemon" yaml:"daemon"`

	path string
}

type History struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	DBPath  string `mapstructure:"db_path" yaml:"db_path"`
}

type API struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Host    string `mapstructure:"host" yaml:"host"`
	Port    int    `mapstructure:"port" yaml:"port"`
}

type Daemon struct {
	PIDFile string `mapstructure:"pid_file" yaml:"pid_file"`
}

// DefaultDir is the per-user configuration directory.
func DefaultDir() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", errors.New().Wrap(errors.ErrReadConfig, err)
	}

	return filepath.Join(home, ".config", AppName), nil
}

// DefaultPath is where a configuration is created when none is found.
func DefaultPath() (string, error) {
	dir, err := DefaultDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, configFileName), nil
}

func setDefaults(v *viper.Viper, dir string) {
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("log_file", "")
	v.SetDefault("disable_logging", false)
	v.SetDefault("device", "")
	v.SetDefault("active_plan", "")
	v.SetDefault("history.enabled", false)
	v.SetDefault("history.db_path", filepath.Join(dir, "history.db"))
	v.SetDefault("api.enabled", false)
	v.SetDefault("api.host", DefaultAPIHost)
	v.SetDefault("api.port", DefaultAPIPort)
	v.SetDefault("daemon.pid_file", filepath.Join(os.TempDir(), AppName+".pid"))
}

// Load reads the configuration from, in order of precedence, the explicit
// path, $<PREFIX>_CONFIG, ./atkctl.yaml and ~/.config/atkctl/atkctl.yaml.
// Environment variables such as ATKCTL_LOG_LEVEL override file values.
// Without a file the defaults are returned, unless WithCreateDefault asks
// for a template to be written first. A file named by the path or by
// $<PREFIX>_CONFIG must exist unless WithCreateDefault is given.
func Load(opts ...Option) (*Config, error) {
	errFactory := errors.New()

	o := options{envPrefix: DefaultEnvPrefix}
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, errFactory.Wrap(errors.ErrInvalidArgument, err)
		}
	}

	dir, err := DefaultDir()
	if err != nil {
		dir = "."
	}

	v := viper.New()
	setDefaults(v, dir)
	v.SetEnvPrefix(o.envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, name := range o.flagKeys {
		flag := o.flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return nil, errFactory.Wrap(errors.ErrInvalidArgument, err)
		}
	}

	path := o.configPath
	if path == "" {
		path = os.Getenv(o.envPrefix + "_CONFIG")
	}
	if path != "" {
		expanded, err := homedir.Expand(path)
		if err != nil {
			return nil, errFactory.Wrap(errors.ErrReadConfig, err)
		}
		path = expanded
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(AppName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := stderrors.As(err, &notFound) || stderrors.Is(err, fs.ErrNotExist)
		if !missing {
			return nil, errFactory.Wrap(errors.ErrReadConfig, err)
		}
		if !o.createDefault {
			if path != "" {
				return nil, errFactory.Wrap(errors.ErrMissingConfig, err).WithData(path)
			}
			logger.Debug().Msg("No configuration file found, using defaults")
			return decode(v, "")
		}

		if path == "" {
			path = filepath.Join(dir, configFileName)
		}
		if err := WriteDefault(path); err != nil {
			return nil, err
		}
		logger.Info().Str("path", path).Msg("Created a new configuration file (since there was none)")

		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errFactory.Wrap(errors.ErrReadConfig, err)
		}
	}

	return decode(v, v.ConfigFileUsed())
}

func decode(v *viper.Viper, path string) (*Config, error) {
	cfg := &Config{}
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
	))
	if err := v.Unmarshal(cfg, hook); err != nil {
		return nil, errors.New().Wrap(errors.ErrInvalidConfig, err)
	}
	cfg.path = path
	if path != "" {
		logger.Debug().Str("path", path).Msg("Configuration loaded")
	}

	return cfg, nil
}

// Path is the file the configuration was read from, empty when defaults are in use.
func (c *Config) Path() string {
	return c.path
}

// SetPath changes where Save writes to.
func (c *Config) SetPath(path string) {
	c.path = path
}

// FindPlan returns the plan with the given name.
func (c *Config) FindPlan(name string) (*Plan, bool) {
	for i := range c.Plans {
		if c.Plans[i].Name == name {
			return &c.Plans[i], true
		}
	}

	return nil, false
}

// ActivePlanConfig returns the active plan, or false when none is selected.
func (c *Config) ActivePlanConfig() (*Plan, bool) {
	if c.ActivePlan == "" {
		return nil, false
	}

	return c.FindPlan(c.ActivePlan)
}

// SetActivePlan selects a plan by name. It reports whether the selection changed.
func (c *Config) SetActivePlan(name string) (bool, error) {
	if _, ok := c.FindPlan(name); !ok {
		return false, errors.New().WithData(errors.ErrUnknownPlan, name)
	}
	if c.ActivePlan == name {
		return false, nil
	}
	c.ActivePlan = name

	return true, nil
}

// PlanNames lists the plans in file order.
func (c *Config) PlanNames() []string {
	names := make([]string, len(c.Plans))
	for i, plan := range c.Plans {
		names[i] = plan.Name
	}

	return names
}
