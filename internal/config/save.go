package config

import (
	"bytes"
	"os"
	"path/filepath"

	"codeberg.org/mutker/atkctl/internal/errors"
	"codeberg.org/mutker/atkctl/internal/logger"
	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"
)

const configDirPerm = 0o755

const (
	defaultCPUCurve = "30c:0%,40c:0%,50c:0%,60c:0%,70c:31%,80c:49%,90c:56%,100c:56%"
	defaultGPUCurve = "30c:0%,40c:0%,50c:0%,60c:0%,70c:34%,80c:51%,90c:61%,100c:61%"
)

// Default returns the template written for new users.
func Default() *Config {
	cpu, gpu := defaultCPUCurve, defaultGPUCurve
	dir, err := DefaultDir()
	if err != nil {
		dir = "."
	}

	return &Config{
		LogLevel:   DefaultLogLevel,
		ActivePlan: "Silent (low-speed fan)",
		Plans: []Plan{
			{Name: "Silent (fan off)", Plan: PlanSilent},
			{Name: "Silent (low-speed fan)", Plan: PlanSilent, RefreshIntervalSec: 120, CPUCurve: &cpu, GPUCurve: &gpu},
			{Name: "Windows", Plan: PlanWindows},
			{Name: "Performance", Plan: PlanPerformance},
			{Name: "Turbo", Plan: PlanTurbo},
		},
		History: History{DBPath: filepath.Join(dir, "history.db")},
		API:     API{Host: DefaultAPIHost, Port: DefaultAPIPort},
		Daemon:  Daemon{PIDFile: filepath.Join(os.TempDir(), AppName+".pid")},
	}
}

// WriteDefault writes the template to path unless a file already exists there.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return errors.New().WithData(errors.ErrWriteConfig, path+" already exists")
	}

	cfg := Default()
	cfg.path = path

	return cfg.Save()
}

// Save replaces the configuration file in one step so readers never see a
// partial file.
func (c *Config) Save() error {
	errFactory := errors.New()

	if c.path == "" {
		path, err := DefaultPath()
		if err != nil {
			return err
		}
		c.path = path
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return errFactory.Wrap(errors.ErrWriteConfig, err)
	}

	if err := os.MkdirAll(filepath.Dir(c.path), configDirPerm); err != nil {
		return errFactory.Wrap(errors.ErrWriteConfig, err)
	}

	if err := atomic.WriteFile(c.path, bytes.NewReader(data)); err != nil {
		return errFactory.Wrap(errors.ErrWriteConfig, err).WithData(c.path)
	}
	logger.Debug().Str("path", c.path).Msg("Configuration saved")

	return nil
}
