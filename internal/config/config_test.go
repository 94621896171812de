package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"codeberg.org/mutker/atkctl/internal/atk"
	"codeberg.org/mutker/atkctl/internal/config"
	"codeberg.org/mutker/atkctl/internal/errors"
	"codeberg.org/mutker/atkctl/internal/fancurve"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("ATKCTL_CONFIG", "")
	homedir.DisableCache = true
	t.Cleanup(func() { homedir.DisableCache = false })

	return home
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	isolateHome(t)

	configPath := writeConfig(t, "atkctl.yaml", `
log_level: debug
log_file: /tmp/atkctl.log
active_plan: Quiet
plans:
  - name: Quiet
    plan: silent
    refresh_interval_sec: 60
    cpu_curve: "30c:0%,40c:0%,50c:0%,60c:0%,70c:31%,80c:49%,90c:56%,100c:56%"
    gpu_curve: "30c:0%,40c:0%,50c:0%,60c:0%,70c:34%,80c:51%,90c:61%,100c:61%"
  - name: Fast
    plan: performance
history:
  enabled: true
  db_path: /var/lib/atkctl/history.db
api:
  enabled: true
  port: 8080
`)

	cfg, err := config.Load(config.WithConfigFile(configPath))
	require.NoError(t, err)

	assert.Equal(t, configPath, cfg.Path())
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/tmp/atkctl.log", cfg.LogFile)
	assert.Equal(t, "Quiet", cfg.ActivePlan)
	require.Len(t, cfg.Plans, 2)

	quiet := cfg.Plans[0]
	assert.Equal(t, config.PlanSilent, quiet.Plan)
	assert.Equal(t, atk.Silent, quiet.Plan.PowerPlan())
	assert.Equal(t, 60, quiet.RefreshIntervalSec)
	assert.True(t, quiet.HasCurves())

	fast := cfg.Plans[1]
	assert.Equal(t, config.PlanPerformance, fast.Plan)
	assert.Equal(t, atk.PerformanceWindows, fast.Plan.PowerPlan())
	assert.False(t, fast.HasCurves())
	assert.Zero(t, fast.RefreshInterval())

	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, "/var/lib/atkctl/history.db", cfg.History.DBPath)
	assert.True(t, cfg.API.Enabled)
	assert.Equal(t, config.DefaultAPIHost, cfg.API.Host)
	assert.Equal(t, 8080, cfg.API.Port)

	require.NoError(t, cfg.Validate())

	active, ok := cfg.ActivePlanConfig()
	require.True(t, ok)
	assert.Equal(t, "Quiet", active.Name)
}

func TestLoadDefaults(t *testing.T) {
	isolateHome(t)

	cfg, err := config.Load()
	require.NoError(t, err, "Failed to load config")

	assert.Equal(t, config.DefaultLogLevel, cfg.LogLevel)
	assert.Empty(t, cfg.Plans)
	assert.Empty(t, cfg.Path())
	assert.False(t, cfg.History.Enabled)
	assert.Equal(t, config.DefaultAPIPort, cfg.API.Port)
	assert.NotEmpty(t, cfg.Daemon.PIDFile)

	_, ok := cfg.ActivePlanConfig()
	assert.False(t, ok)
}

func TestLoadFromEnvironment(t *testing.T) {
	isolateHome(t)

	configPath := writeConfig(t, "custom.yaml", `
plans:
  - name: Turbo
    plan: turbo
`)
	t.Setenv("ATKCTL_CONFIG", configPath)
	t.Setenv("ATKCTL_LOG_LEVEL", "error")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.LogLevel)
	require.Len(t, cfg.Plans, 1)
	assert.Equal(t, atk.TurboManual, cfg.Plans[0].Plan.PowerPlan())
}

func TestLoadWithFlags(t *testing.T) {
	isolateHome(t)

	configPath := writeConfig(t, "atkctl.yaml", `
log_level: info
device: from-file
`)
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("log-level", "", "")
	flags.String("device", "", "")
	require.NoError(t, flags.Parse([]string{"--log-level", "debug"}))

	cfg, err := config.Load(
		config.WithConfigFile(configPath),
		config.WithFlags(flags, map[string]string{
			"log_level": "log-level",
			"device":    "device",
			"unknown":   "missing-flag",
		}),
	)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "from-file", cfg.Device)

	_, err = config.Load(config.WithFlags(nil, nil))
	assert.True(t, errors.HasCode(err, errors.ErrInvalidArgument))
}

func TestLoadCreatesDefault(t *testing.T) {
	home := isolateHome(t)

	cfg, err := config.Load(config.WithCreateDefault())
	require.NoError(t, err)

	expected := filepath.Join(home, ".config", "atkctl", "atkctl.yaml")
	assert.FileExists(t, expected)
	assert.Equal(t, expected, cfg.Path())
	assert.Equal(t, config.Default().Plans, cfg.Plans)
	require.NoError(t, cfg.Validate())

	// A second load reads the file that was just created.
	again, err := config.Load(config.WithCreateDefault())
	require.NoError(t, err)
	assert.Equal(t, cfg.Plans, again.Plans)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	isolateHome(t)

	_, err := config.Load(config.WithConfigFile(filepath.Join(t.TempDir(), "missing.yaml")))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrMissingConfig))
}

func TestLoadMissingEnvironmentFile(t *testing.T) {
	isolateHome(t)

	missing := filepath.Join(t.TempDir(), "missing.yaml")
	t.Setenv("ATKCTL_CONFIG", missing)

	_, err := config.Load()
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrMissingConfig))
	assert.NoFileExists(t, missing)

	cfg, err := config.Load(config.WithCreateDefault())
	require.NoError(t, err)
	assert.FileExists(t, missing)
	assert.Equal(t, missing, cfg.Path())
}

func TestLoadConfigFileInvalidFormat(t *testing.T) {
	isolateHome(t)

	configPath := writeConfig(t, "atkctl.yaml", "plans: [this is: not valid")

	_, err := config.Load(config.WithConfigFile(configPath))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrReadConfig))
}

func TestLoadInvalidPowerPlan(t *testing.T) {
	isolateHome(t)

	configPath := writeConfig(t, "atkctl.yaml", `
plans:
  - name: Eco
    plan: eco
`)

	_, err := config.Load(config.WithConfigFile(configPath))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidConfig))
}

func TestValidate(t *testing.T) {
	bad := "35c:45%,abc"
	cfg := &config.Config{
		LogLevel:   "invalid",
		ActivePlan: "Missing",
		Plans: []config.Plan{
			{Name: "A", Plan: config.PlanSilent},
			{Name: "A", Plan: config.PlanTurbo, RefreshIntervalSec: -1},
			{Name: "", Plan: config.PlanWindows, CPUCurve: &bad},
		},
		API: config.API{Enabled: true, Port: 70000},
	}

	status := cfg.Status()
	assert.False(t, status.Valid)

	fields := make([]string, 0, len(status.ValidationErrors))
	for _, problem := range status.ValidationErrors {
		fields = append(fields, problem.Field())
	}
	assert.ElementsMatch(t, []string{
		"log_level",
		"plans[1].name",
		"plans[1].refresh_interval_sec",
		"plans[2].name",
		"plans[2].cpu_curve",
		"active_plan",
		"api.port",
	}, fields)

	codes := make(map[string]errors.ErrorCode, len(status.ValidationErrors))
	for _, problem := range status.ValidationErrors {
		codes[problem.Field()] = problem.Code()
	}
	assert.Equal(t, errors.ErrInvalidLogLevel, codes["log_level"])
	assert.Equal(t, errors.ErrDuplicatePlan, codes["plans[1].name"])
	assert.Equal(t, errors.ErrInvalidRefresh, codes["plans[1].refresh_interval_sec"])
	assert.Equal(t, errors.ErrInvalidConfig, codes["plans[2].name"])
	assert.Equal(t, fancurve.ErrCurveSyntax, codes["plans[2].cpu_curve"])
	assert.Equal(t, errors.ErrUnknownPlan, codes["active_plan"])

	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidConfig))
	assert.True(t, errors.HasCode(err, errors.ErrDuplicatePlan))
	assert.True(t, errors.HasCode(err, errors.ErrInvalidRefresh))
	assert.False(t, errors.HasCode(err, errors.ErrInvalidPlan))
	assert.Contains(t, err.Error(), "duplicate plan name")
}

func TestValidateSingleProblem(t *testing.T) {
	cfg := config.Default()
	cfg.Plans[0].RefreshIntervalSec = -30

	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidRefresh))
	assert.False(t, errors.HasCode(err, errors.ErrDuplicatePlan))

	code, ok := errors.CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrInvalidConfig, code)
}

func TestSetActivePlan(t *testing.T) {
	cfg := config.Default()

	changed, err := cfg.SetActivePlan("Turbo")
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = cfg.SetActivePlan("Turbo")
	require.NoError(t, err)
	assert.False(t, changed)

	_, err = cfg.SetActivePlan("Nope")
	assert.True(t, errors.HasCode(err, errors.ErrUnknownPlan))
	assert.Equal(t, "Turbo", cfg.ActivePlan)
}

func TestSaveRoundTrip(t *testing.T) {
	isolateHome(t)

	cfg := config.Default()
	path := filepath.Join(t.TempDir(), "nested", "atkctl.yaml")
	cfg.SetPath(path)
	_, err := cfg.SetActivePlan("Windows")
	require.NoError(t, err)
	require.NoError(t, cfg.Save())

	loaded, err := config.Load(config.WithConfigFile(path))
	require.NoError(t, err)
	assert.Equal(t, "Windows", loaded.ActivePlan)
	assert.Equal(t, cfg.Plans, loaded.Plans)

	err = config.WriteDefault(path)
	assert.True(t, errors.HasCode(err, errors.ErrWriteConfig))
}

func TestParsePowerPlanName(t *testing.T) {
	for _, name := range config.PowerPlanNames() {
		parsed, err := config.ParsePowerPlanName(string(name))
		require.NoError(t, err)
		assert.Equal(t, name, parsed)
	}

	parsed, err := config.ParsePowerPlanName(" Turbo ")
	require.NoError(t, err)
	assert.Equal(t, config.PlanTurbo, parsed)

	_, err = config.ParsePowerPlanName("eco")
	assert.True(t, errors.HasCode(err, errors.ErrInvalidPlan))
}

func TestLogLevelIsValid(t *testing.T) {
	assert.True(t, config.LogLevel("DEBUG").IsValid())
	assert.True(t, config.LogLevelWarning.IsValid())
	assert.False(t, config.LogLevel("trace").IsValid())
}
