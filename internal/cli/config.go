package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"railwatch/server/internal/app"
	"railwatch/server/logging"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeyAddr        = "addr"
	cfgKeySQLitePath  = "sqlite_path"
	cfgKeyDemoWorld   = "demo_world"
	cfgKeyMetrics     = "metrics"
	cfgKeyLogSinks    = "log.sinks"
	cfgKeyLogJSONPath = "log.json_path"
	cfgKeyLogSeverity = "log.severity"
)

// defaultConfigYAML is written to config.yaml on first run.
const defaultConfigYAML = `# railwatchd configuration

# Listen address for the HTTP/websocket surface.
addr: ":8080"

# Persist per-train user data to SQLite; empty keeps it in memory.
# sqlite_path: railwatch.db

# Seed the embedded world with a demo rail network.
demo_world: true

# Expose prometheus metrics on /metrics.
metrics: true

log:
  sinks: [console]
  severity: info
  # json_path: railwatch.log
`

// loadConfig reads config.yaml from the resolved config directory using
// Viper, creating the directory and a default file on first run. A missing
// config.yaml is not an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyAddr, ":8080")
	v.SetDefault(cfgKeyDemoWorld, true)
	v.SetDefault(cfgKeyMetrics, true)
	v.SetDefault(cfgKeyLogSinks, []string{"console"})
	v.SetDefault(cfgKeyLogSeverity, "info")
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

// appConfig maps the loaded viper tree onto the server config.
func appConfig(v *viper.Viper) app.Config {
	cfg := app.DefaultConfig()
	cfg.Addr = v.GetString(cfgKeyAddr)
	cfg.SQLitePath = v.GetString(cfgKeySQLitePath)
	cfg.DemoScenario = v.GetBool(cfgKeyDemoWorld)
	cfg.Observability.EnableMetrics = v.GetBool(cfgKeyMetrics)

	if sinks := v.GetStringSlice(cfgKeyLogSinks); len(sinks) > 0 {
		cfg.Logging.EnabledSinks = sinks
	}
	cfg.Logging.JSON.FilePath = v.GetString(cfgKeyLogJSONPath)
	cfg.Logging.MinimumSeverity = parseSeverity(v.GetString(cfgKeyLogSeverity))
	return cfg
}

func parseSeverity(raw string) logging.Severity {
	switch raw {
	case "debug":
		return logging.SeverityDebug
	case "warn":
		return logging.SeverityWarn
	case "error":
		return logging.SeverityError
	default:
		return logging.SeverityInfo
	}
}
