package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/loykin/svcwatch/internal/logger"
	"github.com/loykin/svcwatch/internal/watchdog"
	"github.com/spf13/viper"
)

// DefaultFileName is looked up next to the executable, then in the working
// directory, when no explicit config path is given.
const DefaultFileName = "svcwatch.toml"

// EnvPrefix prefixes environment overrides, e.g. SVCWATCH_SERVICES_SERVICE_PREFIXES.
const EnvPrefix = "SVCWATCH"

const (
	keyVersion  = "config_version"
	keySection  = "services"
	keyServices = "services.services_to_monitor"
	keyPrefixes = "services.service_prefixes"
)

// Config is the parsed watchdog configuration file.
//
//	config_version = "1.0"
//
//	[services]
//	services_to_monitor = "Spooler, W32Time"
//	service_prefixes = "App"
//
//	[log]
//	level = "info"
//	file = "svcwatch.log"
//
//	[metrics]
//	textfile = "svcwatch.prom"
type Config struct {
	Path     string
	Version  string
	Services ServicesConfig
	Log      LogConfig
	Metrics  MetricsConfig
}

type ServicesConfig struct {
	Names    []string
	Prefixes []string
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Color      bool   `mapstructure:"color"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

type MetricsConfig struct {
	Textfile       string `mapstructure:"textfile"`
	PushgatewayURL string `mapstructure:"pushgateway_url"`
	Job            string `mapstructure:"job"`
}

// Validate rejects log levels and formats the logger does not know.
func (l LogConfig) Validate() error {
	if _, err := logger.ParseLevel(l.Level); err != nil {
		return watchdog.Configf("[log] %v", err)
	}
	if _, err := logger.ParseFormat(l.Format); err != nil {
		return watchdog.Configf("[log] %v", err)
	}
	return nil
}

// Logger converts the [log] section into a logger configuration. Values
// that fail Validate fall back to info and text.
func (l LogConfig) Logger() logger.Config {
	level, _ := logger.ParseLevel(l.Level)
	format, _ := logger.ParseFormat(l.Format)
	return logger.Config{
		Slog: logger.SlogConfig{
			Level:      level,
			Format:     format,
			Color:      l.Color,
			TimeStamps: true,
		},
		File: logger.FileConfig{
			Path:       l.File,
			MaxSizeMB:  l.MaxSizeMB,
			MaxBackups: l.MaxBackups,
			MaxAgeDays: l.MaxAgeDays,
			Compress:   l.Compress,
		},
	}
}

// Find returns path when non-empty, otherwise the first DefaultFileName
// found next to the executable or in the working directory.
func Find(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	var candidates []string
	if exe, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(exe), DefaultFileName))
	}
	if wd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(wd, DefaultFileName))
	}
	for _, c := range candidates {
		if st, err := os.Stat(c); err == nil && !st.IsDir() {
			return c, nil
		}
	}
	return "", watchdog.Configf("config file %s not found (searched %s)", DefaultFileName, strings.Join(candidates, ", "))
}

// Load reads a TOML config file. Missing [services] section or missing
// services_to_monitor key are reported as *watchdog.ConfigError.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, watchdog.Configf("read config %s: %v", path, err)
	}

	if !v.IsSet(keyServices) {
		if !v.InConfig(keySection) {
			return nil, watchdog.Configf("config file is missing [%s] section", keySection)
		}
		return nil, watchdog.Configf("config file is missing 'services_to_monitor' option in [%s] section", keySection)
	}

	c := &Config{Path: path, Version: v.GetString(keyVersion)}
	var err error
	if c.Services.Names, err = SplitList(v.Get(keyServices)); err != nil {
		return nil, watchdog.Configf("services_to_monitor: %v", err)
	}
	if c.Services.Prefixes, err = SplitList(v.Get(keyPrefixes)); err != nil {
		return nil, watchdog.Configf("service_prefixes: %v", err)
	}
	c.Log = LogConfig{
		Level:      v.GetString("log.level"),
		Format:     v.GetString("log.format"),
		Color:      v.GetBool("log.color"),
		File:       v.GetString("log.file"),
		MaxSizeMB:  v.GetInt("log.max_size_mb"),
		MaxBackups: v.GetInt("log.max_backups"),
		MaxAgeDays: v.GetInt("log.max_age_days"),
		Compress:   v.GetBool("log.compress"),
	}
	if err := c.Log.Validate(); err != nil {
		return nil, err
	}
	c.Metrics = MetricsConfig{
		Textfile:       v.GetString("metrics.textfile"),
		PushgatewayURL: v.GetString("metrics.pushgateway_url"),
		Job:            v.GetString("metrics.job"),
	}
	return c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", string(logger.FormatText))
	v.SetDefault("log.color", false)
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", logger.DefaultMaxSizeMB)
	v.SetDefault("log.max_backups", logger.DefaultMaxBackups)
	v.SetDefault("log.max_age_days", logger.DefaultMaxAgeDays)
	v.SetDefault("log.compress", false)
	v.SetDefault("metrics.textfile", "")
	v.SetDefault("metrics.pushgateway_url", "")
	v.SetDefault("metrics.job", "svcwatch")
}

// SplitList accepts a comma-separated string or a list of strings and
// returns the trimmed, non-empty items. nil yields an empty list.
func SplitList(raw any) ([]string, error) {
	var parts []string
	switch x := raw.(type) {
	case nil:
		return nil, nil
	case string:
		parts = strings.Split(x, ",")
	case []string:
		parts = x
	case []any:
		for _, e := range x {
			s, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("list item %v is %T, want string", e, e)
			}
			parts = append(parts, s)
		}
	default:
		return nil, fmt.Errorf("unsupported value type %T", raw)
	}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out, nil
}
