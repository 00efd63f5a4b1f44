package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// ReportConfig tunes the reporting engine's cache and pre-warm behavior.
// Fiscal periods strictly in the past are immutable, so their reports keep a
// much longer TTL than the still-open current period.
type ReportConfig struct {
	ClosedPeriodTTLSeconds int `mapstructure:"closedPeriodTTLSeconds"`
	OpenPeriodTTLSeconds   int `mapstructure:"openPeriodTTLSeconds"`
	PrewarmYears           int `mapstructure:"prewarmYears"`
	PrewarmWorkers         int `mapstructure:"prewarmWorkers"`
	PrewarmQueueSize       int `mapstructure:"prewarmQueueSize"`
}

func DefaultReportConfig() ReportConfig {
	return ReportConfig{
		ClosedPeriodTTLSeconds: int((7 * 24 * time.Hour).Seconds()),
		OpenPeriodTTLSeconds:   int((15 * time.Minute).Seconds()),
		PrewarmYears:           2,
		PrewarmWorkers:         2,
		PrewarmQueueSize:       64,
	}
}

func (c ReportConfig) ClosedPeriodTTL() time.Duration {
	return time.Duration(c.ClosedPeriodTTLSeconds) * time.Second
}

func (c ReportConfig) OpenPeriodTTL() time.Duration {
	return time.Duration(c.OpenPeriodTTLSeconds) * time.Second
}

type ReportConfigHolder struct {
	current atomic.Value // holds ReportConfig
}

func NewReportConfigHolder() (*ReportConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("report")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/ledgerline/config") // Volume-mounted config
	v.AddConfigPath("/etc/ledgerline")            // System config
	v.AddConfigPath(".")                          // Current directory (dev mode)

	v.SetEnvPrefix("LEDGERLINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultReportConfig()
	v.SetDefault("report.closedPeriodTTLSeconds", defaults.ClosedPeriodTTLSeconds)
	v.SetDefault("report.openPeriodTTLSeconds", defaults.OpenPeriodTTLSeconds)
	v.SetDefault("report.prewarmYears", defaults.PrewarmYears)
	v.SetDefault("report.prewarmWorkers", defaults.PrewarmWorkers)
	v.SetDefault("report.prewarmQueueSize", defaults.PrewarmQueueSize)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg ReportConfig
	if err := v.UnmarshalKey("report", &cfg); err != nil {
		return nil, err
	}
	if err := validateReportConfig(cfg); err != nil {
		return nil, err
	}

	holder := &ReportConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated ReportConfig
		if err := v.UnmarshalKey("report", &updated); err != nil {
			log.Printf("[report-config] reload failed: %v", err)
			return
		}
		if err := validateReportConfig(updated); err != nil {
			log.Printf("[report-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[report-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// NewStaticReportConfigHolder wraps a fixed config, for tests.
func NewStaticReportConfigHolder(cfg ReportConfig) *ReportConfigHolder {
	holder := &ReportConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func (h *ReportConfigHolder) Get() ReportConfig {
	return h.current.Load().(ReportConfig)
}

func validateReportConfig(cfg ReportConfig) error {
	if cfg.ClosedPeriodTTLSeconds <= 0 || cfg.OpenPeriodTTLSeconds <= 0 {
		return errors.New("report TTLs must be positive")
	}
	if cfg.ClosedPeriodTTLSeconds < cfg.OpenPeriodTTLSeconds {
		return errors.New("report.closedPeriodTTLSeconds must not be below openPeriodTTLSeconds")
	}
	if cfg.PrewarmYears < 0 {
		return errors.New("report.prewarmYears cannot be negative")
	}
	if cfg.PrewarmWorkers <= 0 || cfg.PrewarmQueueSize <= 0 {
		return errors.New("report.prewarm pool sizes must be positive")
	}
	return nil
}
