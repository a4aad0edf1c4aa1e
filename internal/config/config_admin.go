package config

import (
	"fmt"
	"time"
)

// Defaults applied by [GetAdminConfig] when a setting is absent from every
// configuration source. The delays match the backend's observed rate limits.
const (
	DefaultRequestTimeout = 15 * time.Second
	DefaultPageLimit      = 50
	DefaultBatchSize      = 5
	DefaultItemDelay      = 300 * time.Millisecond
	DefaultAIItemDelay    = 1100 * time.Millisecond
)

// AdminConfig is the top-level admin-client configuration assembled from
// [StructuredConfig].
type AdminConfig struct {
	// Adapter contains transport address and timeout.
	Adapter Adapter
	// Session contains the bearer token settings.
	Session Session
	// View contains collection view settings.
	View View
	// Batch contains bulk-operation pacing settings.
	Batch Batch
	// Workers contains background job settings.
	Workers Workers
}

// GetAdminConfig builds and validates the admin-client config view from the
// merged structured configuration.
//
// It loads the base config via [GetStructuredConfig], applies defaults for
// every pacing and paging setting left unset, and validates the resulting
// [AdminConfig].
func GetAdminConfig() (*AdminConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	adminCfg := &AdminConfig{
		Adapter: cfg.Adapter,
		Session: cfg.Session,
		View:    cfg.View,
		Batch:   cfg.Batch,
		Workers: cfg.Workers,
	}
	adminCfg.applyDefaults()

	return adminCfg, adminCfg.validate()
}

func (cfg *AdminConfig) applyDefaults() {
	if cfg.Adapter.RequestTimeout <= 0 {
		cfg.Adapter.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.View.PageLimit <= 0 {
		cfg.View.PageLimit = DefaultPageLimit
	}
	if cfg.Batch.Size <= 0 {
		cfg.Batch.Size = DefaultBatchSize
	}
	if cfg.Batch.ItemDelay <= 0 {
		cfg.Batch.ItemDelay = DefaultItemDelay
	}
	if cfg.Batch.AIItemDelay <= 0 {
		cfg.Batch.AIItemDelay = DefaultAIItemDelay
	}
}
