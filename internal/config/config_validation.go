// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// Currently a no-op placeholder; cross-source rules live on the derived
// [AdminConfig] view instead.
//
// Returns nil if the configuration is valid, or a descriptive error otherwise.
func (cfg *StructuredConfig) validate() error {
	return nil
}

func (cfg *AdminConfig) validate() error {
	if cfg.Adapter.HTTPAddress == "" || cfg.Adapter.RequestTimeout <= 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.View.PageLimit <= 0 {
		return ErrInvalidViewConfigs
	}

	if cfg.Batch.Size <= 0 || cfg.Batch.ItemDelay <= 0 || cfg.Batch.AIItemDelay <= 0 {
		return ErrInvalidBatchConfigs
	}

	return nil
}
