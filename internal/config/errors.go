package config

import "errors"

// Validation errors returned by [AdminConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidAdapterConfigs indicates invalid transport settings
	// (for example, missing API address or non-positive request timeout).
	ErrInvalidAdapterConfigs = errors.New("invalid adapter configuration")
	// ErrInvalidViewConfigs indicates invalid collection view settings
	// (for example, non-positive page limit).
	ErrInvalidViewConfigs = errors.New("invalid view configuration")
	// ErrInvalidBatchConfigs indicates invalid bulk-operation settings
	// (for example, non-positive batch size or delays).
	ErrInvalidBatchConfigs = errors.New("invalid batch configuration")
)
