// Package config loads and merges quote-admin configuration from
// environment variables, command-line flags, and an optional JSON file.
//
// Sources are merged by a builder with mergo; the first non-zero value wins
// in the order env, flags, JSON. The merged [StructuredConfig] is narrowed to
// an [AdminConfig] view with defaults applied and validated before use.
package config
