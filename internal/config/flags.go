package config

import (
	"flag"
	"time"
)

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-a remote API base URL
//	-t bearer token of the admin session
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-page-limit page size for listing and search cap
//	-batch-size items per batch chunk between confirmation pauses
//	-item-delay delay between plain CRUD batch calls (e.g., "300ms")
//	-ai-item-delay delay between AI-backed batch calls (e.g., "1100ms")
//	-refresh-interval background view refresh period, 0 disables
//	-c/-config json file path with configs
//
// Positional arguments are left untouched for the command dispatcher.
func ParseFlags() *StructuredConfig {
	var apiAddress string
	var token string
	var requestTimeout time.Duration
	var pageLimit int
	var batchSize int
	var itemDelay time.Duration
	var aiItemDelay time.Duration
	var refreshInterval time.Duration
	var jsonConfigPath string

	flag.StringVar(&apiAddress, "a", "", "Remote API base URL")
	flag.StringVar(&token, "t", "", "Bearer token")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	flag.IntVar(&pageLimit, "page-limit", 0, "Page size for listing and search cap")
	flag.IntVar(&batchSize, "batch-size", 0, "Items per batch chunk")
	flag.DurationVar(&itemDelay, "item-delay", 0, "Delay between CRUD batch calls")
	flag.DurationVar(&aiItemDelay, "ai-item-delay", 0, "Delay between AI-backed batch calls")
	flag.DurationVar(&refreshInterval, "refresh-interval", 0, "Background refresh period, 0 disables")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	flag.Parse()

	return &StructuredConfig{
		Adapter: Adapter{
			HTTPAddress:    apiAddress,
			RequestTimeout: requestTimeout,
		},
		Session: Session{
			Token: token,
		},
		View: View{
			PageLimit: pageLimit,
		},
		Batch: Batch{
			Size:        batchSize,
			ItemDelay:   itemDelay,
			AIItemDelay: aiItemDelay,
		},
		Workers:      Workers{RefreshInterval: refreshInterval},
		JSONFilePath: jsonConfigPath,
	}
}
