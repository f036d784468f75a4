package ukv

import (
	"encoding/json"
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// Config is the decoded form of the free-form JSON configuration string
// Open accepts.
type Config struct {
	// Engine selects the backend: "memory" (default), "badger"/"badgerdb",
	// or "remote".
	Engine string `mapstructure:"engine"`
	// Path is the backend's directory (badgerdb) or dial target (remote).
	Path string `mapstructure:"path"`
	// Cache bounds an optional read-through value cache, in entries.
	Cache int `mapstructure:"cache"`
	// LogLevel selects the minimum severity a logrus-backed Logger emits:
	// "debug", "warn", or "error". Empty leaves logging a no-op, the
	// default for callers that never set it.
	LogLevel string `mapstructure:"log_level"`
}

// parseConfig decodes raw JSON into a Config, going through an
// intermediate map so unknown keys are tolerated the way a loosely
// versioned config contract should be.
func parseConfig(raw string) (Config, error) {
	if raw == "" {
		return Config{}, nil
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return Config{}, fmt.Errorf("ukv: parse config: %w", err)
	}
	var cfg Config
	if err := mapstructure.Decode(m, &cfg); err != nil {
		return Config{}, fmt.Errorf("ukv: decode config: %w", err)
	}
	return cfg, nil
}
