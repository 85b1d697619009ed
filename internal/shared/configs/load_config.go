package configs

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"stb-telemetry/internal/shared/validators"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. STB_TELEMETRY_BATCHING_MAX_EVENTS.
const EnvPrefix = "STB_TELEMETRY"

// LoadConfig reads configuration from file, applies environment overrides and validates it.
var LoadConfig = func(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read from file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", configPath, err)
	}

	// Unmarshal into Config
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate config
	validate := validators.New()
	if err := validate.Struct(&cfg); err != nil {
		var validationErrors []string
		var ve validators.ValidationErrors
		if errors.As(err, &ve) {
			for _, e := range ve {
				validationErrors = append(validationErrors, formatValidationError(e))
			}
		}
		return nil, fmt.Errorf("config validation failed: %s", strings.Join(validationErrors, ", "))
	}

	return &cfg, nil
}

// setDefaults registers every key so environment overrides apply even when the file omits it.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_header_timeout", 5)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("server.idle_timeout", 60)
	v.SetDefault("server.max_body_bytes", 1<<20)
	v.SetDefault("log.level", "info")
	v.SetDefault("file_storage.root_dir", "")
	v.SetDefault("file_storage.batch_dir", "batches")
	v.SetDefault("file_storage.keep_device_context", true)
	v.SetDefault("batching.max_events", 500)
	v.SetDefault("batching.send_period", 30*time.Minute)
	v.SetDefault("batching.queue_capacity", 1024)
	v.SetDefault("batching.poll_interval", time.Second)
	for _, key := range []string{
		"identity.device_name", "identity.hardware_version", "identity.hardware_id",
		"identity.software_version", "identity.client_id", "identity.card_id", "identity.ams_id",
	} {
		v.SetDefault(key, "")
	}
	v.SetDefault("identity.ams_panel", 0)
	v.SetDefault("catalog.base_url", "")
	v.SetDefault("catalog.timeout", 5*time.Second)
	v.SetDefault("catalog.requests_per_second", 2.0)
}

// formatValidationError formats a single validation error into a readable string.
func formatValidationError(e validators.FieldError) string {
	field := e.Field()
	tag := e.Tag()

	// Build field path (e.g., "Config.Batching.MaxEvents" -> "batching.maxevents")
	if e.StructNamespace() != "" {
		parts := strings.Split(e.StructNamespace(), ".")
		if len(parts) >= 2 {
			field = strings.ToLower(strings.Join(parts[1:], "."))
		}
	}

	var msg string
	switch tag {
	case "required":
		msg = fmt.Sprintf("%s (required)", field)
	case "min", "max", "oneof", "excludesall":
		msg = fmt.Sprintf("%s (%s=%s)", field, tag, e.Param())
	default:
		msg = fmt.Sprintf("%s (%s)", field, tag)
	}

	return msg
}
