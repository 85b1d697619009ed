package configs

import "time"

// Config holds all configuration for the application.
type Config struct {
	Server      ServerConfig      `mapstructure:"server" validate:"required"`
	Log         LogConfig         `mapstructure:"log" validate:"required"`
	FileStorage FileStorageConfig `mapstructure:"file_storage" validate:"required"`
	Batching    BatchingConfig    `mapstructure:"batching" validate:"required"`
	Identity    IdentityConfig    `mapstructure:"identity" validate:"required"`
	Catalog     CatalogConfig     `mapstructure:"catalog"`
}

// ServerConfig holds the local ingestion endpoint configuration.
type ServerConfig struct {
	Port              int   `mapstructure:"port" validate:"required,min=1,max=65535"`
	ReadHeaderTimeout int   `mapstructure:"read_header_timeout" validate:"required,min=1"` // seconds
	ReadTimeout       int   `mapstructure:"read_timeout" validate:"required,min=1"`        // seconds (headers+body)
	WriteTimeout      int   `mapstructure:"write_timeout" validate:"required,min=1"`       // seconds (response)
	IdleTimeout       int   `mapstructure:"idle_timeout" validate:"required,min=1"`        // seconds (keep-alive)
	MaxBodyBytes      int64 `mapstructure:"max_body_bytes" validate:"min=0"`               // 0 means 1 MiB
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required"`
}

// FileStorageConfig holds file storage configuration.
type FileStorageConfig struct {
	RootDir  string `mapstructure:"root_dir" validate:"required"`
	BatchDir string `mapstructure:"batch_dir"`
	// KeepDeviceContext persists the last device context so batches can be written right after
	// a restart.
	KeepDeviceContext bool `mapstructure:"keep_device_context"`
}

// BatchingConfig holds the engine's flush policy and queue sizing.
type BatchingConfig struct {
	MaxEvents     int           `mapstructure:"max_events" validate:"required,min=1"`
	SendPeriod    time.Duration `mapstructure:"send_period" validate:"required,min=1s"`
	QueueCapacity int           `mapstructure:"queue_capacity" validate:"required,min=1"`
	PollInterval  time.Duration `mapstructure:"poll_interval" validate:"required,min=1ms"`
}

// IdentityConfig holds the batch header fields of this device.
type IdentityConfig struct {
	DeviceName      string `mapstructure:"device_name" validate:"required"`
	HardwareVersion string `mapstructure:"hardware_version" validate:"required"`
	HardwareID      string `mapstructure:"hardware_id" validate:"required,hexadecimal"`
	SoftwareVersion string `mapstructure:"software_version" validate:"required"`
	ClientID        string `mapstructure:"client_id" validate:"required,excludesall=/\\"`
	CardID          string `mapstructure:"card_id"`
	AmsID           string `mapstructure:"ams_id" validate:"omitempty,hexadecimal"`
	AmsPanel        int64  `mapstructure:"ams_panel" validate:"min=0"`
}

// CatalogConfig holds the programme catalog client configuration. An empty BaseURL disables
// catalog lookups.
type CatalogConfig struct {
	BaseURL           string        `mapstructure:"base_url" validate:"omitempty,url"`
	Timeout           time.Duration `mapstructure:"timeout" validate:"required_with=BaseURL"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second" validate:"min=0"`
}
