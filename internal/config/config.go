package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `json:"server"`
	Database DatabaseConfig `json:"database"`
	Storage  StorageConfig  `json:"storage"`
	Security SecurityConfig `json:"security"`
	Signing  SigningConfig  `json:"signing"`
	Logging  LoggingConfig  `json:"logging"`
	Events   EventsConfig   `json:"events"`
	Audit    AuditConfig    `json:"audit"`
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Host         string        `json:"host"`
	Port         int           `json:"port"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
	IdleTimeout  time.Duration `json:"idle_timeout"`
	// PublicBaseURL is the origin printed into verification links.
	PublicBaseURL  string   `json:"public_base_url"`
	MaxUploadMB    int64    `json:"max_upload_mb"`
	AllowedOrigins []string `json:"allowed_origins"`
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	Host           string        `json:"host"`
	Port           int           `json:"port"`
	User           string        `json:"user"`
	Password       string        `json:"password"`
	DBName         string        `json:"db_name"`
	SSLMode        string        `json:"ssl_mode"`
	MaxConnections int           `json:"max_connections"`
	MaxIdleConns   int           `json:"max_idle_conns"`
	MaxLifetime    time.Duration `json:"max_lifetime"`
	AutoMigrate    bool          `json:"auto_migrate"`
}

// StorageConfig selects and configures the blob backend.
type StorageConfig struct {
	Driver      string `json:"driver"` // local or s3
	LocalDir    string `json:"local_dir"`
	S3Bucket    string `json:"s3_bucket"`
	S3Region    string `json:"s3_region"`
	S3Endpoint  string `json:"s3_endpoint"`
	S3AccessKey string `json:"s3_access_key"`
	S3SecretKey string `json:"s3_secret_key"`
	S3PathStyle bool   `json:"s3_path_style"`
	S3Prefix    string `json:"s3_prefix"`
}

// SecurityConfig
type SecurityConfig struct {
	JWTSecret    string        `json:"jwt_secret"`
	TokenTTL     time.Duration `json:"token_ttl"`
	AutoRegister bool          `json:"auto_register"`
}

// SigningConfig
type SigningConfig struct {
	Caption string `json:"caption"`
	QRSize  int    `json:"qr_size"`
}

// LoggingConfig
type LoggingConfig struct {
	Level       string `json:"level"`
	Development bool   `json:"development"`
}

// EventsConfig enables SNS publication of signing events.
type EventsConfig struct {
	SNSTopicARN string `json:"sns_topic_arn"`
	Region      string `json:"region"`
}

// AuditConfig schedules the blob integrity audit.
type AuditConfig struct {
	Enabled  bool   `json:"enabled"`
	Schedule string `json:"schedule"`
	PageSize int    `json:"page_size"`
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           8080,
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   30 * time.Second,
			IdleTimeout:    60 * time.Second,
			PublicBaseURL:  "http://localhost:3000",
			MaxUploadMB:    20,
			AllowedOrigins: []string{"*"},
		},
		Database: DatabaseConfig{
			Host:           "localhost",
			Port:           5432,
			User:           os.Getenv("USER"),
			DBName:         "digisign",
			SSLMode:        "disable",
			MaxConnections: 25,
			MaxIdleConns:   5,
			MaxLifetime:    30 * time.Minute,
			AutoMigrate:    true,
		},
		Storage: StorageConfig{
			Driver:   "local",
			LocalDir: "uploads",
			S3Region: "us-east-1",
		},
		Security: SecurityConfig{
			TokenTTL: 24 * time.Hour,
		},
		Signing: SigningConfig{
			Caption: "Dokumen ini ditandatangani secara elektronik",
			QRSize:  256,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Audit: AuditConfig{
			Schedule: "@every 6h",
			PageSize: 200,
		},
	}
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := Default()

	// Load from file if exists
	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			if err := json.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	// Override with environment variables
	if err := overrideWithEnv(config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func overrideWithEnv(config *Config) error {
	var errs []error
	str := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	integer := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = n
		}
	}
	boolean := func(key string, dst *bool) {
		if v := os.Getenv(key); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = b
		}
	}
	duration := func(key string, dst *time.Duration) {
		if v := os.Getenv(key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = d
		}
	}

	str("SERVER_HOST", &config.Server.Host)
	integer("SERVER_PORT", &config.Server.Port)
	str("PUBLIC_BASE_URL", &config.Server.PublicBaseURL)
	if v := os.Getenv("MAX_UPLOAD_MB"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("MAX_UPLOAD_MB: %w", err))
		} else {
			config.Server.MaxUploadMB = n
		}
	}

	str("DATABASE_HOST", &config.Database.Host)
	integer("DATABASE_PORT", &config.Database.Port)
	str("DATABASE_USER", &config.Database.User)
	str("DATABASE_PASSWORD", &config.Database.Password)
	str("DATABASE_DBNAME", &config.Database.DBName)
	str("DATABASE_SSLMODE", &config.Database.SSLMode)
	boolean("DATABASE_AUTO_MIGRATE", &config.Database.AutoMigrate)

	str("STORAGE_DRIVER", &config.Storage.Driver)
	str("STORAGE_LOCAL_DIR", &config.Storage.LocalDir)
	str("S3_BUCKET", &config.Storage.S3Bucket)
	str("S3_REGION", &config.Storage.S3Region)
	str("S3_ENDPOINT", &config.Storage.S3Endpoint)
	str("S3_ACCESS_KEY", &config.Storage.S3AccessKey)
	str("S3_SECRET_KEY", &config.Storage.S3SecretKey)
	boolean("S3_PATH_STYLE", &config.Storage.S3PathStyle)
	str("S3_PREFIX", &config.Storage.S3Prefix)

	str("JWT_SECRET", &config.Security.JWTSecret)
	duration("TOKEN_TTL", &config.Security.TokenTTL)
	boolean("AUTO_REGISTER", &config.Security.AutoRegister)

	str("SIGNING_CAPTION", &config.Signing.Caption)
	integer("SIGNING_QR_SIZE", &config.Signing.QRSize)

	str("LOG_LEVEL", &config.Logging.Level)
	boolean("LOG_DEVELOPMENT", &config.Logging.Development)

	str("EVENTS_SNS_TOPIC_ARN", &config.Events.SNSTopicARN)
	str("EVENTS_REGION", &config.Events.Region)

	boolean("AUDIT_ENABLED", &config.Audit.Enabled)
	str("AUDIT_SCHEDULE", &config.Audit.Schedule)
	integer("AUDIT_PAGE_SIZE", &config.Audit.PageSize)

	return errors.Join(errs...)
}

// Validate reports settings the server cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.Security.JWTSecret == "" {
		errs = append(errs, errors.New("security.jwt_secret is required"))
	}
	if c.Server.PublicBaseURL == "" {
		errs = append(errs, errors.New("server.public_base_url is required"))
	}
	switch c.Storage.Driver {
	case "local":
		if c.Storage.LocalDir == "" {
			errs = append(errs, errors.New("storage.local_dir is required for the local driver"))
		}
	case "s3":
		if c.Storage.S3Bucket == "" {
			errs = append(errs, errors.New("storage.s3_bucket is required for the s3 driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage driver %q", c.Storage.Driver))
	}
	if c.Server.MaxUploadMB <= 0 {
		errs = append(errs, errors.New("server.max_upload_mb must be positive"))
	}
	return errors.Join(errs...)
}

// GetDatabaseURL returns the database connection string
func (c *DatabaseConfig) GetDatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// GetServerAddr returns the server address
func (c *ServerConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// MaxUploadBytes is the multipart body limit.
func (c *ServerConfig) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}
