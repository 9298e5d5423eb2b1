package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	S3        S3Config        `mapstructure:"s3"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Email     EmailConfig     `mapstructure:"email"`
	MagicLink MagicLinkConfig `mapstructure:"magic_link"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Address      string        `mapstructure:"address"`
	BaseURL      string        `mapstructure:"base_url"` // Public URL sign-in links point at
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// Storage backends.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
)

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"` // mongo or postgres
	URI    string `mapstructure:"uri"`
	Name   string `mapstructure:"name"` // Mongo database name; ignored for postgres
}

type S3Config struct {
	Enabled         bool          `mapstructure:"enabled"`
	Endpoint        string        `mapstructure:"endpoint"`
	Region          string        `mapstructure:"region"`
	AccessKeyID     string        `mapstructure:"access_key_id"`
	SecretAccessKey string        `mapstructure:"secret_access_key"`
	BucketName      string        `mapstructure:"bucket_name"`
	UseSSL          bool          `mapstructure:"use_ssl"`
	PresignTTL      time.Duration `mapstructure:"presign_ttl"`
}

// JWTConfig defines JWT specific configuration
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

// Email providers.
const (
	EmailResend = "resend"
	EmailNoop   = "noop"
)

type EmailConfig struct {
	Provider string `mapstructure:"provider"` // resend or noop
	APIKey   string `mapstructure:"api_key"`
	From     string `mapstructure:"from"`
}

type MagicLinkConfig struct {
	TTL          time.Duration `mapstructure:"ttl"`
	CallbackPath string        `mapstructure:"callback_path"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	// Set the path to look for the config file in
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Nested keys map to env vars, e.g. server.base_url -> SERVER_BASE_URL
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	setDefaults(v)

	err = v.ReadInConfig()
	// A missing file is fine; env vars and defaults still apply.
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		err = nil
	} else if err != nil {
		return
	}

	// Duration strings ("15m", "24h") decode straight into time.Duration fields.
	if err = v.Unmarshal(&config); err != nil {
		return
	}
	if err = config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "10s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("database.driver", DriverMongo)
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "swimlog")
	v.SetDefault("s3.enabled", false)
	v.SetDefault("s3.use_ssl", true)
	v.SetDefault("s3.presign_ttl", "15m")
	v.SetDefault("jwt.expiration", "24h")
	v.SetDefault("email.provider", EmailNoop)
	v.SetDefault("email.from", "Swimlog <login@swimlog.local>")
	v.SetDefault("magic_link.ttl", "15m")
	v.SetDefault("magic_link.callback_path", "/auth/callback")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	// Registered so AutomaticEnv can fill them from the environment.
	v.SetDefault("jwt.secret", "")
	v.SetDefault("email.api_key", "")
	v.SetDefault("s3.bucket_name", "")
}

// Validate rejects settings the server cannot start with.
func (c Config) Validate() error {
	var errs []error
	switch c.Database.Driver {
	case DriverMongo, DriverPostgres:
	default:
		errs = append(errs, fmt.Errorf("database.driver: unknown driver %q", c.Database.Driver))
	}
	if c.Database.URI == "" {
		errs = append(errs, errors.New("database.uri is required"))
	}
	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("jwt.secret is required"))
	}
	if c.JWT.Expiration <= 0 {
		errs = append(errs, errors.New("jwt.expiration must be positive"))
	}
	switch c.Email.Provider {
	case EmailNoop:
	case EmailResend:
		if c.Email.APIKey == "" {
			errs = append(errs, errors.New("email.api_key is required for the resend provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("email.provider: unknown provider %q", c.Email.Provider))
	}
	if c.MagicLink.TTL <= 0 {
		errs = append(errs, errors.New("magic_link.ttl must be positive"))
	}
	if c.S3.Enabled && c.S3.BucketName == "" {
		errs = append(errs, errors.New("s3.bucket_name is required when s3 is enabled"))
	}
	return errors.Join(errs...)
}

// CallbackURL is the absolute URL sign-in emails link to.
func (c Config) CallbackURL() string {
	return strings.TrimRight(c.Server.BaseURL, "/") + c.MagicLink.CallbackPath
}
