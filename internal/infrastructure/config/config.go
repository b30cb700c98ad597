package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	domainErrors "github.com/itsmesohit/hyperswitch/internal/domain/errors"
)

var validate = validator.New()

type Config struct {
	Server         ServerConfig         `mapstructure:"server"`
	Log            LogConfig            `mapstructure:"log"`
	Tracing        TracingConfig        `mapstructure:"tracing"`
	Metrics        MetricsConfig        `mapstructure:"metrics"`
	Transport      TransportConfig      `mapstructure:"transport"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
	Connectors     ConnectorsConfig     `mapstructure:"connectors"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	RateLimit       int           `mapstructure:"rate_limit_per_minute"`
	CORS            CORSConfig    `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=trace debug info warn warning error fatal off"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
}

type TracingConfig struct {
	Enabled        bool    `mapstructure:"enabled"`
	JaegerEndpoint string  `mapstructure:"jaeger_endpoint" validate:"omitempty,url"`
	ServiceName    string  `mapstructure:"service_name" validate:"required"`
	SamplingRate   float64 `mapstructure:"sampling_rate" validate:"gte=0,lte=1"`
}

type MetricsConfig struct {
	Namespace string `mapstructure:"namespace" validate:"required"`
}

type TransportConfig struct {
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxAttempts  uint          `mapstructure:"max_attempts" validate:"gte=1"`
	InitialDelay time.Duration `mapstructure:"initial_delay"`
	MaxDelay     time.Duration `mapstructure:"max_delay"`
}

type CircuitBreakerConfig struct {
	MaxRequests  uint32        `mapstructure:"max_requests"`
	Interval     time.Duration `mapstructure:"interval"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MinRequests  uint32        `mapstructure:"min_requests" validate:"gte=1"`
	FailureRatio float64       `mapstructure:"failure_ratio" validate:"gt=0,lte=1"`
}

type ConnectorsConfig struct {
	Threedsecureio ThreedsecureioConfig `mapstructure:"threedsecureio"`
	Novapay        NovapayConfig        `mapstructure:"novapay"`
}

type ThreedsecureioConfig struct {
	BaseURL             string `mapstructure:"base_url" validate:"required,url"`
	NotificationURL     string `mapstructure:"notification_url" validate:"required,url"`
	RequestorURL        string `mapstructure:"requestor_url" validate:"required,url"`
	MerchantName        string `mapstructure:"merchant_name" validate:"required"`
	MCC                 string `mapstructure:"mcc" validate:"required,numeric,len=4"`
	MerchantCountryCode string `mapstructure:"merchant_country_code" validate:"required,numeric,len=3"`
}

type NovapayConfig struct {
	BaseURL string `mapstructure:"base_url" validate:"required,url"`
}

func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Read from environment variables
	v.SetEnvPrefix("ROUTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read from config file if exists
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/router")

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return unmarshal(v)
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	if err := validate.Struct(c); err != nil {
		var ve validator.ValidationErrors
		if !errors.As(err, &ve) {
			return err
		}
		for _, fe := range ve {
			errs = append(errs, domainErrors.NewValidationError(fe.Namespace(), fe.Tag()+" validation failed"))
		}
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, fmt.Errorf("server.read_timeout must be positive"))
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, fmt.Errorf("server.write_timeout must be positive"))
	}
	if c.Tracing.Enabled && c.Tracing.JaegerEndpoint == "" {
		errs = append(errs, fmt.Errorf("tracing.jaeger_endpoint is required when tracing is enabled"))
	}
	if c.Transport.MaxDelay < c.Transport.InitialDelay {
		errs = append(errs, fmt.Errorf("transport.max_delay must not be below transport.initial_delay"))
	}
	if c.Transport.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("transport.timeout must be positive"))
	}
	if c.CircuitBreaker.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("circuit_breaker.timeout must be positive"))
	}

	return errors.Join(errs...)
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("server.rate_limit_per_minute", 600)
	v.SetDefault("server.cors.allowed_origins", []string{"*"})
	v.SetDefault("server.cors.allow_credentials", false)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Tracing defaults
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.jaeger_endpoint", "http://localhost:14268/api/traces")
	v.SetDefault("tracing.service_name", "router")
	v.SetDefault("tracing.sampling_rate", 0.1)

	// Metrics defaults
	v.SetDefault("metrics.namespace", "router")

	// Transport defaults
	v.SetDefault("transport.timeout", "30s")
	v.SetDefault("transport.max_attempts", 3)
	v.SetDefault("transport.initial_delay", "200ms")
	v.SetDefault("transport.max_delay", "2s")

	// Circuit breaker defaults
	v.SetDefault("circuit_breaker.max_requests", 10)
	v.SetDefault("circuit_breaker.interval", "60s")
	v.SetDefault("circuit_breaker.timeout", "30s")
	v.SetDefault("circuit_breaker.min_requests", 10)
	v.SetDefault("circuit_breaker.failure_ratio", 0.6)

	// Connector defaults
	v.SetDefault("connectors.threedsecureio.base_url", "https://service.sandbox.3dsecure.io")
	v.SetDefault("connectors.threedsecureio.notification_url", "https://example.com/3ds/notification")
	v.SetDefault("connectors.threedsecureio.requestor_url", "https://example.com")
	v.SetDefault("connectors.threedsecureio.merchant_name", "Hyperswitch Merchant")
	v.SetDefault("connectors.threedsecureio.mcc", "5411")
	v.SetDefault("connectors.threedsecureio.merchant_country_code", "840")
	v.SetDefault("connectors.novapay.base_url", "https://api.sandbox.novapay.test/v1")
}
