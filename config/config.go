package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/viper"

	"github.com/serenityspa/wellness-api/pkg/validator"
)

type DatabaseConfig struct {
	Host     string `mapstructure:"host" validate:"required"`
	Port     int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	User     string `mapstructure:"user" validate:"required"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name" validate:"required"`
	SSLMode  string `mapstructure:"sslmode"`
}

type ServerConfig struct {
	Port           int           `mapstructure:"port" validate:"required,min=1,max=65535"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	MaxHeaderBytes int           `mapstructure:"max_header_bytes"`
}

type JWTConfig struct {
	Secret             string `mapstructure:"secret" validate:"required"`
	RefreshSecret      string `mapstructure:"refresh_secret" validate:"required"`
	ExpiryHours        int    `mapstructure:"expiry_hours"`
	RefreshExpiryHours int    `mapstructure:"refresh_expiry_hours"`
}

type RedisConfig struct {
	URL          string        `mapstructure:"url"`
	MaxRetries   int           `mapstructure:"max_retries"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// BookingConfig holds the business-hour rules for appointment slots.
type BookingConfig struct {
	OpenHour     int `mapstructure:"open_hour" validate:"min=0,max=23"`
	CloseHour    int `mapstructure:"close_hour" validate:"max=24,gtfield=OpenHour"`
	SlotMinutes  int `mapstructure:"slot_minutes" validate:"min=0,max=240"`
	MinLeadHours int `mapstructure:"min_lead_hours" validate:"min=0"`
	HorizonDays  int `mapstructure:"horizon_days" validate:"min=0,max=365"`
}

type NotifierConfig struct {
	BatchSize     int           `mapstructure:"batch_size"`
	PollInterval  time.Duration `mapstructure:"poll_interval"`
	RetryAttempts int           `mapstructure:"retry_attempts"`
	RetryDelay    time.Duration `mapstructure:"retry_delay"`
}

type Config struct {
	Server    ServerConfig   `mapstructure:"server"`
	Database  DatabaseConfig `mapstructure:"database"`
	JWT       JWTConfig      `mapstructure:"jwt"`
	Redis     RedisConfig    `mapstructure:"redis"`
	SMTP      SMTPConfig     `mapstructure:"smtp"`
	Booking   BookingConfig  `mapstructure:"booking"`
	Notifier  NotifierConfig `mapstructure:"notifier"`
	RateLimit struct {
		Enabled           bool    `mapstructure:"enabled"`
		RequestsPerSecond float64 `mapstructure:"requests_per_second"`
		Burst             int     `mapstructure:"burst"`
	} `mapstructure:"rate_limit"`
	Security struct {
		AllowedOrigins []string `mapstructure:"allowed_origins"`
	} `mapstructure:"security"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/app")
	viper.AddConfigPath("/app/config")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Environment overrides for deployment
	if host := os.Getenv("DB_HOST"); host != "" {
		config.Database.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		config.Database.Port, _ = strconv.Atoi(port)
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		config.Database.Password = password
	}
	if url := os.Getenv("REDIS_URL"); url != "" {
		config.Redis.URL = url
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		config.JWT.Secret = secret
	}
	if secret := os.Getenv("JWT_REFRESH_SECRET"); secret != "" {
		config.JWT.RefreshSecret = secret
	}
	if password := os.Getenv("SMTP_PASSWORD"); password != "" {
		config.SMTP.Password = password
	}

	applyDefaults(&config)

	if err := validator.New().Validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func applyDefaults(c *Config) {
	if c.Booking.OpenHour == 0 {
		c.Booking.OpenHour = 9
	}
	if c.Booking.CloseHour == 0 {
		c.Booking.CloseHour = 18
	}
	if c.Booking.SlotMinutes == 0 {
		c.Booking.SlotMinutes = 60
	}
	if c.Booking.MinLeadHours == 0 {
		c.Booking.MinLeadHours = 24
	}
	if c.Booking.HorizonDays == 0 {
		c.Booking.HorizonDays = 90
	}
	if c.Notifier.BatchSize == 0 {
		c.Notifier.BatchSize = 50
	}
	if c.Notifier.PollInterval == 0 {
		c.Notifier.PollInterval = 15 * time.Second
	}
	if c.Notifier.RetryAttempts == 0 {
		c.Notifier.RetryAttempts = 3
	}
	if c.Notifier.RetryDelay == 0 {
		c.Notifier.RetryDelay = 5 * time.Second
	}
}
