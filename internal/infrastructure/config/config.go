package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"

	sharedConfig "github.com/beneficlub/backoffice/internal/shared/config"
)

type Config struct {
	Server   sharedConfig.ServerConfig   `mapstructure:"server"`
	Database sharedConfig.DatabaseConfig `mapstructure:"database"`
	Logger   sharedConfig.LoggerConfig   `mapstructure:"logger"`
	Auth     sharedConfig.AuthConfig     `mapstructure:"auth"`
	Email    sharedConfig.EmailConfig    `mapstructure:"email"`
	Redis    sharedConfig.RedisConfig    `mapstructure:"redis"`
	Asaas    sharedConfig.AsaasConfig    `mapstructure:"asaas"`
	Stripe   sharedConfig.StripeConfig   `mapstructure:"stripe"`
	WhatsApp sharedConfig.WhatsAppConfig `mapstructure:"whatsapp"`
	Cadence  sharedConfig.CadenceConfig  `mapstructure:"cadence"`
	Sweeper  sharedConfig.SweeperConfig  `mapstructure:"sweeper"`
	Webhook  sharedConfig.WebhookConfig  `mapstructure:"webhook"`
	Business sharedConfig.BusinessConfig `mapstructure:"business"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load loads configuration from file and environment variables.
// A missing config file is tolerated; defaults and env vars still apply.
func Load(env string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../configs")
	v.AddConfigPath("../../configs")

	v.SetEnvPrefix("BACKOFFICE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if env != "" && env != "default" {
		v.Set("server.mode", env)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Get returns the loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")

	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.sqlite_path", "backoffice.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.username", "root")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.database", "backoffice_dev")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", 60)
	v.SetDefault("database.slow_threshold_ms", 200)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output_path", "stdout")

	v.SetDefault("auth.password.bcrypt_cost", 12)
	v.SetDefault("auth.jwt.secret", "change-me-in-production")
	v.SetDefault("auth.jwt.access_exp_minutes", 60)
	v.SetDefault("auth.rate_limit.login_per_minute", 10)
	v.SetDefault("auth.rate_limit.login_per_hour", 60)

	v.SetDefault("email.smtp_host", "")
	v.SetDefault("email.smtp_port", 587)
	v.SetDefault("email.from_address", "noreply@beneficlub.local")
	v.SetDefault("email.from_name", "Back office")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("stripe.signature_tolerance", "5m")

	v.SetDefault("whatsapp.timeout", "15s")

	v.SetDefault("cadence.catalog_path", "./configs/cadences.yaml")
	v.SetDefault("cadence.dispatch_interval", "30s")
	v.SetDefault("cadence.batch_size", 50)
	v.SetDefault("cadence.max_attempts", 5)

	v.SetDefault("sweeper.cron", "0 3 * * *")
	v.SetDefault("sweeper.grace_days", 0)
	v.SetDefault("sweeper.inactivate_after_days", 0)

	v.SetDefault("webhook.max_attempts", 8)
	v.SetDefault("webhook.retry_interval", "1m")
	v.SetDefault("webhook.lock_ttl", "30s")

	v.SetDefault("business.timezone", "America/Sao_Paulo")
}
