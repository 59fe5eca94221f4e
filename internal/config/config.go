package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Behyna/streamstore/pkg/database"
	"github.com/spf13/viper"
)

const (
	PurchaseModeAtomic = "atomic"
	PurchaseModeSaga   = "saga"
)

type Config struct {
	API      API             `mapstructure:"api"`
	Database database.Config `mapstructure:"database"`
	Admin    Admin           `mapstructure:"admin"`
	Telegram Telegram        `mapstructure:"telegram"`
	Purchase Purchase        `mapstructure:"purchase"`
	Storage  Storage         `mapstructure:"storage"`
	Sweeper  Sweeper         `mapstructure:"sweeper"`
	Notifier Notifier        `mapstructure:"notifier"`
	Shop     Shop            `mapstructure:"shop"`
}

type API struct {
	Port      string `mapstructure:"port"`
	PublicURL string `mapstructure:"public_url"`
}

type Admin struct {
	Numbers   []string      `mapstructure:"numbers"`
	PIN       string        `mapstructure:"pin"`
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

type Telegram struct {
	Enable  bool          `mapstructure:"enable"`
	Token   string        `mapstructure:"token"`
	Timeout int           `mapstructure:"timeout"`
	Debug   bool          `mapstructure:"debug"`
	Media   time.Duration `mapstructure:"media_timeout"`
}

type Purchase struct {
	Mode string `mapstructure:"mode"`
}

type Storage struct {
	UploadDir      string `mapstructure:"upload_dir"`
	MaxUploadBytes int64  `mapstructure:"max_upload_bytes"`
}

type Sweeper struct {
	Interval time.Duration `mapstructure:"interval"`
}

type Notifier struct {
	MaxRetry             int           `mapstructure:"max_retry"`
	Timeout              time.Duration `mapstructure:"timeout"`
	RatePerSecond        float64       `mapstructure:"rate_per_second"`
	BroadcastConcurrency int           `mapstructure:"broadcast_concurrency"`
}

// Shop holds storefront defaults. Prices are decimal strings such as "22.00".
type Shop struct {
	DefaultPrice  string        `mapstructure:"default_price"`
	PaymentKey    string        `mapstructure:"payment_key"`
	PaymentType   string        `mapstructure:"payment_key_type"`
	PaymentHolder string        `mapstructure:"payment_holder"`
	Greeting      string        `mapstructure:"greeting"`
	GreetAfter    time.Duration `mapstructure:"greet_after"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.port", ":3002")
	v.SetDefault("api.public_url", "http://localhost:3002")
	v.SetDefault("database.driver", database.DriverSQLite)
	v.SetDefault("database.path", "streamstore.db")
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("admin.token_ttl", 30*time.Minute)
	v.SetDefault("telegram.timeout", 10)
	v.SetDefault("telegram.media_timeout", 30*time.Second)
	v.SetDefault("purchase.mode", PurchaseModeAtomic)
	v.SetDefault("storage.upload_dir", "uploads")
	v.SetDefault("storage.max_upload_bytes", 5<<20)
	v.SetDefault("sweeper.interval", time.Hour)
	v.SetDefault("notifier.max_retry", 3)
	v.SetDefault("notifier.timeout", 10*time.Second)
	v.SetDefault("notifier.rate_per_second", 25)
	v.SetDefault("notifier.broadcast_concurrency", 8)
	v.SetDefault("shop.default_price", "22.00")
	v.SetDefault("shop.greet_after", 24*time.Hour)
}

func Load() (cfg *Config, err error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AddConfigPath("./config")
	v.SetEnvPrefix("streamstore")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	err = v.ReadInConfig()
	if err != nil {
		return cfg, fmt.Errorf("failed to load config: %w", err)
	}

	err = v.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Admin.JWTSecret == "" {
		return errors.New("admin.jwt_secret is required")
	}
	if c.Admin.PIN == "" {
		return errors.New("admin.pin is required")
	}
	switch c.Purchase.Mode {
	case PurchaseModeAtomic, PurchaseModeSaga:
	default:
		return fmt.Errorf("purchase.mode must be %q or %q", PurchaseModeAtomic, PurchaseModeSaga)
	}
	if c.Telegram.Enable && c.Telegram.Token == "" {
		return errors.New("telegram.token is required when telegram is enabled")
	}
	return nil
}
