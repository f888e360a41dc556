package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "STOCKCART"

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	ServiceName string `split_words:"true" default:"stockcart"`
	Port        int    `split_words:"true" default:"8080"`
	LogLevel    string `split_words:"true" default:"info"`

	DB     DBConfig
	Kafka  KafkaConfig
	Search SearchConfig
}

type DBConfig struct {
	Driver string `split_words:"true" default:"postgres"`
	DSN    string `split_words:"true"`

	MaxOpenConns    int           `split_words:"true" default:"20"`
	MaxIdleConns    int           `split_words:"true" default:"10"`
	ConnMaxLifetime time.Duration `split_words:"true" default:"30m"`
	ConnMaxIdleTime time.Duration `split_words:"true" default:"5m"`
}

type KafkaConfig struct {
	Brokers []string `split_words:"true"`
	Topic   string   `split_words:"true" default:"stockcart_events"`
}

type SearchConfig struct {
	URL      string `split_words:"true"`
	User     string `split_words:"true"`
	Password string `split_words:"true"`
	Index    string `split_words:"true" default:"products"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("notice: .env file not found: %v, using system environment variables", err)
	}
	return FromEnv()
}

func FromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.validate(); err != nil {
		return nil, err
	}
	cfg.Kafka.Brokers = CSV(strings.Join(cfg.Kafka.Brokers, ","))
	return &cfg, nil
}

func (c DBConfig) validate() error {
	switch c.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported db driver %q", c.Driver)
	}
	if c.DSN == "" {
		return fmt.Errorf("missing required env %s_DB_DSN", EnvPrefix)
	}
	return nil
}

// CSV drops blank entries and surrounding whitespace.
func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
