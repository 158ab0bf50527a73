package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Theme holds the board geometry, animation timing and colours shared by
// the desktop and web hosts.
type Theme struct {
	CellSize     int           `yaml:"cell_size"`
	DropStep     int           `yaml:"drop_step"`
	DropInterval time.Duration `yaml:"drop_interval"`
	BoardColor   string        `yaml:"board_color"`
	EmptyColor   string        `yaml:"empty_color"`
	PlayerOne    string        `yaml:"player_one_color"`
	PlayerTwo    string        `yaml:"player_two_color"`
}

type Config struct {
	Addr         string        `yaml:"addr"`
	LogLevel     string        `yaml:"log_level"`
	LogPretty    bool          `yaml:"log_pretty"`
	PostgresURL  string        `yaml:"postgres_url"`
	KafkaBrokers []string      `yaml:"kafka_brokers"`
	KafkaTopic   string        `yaml:"kafka_topic"`
	KafkaGroup   string        `yaml:"kafka_group"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
	SweepEvery   time.Duration `yaml:"sweep_every"`
	Theme        Theme         `yaml:"theme"`
}

func Default() Config {
	return Config{
		Addr:        ":8080",
		LogLevel:    "info",
		KafkaTopic:  "game-events",
		KafkaGroup:  "analytics-consumer",
		IdleTimeout: 30 * time.Minute,
		SweepEvery:  time.Minute,
		Theme: Theme{
			CellSize:     100,
			DropStep:     20,
			DropInterval: 10 * time.Millisecond,
			BoardColor:   "#0000ff",
			EmptyColor:   "#ffffff",
			PlayerOne:    "#ff0000",
			PlayerTwo:    "#ffff00",
		},
	}
}

// Load reads .env when present, then the YAML file named by
// CONNECT4_CONFIG, then environment overrides.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("could not read .env")
	}
	cfg := Default()
	if path := os.Getenv("CONNECT4_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return cfg, err
		}
	}
	cfg.applyEnv()
	return cfg, cfg.Validate()
}

// LoadFile layers the YAML file at path over the defaults.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	if err := cfg.loadFile(path); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	// PORT wins over ADDR (Render, Fly.io, Heroku set it).
	if port := os.Getenv("PORT"); port != "" {
		c.Addr = ":" + port
	} else {
		c.Addr = getEnv("ADDR", c.Addr)
	}
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogPretty = boolEnv("LOG_PRETTY", c.LogPretty)
	c.PostgresURL = getEnv("POSTGRES_URL", c.PostgresURL)
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		c.KafkaBrokers = splitList(brokers)
	}
	c.KafkaTopic = getEnv("KAFKA_TOPIC", c.KafkaTopic)
	c.KafkaGroup = getEnv("KAFKA_GROUP", c.KafkaGroup)
	c.IdleTimeout = durationEnv("IDLE_TIMEOUT", c.IdleTimeout)
	c.Theme.DropInterval = millisEnv("DROP_INTERVAL_MS", c.Theme.DropInterval)
}

func (c Config) Validate() error {
	if c.Theme.CellSize <= 0 {
		return fmt.Errorf("theme.cell_size must be positive, got %d", c.Theme.CellSize)
	}
	if c.Theme.DropStep <= 0 {
		return fmt.Errorf("theme.drop_step must be positive, got %d", c.Theme.DropStep)
	}
	if c.Theme.DropInterval <= 0 {
		return fmt.Errorf("theme.drop_interval must be positive, got %s", c.Theme.DropInterval)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// durationEnv reads whole seconds.
func durationEnv(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return time.Duration(parsed) * time.Second
		}
		log.Warn().Str("key", key).Str("value", v).Msg("invalid duration, using default")
	}
	return fallback
}

func millisEnv(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return time.Duration(parsed) * time.Millisecond
		}
		log.Warn().Str("key", key).Str("value", v).Msg("invalid interval, using default")
	}
	return fallback
}

func boolEnv(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
