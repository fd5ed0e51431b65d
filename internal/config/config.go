package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/weiawesome/wes-io-live/live-chat-service/pkg/config"
	"github.com/weiawesome/wes-io-live/live-chat-service/pkg/pubsub"
)

// Store drivers.
const (
	StoreDriverRedis  = "redis"
	StoreDriverMemory = "memory"
)

// Presence modes.
const (
	PresenceModeSharedTTL = "shared_ttl"
	PresenceModePerMember = "per_member"
)

type Config struct {
	Server    ServerConfig
	Redis     RedisConfig
	Store     StoreConfig
	PubSub    pubsub.Config `mapstructure:"pubsub"`
	Chat      ChatConfig
	Presence  PresenceConfig
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Log       LogConfig
}

type ServerConfig struct {
	Host            string
	Port            int
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type RedisConfig struct {
	Address      string
	Password     string
	DB           int
	PoolSize     int           `mapstructure:"pool_size"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type StoreConfig struct {
	Driver    string
	KeyPrefix string `mapstructure:"key_prefix"`
}

type ChatConfig struct {
	RoomTTL         time.Duration `mapstructure:"room_ttl"`
	MessageTTL      time.Duration `mapstructure:"message_ttl"`
	ParticipantTTL  time.Duration `mapstructure:"participant_ttl"`
	MaxMessages     int           `mapstructure:"max_messages"`
	DefaultLimit    int           `mapstructure:"default_limit"`
	FarewellMessage string        `mapstructure:"farewell_message"`
}

type PresenceConfig struct {
	Mode          string
	OnlineTimeout time.Duration `mapstructure:"online_timeout"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

type RateLimitConfig struct {
	Enabled           bool
	MessagesPerSecond float64       `mapstructure:"messages_per_second"`
	Burst             int           `mapstructure:"burst"`
	IdleTTL           time.Duration `mapstructure:"idle_ttl"`
}

type LogConfig struct {
	Level  string
	Pretty bool
}

func Load() (*Config, error) {
	v, err := pkgconfig.Load("./config", "config",
		pkgconfig.WithDefaults(map[string]interface{}{
			"server.host":             "0.0.0.0",
			"server.port":             8090,
			"server.request_timeout":  5 * time.Second,
			"server.shutdown_timeout": 10 * time.Second,

			"redis.address":       "localhost:6379",
			"redis.password":      "",
			"redis.db":            0,
			"redis.pool_size":     20,
			"redis.dial_timeout":  5 * time.Second,
			"redis.read_timeout":  3 * time.Second,
			"redis.write_timeout": 3 * time.Second,

			"store.driver":     StoreDriverRedis,
			"store.key_prefix": pubsub.DefaultChannelPrefix,

			"pubsub.driver":              pubsub.DriverRedis,
			"pubsub.redis.address":       "localhost:6379",
			"pubsub.redis.password":      "",
			"pubsub.redis.db":            0,
			"pubsub.redis.pool_size":     10,
			"pubsub.redis.read_timeout":  3 * time.Second,
			"pubsub.redis.write_timeout": 3 * time.Second,
			"pubsub.kafka.brokers":       "localhost:9092",
			"pubsub.kafka.partitions":    4,

			"chat.room_ttl":         24 * time.Hour,
			"chat.message_ttl":      24 * time.Hour,
			"chat.participant_ttl":  24 * time.Hour,
			"chat.max_messages":     1000,
			"chat.default_limit":    50,
			"chat.farewell_message": "This chat room has ended.",

			"presence.mode":           PresenceModePerMember,
			"presence.online_timeout": 5 * time.Minute,
			"presence.sweep_interval": time.Minute,

			"rate_limit.enabled":             false,
			"rate_limit.messages_per_second": 1.0,
			"rate_limit.burst":               5,
			"rate_limit.idle_ttl":            10 * time.Minute,

			"log.level":  "info",
			"log.pretty": false,
		}),
		pkgconfig.WithEnvBindings(map[string]string{
			"server.port":          "PORT",
			"redis.address":        "REDIS_ADDRESS",
			"redis.password":       "REDIS_PASSWORD",
			"redis.db":             "REDIS_DB",
			"store.driver":         "STORE_DRIVER",
			"pubsub.driver":        "PUBSUB_DRIVER",
			"pubsub.redis.address": "REDIS_ADDRESS",
			"pubsub.kafka.brokers": "KAFKA_BROKERS",
			"presence.mode":        "PRESENCE_MODE",
			"rate_limit.enabled":   "RATE_LIMIT_ENABLED",
			"log.level":            "LOG_LEVEL",
		}),
	)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Publishes go to {key_prefix}-messages, so that is the topic to create.
	if len(cfg.PubSub.Kafka.Topics) == 0 {
		cfg.PubSub.Kafka.Topics = []string{pubsub.MessagesTopic(cfg.Store.KeyPrefix)}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects configurations the service cannot run with.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case StoreDriverRedis, StoreDriverMemory:
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}

	switch c.PubSub.Driver {
	case pubsub.DriverRedis, pubsub.DriverKafka, pubsub.DriverMemory:
	default:
		return fmt.Errorf("unknown pubsub driver %q", c.PubSub.Driver)
	}

	switch c.Presence.Mode {
	case PresenceModeSharedTTL, PresenceModePerMember:
	default:
		return fmt.Errorf("unknown presence mode %q", c.Presence.Mode)
	}

	if c.Chat.MaxMessages <= 0 {
		return fmt.Errorf("chat.max_messages must be positive, got %d", c.Chat.MaxMessages)
	}
	if c.Chat.DefaultLimit <= 0 || c.Chat.DefaultLimit > c.Chat.MaxMessages {
		return fmt.Errorf("chat.default_limit must be in 1..%d, got %d", c.Chat.MaxMessages, c.Chat.DefaultLimit)
	}
	if c.Chat.RoomTTL <= 0 || c.Chat.MessageTTL <= 0 || c.Chat.ParticipantTTL <= 0 {
		return fmt.Errorf("chat ttls must be positive")
	}
	if c.Presence.OnlineTimeout <= 0 {
		return fmt.Errorf("presence.online_timeout must be positive")
	}
	if c.RateLimit.Enabled && (c.RateLimit.MessagesPerSecond <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("rate_limit requires positive messages_per_second and burst")
	}

	return nil
}
