package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weiawesome/wes-io-live/live-chat-service/pkg/pubsub"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8090, cfg.Server.Port)
	assert.Equal(t, StoreDriverRedis, cfg.Store.Driver)
	assert.Equal(t, "chat", cfg.Store.KeyPrefix)
	assert.Equal(t, pubsub.DriverRedis, cfg.PubSub.Driver)
	assert.Equal(t, 24*time.Hour, cfg.Chat.RoomTTL)
	assert.Equal(t, 1000, cfg.Chat.MaxMessages)
	assert.Equal(t, 50, cfg.Chat.DefaultLimit)
	assert.Equal(t, PresenceModePerMember, cfg.Presence.Mode)
	assert.Equal(t, 5*time.Minute, cfg.Presence.OnlineTimeout)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, []string{"chat-messages"}, cfg.PubSub.Kafka.Topics)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("PUBSUB_DRIVER", "memory")
	t.Setenv("PRESENCE_MODE", "shared_ttl")
	t.Setenv("REDIS_ADDRESS", "redis:6380")
	t.Setenv("CHAT_MAX_MESSAGES", "200")
	t.Setenv("PRESENCE_ONLINE_TIMEOUT", "90s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, StoreDriverMemory, cfg.Store.Driver)
	assert.Equal(t, pubsub.DriverMemory, cfg.PubSub.Driver)
	assert.Equal(t, PresenceModeSharedTTL, cfg.Presence.Mode)
	assert.Equal(t, "redis:6380", cfg.Redis.Address)
	assert.Equal(t, "redis:6380", cfg.PubSub.Redis.Address)
	assert.Equal(t, 200, cfg.Chat.MaxMessages)
	assert.Equal(t, 90*time.Second, cfg.Presence.OnlineTimeout)
}

func TestLoad_KafkaTopicFollowsKeyPrefix(t *testing.T) {
	t.Setenv("STORE_KEY_PREFIX", "live")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "live", cfg.Store.KeyPrefix)
	assert.Equal(t, []string{"live-messages"}, cfg.PubSub.Kafka.Topics)
}

func TestLoad_RejectsUnknownMode(t *testing.T) {
	t.Setenv("PRESENCE_MODE", "psychic")
	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Store:    StoreConfig{Driver: StoreDriverRedis},
			PubSub:   pubsub.Config{Driver: pubsub.DriverKafka},
			Presence: PresenceConfig{Mode: PresenceModeSharedTTL, OnlineTimeout: time.Minute},
			Chat: ChatConfig{
				RoomTTL:        time.Hour,
				MessageTTL:     time.Hour,
				ParticipantTTL: time.Hour,
				MaxMessages:    100,
				DefaultLimit:   10,
			},
		}
	}

	base := valid()
	require.NoError(t, base.Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{name: "store driver", mutate: func(c *Config) { c.Store.Driver = "etcd" }},
		{name: "pubsub driver", mutate: func(c *Config) { c.PubSub.Driver = "nats" }},
		{name: "max messages", mutate: func(c *Config) { c.Chat.MaxMessages = 0 }},
		{name: "default limit above max", mutate: func(c *Config) { c.Chat.DefaultLimit = 101 }},
		{name: "room ttl", mutate: func(c *Config) { c.Chat.RoomTTL = 0 }},
		{name: "online timeout", mutate: func(c *Config) { c.Presence.OnlineTimeout = 0 }},
		{name: "rate limit burst", mutate: func(c *Config) {
			c.RateLimit = RateLimitConfig{Enabled: true, MessagesPerSecond: 1}
		}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}
