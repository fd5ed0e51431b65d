package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/weiawesome/wes-io-live/live-chat-service/internal/broadcast"
	"github.com/weiawesome/wes-io-live/live-chat-service/internal/config"
	"github.com/weiawesome/wes-io-live/live-chat-service/internal/handler"
	"github.com/weiawesome/wes-io-live/live-chat-service/internal/messagelog"
	"github.com/weiawesome/wes-io-live/live-chat-service/internal/presence"
	"github.com/weiawesome/wes-io-live/live-chat-service/internal/ratelimit"
	"github.com/weiawesome/wes-io-live/live-chat-service/internal/registry"
	"github.com/weiawesome/wes-io-live/live-chat-service/internal/service"
	"github.com/weiawesome/wes-io-live/live-chat-service/internal/stats"
	"github.com/weiawesome/wes-io-live/live-chat-service/internal/store"
	pkglog "github.com/weiawesome/wes-io-live/live-chat-service/pkg/log"
	"github.com/weiawesome/wes-io-live/live-chat-service/pkg/pubsub"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		l := pkglog.L()
		l.Fatal().Err(err).Msg("failed to load config")
	}

	// Initialize structured logger
	pkglog.Init(pkglog.Config{
		Level:       cfg.Log.Level,
		Pretty:      cfg.Log.Pretty || cfg.Log.Level == "debug",
		ServiceName: "live-chat-service",
	})
	logger := pkglog.L()

	// Shared store
	st, redisStore, err := newStore(cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("failed to initialize store")
	}
	logger.Info().Str("driver", cfg.Store.Driver).Msg("store connected")

	// Event bus
	bus, err := newBus(cfg, redisStore)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.PubSub.Driver).Msg("failed to initialize pubsub")
	}
	logger.Info().Str("driver", cfg.PubSub.Driver).Msg("pubsub ready")

	// Components
	keys := store.NewKeys(cfg.Store.KeyPrefix)
	rooms := registry.New(st, keys, cfg.Chat.RoomTTL)

	tracker, err := presence.New(st, keys, presence.Config{
		Mode:           cfg.Presence.Mode,
		OnlineTimeout:  cfg.Presence.OnlineTimeout,
		ParticipantTTL: cfg.Chat.ParticipantTTL,
	}, nil)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize presence tracker")
	}

	broadcaster := broadcast.New(bus, keys.Prefix())
	msgLog := messagelog.New(st, keys, broadcaster, tracker, rooms, messagelog.Config{
		MaxMessages:  cfg.Chat.MaxMessages,
		DefaultLimit: cfg.Chat.DefaultLimit,
		TTL:          cfg.Chat.MessageTTL,
	})

	var policy ratelimit.Policy = ratelimit.AllowAll{}
	if cfg.RateLimit.Enabled {
		policy = ratelimit.NewTokenBucket(cfg.RateLimit.MessagesPerSecond, cfg.RateLimit.Burst, cfg.RateLimit.IdleTTL)
	}

	chatService := service.NewChatService(service.Dependencies{
		Rooms:    rooms,
		Messages: msgLog,
		Presence: tracker,
		Events:   broadcaster,
		Stats:    stats.New(rooms, tracker, msgLog),
		Policy:   policy,
		Store:    st,
	}, service.Config{
		FarewellMessage: cfg.Chat.FarewellMessage,
	})

	// Presence sweeper (per-member mode only)
	var sweeper *presence.Sweeper
	if target, ok := tracker.(presence.Sweepable); ok {
		sweeper = presence.NewSweeper(target, cfg.Presence.SweepInterval)
		sweeper.Start(context.Background())
		logger.Info().Dur("interval", cfg.Presence.SweepInterval).Msg("presence sweeper started")
	}

	// Setup Gin router
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(pkglog.GinMiddleware(logger))

	handler.NewHandler(chatService, cfg.Server.RequestTimeout).RegisterRoutes(r)

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		logger.Info().
			Str("addr", addr).
			Str("presence_mode", cfg.Presence.Mode).
			Bool("rate_limit", cfg.RateLimit.Enabled).
			Msg("live-chat-service starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
	}

	if sweeper != nil {
		sweeper.Stop()
		select {
		case <-sweeper.Done():
		case <-ctx.Done():
			logger.Warn().Msg("presence sweeper did not stop in time")
		}
	}

	if err := bus.Close(); err != nil {
		logger.Error().Err(err).Msg("failed to close pubsub")
	}
	if err := st.Close(); err != nil {
		logger.Error().Err(err).Msg("failed to close store")
	}

	logger.Info().Msg("server exited")
}

func newStore(cfg *config.Config) (store.Store, *store.RedisStore, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		return store.NewMemoryStore(), nil, nil
	default:
		rs, err := store.NewRedisStore(store.RedisConfig{
			Address:      cfg.Redis.Address,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		if err != nil {
			return nil, nil, err
		}
		return rs, rs, nil
	}
}

// newBus reuses the store's Redis pool when pub/sub targets the same server.
func newBus(cfg *config.Config, redisStore *store.RedisStore) (pubsub.Bus, error) {
	if cfg.PubSub.Driver == pubsub.DriverRedis && redisStore != nil &&
		cfg.PubSub.Redis.Address == cfg.Redis.Address && cfg.PubSub.Redis.DB == cfg.Redis.DB {
		return pubsub.NewRedisPubSubFromClient(redisStore.Client()), nil
	}
	return pubsub.NewBus(cfg.PubSub)
}
