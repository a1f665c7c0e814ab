package common

import (
	"time"

	"infinite-experiment/flightboard/internal/config"
	"infinite-experiment/flightboard/internal/logging"

	"github.com/redis/go-redis/v9"
)

func NewRedisClient(cfg config.Redis) *redis.Client {
	logging.Info("Initializing Redis client", "addr", cfg.Addr(), "db", cfg.DB)

	return redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})
}
