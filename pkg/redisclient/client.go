package redisclient

import (
	"github.com/redis/go-redis/v9"

	"mailtriage/internal/config"
)

// New builds a redis client from config. Callers own Close.
func New(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}
