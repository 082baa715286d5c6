package database

import (
	"context"
	"time"

	"portfolio-cms/internal/config"
	"portfolio-cms/pkg/log"

	"github.com/go-redis/redis/v8"
)

var RDB *redis.Client

// InitRedis 初始化 Redis 客户端连接，连接失败时直接退出。
func InitRedis(cfg config.RedisConfig) *redis.Client {
	RDB = redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := RDB.Ping(ctx).Err(); err != nil {
		log.Fatal("failed to connect to redis", err)
	}

	log.Infof("Redis client connected to %s", cfg.Addr)
	return RDB
}
