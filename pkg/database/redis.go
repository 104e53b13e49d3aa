package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"portfolio_backend/internal/config"

	"github.com/go-redis/redis/v8"
)

// redisPingTimeout 启动探活上限，超时视为 Redis 不可用
const redisPingTimeout = 5 * time.Second

// InitRedis 建立 Redis 连接池并探活
// 排行榜缓存属于可降级依赖，调用方可以容忍这里返回错误
func InitRedis(cfg *config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     50,
		MinIdleConns: 5,
		DialTimeout:  redisPingTimeout,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping %s:%d: %w", cfg.Host, cfg.Port, err)
	}

	log.Println("Redis connection established")
	return rdb, nil
}
