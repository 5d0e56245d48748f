package cache

import (
	"context"
	"os"
	"sync"
	"time"

	"campusgate.io/infrastructure/logger"
	"github.com/redis/go-redis/v9"
)

type RedisInstance struct {
	Client *redis.Client
}

var (
	instance *RedisInstance
	once     sync.Once
)

func ConnectToCache() {
	GetInstance()
}

func GetInstance() (*RedisInstance, error) {
	once.Do(func() {
		opt := &redis.Options{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       0,
			PoolSize: 10,
		}
		client := redis.NewClient(opt)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warning("an error occured while connecting to redis", logger.LoggerOptions{Key: "error", Data: err})
		} else {
			logger.Info("connected to redis successfully")
		}

		instance = &RedisInstance{Client: client}
	})
	return instance, nil
}
