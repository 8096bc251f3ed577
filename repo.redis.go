package main

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultRedisCatalogKey is used when no key is configured.
const DefaultRedisCatalogKey string = "catalog:books"

type redisCatalogStorage struct {
	logger *zap.Logger
	client *redis.Client
	key    string
}

// NewRedisCatalogStorage provides an instance of redis-based catalog storage.
func NewRedisCatalogStorage(logger *zap.Logger, client *redis.Client, key string) CatalogStorage {
	if key == "" {
		key = DefaultRedisCatalogKey
	}
	return &redisCatalogStorage{
		logger: logger,
		client: client,
		key:    key,
	}
}

// GetRedisClient provides a ready to use redis client.
func GetRedisClient(config *Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", config.Redis.Host, config.Redis.Port),
		DialTimeout:  config.Redis.DialTimeout,
		ReadTimeout:  config.Redis.ReadTimeout,
		WriteTimeout: config.Redis.WriteTimeout,
		PoolSize:     config.Redis.PoolSize,
		PoolTimeout:  config.Redis.PoolTimeout,
		Password:     config.Redis.Password,
		Username:     config.Redis.Username,
		DB:           config.Redis.DatabaseIndex,
	})

	// test connection.
	if pong, err := client.Ping(context.Background()).Result(); pong != "PONG" || err != nil {
		return client, fmt.Errorf("test connection failed: %v", err)
	}
	return client, nil
}

// Load retrieves the catalog document.
func (rs *redisCatalogStorage) Load(ctx context.Context) ([]Book, error) {
	data, err := rs.client.Get(ctx, rs.key).Bytes()
	if err == redis.Nil {
		return nil, ErrCatalogNotFound
	}
	if err != nil {
		return nil, err
	}
	return DecodeCatalog(data)
}

// Save overwrites the catalog document.
func (rs *redisCatalogStorage) Save(ctx context.Context, books []Book) error {
	data, err := EncodeCatalog(books)
	if err != nil {
		return err
	}
	return rs.client.Set(ctx, rs.key, data, 0).Err()
}

func (rs *redisCatalogStorage) Close() error {
	return rs.client.Close()
}
