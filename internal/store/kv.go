package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// 缓存键约定
// 上游读缓存按 类型+页码+页大小 切分，录入成功后按类型整体失效
const (
	KeyVitalTypes    = "vitals-board:types"
	keyHistoryPrefix = "vitals-board:history:"
)

// HistoryKey 历史页缓存键
func HistoryKey(vitalType string, page, pageSize int) string {
	return fmt.Sprintf("%s%s:%d:%d", keyHistoryPrefix, vitalType, page, pageSize)
}

// HistoryKeyPattern 某类型全部历史页的匹配模式（失效用）；vitalType 为空匹配所有类型
func HistoryKeyPattern(vitalType string) string {
	if vitalType == "" {
		return keyHistoryPrefix + "*"
	}
	return keyHistoryPrefix + vitalType + ":*"
}

var ErrMiss = errors.New("cache miss")

type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	ScanKeys(ctx context.Context, pattern string) ([]string, error)
}

type RedisKV struct {
	c *redis.Client
}

func NewRedisKV(c *redis.Client) *RedisKV { return &RedisKV{c: c} }

func (r *RedisKV) Get(ctx context.Context, key string) (string, error) {
	val, err := r.c.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", ErrMiss
		}
		return "", err
	}
	return val, nil
}

func (r *RedisKV) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return r.c.Set(ctx, key, value, ttl).Err()
}

func (r *RedisKV) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.c.Del(ctx, keys...).Err()
}

func (r *RedisKV) ScanKeys(ctx context.Context, pattern string) ([]string, error) {
	var keys []string
	var cursor uint64
	for {
		k, next, err := r.c.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return nil, err
		}
		keys = append(keys, k...)
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return keys, nil
}
