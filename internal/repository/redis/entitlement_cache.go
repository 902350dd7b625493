package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// EntitlementCache реализует repository.EntitlementCache поверх Redis
// Кэширует флаг is_paid с коротким TTL, чтобы не ходить в MongoDB на каждый запрос файла
type EntitlementCache struct {
	client *redis.Client
	logger *zap.Logger
}

// NewEntitlementCache создаёт новый Redis entitlement cache
func NewEntitlementCache(client *redis.Client, logger *zap.Logger) *EntitlementCache {
	return &EntitlementCache{
		client: client,
		logger: logger,
	}
}

func entitlementKey(userID string) string {
	return fmt.Sprintf("entitlement:%s", userID)
}

// Get возвращает закэшированный флаг is_paid
// ok == false означает cache miss; ошибки Redis тоже отдаются как miss с err,
// решение (идти в основное хранилище) принимает вызывающий
func (c *EntitlementCache) Get(ctx context.Context, userID string) (isPaid bool, ok bool, err error) {
	key := entitlementKey(userID)

	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return false, false, nil
		}
		c.logger.Error("failed to get entitlement from redis",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return false, false, fmt.Errorf("failed to get entitlement: %w", err)
	}

	return val == "1", true, nil
}

// Set кэширует флаг is_paid с указанным TTL
func (c *EntitlementCache) Set(ctx context.Context, userID string, isPaid bool, ttl time.Duration) error {
	key := entitlementKey(userID)

	val := "0"
	if isPaid {
		val = "1"
	}

	if err := c.client.Set(ctx, key, val, ttl).Err(); err != nil {
		c.logger.Error("failed to set entitlement in redis",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return fmt.Errorf("failed to set entitlement: %w", err)
	}

	c.logger.Debug("entitlement cached",
		zap.String("user_id", userID),
		zap.Bool("is_paid", isPaid),
		zap.Duration("ttl", ttl),
	)

	return nil
}

// Invalidate удаляет закэшированный флаг
// Вызывается write path-ами entitlement, чтобы не ждать истечения TTL
func (c *EntitlementCache) Invalidate(ctx context.Context, userID string) error {
	key := entitlementKey(userID)

	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.logger.Error("failed to invalidate entitlement in redis",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return fmt.Errorf("failed to invalidate entitlement: %w", err)
	}

	c.logger.Debug("entitlement cache invalidated",
		zap.String("user_id", userID),
	)

	return nil
}
