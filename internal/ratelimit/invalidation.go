package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
)

// InvalidateUser removes all rate limit keys for a specific user.
// Called when the account is deleted so the id's quota does not linger.
func (rl *RateLimiter) InvalidateUser(ctx context.Context, userID int64) error {
	if !rl.redisClient.IsEnabled() {
		rl.fallbackMutex.Lock()
		defer rl.fallbackMutex.Unlock()

		delete(rl.fallbackLimiters, fmt.Sprintf("ratelimit:scoring:%d", userID))
		delete(rl.fallbackLimiters, fmt.Sprintf("ratelimit:chat:%d", userID))

		slog.Info("Invalidated user rate limits (in-memory)", "user_id", userID)
		return nil
	}

	pattern := fmt.Sprintf("ratelimit:*:%d", userID)
	return rl.deleteByPattern(ctx, pattern)
}

// deleteByPattern deletes all Redis keys matching a pattern
func (rl *RateLimiter) deleteByPattern(ctx context.Context, pattern string) error {
	client := rl.redisClient.GetClient()

	// SCAN rather than KEYS to avoid blocking Redis
	var cursor uint64
	var deletedCount int

	for {
		keys, nextCursor, err := client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return fmt.Errorf("failed to scan keys: %w", err)
		}

		if len(keys) > 0 {
			deleted, err := client.Del(ctx, keys...).Result()
			if err != nil {
				return fmt.Errorf("failed to delete keys: %w", err)
			}
			deletedCount += int(deleted)
		}

		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}

	slog.Info("Deleted rate limit keys by pattern", "pattern", pattern, "count", deletedCount)
	return nil
}
