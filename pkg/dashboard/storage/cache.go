package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/nemonet1337/hanbaiGoDashboard/pkg/dashboard"
)

const summaryKeyPrefix = "dashboard:summary:"

// SummaryCache caches computed dashboard summaries in Redis, keyed by the
// filter selection. A cache failure is never fatal: callers fall back to
// recomputing.
// 計算済みダッシュボード集計をRedisにキャッシュ（失敗時は再計算にフォールバック）
type SummaryCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewSummaryCache creates a summary cache with the given TTL
// 指定TTLで集計キャッシュを作成
func NewSummaryCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *SummaryCache {
	return &SummaryCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// summaryKey builds the cache key for a filter selection
// 絞り込みに対応するキャッシュキーを組み立てる
func summaryKey(selection dashboard.FilterSelection) string {
	region, location := int64(0), int64(0)
	if selection.RegionID != nil {
		region = *selection.RegionID
	}
	if selection.LocationID != nil {
		location = *selection.LocationID
	}
	return fmt.Sprintf("%s%d:%d", summaryKeyPrefix, region, location)
}

// Get returns the cached summary for the selection, or nil on a miss
// キャッシュ済み集計を取得（ミス時はnil）
func (c *SummaryCache) Get(ctx context.Context, selection dashboard.FilterSelection) *dashboard.Summary {
	payload, err := c.client.Get(ctx, summaryKey(selection)).Bytes()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		c.logger.Warn("集計キャッシュ取得に失敗しました", zap.Error(err))
		return nil
	}

	var summary dashboard.Summary
	if err := json.Unmarshal(payload, &summary); err != nil {
		c.logger.Warn("集計キャッシュの復元に失敗しました", zap.Error(err))
		return nil
	}
	return &summary
}

// Set stores a computed summary for the selection
// 計算済み集計を保存
func (c *SummaryCache) Set(ctx context.Context, selection dashboard.FilterSelection, summary *dashboard.Summary) {
	payload, err := json.Marshal(summary)
	if err != nil {
		c.logger.Warn("集計キャッシュの直列化に失敗しました", zap.Error(err))
		return
	}

	if err := c.client.Set(ctx, summaryKey(selection), payload, c.ttl).Err(); err != nil {
		c.logger.Warn("集計キャッシュ保存に失敗しました", zap.Error(err))
	}
}

// Invalidate drops all cached summaries. Called after writes so stale
// aggregates are not served.
// 全キャッシュを破棄（書き込み後に呼び出し、古い集計を配信しない）
func (c *SummaryCache) Invalidate(ctx context.Context) {
	iter := c.client.Scan(ctx, 0, summaryKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			c.logger.Warn("集計キャッシュ削除に失敗しました", zap.String("key", iter.Val()), zap.Error(err))
		}
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn("集計キャッシュ走査に失敗しました", zap.Error(err))
	}
}
