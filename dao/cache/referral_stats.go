package cache

import (
	"Rewards/internal/referral"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// 统计缓存默认过期时间
const statsExpireAt = 30 * time.Second

type ReferralStatsStorage struct {
	redis *redis.Client
}

func NewReferralStatsStorage(rds *redis.Client) *ReferralStatsStorage {
	return &ReferralStatsStorage{rds}
}

// Get 读取缓存的邀请统计，未命中或解析失败返回 false
// @params uid 邀请人ID
func (s *ReferralStatsStorage) Get(ctx context.Context, uid uint64) (*referral.Stats, bool) {
	raw, err := s.redis.Get(ctx, s.name(uid)).Bytes()
	if err != nil {
		return nil, false
	}
	var stats referral.Stats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, false
	}
	return &stats, true
}

// Set 写入统计缓存，降级结果不缓存
// @params uid 邀请人ID
// @params ttl 过期时间，<=0 使用默认值
func (s *ReferralStatsStorage) Set(ctx context.Context, uid uint64, stats *referral.Stats, ttl time.Duration) {
	if stats == nil || stats.Degraded {
		return
	}
	if ttl <= 0 {
		ttl = statsExpireAt
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	s.redis.Set(ctx, s.name(uid), raw, ttl)
}

// Del 批量失效，一笔交易可能同时影响三层上级
// @params uids 邀请人ID列表
func (s *ReferralStatsStorage) Del(ctx context.Context, uids ...uint64) {
	if len(uids) == 0 {
		return
	}
	pipe := s.redis.Pipeline()
	for _, uid := range uids {
		pipe.Del(ctx, s.name(uid))
	}
	_, _ = pipe.Exec(ctx)
}

// rewards:referral:stats:uid
func (s *ReferralStatsStorage) name(uid uint64) string {
	return fmt.Sprintf("rewards:referral:stats:%d", uid)
}
