package config

import "time"

// ReferralConfig 推荐码与统计查询相关配置
type ReferralConfig struct {
	HashSalt      string `yaml:"hash_salt"`
	CodeMinLength int    `yaml:"code_min_length"`
	LinkOrigin    string `yaml:"link_origin"`
	// 统计查询的统一超时（毫秒）
	QueryTimeoutMs int `yaml:"query_timeout_ms"`
	// 统计缓存时间（秒），0 表示不缓存
	StatsCacheTTL int `yaml:"stats_cache_ttl"`
}

func (r *ReferralConfig) applyDefaults() {
	if r.CodeMinLength <= 0 {
		r.CodeMinLength = 8
	}
	if r.QueryTimeoutMs <= 0 {
		r.QueryTimeoutMs = 5000
	}
}

func (r *ReferralConfig) QueryTimeout() time.Duration {
	return time.Duration(r.QueryTimeoutMs) * time.Millisecond
}

func (r *ReferralConfig) CacheTTL() time.Duration {
	return time.Duration(r.StatsCacheTTL) * time.Second
}

// RedemptionConfig 兑换单配置
type RedemptionConfig struct {
	ActivationValidityDays int `yaml:"activation_validity_days"`
	// 超过该时长仍未处理的兑换单由定时任务取消并退还积分（小时），0 表示关闭
	PendingTTLHours int `yaml:"pending_ttl_hours"`
	// 定时任务执行间隔（秒）
	SweepIntervalSec int `yaml:"sweep_interval_sec"`
}

func (r *RedemptionConfig) applyDefaults() {
	if r.ActivationValidityDays <= 0 {
		r.ActivationValidityDays = 30
	}
	if r.SweepIntervalSec <= 0 {
		r.SweepIntervalSec = 300
	}
}

func (r *RedemptionConfig) ActivationValidity() time.Duration {
	return time.Duration(r.ActivationValidityDays) * 24 * time.Hour
}

func (r *RedemptionConfig) PendingTTL() time.Duration {
	return time.Duration(r.PendingTTLHours) * time.Hour
}

func (r *RedemptionConfig) SweepInterval() time.Duration {
	return time.Duration(r.SweepIntervalSec) * time.Second
}
