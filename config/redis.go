package config

import (
	"fmt"
	"time"
)

// Redis 统计缓存使用的 Redis 连接
type Redis struct {
	Address  string `json:"address" yaml:"address"`
	Port     int    `json:"port" yaml:"port"`
	Username string `json:"username" yaml:"username"`
	Password string `json:"password" yaml:"password"`
	Database int    `json:"database" yaml:"database"`
	// 连接池大小，0 使用 go-redis 默认值
	PoolSize int `json:"pool_size" yaml:"pool_size"`
	// 建连与启动探活超时（毫秒）
	DialTimeoutMs int `json:"dial_timeout_ms" yaml:"dial_timeout_ms"`
}

func (r *Redis) applyDefaults() {
	if r.Address == "" {
		r.Address = "127.0.0.1"
	}
	if r.Port == 0 {
		r.Port = 6379
	}
	if r.DialTimeoutMs <= 0 {
		r.DialTimeoutMs = 3000
	}
}

func (r *Redis) Addr() string {
	return fmt.Sprintf("%s:%d", r.Address, r.Port)
}

func (r *Redis) DialTimeout() time.Duration {
	return time.Duration(r.DialTimeoutMs) * time.Millisecond
}
