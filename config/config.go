package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config 配置信息
type Config struct {
	App        *App              `json:"app" yaml:"app"`
	Log        *Log              `json:"log" yaml:"log"`
	Redis      *Redis            `json:"redis" yaml:"redis"`
	MySQL      *MySQL            `json:"mysql" yaml:"mysql"`
	Jwt        *Jwt              `json:"jwt" yaml:"jwt"`
	Server     *Server           `json:"server" yaml:"server"`
	RocketMQ   *RocketMQConfig   `json:"rocketmq" yaml:"rocketmq"`
	Referral   *ReferralConfig   `json:"referral" yaml:"referral"`
	Redemption *RedemptionConfig `json:"redemption" yaml:"redemption"`
}

type Server struct {
	Http int `json:"http" yaml:"http"`
}

type Log struct {
	Level string `json:"level" yaml:"level"`
}

func New(filename string) *Config {
	content, err := os.ReadFile(filename)
	if err != nil {
		panic(err)
	}

	conf, err := Parse(content)
	if err != nil {
		panic(fmt.Sprintf("解析 %s 读取错误: %v", filename, err))
	}
	return conf
}

// Parse 解析 yaml 内容，补齐默认值并应用环境变量覆盖
func Parse(content []byte) (*Config, error) {
	var conf Config
	if err := yaml.Unmarshal(content, &conf); err != nil {
		return nil, err
	}
	conf.applyDefaults()
	conf.applyEnv()
	return &conf, nil
}

func (c *Config) applyDefaults() {
	if c.App == nil {
		c.App = &App{Env: "dev"}
	}
	if c.Log == nil {
		c.Log = &Log{Level: "info"}
	}
	if c.Server == nil {
		c.Server = &Server{}
	}
	if c.Server.Http == 0 {
		c.Server.Http = 8080
	}
	if c.Redis == nil {
		c.Redis = &Redis{}
	}
	c.Redis.applyDefaults()
	if c.MySQL == nil {
		c.MySQL = &MySQL{}
	}
	if c.Jwt == nil {
		c.Jwt = &Jwt{}
	}
	if c.Jwt.ExpiresIn <= 0 {
		c.Jwt.ExpiresIn = 7200
	}
	if c.RocketMQ == nil {
		c.RocketMQ = &RocketMQConfig{}
	}
	if c.Referral == nil {
		c.Referral = &ReferralConfig{}
	}
	c.Referral.applyDefaults()
	if c.Redemption == nil {
		c.Redemption = &RedemptionConfig{}
	}
	c.Redemption.applyDefaults()
}

// 密钥类配置允许通过环境变量覆盖，避免写进配置文件
func (c *Config) applyEnv() {
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.Jwt.Secret = v
	}
	if v := os.Getenv("MYSQL_PASSWORD"); v != "" {
		c.MySQL.Password = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("HTTP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Http = port
		}
	}
}

// Debug 调试模式
func (c *Config) Debug() bool {
	return c.App.Debug
}
