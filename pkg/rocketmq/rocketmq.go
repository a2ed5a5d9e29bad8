package rocketmq

import (
	"Rewards/config"
	"Rewards/pkg/log"
	"context"
	"encoding/json"

	"github.com/apache/rocketmq-client-go/v2"
	"github.com/apache/rocketmq-client-go/v2/primitive"
	"github.com/apache/rocketmq-client-go/v2/producer"
	"github.com/apache/rocketmq-client-go/v2/rlog"
	"go.uber.org/zap"
)

// 事件 tag
const (
	TagReferralCompleted = "referral_completed"
	TagCommissionAccrued = "commission_accrued"
	TagRedemptionUpdated = "redemption_updated"
)

// Publisher 领域事件发布
type Publisher interface {
	Publish(ctx context.Context, tag, key string, payload any) error
	Shutdown() error
}

type Rocketmq struct {
	topic    string
	producer rocketmq.Producer
}

func init() {
	rlog.SetLogLevel("error")
}

// InitProducer 未启用时返回空实现，业务代码无需判断
func InitProducer(cfg *config.RocketMQConfig) Publisher {
	if cfg == nil || !cfg.Enabled {
		log.L.Info("rocketmq disabled, events will be dropped")
		return Nop{}
	}
	retry := cfg.Producer.Retry
	if retry <= 0 {
		retry = 2
	}
	p, err := rocketmq.NewProducer(
		producer.WithNameServer(cfg.NameServer),
		producer.WithGroupName(cfg.Producer.Group),
		producer.WithRetry(retry),
	)
	if err != nil {
		log.L.Error("init producer failed", zap.Error(err))
		return Nop{}
	}
	if err = p.Start(); err != nil {
		log.L.Error("start producer failed", zap.Error(err))
		return Nop{}
	}
	log.L.Info("init producer success", zap.String("topic", cfg.Topic))

	return &Rocketmq{topic: cfg.Topic, producer: p}
}

func (p *Rocketmq) Publish(ctx context.Context, tag, key string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	msg := primitive.NewMessage(p.topic, body).WithTag(tag)
	if key != "" {
		msg = msg.WithKeys([]string{key})
	}

	// 发送同步消息
	res, err := p.producer.SendSync(ctx, msg)
	if err != nil {
		return err
	}
	log.L.Debug("send message success", zap.String("tag", tag), zap.String("msg_id", res.MsgID))
	return nil
}

func (p *Rocketmq) Shutdown() error {
	return p.producer.Shutdown()
}

// Nop 丢弃所有事件
type Nop struct{}

func (Nop) Publish(context.Context, string, string, any) error { return nil }
func (Nop) Shutdown() error                                   { return nil }
