// Package mq 基于RabbitMQ的领域事件发布
//
// 服务只发布事件，不消费：账号注册/删除、书评创建/删除之后，
// 把事件投递到topic交换机，供下游（通知、统计）按routing key订阅。
//
// 发布发生在数据已经提交之后，发布失败只记录日志，不影响请求结果。
package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/xiebiao/booknerds/pkg/metrics"
)

// Event 事件信封
type Event struct {
	ID         string      `json:"id"`
	Type       string      `json:"type"` // 同routing key，如 review.created
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}

// NewEvent 创建事件（生成唯一ID）
func NewEvent(eventType string, payload interface{}) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// EventPublisher 事件发布接口
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload interface{}) error
	Close() error
}

// NopPublisher 未启用消息队列时使用
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, interface{}) error { return nil }
func (NopPublisher) Close() error                                        { return nil }

// Publisher RabbitMQ发布者
// amqp.Channel不是并发安全的，发布时加锁
type Publisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	logger   *zap.Logger

	mu sync.Mutex
}

// NewPublisher 连接RabbitMQ并声明持久化交换机
func NewPublisher(url, exchange, exchangeType string, logger *zap.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("连接RabbitMQ失败: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("创建Channel失败: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchange,
		exchangeType,
		true,  // Durable
		false, // AutoDelete
		false, // Internal
		false, // NoWait
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("声明Exchange失败: %w", err)
	}

	logger.Info("消息发布者已创建",
		zap.String("exchange", exchange),
		zap.String("type", exchangeType),
	)

	return &Publisher{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
		logger:   logger,
	}, nil
}

// Publish 发布事件，payload包装进Event信封后以JSON发送
func (p *Publisher) Publish(ctx context.Context, routingKey string, payload interface{}) error {
	body, err := Marshal(routingKey, payload)
	if err != nil {
		return err
	}

	p.mu.Lock()
	err = p.channel.PublishWithContext(
		ctx,
		p.exchange,
		routingKey,
		false, // Mandatory
		false, // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
	p.mu.Unlock()

	result := "success"
	if err != nil {
		result = "failure"
	}
	metrics.IncCounterVec(metrics.MessagesPublishedTotal, map[string]string{
		"routing_key": routingKey,
		"result":      result,
	})

	if err != nil {
		return fmt.Errorf("发布消息失败: %w", err)
	}

	p.logger.Debug("消息已发布", zap.String("routing_key", routingKey), zap.Int("bytes", len(body)))
	return nil
}

// Close 关闭Channel和连接
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// Marshal 把payload包装成事件信封并序列化
func Marshal(routingKey string, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(NewEvent(routingKey, payload))
	if err != nil {
		return nil, fmt.Errorf("消息序列化失败: %w", err)
	}
	return body, nil
}

// 事件routing key
const (
	KeyAccountRegistered = "account.registered"
	KeyAccountDeleted    = "account.deleted"
	KeyReviewCreated     = "review.created"
	KeyReviewDeleted     = "review.deleted"
)

// PublishQuietly 发布事件，失败只记日志
// 用于数据已经提交之后的通知，调用方不关心结果
func PublishQuietly(ctx context.Context, pub EventPublisher, routingKey string, payload interface{}) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, routingKey, payload); err != nil {
		zap.L().Warn("领域事件发布失败",
			zap.String("routing_key", routingKey),
			zap.Error(err),
		)
	}
}
