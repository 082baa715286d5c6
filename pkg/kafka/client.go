// Package kafka 提供了与 Kafka 消息队列交互的功能。
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"portfolio-cms/internal/config"
	"portfolio-cms/pkg/log"
	"portfolio-cms/pkg/tasks"

	"github.com/segmentio/kafka-go"
)

// maxAttempts 单条事件的最大处理次数，超过后提交 offset 放弃该事件。
const maxAttempts = 3

// EventProcessor 是消费者处理事件的接口，使消费者与具体处理流程解耦。
type EventProcessor interface {
	Process(ctx context.Context, evt tasks.ContentEvent) error
}

// Producer 将内容事件写入 Kafka。
type Producer struct {
	writer *kafka.Writer
}

// NewProducer 初始化 Kafka 生产者。
func NewProducer(cfg config.KafkaConfig) *Producer {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers(cfg.Brokers)...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}
	log.Info("Kafka 生产者初始化成功")
	return &Producer{writer: w}
}

// Publish 发送一个事件，以实体 ID 作为消息 key，保证同一实体的事件有序。
func (p *Producer) Publish(ctx context.Context, evt tasks.ContentEvent) error {
	value, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(evt.ID),
		Value: value,
	})
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

// StartConsumer 以消费者组方式读取事件并交给 processor 处理，ctx 取消时退出。
// 处理失败的消息不提交 offset，最多尝试 maxAttempts 次后提交并跳过。
func StartConsumer(ctx context.Context, cfg config.KafkaConfig, processor EventProcessor) {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers(cfg.Brokers),
		Topic:    cfg.Topic,
		GroupID:  cfg.GroupID,
		MinBytes: 1,
		MaxBytes: 10e6, // 10MB
	})
	defer func() {
		if err := r.Close(); err != nil {
			log.Errorf("关闭 Kafka 消费者失败: %v", err)
		}
	}()

	log.Infof("Kafka 消费者已启动，正在监听主题 '%s'", cfg.Topic)
	attempts := newAttemptCounter()

	for {
		m, err := r.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				log.Info("Kafka 消费者已停止")
				return
			}
			log.Error("从 Kafka 读取消息失败", err)
			return
		}

		var evt tasks.ContentEvent
		if err := json.Unmarshal(m.Value, &evt); err != nil {
			log.Errorf("无法解析 Kafka 消息: %v, value: %s", err, string(m.Value))
			// 消息格式错误，直接提交，避免阻塞队列
			commit(ctx, r, m)
			continue
		}

		key := fmt.Sprintf("%d:%d", m.Partition, m.Offset)
		for {
			err := processor.Process(ctx, evt)
			if err == nil {
				attempts.reset(key)
				break
			}
			n := attempts.inc(key)
			log.Errorf("处理内容事件失败(第 %d 次): entity=%s, action=%s, id=%s, error: %v", n, evt.Entity, evt.Action, evt.ID, err)
			if n >= maxAttempts || ctx.Err() != nil {
				log.Errorf("内容事件多次失败，提交 offset 放弃: id=%s", evt.ID)
				attempts.reset(key)
				break
			}
		}
		commit(ctx, r, m)
	}
}

func commit(ctx context.Context, r *kafka.Reader, m kafka.Message) {
	if err := r.CommitMessages(ctx, m); err != nil {
		log.Errorf("提交 Kafka 消息 offset 失败: %v", err)
	}
}

func brokers(s string) []string {
	var out []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

// attemptCounter 记录每条消息（partition:offset）的失败次数。
type attemptCounter struct {
	mu     sync.Mutex
	counts map[string]int
}

func newAttemptCounter() *attemptCounter {
	return &attemptCounter{counts: make(map[string]int)}
}

func (c *attemptCounter) inc(key string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[key]++
	return c.counts[key]
}

func (c *attemptCounter) reset(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.counts, key)
}
