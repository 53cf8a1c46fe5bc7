package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gamestore/internal/domain/model"

	kafkaGo "github.com/segmentio/kafka-go"
)

// kafkaGo.Writerのうち使う部分だけ（テストで差し替える）
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkaGo.Message) error
	Close() error
}

// リクエスト処理中に同期で送るので、バッチが溜まるのを待たない
const saleEventBatchTimeout = 10 * time.Millisecond

// 1件の送信にかける上限
const saleEventPublishTimeout = 3 * time.Second

// 売上確定イベントをKafkaへ送る
type KafkaSalePublisher struct {
	w     messageWriter
	topic string
}

func NewKafkaSalePublisher(brokers []string, topic string) *KafkaSalePublisher {
	w := &kafkaGo.Writer{
		Addr:                   kafkaGo.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafkaGo.Hash{},
		RequiredAcks:           kafkaGo.RequireAll,
		AllowAutoTopicCreation: true,
		BatchTimeout:           saleEventBatchTimeout,
		WriteTimeout:           saleEventPublishTimeout,
	}
	return &KafkaSalePublisher{w: w, topic: topic}
}

func (p *KafkaSalePublisher) PublishSaleCreated(ctx context.Context, ev model.SaleCreatedEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, saleEventPublishTimeout)
	defer cancel()

	//同じ売上は同じパーティションへ
	return p.w.WriteMessages(ctx, kafkaGo.Message{
		Key:   []byte(ev.SaleID),
		Value: payload,
		Headers: []kafkaGo.Header{
			{Key: "event_type", Value: []byte(model.SaleCreatedEventType)},
		},
	})
}

func (p *KafkaSalePublisher) Close() error {
	return p.w.Close()
}
