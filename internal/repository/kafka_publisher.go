package repository

import (
	"context"

	"HashClock/internal/domain/models"
	"HashClock/internal/domain/repository"
	pkgkafka "HashClock/pkg/kafka"
)

type batchProducer interface {
	PublishBatch(ctx context.Context, topic string, messages []pkgkafka.Message) error
	Close() error
}

var _ repository.Publisher = (*KafkaPublisher)(nil)

// KafkaPublisher emits signature records keyed by record id.
type KafkaPublisher struct {
	producer batchProducer
	topic    string
}

func NewKafkaPublisher(producer *pkgkafka.Producer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) Publish(ctx context.Context, r *models.SignatureRecord) error {
	return p.PublishBatch(ctx, []*models.SignatureRecord{r})
}

func (p *KafkaPublisher) PublishBatch(ctx context.Context, records []*models.SignatureRecord) error {
	msgs := make([]pkgkafka.Message, 0, len(records))
	for _, r := range records {
		if r == nil {
			continue
		}
		msgs = append(msgs, pkgkafka.Message{Key: []byte(r.ID), Value: r})
	}
	if len(msgs) == 0 {
		return nil
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaPublisher) Close() error {
	if p.producer == nil {
		return nil
	}
	return p.producer.Close()
}
