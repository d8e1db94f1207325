package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"pictiato/internal/config"
	"pictiato/internal/domain"

	wbkafka "github.com/wb-go/wbf/kafka"
	"github.com/wb-go/wbf/retry"
)

// ProducerClient publishes asset lifecycle events. Events are keyed by fetch
// path so all events for one asset land on the same partition, in order.
type ProducerClient struct {
	producer *wbkafka.Producer
	strategy retry.Strategy
}

func NewProducerClient(cfg *config.Config) *ProducerClient {
	return &ProducerClient{
		producer: wbkafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.EventsTopic),
		strategy: cfg.DefaultRetryStrategy(),
	}
}

func (p *ProducerClient) Publish(ctx context.Context, ev *domain.AssetEvent) error {
	value, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	return p.producer.SendWithRetry(ctx, p.strategy, []byte(ev.Path), value)
}

func (p *ProducerClient) Close() error {
	return p.producer.Close()
}
