package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/Buffden/Event-Management-System-sub004/internal/domain/notification"
)

// Publisher publishes lifecycle messages as JSON on Redis Pub/Sub, one
// channel per topic.
type Publisher struct {
	client *redis.Client
	prefix string
}

func NewPublisher(client *redis.Client, channelPrefix string) *Publisher {
	return &Publisher{client: client, prefix: channelPrefix}
}

// Channel returns the channel a topic is published on.
func (p *Publisher) Channel(topic notification.Topic) string {
	return p.prefix + string(topic)
}

func (p *Publisher) Publish(ctx context.Context, msg notification.Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}
	if err := p.client.Publish(ctx, p.Channel(msg.Topic), payload).Err(); err != nil {
		return fmt.Errorf("failed to publish %s: %w", msg.Topic, err)
	}
	return nil
}

var _ notification.Publisher = (*Publisher)(nil)
