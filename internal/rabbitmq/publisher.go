package rabbitmq

import (
	"context"
	"log"

	"codeforge/internal/observability"
)

// NewPublisher builds the events publisher, falling back to a logging noop
// when AMQP is unconfigured or unreachable so the service still starts.
func NewPublisher(amqpURL, exchange string) observability.Publisher {
	if amqpURL == "" {
		log.Printf("rabbitmq disabled, using noop: empty amqp url")
		return noopPublisher{reason: "empty amqp url"}
	}

	publisher, err := observability.NewAMQPPublisher(amqpURL, exchange)
	if err != nil {
		log.Printf("rabbitmq disabled, using noop: %v", err)
		return noopPublisher{reason: err.Error()}
	}

	log.Printf("rabbitmq connected exchange=%s", exchange)
	return publisher
}

type noopPublisher struct {
	reason string
}

func (noopPublisher) PublishJSON(ctx context.Context, routingKey string, message interface{}, headers map[string]string) error {
	log.Printf("rabbitmq noop publish routing_key=%s", routingKey)
	return nil
}

// Mode reports whether the live AMQP publisher or the noop is in use.
func Mode(p observability.Publisher) string {
	switch p.(type) {
	case *observability.AMQPPublisher:
		return "amqp"
	case noopPublisher:
		return "noop"
	default:
		return "unknown"
	}
}
