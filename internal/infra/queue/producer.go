package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/solarcrm/pipeline-crm/internal/usecase"
)

// AlertPayload is what travels on q.alerts. It names the actor by email and
// never carries the session token.
type AlertPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Actor       string `json:"actor,omitempty"`
	At          string `json:"at"`
}

// Publisher is the part of *amqp.Channel the producer needs.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Producer forwards destructive notifications to the alert queue. Other
// variants are ignored.
type Producer struct {
	ch Publisher
}

func NewProducer(ch Publisher) *Producer {
	return &Producer{ch: ch}
}

func (p *Producer) Notify(ctx context.Context, n usecase.Notification) error {
	if n.Variant != usecase.VariantDestructive {
		return nil
	}
	body, err := json.Marshal(AlertPayload{
		Title:       n.Title,
		Description: n.Description,
		Actor:       n.Actor,
		At:          n.At.UTC().Format("2006-01-02T15:04:05Z"),
	})
	if err != nil {
		return fmt.Errorf("error al serializar alerta: %w", err)
	}

	err = p.ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("fallo al publicar en RabbitMQ: %w", err)
	}
	return nil
}
