package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// AlertSender delivers one alert to the operators.
type AlertSender interface {
	SendAlert(ctx context.Context, alert AlertPayload) error
}

// Consumer is the part of *amqp.Channel the worker needs.
type Consumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

// AlertWorker drains q.alerts and mails each alert.
type AlertWorker struct {
	ch     Consumer
	sender AlertSender
	log    *zap.Logger
}

func NewAlertWorker(ch Consumer, sender AlertSender, log *zap.Logger) *AlertWorker {
	return &AlertWorker{ch: ch, sender: sender, log: log}
}

// Start consumes until ctx is cancelled or the delivery channel closes.
func (w *AlertWorker) Start(ctx context.Context) error {
	msgs, err := w.ch.Consume(QueueName, "crm-alerts", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("fallo al registrar consumidor: %w", err)
	}
	w.log.Info("alert worker listening", zap.String("queue", QueueName))

	for {
		select {
		case <-ctx.Done():
			w.log.Info("alert worker stopped")
			return nil
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			w.handle(ctx, d)
		}
	}
}

func (w *AlertWorker) handle(ctx context.Context, d amqp.Delivery) {
	var alert AlertPayload
	if err := json.Unmarshal(d.Body, &alert); err != nil {
		w.log.Warn("malformed alert", zap.Error(err))
		_ = d.Nack(false, false)
		return
	}
	if err := w.sender.SendAlert(ctx, alert); err != nil {
		w.log.Error("alert delivery failed", zap.String("title", alert.Title), zap.Error(err))
		_ = d.Nack(false, false)
		return
	}
	_ = d.Ack(false)
}
