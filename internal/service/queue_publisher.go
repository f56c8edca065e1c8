// Package service holds the outbound integrations handlers call into.
// The publisher here puts allocation events on the broker; delivery is
// best effort and a broker outage never fails the originating request.
package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/jdrivas/gtm/internal/queue"
)

// EventPublisher publishes allocation events. A nil *AMQPPublisher is
// a valid no-op publisher, which keeps handler wiring unconditional.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.AllocationEvent)
}

// AMQPPublisher dials the broker per publish. Allocation events are
// low volume (admin actions only), so a persistent channel is not
// worth the reconnect bookkeeping.
type AMQPPublisher struct {
	url string
}

// NewAMQPPublisher returns a publisher for the given broker URL, or
// nil when the URL is empty so callers degrade to no events.
func NewAMQPPublisher(url string) *AMQPPublisher {
	if url == "" {
		return nil
	}
	return &AMQPPublisher{url: url}
}

// Publish sends one event to the durable allocation.events queue.
// Failures are logged, never propagated: the database is the source of
// truth and the event stream is advisory.
func (p *AMQPPublisher) Publish(ctx context.Context, ev queue.AllocationEvent) {
	if p == nil {
		return
	}
	conn, err := amqp.Dial(p.url)
	if err != nil {
		log.Printf("publisher: dial failed: %v", err)
		return
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("publisher: channel open failed: %v", err)
		return
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(queue.QueueName, true, false, false, false, nil); err != nil {
		log.Printf("publisher: queue declare failed: %v", err)
		return
	}

	body, err := json.Marshal(ev)
	if err != nil {
		log.Printf("publisher: marshal event failed: %v", err)
		return
	}

	err = ch.PublishWithContext(ctx, "", queue.QueueName, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		log.Printf("publisher: publish failed: %v", err)
	}
}
