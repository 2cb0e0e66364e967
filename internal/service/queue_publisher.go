// Package service provides the outbound side of statement events: it
// publishes StatementIssuedEvent to RabbitMQ.  Errors are logged and
// returned so callers can ignore them without failing the request.
package service

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/theater-billing/internal/queue"
)

// QueuePublisher publishes statement events to the durable
// statement.issued queue.  It dials the broker on every publish.
type QueuePublisher struct {
	URL string
	Log logrus.FieldLogger
}

// NewQueuePublisher returns a publisher for the broker at url.
func NewQueuePublisher(url string, log logrus.FieldLogger) *QueuePublisher {
	return &QueuePublisher{URL: url, Log: log}
}

// defaultDialTimeout bounds connection setup when ctx has no deadline.
const defaultDialTimeout = 3 * time.Second

// dialTimeout returns the time left until the ctx deadline.  The TCP
// connect and the AMQP handshake both have to fit in it.
func dialTimeout(ctx context.Context) time.Duration {
	deadline, ok := ctx.Deadline()
	if !ok {
		return defaultDialTimeout
	}
	if left := time.Until(deadline); left > 0 {
		return left
	}
	return time.Millisecond
}

// PublishStatementIssued sends event as a persistent JSON message.  Dialing,
// the AMQP handshake and the publish all respect the ctx deadline.
func (p *QueuePublisher) PublishStatementIssued(ctx context.Context, event queue.StatementIssuedEvent) error {
	log := p.Log.WithField("statement_id", event.StatementID)

	conn, err := amqp.DialConfig(p.URL, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(dialTimeout(ctx)),
	})
	if err != nil {
		log.WithError(err).Warn("rabbitmq: dial failed")
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.WithError(err).Warn("rabbitmq: channel open failed")
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		queue.StatementQueueName, // name
		true,                     // durable
		false,                    // autoDelete
		false,                    // exclusive
		false,                    // noWait
		nil,                      // args
	); err != nil {
		log.WithError(err).Warn("rabbitmq: queue declare failed")
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.WithError(err).Warn("rabbitmq: marshal event failed")
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.StatementID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queue.StatementQueueName, false, false, pub); err != nil {
		log.WithError(err).Warn("rabbitmq: publish failed")
		return err
	}
	log.Debug("rabbitmq: statement event published")
	return nil
}
