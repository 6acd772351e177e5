package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/tixxety/tixxety/internal/port"
)

const (
	expiryQueue     = "ticket.expiry"
	expiryWaitQueue = "ticket.expiry.wait"
)

type expiryMessage struct {
	TicketID string `json:"ticket_id"`
}

// AMQPScheduler delays expiry jobs through a RabbitMQ wait queue whose
// messages dead-letter into the work queue once their per-message TTL lapses.
// Every message carries the same TTL, so head-of-queue expiry never holds a
// later message past its fire time.
type AMQPScheduler struct {
	conn *amqp.Connection
	log  *slog.Logger
}

func NewAMQPScheduler(conn *amqp.Connection, log *slog.Logger) (*AMQPScheduler, error) {
	s := &AMQPScheduler{conn: conn, log: log}

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	if err := declareQueues(ch); err != nil {
		return nil, err
	}
	return s, nil
}

func declareQueues(ch *amqp.Channel) error {
	if _, err := ch.QueueDeclare(expiryQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare %s: %w", expiryQueue, err)
	}
	_, err := ch.QueueDeclare(expiryWaitQueue, true, false, false, false, amqp.Table{
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": expiryQueue,
	})
	if err != nil {
		return fmt.Errorf("declare %s: %w", expiryWaitQueue, err)
	}
	return nil
}

func (s *AMQPScheduler) Schedule(ctx context.Context, ticketID string, delay time.Duration) error {
	ch, err := s.conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	body, err := json.Marshal(expiryMessage{TicketID: ticketID})
	if err != nil {
		return fmt.Errorf("marshal expiry message: %w", err)
	}

	err = ch.PublishWithContext(ctx,
		"",
		expiryWaitQueue,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Expiration:   strconv.FormatInt(delay.Milliseconds(), 10),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish expiry message: %w", err)
	}
	return nil
}

// Consume delivers matured expiry jobs to the expirer until ctx is done.
// Failed deliveries are requeued (at-least-once); the expirer's idempotence
// makes redelivery safe.
func (s *AMQPScheduler) Consume(ctx context.Context, expirer port.Expirer) error {
	ch, err := s.conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	if err := declareQueues(ch); err != nil {
		return err
	}

	msgs, err := ch.Consume(expiryQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", expiryQueue, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return errors.New("expiry delivery channel closed")
			}
			s.handle(ctx, expirer, d)
		}
	}
}

func (s *AMQPScheduler) handle(ctx context.Context, expirer port.Expirer, d amqp.Delivery) {
	var msg expiryMessage
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		s.log.Error("dropping malformed expiry message", "error", err)
		_ = d.Ack(false)
		return
	}

	expireCtx, cancel := context.WithTimeout(ctx, expireTimeout)
	defer cancel()

	if err := expirer.Expire(expireCtx, msg.TicketID); err != nil {
		s.log.Error("expiry check failed, requeueing", "ticket_id", msg.TicketID, "error", err)
		_ = d.Nack(false, true)
		return
	}
	_ = d.Ack(false)
}
