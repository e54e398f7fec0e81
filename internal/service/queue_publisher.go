// Package service wires the booking engine to out-of-process
// infrastructure such as the message broker.
package service

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/hotel-reservation/internal/booking"
	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/queue"
)

const confirmedQueueName = "reservation.confirmed"

// ConfirmedPublisher implements booking.Notifier by publishing a
// ReservationConfirmedEvent to a durable RabbitMQ queue.  Publishing is
// best effort: the payment webhook must succeed even when the broker is
// down, so failures are logged and swallowed.
type ConfirmedPublisher struct {
	url     string
	catalog booking.Catalog

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewConfirmedPublisher creates a publisher for the given broker URL.
// The catalog is used to resolve room and plan names so consumers get
// human-readable events.  The connection is established lazily on
// first publish and re-established after failures.
func NewConfirmedPublisher(url string, catalog booking.Catalog) *ConfirmedPublisher {
	return &ConfirmedPublisher{url: url, catalog: catalog}
}

// ReservationConfirmed publishes the confirmation event.
func (p *ConfirmedPublisher) ReservationConfirmed(ctx context.Context, res *model.Reservation) {
	ev := queue.ReservationConfirmedEvent{
		ReservationID: res.ID,
		GuestName:     res.GuestName,
		GuestEmail:    res.GuestEmail,
		RoomID:        res.RoomID,
		PlanID:        res.PlanID,
		CheckIn:       res.CheckIn.Format("2006-01-02"),
		CheckOut:      res.CheckOut.Format("2006-01-02"),
		TotalPrice:    res.TotalPrice,
		ConfirmedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	if res.PaymentRef != nil {
		ev.PaymentRef = *res.PaymentRef
	}
	if p.catalog != nil {
		if room, err := p.catalog.GetRoom(ctx, res.RoomID); err == nil {
			ev.RoomName = room.Name
		}
		if plan, err := p.catalog.GetPlan(ctx, res.PlanID); err == nil {
			ev.PlanName = plan.Name
		}
	}

	body, err := json.Marshal(ev)
	if err != nil {
		log.Printf("confirmed-publisher: marshal event failed: %v", err)
		return
	}

	if err := p.publish(ctx, body); err != nil {
		log.Printf("confirmed-publisher: publish reservation_id=%d failed: %v", res.ID, err)
	}
}

func (p *ConfirmedPublisher) publish(ctx context.Context, body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ensureChannel(); err != nil {
		return err
	}

	err := p.ch.PublishWithContext(ctx, "", confirmedQueueName, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		// Drop the stale channel and retry once with a fresh connection.
		p.reset()
		if err2 := p.ensureChannel(); err2 != nil {
			return err2
		}
		return p.ch.PublishWithContext(ctx, "", confirmedQueueName, false, false, amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		})
	}
	return nil
}

func (p *ConfirmedPublisher) ensureChannel() error {
	if p.ch != nil && p.conn != nil && !p.conn.IsClosed() {
		return nil
	}
	p.reset()

	conn, err := amqp.Dial(p.url)
	if err != nil {
		return err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return err
	}
	if _, err := ch.QueueDeclare(confirmedQueueName, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return err
	}
	p.conn = conn
	p.ch = ch
	return nil
}

func (p *ConfirmedPublisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

// Close releases the broker connection.
func (p *ConfirmedPublisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reset()
}
