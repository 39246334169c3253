// Package messaging publica eventos de órdenes en RabbitMQ.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"

	"github.com/jhoicas/controlpos-api/internal/application/ports"
	"github.com/jhoicas/controlpos-api/pkg/logger"
)

var (
	_ ports.EventPublisher = (*Publisher)(nil)
	_ ports.EventPublisher = NopPublisher{}
)

// channel subconjunto de *amqp.Channel usado para publicar.
type channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher publica en un exchange topic; la routing key es el tipo del evento (order.created, ...).
type Publisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       channel
	exchange string
	log      *logger.Logger
}

// Dial abre la conexión y declara el exchange durable.
func Dial(url, exchange string, log *logger.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq: conectar: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("rabbitmq: abrir canal: %w", err)
	}
	err = ch.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("rabbitmq: declarar exchange: %w", err)
	}
	log.Info().Str("exchange", exchange).Msg("conectado a RabbitMQ")
	return &Publisher{conn: conn, ch: ch, exchange: exchange, log: log}, nil
}

// orderEventMessage cuerpo JSON publicado.
type orderEventMessage struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OrderID    string    `json:"order_id"`
	TenantID   string    `json:"tenant_id"`
	ActorID    string    `json:"actor_id"`
	Total      string    `json:"total"`
	StockMoved bool      `json:"stock_moved"`
	OccurredAt time.Time `json:"occurred_at"`
}

func buildPublishing(evt ports.OrderEvent) (amqp.Publishing, error) {
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = time.Now().UTC()
	}
	msg := orderEventMessage{
		ID:         uuid.New().String(),
		Type:       evt.Type,
		OrderID:    evt.OrderID,
		TenantID:   evt.TenantID,
		ActorID:    evt.ActorID,
		Total:      evt.Total,
		StockMoved: evt.StockMoved,
		OccurredAt: evt.OccurredAt,
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("rabbitmq: serializar evento: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		MessageId:    msg.ID,
		Timestamp:    msg.OccurredAt,
		Headers: amqp.Table{
			"tenant_id":  evt.TenantID,
			"order_id":   evt.OrderID,
			"event_type": evt.Type,
		},
	}, nil
}

// PublishOrderEvent publica una vez; el llamador decide qué hacer con el error (solo se registra).
func (p *Publisher) PublishOrderEvent(ctx context.Context, evt ports.OrderEvent) error {
	msg, err := buildPublishing(evt)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.Publish(p.exchange, evt.Type, false, false, msg); err != nil {
		return fmt.Errorf("rabbitmq: publicar %s: %w", evt.Type, err)
	}
	p.log.Debug().Str("event", evt.Type).Str("order_id", evt.OrderID).Msg("evento publicado")
	return nil
}

// Close cierra canal y conexión.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// NopPublisher descarta los eventos (RABBITMQ_URL vacío).
type NopPublisher struct{}

func (NopPublisher) PublishOrderEvent(ctx context.Context, evt ports.OrderEvent) error { return nil }
