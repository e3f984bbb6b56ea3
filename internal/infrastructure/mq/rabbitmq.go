package mq

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"classifieds-api/config"
)

// "Rely on metrics, not guesses."
const bufferSize = 128

const (
	EntityUser     = "usuario"
	EntityCategory = "categoria"
	EntityListing  = "anuncio"

	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"

	// BindAll matches every routing key on a topic exchange.
	BindAll = "#"
)

var ErrNotConnected = errors.New("rabbitmq is not connected")

type (
	InputCh  = chan Event
	RabbitMQ struct {
		cfg   config.MQ
		log   *zap.Logger
		conn  *amqp091.Connection
		pubCh *amqp091.Channel
		in    InputCh
	}
	Event struct {
		Id       uuid.UUID `json:"event_id"`
		TS       time.Time `json:"time_stamp"`
		Entity   string    `json:"entity"`
		Action   string    `json:"event_action"`
		EntityID string    `json:"entity_id"`
		ActorID  string    `json:"actor_id,omitempty"`
		Payload  any       `json:"payload"`
	}
)

func NewEvent(entity, action, entityID, actorID string, payload any) Event {
	return Event{
		Id:       uuid.New(),
		TS:       time.Now().UTC(),
		Entity:   entity,
		Action:   action,
		EntityID: entityID,
		ActorID:  actorID,
		Payload:  payload,
	}
}

func (e Event) RoutingKey() string { return e.Entity + "." + e.Action }

func New(cfg config.MQ, logger *zap.Logger) *RabbitMQ {
	return &RabbitMQ{
		cfg: cfg,
		log: logger,
		in:  make(chan Event, bufferSize),
	}
}

func (r *RabbitMQ) Connect(ctx context.Context, dsn string) error {
	dialer := &net.Dialer{Timeout: 10 * time.Second}

	amqpCfg := amqp091.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Properties: amqp091.Table{
			"connection_name": "classifieds-api",
		},
		Dial: func(network, addr string) (net.Conn, error) {
			return dialer.DialContext(ctx, network, addr)
		},
	}

	var err error
	r.conn, err = amqp091.DialConfig(dsn, amqpCfg)
	if err != nil {
		return err
	}
	r.pubCh, err = r.conn.Channel()
	if err != nil {
		_ = r.conn.Close()
		r.conn = nil
		return err
	}

	r.log.Info("rabbitmq connected successfully")

	return nil
}

func (r *RabbitMQ) Init() error {
	if r.pubCh == nil {
		return ErrNotConnected
	}
	if err := r.pubCh.ExchangeDeclare(
		r.cfg.Exchange,
		r.cfg.ExchangeType,
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		_ = r.pubCh.Close()
		return err
	}
	q, err := r.pubCh.QueueDeclare(
		r.cfg.QueueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return err
	}

	return r.pubCh.QueueBind(q.Name, BindAll, r.cfg.Exchange, false, nil)
}

// Emit queues e without blocking; a full buffer drops the event.
func (r *RabbitMQ) Emit(e Event) {
	select {
	case r.in <- e:
	default:
		// alert
		r.log.Warn("mq buffer full, event dropped",
			zap.String("routing_key", e.RoutingKey()),
			zap.String("entity_id", e.EntityID),
		)
	}
}

func (r *RabbitMQ) PublisherWorker(ctx context.Context) {
	r.log.Info("starting publisher worker", zap.Bool("enabled", r.cfg.Enabled))

	defer func() {
		r.log.Info("publisher worker gracefully stopped")
	}()

	for {
		select {
		case e := <-r.in:
			if !r.cfg.Enabled {
				r.log.Debug("mq disabled, event not published",
					zap.String("routing_key", e.RoutingKey()),
					zap.String("entity_id", e.EntityID),
				)
				continue
			}
			if err := r.publish(ctx, e); err != nil {
				// alert
				r.log.Error("mq publish error", zap.Error(err), zap.String("routing_key", e.RoutingKey()))
			}
		case <-ctx.Done():
			if r.pubCh != nil {
				_ = r.pubCh.Close()
			}
			return
		}
	}
}

func (r *RabbitMQ) publish(ctx context.Context, e Event) error {
	if r.pubCh == nil {
		return ErrNotConnected
	}

	b, err := json.Marshal(e)
	if err != nil {
		return err
	}

	pub := amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		MessageId:    e.Id.String(),
		Timestamp:    e.TS,
		Type:         e.Action,
		Body:         b,
	}

	return r.pubCh.PublishWithContext(
		ctx,
		r.cfg.Exchange,
		e.RoutingKey(),
		false,
		false,
		pub,
	)
}

func (r *RabbitMQ) GetConn() *amqp091.Connection { return r.conn }
