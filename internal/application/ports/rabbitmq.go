package ports

import (
	"context"

	"github.com/rabbitmq/amqp091-go"

	"classifieds-api/internal/infrastructure/mq"
)

type EventEmitter interface {
	Emit(e mq.Event)
}

type RabbitMQ interface {
	EventEmitter
	Connect(ctx context.Context, dsn string) error
	Init() error
	PublisherWorker(ctx context.Context)
	GetConn() *amqp091.Connection
}
