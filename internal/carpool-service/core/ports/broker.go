package ports

import (
	"context"

	"decarpool/internal/carpool-service/core/domain/dto"

	amqp "github.com/rabbitmq/amqp091-go"
)

type IEventsBroker interface {
	PublishRideEvent(ctx context.Context, ev dto.RideEvent) error
	ConsumeRideEvents(ctx context.Context) (<-chan amqp.Delivery, error)
	IsAlive() bool
	Close() error
}
