package notification

import (
	"context"
	"encoding/json"
	"sync"

	"decarpool/internal/carpool-service/core/domain/dto"
	"decarpool/internal/carpool-service/core/ports"
	"decarpool/internal/mylogger"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Notification forwards broker-published ride events to the websocket
// feed.
type Notification struct {
	ctx        context.Context
	wg         *sync.WaitGroup
	log        mylogger.Logger
	dispatcher ports.IRideFeed
	consumer   ports.IEventsBroker
}

func New(
	ctx context.Context,
	wg *sync.WaitGroup,
	log mylogger.Logger,
	dispatcher ports.IRideFeed,
	consumer ports.IEventsBroker,
) *Notification {
	return &Notification{
		ctx:        ctx,
		wg:         wg,
		log:        log,
		dispatcher: dispatcher,
		consumer:   consumer,
	}
}

func (n *Notification) Run() error {
	ch, err := n.consumer.ConsumeRideEvents(n.ctx)
	if err != nil {
		return err
	}

	n.wg.Add(1)
	go n.work(n.ctx, ch)

	return nil
}

func (n *Notification) work(ctx context.Context, ch <-chan amqp.Delivery) {
	log := n.log.Action("work")
	defer func() {
		log.Info("feed worker is done")
		n.wg.Done()
	}()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}

			if err := n.forward(msg); err != nil {
				continue
			}
		case <-ctx.Done():
			return
		}
	}
}

func (n *Notification) forward(msg amqp.Delivery) error {
	log := n.log.Action("forward")

	ev := dto.RideEvent{}
	if err := json.Unmarshal(msg.Body, &ev); err != nil {
		log.Error("cannot unmarshal ride event", err)
		msg.Nack(false, false)
		return err
	}

	n.dispatcher.Broadcast(ev)

	return msg.Ack(false)
}
