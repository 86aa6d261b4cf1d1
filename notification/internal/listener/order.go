// Package listener notifies the shop operator about new orders.
package listener

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Alturino/perfumery/internal/constants"
	"github.com/Alturino/perfumery/internal/log"
	inOtel "github.com/Alturino/perfumery/internal/otel"
	"github.com/Alturino/perfumery/notification/internal/otel"
	"github.com/Alturino/perfumery/order/pkg/response"
)

type OrderListener struct {
	cache *redis.Client
}

func NewOrderListener(cache *redis.Client) *OrderListener {
	return &OrderListener{cache: cache}
}

// Listen consumes order created events until c is done.
func (l *OrderListener) Listen(c context.Context) error {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderListener Listen").
		Str(log.KeyChannel, constants.CHANNEL_ORDER_CREATED).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "subscribing").Logger()
	logger.Info().Msg("subscribing")
	subscriber := l.cache.Subscribe(c, constants.CHANNEL_ORDER_CREATED)
	defer subscriber.Close()
	if _, err := subscriber.Receive(c); err != nil {
		err = fmt.Errorf("failed subscribing to channel=%s with error=%w", constants.CHANNEL_ORDER_CREATED, err)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("subscribed")

	logger = logger.With().Str(log.KeyProcess, "listening").Logger()
	messages := subscriber.Channel()
	for {
		select {
		case <-c.Done():
			logger.Info().Msg("stopped listening")
			return nil
		case msg, ok := <-messages:
			if !ok {
				logger.Info().Msg("subscription closed")
				return nil
			}
			_ = l.Handle(logger.WithContext(c), msg.Payload)
		}
	}
}

// Handle logs the confirmation of one order created event.
func (l *OrderListener) Handle(c context.Context, payload string) error {
	c, span := otel.Tracer.Start(c, "OrderListener Handle")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderListener Handle").
		Str(log.KeyProcess, "decoding order created").
		Logger()

	event := response.OrderCreated{}
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		err = fmt.Errorf("failed decoding order created with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}

	logger.Info().
		Str(log.KeyRequestID, event.RequestID).
		Str(log.KeyOrderID, event.Order.ID.String()).
		Str("customerName", event.Order.CustomerName).
		Str("deliveryMethod", string(event.Order.DeliveryMethod)).
		Str("totalAmount", event.Order.TotalAmount.StringFixed(2)).
		Str("currency", event.Order.Currency).
		Int(log.KeyOrderItemsCount, len(event.Order.OrderItems)).
		Msg("new order received")
	return nil
}
