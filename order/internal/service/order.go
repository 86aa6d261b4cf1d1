package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Alturino/perfumery/internal/constants"
	"github.com/Alturino/perfumery/internal/log"
	inOtel "github.com/Alturino/perfumery/internal/otel"
	"github.com/Alturino/perfumery/internal/session"
	"github.com/Alturino/perfumery/order/internal/otel"
	"github.com/Alturino/perfumery/order/pkg/request"
	"github.com/Alturino/perfumery/order/pkg/response"
)

type OrderService struct {
	sessions *session.Registry
	cache    *redis.Client
}

// NewOrderService publishes order events on cache when it is not nil.
func NewOrderService(sessions *session.Registry, cache *redis.Client) *OrderService {
	return &OrderService{sessions: sessions, cache: cache}
}

// Checkout submits the cart of session cartId. Only ErrOrderFailed reaches the
// caller when the store rejects the order.
func (s *OrderService) Checkout(
	c context.Context,
	cartId uuid.UUID,
	draft request.OrderDraft,
) (response.Order, error) {
	c, span := otel.Tracer.Start(c, "OrderService Checkout")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService Checkout").
		Str(log.KeyCartID, cartId.String()).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding cart").Logger()
	logger.Trace().Msg("finding cart")
	sess, err := s.sessions.Get(cartId)
	if err != nil {
		err = fmt.Errorf("failed finding cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger.Trace().Msg("found cart")

	logger = logger.With().Str(log.KeyProcess, "submitting order").Logger()
	logger.Info().Msg("submitting order")
	order, err := sess.Submit(logger.WithContext(c), draft)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger = logger.With().Str(log.KeyOrderID, order.ID.String()).Logger()
	logger.Info().Msg("submitted order")

	s.publishOrderCreated(logger.WithContext(c), order)
	return order, nil
}

func (s *OrderService) FindCheckout(c context.Context, cartId uuid.UUID) (response.Checkout, error) {
	c, span := otel.Tracer.Start(c, "OrderService FindCheckout")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService FindCheckout").
		Str(log.KeyCartID, cartId.String()).
		Logger()

	sess, err := s.sessions.Get(cartId)
	if err != nil {
		err = fmt.Errorf("failed finding cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Checkout{}, err
	}

	workflow := sess.Checkout()
	checkout := response.Checkout{State: workflow.State().String()}
	if order, ok := workflow.Order(); ok {
		checkout.Order = &order
	}
	logger.Trace().Str(log.KeyCheckoutState, checkout.State).Msg("found checkout")
	return checkout, nil
}

// publishOrderCreated only logs failures; the order is already stored.
func (s *OrderService) publishOrderCreated(c context.Context, order response.Order) {
	if s.cache == nil {
		return
	}
	c, span := otel.Tracer.Start(c, "OrderService publishOrderCreated")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService publishOrderCreated").
		Str(log.KeyChannel, constants.CHANNEL_ORDER_CREATED).
		Str(log.KeyProcess, "publishing order created").
		Logger()

	logger.Trace().Msg("marshaling order created")
	event, err := json.Marshal(response.OrderCreated{
		Order:     order,
		RequestID: log.RequestIDFromContext(c),
		CreatedAt: time.Now(),
	})
	if err != nil {
		err = fmt.Errorf("failed marshaling order created with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}

	logger.Trace().Msg("publishing order created")
	if err = s.cache.Publish(context.WithoutCancel(c), constants.CHANNEL_ORDER_CREATED, event).Err(); err != nil {
		err = fmt.Errorf("failed publishing order created with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	logger.Info().Msg("published order created")
}
