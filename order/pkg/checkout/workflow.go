// Package checkout turns a cart and a customer draft into a stored order.
//
// A Workflow writes the order header, then its line items, and moves through
// idle, submitting, succeeded or failed. A failed workflow can be submitted
// again; a succeeded one is dismissed after a delay and never reused.
package checkout

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Alturino/perfumery/cart/pkg/store"
	"github.com/Alturino/perfumery/internal/constants"
	inErrors "github.com/Alturino/perfumery/internal/errors"
	"github.com/Alturino/perfumery/internal/log"
	"github.com/Alturino/perfumery/internal/metrics"
	"github.com/Alturino/perfumery/internal/otel"
	"github.com/Alturino/perfumery/internal/remote"
	orderOtel "github.com/Alturino/perfumery/order/internal/otel"
	"github.com/Alturino/perfumery/order/pkg/request"
	"github.com/Alturino/perfumery/order/pkg/response"
)

const DefaultDismissDelay = 2 * time.Second

// Cart is the read side of a cart needed to build an order.
type Cart interface {
	Items() []store.LineItem
	Total() decimal.Decimal
}

type Option func(*Workflow)

func WithDismissDelay(delay time.Duration) Option {
	return func(w *Workflow) {
		if delay >= 0 {
			w.dismissDelay = delay
		}
	}
}

// WithOnSuccess sets the callback run once an order and its line items are stored.
func WithOnSuccess(fn func(response.Order)) Option {
	return func(w *Workflow) { w.onSuccess = fn }
}

// WithOnDismiss sets the callback run when a succeeded workflow is dismissed.
func WithOnDismiss(fn func()) Option {
	return func(w *Workflow) { w.onDismiss = fn }
}

func WithMetrics(m *metrics.Storefront) Option {
	return func(w *Workflow) { w.metrics = m }
}

func WithCurrency(currency string) Option {
	return func(w *Workflow) {
		if currency != "" {
			w.currency = currency
		}
	}
}

type Workflow struct {
	writer       remote.OrderWriter
	metrics      *metrics.Storefront
	onSuccess    func(response.Order)
	onDismiss    func()
	dismissTimer *time.Timer
	order        *response.Order
	currency     string
	dismissDelay time.Duration

	mu     sync.Mutex
	state  State
	closed bool
}

func New(writer remote.OrderWriter, opts ...Option) *Workflow {
	w := &Workflow{
		writer:       writer,
		currency:     constants.CURRENCY_UAH,
		dismissDelay: DefaultDismissDelay,
		state:        StateIdle,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Order returns the stored order once the workflow succeeded.
func (w *Workflow) Order() (response.Order, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.order == nil {
		return response.Order{}, false
	}
	return *w.order, true
}

// Closed reports whether the workflow was closed or dismissed.
func (w *Workflow) Closed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

// Close dismisses the workflow. A submission still in flight keeps running but
// its result is discarded.
func (w *Workflow) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	if w.dismissTimer != nil {
		w.dismissTimer.Stop()
		w.dismissTimer = nil
	}
}

func (w *Workflow) dismiss() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	w.dismissTimer = nil
	onDismiss := w.onDismiss
	w.mu.Unlock()

	if onDismiss != nil {
		onDismiss()
	}
}

// Submit stores the order described by draft and cart. Only one submission runs
// at a time; the remote writes are not cancelled when c is.
func (w *Workflow) Submit(
	c context.Context,
	draft request.OrderDraft,
	cart Cart,
) (response.Order, error) {
	c, span := orderOtel.Tracer.Start(c, "checkout Workflow Submit")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "checkout Workflow Submit").
		Str(log.KeyProcess, "starting submission").
		Logger()

	logger.Info().Msg("starting submission")
	items := cart.Items()
	total := cart.Total()

	w.mu.Lock()
	switch {
	case w.closed || w.state == StateSucceeded:
		w.mu.Unlock()
		w.metrics.IncCheckout(metrics.OutcomeRejected)
		err := fmt.Errorf("failed starting submission with error=%w", inErrors.ErrCheckoutClosed)
		logger.Warn().Err(err).Msg(err.Error())
		return response.Order{}, err
	case w.state == StateSubmitting:
		w.mu.Unlock()
		w.metrics.IncCheckout(metrics.OutcomeRejected)
		err := fmt.Errorf("failed starting submission with error=%w", inErrors.ErrSubmissionInProgress)
		logger.Warn().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	if len(items) == 0 {
		w.mu.Unlock()
		w.metrics.IncCheckout(metrics.OutcomeRejected)
		err := fmt.Errorf("failed starting submission with error=%w", inErrors.ErrEmptyCart)
		logger.Warn().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	w.state = StateSubmitting
	w.mu.Unlock()
	logger = logger.With().
		Int(log.KeyCartItems, len(items)).
		Str(log.KeyCartTotal, total.String()).
		Logger()
	logger.Info().Msg("started submission")

	start := time.Now()
	order, err := w.submit(logger.WithContext(context.WithoutCancel(c)), draft, items, total)
	w.metrics.ObserveCheckout(time.Since(start))

	w.mu.Lock()
	if err != nil {
		w.state = StateFailed
	} else {
		w.state = StateSucceeded
		w.order = &order
	}
	if w.closed {
		state := w.state
		w.mu.Unlock()
		logger.Warn().
			Str(log.KeyCheckoutState, state.String()).
			Msg("workflow closed during submission, discarding result")
		return response.Order{}, fmt.Errorf("failed finishing submission with error=%w", inErrors.ErrCheckoutClosed)
	}
	if err != nil {
		w.mu.Unlock()
		w.metrics.IncCheckout(metrics.OutcomeFailed)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, inErrors.ErrOrderFailed
	}
	w.dismissTimer = time.AfterFunc(w.dismissDelay, w.dismiss)
	onSuccess := w.onSuccess
	w.mu.Unlock()

	w.metrics.IncCheckout(metrics.OutcomeSucceeded)
	logger.Info().Str(log.KeyOrderID, order.ID.String()).Msg("finished submission")
	if onSuccess != nil {
		onSuccess(order)
	}
	return order, nil
}

func (w *Workflow) submit(
	c context.Context,
	draft request.OrderDraft,
	items []store.LineItem,
	total decimal.Decimal,
) (response.Order, error) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "checkout Workflow submit").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "creating order").Logger()
	logger.Trace().Msg("creating order")
	header := request.NewCreateOrder(draft.Normalize(), total, w.currency)
	order, err := w.writer.CreateOrder(c, header)
	if err != nil {
		return response.Order{}, fmt.Errorf("failed creating order with error=%w", err)
	}
	logger = logger.With().Str(log.KeyOrderID, order.ID.String()).Logger()
	logger.Trace().Msg("created order")

	logger = logger.With().Str(log.KeyProcess, "creating orderItems").Logger()
	logger.Trace().Msg("creating orderItems")
	lineItems := NewOrderItems(order.ID, items)
	if err = w.writer.CreateOrderLineItems(c, lineItems); err != nil {
		err = fmt.Errorf("failed creating orderItems with error=%w", err)
		w.compensate(logger.WithContext(c), order.ID)
		return response.Order{}, err
	}
	logger.Trace().Msg("created orderItems")

	order.OrderItems = make([]response.OrderItem, 0, len(lineItems))
	for _, item := range lineItems {
		order.OrderItems = append(order.OrderItems, response.OrderItem{
			OrderID:      item.OrderID,
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			PriceAtOrder: item.PriceAtOrder,
			Quantity:     item.Quantity,
		})
	}
	return order, nil
}

// compensate removes an order header whose line items could not be written.
func (w *Workflow) compensate(c context.Context, orderId uuid.UUID) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "checkout Workflow compensate").
		Str(log.KeyProcess, "deleting orphaned order").
		Logger()

	logger.Info().Msg("deleting orphaned order")
	if err := w.writer.DeleteOrder(c, orderId); err != nil {
		w.metrics.IncCompensation(metrics.ResultError)
		err = fmt.Errorf("failed deleting orphaned order with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	w.metrics.IncCompensation(metrics.ResultDeleted)
	logger.Info().Msg("deleted orphaned order")
}

// NewOrderItems builds one order line per cart line with the price captured in the cart.
func NewOrderItems(orderId uuid.UUID, items []store.LineItem) []request.OrderItem {
	orderItems := make([]request.OrderItem, 0, len(items))
	for _, item := range items {
		orderItems = append(orderItems, request.OrderItem{
			OrderID:      orderId,
			ProductID:    item.Product.ID,
			ProductName:  item.Product.Name,
			Quantity:     int32(item.Quantity),
			PriceAtOrder: item.Product.Price,
		})
	}
	return orderItems
}
