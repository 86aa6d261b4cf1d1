package checkout

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/perfumery/cart/pkg/store"
	inErrors "github.com/Alturino/perfumery/internal/errors"
	"github.com/Alturino/perfumery/internal/metrics"
	"github.com/Alturino/perfumery/order/pkg/request"
	"github.com/Alturino/perfumery/order/pkg/response"
	productResponse "github.com/Alturino/perfumery/product/pkg/response"
)

type fakeWriter struct {
	mu sync.Mutex

	orderID         uuid.UUID
	createOrderErr  error
	lineItemsErr    error
	deleteErr       error
	createOrderGate chan struct{}
	createOrderHit  chan struct{}

	headers      []request.CreateOrder
	lineItems    [][]request.OrderItem
	deleted      []uuid.UUID
	contextErrAt []error
}

func newFakeWriter() *fakeWriter {
	return &fakeWriter{orderID: uuid.New()}
}

func (f *fakeWriter) CreateOrder(c context.Context, header request.CreateOrder) (response.Order, error) {
	f.mu.Lock()
	f.headers = append(f.headers, header)
	gate, hit := f.createOrderGate, f.createOrderHit
	f.mu.Unlock()

	if hit != nil {
		hit <- struct{}{}
	}
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.contextErrAt = append(f.contextErrAt, c.Err())
	if f.createOrderErr != nil {
		return response.Order{}, f.createOrderErr
	}
	return response.Order{
		ID:              f.orderID,
		CustomerName:    header.CustomerName,
		CustomerPhone:   header.CustomerPhone,
		CustomerEmail:   header.CustomerEmail,
		DeliveryAddress: header.DeliveryAddress,
		DeliveryMethod:  header.DeliveryMethod,
		Status:          header.Status,
		TotalAmount:     header.TotalAmount,
		Currency:        header.Currency,
	}, nil
}

func (f *fakeWriter) CreateOrderLineItems(c context.Context, items []request.OrderItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lineItems = append(f.lineItems, items)
	return f.lineItemsErr
}

func (f *fakeWriter) DeleteOrder(c context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return f.deleteErr
}

func (f *fakeWriter) headerCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.headers)
}

func testContext() context.Context {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339Nano}).
		WithContext(context.Background())
}

func draft() request.OrderDraft {
	return request.OrderDraft{
		CustomerName:    "Olena Shevchenko",
		CustomerPhone:   "+380501112233",
		DeliveryAddress: "Lviv, Nova Poshta branch 7",
		DeliveryMethod:  request.DeliveryMethodNovaPoshta,
	}
}

func cartWith(t *testing.T, products ...productResponse.Product) *store.Cart {
	t.Helper()
	cart := store.New()
	for _, p := range products {
		require.NoError(t, cart.Add(p))
	}
	return cart
}

func perfume(id string, name string, price int64) productResponse.Product {
	return productResponse.Product{
		ID:       id,
		Name:     name,
		Brand:    "Byredo",
		Category: productResponse.CategoryUnisex,
		Price:    decimal.NewFromInt(price),
		Currency: "UAH",
		Volume:   100,
	}
}

func TestSubmitEndToEnd(t *testing.T) {
	writer := newFakeWriter()
	cart := cartWith(t, perfume("x", "Gypsy Water", 1200))

	var cleared []response.Order
	workflow := New(writer, WithOnSuccess(func(o response.Order) {
		cleared = append(cleared, o)
		cart.Clear()
	}), WithDismissDelay(time.Hour))
	defer workflow.Close()

	order, err := workflow.Submit(testContext(), draft(), cart)
	require.NoError(t, err)

	require.Len(t, writer.headers, 1)
	header := writer.headers[0]
	assert.True(t, decimal.NewFromInt(1200).Equal(header.TotalAmount))
	assert.Equal(t, request.OrderStatusPending, header.Status)
	assert.Equal(t, "UAH", header.Currency)
	assert.Nil(t, header.CustomerEmail, "empty email should be sent as null")

	require.Len(t, writer.lineItems, 1)
	require.Len(t, writer.lineItems[0], 1)
	item := writer.lineItems[0][0]
	assert.Equal(t, writer.orderID, item.OrderID)
	assert.Equal(t, "x", item.ProductID)
	assert.Equal(t, "Gypsy Water", item.ProductName)
	assert.EqualValues(t, 1, item.Quantity)
	assert.True(t, decimal.NewFromInt(1200).Equal(item.PriceAtOrder))

	assert.Equal(t, writer.orderID, order.ID)
	assert.Len(t, order.OrderItems, 1)
	assert.Len(t, cleared, 1)
	assert.True(t, cart.IsEmpty())
	assert.Equal(t, StateSucceeded, workflow.State())

	stored, ok := workflow.Order()
	assert.True(t, ok)
	assert.Equal(t, order.ID, stored.ID)
}

func TestSubmitRejects(t *testing.T) {
	tests := []struct {
		name          string
		prepare       func(t *testing.T, w *Workflow, writer *fakeWriter)
		cart          func(t *testing.T) *store.Cart
		expectedErr   error
		expectedState State
	}{
		{
			name:          "given empty cart should reject without writing",
			prepare:       func(t *testing.T, w *Workflow, writer *fakeWriter) {},
			cart:          func(t *testing.T) *store.Cart { return store.New() },
			expectedErr:   inErrors.ErrEmptyCart,
			expectedState: StateIdle,
		},
		{
			name:          "given closed workflow should reject",
			prepare:       func(t *testing.T, w *Workflow, writer *fakeWriter) { w.Close() },
			cart:          func(t *testing.T) *store.Cart { return cartWith(t, perfume("a", "Mojave Ghost", 100)) },
			expectedErr:   inErrors.ErrCheckoutClosed,
			expectedState: StateIdle,
		},
		{
			name: "given succeeded workflow should reject a second order",
			prepare: func(t *testing.T, w *Workflow, writer *fakeWriter) {
				_, err := w.Submit(testContext(), draft(), cartWith(t, perfume("a", "Mojave Ghost", 100)))
				require.NoError(t, err)
				writer.headers = nil
			},
			cart:          func(t *testing.T) *store.Cart { return cartWith(t, perfume("a", "Mojave Ghost", 100)) },
			expectedErr:   inErrors.ErrCheckoutClosed,
			expectedState: StateSucceeded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writer := newFakeWriter()
			workflow := New(writer, WithDismissDelay(time.Hour))
			defer workflow.Close()
			tt.prepare(t, workflow, writer)

			_, err := workflow.Submit(testContext(), draft(), tt.cart(t))
			assert.ErrorIs(t, err, tt.expectedErr)
			assert.Equal(t, tt.expectedState, workflow.State())
			assert.Equal(t, 0, writer.headerCount())
		})
	}
}

func TestSubmitWhileSubmittingCreatesOneOrder(t *testing.T) {
	writer := newFakeWriter()
	writer.createOrderGate = make(chan struct{})
	writer.createOrderHit = make(chan struct{}, 1)
	cart := cartWith(t, perfume("a", "Santal 33", 9000))
	workflow := New(writer, WithDismissDelay(time.Hour))
	defer workflow.Close()

	done := make(chan error, 1)
	go func() {
		_, err := workflow.Submit(testContext(), draft(), cart)
		done <- err
	}()
	<-writer.createOrderHit
	assert.Equal(t, StateSubmitting, workflow.State())

	_, err := workflow.Submit(testContext(), draft(), cart)
	assert.ErrorIs(t, err, inErrors.ErrSubmissionInProgress)

	close(writer.createOrderGate)
	assert.NoError(t, <-done)
	assert.Equal(t, 1, writer.headerCount())
	assert.Equal(t, StateSucceeded, workflow.State())
}

func TestSubmitHeaderFailure(t *testing.T) {
	writer := newFakeWriter()
	writer.createOrderErr = errors.Join(inErrors.ErrRemoteWrite, errors.New("connection reset"))
	cart := cartWith(t, perfume("a", "Baccarat Rouge 540", 12000))
	successCalls := 0
	workflow := New(writer, WithOnSuccess(func(response.Order) { successCalls++ }), WithDismissDelay(time.Hour))
	defer workflow.Close()

	_, err := workflow.Submit(testContext(), draft(), cart)
	assert.ErrorIs(t, err, inErrors.ErrOrderFailed)
	assert.NotErrorIs(t, err, inErrors.ErrRemoteWrite, "internal detail should not leak")
	assert.Equal(t, StateFailed, workflow.State())
	assert.Empty(t, writer.lineItems)
	assert.Equal(t, 0, successCalls)
	assert.Equal(t, 1, cart.Len())

	writer.createOrderErr = nil
	_, err = workflow.Submit(testContext(), draft(), cart)
	assert.NoError(t, err, "failed workflow should accept a retry")
	assert.Equal(t, StateSucceeded, workflow.State())
	assert.Equal(t, 1, successCalls)
}

func TestSubmitLineItemsFailureCompensates(t *testing.T) {
	tests := []struct {
		name              string
		deleteErr         error
		expectedCompLabel string
	}{
		{name: "given line items failure should delete the orphaned order", expectedCompLabel: metrics.ResultDeleted},
		{name: "given failed compensation should still report generic failure", deleteErr: inErrors.ErrRemoteWrite, expectedCompLabel: metrics.ResultError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writer := newFakeWriter()
			writer.lineItemsErr = inErrors.ErrRemoteWrite
			writer.deleteErr = tt.deleteErr
			cart := cartWith(t, perfume("a", "Lost Cherry", 15000), perfume("b", "Aventus", 14000))
			workflow := New(
				writer,
				WithDismissDelay(time.Hour),
				WithMetrics(metrics.NewStorefront(prometheus.NewRegistry())),
			)
			defer workflow.Close()

			_, err := workflow.Submit(testContext(), draft(), cart)
			assert.ErrorIs(t, err, inErrors.ErrOrderFailed)
			assert.Equal(t, StateFailed, workflow.State())
			assert.Equal(t, []uuid.UUID{writer.orderID}, writer.deleted)
			assert.Equal(t, 2, cart.Len(), "cart should be kept for a retry")
			_, ok := workflow.Order()
			assert.False(t, ok)
		})
	}
}

func TestRemoteCallsIgnoreCallerCancellation(t *testing.T) {
	writer := newFakeWriter()
	writer.createOrderGate = make(chan struct{})
	writer.createOrderHit = make(chan struct{}, 1)
	cart := cartWith(t, perfume("a", "Tobacco Vanille", 8000))
	workflow := New(writer, WithDismissDelay(time.Hour))
	defer workflow.Close()

	c, cancel := context.WithCancel(testContext())
	done := make(chan error, 1)
	go func() {
		_, err := workflow.Submit(c, draft(), cart)
		done <- err
	}()
	<-writer.createOrderHit
	cancel()
	close(writer.createOrderGate)

	assert.NoError(t, <-done)
	require.Len(t, writer.contextErrAt, 1)
	assert.NoError(t, writer.contextErrAt[0])
	assert.Len(t, writer.lineItems, 1)
}

func TestCloseDuringSubmissionDiscardsResult(t *testing.T) {
	writer := newFakeWriter()
	writer.createOrderGate = make(chan struct{})
	writer.createOrderHit = make(chan struct{}, 1)
	cart := cartWith(t, perfume("a", "Bal d'Afrique", 7000))
	successCalls := 0
	workflow := New(writer, WithOnSuccess(func(response.Order) { successCalls++ }), WithDismissDelay(time.Hour))

	done := make(chan error, 1)
	go func() {
		_, err := workflow.Submit(testContext(), draft(), cart)
		done <- err
	}()
	<-writer.createOrderHit
	workflow.Close()
	close(writer.createOrderGate)

	assert.ErrorIs(t, <-done, inErrors.ErrCheckoutClosed)
	assert.Equal(t, 0, successCalls)
	assert.Equal(t, 1, cart.Len())
	assert.True(t, workflow.Closed())
}

func TestSucceededWorkflowIsDismissed(t *testing.T) {
	writer := newFakeWriter()
	dismissed := make(chan struct{})
	workflow := New(
		writer,
		WithDismissDelay(10*time.Millisecond),
		WithOnDismiss(func() { close(dismissed) }),
	)

	_, err := workflow.Submit(testContext(), draft(), cartWith(t, perfume("a", "Eros", 3000)))
	require.NoError(t, err)

	select {
	case <-dismissed:
	case <-time.After(time.Second):
		t.Fatal("workflow was not dismissed")
	}
	assert.True(t, workflow.Closed())
}

func TestCloseStopsDismissal(t *testing.T) {
	writer := newFakeWriter()
	dismissCalls := 0
	workflow := New(
		writer,
		WithDismissDelay(20*time.Millisecond),
		WithOnDismiss(func() { dismissCalls++ }),
	)

	_, err := workflow.Submit(testContext(), draft(), cartWith(t, perfume("a", "Eros", 3000)))
	require.NoError(t, err)
	workflow.Close()

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, 0, dismissCalls)
}

func TestNewOrderItemsUsesCartSnapshot(t *testing.T) {
	cart := cartWith(t, perfume("a", "Oud Satin Mood", 100), perfume("b", "Terre d'Hermes", 50))
	require.NoError(t, cart.SetQuantity("a", 2))
	orderId := uuid.New()

	items := NewOrderItems(orderId, cart.Items())

	assert.Equal(t, []request.OrderItem{
		{OrderID: orderId, ProductID: "a", ProductName: "Oud Satin Mood", Quantity: 2, PriceAtOrder: decimal.NewFromInt(100)},
		{OrderID: orderId, ProductID: "b", ProductName: "Terre d'Hermes", Quantity: 1, PriceAtOrder: decimal.NewFromInt(50)},
	}, items)
}

func TestLargestQuantityKeepsLineItemsMatchingTotal(t *testing.T) {
	cart := cartWith(t, perfume("x", "Gypsy Water", 1))
	over := store.MaxQuantity
	over++
	require.Error(t, cart.SetQuantity("x", over))
	require.NoError(t, cart.SetQuantity("x", store.MaxQuantity))
	writer := newFakeWriter()
	workflow := New(writer)

	_, err := workflow.Submit(testContext(), draft(), cart)
	require.NoError(t, err)

	require.Len(t, writer.headers, 1)
	require.Len(t, writer.lineItems, 1)
	lineTotal := decimal.Zero
	for _, item := range writer.lineItems[0] {
		assert.EqualValues(t, store.MaxQuantity, item.Quantity)
		lineTotal = lineTotal.Add(item.PriceAtOrder.Mul(decimal.NewFromInt32(item.Quantity)))
	}
	assert.True(t, writer.headers[0].TotalAmount.Equal(lineTotal))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "submitting", StateSubmitting.String())
	assert.Equal(t, "succeeded", StateSucceeded.String())
	assert.Equal(t, "failed", StateFailed.String())
	assert.Equal(t, "State(9)", State(9).String())
}
