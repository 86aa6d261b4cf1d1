package service

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	testRedis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/Alturino/perfumery/internal/constants"
	inErrors "github.com/Alturino/perfumery/internal/errors"
	"github.com/Alturino/perfumery/internal/session"
	"github.com/Alturino/perfumery/order/pkg/request"
	"github.com/Alturino/perfumery/order/pkg/response"
	productResponse "github.com/Alturino/perfumery/product/pkg/response"
)

type fakeWriter struct {
	mu           sync.Mutex
	orderID      uuid.UUID
	lineItemsErr error
	headers      []request.CreateOrder
	lineItems    [][]request.OrderItem
	deleted      []uuid.UUID
}

func (f *fakeWriter) CreateOrder(c context.Context, header request.CreateOrder) (response.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.headers = append(f.headers, header)
	return response.Order{
		ID:             f.orderID,
		CustomerName:   header.CustomerName,
		DeliveryMethod: header.DeliveryMethod,
		Status:         header.Status,
		TotalAmount:    header.TotalAmount,
		Currency:       header.Currency,
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
	return nil
}

func testContext() context.Context {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339Nano}).
		WithContext(context.Background())
}

func draft() request.OrderDraft {
	return request.OrderDraft{
		CustomerName:    "Taras",
		CustomerPhone:   "+380931234567",
		CustomerEmail:   "taras@example.com",
		DeliveryAddress: "Kharkiv, Sumska 10",
	}
}

func perfume(id string, price int64) productResponse.Product {
	return productResponse.Product{
		ID:       id,
		Name:     "Perfume " + id,
		Category: productResponse.CategoryMen,
		Price:    decimal.NewFromInt(price),
		Currency: "UAH",
	}
}

func TestCheckout(t *testing.T) {
	tests := []struct {
		name          string
		lineItemsErr  error
		cartIsUnknown bool
		emptyCart     bool
		expectedErr   error
		expectedState string
		expectedItems int
	}{
		{
			name:          "given filled cart should create order and clear cart",
			expectedState: "succeeded",
			expectedItems: 0,
		},
		{
			name:          "given failing line items should return generic failure and keep cart",
			lineItemsErr:  inErrors.ErrRemoteWrite,
			expectedErr:   inErrors.ErrOrderFailed,
			expectedState: "failed",
			expectedItems: 1,
		},
		{
			name:          "given empty cart should reject",
			emptyCart:     true,
			expectedErr:   inErrors.ErrEmptyCart,
			expectedState: "idle",
			expectedItems: 0,
		},
		{
			name:          "given unknown cart should return session not found",
			cartIsUnknown: true,
			expectedErr:   inErrors.ErrSessionNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testContext()
			writer := &fakeWriter{orderID: uuid.New(), lineItemsErr: tt.lineItemsErr}
			registry := session.NewRegistry(writer, session.WithDismissDelay(time.Hour))
			svc := NewOrderService(registry, nil)

			sess := registry.Start(c)
			if !tt.emptyCart {
				require.NoError(t, sess.Add(perfume("x", 1200)))
			}
			cartId := sess.ID
			if tt.cartIsUnknown {
				cartId = uuid.New()
			}

			order, err := svc.Checkout(c, cartId, draft().Normalize())
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, writer.orderID, order.ID)
				assert.Equal(t, request.DeliveryMethodNovaPoshta, writer.headers[0].DeliveryMethod)
				require.NotNil(t, writer.headers[0].CustomerEmail)
				assert.Equal(t, "taras@example.com", *writer.headers[0].CustomerEmail)
			}
			if tt.cartIsUnknown {
				return
			}

			checkout, err := svc.FindCheckout(c, sess.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedState, checkout.State)
			assert.Len(t, sess.Items(), tt.expectedItems)
			if tt.expectedState == "succeeded" {
				require.NotNil(t, checkout.Order)
				assert.Equal(t, writer.orderID, checkout.Order.ID)
			}
		})
	}
}

func TestCheckoutPublishesOrderCreated(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping redis container test in short mode")
	}
	c := testContext()

	redisContainer, err := testRedis.Run(
		c,
		"redis:7.4.2-alpine3.21",
		testRedis.WithLogLevel(testRedis.LogLevelVerbose),
	)
	if err != nil {
		t.Fatalf("failed running redis container with error: %s", err)
	}
	defer func() {
		if err := testcontainers.TerminateContainer(redisContainer); err != nil {
			t.Fatalf("failed to terminate container: %s", err)
		}
	}()

	redisConnStr, err := redisContainer.ConnectionString(c)
	if err != nil {
		t.Fatalf("failed getting redis connection string with error: %s", err)
	}
	redisOpt, err := redis.ParseURL(redisConnStr)
	if err != nil {
		t.Fatalf("failed parsing redis connection string with error: %s", err)
	}
	cache := redis.NewClient(redisOpt)
	defer cache.Close()

	subscriber := cache.Subscribe(c, constants.CHANNEL_ORDER_CREATED)
	defer subscriber.Close()
	_, err = subscriber.Receive(c)
	require.NoError(t, err)

	writer := &fakeWriter{orderID: uuid.New()}
	registry := session.NewRegistry(writer, session.WithDismissDelay(time.Hour))
	svc := NewOrderService(registry, cache)
	sess := registry.Start(c)
	require.NoError(t, sess.Add(perfume("x", 1200)))
	require.NoError(t, sess.Add(perfume("y", 800)))

	_, err = svc.Checkout(c, sess.ID, draft().Normalize())
	require.NoError(t, err)

	select {
	case msg := <-subscriber.Channel():
		event := response.OrderCreated{}
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &event))
		assert.Equal(t, writer.orderID, event.Order.ID)
		assert.Len(t, event.Order.OrderItems, 2)
		assert.True(t, decimal.NewFromInt(2000).Equal(event.Order.TotalAmount))
	case <-time.After(5 * time.Second):
		t.Fatal("order created event was not published")
	}
}
