package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	inErrors "github.com/Alturino/perfumery/internal/errors"
	"github.com/Alturino/perfumery/internal/log"
	"github.com/Alturino/perfumery/internal/otel"
	orderRequest "github.com/Alturino/perfumery/order/pkg/request"
	orderResponse "github.com/Alturino/perfumery/order/pkg/response"
	productResponse "github.com/Alturino/perfumery/product/pkg/response"
)

// Store serves the remote store contract straight from Postgres.
type Store struct {
	queries *Queries
}

func NewStore(db DBTX) *Store {
	return &Store{queries: New(db)}
}

func (s *Store) FetchProducts(c context.Context) ([]productResponse.Product, error) {
	c, span := otel.Tracer.Start(c, "repository Store FetchProducts")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "repository Store FetchProducts").
		Str(log.KeyProcess, "finding products").
		Logger()

	logger.Trace().Msg("finding products")
	rows, err := s.queries.FindProducts(c)
	if err != nil {
		err = fmt.Errorf("failed finding products with error=%w", errors.Join(inErrors.ErrRemoteQuery, err))
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger = logger.With().Int(log.KeyProductsCount, len(rows)).Logger()
	logger.Trace().Msg("found products")

	logger = logger.With().Str(log.KeyProcess, "mapping products").Logger()
	products := make([]productResponse.Product, 0, len(rows))
	for _, row := range rows {
		product, err := row.Response()
		if err != nil {
			err = fmt.Errorf("failed mapping products with error=%w", errors.Join(inErrors.ErrRemoteQuery, err))
			otel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return nil, err
		}
		products = append(products, product)
	}
	logger.Trace().Msg("mapped products")

	return products, nil
}

func (s *Store) FindProductById(c context.Context, id string) (productResponse.Product, error) {
	c, span := otel.Tracer.Start(c, "repository Store FindProductById")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "repository Store FindProductById").
		Str(log.KeyProcess, "finding product by id").
		Str(log.KeyProductID, id).
		Logger()

	logger.Trace().Msg("finding product by id")
	row, err := s.queries.FindProductById(c, id)
	if errors.Is(err, pgx.ErrNoRows) {
		err = fmt.Errorf("failed finding productId=%s with error=%w", id, inErrors.ErrProductNotFound)
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return productResponse.Product{}, err
	}
	if err != nil {
		err = fmt.Errorf("failed finding productId=%s with error=%w", id, errors.Join(inErrors.ErrRemoteQuery, err))
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return productResponse.Product{}, err
	}
	product, err := row.Response()
	if err != nil {
		err = fmt.Errorf("failed mapping productId=%s with error=%w", id, errors.Join(inErrors.ErrRemoteQuery, err))
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return productResponse.Product{}, err
	}
	logger.Trace().Msg("found product by id")

	return product, nil
}

func (s *Store) CreateOrder(
	c context.Context,
	header orderRequest.CreateOrder,
) (orderResponse.Order, error) {
	c, span := otel.Tracer.Start(c, "repository Store CreateOrder")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "repository Store CreateOrder").
		Str(log.KeyProcess, "inserting order").
		Logger()

	logger.Info().Msg("inserting order")
	order, err := s.queries.InsertOrder(c, NewInsertOrderParams(header))
	if err != nil {
		err = fmt.Errorf("failed inserting order with error=%w", errors.Join(inErrors.ErrRemoteWrite, err))
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return orderResponse.Order{}, err
	}
	logger.Info().Str(log.KeyOrderID, order.ID.String()).Msg("inserted order")

	return order.Response(), nil
}

func (s *Store) CreateOrderLineItems(c context.Context, items []orderRequest.OrderItem) error {
	c, span := otel.Tracer.Start(c, "repository Store CreateOrderLineItems")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "repository Store CreateOrderLineItems").
		Str(log.KeyProcess, "inserting orderItems").
		Int(log.KeyOrderItemsCount, len(items)).
		Logger()

	logger.Info().Msg("inserting orderItems")
	inserted, err := s.queries.InsertOrderItems(c, NewInsertOrderItemsParams(items))
	if err != nil {
		err = fmt.Errorf("failed inserting orderItems with error=%w", errors.Join(inErrors.ErrRemoteWrite, err))
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	if inserted != int64(len(items)) {
		err = fmt.Errorf(
			"failed inserting orderItems inserted=%d expected=%d with error=%w",
			inserted,
			len(items),
			inErrors.ErrRemoteWrite,
		)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msgf("inserted orderItems count=%d", inserted)

	return nil
}

func (s *Store) DeleteOrder(c context.Context, id uuid.UUID) error {
	c, span := otel.Tracer.Start(c, "repository Store DeleteOrder")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "repository Store DeleteOrder").
		Str(log.KeyProcess, "deleting order").
		Str(log.KeyOrderID, id.String()).
		Logger()

	logger.Info().Msg("deleting order")
	deleted, err := s.queries.DeleteOrder(c, id)
	if err != nil {
		err = fmt.Errorf("failed deleting orderId=%s with error=%w", id, errors.Join(inErrors.ErrRemoteWrite, err))
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msgf("deleted order count=%d", deleted)

	return nil
}
