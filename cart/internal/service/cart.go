package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Alturino/perfumery/cart/internal/otel"
	"github.com/Alturino/perfumery/cart/pkg/response"
	"github.com/Alturino/perfumery/internal/log"
	inOtel "github.com/Alturino/perfumery/internal/otel"
	"github.com/Alturino/perfumery/internal/remote"
	"github.com/Alturino/perfumery/internal/session"
)

type CartService struct {
	sessions *session.Registry
	products remote.ProductReader
}

func NewCartService(sessions *session.Registry, products remote.ProductReader) *CartService {
	return &CartService{sessions: sessions, products: products}
}

func view(s *session.Session) response.Cart {
	return response.NewCart(s.ID, s.CreatedAt, s.Snapshot())
}

func (svc *CartService) StartCart(c context.Context) response.Cart {
	c, span := otel.Tracer.Start(c, "CartService StartCart")
	defer span.End()

	s := svc.sessions.Start(c)
	return view(s)
}

func (svc *CartService) FindCartById(c context.Context, id uuid.UUID) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService FindCartById")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService FindCartById").
		Str(log.KeyCartID, id.String()).
		Str(log.KeyProcess, "finding cart").
		Logger()

	logger.Trace().Msg("finding cart")
	s, err := svc.sessions.Get(id)
	if err != nil {
		err = fmt.Errorf("failed finding cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Trace().Msg("found cart")

	return view(s), nil
}

func (svc *CartService) EndCart(c context.Context, id uuid.UUID) error {
	c, span := otel.Tracer.Start(c, "CartService EndCart")
	defer span.End()

	if err := svc.sessions.End(c, id); err != nil {
		err = fmt.Errorf("failed ending cart with error=%w", err)
		inOtel.RecordError(err, span)
		zerolog.Ctx(c).Error().Err(err).Str(log.KeyTag, "CartService EndCart").Msg(err.Error())
		return err
	}
	return nil
}

// AddItem resolves the product from the store at add time so the cart keeps its current price.
func (svc *CartService) AddItem(c context.Context, id uuid.UUID, productId string) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService AddItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService AddItem").
		Str(log.KeyCartID, id.String()).
		Str(log.KeyProductID, productId).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding cart").Logger()
	logger.Trace().Msg("finding cart")
	s, err := svc.sessions.Get(id)
	if err != nil {
		err = fmt.Errorf("failed finding cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Trace().Msg("found cart")

	logger = logger.With().Str(log.KeyProcess, "finding product").Logger()
	logger.Trace().Msg("finding product")
	product, err := svc.products.FindProductById(logger.WithContext(c), productId)
	if err != nil {
		err = fmt.Errorf("failed finding product with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Trace().Msg("found product")

	logger = logger.With().Str(log.KeyProcess, "adding product to cart").Logger()
	logger.Trace().Msg("adding product to cart")
	if err = s.Add(product); err != nil {
		err = fmt.Errorf("failed adding product to cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().Msg("added product to cart")

	return view(s), nil
}

func (svc *CartService) UpdateItem(
	c context.Context,
	id uuid.UUID,
	productId string,
	quantity int,
) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService UpdateItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService UpdateItem").
		Str(log.KeyCartID, id.String()).
		Str(log.KeyProductID, productId).
		Int(log.KeyCartItemQuantity, quantity).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding cart").Logger()
	logger.Trace().Msg("finding cart")
	s, err := svc.sessions.Get(id)
	if err != nil {
		err = fmt.Errorf("failed finding cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Trace().Msg("found cart")

	logger = logger.With().Str(log.KeyProcess, "setting quantity").Logger()
	logger.Trace().Msg("setting quantity")
	if err = s.SetQuantity(productId, quantity); err != nil {
		err = fmt.Errorf("failed setting quantity with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().Msg("set quantity")

	return view(s), nil
}

func (svc *CartService) RemoveItem(c context.Context, id uuid.UUID, productId string) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService RemoveItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService RemoveItem").
		Str(log.KeyCartID, id.String()).
		Str(log.KeyProductID, productId).
		Logger()

	s, err := svc.sessions.Get(id)
	if err != nil {
		err = fmt.Errorf("failed finding cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	s.Remove(productId)
	logger.Info().Msg("removed product from cart")

	return view(s), nil
}

func (svc *CartService) ClearCart(c context.Context, id uuid.UUID) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService ClearCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService ClearCart").
		Str(log.KeyCartID, id.String()).
		Logger()

	s, err := svc.sessions.Get(id)
	if err != nil {
		err = fmt.Errorf("failed finding cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	s.Clear()
	logger.Info().Msg("cleared cart")

	return view(s), nil
}
