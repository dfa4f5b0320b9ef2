package payments

import (
	"context"
	"fmt"

	"github.com/dvaldez/storefront-backend/internal/basket"
	pkgerrors "github.com/dvaldez/storefront-backend/pkg/errors"
	"github.com/dvaldez/storefront-backend/pkg/logger"
)

// Service attaches payment intents to baskets ahead of checkout.
type Service interface {
	// AttachIntent opens or refreshes the gateway intent for the container's
	// current basket and republishes the basket carrying the client secret.
	AttachIntent(ctx context.Context, container *basket.Container) (*basket.Basket, error)
}

type service struct {
	gateway Gateway
	logg    *logger.Logger
}

// NewService builds the payments service.
func NewService(gateway Gateway, logg *logger.Logger) (Service, error) {
	if gateway == nil {
		return nil, fmt.Errorf("payment gateway required")
	}
	return &service{gateway: gateway, logg: logg}, nil
}

func (s *service) AttachIntent(ctx context.Context, container *basket.Container) (*basket.Basket, error) {
	if container == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "basket container required")
	}

	current := container.Current()
	if current == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no basket to pay for")
	}
	if current.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "basket has no items to pay for")
	}

	intent, err := s.gateway.CreateOrUpdateIntent(ctx, current)
	if err != nil {
		return nil, err
	}

	next := current.Clone()
	next.PaymentIntentID = &intent.ID
	next.ClientSecret = &intent.ClientSecret

	updated, err := container.Replace(ctx, next)
	if err != nil {
		return nil, err
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithBasketID(ctx, updated.ID), "payment.intent_attached")
	}
	return updated, nil
}
