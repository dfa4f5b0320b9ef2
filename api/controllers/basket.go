package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dvaldez/storefront-backend/api/middleware"
	"github.com/dvaldez/storefront-backend/api/responses"
	"github.com/dvaldez/storefront-backend/api/validators"
	"github.com/dvaldez/storefront-backend/internal/basket"
	catalogsvc "github.com/dvaldez/storefront-backend/internal/catalog"
	"github.com/dvaldez/storefront-backend/internal/session"
	pkgerrors "github.com/dvaldez/storefront-backend/pkg/errors"
	"github.com/dvaldez/storefront-backend/pkg/logger"
)

type basketResponse struct {
	Basket *basket.Basket `json:"basket"`
	Totals *basket.Totals `json:"totals"`
}

func snapshotResponse(c *basket.Container) basketResponse {
	return basketResponse{Basket: c.Current(), Totals: c.Totals()}
}

// sessionContainer resolves and hydrates the caller's basket container.
func sessionContainer(r *http.Request, sessions *session.Manager) (*basket.Container, error) {
	sessionID := middleware.SessionID(r.Context())
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "session context missing")
	}
	container, err := sessions.Container(sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve basket container")
	}
	if _, err := container.LoadCurrent(r.Context()); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load basket")
	}
	return container, nil
}

// BasketFetch returns the session's current basket and totals. A session
// with no basket gets nulls, not an error.
func BasketFetch(sessions *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		container, err := sessionContainer(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snapshotResponse(container))
	}
}

// BasketLoad loads a basket by id and binds it to the session. An unknown
// id clears the session's basket rather than failing.
func BasketLoad(sessions *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		basketID := chi.URLParam(r, "basketId")
		if basketID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "basket id is required"))
			return
		}

		sessionID := middleware.SessionID(r.Context())
		if sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session context missing"))
			return
		}
		container, err := sessions.Container(sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve basket container"))
			return
		}

		if _, err := container.Load(r.Context(), basketID); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load basket"))
			return
		}
		responses.WriteSuccess(w, snapshotResponse(container))
	}
}

type replaceBasketRequest struct {
	ID    string        `json:"id"`
	Items []basket.Item `json:"items" validate:"required,dive"`
}

// BasketReplace replaces the session's basket wholesale.
func BasketReplace(sessions *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		container, err := sessionContainer(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload replaceBasketRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		next := basket.New()
		if payload.ID != "" {
			next.ID = payload.ID
		}
		next.Items = payload.Items
		if current := container.Current(); current != nil && (payload.ID == "" || payload.ID == current.ID) {
			next.ID = current.ID
			next.DeliveryMethodID = current.DeliveryMethodID
			next.ShippingPrice = current.ShippingPrice
			next.ClientSecret = current.ClientSecret
			next.PaymentIntentID = current.PaymentIntentID
		}

		if _, err := container.Replace(r.Context(), next); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save basket"))
			return
		}
		responses.WriteSuccess(w, snapshotResponse(container))
	}
}

// BasketDelete retires the session's basket.
func BasketDelete(sessions *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		container, err := sessionContainer(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := container.Retire(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete basket"))
			return
		}
		responses.WriteSuccess(w, snapshotResponse(container))
	}
}

type addItemRequest struct {
	ProductID int64 `json:"productId" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"omitempty,gt=0"`
}

// BasketAddItem snapshots a catalog product into the basket, merging
// quantities when the product is already present.
func BasketAddItem(sessions *session.Manager, catalog catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		container, err := sessionContainer(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if payload.Quantity == 0 {
			payload.Quantity = 1
		}

		product, err := catalog.GetProduct(r.Context(), payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		item := catalogsvc.Snapshot(product)

		if _, err := container.Apply(r.Context(), func(current *basket.Basket) *basket.Basket {
			return basket.Add(current, item, payload.Quantity)
		}); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save basket"))
			return
		}
		responses.WriteSuccess(w, snapshotResponse(container))
	}
}

// BasketIncrementItem raises a line's quantity by one. Unknown products are
// a no-op.
func BasketIncrementItem(sessions *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return basketItemMutation(sessions, logg, basket.Increment)
}

// BasketDecrementItem lowers a line's quantity by one, removing the line at
// quantity one.
func BasketDecrementItem(sessions *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return basketItemMutation(sessions, logg, basket.Decrement)
}

// BasketRemoveItem drops a line entirely. Removing the last line retires
// the basket.
func BasketRemoveItem(sessions *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return basketItemMutation(sessions, logg, basket.Remove)
}

func basketItemMutation(sessions *session.Manager, logg *logger.Logger, mutate func(*basket.Basket, int64) *basket.Basket) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := strconv.ParseInt(chi.URLParam(r, "productId"), 10, 64)
		if err != nil || productID <= 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product id must be a positive integer"))
			return
		}

		container, err := sessionContainer(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if _, err := container.Apply(r.Context(), func(current *basket.Basket) *basket.Basket {
			return mutate(current, productID)
		}); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save basket"))
			return
		}
		responses.WriteSuccess(w, snapshotResponse(container))
	}
}

type setDeliveryRequest struct {
	DeliveryMethodID int64 `json:"deliveryMethodId" validate:"required,gt=0"`
}

// BasketSetDelivery stamps the chosen delivery method's price onto the
// basket so totals include shipping.
func BasketSetDelivery(sessions *session.Manager, catalog catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		container, err := sessionContainer(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload setDeliveryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		method, err := catalog.GetDeliveryMethod(r.Context(), payload.DeliveryMethodID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if _, err := container.SetShippingPrice(r.Context(), method.ID, method.Price); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save basket"))
			return
		}
		responses.WriteSuccess(w, snapshotResponse(container))
	}
}
