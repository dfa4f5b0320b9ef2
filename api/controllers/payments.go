package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dvaldez/storefront-backend/api/responses"
	paymentsvc "github.com/dvaldez/storefront-backend/internal/payments"
	"github.com/dvaldez/storefront-backend/internal/session"
	pkgerrors "github.com/dvaldez/storefront-backend/pkg/errors"
	"github.com/dvaldez/storefront-backend/pkg/logger"
)

// PaymentsCreateIntent opens or refreshes the payment intent for the
// session's basket and returns the basket carrying the client secret.
func PaymentsCreateIntent(svc paymentsvc.Service, sessions *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payments service unavailable"))
			return
		}

		container, err := sessionContainer(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		// An explicit basket id rebinds the session to that basket first.
		if basketID := chi.URLParam(r, "basketId"); basketID != "" {
			if _, err := container.Load(r.Context(), basketID); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load basket"))
				return
			}
		}

		if _, err := svc.AttachIntent(r.Context(), container); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snapshotResponse(container))
	}
}
