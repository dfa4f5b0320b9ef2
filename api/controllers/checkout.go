package controllers

import (
	"net/http"

	"github.com/dvaldez/storefront-backend/api/responses"
	"github.com/dvaldez/storefront-backend/api/validators"
	checkoutsvc "github.com/dvaldez/storefront-backend/internal/checkout"
	"github.com/dvaldez/storefront-backend/internal/session"
	pkgerrors "github.com/dvaldez/storefront-backend/pkg/errors"
	"github.com/dvaldez/storefront-backend/pkg/logger"
)

// CheckoutSubmit runs the two-phase checkout for the session's basket and
// returns the created order.
func CheckoutSubmit(orchestrator *checkoutsvc.Orchestrator, sessions *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if orchestrator == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout unavailable"))
			return
		}

		container, err := sessionContainer(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var form checkoutsvc.Form
		if err := validators.DecodeJSONBody(r, &form); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := orchestrator.Submit(r.Context(), container, form)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// CheckoutState reports where the session's last checkout attempt stands.
func CheckoutState(orchestrator *checkoutsvc.Orchestrator, sessions *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if orchestrator == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout unavailable"))
			return
		}

		container, err := sessionContainer(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		state := checkoutsvc.StateIdle
		if current := container.Current(); current != nil {
			state = orchestrator.State(current.ID)
		}
		responses.WriteSuccess(w, map[string]string{"state": string(state)})
	}
}
