package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dvaldez/storefront-backend/api/controllers"
	"github.com/dvaldez/storefront-backend/api/middleware"
	catalogsvc "github.com/dvaldez/storefront-backend/internal/catalog"
	checkoutsvc "github.com/dvaldez/storefront-backend/internal/checkout"
	paymentsvc "github.com/dvaldez/storefront-backend/internal/payments"
	"github.com/dvaldez/storefront-backend/internal/session"
	"github.com/dvaldez/storefront-backend/pkg/config"
	"github.com/dvaldez/storefront-backend/pkg/logger"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config       *config.Config
	Logger       *logger.Logger
	DB           controllers.Pinger
	Redis        controllers.Pinger
	Sessions     *session.Manager
	Catalog      catalogsvc.Service
	Payments     paymentsvc.Service
	Orchestrator *checkoutsvc.Orchestrator
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"db":    deps.DB,
			"redis": deps.Redis,
		}))
	})

	r.Get("/healthz", controllers.HealthLive(cfg))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Session(cfg.Basket, cfg.App.IsProd(), logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(deps.Catalog, logg))
			r.Get("/brands", controllers.BrandList(deps.Catalog, logg))
			r.Get("/types", controllers.TypeList(deps.Catalog, logg))
			r.Get("/{productId}", controllers.ProductDetail(deps.Catalog, logg))
		})
		r.Get("/deliverymethods", controllers.DeliveryMethodList(deps.Catalog, logg))

		r.Route("/basket", func(r chi.Router) {
			r.Get("/", controllers.BasketFetch(deps.Sessions, logg))
			r.Post("/", controllers.BasketReplace(deps.Sessions, logg))
			r.Delete("/", controllers.BasketDelete(deps.Sessions, logg))
			r.Put("/delivery", controllers.BasketSetDelivery(deps.Sessions, deps.Catalog, logg))
			r.Route("/items", func(r chi.Router) {
				r.Post("/", controllers.BasketAddItem(deps.Sessions, deps.Catalog, logg))
				r.Post("/{productId}/increment", controllers.BasketIncrementItem(deps.Sessions, logg))
				r.Post("/{productId}/decrement", controllers.BasketDecrementItem(deps.Sessions, logg))
				r.Delete("/{productId}", controllers.BasketRemoveItem(deps.Sessions, logg))
			})
			r.Get("/{basketId}", controllers.BasketLoad(deps.Sessions, logg))
		})

		r.Post("/payments", controllers.PaymentsCreateIntent(deps.Payments, deps.Sessions, logg))
		r.Post("/payments/{basketId}", controllers.PaymentsCreateIntent(deps.Payments, deps.Sessions, logg))

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/", controllers.CheckoutSubmit(deps.Orchestrator, deps.Sessions, logg))
			r.Get("/state", controllers.CheckoutState(deps.Orchestrator, deps.Sessions, logg))
		})
	})

	return r
}
