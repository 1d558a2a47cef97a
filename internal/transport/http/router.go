package http

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kazak5205/mebelplace-sub005/internal/domain"
)

// RouterConfig bundles the dependencies of the HTTP surface.
type RouterConfig struct {
	Orders      OrderReader
	Creator     OrderCreator
	Lifecycle   Transitioner
	JWTSecret   []byte
	CORSOrigins []string
	Logger      *log.Logger
}

// NewRouter assembles the transition API: one route per lifecycle edge,
// role-gated before the engine is touched.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return RequestLogger(next, cfg.Logger)
	})
	r.Use(func(next http.Handler) http.Handler {
		return CORS(cfg.CORSOrigins, next)
	})
	r.NotFound(NotFoundHandler().ServeHTTP)

	r.Get("/health", HealthHandler)

	auth := Auth(cfg.JWTSecret)
	buyer := RequireRole(domain.RoleBuyer)
	seller := RequireRole(domain.RoleSeller)
	party := RequireRole(domain.RoleBuyer, domain.RoleSeller)
	admin := RequireRole(domain.RoleAdmin)

	r.Route("/orders", func(r chi.Router) {
		r.Use(auth)

		r.With(buyer).Post("/", HandleCreateOrder(cfg.Creator))
		r.Get("/my", HandleListMyOrders(cfg.Orders))
		r.Get("/{id}", HandleGetOrder(cfg.Orders))

		r.With(buyer).Post("/{id}/pay", HandleAction(cfg.Lifecycle, domain.ActionPay, "order paid, funds held in escrow"))
		r.With(buyer).Post("/{id}/cancel", HandleAction(cfg.Lifecycle, domain.ActionCancel, "order cancelled, funds refunded"))
		r.With(seller).Post("/{id}/accept", HandleAction(cfg.Lifecycle, domain.ActionAccept, "order accepted"))
		r.With(seller).Post("/{id}/start", HandleAction(cfg.Lifecycle, domain.ActionStart, "work started"))
		r.With(seller).Post("/{id}/complete", HandleAction(cfg.Lifecycle, domain.ActionComplete, "work submitted for review"))
		r.With(buyer).Post("/{id}/approve", HandleAction(cfg.Lifecycle, domain.ActionApprove, "work approved, funds released to the seller"))
		r.With(party).Post("/{id}/dispute", HandleAction(cfg.Lifecycle, domain.ActionOpenDispute, "dispute opened, an administrator will review the order"))
	})

	r.Route("/admin/orders", func(r chi.Router) {
		r.Use(auth, admin)
		r.Post("/{id}/resolve", HandleResolveDispute(cfg.Lifecycle))
	})

	return r
}
