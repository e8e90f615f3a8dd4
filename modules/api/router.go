package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/revuhub/entitlement/svc/billing"
	"github.com/revuhub/entitlement/svc/catalog"
	"github.com/revuhub/entitlement/svc/entitlement"
	"github.com/revuhub/entitlement/svc/subscription"
)

// RouterOptions carries the services the API module exposes. All of them
// are required; the module is the whole engine's surface, not a menu.
type RouterOptions struct {
	Plans         catalog.Service
	Subscriptions subscription.Service
	Evaluator     *entitlement.Evaluator
	Advisor       *entitlement.Advisor
	Checkout      *billing.CheckoutService
	Logger        *slog.Logger
}

// Router builds the entitlement engine's HTTP surface.
//
// Example:
//
//	r := chi.NewRouter()
//	r.Mount("/v1", api.Router(api.RouterOptions{...}))
func Router(opts RouterOptions) chi.Router {
	if opts.Plans == nil {
		panic("api: plans service is required")
	}
	if opts.Subscriptions == nil {
		panic("api: subscriptions service is required")
	}
	if opts.Evaluator == nil {
		panic("api: evaluator is required")
	}
	if opts.Advisor == nil {
		panic("api: advisor is required")
	}
	if opts.Checkout == nil {
		panic("api: checkout service is required")
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	h := &handlers{
		plans:    opts.Plans,
		subs:     opts.Subscriptions,
		eval:     opts.Evaluator,
		advisor:  opts.Advisor,
		checkout: opts.Checkout,
		log:      log,
	}

	r := chi.NewRouter()

	r.Route("/plans", func(r chi.Router) {
		r.Get("/", h.listPlans)
		r.Get("/{planID}", h.getPlan)
	})

	r.Route("/businesses/{businessID}", func(r chi.Router) {
		r.Route("/subscription", func(r chi.Router) {
			r.Get("/", h.getSubscription)
			r.Post("/", h.createSubscription)
			r.Put("/", h.upgradeSubscription)
			r.Delete("/", h.cancelSubscription)
		})
		r.Get("/usage", h.getUsage)
		r.Get("/actions/{action}", h.canPerformAction)
		r.Get("/features/{feature}", h.checkFeature)
		r.Get("/upgrade-comparison", h.upgradeComparison)
	})

	r.Post("/checkout", h.postCheckout)
	r.Get("/invoices/{invoiceID}", h.getInvoice)

	return r
}
