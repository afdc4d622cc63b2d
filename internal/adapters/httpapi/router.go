package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// authRateLimit caps login and signup attempts per client and minute.
const authRateLimit = 10

type RouterConfig struct {
	CORSOrigins        []string
	RateLimitPerMinute int
}

// NewRouter mounts every endpoint of the service on a chi router.
func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(requestID)
	r.Use(accessLog)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Language", "Authorization", "Content-Type", requestIDHeader},
		ExposedHeaders:   []string{requestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if cfg.RateLimitPerMinute > 0 {
		r.Use(h.limiter(cfg.RateLimitPerMinute))
	}
	r.Use(h.authenticate)

	r.NotFound(h.notFound)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(h.limiter(authRateLimit))
		r.Post("/auth/login", h.login)
		r.Post("/register/participant", h.registerParticipant)
		r.Post("/register/organization", h.registerOrganization)
	})
	r.Post("/auth/logout", h.logout)

	r.Route("/events", func(r chi.Router) {
		r.With(h.authorize(resEvents, "read")).Get("/", h.listEvents)
		r.With(h.authorize(resEvents, "write")).Post("/", h.createEvent)

		r.Group(func(r chi.Router) {
			r.Use(h.authorize(resOrganization, "read"))
			r.Get("/organization", h.listOrganizationEvents)
			r.Get("/organization/reviews", h.listOrganizationReviews)
			r.Get("/organization/sentiment", h.sentimentReport)
		})

		r.With(h.authorize(resRegistrations, "write")).Post("/register", h.register)
		r.Group(func(r chi.Router) {
			r.Use(h.authorize(resRegistrations, "read"))
			r.Get("/registrations", h.listRegistrations)
			r.Get("/registrations/{id}/ticket", h.ticket)
		})

		r.With(h.authorize(resAppraisals, "write")).Post("/reviews", h.submitReview)
		r.With(h.authorize(resAppraisals, "read")).Get("/reviews", h.listReviews)

		r.With(h.authorize(resAssistant, "use")).Get("/search/ai", h.search)

		r.With(h.authorize(resEvents, "read")).Get("/{id}", h.getEvent)
	})

	r.With(h.authorize(resAppraisals, "write")).Post("/feedback", h.submitFeedback)
	r.With(h.authorize(resFeedback, "read")).Get("/feedback", h.listFeedback)
	r.With(h.authorize(resNotifications, "read")).Get("/notifications", h.notifications)
	r.With(h.authorize(resAssistant, "use")).Post("/chat", h.chat)

	return r
}

func (h *Handler) limiter(perMinute int) func(http.Handler) http.Handler {
	return httprate.Limit(perMinute, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(h.rateLimited),
	)
}
