package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"cambliss-news-backend/internal/domain/ports/adapter"
	"cambliss-news-backend/internal/domain/ports/repository"
	"cambliss-news-backend/internal/usecase"
)

// Server wires the HTTP surface to the use cases.
type Server struct {
	checkoutUC usecase.CheckoutUseCase
	subUC      usecase.SubscriptionUseCase
	planUC     *usecase.PlanUseCase
	users      repository.UserRepository
	gateway    adapter.PaymentGateway
	auth       *AuthManager
	log        *zerolog.Logger
}

func NewServer(
	checkoutUC usecase.CheckoutUseCase,
	subUC usecase.SubscriptionUseCase,
	planUC *usecase.PlanUseCase,
	users repository.UserRepository,
	gateway adapter.PaymentGateway,
	auth *AuthManager,
	logger *zerolog.Logger,
) *Server {
	l := logger.With().Str("component", "web").Logger()
	return &Server{
		checkoutUC: checkoutUC,
		subUC:      subUC,
		planUC:     planUC,
		users:      users,
		gateway:    gateway,
		auth:       auth,
		log:        &l,
	}
}

// Routes builds the chi router. Checkout and subscription routes sit
// behind the session middleware; health, plans and metrics are open.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(TraceID)
	r.Use(RequestLog(s.log))

	r.Get("/api/health", s.handleHealth)
	r.Get("/api/plans", s.handleListPlans)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(s.RequireAuth)
		r.Get("/api/profile", s.handleProfile)
		r.Post("/api/order", s.handleCreateOrder)
		r.Post("/api/verify", s.handleVerify)
		r.Get("/api/subscription", s.handleGetSubscription)
		r.Post("/api/subscription/cancel", s.handleCancelSubscription)
	})

	return r
}
