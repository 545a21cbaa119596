package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/emel-04/FlatmateHarmony/internal/auth"
	"github.com/emel-04/FlatmateHarmony/internal/middleware"
)

// NewRouter wires middleware and routes. Everything under /api except
// auth requires a valid session token.
func NewRouter(h *Handler, tokens *auth.JWTManager, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(middleware.RequestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/healthz", h.Healthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(tokens))

			r.Route("/households", func(r chi.Router) {
				r.Post("/", h.CreateHousehold)
				r.Post("/join", h.JoinHousehold)

				r.Route("/{householdID}", func(r chi.Router) {
					r.Get("/", h.GetHousehold)

					r.Get("/members", h.ListMembers)
					r.Post("/members", h.AddMember)
					r.Delete("/members/{memberID}", h.RemoveMember)

					r.Get("/finance/{year}/{month}", h.MonthSnapshot)
					r.Get("/transactions/{year}/{month}", h.ListTransactions)
					r.Post("/transactions", h.RecordTransaction)
					r.Put("/transactions/{transactionID}", h.UpdateTransaction)
					r.Delete("/transactions/{transactionID}", h.DeleteTransaction)
					r.Post("/payments", h.ConfirmPayment)

					r.Get("/chores", h.ListChores)
					r.Post("/chores/shuffle", h.ShuffleChores)
					r.Get("/chores/history", h.ChoreHistory)

					r.Get("/shopping", h.ListShopping)
					r.Post("/shopping", h.AddShoppingItem)
					r.Post("/shopping/{itemID}/toggle", h.ToggleShoppingItem)
					r.Delete("/shopping/{itemID}", h.DeleteShoppingItem)

					r.Get("/messages", h.ListMessages)
					r.Post("/messages", h.SendMessage)
					r.Get("/messages/ws", h.ChatWebSocket)
				})
			})
		})
	})

	return r
}
