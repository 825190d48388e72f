package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"credikhaata/internal/http/auth"
	"credikhaata/internal/http/customer"
	"credikhaata/internal/http/importcsv"
	"credikhaata/internal/http/loan"
	"credikhaata/internal/http/statement"
)

func New(
	authV1 *auth.Handler,
	customersV1 *customer.Handler,
	loansV1 *loan.Handler,
	statementsV1 *statement.Handler,
	importV1 *importcsv.Handler,
	requireAuth func(http.Handler) http.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			authV1.Routes(r)
		})

		// Everything below needs a bearer token.
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Route("/customers", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				customersV1.Routes(r)
				statementsV1.Routes(r)
			})

			r.Route("/loans", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				loansV1.Routes(r)
			})

			r.Route("/repayments", loansV1.RepaymentRoutes)

			r.Route("/import", importV1.Routes)
		})
	})

	return router
}
