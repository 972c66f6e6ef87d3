package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"museumrewards/internal/auth"
	"museumrewards/internal/service"
)

type API struct {
	Service *service.Service
	Auth    *auth.Manager
	Log     zerolog.Logger
	Origins []string
}

func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(requestLogger(a.Log))
	r.Use(a.corsMiddleware)

	r.Get("/health", a.handleHealth)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", a.handleRegister)
		r.Post("/login", a.handleLogin)
		r.With(a.authMiddleware).Post("/logout", a.handleLogout)
	})

	r.Group(func(r chi.Router) {
		r.Use(a.authMiddleware)
		r.Use(timezoneMiddleware)
		r.Get("/me", a.handleMe)

		r.Route("/coins", func(r chi.Router) {
			r.Get("/", a.handleBalance)
			r.Post("/daily-login", a.handleDailyLogin)
			r.Get("/rewards", a.handleRewardRules)
			r.Get("/packs", a.handleListPacks)
			r.Post("/purchase", a.handlePurchase)
		})
		r.Post("/items/{id}/view", a.handleViewItem)
		r.Get("/stats", a.handleStats)
		r.Post("/reset", a.handleReset)

		r.Route("/benefits", func(r chi.Router) {
			r.Get("/", a.handleListBenefits)
			r.Get("/unlocked", a.handleUnlockedBenefits)
			r.Post("/{id}/redeem", a.handleRedeem)
		})
		r.Route("/theme", func(r chi.Router) {
			r.Get("/", a.handleGetTheme)
			r.Put("/", a.handleSetTheme)
			r.Post("/toggle", a.handleToggleTheme)
			r.Get("/palette", a.handlePalette)
		})
	})

	return r
}
