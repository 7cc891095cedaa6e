package router

import (
	"github.com/Totarae/shortio-linkmaker/internal/auth"
	"github.com/Totarae/shortio-linkmaker/internal/handlers"
	"github.com/Totarae/shortio-linkmaker/internal/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// NewRouter создаёт и настраивает маршрутизатор
func NewRouter(handler *handlers.Handler, a *auth.Auth, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.LoggingMiddleware(logger)) // Подключаем логирование
	r.Use(chimw.Recoverer)
	r.Use(middleware.GzipRequestMiddleware)
	r.Use(chimw.Compress(5, "text/html", "text/plain")) // Gzip-сжатие ответов

	r.Get("/ping", handler.Ping)
	r.Get("/login", handler.LoginPage)
	r.Post("/login", handler.Login)
	r.Post("/logout", handler.Logout)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireOperator(a, logger))

		r.Get("/", handler.LinkForm)
		r.Post("/", handler.LinkForm)
		r.Get("/settings", handler.SettingsPage)
		r.Post("/settings", handler.SaveSettings)
	})
	return r
}
