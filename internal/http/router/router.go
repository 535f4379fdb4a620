package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rogerio-castellano/shop-inventory/internal/http/handlers"
	"github.com/rogerio-castellano/shop-inventory/internal/http/middleware"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/rogerio-castellano/shop-inventory/docs"
)

func NewRouter(s *handlers.Server, loginLimiter *middleware.RateLimiter, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))

	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	r.Get("/login", s.LoginInfoHandler)
	r.With(loginLimiter.Limit).Post("/login", s.LoginHandler)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession(s.Auth()))

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/price-list", http.StatusSeeOther)
		})
		r.Post("/logout", s.LogoutHandler)
		r.Post("/password", s.ChangePasswordHandler)

		r.Route("/products", func(r chi.Router) {
			r.Get("/", s.GetProductsHandler)
			r.Post("/", s.CreateProductHandler)
			r.Post("/sell", s.SellProductHandler)
			r.Post("/import", s.ImportProductsHandler)
			r.Get("/export", s.ExportProductsHandler)
			r.Get("/{id}", s.GetProductByIDHandler)
			r.Put("/{id}", s.UpdateProductHandler)
			r.Delete("/{id}", s.DeleteProductHandler)
		})

		r.Get("/price-list", s.GetPriceListHandler)
		r.Get("/price-list/export", s.ExportPriceListHandler)
		r.Get("/orders", s.GetOrdersHandler)
		r.Get("/backup", s.BackupHandler)
	})

	return r
}
