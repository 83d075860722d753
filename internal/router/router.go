package router

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gopizza-pos/api/internal/config"
	"github.com/gopizza-pos/api/internal/handler"
	mw "github.com/gopizza-pos/api/internal/middleware"
	"github.com/gopizza-pos/api/internal/notify"
	"github.com/gopizza-pos/api/internal/store"
	"github.com/gopizza-pos/api/internal/ws"
)

// New creates a Chi router with all application routes wired up.
// Catalog writes and order status transitions sit behind the admin gate;
// everything else requires only a valid token.
func New(cfg *config.Config, pool *pgxpool.Pool, hub *ws.Hub, pub *notify.Publisher) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300, // 5 minutes
	}))

	users := store.NewUsers(pool)
	pizzas := store.NewPizzas(pool)
	orders := store.NewOrders(pool)

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","version":"1.0.0"}`))
	})

	// Auth routes (public)
	authHandler := handler.NewAuthHandler(users, cfg.JWTSecret)
	authHandler.RegisterRoutes(r)

	// WebSocket route (handles auth internally via query param)
	r.Get("/ws/orders", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, cfg.JWTSecret, w, r)
	})

	// Protected routes (require authentication)
	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTSecret))

		pizzaHandler := handler.NewPizzaHandler(pizzas)
		orderHandler := handler.NewOrderHandler(orders, pizzas, hub, pub)

		r.Route("/pizzas", func(r chi.Router) {
			pizzaHandler.RegisterReadRoutes(r)

			// Catalog management (admin only)
			r.Group(func(r chi.Router) {
				r.Use(mw.RequireAdmin)
				pizzaHandler.RegisterAdminRoutes(r)
			})
		})

		r.Route("/orders", func(r chi.Router) {
			orderHandler.RegisterRoutes(r)

			// Status transitions (admin only)
			r.Group(func(r chi.Router) {
				r.Use(mw.RequireAdmin)
				orderHandler.RegisterAdminRoutes(r)
			})
		})

		// Staff account management (admin only)
		r.Group(func(r chi.Router) {
			r.Use(mw.RequireAdmin)
			userHandler := handler.NewUserHandler(users)
			r.Route("/users", userHandler.RegisterRoutes)
		})
	})

	log.Println("Router initialized with all handlers")
	return r
}
