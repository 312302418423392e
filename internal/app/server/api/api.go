//POST /api/v1/user/register   # Регистрация (публичный)
//POST /api/v1/user/login      # Логин (публичный)
//POST /api/v1/user/logout     # Отзыв сессии (auth)
//GET  /api/v1/health          # Проверка доступности (публичный)
//GET  /api/v1/products        # Каталог с фасовками (публичный)
//POST /api/v1/cart/sync       # Синхронизация корзины (auth)
//POST /api/v1/cart/checkout   # Оформление заказа (auth)

package api

import (
	cartAPI "freshcart/internal/app/server/api/http/cart"
	catalogAPI "freshcart/internal/app/server/api/http/catalog"
	healthAPI "freshcart/internal/app/server/api/http/health"
	"freshcart/internal/app/server/api/http/middleware"
	"freshcart/internal/app/server/api/http/middleware/auth"
	"freshcart/internal/app/server/api/http/middleware/logger"
	userAPI "freshcart/internal/app/server/api/http/user"
	"freshcart/internal/domain/cart"
	"freshcart/internal/domain/catalog"
	"freshcart/internal/domain/session"
	"freshcart/internal/domain/user"
	"freshcart/internal/infrastructure/storage/postgres"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"golang.org/x/exp/slog"
)

type Handlers struct {
	Health  *healthAPI.Handler
	User    *userAPI.Handler
	Catalog *catalogAPI.Handler
	Cart    *cartAPI.Handler
}

// New создает *chi.Mux со всеми операциями через huma.Register
func New(storage *postgres.Storage, log *slog.Logger) *chi.Mux {
	mux := chi.NewMux()

	config := huma.DefaultConfig("FreshCart API", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {Type: "http", Scheme: "bearer"},
	}

	API := humachi.New(mux, config)

	h := handlers(storage, log)
	h.Health.SetupRoutes(API)
	h.User.SetupRoutes(API)
	h.Catalog.SetupRoutes(API)
	h.Cart.SetupRoutes(API)

	return mux
}

func handlers(storage *postgres.Storage, log *slog.Logger) *Handlers {
	sessionRepo := postgres.NewSessionRepository(storage, log)
	sessionService := session.NewService(sessionRepo, log)
	authMW := auth.New(sessionService, log)
	loggerMW := logger.New(log)
	middlewares := middleware.NewContainer()

	middlewares.Add(loggerMW.Middleware())
	healthHandler := healthAPI.NewHandler(log, middlewares.GetAllAndClear())

	userRepo := postgres.NewUserRepository(storage, log)
	userService := user.NewService(userRepo, user.NewCredentialsValidator(), log)
	middlewares.Add(loggerMW.Middleware())
	public := middlewares.GetAllAndClear()
	middlewares.Add(authMW.Middleware())
	middlewares.Add(loggerMW.Middleware())
	userHandler := userAPI.NewHandler(userService, sessionService, log, public, middlewares.GetAllAndClear())

	catalogRepo := postgres.NewCatalogRepository(storage, log)
	catalogService := catalog.NewService(catalogRepo, log)
	middlewares.Add(loggerMW.Middleware())
	catalogHandler := catalogAPI.NewHandler(catalogService, log, middlewares.GetAllAndClear())

	cartRepo := postgres.NewCartRepository(storage, log)
	cartService := cart.NewService(cartRepo, catalogRepo, log)
	middlewares.Add(authMW.Middleware())
	middlewares.Add(loggerMW.Middleware())
	cartHandler := cartAPI.NewHandler(cartService, log, middlewares.GetAllAndClear())

	return &Handlers{
		Health:  healthHandler,
		User:    userHandler,
		Catalog: catalogHandler,
		Cart:    cartHandler,
	}
}
