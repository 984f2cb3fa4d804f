package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	authhttp "github.com/techadict/shop/internal/auth/httpserver"
	authrepo "github.com/techadict/shop/internal/auth/repo"
	authservice "github.com/techadict/shop/internal/auth/service"
	carthttp "github.com/techadict/shop/internal/cart/httpserver"
	cartrepo "github.com/techadict/shop/internal/cart/repo"
	cartservice "github.com/techadict/shop/internal/cart/service"
	cataloghttp "github.com/techadict/shop/internal/catalog/httpserver"
	catalogrepo "github.com/techadict/shop/internal/catalog/repo"
	"github.com/techadict/shop/internal/catalog/search"
	catalogservice "github.com/techadict/shop/internal/catalog/service"
	"github.com/techadict/shop/internal/models"
	orderhttp "github.com/techadict/shop/internal/order/httpserver"
	orderrepo "github.com/techadict/shop/internal/order/repo"
	orderservice "github.com/techadict/shop/internal/order/service"
	httpserver "github.com/techadict/shop/internal/transport/http"
	userhttp "github.com/techadict/shop/internal/user/httpserver"
	userrepo "github.com/techadict/shop/internal/user/repo"
	userservice "github.com/techadict/shop/internal/user/service"
	"github.com/techadict/shop/pkg/cache"
	"github.com/techadict/shop/pkg/config"
	pkgdb "github.com/techadict/shop/pkg/db"
	"github.com/techadict/shop/pkg/events"
	"github.com/techadict/shop/pkg/logging"
	"github.com/techadict/shop/pkg/metrics"
	authmw "github.com/techadict/shop/pkg/middleware/auth"
	loggingmw "github.com/techadict/shop/pkg/middleware/logging"
	metricsmw "github.com/techadict/shop/pkg/middleware/metrics"
	"github.com/techadict/shop/pkg/middleware/ratelimit"
	"github.com/techadict/shop/pkg/response"
	"github.com/techadict/shop/pkg/tokens"
	"github.com/techadict/shop/pkg/validation"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DatabaseURL)
	if err == nil && cfg.AutoMigrate {
		err = models.Migrate(ctx, db)
	}
	cancel()
	if err != nil {
		log.Fatalf("db init: %v", err)
	}

	var publisher events.Publisher = events.Nop{}
	var producer *events.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = events.NewProducer(cfg.KafkaBrokers)
		publisher = producer
	} else {
		logger.Warn("kafka_disabled", "reason", "KAFKA_BROKERS not set")
	}

	var index catalogservice.Indexer
	if cfg.ESURL != "" {
		client, err := search.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			logger.Error("elasticsearch_unavailable", "error", err)
		} else {
			index = search.New(client, cfg.ESIndex)
		}
	}

	var productCache *cache.Cache
	if cfg.RedisURL != "" {
		rdb, err := cache.NewRedisClient(context.Background(), cfg.RedisURL)
		if err != nil {
			logger.Error("redis_unavailable", "error", err)
		} else {
			defer rdb.Close()
			productCache = cache.New(rdb, cfg.CacheTTL, "products:version")
		}
	}

	m := metrics.New(cfg.ServiceName)

	authRepo := &authrepo.GormRepo{DB: db}
	authSvc := &authservice.AuthService{
		Repo:    authRepo,
		Signer:  &tokens.Signer{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer, TTL: cfg.JWTTTL},
		Metrics: m,
	}
	requireAuth := authmw.Middleware(authSvc)
	loginLimiter := ratelimit.New(cfg.LoginRatePerMinute, cfg.LoginBurst)

	userRepo := &userrepo.GormRepo{DB: db}
	catalogRepo := &catalogrepo.GormRepo{DB: db}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = response.ErrorHandler
	e.Validator = validation.New()
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(metricsmw.Middleware(m))
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())

	httpserver.Register(e, &httpserver.Deps{
		DB:      db,
		Metrics: m,
		Auth: &authhttp.Deps{
			AuthHandler:       &authhttp.AuthHTTP{Svc: authSvc},
			RoleHandler:       &authhttp.RoleHTTP{Svc: &authservice.RoleService{Repo: authRepo}},
			PermissionHandler: &authhttp.PermissionHTTP{Svc: &authservice.PermissionService{Repo: authRepo}},
			RequireAuth:       requireAuth,
			OptionalAuth:      authmw.OptionalMiddleware(authSvc),
			LoginLimit:        loginLimiter.Middleware,
		},
		Users: &userhttp.Deps{
			UserHandler:    &userhttp.UserHTTP{Svc: &userservice.UserService{Repo: userRepo, Accounts: authSvc}},
			AddressHandler: &userhttp.AddressHTTP{Svc: &userservice.AddressService{Repo: userRepo}},
			RequireAuth:    requireAuth,
		},
		Catalog: &cataloghttp.Deps{
			ProductHandler: &cataloghttp.ProductHTTP{Svc: &catalogservice.ProductService{
				Repo:    catalogRepo,
				Index:   index,
				Cache:   productCache,
				Events:  publisher,
				Topic:   cfg.KafkaProductTopic,
				Metrics: m,
			}},
			CategoryHandler: &cataloghttp.CategoryHTTP{Svc: &catalogservice.CategoryService{Repo: catalogRepo, Cache: productCache}},
			BrandHandler:    &cataloghttp.BrandHTTP{Svc: &catalogservice.BrandService{Repo: catalogRepo, Cache: productCache}},
			RequireAuth:     requireAuth,
		},
		Carts: &carthttp.Deps{
			CartHandler: &carthttp.CartHTTP{Svc: &cartservice.CartService{Repo: &cartrepo.GormRepo{DB: db}}},
			RequireAuth: requireAuth,
		},
		Orders: &orderhttp.Deps{
			OrderHandler: &orderhttp.OrderHTTP{Svc: &orderservice.OrderService{
				Repo:    &orderrepo.GormRepo{DB: db},
				Cache:   productCache,
				Events:  publisher,
				Topic:   cfg.KafkaOrderTopic,
				Metrics: m,
			}},
			RequireAuth: requireAuth,
		},
	})

	janitorCtx, stopJanitor := context.WithCancel(logging.IntoContext(context.Background(), logger))
	go authSvc.RunJanitor(janitorCtx, cfg.TokenPurgeInterval)

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("server_listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting_down")
	stopJanitor()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_failed", "error", err)
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("kafka_close_failed", "error", err)
		}
	}
	if err := pkgdb.Close(db); err != nil {
		logger.Error("db_close_failed", "error", err)
	}

	logger.Info("server_stopped")
}
