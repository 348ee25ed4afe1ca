package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"

	"github.com/tuanvumaihuynh/stockledger/internal/config"
	"github.com/tuanvumaihuynh/stockledger/internal/http/apierr"
	"github.com/tuanvumaihuynh/stockledger/internal/http/metric"
	"github.com/tuanvumaihuynh/stockledger/internal/http/middleware"
	"github.com/tuanvumaihuynh/stockledger/internal/http/swagger"
	"github.com/tuanvumaihuynh/stockledger/internal/service"
	"github.com/tuanvumaihuynh/stockledger/internal/session"
	"github.com/tuanvumaihuynh/stockledger/pkg/validator"
)

var tracer = otel.Tracer("internal/http")

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	IsHealthy(ctx context.Context) (bool, error)
}

// Services are the application services exposed over HTTP.
type Services struct {
	Account      service.AccountService
	Product      service.ProductService
	Sale         service.SaleService
	Purchase     service.PurchaseService
	Supplier     service.SupplierService
	Order        service.OrderService
	Notification service.NotificationService
	Analytics    service.AnalyticsService
}

// Service represents the HTTP service.
type Service struct {
	cfg       config.HTTP
	logger    *slog.Logger
	metrics   *metric.Metrics
	validator validator.Validator
	health    HealthChecker
	sessions  *session.Manager

	svcs Services
}

type CleanupFunc func(ctx context.Context) error

func New(
	cfg config.HTTP,
	log *slog.Logger,
	health HealthChecker,
	sessions *session.Manager,
	svcs Services,
) *Service {
	return &Service{
		cfg:       cfg,
		logger:    log.With(slog.String("service", "http")),
		metrics:   metric.New(),
		validator: validator.MustNewDefaultValidator(),
		health:    health,
		sessions:  sessions,
		svcs:      svcs,
	}
}

func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	handler, err := s.Handler(ctx)
	if err != nil {
		return nil, err
	}

	return s.RunWithServer(ctx, handler)
}

// Handler builds the router with every middleware and route registered.
func (s *Service) Handler(ctx context.Context) (http.Handler, error) {
	r := chi.NewRouter()
	s.RegisterMiddlewares(r)

	if s.cfg.Swagger {
		if err := swagger.Register(ctx, r); err != nil {
			return nil, fmt.Errorf("register swagger: %w", err)
		}
	}

	s.RegisterHandlers(r)

	return r, nil
}

// RunWithServer binds the port before returning so a taken port is reported
// to the caller instead of failing in the background.
func (s *Service) RunWithServer(ctx context.Context, handler http.Handler) (CleanupFunc, error) {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", s.cfg.Port))
	if err != nil {
		return nil, fmt.Errorf("listen on port %d: %w", s.cfg.Port, err)
	}

	srv := &http.Server{
		Handler:           handler,
		ReadTimeout:       s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 16, // 64 KB
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.ErrorContext(ctx, "http server stopped", slog.Any("error", err))
		}
	}()

	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(ctx)
	}, nil
}

func (s *Service) RegisterMiddlewares(r chi.Router) {
	r.Use(
		middleware.CorrelationID(),
		middleware.Trace(tracer),
		middleware.Metrics(s.metrics),
		middleware.Recoverer(s.logger),
		middleware.Cors(s.cfg.CorsAllowedOrigins),
		middleware.Logging(s.logger),
	)
}

func (s *Service) RegisterHandlers(r chi.Router) {
	b := base{logger: s.logger, validator: s.validator}

	account := newAccountHandler(b, s.svcs.Account, s.sessions)
	products := newProductHandler(b, s.svcs.Product)
	sales := newSaleHandler(b, s.svcs.Sale)
	purchases := newPurchaseHandler(b, s.svcs.Purchase)
	suppliers := newSupplierHandler(b, s.svcs.Supplier)
	orders := newOrderHandler(b, s.svcs.Order)
	notifications := newNotificationHandler(b, s.svcs.Notification)
	analytics := newAnalyticsHandler(b, s.svcs.Analytics)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/signup", s.handle(account.SignUp))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Session(s.sessions, s.handleResponseError))

			r.Post("/session/logout", s.handle(account.Logout))

			r.Get("/products", s.handle(products.ListProducts))
			r.Post("/products", s.handle(products.CreateProduct))
			r.Get("/products/{productId}", s.handle(products.GetProduct))
			r.Patch("/products/{productId}", s.handle(products.UpdateProductDetails))
			r.Post("/products/{productId}/adjustments", s.handle(products.AdjustStock))

			r.Get("/sales", s.handle(sales.ListSales))
			r.Post("/sales", s.handle(sales.RecordSale))
			r.Delete("/sales/{saleId}", s.handle(sales.DeleteSale))

			r.Get("/purchases", s.handle(purchases.ListPurchases))
			r.Post("/purchases", s.handle(purchases.RecordPurchase))

			r.Get("/suppliers", s.handle(suppliers.ListSuppliers))
			r.Post("/suppliers", s.handle(suppliers.CreateSupplier))
			r.Put("/suppliers/{supplierId}", s.handle(suppliers.UpdateSupplier))
			r.Delete("/suppliers/{supplierId}", s.handle(suppliers.DeleteSupplier))

			r.Get("/orders", s.handle(orders.ListOrders))
			r.Post("/orders", s.handle(orders.CreateOrder))
			r.Patch("/orders/{orderId}/status", s.handle(orders.UpdateOrderStatus))

			r.Get("/notifications", s.handle(notifications.ListNotifications))
			r.Post("/notifications/{notificationId}/read", s.handle(notifications.MarkRead))

			r.Get("/analytics/summary", s.handle(analytics.Summary))
		})
	})

	r.Get(middleware.HealthPath, s.handleHealth)

	r.Handle(middleware.MetricsPath, promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{
		ErrorLog: slog.NewLogLogger(s.logger.Handler(), slog.LevelError),
	}))
}

// handlerFunc is an HTTP handler whose error is rendered by handleResponseError.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

func (s *Service) handle(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			s.handleResponseError(w, r, err)
		}
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	if ok, err := s.health.IsHealthy(r.Context()); !ok {
		s.logger.WarnContext(r.Context(), "health check failed", slog.Any("error", err))
		status = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck
	json.NewEncoder(w).Encode(map[string]string{"status": http.StatusText(status)})
}

func (s *Service) handleResponseError(w http.ResponseWriter, r *http.Request, err error) {
	res := apierr.New(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(res.StatusCode)

	logLevel := slog.LevelInfo
	if res.StatusCode >= 500 {
		logLevel = slog.LevelError
	} else if res.StatusCode >= 400 {
		logLevel = slog.LevelWarn
	}
	s.logger.Log(r.Context(), logLevel, "http response error", slog.Any("error", err))

	if err := json.NewEncoder(w).Encode(res); err != nil {
		s.logger.ErrorContext(r.Context(), "error encoding error response",
			slog.Any("error", err))
	}
}
