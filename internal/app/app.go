package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"orderdesk/internal/cache"
	"orderdesk/internal/calendar"
	"orderdesk/internal/config"
	"orderdesk/internal/customer"
	"orderdesk/internal/fetch"
	"orderdesk/internal/logger"
	"orderdesk/internal/order"
	"orderdesk/internal/pricing"
	"orderdesk/internal/product"
	"orderdesk/internal/sms"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// App is one session: the coordinator, the views built on it and the
// command table. Nothing here is shared between sessions.
type App struct {
	cfg         *config.Config
	coordinator *fetch.Coordinator
	validator   *pricing.Validator

	Customers    customer.Service
	Products     product.Service
	Orders       order.Service
	Calendar     calendar.Service
	Transactions sms.Service

	registry *Registry
	now      func() time.Time
}

func New(cfg *config.Config) (*App, error) {
	coordinator := fetch.NewCoordinator(fetch.Settings{
		BaseURL:   cfg.APIBaseURL,
		Timeout:   cfg.RequestTimeout,
		RateLimit: rate.Limit(cfg.RateLimitRPS),
		Burst:     cfg.RateLimitBurst,
		Breaker:   cfg.BreakerEnabled,
	})

	searchCache, err := cache.NewSearch[[]customer.Customer]("customers", cfg.SearchCacheSize)
	if err != nil {
		return nil, fmt.Errorf("create customer search cache: %w", err)
	}

	validator := pricing.NewValidator(pricing.Policy{
		MaxQuantity:       cfg.MaxQuantity,
		MaxUnitPrice:      cfg.MaxUnitPrice,
		RequireFutureDate: cfg.RequireFutureDate,
	})

	a := &App{
		cfg:          cfg,
		coordinator:  coordinator,
		validator:    validator,
		Customers:    customer.NewService(customer.NewRepository(coordinator), searchCache),
		Products:     product.NewService(product.NewRepository(coordinator)),
		Orders:       order.NewService(order.NewRepository(coordinator), validator),
		Calendar:     calendar.NewService(calendar.NewRepository(coordinator)),
		Transactions: sms.NewService(sms.NewRepository(coordinator)),
		now:          time.Now,
	}

	a.registry, err = NewRegistry(a.bindings())
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Bindings returns the command table in declaration order.
func (a *App) Bindings() []Binding {
	return a.registry.All()
}

// Dispatch runs the binding for trigger. Cancelled calls end quietly and
// connectivity failures are reported with a user-facing message.
func (a *App) Dispatch(ctx context.Context, trigger string, req Request) error {
	b, ok := a.registry.Lookup(trigger)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTrigger, trigger)
	}
	if err := b.checkArgs(req.Args); err != nil {
		return err
	}

	if logger.RequestIDFrom(ctx) == "" {
		ctx = logger.WithRequestID(ctx, uuid.New().String())
	}
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "app"),
		zap.String("trigger", b.Trigger),
	)
	start := time.Now()

	err := b.Handler(ctx, req)
	switch {
	case err == nil:
		log.Debug("command done", zap.Duration("duration", time.Since(start)))
		return nil
	case errors.Is(err, fetch.ErrCancelled):
		log.Debug("command superseded")
		return nil
	}

	var netErr *fetch.NetworkError
	if errors.As(err, &netErr) {
		return fmt.Errorf("%s: %w", fetch.ConnectivityMessage, err)
	}
	return err
}

// Close aborts every call still in flight.
func (a *App) Close() {
	a.coordinator.CancelAll()
}
