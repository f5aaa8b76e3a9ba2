package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/contalink/backoffice/internal/api"
	"github.com/contalink/backoffice/internal/api/handler"
	"github.com/contalink/backoffice/internal/core/navigation"
	"github.com/contalink/backoffice/internal/core/ports"
	"github.com/contalink/backoffice/internal/core/service"
	"github.com/contalink/backoffice/internal/infrastructure/db/mongo"
	redisstore "github.com/contalink/backoffice/internal/infrastructure/db/redis"
	"github.com/contalink/backoffice/internal/infrastructure/export"
	"github.com/contalink/backoffice/internal/infrastructure/mail"
	"github.com/contalink/backoffice/internal/pkg/config"
	"github.com/contalink/backoffice/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the back-office HTTP API.

Connects to MongoDB and Redis, ensures the collection indexes and serves
until SIGINT or SIGTERM, then drains in-flight requests for up to 10s.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg, log, err := bootstrap(ctx, rootOpts)
			if err != nil {
				return err
			}
			return serve(ctx, cfg, log)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = mongoClient.Disconnect(dctx)
	}()

	rdb, err := redisstore.Connect(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer rdb.Close()

	repos := mongo.NewRepositories(db)
	if err := repos.EnsureIndexes(ctx); err != nil {
		return err
	}

	menu, err := navigation.LoadMenu(cfg.MenuFile)
	if err != nil {
		return err
	}

	views := redisstore.NewViewCache(rdb, cfg.Redis.ViewCacheTTL)
	e := api.NewRouter(buildServices(cfg, repos, rdb, views), api.Options{
		JWTSecret:   cfg.JWTSecret,
		Users:       repos.Users,
		LoginLimit:  cfg.RateLimit.LoginLimit,
		LoginWindow: time.Minute,
		Menu:        menu,
		Views:       views,
		Health:      healthChecks(mongoClient, rdb),
		Logger:      logger.Component("http"),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server started")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// buildServices wires the server actions. rv drops the cached list views
// after every mutation.
func buildServices(cfg *config.Config, repos *mongo.Repositories, rdb *redis.Client, rv ports.Revalidator) api.Services {
	log := logger.Component("service")

	auth := service.NewAuthService(repos.Users, cfg.JWTSecret, cfg.TokenTTL)
	mailer := mail.NewResendMailer(mail.Config{
		APIKey:  cfg.Resend.APIKey,
		From:    cfg.Resend.From,
		BaseURL: cfg.Resend.BaseURL,
	}, logger.Component("mail"))
	limiter := redisstore.NewFixedWindowLimiter(rdb, cfg.RateLimit.ContactLimit, cfg.RateLimit.ContactWindow)

	return api.Services{
		Auth:     auth,
		Users:    service.NewUserService(repos.Users, auth, rv, log),
		Clients:  service.NewClientService(repos.Clients, repos.Payments, repos.Users, rv, log),
		Products: service.NewProductService(repos.Products, repos.Users, rv, log),
		Payments: service.NewPaymentService(repos.Payments, repos.Clients, export.XLSX{}, rv, log),
		Orders:   service.NewOrderService(repos.Orders, repos.Products, repos.Users, rv, log),
		Catalog:  service.NewCatalogService(repos.Catalog, rv, log),
		Contact:  service.NewContactService(mailer, limiter, cfg.Resend.To, log),
	}
}

func healthChecks(client *mongodriver.Client, rdb *redis.Client) map[string]handler.HealthCheck {
	return map[string]handler.HealthCheck{
		"mongodb": func(ctx context.Context) error {
			return client.Ping(ctx, nil)
		},
		"redis": func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		},
	}
}
