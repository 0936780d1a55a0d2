package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"giftible/internal/apiclient"
	"giftible/internal/cache"
	"giftible/internal/config"
	"giftible/internal/domain"
	"giftible/internal/events"
	"giftible/internal/http/handlers"
	applog "giftible/internal/log"
	"giftible/internal/repos"
	"giftible/internal/session"
	"giftible/internal/telemetry"
)

const serviceName = "giftible-bff"

func main() {
	cfg := config.Load()

	zl, err := applog.New(cfg.LogFile)
	if err != nil {
		log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
	} else {
		applog.Set(zl)
		defer zl.Sync()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	meter, shutdownTelemetry, err := telemetry.Setup(ctx, serviceName, cfg.OTLPEndpoint)
	if err != nil {
		log.Fatalf("telemetry: %v", err)
	}
	metrics, err := telemetry.NewMetrics(meter)
	if err != nil {
		log.Fatalf("metrics: %v", err)
	}

	api := apiclient.New(apiclient.Config{
		BaseURL:     cfg.APIBaseURL,
		RefreshPath: cfg.RefreshPath,
		Timeout:     cfg.RequestTimeout,
		Metrics:     metrics,
	})

	sealer, err := session.NewSealer(cfg.SessionSecret)
	if err != nil {
		log.Fatal(err)
	}
	if cfg.SessionSecret == "" {
		applog.L().Warn("config.session_secret.missing", zap.String("effect", "sessions do not survive a restart"))
	}

	store, closeStore := openStore(ctx, cfg, sealer)
	defer closeStore()

	var publisher events.Publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, events.Topic)
	}
	defer publisher.Close()

	sessions := session.NewManager(store, api, session.Options{
		RefreshTimeout: cfg.RefreshTimeout,
		Metrics:        metrics,
		Events:         publisher,
	})
	sessions.OnExpired(func(_ context.Context, s *domain.Session, cause error) {
		applog.L().Info("session.cleared",
			zap.String("kind", "audit"),
			zap.String("user_id", s.User.ID),
			zap.String("role", string(s.User.Role)),
			zap.NamedError("cause", cause))
	})

	// Templates & app
	engine := html.New(cfg.TemplatesDir, ".html")

	app := fiber.New(fiber.Config{
		Views:        engine,
		BodyLimit:    8 << 20, // product and NGO forms carry images
		ErrorHandler: handlers.ErrorHandler,
	})

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(otelfiber.Middleware())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/static/") || c.Path() == "/healthz"
		},
	}))
	app.Use(handlers.CSRF(cfg.CookieSecure))

	app.Static("/static", "./web/static")

	deps := handlers.NewDeps(api, sessions, cfg, metrics)
	handlers.Mount(app, deps)

	go func() {
		<-ctx.Done()
		applog.L().Info("server.shutdown")
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	applog.L().Info("server.start", zap.String("port", cfg.Port), zap.String("api", cfg.APIBaseURL))
	if err := app.Listen(":" + cfg.Port); err != nil {
		applog.L().Error("server.listen", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	shutdownTelemetry(shutdownCtx)
}

// openStore picks the session store named by SESSION_STORE.
func openStore(ctx context.Context, cfg config.Config, sealer *session.Sealer) (session.Store, func()) {
	switch cfg.SessionStore {
	case "memory":
		return session.NewMemoryStore(cfg.SessionTTL), func() {}
	case "redis":
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatalf("redis: %v", err)
		}
		return cache.NewRedisSessionStore(rdb, sealer, cfg.SessionTTL), func() { _ = rdb.Close() }
	}

	driver := "sqlite"
	if cfg.SessionStore == "postgres" {
		driver = "postgres"
	}
	db, err := repos.OpenDB(driver, cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}
	repo := repos.NewSessionRepo(db, sealer, cfg.SessionTTL)
	go purgeLoop(ctx, repo, time.Hour)
	return repo, func() { _ = db.Close() }
}

func purgeLoop(ctx context.Context, repo *repos.SessionRepo, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := repo.PurgeExpired(ctx)
			if err != nil {
				applog.L().Warn("session.purge.fail", zap.Error(err))
				continue
			}
			if n > 0 {
				applog.L().Info("session.purge", zap.Int64("removed", n))
			}
		}
	}
}
