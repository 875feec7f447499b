package main

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/slotbook/slotbook/internal/calendar"
	"github.com/slotbook/slotbook/internal/consumer"
	"github.com/slotbook/slotbook/internal/handlers"
	"github.com/slotbook/slotbook/internal/inbox"
	"github.com/slotbook/slotbook/internal/notify"
	"github.com/slotbook/slotbook/internal/outbox"
	"github.com/slotbook/slotbook/internal/sessions"
	"github.com/slotbook/slotbook/internal/storage"
	"github.com/slotbook/slotbook/libs/config"
	"github.com/slotbook/slotbook/libs/db"
	"github.com/slotbook/slotbook/libs/httpx"
	"github.com/slotbook/slotbook/libs/kafkax"
	otelx "github.com/slotbook/slotbook/libs/otel"
	"github.com/slotbook/slotbook/libs/runtime"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	_ = godotenv.Load()

	service := config.String("SERVICE_NAME", "slotbook")
	port, err := config.Port("PORT", "8080")
	if err != nil {
		panic(err)
	}
	logger := runtime.NewLogger(service)

	ctx, stop := runtime.SignalContext()
	defer stop()

	otelShutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(service))
	if err != nil {
		logger.Error("otel setup failed", "err", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	dbURL, err := config.RequiredString("DATABASE_URL")
	if err != nil {
		panic(err)
	}
	jwtSecret, err := config.RequiredString("JWT_SECRET")
	if err != nil {
		panic(err)
	}

	pool, err := db.Open(ctx, dbURL)
	if err != nil {
		logger.Error("db connection failed", "err", err)
		panic(err)
	}
	defer pool.Close()

	users := storage.NewUserRepository(pool)
	events := storage.NewEventRepository(pool)
	templates := storage.NewAvailabilityRepository(pool)
	bookings := storage.NewBookingRepository(pool)
	refreshRepo := sessions.NewRefreshRepository(pool)
	outboxRepo := outbox.NewRepository(pool)
	inboxRepo := inbox.NewRepository(pool)

	kafkaBrokers := config.String("KAFKA_BROKERS", "")
	outboxPublisher := outbox.NewPublisher(pool, outboxRepo, logger, outbox.PublisherConfig{
		Brokers:   kafkaBrokers,
		PollEvery: config.Duration("OUTBOX_POLL_EVERY", 2*time.Second),
		BatchSize: config.Int("OUTBOX_BATCH_SIZE", 50),
	})
	go outboxPublisher.Run(ctx)

	if kafkaBrokers != "" {
		sender := notify.NewSMTPSender(
			config.String("SMTP_HOST", "localhost"),
			config.String("SMTP_PORT", "1025"),
			config.String("SMTP_FROM", ""),
		)
		emailer := notify.NewEmailer(sender, logger)
		emailConsumer := consumer.New(logger, inboxRepo, consumer.Config{
			Brokers: kafkaBrokers,
			GroupID: config.String("KAFKA_GROUP_ID", "slotbook-notify"),
			Topic:   "booking.created.v1",
		}, func(ctx context.Context, msg kafka.Message) error {
			return emailer.HandleBookingCreated(ctx, msg.Value)
		})
		go emailConsumer.Run(ctx)
	}

	creator := calendar.NewGoogleCreator(
		config.String("GOOGLE_CLIENT_ID", ""),
		config.String("GOOGLE_CLIENT_SECRET", ""),
	)

	accessTTL := config.Duration("ACCESS_TOKEN_TTL", 15*time.Minute)
	refreshTTL := config.Duration("REFRESH_TOKEN_TTL", 30*24*time.Hour)
	authHandler := handlers.NewAuthHandler(pool, users, refreshRepo, outboxRepo, jwtSecret, accessTTL, refreshTTL)
	userHandler := handlers.NewUserHandler(users, logger)
	eventHandler := handlers.NewEventHandler(events, logger)
	availabilityHandler := handlers.NewAvailabilityHandler(templates, logger)
	bookingHandler := handlers.NewBookingHandler(users, events, templates, bookings, creator, outboxRepo, logger)

	// Public routes are unauthenticated and internet-facing; they carry their
	// own rate limit so a scraper cannot starve the booking path.
	publicLimit := publicRateLimit(logger)

	readyChecks := []runtime.ReadyCheck{
		{Name: "db", Check: db.ReadyCheck(pool)},
	}
	if kafkaBrokers != "" {
		readyChecks = append(readyChecks, runtime.ReadyCheck{Name: "kafka", Check: kafkax.ReadyCheck(kafkaBrokers)})
	}
	mux := runtime.NewBaseMuxWithReady(readyChecks...)

	mux.Handle("/api/v1/public/events", publicLimit(http.HandlerFunc(eventHandler.PublicList)))
	mux.Handle("/api/v1/public/events/detail", publicLimit(http.HandlerFunc(eventHandler.PublicDetail)))
	mux.Handle("/api/v1/public/availability", publicLimit(http.HandlerFunc(bookingHandler.Slots)))
	mux.Handle("/api/v1/public/bookings", publicLimit(http.HandlerFunc(bookingHandler.Create)))

	mux.HandleFunc("/api/v1/auth/register", authHandler.Register)
	mux.HandleFunc("/api/v1/auth/login", authHandler.Login)
	mux.HandleFunc("/api/v1/auth/refresh", authHandler.Refresh)
	mux.HandleFunc("/api/v1/auth/logout", authHandler.Logout)

	authed := func(h http.HandlerFunc) http.Handler {
		return handlers.RequireAuth(h, jwtSecret)
	}
	mux.Handle("/api/v1/auth/me", authed(authHandler.Me))
	mux.Handle("/api/v1/users/username", authed(userHandler.UpdateUsername))
	mux.Handle("/api/v1/integrations/google", authed(userHandler.ConnectGoogle))
	mux.Handle("/api/v1/events", authed(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			eventHandler.Create(w, r)
		default:
			eventHandler.List(w, r)
		}
	}))
	mux.Handle("/api/v1/events/delete", authed(eventHandler.Delete))
	mux.Handle("/api/v1/availability", authed(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPut:
			availabilityHandler.Update(w, r)
		default:
			availabilityHandler.Get(w, r)
		}
	}))
	mux.Handle("/api/v1/meetings", authed(bookingHandler.Meetings))

	httpHandler := httpx.Chain(mux,
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
		httpx.WithBodyLimit(1<<20),
		httpx.WithCORS(httpx.CORSPolicy{
			AllowedOrigins: splitList(config.String("CORS_ALLOWED_ORIGINS", "")),
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
			MaxAge:         10 * time.Minute,
		}),
	)
	httpHandler = otelhttp.NewHandler(httpHandler, service)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           httpHandler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}
	logger.Info("http server stopped")
}

// publicRateLimit prefers the shared Redis limiter so limits hold across
// replicas; without REDIS_ADDR it falls back to a per-process window.
func publicRateLimit(logger *slog.Logger) httpx.Middleware {
	limit := config.Int("PUBLIC_RATE_LIMIT", 60)
	window := config.Duration("PUBLIC_RATE_WINDOW", time.Minute)

	if addr := config.String("REDIS_ADDR", ""); addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: addr})
		return httpx.NewRedisRateLimiter(rdb, limit, window, "slotbook:public").
			Middleware(logger, true)
	}
	return httpx.NewRateLimiter(limit, window).Middleware()
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
