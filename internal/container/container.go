package container

import (
	"context"
	"fmt"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jaevor/go-nanoid"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/serroba/videosync-go/internal/auth"
	"github.com/serroba/videosync-go/internal/handlers"
	"github.com/serroba/videosync-go/internal/health"
	"github.com/serroba/videosync-go/internal/interview"
	"github.com/serroba/videosync-go/internal/messaging"
	"github.com/serroba/videosync-go/internal/middleware"
	"github.com/serroba/videosync-go/internal/notification"
	"github.com/serroba/videosync-go/internal/ratelimit"
	"github.com/serroba/videosync-go/internal/store"
	"go.uber.org/zap"
)

const (
	callIDLength  = 12
	consumerGroup = "notifications"
	connectTimeout = 5 * time.Second
)

// Redis owns the shared Redis client.
type Redis struct {
	*redis.Client
}

func (r *Redis) Shutdown() error {
	return r.Close()
}

// Postgres owns the connection pool.
type Postgres struct {
	*pgxpool.Pool
}

func (p *Postgres) Shutdown() error {
	p.Close()

	return nil
}

// LoggerPackage provides the zap logger.
func LoggerPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*zap.Logger, error) {
		opts := do.MustInvoke[*Options](i)

		if opts.LogFormat == "json" {
			return zap.NewProduction()
		}

		return zap.NewDevelopment()
	})
}

// RedisPackage provides the Redis client.
func RedisPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*Redis, error) {
		opts := do.MustInvoke[*Options](i)

		return &Redis{Client: redis.NewClient(&redis.Options{Addr: opts.RedisAddr})}, nil
	})
}

// PostgresPackage provides the Postgres pool. Only invoked when a database URL is configured.
func PostgresPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*Postgres, error) {
		opts := do.MustInvoke[*Options](i)

		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()

		pool, err := pgxpool.New(ctx, opts.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}

		return &Postgres{Pool: pool}, nil
	})
}

// RepositoryPackage provides the interview repository: Postgres when configured,
// memory otherwise, behind a Redis read-through cache.
func RepositoryPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (interview.Repository, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)
		client := do.MustInvoke[*Redis](i)

		var base interview.Repository = store.NewMemoryStore()

		if opts.DatabaseURL != "" {
			pg := do.MustInvoke[*Postgres](i)
			pgStore := store.NewPostgresStore(pg.Pool)

			ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
			defer cancel()

			if err := pgStore.Migrate(ctx); err != nil {
				return nil, fmt.Errorf("migrate postgres: %w", err)
			}

			base = pgStore
		} else {
			logger.Warn("no database configured, interviews are kept in memory")
		}

		return store.NewRedisCacheRepository(base, client.Client, opts.cacheTTL(), logger.Named("cache")), nil
	})

	do.Provide(injector, func(i *do.Injector) (*interview.Scheduler, error) {
		generator, err := nanoid.Standard(callIDLength)
		if err != nil {
			return nil, err
		}

		return interview.NewScheduler(do.MustInvoke[interview.Repository](i), generator), nil
	})
}

// RateLimitPackage provides the quota store and the limiter. An invalid policy table
// fails the injection, which the binaries treat as fatal.
func RateLimitPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*store.RateLimitMemoryStore, error) {
		opts := do.MustInvoke[*Options](i)

		return store.NewRateLimitMemoryStore(store.WithSweepInterval(opts.sweepInterval())), nil
	})

	do.Provide(injector, func(i *do.Injector) (*ratelimit.Limiter, error) {
		opts := do.MustInvoke[*Options](i)

		policies, err := ratelimit.ApplyOverrides(ratelimit.DefaultPolicies(), opts.RateLimits)
		if err != nil {
			return nil, err
		}

		return ratelimit.NewLimiter(do.MustInvoke[*store.RateLimitMemoryStore](i), policies), nil
	})
}

// PublisherPackage provides the Redis Streams publisher and the typed notification publishers.
func PublisherPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.Publisher, error) {
		client := do.MustInvoke[*Redis](i)
		logger := do.MustInvoke[*zap.Logger](i)

		pub, err := messaging.NewRedisPublisher(client.Client, logger.Named("publisher"))
		if err != nil {
			return nil, fmt.Errorf("create publisher: %w", err)
		}

		return messaging.NewPublisher(pub), nil
	})

	do.Provide(injector, func(i *do.Injector) (handlers.Notifications, error) {
		pub := do.MustInvoke[*messaging.Publisher](i)

		return handlers.Notifications{
			Scheduled: messaging.NewPublishFunc[notification.InterviewScheduledEvent](
				pub, notification.TopicInterviewScheduled),
			Reminder: messaging.NewPublishFunc[notification.InterviewReminderEvent](
				pub, notification.TopicInterviewReminder),
			Feedback: messaging.NewPublishFunc[notification.FeedbackReceivedEvent](
				pub, notification.TopicFeedbackReceived),
		}, nil
	})
}

// AuthPackage provides the session authenticator.
func AuthPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*auth.Authenticator, error) {
		opts := do.MustInvoke[*Options](i)

		return auth.NewAuthenticator([]byte(opts.JWTSecret), auth.WithAccessKey(opts.AccessKey))
	})
}

// HTTPPackage provides the router and the huma API with middleware and routes registered.
func HTTPPackage(injector *do.Injector) {
	do.Provide(injector, func(_ *do.Injector) (*chi.Mux, error) {
		return chi.NewMux(), nil
	})

	do.Provide(injector, func(i *do.Injector) (huma.API, error) {
		opts := do.MustInvoke[*Options](i)
		router := do.MustInvoke[*chi.Mux](i)
		logger := do.MustInvoke[*zap.Logger](i)
		limiter := do.MustInvoke[*ratelimit.Limiter](i)
		authenticator := do.MustInvoke[*auth.Authenticator](i)
		quotas := do.MustInvoke[*store.RateLimitMemoryStore](i)
		client := do.MustInvoke[*Redis](i)

		api := humachi.New(router, huma.DefaultConfig("VideoSync", "1.0.0"))

		api.UseMiddleware(middleware.RequestMeta(api))
		api.UseMiddleware(middleware.Authenticate(api, authenticator, logger.Named("auth")))
		api.UseMiddleware(middleware.RateLimit(api, limiter, logger.Named("ratelimit"), nil))

		checkers := map[string]health.Checker{"redis": health.NewRedisChecker(client.Client)}
		if opts.DatabaseURL != "" {
			checkers["postgres"] = health.NewPostgresChecker(do.MustInvoke[*Postgres](i).Pool)
		}

		health.RegisterRoutes(api, health.NewHandler(checkers, quotas))
		handlers.RegisterRoutes(api,
			handlers.NewSessionHandler(authenticator, logger.Named("session")),
			handlers.NewInterviewHandler(
				do.MustInvoke[*interview.Scheduler](i),
				do.MustInvoke[interview.Repository](i),
				limiter,
				do.MustInvoke[handlers.Notifications](i),
				logger.Named("interviews"),
			),
		)

		return api, nil
	})
}

// ConsumerGroupPackage provides the notification consumers.
func ConsumerGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (notification.Mailer, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		if opts.ResendAPIKey == "" {
			logger.Warn("no resend api key configured, emails are logged only")

			return notification.NewLogMailer(logger), nil
		}

		return notification.NewResendMailer(opts.ResendAPIKey, opts.EmailFrom, logger), nil
	})

	do.Provide(injector, func(i *do.Injector) (*notification.Notifier, error) {
		opts := do.MustInvoke[*Options](i)

		renderer, err := notification.NewRenderer(time.UTC)
		if err != nil {
			return nil, err
		}

		return notification.NewNotifier(
			do.MustInvoke[notification.Mailer](i),
			renderer,
			opts.AppURL,
			do.MustInvoke[*zap.Logger](i),
		), nil
	})

	do.Provide(injector, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		client := do.MustInvoke[*Redis](i)
		logger := do.MustInvoke[*zap.Logger](i).Named("consumer")
		notifier := do.MustInvoke[*notification.Notifier](i)

		sub, err := messaging.NewRedisSubscriber(client.Client, consumerGroup, logger)
		if err != nil {
			return nil, fmt.Errorf("create subscriber: %w", err)
		}

		group := messaging.NewConsumerGroup(sub, logger)
		group.Add(
			messaging.NewConsumer(sub, notification.TopicInterviewScheduled, notifier.InterviewScheduled, logger),
			messaging.NewConsumer(sub, notification.TopicInterviewReminder, notifier.InterviewReminder, logger),
			messaging.NewConsumer(sub, notification.TopicFeedbackReceived, notifier.FeedbackReceived, logger),
		)

		return group, nil
	})
}
