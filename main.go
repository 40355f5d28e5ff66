package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/sirupsen/logrus"
	"github.com/streadway/amqp"

	"bookmarket/internal/config"
	"bookmarket/internal/database"
	"bookmarket/internal/graph"
	"bookmarket/internal/handlers"
	"bookmarket/internal/metrics"
	"bookmarket/internal/middleware"
	"bookmarket/internal/repositories"
	"bookmarket/internal/services"
	"bookmarket/pkg/rabbitmq"
)

// stores bundles the identity and catalog stores chosen at startup.
type stores struct {
	users repositories.UserRepository
	books repositories.BookRepository
	ping  handlers.Pinger
	close func() error
}

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Stores ---
	st, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Fatalf("open %s store: %v", cfg.DBDriver, err)
	}
	defer func() {
		if err := st.close(); err != nil {
			log.WithError(err).Warn("error closing store")
		}
	}()
	log.WithField("driver", cfg.DBDriver).Info("connected to store")

	// --- Events ---
	var events services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Fatalf("initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
		events = mqClient
		startEventConsumer(mqClient, log)
	} else {
		log.Info("RABBITMQ_URL not set; marketplace events disabled")
	}

	app, err := newApp(cfg, st, events, log)
	if err != nil {
		log.Fatalf("build app: %v", err)
	}

	// --- Start HTTP Server ---
	go func() {
		log.Infof("Server is running on port %s", cfg.Port)
		if err := app.Listen(cfg.Addr()); err != nil {
			log.Fatalf("server failed to start: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.WithError(err).Error("error during Fiber shutdown")
	}
	log.Info("Server gracefully stopped")
}

// newApp wires services, the GraphQL schema and middleware into a Fiber app.
func newApp(cfg config.Config, st stores, events services.EventPublisher, log *logrus.Logger) (*fiber.App, error) {
	credentials := services.NewCredentialService(cfg.JWTSecret, cfg.TokenTTL)
	authService := services.NewAuthService(st.users, credentials, events, cfg.AdminUsername, log.WithField("component", "auth"))
	userService := services.NewUserService(st.users, st.books)
	bookService := services.NewBookService(st.books, st.users, events, log.WithField("component", "books"))

	schema, err := graph.NewSchema(graph.NewResolver(authService, userService, bookService, log.WithField("component", "graphql")))
	if err != nil {
		return nil, err
	}

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(logger.New())
	app.Use(middleware.Metrics())

	handlers.NewHealthHandler(st.ping).RegisterRoutes(app)
	app.Get("/metrics", metrics.Handler())

	app.Use(middleware.AuthContext(authService, log.WithField("component", "auth-context")))
	handlers.NewGraphQLHandler(schema, log.WithField("component", "graphql")).RegisterRoutes(app)

	return app, nil
}

func openStores(ctx context.Context, cfg config.Config, log *logrus.Logger) (stores, error) {
	if cfg.DBDriver == config.DriverMongo {
		client, db, err := database.OpenMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return stores{}, err
		}
		return stores{
			users: repositories.NewMongoUserRepository(db),
			books: repositories.NewMongoBookRepository(db),
			ping:  func(ctx context.Context) error { return client.Ping(ctx, nil) },
			close: func() error { return client.Disconnect(context.Background()) },
		}, nil
	}

	db, err := database.OpenGORM(cfg.DBDriver, cfg.DatabaseDSN, log.WithField("component", "gorm"))
	if err != nil {
		return stores{}, err
	}
	return stores{
		users: repositories.NewGORMUserRepository(db),
		books: repositories.NewGORMBookRepository(db),
		ping: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		close: func() error { return database.CloseGORM(db) },
	}, nil
}

// startEventConsumer logs every marketplace event delivered to the queue.
func startEventConsumer(mqClient *rabbitmq.Client, log *logrus.Logger) {
	handler := func(msg amqp.Delivery) error {
		log.WithFields(logrus.Fields{
			"routing_key":  msg.RoutingKey,
			"delivery_tag": msg.DeliveryTag,
		}).Infof("marketplace event: %s", msg.Body)
		return nil
	}
	onError := func(tag uint64, err error) {
		log.WithError(err).WithField("delivery_tag", tag).Error("error processing marketplace event")
	}
	if err := mqClient.ConsumeEvents(handler, onError); err != nil {
		log.WithError(err).Error("failed to start RabbitMQ consumer")
	}
}
