package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/ayesh20/e-learn-backend/backend/services/lms-service/internal/brevo"
	"github.com/ayesh20/e-learn-backend/backend/services/lms-service/internal/config"
	"github.com/ayesh20/e-learn-backend/backend/services/lms-service/internal/database"
	"github.com/ayesh20/e-learn-backend/backend/services/lms-service/internal/discovery"
	"github.com/ayesh20/e-learn-backend/backend/services/lms-service/internal/events"
	"github.com/ayesh20/e-learn-backend/backend/services/lms-service/internal/handlers"
	lmsmw "github.com/ayesh20/e-learn-backend/backend/services/lms-service/internal/middleware"
	"github.com/ayesh20/e-learn-backend/backend/services/lms-service/internal/repository"
	"github.com/ayesh20/e-learn-backend/backend/services/lms-service/internal/routes"
	"github.com/ayesh20/e-learn-backend/backend/services/lms-service/internal/services"
	"github.com/ayesh20/e-learn-backend/backend/services/lms-service/internal/storage"
	"github.com/ayesh20/e-learn-backend/backend/shared/jwt"
	"github.com/ayesh20/e-learn-backend/backend/shared/logger"
	"github.com/ayesh20/e-learn-backend/backend/shared/metrics"
	"github.com/ayesh20/e-learn-backend/backend/shared/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const healthPath = "/api/v1/health"

// Server holds service dependencies
type Server struct {
	Cfg       *config.Config
	App       *fiber.App
	Log       *zap.SugaredLogger
	Mongo     *mongo.Client
	Redis     *redis.Client
	Events    events.Publisher
	IPLimiter *middleware.IPRateLimiter
	Consul    *discovery.Registration
}

// NewServer connects every dependency and builds the route table.
func NewServer(cfg *config.Config, lg *zap.SugaredLogger) (*Server, error) {
	db, mongoClient, err := database.ConnectMongo(cfg.Mongo.URI, cfg.Mongo.Database, lg)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := repository.EnsureIndexes(ctx, db); err != nil {
		_ = mongoClient.Disconnect(context.Background())
		return nil, err
	}

	rdb, err := database.ConnectRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, lg)
	if err != nil {
		_ = mongoClient.Disconnect(context.Background())
		return nil, err
	}

	tokens, err := jwt.NewManager(cfg.JWT.Secret)
	if err != nil {
		_ = rdb.Close()
		_ = mongoClient.Disconnect(context.Background())
		return nil, err
	}

	m := metrics.New("lms")
	pub, err := newPublisher(cfg, lg)
	if err != nil {
		_ = rdb.Close()
		_ = mongoClient.Disconnect(context.Background())
		return nil, err
	}
	pub = events.Observed(pub, m.EventsFailed, lg)

	store := storage.Disabled()
	if cfg.AWS.Bucket != "" {
		s3, err := storage.NewS3Store(ctx, cfg.AWS.Region, cfg.AWS.Bucket, cfg.AWS.Endpoint)
		if err != nil {
			lg.Warnw("S3 unavailable, uploads disabled", "error", err)
		} else {
			store = s3
		}
	} else {
		lg.Warn("aws.bucket not set, uploads disabled")
	}

	mailer := brevo.NewClient(cfg.Brevo.APIKey, cfg.Brevo.FromEmail, cfg.Brevo.FromName, lg)
	if !mailer.IsConfigured() {
		lg.Warn("Brevo client not configured, OTP emails will fail")
	}

	students := repository.NewMongoStudentRepo(db)
	instructors := repository.NewMongoInstructorRepo(db)
	users := repository.NewMongoUserRepo(db)

	chatSvc := services.NewChatService(
		repository.NewMongoConversationRepo(db),
		repository.NewMongoIdentityStore(db),
		pub, m, lg,
		services.ChatConfig{Timeout: cfg.ChatTimeout(), MaxMessageLength: cfg.Chat.MaxMessageLength},
	)
	studentSvc := services.NewStudentService(students, tokens, cfg.StudentTokenTTL(), lg)
	instructorSvc := services.NewInstructorService(instructors, tokens, cfg.StaffTokenTTL(), lg)
	userSvc := services.NewUserService(users, tokens, cfg.StaffTokenTTL(), lg)
	courseSvc := services.NewCourseService(repository.NewMongoCourseRepo(db), instructors, store, cfg.PresignTTL(), cfg.S3.MaxUploadBytes, lg)
	enrollmentSvc := services.NewEnrollmentService(repository.NewMongoEnrollmentRepo(db), pub, lg)
	contactSvc := services.NewContactService(repository.NewMongoContactRepo(db))
	profileSvc := services.NewProfileService(students, repository.NewMongoProfileRepo(db), store, cfg.PresignTTL(), cfg.S3.MaxUploadBytes, lg)
	otpLimiter := middleware.NewRateLimiter(rdb, "otp_send", cfg.PasswordReset.MaxSendsPerHour, time.Hour, lg)
	passwordSvc := services.NewPasswordService(
		repository.NewMongoPasswordResetRepo(db), students, instructors, users,
		mailer, otpLimiter, cfg.OTPTTL(), lg,
	)

	app := fiber.New(fiber.Config{
		AppName:      "lms-service",
		ReadTimeout:  cfg.ReadTimeout(),
		WriteTimeout: cfg.WriteTimeout(),
		IdleTimeout:  cfg.IdleTimeout(),
		BodyLimit:    int(cfg.S3.MaxUploadBytes) + 1<<20,
		ErrorHandler: handlers.ErrorHandler,
	})

	ipLimiter := middleware.NewIPRateLimiter(cfg.RateLimit.PerIPPerMinute, cfg.RateLimit.Burst, lg)
	app.Use(lmsmw.RequestLogger(lg))
	app.Use(lmsmw.Recovery(lg))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.App.CORSOrigins, ","),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowCredentials: true,
	}))
	app.Use(ipLimiter.Handler())
	app.Use(m.Middleware())
	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))

	authLimiter := middleware.NewRateLimiter(rdb, "auth", cfg.RateLimit.AuthPerWindow,
		time.Duration(cfg.RateLimit.AuthWindowSeconds)*time.Second, lg)

	routes.Setup(app, routes.Handlers{
		Chat:        handlers.NewChatHandler(chatSvc),
		Students:    handlers.NewStudentHandler(studentSvc),
		Instructors: handlers.NewInstructorHandler(instructorSvc),
		Users:       handlers.NewUserHandler(userSvc),
		Courses:     handlers.NewCourseHandler(courseSvc, cfg.S3.MaxUploadBytes),
		Enrollments: handlers.NewEnrollmentHandler(enrollmentSvc),
		Contact:     handlers.NewContactHandler(contactSvc),
		Profile:     handlers.NewProfileHandler(profileSvc, cfg.S3.MaxUploadBytes),
		Password:    handlers.NewPasswordHandler(passwordSvc),
		Health: handlers.NewHealthHandler(map[string]handlers.Pinger{
			"mongo": func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) },
			"redis": func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		}),
	}, routes.Deps{
		Tokens:        tokens,
		StudentExists: studentSvc.Exists,
		AuthLimit:     authLimiter.MiddlewareByKey(middleware.ByIPAndPath),
	})

	return &Server{
		Cfg:       cfg,
		App:       app,
		Log:       lg,
		Mongo:     mongoClient,
		Redis:     rdb,
		Events:    pub,
		IPLimiter: ipLimiter,
	}, nil
}

func newPublisher(cfg *config.Config, lg *zap.SugaredLogger) (events.Publisher, error) {
	switch cfg.Events.Driver {
	case "kafka":
		lg.Infow("publishing events to kafka", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
		return events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, lg), nil
	case "nats":
		lg.Infow("publishing events to nats", "url", cfg.NATS.URL)
		return events.NewNATSPublisher(cfg.NATS.URL, cfg.NATS.SubjectPrefix)
	default:
		return events.Noop(), nil
	}
}

// Start registers with Consul when configured and serves HTTP in the background.
func (s *Server) Start() {
	if s.Cfg.Consul.Addr != "" {
		host := s.Cfg.Consul.ServiceHost
		if host == "" {
			host, _ = os.Hostname()
		}
		reg, err := discovery.Register(s.Cfg.Consul.Addr, s.Cfg.Consul.ServiceName, host, s.Cfg.App.Port, healthPath, s.Log)
		if err != nil {
			s.Log.Warnw("consul registration failed", "error", err)
		}
		s.Consul = reg
	}

	addr := ":" + strconv.Itoa(s.Cfg.App.Port)
	go func() {
		s.Log.Infow("starting lms-service", "addr", addr, "env", s.Cfg.App.Env)
		if err := s.App.Listen(addr); err != nil {
			s.Log.Fatalw("fiber server exited unexpectedly", "error", err)
		}
	}()
}

// Shutdown stops the HTTP server, then closes clients in dependency order.
func (s *Server) Shutdown(ctx context.Context) {
	s.Log.Info("shutting down lms-service...")

	if err := s.App.ShutdownWithContext(ctx); err != nil {
		s.Log.Errorw("fiber shutdown failed", "error", err)
	}
	s.IPLimiter.Stop()
	if err := s.Events.Close(); err != nil {
		s.Log.Errorw("failed to close events publisher", "error", err)
	}
	if err := s.Redis.Close(); err != nil {
		s.Log.Errorw("failed to close redis", "error", err)
	}
	if err := s.Mongo.Disconnect(ctx); err != nil {
		s.Log.Errorw("failed to disconnect mongo", "error", err)
	}
	if err := s.Consul.Deregister(); err != nil {
		s.Log.Errorw("consul deregistration failed", "error", err)
	}
	s.Log.Info("lms-service stopped")
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables:", err)
	}

	defaultPath := os.Getenv("APP_CONFIG")
	if defaultPath == "" {
		defaultPath = "config/config.yaml"
	}
	configPath := flag.String("config", defaultPath, "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	lg, err := logger.New(logger.Config{Development: cfg.IsDevelopment(), Level: cfg.App.LogLevel})
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	srv, err := NewServer(cfg, lg)
	if err != nil {
		lg.Fatalw("failed to start", "error", err)
	}
	srv.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()
	srv.Shutdown(ctx)
}
