package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/tasktrack/tasktrack/internal/auth/jwt"
	"github.com/tasktrack/tasktrack/internal/auth/password"
	"github.com/tasktrack/tasktrack/internal/auth/service"
	"github.com/tasktrack/tasktrack/internal/auth/session"
	"github.com/tasktrack/tasktrack/internal/config"
	lg "github.com/tasktrack/tasktrack/internal/log"
	"github.com/tasktrack/tasktrack/internal/migrate"
	"github.com/tasktrack/tasktrack/internal/repo"
	pgrepo "github.com/tasktrack/tasktrack/internal/repo/postgres"
	redisrepo "github.com/tasktrack/tasktrack/internal/repo/redis"
	"github.com/tasktrack/tasktrack/internal/task"
	httptransport "github.com/tasktrack/tasktrack/internal/transport/http"
	"github.com/tasktrack/tasktrack/internal/transport/http/middleware"
)

func main() {
	zapLog := lg.Must(os.Getenv("LOG_LEVEL"))
	defer zapLog.Sync()

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("failed to load config", zap.Error(err))
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		zapLog.Fatal("failed to connect to database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		zapLog.Fatal("db handle", zap.Error(err))
	}
	defer sqlDB.Close()
	if err := migrate.Up(sqlDB); err != nil {
		zapLog.Fatal("run migrations", zap.Error(err))
	}

	var sessionRepo repo.SessionRepo
	switch cfg.SessionStore {
	case "redis":
		redisCli := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddress,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisCli.Close()
		sessionRepo = redisrepo.NewSessionRepo(redisCli)
	default:
		sessionRepo = pgrepo.NewSessionRepo(db)
	}

	validate := validator.New()
	_ = validate.RegisterValidation("strongpwd", func(fl validator.FieldLevel) bool {
		pwd := fl.Field().String()
		var hasUpper, hasDigit bool
		for _, r := range pwd {
			if unicode.IsUpper(r) {
				hasUpper = true
			}
			if unicode.IsDigit(r) {
				hasDigit = true
			}
		}
		return utf8.RuneCountInString(pwd) >= 8 && hasUpper && hasDigit
	})

	issuer, err := jwt.NewIssuer(cfg)
	if err != nil {
		zapLog.Fatal("failed to init token issuer", zap.Error(err))
	}

	userRepo := pgrepo.NewUserRepo(db)
	sessions := session.NewManager(sessionRepo, cfg.RefreshTokenTTL)
	hasher := password.NewHasher(cfg.PasswordPepper)
	authSvc := service.NewAuthService(userRepo, sessions, issuer, hasher, validate)
	taskSvc := task.NewService(pgrepo.NewTaskRepo(db))

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(zapLog))
	router.Use(middleware.RateLimitPerIP(50, 100, 10_000, time.Hour))
	router.Use(middleware.Metrics())

	corsConfig := cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept",
			"Authorization",
			"X-Requested-With",
		},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	httptransport.NewHandler(authSvc, taskSvc, issuer, zapLog).Routes(router)

	srv := &http.Server{Addr: cfg.HTTPAddress, Handler: router}
	rootCtx, cancel := context.WithCancel(context.Background())
	g, _ := errgroup.WithContext(rootCtx)

	g.Go(func() error {
		zapLog.Info("http server listening", zap.String("address", cfg.HTTPAddress))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLog.Info("shutdown signal received")
	cancel()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		zapLog.Error("shutdown error", zap.Error(err))
	}
	if err := g.Wait(); err != nil {
		zapLog.Error("server terminated", zap.Error(err))
	}
}
