package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	myPostgresRepo "github.com/Miraines/MoonyAndStarry/shop-service/internal/adapters/db/postgres"
	myRedisRepo "github.com/Miraines/MoonyAndStarry/shop-service/internal/adapters/db/redis"
	"github.com/Miraines/MoonyAndStarry/shop-service/internal/adapters/blob/s3"
	"github.com/Miraines/MoonyAndStarry/shop-service/internal/adapters/notify/smtp"
	myHttp "github.com/Miraines/MoonyAndStarry/shop-service/internal/adapters/transport/http"
	"github.com/Miraines/MoonyAndStarry/shop-service/internal/adapters/transport/http/dto"
	"github.com/Miraines/MoonyAndStarry/shop-service/internal/app/account"
	"github.com/Miraines/MoonyAndStarry/shop-service/internal/app/auth/jwt"
	"github.com/Miraines/MoonyAndStarry/shop-service/internal/app/auth/password"
	"github.com/Miraines/MoonyAndStarry/shop-service/internal/app/auth/reset"
	appsvc "github.com/Miraines/MoonyAndStarry/shop-service/internal/app/auth/service"
	"github.com/Miraines/MoonyAndStarry/shop-service/internal/app/catalog"
	"github.com/Miraines/MoonyAndStarry/shop-service/internal/infra/config"
	lg "github.com/Miraines/MoonyAndStarry/shop-service/internal/infra/log"
	"github.com/Miraines/MoonyAndStarry/shop-service/internal/infra/migrate"
	"github.com/Miraines/MoonyAndStarry/shop-service/internal/infra/server"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		lg.Must(lg.Options{}).Fatal("failed to load config", zap.Error(err))
	}

	zapLog := lg.Must(lg.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Service: "shop-service"})
	defer zapLog.Sync()

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := myPostgresRepo.Open(cfg.DatabaseURL)
	if err != nil {
		zapLog.Fatal("failed to connect to database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		zapLog.Fatal("db handle", zap.Error(err))
	}
	defer sqlDB.Close()
	if err := migrate.Up(sqlDB, zapLog); err != nil {
		zapLog.Fatal("run migrations", zap.Error(err))
	}

	redisCli := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisCli.Close()

	s3Client, err := s3.NewClient(rootCtx, s3.Options{
		Region:       cfg.S3Region,
		BaseEndpoint: cfg.S3BaseEndpoint,
		AccessKey:    cfg.S3AccessKey,
		SecretKey:    cfg.S3SecretKey,
		UsePathStyle: cfg.S3UsePathStyle,
	})
	if err != nil {
		zapLog.Fatal("failed to init s3 client", zap.Error(err))
	}
	storage := s3.NewStorage(s3Client, cfg.S3Bucket, cfg.S3PublicBaseURL)

	mailer := smtp.NewMailer(smtp.Options{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	})

	if err := os.MkdirAll(cfg.UploadDir, 0o750); err != nil {
		zapLog.Fatal("create upload dir", zap.Error(err))
	}

	validate := dto.NewValidator()
	hasher := password.NewHasher(cfg.PasswordPepper)
	jwtUtil, err := jwt.NewJWTUtil(cfg)
	if err != nil {
		zapLog.Fatal("failed to init JWT util", zap.Error(err))
	}

	userRepo := myPostgresRepo.NewPostgresUserRepo(db)
	tokenRepo := myRedisRepo.NewRedisTokenRepo(redisCli)
	cooldownRepo := myRedisRepo.NewRedisCooldownRepo(redisCli, "otp:cooldown:")

	authSvc := appsvc.New(userRepo, tokenRepo, jwtUtil, hasher, storage, validate, zapLog)
	resetSvc := reset.New(userRepo, cooldownRepo, mailer, hasher, validate, zapLog, reset.Options{
		OTPTTL:        cfg.OTPTTL,
		MaxAttempts:   cfg.OTPMaxAttempts,
		Cooldown:      cfg.OTPCooldown,
		ResetTokenTTL: cfg.ResetTokenTTL,
	})
	accountSvc := account.New(myPostgresRepo.NewPostgresAddressRepo(db), validate)
	catalogSvc := catalog.New(
		myPostgresRepo.NewPostgresCategoryRepo(db),
		myPostgresRepo.NewPostgresProductRepo(db),
		storage, validate, zapLog,
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	maxUpload := int64(cfg.MaxUploadSizeMB) << 20
	handler := myHttp.NewHandler(myHttp.Deps{
		Auth:    authSvc,
		Reset:   resetSvc,
		Account: accountSvc,
		Catalog: catalogSvc,
		Health: []myHttp.HealthCheck{
			myHttp.DatabaseCheck(db),
			myHttp.RedisCheck(redisCli),
		},
		Cookies: myHttp.CookieOptions{Domain: cfg.CookieDomain, Secure: cfg.CookieSecure},
		Uploads: myHttp.UploadOptions{Dir: cfg.UploadDir, MaxBytes: maxUpload},
		Log:     zapLog,
	})

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := myHttp.NewRouter(handler, myHttp.RouterOptions{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: cfg.AllowCredentials,
		RateLimitRPS:     cfg.RateLimitRPS,
		RateLimitBurst:   cfg.RateLimitBurst,
		MaxUploadBytes:   maxUpload,
		Registry:         registry,
	})

	g, ctx := errgroup.WithContext(rootCtx)
	g.Go(func() error {
		return server.Run(ctx, cfg.HTTPAddress, router, zapLog)
	})

	<-ctx.Done()
	zapLog.Info("shutdown signal received")
	if err := g.Wait(); err != nil {
		zapLog.Error("server terminated", zap.Error(err))
	}
}
