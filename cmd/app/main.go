package main

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ReportMitra/citizen-client/internal/apiclient"
	"github.com/ReportMitra/citizen-client/internal/config"
	"github.com/ReportMitra/citizen-client/internal/handler"
	"github.com/ReportMitra/citizen-client/internal/repository"
	"github.com/ReportMitra/citizen-client/internal/repository/postgres"
	"github.com/ReportMitra/citizen-client/internal/server"
	"github.com/ReportMitra/citizen-client/internal/service"
	"github.com/ReportMitra/citizen-client/internal/session"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	if err := loadEnv(); err != nil {
		logger.Sugar().Panicf("failed to load environment variables: %s", err.Error())
	}

	if err := initConfig(); err != nil {
		logger.Sugar().Panicf("failed to initialize yaml config: %s", err.Error())
	}

	backendConfig, err := config.BackendConfig{
		BaseURL:       os.Getenv("BACKEND_URL"),
		APIPrefix:     viper.GetString("backend.api_prefix"),
		Timeout:       viper.GetDuration("backend.timeout"),
		RefreshSkew:   viper.GetDuration("backend.refresh_skew"),
		LogoutTimeout: viper.GetDuration("backend.logout_timeout"),
		HealthTimeout: viper.GetDuration("backend.health_timeout"),
		PresignTTL:    viper.GetDuration("backend.presign_ttl"),
	}.Normalize()
	if err != nil {
		logger.Sugar().Panicf("invalid backend config: %s", err.Error())
	}

	var db *pgxpool.Pool
	dbConfig := config.DBConfig{
		Username: os.Getenv("POSTGRES_USER"),
		Password: os.Getenv("POSTGRES_PASSWORD"),
		Host:     os.Getenv("POSTGRES_HOST"),
		Port:     os.Getenv("POSTGRES_PORT"),
		DBName:   os.Getenv("POSTGRES_DATABASE"),
		SSLMode:  os.Getenv("POSTGRES_SSLMODE"),
	}
	if dbConfig.Enabled() {
		db, err = postgres.DB(ctx, dbConfig)
		if err != nil {
			logger.Sugar().Panicf("failed to connect to postgres: %s", err.Error())
		}
		if err := db.Ping(ctx); err != nil {
			logger.Sugar().Panicf("failed to ping postgres: %s", err.Error())
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			logger.Sugar().Panicf("failed to migrate postgres: %s", err.Error())
		}
		defer db.Close()
		logger.Info("Successfully connected to PostgreSQL")
	} else {
		logger.Info("POSTGRES_HOST not set, keeping tracked reports in memory")
	}

	redisOptions := &redis.Options{
		Addr: os.Getenv("REDIS_ADDR"),
	}
	rdb := redis.NewClient(redisOptions)
	pong, err := rdb.Ping(ctx).Result()
	if err != nil {
		logger.Sugar().Panicf("failed to ping redis: %s", err.Error())
	}
	logger.Sugar().Infof("Successfully connected to Redis: %s", pong)

	repos := repository.New(db, rdb, viper.GetString("session.profile"))
	sessions := session.NewManager(ctx, repos.Redis.Session)

	api, err := apiclient.New(apiclient.Options{
		BaseURL:        backendConfig.BaseURL,
		APIPrefix:      backendConfig.APIPrefix,
		HTTPClient:     &http.Client{Timeout: backendConfig.Timeout},
		RefreshSkew:    backendConfig.RefreshSkew,
		RefreshTimeout: backendConfig.Timeout,
	}, sessions, logger)
	if err != nil {
		logger.Sugar().Panicf("failed to create backend client: %s", err.Error())
	}

	services := service.New(logger, repos, api, backendConfig)
	handlers := handler.New(logger, services)

	if status := services.Health.Check(ctx); status != service.HealthUp {
		logger.Sugar().Warnf("backend %s is %s", backendConfig.BaseURL, status)
	}

	srv := server.New()
	serverConfig := config.ServerConfig{
		Port:           viper.GetString("app.port"),
		Handler:        handlers.InitRoutes(),
		MaxHeaderBytes: 1 << 20,
		ReadTimeout:    time.Second * 10,
		// /events streams for as long as the client listens
		WriteTimeout: 0,
		OnShutdown:   handlers.Close,
	}
	go func(srv *server.Server, cfg config.ServerConfig) {
		if err := srv.Run(cfg); err != nil {
			logger.Sugar().Panicf("failed to run http server: %s", err.Error())
		}
	}(srv, serverConfig)

	logger.Info("Server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logger.Info("Server shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("failed to shut down http server: %s", err.Error())
	}
	if err := rdb.Close(); err != nil {
		logger.Sugar().Errorf("failed to close redis: %s", err.Error())
	}
}

func loadEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func initConfig() error {
	viper.AddConfigPath(".")
	viper.SetConfigType("yaml")
	viper.SetConfigName("app")
	viper.SetDefault("app.port", "8080")
	viper.SetDefault("backend.api_prefix", "/api")
	viper.SetDefault("session.profile", "default")
	return viper.ReadInConfig()
}
