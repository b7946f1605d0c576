package main

import (
	"context"
	"errors"
	"log"
	"maintrack-backend/controller"
	"maintrack-backend/dal"
	_ "maintrack-backend/docs"
	"maintrack-backend/middelware"
	"maintrack-backend/models"
	"maintrack-backend/repository"
	"maintrack-backend/services"
	"maintrack-backend/utils"
	"maintrack-backend/utils/logger"
	"maintrack-backend/worker"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

var config *models.Config

func Init() {
	var err error
	config, err = utils.GetConfig()
	if err != nil {
		log.Fatal(err)
	}
}

// @title MainTrack Maintenance API
// @version 1.0
// @description Maintenance request lifecycle, equipment status and planning views.
// @description
// @description ## Authentication
// @description Every endpoint except /health needs a bearer token.
// @description Outside production, POST /auth/token exchanges the email of an existing user for a token.
// @description The Swagger page offers a sign-in box that applies the token automatically.

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8081
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Authorization header using the Bearer scheme. Enter 'Bearer' [space] and then your token.
func main() {
	Init()
	appLogger := logger.NewLogger(config.LogLevel, config.LogFormat)
	appLogger.Infof("Starting %s %s (%s)", config.AppName, config.AppVersion, config.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dalContainer, err := dal.NewDALContainer(config, appLogger)
	if err != nil {
		appLogger.Fatalf("Failed to initialize storage: %v", err)
	}
	db := dalContainer.GetDatabaseClient()

	// Storage worker: create tables before serving, then keep checking them
	workerConfig := worker.DefaultWorkerConfig(config)
	appLogger.Debugf("Worker configuration: %s", utils.PrintPrettyJSON(workerConfig))
	infraWorker, err := worker.NewWorker(db, config, workerConfig, appLogger)
	if err != nil {
		appLogger.Fatalf("Failed to create infrastructure worker: %v", err)
	}
	provisionCtx, cancelProvision := context.WithTimeout(ctx, 5*time.Minute)
	if err := infraWorker.Provision(provisionCtx); err != nil {
		appLogger.Errorf("Storage is not ready, serving in degraded mode: %v", err)
	}
	cancelProvision()
	if err := infraWorker.Start(); err != nil {
		appLogger.Fatalf("Failed to start infrastructure worker: %v", err)
	}
	defer infraWorker.Stop()

	repos := repository.NewRepository(db, config, appLogger)
	svc := services.NewService(repos, infraWorker, appLogger, config)

	if config.BootstrapManagerEmail != "" {
		manager, err := svc.GetUserService().EnsureManager(ctx, config.BootstrapManagerEmail, config.BootstrapManagerName)
		if err != nil {
			appLogger.Fatalf("Failed to ensure bootstrap manager: %v", err)
		}
		appLogger.Infof("Bootstrap manager: %s", manager.ID)
	}

	jwtManager := middelware.NewJWTManager(config, appLogger, svc.GetUserService())

	if config.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	controller.NewController(svc, jwtManager, config, appLogger).RegisterRoutes(r)

	srv := &http.Server{
		Addr:              config.AppHost + ":" + config.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Infof("Listening on %s:%s", config.AppHost, config.AppPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Errorf("Graceful shutdown failed: %v", err)
	}
}
