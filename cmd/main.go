package main

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"submission-service/internal/config"
	"submission-service/internal/database/minio"
	"submission-service/internal/database/postgres"
	"submission-service/internal/database/redis"
	"submission-service/internal/event"
	"submission-service/internal/handlers"
	"submission-service/internal/notification"
	"submission-service/internal/obs"
	"submission-service/internal/repository"
	"submission-service/internal/services"

	"github.com/gin-gonic/gin"
)

func setupLogging(logDir string) (*os.File, error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("Recovered from panic: %v\n", r)
		}
	}()

	fmt.Println("Log directory:", logDir)
	err := os.MkdirAll(logDir, 0o755)
	if err != nil {
		return nil, fmt.Errorf("failed to create log directory: %v", err)
	}

	currentTime := time.Now()
	logFileName := fmt.Sprintf("log_%s.log", currentTime.Format("2006-01-02"))
	logFile := filepath.Join(logDir, logFileName)

	file, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %v", err)
	}

	out := io.MultiWriter(os.Stdout, file)
	log.SetOutput(out)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	slog.SetDefault(slog.New(slog.NewTextHandler(out, nil)))

	return file, nil
}

func main() {
	cfg := config.New()

	logFile, err := setupLogging(cfg.LogDir)
	if err != nil {
		// keep serving on stderr when the log volume is not mounted
		log.Printf("Failed to set up file logging: %v", err)
	} else {
		defer logFile.Close()
	}

	db, err := postgres.ConnectAndCreateDB(cfg.PostgresCfg)
	if err != nil {
		log.Printf("error connect to database: %s", err)
		postgres.RetryConnectOnFailed(30*time.Second, &db, cfg.PostgresCfg)
	}
	defer db.Close()

	storage, err := minio.NewMinioClient(cfg.MinioCfg)
	if err != nil {
		log.Fatalf("Failed to connect to MinIO: %v", err)
	}

	var cache services.IPerformanceCache
	redisClient, err := redis.NewRedisClient(cfg.RedisCfg)
	if err != nil {
		slog.Warn("Redis unavailable, performance report will not be cached", "error", err)
	} else {
		defer redisClient.Close()
		cache = repository.NewPerformanceCache(redisClient.GetClient(), cfg.PerformanceTTL)
	}

	var publisher services.IEventPublisher = event.NoopPublisher{}
	rabbit, err := event.ConnectRabbitMQ(cfg.RabbitMQCfg)
	if err != nil {
		slog.Warn("RabbitMQ unavailable, submission events will be dropped", "error", err)
	} else {
		defer rabbit.Close()
		publisher = event.NewSubmissionPublisher(rabbit.Channel)
	}

	// repositories
	transactor := repository.NewTransactor(db)
	serialRepo := repository.NewSerialRepository(db)
	policyRepo := repository.NewPolicyRepository(db)
	userRepo := repository.NewUserRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	// services
	serialService := services.NewSerialService(serialRepo)
	submissionService := services.NewSubmissionService(transactor, policyRepo, userRepo, serialRepo, submissionRepo, publisher, cache)
	documentService := services.NewDocumentService(
		serialRepo,
		submissionRepo,
		storage,
		services.NewPDFRenderer(),
		notification.NewEmailService(cfg.SMTPCfg),
		publisher,
		cache,
		cfg.UploadCfg,
	)
	paymentService := services.NewPaymentService(transactor, submissionRepo, paymentRepo, publisher, cache)
	monitoringService := services.NewMonitoringService(submissionRepo, paymentRepo)
	performanceService := services.NewPerformanceService(submissionRepo, cache)

	stockMonitor := services.NewStockMonitor(serialRepo, publisher, cfg.StockMonitorCfg)
	if err := stockMonitor.Start(); err != nil {
		log.Fatalf("Failed to start serial stock monitor: %v", err)
	}
	defer stockMonitor.Stop()

	obs.Init()
	middleware := handlers.NewMiddleware(cfg.AuthCfg, cfg.UploadCfg)

	r := gin.New()
	r.Use(gin.Recovery(), obs.GinMiddleware(), middleware.RequestLogger(), middleware.CORS())
	r.MaxMultipartMemory = cfg.UploadCfg.MaxFileMB << 20

	handlers.NewHealthHandler().RegisterRoutes(r)
	handlers.NewSerialHandler(serialService, middleware).RegisterRoutes(r)
	handlers.NewSubmissionHandler(submissionService).RegisterRoutes(r)
	handlers.NewDocumentHandler(documentService, middleware, cfg.UploadCfg).RegisterRoutes(r)
	handlers.NewPaymentHandler(paymentService).RegisterRoutes(r)
	handlers.NewReportHandler(monitoringService, performanceService).RegisterRoutes(r)

	log.Printf("Submission service listening on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
