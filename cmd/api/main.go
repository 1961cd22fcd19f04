package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kangopak/ohisee-api/internal/application"
	appcomplaints "github.com/kangopak/ohisee-api/internal/application/complaints"
	appeod "github.com/kangopak/ohisee-api/internal/application/endofday"
	appmjc "github.com/kangopak/ohisee-api/internal/application/mjc"
	appnca "github.com/kangopak/ohisee-api/internal/application/nca"
	appquality "github.com/kangopak/ohisee-api/internal/application/quality"
	apprecalls "github.com/kangopak/ohisee-api/internal/application/recalls"
	apprecon "github.com/kangopak/ohisee-api/internal/application/reconciliation"
	appsuppliers "github.com/kangopak/ohisee-api/internal/application/suppliers"
	apptrends "github.com/kangopak/ohisee-api/internal/application/trends"
	appwaste "github.com/kangopak/ohisee-api/internal/application/waste"
	appwo "github.com/kangopak/ohisee-api/internal/application/workorders"
	"github.com/kangopak/ohisee-api/internal/config"
	aiClient "github.com/kangopak/ohisee-api/internal/infra/ai/openai"
	"github.com/kangopak/ohisee-api/internal/infra/db/postgres"
	"github.com/kangopak/ohisee-api/internal/infra/httpserver"
	notifyMail "github.com/kangopak/ohisee-api/internal/infra/notify"
	reportPDF "github.com/kangopak/ohisee-api/internal/infra/report"
	minioStore "github.com/kangopak/ohisee-api/internal/infra/storage"
	"github.com/kangopak/ohisee-api/internal/middleware"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	zlog, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer zlog.Sync()
	logger := zlog.Sugar()

	ctx := context.Background()

	// connect Postgres
	db, err := postgres.Connect(ctx, cfg.PostgresDSN())
	if err != nil {
		logger.Fatalw("postgres connect error", "error", err)
	}
	defer db.Close()

	// init repositories
	ncaRepo := postgres.NewNCARepository(db)
	mjcRepo := postgres.NewMJCRepository(db)
	woRepo := postgres.NewWorkOrderRepository(db)
	supplierRepo := postgres.NewSupplierRepository(db)
	complaintRepo := postgres.NewComplaintRepository(db)
	recallRepo := postgres.NewRecallRepository(db)
	wasteRepo := postgres.NewWasteRepository(db)
	auditRepo := postgres.NewAuditRepository(db)
	knowledgeRepo := postgres.NewKnowledgeRepository(db)

	// init minio
	store, err := minioStore.New(ctx,
		cfg.Minio.Endpoint,
		cfg.Minio.Region,
		cfg.Minio.BucketName,
		cfg.Minio.AccessKey,
		cfg.Minio.SecretKey,
		cfg.Minio.UseSSL,
	)
	if err != nil {
		logger.Fatalw("minio init error", "error", err)
	}

	// init AI scoring client
	ai := aiClient.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, knowledgeRepo)

	// init mailer + report generator
	mailer := notifyMail.NewMailer(
		cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password,
		cfg.SMTP.From, cfg.SMTP.ManagementTo,
	)
	pdf := reportPDF.NewPDFGenerator("Kangopak")

	clock := application.SystemClock{}

	// init services
	supplierSvc := &appsuppliers.Service{Suppliers: supplierRepo, NCAs: ncaRepo, Clock: clock, Log: logger}
	ncaSvc := &appnca.Service{Repo: ncaRepo, Audit: auditRepo, Notifier: mailer, Performance: supplierSvc, Clock: clock, Log: logger}
	mjcSvc := &appmjc.Service{Repo: mjcRepo, Audit: auditRepo, Clock: clock, Log: logger}
	woSvc := &appwo.Service{Repo: woRepo}
	qualitySvc := &appquality.Service{Scorer: ai, Suggester: ai, Audit: auditRepo, Clock: clock, Log: logger}
	eodSvc := &appeod.Service{
		NCAs: ncaRepo, MJCs: mjcRepo, WorkOrders: woRepo, Audit: auditRepo,
		Reports: pdf, Artifacts: store, Notifier: mailer, Clock: clock, Log: logger,
	}
	trendsSvc := &apptrends.Service{NCAs: ncaRepo, MJCs: mjcRepo, Clock: clock, Log: logger}
	reconSvc := &apprecon.Service{NCAs: ncaRepo, WorkOrders: woRepo, Waste: wasteRepo}
	complaintSvc := &appcomplaints.Service{Repo: complaintRepo, NCAs: ncaSvc, Clock: clock, Log: logger}
	recallSvc := &apprecalls.Service{Repo: recallRepo, Audit: auditRepo, Clock: clock, Log: logger}
	wasteSvc := &appwaste.Service{Repo: wasteRepo, NCAs: ncaRepo, Clock: clock, Log: logger}

	// init router
	api := httpserver.NewRouter(httpserver.Deps{
		Quality:        qualitySvc,
		NCAs:           ncaSvc,
		MJCs:           mjcSvc,
		WorkOrders:     woSvc,
		EndOfDay:       eodSvc,
		Trends:         trendsSvc,
		Suppliers:      supplierSvc,
		Reconciliation: reconSvc,
		Complaints:     complaintSvc,
		Recalls:        recallSvc,
		Waste:          wasteSvc,
		Audit:          auditRepo,
		HealthCheckers: map[string]middleware.HealthChecker{
			"database": &middleware.DatabaseHealthChecker{DB: db},
		},
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	mux := chi.NewRouter()
	mux.Use(middleware.Logging(logger))
	mux.Use(middleware.MetricsMiddleware)
	if len(cfg.APIKeys) > 0 {
		mux.Use(middleware.APIKeyAuth(cfg.APIKeys))
	}
	mux.Use(middleware.ActorContext)
	mux.Use(middleware.RateLimit(100, 10))
	mux.Mount("/", api)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		logger.Infow("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalw("server error", "error", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.Infow("shutting down server")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		logger.Errorw("shutdown error", "error", err)
	}
}
