package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"involinks-backend/internal/auth"
	"involinks-backend/internal/cache"
	"involinks-backend/internal/config"
	"involinks-backend/internal/database"
	"involinks-backend/internal/handlers"
	"involinks-backend/internal/health"
	h "involinks-backend/internal/http"
	"involinks-backend/internal/middleware"
	"involinks-backend/internal/monitoring"
	"involinks-backend/internal/peppol"
	"involinks-backend/internal/repositories"
	"involinks-backend/internal/services"
	"involinks-backend/internal/signing"
	"involinks-backend/internal/storage"

	"github.com/jackc/pgx/v5/pgxpool"
)

func connectDatabase(cfg *config.Config) *pgxpool.Pool {
	connStr := fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
		cfg.Database.User, cfg.Database.Password,
		cfg.Database.Host, cfg.Database.Port, cfg.Database.Name)

	poolCfg, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		log.Fatalf("Invalid database config: %v", err)
	}
	poolCfg.MaxConns = 10
	poolCfg.MinConns = 2

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("Database unreachable: %v", err)
	}
	return pool
}

func main() {
	cfg := config.Load()

	pool := connectDatabase(cfg)
	defer pool.Close()
	log.Printf("Connected to database: %s:%d/%s", cfg.Database.Host, cfg.Database.Port, cfg.Database.Name)

	// Redis cache is optional - graceful fallback if unavailable
	if err := cache.Init(); err != nil {
		log.Printf("[Redis] Cache unavailable: %v (login will use bcrypt only)", err)
	} else {
		log.Println("[Redis] Cache connected successfully")
	}

	// Run embedded database migrations
	log.Println("Running database migrations...")
	migrator := database.NewMigrator(pool)
	{
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := migrator.RunMigrations(ctx); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	}

	healthChecker := health.NewHealthChecker(pool)

	// Ops dashboard runs on its own port, off the public ingress
	go monitoring.NewServer(pool, 9090).Start()

	jwtManager := auth.NewJWTManager(cfg)

	// Object storage is optional; registration document uploads and PDF
	// archival degrade when unconfigured.
	store, err := storage.New(cfg)
	if err != nil {
		log.Printf("[Storage] Object storage unavailable: %v", err)
		store = nil
	}

	// Invoice signing key is optional in development
	var signer *signing.Signer
	if cfg.Signing.PrivateKeyPath != "" {
		signer, err = signing.LoadSigner(cfg.Signing.PrivateKeyPath)
		if err != nil {
			log.Fatalf("Failed to load signing key: %v", err)
		}
		log.Println("[Signing] Invoice signing key loaded")
	} else {
		log.Println("[Signing] No signing key configured, invoices will carry hashes only")
	}

	peppolProvider, err := peppol.NewProvider(cfg)
	if err != nil {
		log.Fatalf("Failed to configure PEPPOL provider: %v", err)
	}
	log.Printf("[Peppol] Using provider %s", peppolProvider.Name())

	// Repositories
	userRepo := repositories.NewUserRepository(pool)
	companyRepo := repositories.NewCompanyRepository(pool)
	planRepo := repositories.NewPlanRepository(pool)
	subscriptionRepo := repositories.NewSubscriptionRepository(pool)
	documentRepo := repositories.NewDocumentRepository(pool)
	registrationRepo := repositories.NewRegistrationRepository(pool)
	invoiceRepo := repositories.NewInvoiceRepository(pool)
	payableRepo := repositories.NewPayableRepository(pool)
	settingRepo := repositories.NewSettingRepository(pool)
	contentRepo := repositories.NewContentRepository(pool)
	peppolRepo := repositories.NewPeppolRepository(pool)
	transactionRepo := repositories.NewTransactionRepository(pool)
	totpRepo := repositories.NewTOTPRepository(pool)
	loginLogRepo := repositories.NewLoginLogRepository(pool)
	analyticsRepo := repositories.NewAnalyticsRepository(pool)

	// Services
	totpService := services.NewTOTPService(userRepo, totpRepo)
	userService := services.NewUserService(userRepo, loginLogRepo, totpService, jwtManager)
	registrationService := services.NewRegistrationService(companyRepo, registrationRepo,
		documentRepo, planRepo, subscriptionRepo, store)
	companyService := services.NewCompanyService(companyRepo, documentRepo,
		registrationRepo, subscriptionRepo, planRepo)
	paymentService := services.NewPaymentService(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret,
		cfg.Razorpay.WebhookSecret, transactionRepo, subscriptionRepo, planRepo)
	invoiceService := services.NewInvoiceService(invoiceRepo, companyRepo,
		subscriptionRepo, planRepo, signer)
	payableService := services.NewPayableService(payableRepo)
	settingService := services.NewSettingService(settingRepo)
	contentService := services.NewContentService(contentRepo)
	analyticsService := services.NewAnalyticsService(analyticsRepo)
	reportService := services.NewReportService(invoiceRepo, payableRepo, companyRepo)
	pdfService := services.NewPDFService(invoiceRepo, companyRepo, store)
	peppolService := services.NewPeppolService(peppolProvider, peppolRepo,
		invoiceRepo, companyRepo, settingRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	totpHandler := handlers.NewTOTPHandler(totpService, userRepo)
	userHandler := handlers.NewUserHandler(userService)
	registrationHandler := handlers.NewRegistrationHandler(registrationService)
	adminHandler := handlers.NewAdminHandler(companyService)
	planHandler := handlers.NewPlanHandler(companyService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	invoiceHandler := handlers.NewInvoiceHandler(invoiceService, pdfService)
	peppolHandler := handlers.NewPeppolHandler(peppolService)
	payableHandler := handlers.NewPayableHandler(payableService)
	settingHandler := handlers.NewSettingHandler(settingService)
	contentHandler := handlers.NewContentHandler(contentService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)
	reportHandler := handlers.NewReportHandler(reportService)
	healthHandler := handlers.NewHealthHandler(healthChecker)

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, userRepo)

	router := h.NewRouter(authHandler, totpHandler, userHandler, registrationHandler,
		adminHandler, planHandler, paymentHandler, invoiceHandler, peppolHandler,
		payableHandler, settingHandler, contentHandler, analyticsHandler,
		reportHandler, healthHandler, authMiddleware)

	corsMiddleware := middleware.NewCORS(cfg)
	handler := middleware.PanicRecovery(middleware.MetricsMiddleware(corsMiddleware(router)))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("InvoLinks API listening on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
