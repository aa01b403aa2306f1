package http

import (
	"net/http"

	"involinks-backend/internal/handlers"
	"involinks-backend/internal/middleware"
	"involinks-backend/internal/models"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	totpHandler *handlers.TOTPHandler,
	userHandler *handlers.UserHandler,
	registrationHandler *handlers.RegistrationHandler,
	adminHandler *handlers.AdminHandler,
	planHandler *handlers.PlanHandler,
	paymentHandler *handlers.PaymentHandler,
	invoiceHandler *handlers.InvoiceHandler,
	peppolHandler *handlers.PeppolHandler,
	payableHandler *handlers.PayableHandler,
	settingHandler *handlers.SettingHandler,
	contentHandler *handlers.ContentHandler,
	analyticsHandler *handlers.AnalyticsHandler,
	reportHandler *handlers.ReportHandler,
	healthHandler *handlers.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()

	companyRoles := authMiddleware.RequireRole(models.RoleCompanyAdmin, models.RoleFinanceUser)
	adminOnly := authMiddleware.RequireRole(models.RoleCompanyAdmin)
	superAdmin := authMiddleware.RequireRole(models.RoleSuperAdmin)

	// Public API routes - Authentication
	r.HandleFunc("/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/auth/login/verify-2fa", authHandler.VerifyLogin2FA).Methods("POST")

	// Public API routes - Registration wizard and pricing
	r.HandleFunc("/api/register", registrationHandler.Start).Methods("POST")
	r.HandleFunc("/api/register/{companyId}/progress", registrationHandler.Progress).Methods("GET")
	r.HandleFunc("/api/register/{companyId}/company-info", registrationHandler.SubmitCompanyInfo).Methods("PUT")
	r.HandleFunc("/api/register/{companyId}/business-details", registrationHandler.SubmitBusinessDetails).Methods("PUT")
	r.HandleFunc("/api/register/{companyId}/documents", registrationHandler.UploadDocument).Methods("POST")
	r.HandleFunc("/api/register/{companyId}/documents/complete", registrationHandler.CompleteDocuments).Methods("POST")
	r.HandleFunc("/api/register/{companyId}/plan", registrationHandler.SelectPlan).Methods("PUT")
	r.HandleFunc("/api/register/{companyId}/finalize", registrationHandler.Finalize).Methods("POST")
	r.HandleFunc("/api/plans", planHandler.ListPlans).Methods("GET")

	// Public signature verification key for external auditors
	r.HandleFunc("/api/signing-key", invoiceHandler.SigningKey).Methods("GET")

	// Gateway webhook (signature-verified, no JWT)
	r.HandleFunc("/api/payments/webhook", paymentHandler.Webhook).Methods("POST")

	// Protected API routes - Account
	accountAPI := r.PathPrefix("/api/account").Subrouter()
	accountAPI.Use(authMiddleware.Authenticate)
	accountAPI.HandleFunc("/me", authHandler.Me).Methods("GET")
	accountAPI.HandleFunc("/change-password", authHandler.ChangePassword).Methods("POST")
	accountAPI.HandleFunc("/2fa/setup", totpHandler.Setup).Methods("POST")
	accountAPI.HandleFunc("/2fa/verify", totpHandler.Verify).Methods("POST")
	accountAPI.HandleFunc("/2fa/disable", totpHandler.Disable).Methods("POST")
	accountAPI.HandleFunc("/2fa/status", totpHandler.Status).Methods("GET")
	accountAPI.HandleFunc("/2fa/backup-codes", totpHandler.RegenerateBackupCodes).Methods("POST")

	// Protected API routes - Company users (admin manages seats)
	usersAPI := r.PathPrefix("/api/users").Subrouter()
	usersAPI.Use(authMiddleware.Authenticate)
	usersAPI.Handle("", adminOnly(http.HandlerFunc(userHandler.ListUsers))).Methods("GET")
	usersAPI.Handle("", adminOnly(http.HandlerFunc(userHandler.CreateUser))).Methods("POST")
	usersAPI.Handle("/{id}/active", adminOnly(http.HandlerFunc(userHandler.SetActive))).Methods("PATCH")

	// Protected API routes - Invoices
	invoicesAPI := r.PathPrefix("/api/invoices").Subrouter()
	invoicesAPI.Use(authMiddleware.Authenticate)
	invoicesAPI.Handle("", companyRoles(http.HandlerFunc(invoiceHandler.List))).Methods("GET")
	invoicesAPI.Handle("", companyRoles(http.HandlerFunc(invoiceHandler.CreateDraft))).Methods("POST")
	invoicesAPI.Handle("/preview", companyRoles(http.HandlerFunc(invoiceHandler.Preview))).Methods("POST")
	invoicesAPI.Handle("/import", companyRoles(http.HandlerFunc(invoiceHandler.Import))).Methods("POST")
	invoicesAPI.Handle("/verify-chain", companyRoles(http.HandlerFunc(invoiceHandler.VerifyChain))).Methods("GET")
	invoicesAPI.Handle("/pdf-batch", companyRoles(http.HandlerFunc(invoiceHandler.BulkDownloadPDFs))).Methods("POST")
	invoicesAPI.Handle("/{id}", companyRoles(http.HandlerFunc(invoiceHandler.Get))).Methods("GET")
	invoicesAPI.Handle("/{id}", companyRoles(http.HandlerFunc(invoiceHandler.UpdateDraft))).Methods("PUT")
	invoicesAPI.Handle("/{id}", companyRoles(http.HandlerFunc(invoiceHandler.DeleteDraft))).Methods("DELETE")
	invoicesAPI.Handle("/{id}/issue", companyRoles(http.HandlerFunc(invoiceHandler.Issue))).Methods("POST")
	invoicesAPI.Handle("/{id}/void", companyRoles(http.HandlerFunc(invoiceHandler.Void))).Methods("POST")
	invoicesAPI.Handle("/{id}/mark-paid", companyRoles(http.HandlerFunc(invoiceHandler.MarkPaid))).Methods("POST")
	invoicesAPI.Handle("/{id}/pdf", companyRoles(http.HandlerFunc(invoiceHandler.DownloadPDF))).Methods("GET")
	invoicesAPI.Handle("/{id}/archive", companyRoles(http.HandlerFunc(invoiceHandler.ArchivePDF))).Methods("POST")
	invoicesAPI.Handle("/{id}/ubl", companyRoles(http.HandlerFunc(peppolHandler.DownloadUBL))).Methods("GET")
	invoicesAPI.Handle("/{id}/peppol", companyRoles(http.HandlerFunc(peppolHandler.Send))).Methods("POST")
	invoicesAPI.Handle("/{id}/peppol", companyRoles(http.HandlerFunc(peppolHandler.Transmissions))).Methods("GET")

	// Protected API routes - PEPPOL transmissions
	peppolAPI := r.PathPrefix("/api/peppol").Subrouter()
	peppolAPI.Use(authMiddleware.Authenticate)
	peppolAPI.Handle("/transmissions/{id}/refresh", companyRoles(http.HandlerFunc(peppolHandler.RefreshStatus))).Methods("POST")

	// Protected API routes - Payables (AP inbox)
	payablesAPI := r.PathPrefix("/api/payables").Subrouter()
	payablesAPI.Use(authMiddleware.Authenticate)
	payablesAPI.Handle("", companyRoles(http.HandlerFunc(payableHandler.List))).Methods("GET")
	payablesAPI.Handle("", companyRoles(http.HandlerFunc(payableHandler.Create))).Methods("POST")
	payablesAPI.Handle("/{id}", companyRoles(http.HandlerFunc(payableHandler.Get))).Methods("GET")
	payablesAPI.Handle("/{id}/status", companyRoles(http.HandlerFunc(payableHandler.UpdateStatus))).Methods("PATCH")

	// Protected API routes - Reports and exports
	reportsAPI := r.PathPrefix("/api/reports").Subrouter()
	reportsAPI.Use(authMiddleware.Authenticate)
	reportsAPI.Handle("/invoices.csv", companyRoles(http.HandlerFunc(reportHandler.InvoicesCSV))).Methods("GET")
	reportsAPI.Handle("/payables.csv", companyRoles(http.HandlerFunc(reportHandler.PayablesCSV))).Methods("GET")
	reportsAPI.Handle("/faf", companyRoles(http.HandlerFunc(reportHandler.FAF))).Methods("GET")
	reportsAPI.Handle("/vat-return", companyRoles(http.HandlerFunc(reportHandler.VATReturn))).Methods("GET")

	// Protected API routes - Company settings and subscription
	settingsAPI := r.PathPrefix("/api/settings").Subrouter()
	settingsAPI.Use(authMiddleware.Authenticate)
	settingsAPI.Handle("", companyRoles(http.HandlerFunc(settingHandler.List))).Methods("GET")
	settingsAPI.Handle("/{key}", companyRoles(http.HandlerFunc(settingHandler.Get))).Methods("GET")
	settingsAPI.Handle("/{key}", adminOnly(http.HandlerFunc(settingHandler.Set))).Methods("PUT")
	settingsAPI.Handle("/{key}", adminOnly(http.HandlerFunc(settingHandler.Delete))).Methods("DELETE")

	subscriptionAPI := r.PathPrefix("/api/subscription").Subrouter()
	subscriptionAPI.Use(authMiddleware.Authenticate)
	subscriptionAPI.Handle("", companyRoles(http.HandlerFunc(planHandler.CurrentSubscription))).Methods("GET")
	subscriptionAPI.Handle("/checkout", adminOnly(http.HandlerFunc(paymentHandler.CreateCheckout))).Methods("POST")
	subscriptionAPI.Handle("/verify-payment", adminOnly(http.HandlerFunc(paymentHandler.VerifyPayment))).Methods("POST")

	// Content blocks: reads are tenant-wide, writes are super admin
	contentAPI := r.PathPrefix("/api/content").Subrouter()
	contentAPI.Use(authMiddleware.Authenticate)
	contentAPI.HandleFunc("/{key}", contentHandler.Get).Methods("GET")

	// Super-admin routes
	adminAPI := r.PathPrefix("/api/admin").Subrouter()
	adminAPI.Use(authMiddleware.Authenticate)
	adminAPI.Handle("/companies", superAdmin(http.HandlerFunc(adminHandler.ListCompanies))).Methods("GET")
	adminAPI.Handle("/companies/pending", superAdmin(http.HandlerFunc(adminHandler.PendingCompanies))).Methods("GET")
	adminAPI.Handle("/companies/{id}", superAdmin(http.HandlerFunc(adminHandler.ReviewDetail))).Methods("GET")
	adminAPI.Handle("/companies/{id}/approve", superAdmin(http.HandlerFunc(adminHandler.Approve))).Methods("POST")
	adminAPI.Handle("/companies/{id}/reject", superAdmin(http.HandlerFunc(adminHandler.Reject))).Methods("POST")
	adminAPI.Handle("/companies/{id}/suspend", superAdmin(http.HandlerFunc(adminHandler.Suspend))).Methods("POST")
	adminAPI.Handle("/companies/{id}/reinstate", superAdmin(http.HandlerFunc(adminHandler.Reinstate))).Methods("POST")
	adminAPI.Handle("/documents/{id}/review", superAdmin(http.HandlerFunc(adminHandler.ReviewDocument))).Methods("POST")
	adminAPI.Handle("/dashboard", superAdmin(http.HandlerFunc(analyticsHandler.Dashboard))).Methods("GET")
	adminAPI.Handle("/dashboard/companies", superAdmin(http.HandlerFunc(analyticsHandler.Companies))).Methods("GET")
	adminAPI.Handle("/dashboard/companies.csv", superAdmin(http.HandlerFunc(analyticsHandler.CompaniesCSV))).Methods("GET")
	adminAPI.Handle("/login-logs", superAdmin(http.HandlerFunc(userHandler.RecentLogins))).Methods("GET")
	adminAPI.Handle("/content", superAdmin(http.HandlerFunc(contentHandler.List))).Methods("GET")
	adminAPI.Handle("/content/{key}", superAdmin(http.HandlerFunc(contentHandler.Set))).Methods("PUT")
	adminAPI.Handle("/content/{key}", superAdmin(http.HandlerFunc(contentHandler.Delete))).Methods("DELETE")

	// Health endpoints (no auth required - for Kubernetes probes)
	r.HandleFunc("/health", healthHandler.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.ReadinessHealth).Methods("GET")
	r.HandleFunc("/health/detailed", healthHandler.DetailedHealth).Methods("GET")

	// Metrics endpoint (Prometheus format)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
