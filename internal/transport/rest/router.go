package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"solvextra/internal/model"
	"solvextra/internal/service"
	"solvextra/internal/transport/rest/handler"
	"solvextra/internal/transport/rest/middleware"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService   *service.AuthService
	FormService   *service.FormService
	AuditService  *service.AuditService
	ReviewService *service.ReviewService
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	formHandler := handler.NewFormHandler(c.FormService)
	auditHandler := handler.NewAuditHandler(c.AuditService)
	reviewHandler := handler.NewReviewHandler(c.ReviewService, c.AuditService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Admin routes (form authoring, accounts, report edits)
	adminRoutes := v1.NewRoute().Subrouter()
	adminRoutes.Use(authMW.RequireRole())

	adminRoutes.HandleFunc("/users", authHandler.CreateUser).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/forms", formHandler.Create).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/forms/{formId}", formHandler.Update).Methods("PUT", "OPTIONS")
	adminRoutes.HandleFunc("/forms/{formId}", formHandler.Delete).Methods("DELETE", "OPTIONS")
	adminRoutes.HandleFunc("/reports/{auditId}/answers", reviewHandler.EditAnswers).Methods("PUT", "OPTIONS")

	// Auditor routes (conducting audits; every role above auditor may read forms)
	auditorRoutes := v1.NewRoute().Subrouter()
	auditorRoutes.Use(authMW.RequireRole(model.RoleAuditor, model.RoleTeamLeader, model.RoleManager, model.RoleMasterAuditor))

	auditorRoutes.HandleFunc("/forms", formHandler.List).Methods("GET", "OPTIONS")
	auditorRoutes.HandleFunc("/forms/{formId}", formHandler.Get).Methods("GET", "OPTIONS")
	auditorRoutes.HandleFunc("/audits", auditHandler.Start).Methods("POST", "OPTIONS")
	auditorRoutes.HandleFunc("/audits/{sessionId}/answers", auditHandler.Answer).Methods("PUT", "OPTIONS")
	auditorRoutes.HandleFunc("/audits/{sessionId}/visible", auditHandler.Visible).Methods("GET", "OPTIONS")
	auditorRoutes.HandleFunc("/audits/{sessionId}/submit", auditHandler.Submit).Methods("POST", "OPTIONS")

	// Review routes (reading reports is open to the review chain)
	reviewRoutes := v1.NewRoute().Subrouter()
	reviewRoutes.Use(authMW.RequireRole(model.RoleAuditor, model.RoleTeamLeader, model.RoleManager, model.RoleMasterAuditor))

	reviewRoutes.HandleFunc("/reports", reviewHandler.List).Methods("GET", "OPTIONS")
	reviewRoutes.HandleFunc("/reports/{auditId}", reviewHandler.Get).Methods("GET", "OPTIONS")

	// ATA routes (master auditor re-validation)
	ataRoutes := v1.NewRoute().Subrouter()
	ataRoutes.Use(authMW.RequireRole(model.RoleMasterAuditor))

	ataRoutes.HandleFunc("/reports/{auditId}/ata/fatal", reviewHandler.FatalCheck).Methods("GET", "OPTIONS")
	ataRoutes.HandleFunc("/reports/{auditId}/ata/rescore", reviewHandler.Rescore).Methods("POST", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
