package http

import (
	"net/http"

	"medical-appointments/internal/delivery/http/handler"
	"medical-appointments/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router             *mux.Router
	authHandler        *handler.AuthHandler
	userHandler        *handler.UserHandler
	doctorHandler      *handler.DoctorHandler
	appointmentHandler *handler.AppointmentHandler
	analyticsHandler   *handler.AnalyticsHandler
	auditLogHandler    *handler.AuditLogHandler
	authMiddleware     *middleware.AuthMiddleware
	corsMiddleware     *middleware.CORSMiddleware
	rateLimiter        *middleware.RateLimiter
}

func NewRouter(
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	doctorHandler *handler.DoctorHandler,
	appointmentHandler *handler.AppointmentHandler,
	analyticsHandler *handler.AnalyticsHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	rateLimiter *middleware.RateLimiter,
) *Router {
	return &Router{
		router:             mux.NewRouter(),
		authHandler:        authHandler,
		userHandler:        userHandler,
		doctorHandler:      doctorHandler,
		appointmentHandler: appointmentHandler,
		analyticsHandler:   analyticsHandler,
		auditLogHandler:    auditLogHandler,
		authMiddleware:     authMiddleware,
		corsMiddleware:     corsMiddleware,
		rateLimiter:        rateLimiter,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public, rate limited)
	limited := api.PathPrefix("/auth").Subrouter()
	limited.Use(r.rateLimiter.Limit)
	limited.HandleFunc("/register", r.authHandler.Register).Methods(http.MethodPost)
	limited.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)

	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)

	// Doctor catalog (public)
	api.HandleFunc("/doctors", r.doctorHandler.GetAllDoctors).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{id:[0-9]+}", r.doctorHandler.GetDoctor).Methods(http.MethodGet)

	// Authenticated user routes
	users := api.PathPrefix("/users").Subrouter()
	users.Use(r.authMiddleware.Authenticate)
	users.HandleFunc("/me", r.userHandler.GetProfile).Methods(http.MethodGet)
	users.HandleFunc("/me", r.userHandler.UpdateProfile).Methods(http.MethodPut)

	appointments := api.PathPrefix("/appointments").Subrouter()
	appointments.Use(r.authMiddleware.Authenticate)
	appointments.HandleFunc("", r.appointmentHandler.CreateAppointment).Methods(http.MethodPost)
	appointments.HandleFunc("/me", r.appointmentHandler.ListMyAppointments).Methods(http.MethodGet)
	appointments.HandleFunc("/availability", r.appointmentHandler.CheckAvailability).Methods(http.MethodPost)
	appointments.HandleFunc("/risk-preview", r.analyticsHandler.PreviewRisk).Methods(http.MethodPost)
	appointments.HandleFunc("/{id:[0-9]+}", r.appointmentHandler.GetAppointment).Methods(http.MethodGet)
	appointments.HandleFunc("/{id:[0-9]+}", r.appointmentHandler.UpdateAppointment).Methods(http.MethodPut)
	appointments.HandleFunc("/{id:[0-9]+}/cancel", r.appointmentHandler.CancelAppointment).Methods(http.MethodPatch)
	appointments.HandleFunc("/{id:[0-9]+}/risk", r.analyticsHandler.ScoreAppointment).Methods(http.MethodGet)

	// Admin routes (protected - admin only)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)

	admin.HandleFunc("/dashboard", r.analyticsHandler.Dashboard).Methods(http.MethodGet)

	// User management (admin)
	admin.HandleFunc("/users", r.userHandler.ListUsers).Methods(http.MethodGet)
	admin.HandleFunc("/users/{id:[0-9]+}", r.userHandler.GetUser).Methods(http.MethodGet)
	admin.HandleFunc("/users/{id:[0-9]+}", r.userHandler.UpdateUser).Methods(http.MethodPut)
	admin.HandleFunc("/users/{id:[0-9]+}/role", r.userHandler.ChangeRole).Methods(http.MethodPatch)
	admin.HandleFunc("/users/{id:[0-9]+}/status", r.userHandler.ChangeStatus).Methods(http.MethodPatch)

	// Doctor management (admin)
	admin.HandleFunc("/doctors", r.doctorHandler.CreateDoctor).Methods(http.MethodPost)
	admin.HandleFunc("/doctors", r.doctorHandler.GetAllDoctors).Methods(http.MethodGet)
	admin.HandleFunc("/doctors/{id:[0-9]+}", r.doctorHandler.GetDoctor).Methods(http.MethodGet)
	admin.HandleFunc("/doctors/{id:[0-9]+}", r.doctorHandler.UpdateDoctor).Methods(http.MethodPut)
	admin.HandleFunc("/doctors/{id:[0-9]+}", r.doctorHandler.DeleteDoctor).Methods(http.MethodDelete)

	// Appointment management (admin)
	admin.HandleFunc("/appointments", r.appointmentHandler.ListAppointments).Methods(http.MethodGet)
	admin.HandleFunc("/appointments", r.appointmentHandler.AdminCreateAppointment).Methods(http.MethodPost)
	admin.HandleFunc("/appointments/stats", r.appointmentHandler.GetStats).Methods(http.MethodGet)
	admin.HandleFunc("/appointments/{id:[0-9]+}", r.appointmentHandler.GetAppointment).Methods(http.MethodGet)
	admin.HandleFunc("/appointments/{id:[0-9]+}", r.appointmentHandler.AdminUpdateAppointment).Methods(http.MethodPut)
	admin.HandleFunc("/appointments/{id:[0-9]+}/cancel", r.appointmentHandler.CancelAppointment).Methods(http.MethodPatch)

	// Analytics (admin)
	admin.HandleFunc("/analytics/alerts", r.analyticsHandler.Alerts).Methods(http.MethodGet)
	admin.HandleFunc("/analytics/trends", r.analyticsHandler.Trends).Methods(http.MethodGet)
	admin.HandleFunc("/analytics/metrics", r.analyticsHandler.Metrics).Methods(http.MethodGet)

	// Audit trail (admin)
	admin.HandleFunc("/audit-logs", r.auditLogHandler.GetAllAuditLogs).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs/{id:[0-9]+}", r.auditLogHandler.GetAuditLog).Methods(http.MethodGet)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
