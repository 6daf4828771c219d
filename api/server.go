package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"ajali/config"
	"ajali/core/auth"
	"ajali/core/rbac"
	"ajali/core/reports"
	"ajali/core/store"
	"ajali/core/utils"
)

type Server struct {
	cfg          *config.AppConfig
	logger       *utils.Logger
	users        store.UsersStore
	tokens       store.TokenStore
	audits       store.AuditStore
	policy       *rbac.Policy
	tokenManager *auth.TokenManager
	reportsSvc   *reports.Service

	httpServer *http.Server
}

type ServerDeps struct {
	Cfg          *config.AppConfig
	Logger       *utils.Logger
	Users        store.UsersStore
	Tokens       store.TokenStore
	Audits       store.AuditStore
	Policy       *rbac.Policy
	TokenManager *auth.TokenManager
	ReportsSvc   *reports.Service
}

func NewServer(deps ServerDeps) *Server {
	return &Server{
		cfg:          deps.Cfg,
		logger:       deps.Logger,
		users:        deps.Users,
		tokens:       deps.Tokens,
		audits:       deps.Audits,
		policy:       deps.Policy,
		tokenManager: deps.TokenManager,
		reportsSvc:   deps.ReportsSvc,
	}
}

func (s *Server) Router() http.Handler {
	h := s.newRouteHandlers()

	r := chi.NewRouter()
	r.Use(s.recoverMiddleware)
	r.Use(s.securityHeadersMiddleware)
	r.Use(s.loggingMiddleware)

	r.Route("/api", func(apiRouter chi.Router) {
		apiRouter.Use(s.jsonMiddleware)

		apiRouter.Route("/auth", func(authRouter chi.Router) {
			authRouter.MethodFunc("POST", "/register", s.rateLimitMiddleware(h.auth.Register))
			authRouter.MethodFunc("POST", "/login", s.rateLimitMiddleware(h.auth.Login))
			authRouter.MethodFunc("POST", "/logout", s.withAuth(h.auth.Logout))
			authRouter.MethodFunc("GET", "/me", s.withAuth(h.auth.Me))
		})

		apiRouter.Route("/reports", func(reportsRouter chi.Router) {
			reportsRouter.MethodFunc("GET", "/", s.withAuth(h.reports.List))
			reportsRouter.MethodFunc("POST", "/", s.withAuth(s.requirePermission(rbac.PermReportsCreate)(h.reports.Create)))
			reportsRouter.MethodFunc("GET", "/{id}", s.withAuth(h.reports.Get))
			reportsRouter.MethodFunc("DELETE", "/{id}", s.withAuth(s.requirePermission(rbac.PermReportsDelete)(h.reports.Delete)))
			reportsRouter.MethodFunc("PATCH", "/{id}/status", s.withAuth(s.requirePermission(rbac.PermReportsTransition)(h.reports.UpdateStatus)))
			reportsRouter.MethodFunc("GET", "/{id}/history", s.withAuth(h.reports.History))
			reportsRouter.MethodFunc("GET", "/{id}/media", s.withAuth(h.reports.ListMedia))
			reportsRouter.MethodFunc("POST", "/{id}/media", s.withAuth(s.requirePermission(rbac.PermReportsMedia)(h.reports.AddMedia)))
		})

		apiRouter.Route("/admin", func(adminRouter chi.Router) {
			adminRouter.MethodFunc("GET", "/stats", s.withAuth(s.requirePermission(rbac.PermReportsStats)(h.admin.Stats)))
			adminRouter.MethodFunc("GET", "/audit-log", s.withAuth(s.requirePermission(rbac.PermReportsStats)(h.admin.AuditLog)))
		})
	})

	return r
}

func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Printf("HTTP listening on %s", s.cfg.ListenAddr)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
