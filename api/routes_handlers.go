package api

import "ajali/api/handlers"

type routeHandlers struct {
	auth    *handlers.AuthHandler
	reports *handlers.ReportsHandler
	admin   *handlers.AdminHandler
}

func (s *Server) newRouteHandlers() routeHandlers {
	return routeHandlers{
		auth:    handlers.NewAuthHandler(s.cfg, s.users, s.tokens, s.tokenManager, s.audits, s.logger),
		reports: handlers.NewReportsHandler(s.cfg, s.reportsSvc, s.logger),
		admin:   handlers.NewAdminHandler(s.reportsSvc, s.audits, s.logger),
	}
}
