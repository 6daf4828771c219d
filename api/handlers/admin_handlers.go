package handlers

import (
	"net/http"

	"ajali/core/auth"
	"ajali/core/reports"
	"ajali/core/store"
	"ajali/core/utils"
)

type AdminHandler struct {
	svc    *reports.Service
	audits store.AuditStore
	logger *utils.Logger
}

func NewAdminHandler(svc *reports.Service, audits store.AuditStore, logger *utils.Logger) *AdminHandler {
	return &AdminHandler{svc: svc, audits: audits, logger: logger}
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFromContext(r.Context())
	stats, err := h.svc.Stats(r.Context(), actor)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"stats": stats})
}

func (h *AdminHandler) AuditLog(w http.ResponseWriter, r *http.Request) {
	records, err := h.audits.ListRecent(r.Context(), queryInt(r, "limit", 100))
	if err != nil {
		h.logger.Errorf("ADMIN audit log: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if records == nil {
		records = []store.AuditRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"audit_log": records})
}
