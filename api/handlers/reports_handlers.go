package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"ajali/config"
	"ajali/core/auth"
	"ajali/core/reports"
	"ajali/core/store"
	"ajali/core/utils"
)

type ReportsHandler struct {
	cfg    *config.AppConfig
	svc    *reports.Service
	logger *utils.Logger
}

func NewReportsHandler(cfg *config.AppConfig, svc *reports.Service, logger *utils.Logger) *ReportsHandler {
	return &ReportsHandler{cfg: cfg, svc: svc, logger: logger}
}

type locationPayload struct {
	Latitude  coordinate `json:"latitude"`
	Longitude coordinate `json:"longitude"`
	Address   string     `json:"address"`
}

type createReportPayload struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Type        string          `json:"incident_type"`
	Location    locationPayload `json:"location"`
}

func (h *ReportsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload createReportPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	actor := auth.ActorFromContext(r.Context())
	rep, err := h.svc.Create(r.Context(), actor, reports.CreateReportInput{
		Title:       payload.Title,
		Description: payload.Description,
		Type:        payload.Type,
		Latitude:    payload.Location.Latitude.value,
		Longitude:   payload.Location.Longitude.value,
		Address:     payload.Location.Address,
	})
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"report": rep})
}

func (h *ReportsHandler) List(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFromContext(r.Context())
	pageSize := h.cfg.EffectivePageSize()
	page := queryInt(r, "page", 1)
	if page < 1 {
		page = 1
	}
	q := r.URL.Query()
	res, err := h.svc.ListVisible(r.Context(), actor, reports.ListFilter{
		Search: q.Get("q"),
		Status: q.Get("status"),
		Type:   q.Get("incident_type"),
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	})
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}
	if res == nil {
		res = []store.Report{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"reports":   res,
		"page":      page,
		"page_size": pageSize,
	})
}

func (h *ReportsHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFromContext(r.Context())
	id := urlParam(r, "id")
	rep, err := h.svc.Get(r.Context(), actor, id)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}
	media, err := h.svc.Media(r.Context(), actor, id)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}
	if media == nil {
		media = []store.MediaRef{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"report": rep, "media": media})
}

type updateStatusPayload struct {
	Status  string `json:"status"`
	Comment string `json:"comment"`
}

func (h *ReportsHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var payload updateStatusPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	actor := auth.ActorFromContext(r.Context())
	rep, entry, err := h.svc.Transition(r.Context(), actor, urlParam(r, "id"), payload.Status, payload.Comment)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"report": rep, "history_entry": entry})
}

func (h *ReportsHandler) History(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFromContext(r.Context())
	entries, err := h.svc.History(r.Context(), actor, urlParam(r, "id"))
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}
	if entries == nil {
		entries = []store.StatusAuditEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"history": entries})
}

func (h *ReportsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFromContext(r.Context())
	if err := h.svc.Delete(r.Context(), actor, urlParam(r, "id")); err != nil {
		respondServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "report deleted"})
}

type addMediaPayload struct {
	URL       string `json:"url"`
	MediaType string `json:"media_type"`
}

func (h *ReportsHandler) AddMedia(w http.ResponseWriter, r *http.Request) {
	var payload addMediaPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	actor := auth.ActorFromContext(r.Context())
	ref, err := h.svc.AddMedia(r.Context(), actor, urlParam(r, "id"), strings.TrimSpace(payload.URL), strings.TrimSpace(payload.MediaType))
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"media": ref})
}

func (h *ReportsHandler) ListMedia(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFromContext(r.Context())
	refs, err := h.svc.Media(r.Context(), actor, urlParam(r, "id"))
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}
	if refs == nil {
		refs = []store.MediaRef{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"media": refs})
}
