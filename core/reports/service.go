package reports

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"ajali/config"
	"ajali/core/auth"
	"ajali/core/rbac"
	"ajali/core/store"
	"ajali/core/utils"
)

const (
	minTitleLen       = 5
	maxTitleLen       = 200
	minDescriptionLen = 20
)

// Service owns the report lifecycle: creation, listing, status transitions
// and the audit trail around them. Authorization is checked here, not in the
// HTTP layer, so every caller goes through the same gate.
type Service struct {
	cfg     *config.AppConfig
	reports store.ReportsStore
	audits  store.AuditStore
	policy  *rbac.Policy
	logger  *utils.Logger
}

func NewService(cfg *config.AppConfig, reports store.ReportsStore, audits store.AuditStore, policy *rbac.Policy, logger *utils.Logger) *Service {
	return &Service{cfg: cfg, reports: reports, audits: audits, policy: policy, logger: logger}
}

type CreateReportInput struct {
	Title       string
	Description string
	Type        string
	Latitude    *float64
	Longitude   *float64
	Address     string
}

type ListFilter struct {
	Search string
	Status string
	Type   string
	Limit  int
	Offset int
}

// Stats is the admin dashboard summary.
type Stats struct {
	Total    int                        `json:"total"`
	ByStatus map[store.Status]int       `json:"by_status"`
	ByType   map[store.IncidentType]int `json:"by_type"`
}

// Create validates the submission and stores it with status pending. Checks
// run in a fixed order and stop at the first failure, so a submission with
// several problems always reports the same one.
func (s *Service) Create(ctx context.Context, actor *auth.Actor, input CreateReportInput) (*store.Report, error) {
	if actor == nil || !s.policy.Allowed(actor.Role, rbac.PermReportsCreate) {
		return nil, ErrUnauthorized
	}
	title := strings.TrimSpace(input.Title)
	if n := utf8.RuneCountInString(title); n < minTitleLen || n > maxTitleLen {
		return nil, ErrInvalidTitle
	}
	description := strings.TrimSpace(input.Description)
	if utf8.RuneCountInString(description) < minDescriptionLen {
		return nil, ErrInvalidDescription
	}
	incidentType, ok := store.ParseIncidentType(input.Type)
	if !ok {
		return nil, ErrInvalidType
	}
	if input.Latitude == nil || input.Longitude == nil {
		return nil, ErrMissingLocation
	}
	report := &store.Report{
		OwnerID:     actor.ID,
		Title:       title,
		Description: description,
		Type:        incidentType,
		Location: store.Location{
			Latitude:  *input.Latitude,
			Longitude: *input.Longitude,
			Address:   strings.TrimSpace(input.Address),
		},
		Status: store.StatusPending,
	}
	if err := s.reports.CreateReport(ctx, report); err != nil {
		return nil, fmt.Errorf("create report: %w", err)
	}
	s.log(ctx, actor, "report.create", report.ID)
	return report, nil
}

// Transition moves a report to the target status, appending the audit entry
// atomically with the status write. Only roles holding the transition
// permission may call it regardless of the target.
func (s *Service) Transition(ctx context.Context, actor *auth.Actor, reportID, target, comment string) (*store.Report, *store.StatusAuditEntry, error) {
	if actor == nil || !s.policy.Allowed(actor.Role, rbac.PermReportsTransition) {
		return nil, nil, ErrUnauthorized
	}
	to, ok := store.ParseStatus(target)
	if !ok {
		return nil, nil, ErrIllegalTransition
	}
	rep, err := s.reports.GetReport(ctx, reportID)
	if err != nil {
		return nil, nil, fmt.Errorf("load report: %w", err)
	}
	if rep == nil {
		return nil, nil, ErrNotFound
	}
	if !CanTransition(rep.Status, to) {
		return nil, nil, ErrIllegalTransition
	}
	entry, err := s.reports.TransitionReport(ctx, rep.ID, rep.Status, to, actor.ID, comment)
	if err == store.ErrConflict {
		return nil, nil, s.classifyConflict(ctx, rep.ID, to)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("apply transition: %w", err)
	}
	s.log(ctx, actor, "report.status.change", fmt.Sprintf("%s: %s -> %s", rep.ID, rep.Status, to))
	rep.Status = to
	rep.UpdatedAt = entry.CreatedAt
	return rep, entry, nil
}

// classifyConflict re-reads the report after a lost conditional write so the
// caller sees the current state of the world, not a stale snapshot.
func (s *Service) classifyConflict(ctx context.Context, reportID string, to store.Status) error {
	cur, err := s.reports.GetReport(ctx, reportID)
	if err != nil {
		return fmt.Errorf("reload after conflict: %w", err)
	}
	if cur == nil {
		return ErrNotFound
	}
	if !CanTransition(cur.Status, to) {
		return ErrIllegalTransition
	}
	return ErrConflict
}

// ListVisible lists the reports the actor is allowed to see. Ownership is
// resolved first and never widened by filters: a citizen's search runs only
// over their own reports.
func (s *Service) ListVisible(ctx context.Context, actor *auth.Actor, filter ListFilter) ([]store.Report, error) {
	if actor == nil {
		return nil, ErrUnauthorized
	}
	f := store.ReportFilter{
		Search: strings.TrimSpace(filter.Search),
		Status: normalizeFilterValue(filter.Status),
		Type:   normalizeFilterValue(filter.Type),
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}
	if f.Limit <= 0 {
		f.Limit = s.cfg.EffectivePageSize()
	}
	if !s.policy.Allowed(actor.Role, rbac.PermReportsViewAll) {
		if !s.policy.Allowed(actor.Role, rbac.PermReportsViewOwn) {
			return nil, ErrUnauthorized
		}
		f.OwnerID = actor.ID
	}
	res, err := s.reports.ListReports(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return res, nil
}

// Get returns a single report. A citizen asking for someone else's report
// gets not-found, not forbidden, so report ids are not probeable.
func (s *Service) Get(ctx context.Context, actor *auth.Actor, reportID string) (*store.Report, error) {
	if actor == nil {
		return nil, ErrUnauthorized
	}
	rep, err := s.reports.GetReport(ctx, reportID)
	if err != nil {
		return nil, fmt.Errorf("load report: %w", err)
	}
	if rep == nil {
		return nil, ErrNotFound
	}
	if !s.canView(actor, rep) {
		return nil, ErrNotFound
	}
	return rep, nil
}

// History returns the full status trail, oldest first. Visibility follows
// the report itself.
func (s *Service) History(ctx context.Context, actor *auth.Actor, reportID string) ([]store.StatusAuditEntry, error) {
	if _, err := s.Get(ctx, actor, reportID); err != nil {
		return nil, err
	}
	entries, err := s.reports.ListHistory(ctx, reportID)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return entries, nil
}

// Delete removes a report. Its status trail is kept on purpose: the audit
// record of what happened must survive the report itself.
func (s *Service) Delete(ctx context.Context, actor *auth.Actor, reportID string) error {
	if actor == nil || !s.policy.Allowed(actor.Role, rbac.PermReportsDelete) {
		return ErrUnauthorized
	}
	rep, err := s.reports.GetReport(ctx, reportID)
	if err != nil {
		return fmt.Errorf("load report: %w", err)
	}
	if rep == nil {
		return ErrNotFound
	}
	if err := s.reports.DeleteReport(ctx, reportID); err != nil {
		if err == store.ErrConflict {
			return ErrNotFound
		}
		return fmt.Errorf("delete report: %w", err)
	}
	s.log(ctx, actor, "report.delete", rep.ID)
	return nil
}

// AddMedia attaches an evidence URL to a report the actor owns. Closed
// reports are frozen; evidence can no longer be added to them.
func (s *Service) AddMedia(ctx context.Context, actor *auth.Actor, reportID, url, mediaType string) (*store.MediaRef, error) {
	if actor == nil || !s.policy.Allowed(actor.Role, rbac.PermReportsMedia) {
		return nil, ErrUnauthorized
	}
	rep, err := s.Get(ctx, actor, reportID)
	if err != nil {
		return nil, err
	}
	if Terminal(rep.Status) {
		return nil, ErrIllegalTransition
	}
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, ErrInvalidMedia
	}
	if mediaType != "image" && mediaType != "video" {
		return nil, ErrInvalidMedia
	}
	ref := &store.MediaRef{ReportID: rep.ID, URL: url, MediaType: mediaType}
	if err := s.reports.AddMedia(ctx, ref); err != nil {
		return nil, fmt.Errorf("add media: %w", err)
	}
	return ref, nil
}

func (s *Service) Media(ctx context.Context, actor *auth.Actor, reportID string) ([]store.MediaRef, error) {
	if _, err := s.Get(ctx, actor, reportID); err != nil {
		return nil, err
	}
	refs, err := s.reports.ListMedia(ctx, reportID)
	if err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}
	return refs, nil
}

// Stats returns the admin dashboard counts.
func (s *Service) Stats(ctx context.Context, actor *auth.Actor) (*Stats, error) {
	if actor == nil || !s.policy.Allowed(actor.Role, rbac.PermReportsStats) {
		return nil, ErrUnauthorized
	}
	byStatus, err := s.reports.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	byType, err := s.reports.CountByType(ctx)
	if err != nil {
		return nil, fmt.Errorf("count by type: %w", err)
	}
	total := 0
	for _, n := range byStatus {
		total += n
	}
	return &Stats{Total: total, ByStatus: byStatus, ByType: byType}, nil
}

func (s *Service) canView(actor *auth.Actor, rep *store.Report) bool {
	if s.policy.Allowed(actor.Role, rbac.PermReportsViewAll) {
		return true
	}
	return s.policy.Allowed(actor.Role, rbac.PermReportsViewOwn) && rep.OwnerID == actor.ID
}

func (s *Service) log(ctx context.Context, actor *auth.Actor, action, details string) {
	if s.audits == nil {
		return
	}
	username := actor.Email
	if username == "" {
		username = actor.ID
	}
	if err := s.audits.Log(ctx, username, action, details); err != nil {
		s.logger.Errorf("audit log %s: %v", action, err)
	}
}

// normalizeFilterValue treats empty and "all" as no filter, matching the
// dashboard dropdowns that send "all" for the unselected state.
func normalizeFilterValue(v string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "all" {
		return ""
	}
	return v
}
