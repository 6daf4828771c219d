package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
)

// ErrConflict is returned when a conditional write matched no rows, i.e.
// another writer advanced the row first (or it no longer exists).
var ErrConflict = errors.New("conflict")

type ReportsStore interface {
	CreateReport(ctx context.Context, report *Report) error
	GetReport(ctx context.Context, id string) (*Report, error)
	ListReports(ctx context.Context, filter ReportFilter) ([]Report, error)
	DeleteReport(ctx context.Context, id string) error

	// TransitionReport applies the status change and appends the audit entry
	// in one transaction. The UPDATE is conditional on the expected current
	// status, which serializes concurrent transitions per report: at most one
	// writer matches, every loser gets ErrConflict.
	TransitionReport(ctx context.Context, reportID string, from, to Status, actorID, comment string) (*StatusAuditEntry, error)

	ListHistory(ctx context.Context, reportID string) ([]StatusAuditEntry, error)

	AddMedia(ctx context.Context, ref *MediaRef) error
	ListMedia(ctx context.Context, reportID string) ([]MediaRef, error)

	CountByStatus(ctx context.Context) (map[Status]int, error)
	CountByType(ctx context.Context) (map[IncidentType]int, error)
}

type reportsStore struct {
	db *sql.DB
}

func NewReportsStore(db *sql.DB) ReportsStore {
	return &reportsStore{db: db}
}

func (s *reportsStore) CreateReport(ctx context.Context, report *Report) error {
	if report.ID == "" {
		report.ID = uuid.Must(uuid.NewV4()).String()
	}
	if report.Status == "" {
		report.Status = StatusPending
	}
	now := time.Now().UTC()
	report.CreatedAt = now
	report.UpdatedAt = now
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reports(id, owner_id, title, description, incident_type, latitude, longitude, address, status, created_at, updated_at)
		VALUES(?,?,?,?,?,?,?,?,?,?,?)`,
		report.ID, report.OwnerID, report.Title, report.Description, string(report.Type),
		report.Location.Latitude, report.Location.Longitude, report.Location.Address,
		string(report.Status), now, now)
	return err
}

func (s *reportsStore) GetReport(ctx context.Context, id string) (*Report, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, owner_id, title, description, incident_type, latitude, longitude, address, status, created_at, updated_at
		FROM reports WHERE id=?`, id)
	var rep Report
	if err := scanReport(row.Scan, &rep); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rep, nil
}

func (s *reportsStore) ListReports(ctx context.Context, filter ReportFilter) ([]Report, error) {
	var clauses []string
	var args []any
	if filter.OwnerID != "" {
		clauses = append(clauses, "owner_id=?")
		args = append(args, filter.OwnerID)
	}
	if filter.Status != "" {
		clauses = append(clauses, "status=?")
		args = append(args, filter.Status)
	}
	if filter.Type != "" {
		clauses = append(clauses, "incident_type=?")
		args = append(args, filter.Type)
	}
	if filter.Search != "" {
		clauses = append(clauses, "(LOWER(title) LIKE ? OR LOWER(description) LIKE ?)")
		q := "%" + strings.ToLower(filter.Search) + "%"
		args = append(args, q, q)
	}
	query := `SELECT id, owner_id, title, description, incident_type, latitude, longitude, address, status, created_at, updated_at FROM reports`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
		if filter.Offset > 0 {
			query += fmt.Sprintf(" OFFSET %d", filter.Offset)
		}
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Report
	for rows.Next() {
		var rep Report
		if err := scanReport(rows.Scan, &rep); err != nil {
			return nil, err
		}
		res = append(res, rep)
	}
	return res, rows.Err()
}

func (s *reportsStore) DeleteReport(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM reports WHERE id=?`, id)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrConflict
	}
	return nil
}

func (s *reportsStore) TransitionReport(ctx context.Context, reportID string, from, to Status, actorID, comment string) (*StatusAuditEntry, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	res, err := tx.ExecContext(ctx, `
		UPDATE reports SET status=?, updated_at=? WHERE id=? AND status=?`,
		string(to), now, reportID, string(from))
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		tx.Rollback()
		return nil, ErrConflict
	}
	entry := &StatusAuditEntry{
		ReportID:   reportID,
		FromStatus: from,
		ToStatus:   to,
		ActorID:    actorID,
		Comment:    strings.TrimSpace(comment),
		CreatedAt:  now,
	}
	auditRes, err := tx.ExecContext(ctx, `
		INSERT INTO report_status_audit(report_id, from_status, to_status, actor_id, comment, created_at)
		VALUES(?,?,?,?,?,?)`,
		entry.ReportID, string(entry.FromStatus), string(entry.ToStatus), entry.ActorID, entry.Comment, entry.CreatedAt)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	entry.ID, _ = auditRes.LastInsertId()
	return entry, nil
}

func (s *reportsStore) ListHistory(ctx context.Context, reportID string) ([]StatusAuditEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, report_id, from_status, to_status, actor_id, comment, created_at
		FROM report_status_audit WHERE report_id=?
		ORDER BY created_at ASC, id ASC`, reportID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []StatusAuditEntry
	for rows.Next() {
		var e StatusAuditEntry
		var from, to string
		if err := rows.Scan(&e.ID, &e.ReportID, &from, &to, &e.ActorID, &e.Comment, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.FromStatus = Status(from)
		e.ToStatus = Status(to)
		res = append(res, e)
	}
	return res, rows.Err()
}

func (s *reportsStore) AddMedia(ctx context.Context, ref *MediaRef) error {
	if ref.ID == "" {
		ref.ID = uuid.Must(uuid.NewV4()).String()
	}
	now := time.Now().UTC()
	ref.CreatedAt = now
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO report_media(id, report_id, url, media_type, created_at)
		VALUES(?,?,?,?,?)`,
		ref.ID, ref.ReportID, ref.URL, ref.MediaType, now)
	return err
}

func (s *reportsStore) ListMedia(ctx context.Context, reportID string) ([]MediaRef, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, report_id, url, media_type, created_at
		FROM report_media WHERE report_id=? ORDER BY created_at ASC, id ASC`, reportID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []MediaRef
	for rows.Next() {
		var m MediaRef
		if err := rows.Scan(&m.ID, &m.ReportID, &m.URL, &m.MediaType, &m.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, m)
	}
	return res, rows.Err()
}

func (s *reportsStore) CountByStatus(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM reports GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := map[Status]int{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		res[Status(status)] = n
	}
	return res, rows.Err()
}

func (s *reportsStore) CountByType(ctx context.Context) (map[IncidentType]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT incident_type, COUNT(*) FROM reports GROUP BY incident_type`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := map[IncidentType]int{}
	for rows.Next() {
		var typ string
		var n int
		if err := rows.Scan(&typ, &n); err != nil {
			return nil, err
		}
		res[IncidentType(typ)] = n
	}
	return res, rows.Err()
}

func scanReport(scan func(...any) error, rep *Report) error {
	var typ, status string
	if err := scan(&rep.ID, &rep.OwnerID, &rep.Title, &rep.Description, &typ,
		&rep.Location.Latitude, &rep.Location.Longitude, &rep.Location.Address,
		&status, &rep.CreatedAt, &rep.UpdatedAt); err != nil {
		return err
	}
	rep.Type = IncidentType(typ)
	rep.Status = Status(status)
	return nil
}
