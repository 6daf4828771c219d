package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"ajali/config"
	"ajali/core/utils"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	cfg := &config.AppConfig{
		DBDriver: "sqlite",
		DBURL:    filepath.Join(t.TempDir(), "store_test.db"),
	}
	logger := utils.NewLogger()
	db, err := NewDB(cfg, logger)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := ApplyMigrations(context.Background(), db, cfg.DBDriver, logger); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedTestUser(t *testing.T, db *sql.DB, id string) {
	t.Helper()
	users := NewUsersStore(db)
	err := users.Create(context.Background(), &User{
		ID:           id,
		Email:        id + "@example.com",
		PasswordHash: "irrelevant",
		Role:         "citizen",
	})
	if err != nil {
		t.Fatalf("seed user %s: %v", id, err)
	}
}

func seedTestReport(t *testing.T, s ReportsStore, owner, title, description, typ string) *Report {
	t.Helper()
	rep := &Report{
		OwnerID:     owner,
		Title:       title,
		Description: description,
		Type:        IncidentType(typ),
		Location:    Location{Latitude: -1.28, Longitude: 36.82},
	}
	if err := s.CreateReport(context.Background(), rep); err != nil {
		t.Fatalf("create %q: %v", title, err)
	}
	return rep
}

func TestListReportsFilters(t *testing.T) {
	db := newTestDB(t)
	seedTestUser(t, db, "owner-a")
	seedTestUser(t, db, "owner-b")
	s := NewReportsStore(db)
	ctx := context.Background()

	r1 := seedTestReport(t, s, "owner-a", "Flooded underpass", "Water level rising on the bypass underpass.", "natural_disaster")
	seedTestReport(t, s, "owner-a", "Stolen motorbike", "Motorbike taken from the parking lot overnight.", "crime")
	r3 := seedTestReport(t, s, "owner-b", "Flooded basement", "Basement flooding after the night rain.", "natural_disaster")

	res, err := s.ListReports(ctx, ReportFilter{OwnerID: "owner-a"})
	if err != nil {
		t.Fatalf("list owner: %v", err)
	}
	if len(res) != 2 {
		t.Fatalf("owner filter: got %d, want 2", len(res))
	}

	res, err = s.ListReports(ctx, ReportFilter{Type: "natural_disaster"})
	if err != nil {
		t.Fatalf("list type: %v", err)
	}
	if len(res) != 2 {
		t.Fatalf("type filter: got %d, want 2", len(res))
	}

	res, err = s.ListReports(ctx, ReportFilter{OwnerID: "owner-a", Search: "FLOODED"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(res) != 1 || res[0].ID != r1.ID {
		t.Fatalf("search should be case-insensitive and owner-scoped: %+v", res)
	}

	res, err = s.ListReports(ctx, ReportFilter{Search: "night"})
	if err != nil {
		t.Fatalf("search description: %v", err)
	}
	if len(res) != 2 {
		t.Fatalf("description search: got %d, want 2", len(res))
	}

	res, err = s.ListReports(ctx, ReportFilter{Limit: 1})
	if err != nil {
		t.Fatalf("limit: %v", err)
	}
	if len(res) != 1 || res[0].ID != r3.ID {
		t.Fatalf("expected newest report first, got %+v", res)
	}
}

func TestTransitionReportConditionalWrite(t *testing.T) {
	db := newTestDB(t)
	seedTestUser(t, db, "owner-a")
	s := NewReportsStore(db)
	ctx := context.Background()
	rep := seedTestReport(t, s, "owner-a", "Gas leak on 3rd street", "Strong smell of gas near the bakery entrance.", "fire")

	entry, err := s.TransitionReport(ctx, rep.ID, StatusPending, StatusUnderInvestigation, "admin-1", "checking")
	if err != nil {
		t.Fatalf("transition: %v", err)
	}
	if entry.ID == 0 {
		t.Fatalf("audit entry id not assigned")
	}

	// Stale expectation loses without writing anything.
	if _, err := s.TransitionReport(ctx, rep.ID, StatusPending, StatusRejected, "admin-2", ""); err != ErrConflict {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	history, err := s.ListHistory(ctx, rep.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("losing writer must not append audit entries, got %d", len(history))
	}
	cur, err := s.GetReport(ctx, rep.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if cur.Status != StatusUnderInvestigation {
		t.Fatalf("status = %s", cur.Status)
	}
}

func TestDeleteReportCascadesMedia(t *testing.T) {
	db := newTestDB(t)
	seedTestUser(t, db, "owner-a")
	s := NewReportsStore(db)
	ctx := context.Background()
	rep := seedTestReport(t, s, "owner-a", "Broken streetlight", "The streetlight at the junction has been dark for a week.", "other")

	if err := s.AddMedia(ctx, &MediaRef{ReportID: rep.ID, URL: "https://cdn.example.com/x.jpg", MediaType: "image"}); err != nil {
		t.Fatalf("add media: %v", err)
	}
	if err := s.DeleteReport(ctx, rep.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	refs, err := s.ListMedia(ctx, rep.ID)
	if err != nil {
		t.Fatalf("list media: %v", err)
	}
	if len(refs) != 0 {
		t.Fatalf("media must not survive the report, got %d refs", len(refs))
	}
	if err := s.DeleteReport(ctx, rep.ID); err != ErrConflict {
		t.Fatalf("second delete: expected ErrConflict, got %v", err)
	}
}

func TestRevokedTokens(t *testing.T) {
	db := newTestDB(t)
	tokens := NewTokensStore(db)
	ctx := context.Background()
	now := time.Now().UTC()

	if err := tokens.Revoke(ctx, "jti-1", now.Add(time.Hour)); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	// Revoking twice is a no-op.
	if err := tokens.Revoke(ctx, "jti-1", now.Add(time.Hour)); err != nil {
		t.Fatalf("re-revoke: %v", err)
	}
	if err := tokens.Revoke(ctx, "jti-old", now.Add(-time.Hour)); err != nil {
		t.Fatalf("revoke expired: %v", err)
	}

	revoked, err := tokens.IsRevoked(ctx, "jti-1")
	if err != nil || !revoked {
		t.Fatalf("IsRevoked(jti-1) = %v, %v", revoked, err)
	}
	revoked, err = tokens.IsRevoked(ctx, "jti-unknown")
	if err != nil || revoked {
		t.Fatalf("IsRevoked(jti-unknown) = %v, %v", revoked, err)
	}

	purged, err := tokens.PurgeExpired(ctx, now)
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if purged != 1 {
		t.Fatalf("purged %d rows, want 1", purged)
	}
	revoked, err = tokens.IsRevoked(ctx, "jti-1")
	if err != nil || !revoked {
		t.Fatalf("live revocation lost after purge")
	}
}

func TestUsersStoreDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	users := NewUsersStore(db)
	ctx := context.Background()

	u := &User{Email: "Dup@Example.com", PasswordHash: "x", Role: "citizen"}
	if err := users.Create(ctx, u); err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.Email != "dup@example.com" {
		t.Fatalf("email not normalized: %q", u.Email)
	}
	err := users.Create(ctx, &User{Email: "dup@example.com", PasswordHash: "y", Role: "citizen"})
	if err != ErrDuplicateEmail {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
	found, err := users.FindByEmail(ctx, "  DUP@example.com ")
	if err != nil || found == nil || found.ID != u.ID {
		t.Fatalf("FindByEmail: %+v, %v", found, err)
	}
}
