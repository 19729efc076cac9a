package auditlog_test

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/clubhub/internal/app/store/audit"
	"github.com/dalemusser/clubhub/internal/app/system/auditlog"
	"github.com/dalemusser/clubhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_NilLogger(t *testing.T) {
	var logger *auditlog.Logger
	ctx, cancel := testutil.TestContext()
	defer cancel()
	req := httptest.NewRequest("GET", "/", nil)

	logger.Log(ctx, audit.Event{EventType: "test"})
	logger.LoginSuccess(ctx, req, primitive.NewObjectID(), "ann", "student")
	logger.Logout(ctx, req, "")
	logger.ClubJoined(ctx, req, primitive.NewObjectID(), primitive.NewObjectID())
}

func TestLogger_Destinations(t *testing.T) {
	tests := []struct {
		dest       string
		wantDB     int
		wantZapLog int
	}{
		{auditlog.DestAll, 1, 1},
		{auditlog.DestDB, 1, 0},
		{auditlog.DestLog, 0, 1},
		{auditlog.DestOff, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.dest, func(t *testing.T) {
			db := testutil.SetupTestDB(t)
			store := audit.New(db)
			core, logs := observer.New(zapcore.DebugLevel)
			ctx, cancel := testutil.TestContext()
			defer cancel()

			logger := auditlog.New(store, zap.New(core), auditlog.Config{Auth: tt.dest})
			userID := primitive.NewObjectID()
			logger.LoginSuccess(ctx, httptest.NewRequest("POST", "/login", nil), userID, "ann", "student")

			events, err := store.Query(ctx, audit.QueryFilter{UserID: &userID, Limit: 10})
			if err != nil {
				t.Fatalf("Query failed: %v", err)
			}
			if len(events) != tt.wantDB {
				t.Errorf("db events = %d, want %d", len(events), tt.wantDB)
			}
			if n := logs.FilterMessage("audit event").Len(); n != tt.wantZapLog {
				t.Errorf("zap entries = %d, want %d", n, tt.wantZapLog)
			}
		})
	}
}

func TestLogger_LoginFailed_RecordsReason(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{})
	userID := primitive.NewObjectID()
	req := httptest.NewRequest("POST", "/login", nil)
	req.RemoteAddr = "10.1.2.3:51000"

	logger.LoginFailed(ctx, req, audit.EventLoginFailedAdminID, &userID, "boss")

	events, err := store.Query(ctx, audit.QueryFilter{UserID: &userID, Limit: 10})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	e := events[0]
	if e.Success || e.FailureReason != audit.EventLoginFailedAdminID {
		t.Errorf("unexpected event: %+v", e)
	}
	if e.IP != "10.1.2.3" {
		t.Errorf("IP = %q, want 10.1.2.3", e.IP)
	}
}

func TestLogger_ClubEvents(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{})
	req := httptest.NewRequest("POST", "/", nil)
	actor := primitive.NewObjectID()
	club := primitive.NewObjectID()

	logger.ClubCreated(ctx, req, actor, club, "Chess")
	logger.ClubUpdated(ctx, req, actor, club, "Chess Club")
	logger.EventAdded(ctx, req, actor, club, "Open night", "2026-05-01")
	logger.AnnouncementPosted(ctx, req, actor, club)
	logger.ClubDeleted(ctx, req, actor, club, "Chess Club")

	n, err := store.CountByFilter(ctx, audit.QueryFilter{ClubID: &club})
	if err != nil {
		t.Fatalf("CountByFilter failed: %v", err)
	}
	if n != 5 {
		t.Errorf("expected 5 club events, got %d", n)
	}
}
