package admin_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/dalemusser/clubhub/internal/app/features/admin"
	uierrors "github.com/dalemusser/clubhub/internal/app/features/errors"
	"github.com/dalemusser/clubhub/internal/app/store/audit"
	userstore "github.com/dalemusser/clubhub/internal/app/store/users"
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/app/system/indexes"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/dalemusser/clubhub/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type env struct {
	h     *admin.Handler
	sm    *auth.SessionManager
	fx    *testutil.Fixtures
	db    *mongo.Database
	admin models.User
}

func setup(t *testing.T) env {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	logger := zap.NewNop()
	sm := testutil.NewSessionManager(t)
	h := admin.NewHandler(db, sm, uierrors.NewErrorLogger(logger), testutil.NewAuditLogger(db), nil, logger)
	fx := testutil.NewFixtures(t, db)
	return env{h: h, sm: sm, fx: fx, db: db, admin: fx.CreateAdmin(ctx, "Ada Admin")}
}

func (e env) post(target string, form url.Values, id string, fn http.HandlerFunc) *httptest.ResponseRecorder {
	req := testutil.WithUser(testutil.PostForm(target, form), e.admin)
	if id != "" {
		req = testutil.WithChiURLParam(req, "id", id)
	}
	rec := httptest.NewRecorder()
	fn(rec, req)
	return rec
}

func expectRedirect(t *testing.T, rec *httptest.ResponseRecorder, loc string) {
	t.Helper()
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if got := rec.Header().Get("Location"); got != loc {
		t.Errorf("Location: got %q, want %q", got, loc)
	}
}

func TestHandleCreate_Success(t *testing.T) {
	e := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	leader := e.fx.CreateLeader(ctx, "Lee")

	rec := e.post("/add_club", url.Values{
		"name":        {"Chess"},
		"description": {"Weekly games"},
		"leader_id":   {leader.ID.Hex()},
	}, "", e.h.HandleCreate)

	expectRedirect(t, rec, "/admin/dashboard")
	if !testutil.HasFlash(t, e.sm, rec, "Club 'Chess' created successfully!") {
		t.Error("expected created flash")
	}

	clubs, err := e.h.Clubs.ListByLeader(ctx, leader.ID)
	if err != nil || len(clubs) != 1 {
		t.Fatalf("expected 1 club for leader, got %d (%v)", len(clubs), err)
	}
	c := clubs[0]
	if c.Name != "Chess" || c.Description != "Weekly games" {
		t.Errorf("unexpected club: %+v", c)
	}
	if len(c.Events) != 0 || len(c.Announcements) != 0 || len(c.Members) != 0 {
		t.Errorf("expected empty lists, got %+v", c)
	}
	if n := testutil.AuditCount(t, ctx, e.db, audit.EventClubCreated); n != 1 {
		t.Errorf("expected 1 club_created audit event, got %d", n)
	}
}

func TestHandleCreate_Rejections(t *testing.T) {
	e := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	leader := e.fx.CreateLeader(ctx, "Lee")
	student := e.fx.CreateStudent(ctx, "Stu")
	e.fx.CreateClub(ctx, "Chess", leader.ID)

	tests := []struct {
		name  string
		form  url.Values
		flash string
	}{
		{"blank name", url.Values{"name": {" "}, "description": {"d"}, "leader_id": {leader.ID.Hex()}}, "All fields are required."},
		{"blank description", url.Values{"name": {"Art"}, "description": {""}, "leader_id": {leader.ID.Hex()}}, "All fields are required."},
		{"blank leader", url.Values{"name": {"Art"}, "description": {"d"}}, "All fields are required."},
		{"malformed leader", url.Values{"name": {"Art"}, "description": {"d"}, "leader_id": {"xyz"}}, "Please choose a valid club leader."},
		{"student as leader", url.Values{"name": {"Art"}, "description": {"d"}, "leader_id": {student.ID.Hex()}}, "Please choose a valid club leader."},
		{"unknown leader", url.Values{"name": {"Art"}, "description": {"d"}, "leader_id": {primitive.NewObjectID().Hex()}}, "Please choose a valid club leader."},
		{"duplicate name", url.Values{"name": {"CHESS"}, "description": {"d"}, "leader_id": {leader.ID.Hex()}}, "A club with this name already exists."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := e.post("/add_club", tt.form, "", e.h.HandleCreate)
			expectRedirect(t, rec, "/add_club")
			if !testutil.HasFlash(t, e.sm, rec, tt.flash) {
				t.Errorf("expected flash %q", tt.flash)
			}
			if n := e.fx.ClubCount(ctx); n != 1 {
				t.Errorf("expected no new club, have %d", n)
			}
		})
	}
}

func TestHandleEdit_Success(t *testing.T) {
	e := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	l1 := e.fx.CreateLeader(ctx, "Lee One")
	l2 := e.fx.CreateLeader(ctx, "Lee Two")
	club := e.fx.CreateClub(ctx, "Chess", l1.ID)

	rec := e.post("/edit_club/"+club.ID.Hex(), url.Values{
		"name":        {"Chess Masters"},
		"description": {"Serious games"},
		"leader_id":   {l2.ID.Hex()},
	}, club.ID.Hex(), e.h.HandleEdit)

	expectRedirect(t, rec, "/admin/dashboard")
	if !testutil.HasFlash(t, e.sm, rec, "Club updated successfully!") {
		t.Error("expected updated flash")
	}
	got := e.fx.GetClub(ctx, club.ID)
	if got.Name != "Chess Masters" || got.Description != "Serious games" || got.LeaderID != l2.ID {
		t.Errorf("club not updated: %+v", got)
	}
}

func TestHandleEdit_KeepOwnName(t *testing.T) {
	e := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	l := e.fx.CreateLeader(ctx, "Lee")
	club := e.fx.CreateClub(ctx, "Chess", l.ID)

	rec := e.post("/edit_club/"+club.ID.Hex(), url.Values{
		"name": {"chess"}, "description": {"new text"}, "leader_id": {l.ID.Hex()},
	}, club.ID.Hex(), e.h.HandleEdit)

	expectRedirect(t, rec, "/admin/dashboard")
	if got := e.fx.GetClub(ctx, club.ID); got.Description != "new text" {
		t.Errorf("description not updated: %q", got.Description)
	}
}

func TestHandleEdit_RenameToExisting(t *testing.T) {
	e := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	l := e.fx.CreateLeader(ctx, "Lee")
	chess := e.fx.CreateClub(ctx, "Chess", l.ID)
	e.fx.CreateClub(ctx, "Drama", l.ID)

	rec := e.post("/edit_club/"+chess.ID.Hex(), url.Values{
		"name": {"drama"}, "description": {"d"}, "leader_id": {l.ID.Hex()},
	}, chess.ID.Hex(), e.h.HandleEdit)

	expectRedirect(t, rec, "/edit_club/"+chess.ID.Hex())
	if !testutil.HasFlash(t, e.sm, rec, "A club with this name already exists.") {
		t.Error("expected duplicate name flash")
	}
	if got := e.fx.GetClub(ctx, chess.ID); got.Name != "Chess" {
		t.Errorf("club should be unchanged, got name %q", got.Name)
	}
}

func TestHandleEdit_UnknownClub(t *testing.T) {
	e := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	l := e.fx.CreateLeader(ctx, "Lee")

	for _, id := range []string{primitive.NewObjectID().Hex(), "not-an-id"} {
		rec := e.post("/edit_club/"+id, url.Values{
			"name": {"X"}, "description": {"d"}, "leader_id": {l.ID.Hex()},
		}, id, e.h.HandleEdit)
		expectRedirect(t, rec, "/admin/dashboard")
		if !testutil.HasFlash(t, e.sm, rec, "Club not found") {
			t.Errorf("id %q: expected not found flash", id)
		}
	}
}

func TestServeEdit_UnknownClub(t *testing.T) {
	e := setup(t)
	id := primitive.NewObjectID().Hex()

	req := testutil.WithChiURLParam(testutil.WithUser(httptest.NewRequest("GET", "/edit_club/"+id, nil), e.admin), "id", id)
	rec := httptest.NewRecorder()
	e.h.ServeEdit(rec, req)

	expectRedirect(t, rec, "/admin/dashboard")
	if !testutil.HasFlash(t, e.sm, rec, "Club not found") {
		t.Error("expected not found flash")
	}
}

func TestHandleDelete_LeavesJoinListsAlone(t *testing.T) {
	e := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	l := e.fx.CreateLeader(ctx, "Lee")
	stu := e.fx.CreateStudent(ctx, "Stu")
	club := e.fx.CreateClub(ctx, "Chess", l.ID)
	if _, err := userstore.New(e.db).JoinClub(ctx, stu.ID, club.ID.Hex(), "You joined a new club!"); err != nil {
		t.Fatalf("JoinClub: %v", err)
	}

	rec := e.post("/delete_club/"+club.ID.Hex(), nil, club.ID.Hex(), e.h.HandleDelete)

	expectRedirect(t, rec, "/admin/dashboard")
	if !testutil.HasFlash(t, e.sm, rec, "Club deleted successfully!") {
		t.Error("expected deleted flash")
	}
	if n := e.fx.ClubCount(ctx); n != 0 {
		t.Errorf("expected club to be deleted, %d remain", n)
	}
	if got := e.fx.GetUser(ctx, stu.ID); !got.HasJoined(club.ID.Hex()) {
		t.Error("join list should keep the orphaned id")
	}
	if n := testutil.AuditCount(t, ctx, e.db, audit.EventClubDeleted); n != 1 {
		t.Errorf("expected 1 club_deleted audit event, got %d", n)
	}
}

func TestHandleDelete_UnknownClub(t *testing.T) {
	e := setup(t)
	id := primitive.NewObjectID().Hex()

	rec := e.post("/delete_club/"+id, nil, id, e.h.HandleDelete)
	expectRedirect(t, rec, "/admin/dashboard")
	if !testutil.HasFlash(t, e.sm, rec, "Club not found") {
		t.Error("expected not found flash")
	}
}

func TestRoutes_AdminOnly(t *testing.T) {
	e := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	leader := e.fx.CreateLeader(ctx, "Lee")
	club := e.fx.CreateClub(ctx, "Chess", leader.ID)

	r := chi.NewRouter()
	r.Group(admin.Routes(e.h, e.sm))

	paths := []struct{ method, path string }{
		{"GET", "/admin/dashboard"},
		{"GET", "/add_club"},
		{"POST", "/add_club"},
		{"GET", "/edit_club/" + club.ID.Hex()},
		{"POST", "/edit_club/" + club.ID.Hex()},
		{"POST", "/delete_club/" + club.ID.Hex()},
	}
	for _, p := range paths {
		for _, u := range []*models.User{nil, &leader} {
			req := httptest.NewRequest(p.method, p.path, nil)
			if u != nil {
				req = testutil.WithUser(req, *u)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login" {
				t.Errorf("%s %s: expected access denied redirect, got %d %q", p.method, p.path, rec.Code, rec.Header().Get("Location"))
			}
		}
	}
	if n := e.fx.ClubCount(ctx); n != 1 {
		t.Error("denied requests must not mutate")
	}
}

func TestServeDashboard(t *testing.T) {
	e := setup(t)
	req := testutil.WithUser(httptest.NewRequest("GET", "/admin/dashboard", nil), e.admin)
	rec := httptest.NewRecorder()
	// Will panic without initialized templates.
	testutil.RenderSafely(func() {
		e.h.ServeDashboard(rec, req)
	})
}
