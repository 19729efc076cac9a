package profile_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	uierrors "github.com/dalemusser/clubhub/internal/app/features/errors"
	"github.com/dalemusser/clubhub/internal/app/features/profile"
	"github.com/dalemusser/clubhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*profile.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	sm := testutil.NewSessionManager(t)
	return profile.NewHandler(db, sm, uierrors.NewErrorLogger(logger), logger), testutil.NewFixtures(t, db)
}

func TestJoinedClubs_SkipsMissing(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	chess := fx.CreateClub(ctx, "Chess", primitive.NewObjectID())
	drama := fx.CreateClub(ctx, "Drama", primitive.NewObjectID())
	deleted := primitive.NewObjectID().Hex()

	got, err := h.JoinedClubs(ctx, []string{drama.ID.Hex(), deleted, "garbage", chess.ID.Hex()})
	if err != nil {
		t.Fatalf("JoinedClubs: %v", err)
	}
	if len(got) != 2 || got[0].ID != drama.ID || got[1].ID != chess.ID {
		t.Errorf("expected [Drama Chess] in join order, got %+v", got)
	}
}

func TestJoinedClubs_Empty(t *testing.T) {
	h, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	got, err := h.JoinedClubs(ctx, nil)
	if err != nil || len(got) != 0 {
		t.Errorf("expected no clubs, got %v, %v", got, err)
	}
}

func TestServeProfile_NoSession(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.ServeProfile(rec, httptest.NewRequest("GET", "/profile", nil))

	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login" {
		t.Errorf("expected redirect to /login, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestServeProfile_WithDeletedClub(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	stu := fx.CreateStudent(ctx, "Stu")
	if _, err := h.Users.JoinClub(ctx, stu.ID, primitive.NewObjectID().Hex(), "You joined a new club!"); err != nil {
		t.Fatalf("JoinClub: %v", err)
	}

	rec := httptest.NewRecorder()
	// Will panic without initialized templates; a dangling id must not fail
	// the request before rendering.
	testutil.RenderSafely(func() {
		h.ServeProfile(rec, testutil.WithUser(httptest.NewRequest("GET", "/profile", nil), stu))
	})
	if rec.Code == http.StatusInternalServerError || rec.Code == http.StatusSeeOther {
		t.Errorf("unexpected status %d", rec.Code)
	}
}
