package viewdata_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/app/system/viewdata"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestNewBaseVM_Anonymous(t *testing.T) {
	req := httptest.NewRequest("GET", "/login", nil)
	vm := viewdata.NewBaseVM(httptest.NewRecorder(), req, nil, "Login", "/")

	if vm.IsLoggedIn {
		t.Error("expected anonymous request to be logged out")
	}
	if vm.Title != "Login" || vm.SiteName != viewdata.SiteName {
		t.Errorf("unexpected vm: %+v", vm)
	}
	if vm.Flashes != nil {
		t.Errorf("expected no flashes without a session manager, got %+v", vm.Flashes)
	}
}

func TestNewBaseVM_SignedInWithFlash(t *testing.T) {
	sm, err := auth.NewSessionManager("test-session-key-must-be-32-chars-long", "t", "", time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}

	seed := httptest.NewRecorder()
	sm.AddFlash(seed, httptest.NewRequest("GET", "/", nil), auth.FlashSuccess, "Joined the club successfully!")

	req := httptest.NewRequest("GET", "/home", nil)
	for _, c := range seed.Result().Cookies() {
		req.AddCookie(c)
	}
	req = auth.WithTestUser(req, &auth.SessionUser{ID: primitive.NewObjectID().Hex(), Name: "Ann", Role: "student"})

	vm := viewdata.NewBaseVM(httptest.NewRecorder(), req, sm, "Home", "/home")
	if !vm.IsLoggedIn || vm.UserName != "Ann" || vm.Role != "student" {
		t.Errorf("unexpected user fields: %+v", vm)
	}
	if len(vm.Flashes) != 1 || vm.Flashes[0].Message != "Joined the club successfully!" {
		t.Errorf("unexpected flashes: %+v", vm.Flashes)
	}
}
