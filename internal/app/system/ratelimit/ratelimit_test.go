package ratelimit

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

func TestLimiter_AllowsBurstThenBlocks(t *testing.T) {
	l := New(3)
	defer l.Stop()

	for i := 0; i < 3; i++ {
		if !l.Allow("1.2.3.4") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if l.Allow("1.2.3.4") {
		t.Error("4th request should be blocked")
	}
	if !l.Allow("5.6.7.8") {
		t.Error("other keys should have their own bucket")
	}
}

func TestLimiter_Reset(t *testing.T) {
	l := New(1)
	defer l.Stop()

	l.Allow("k")
	if l.Allow("k") {
		t.Fatal("expected second request to be blocked")
	}
	l.Reset("k")
	if !l.Allow("k") {
		t.Error("expected request to be allowed after Reset")
	}
}

func TestLimiter_ZeroDisables(t *testing.T) {
	l := New(0)
	defer l.Stop()

	for i := 0; i < 100; i++ {
		if !l.Allow("k") {
			t.Fatal("limiter with perMinute=0 should never block")
		}
	}
}

func TestLimiter_NilAllows(t *testing.T) {
	var l *Limiter
	if !l.Allow("k") {
		t.Error("nil limiter should allow")
	}
	l.Reset("k")
	l.Stop()
}

func TestLimiter_SweepDropsIdle(t *testing.T) {
	l := New(5)
	defer l.Stop()

	l.Allow("a")
	l.Allow("b")
	if l.size() != 2 {
		t.Fatalf("expected 2 buckets, got %d", l.size())
	}
	l.sweep(time.Now().Add(l.idleTTL + time.Second))
	if l.size() != 0 {
		t.Errorf("expected idle buckets swept, got %d", l.size())
	}
}

func TestLimiter_StopTwice(t *testing.T) {
	l := New(5)
	l.Stop()
	l.Stop()
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name   string
		xff    string
		xri    string
		remote string
		want   string
	}{
		{"remote addr", "", "", "192.168.1.1:1234", "192.168.1.1"},
		{"remote addr no port", "", "", "192.168.1.1", "192.168.1.1"},
		{"forwarded for ignored", "10.0.0.1, 10.0.0.2", "", "192.168.1.1:1234", "192.168.1.1"},
		{"real ip ignored", "", "10.0.0.9", "192.168.1.1:1234", "192.168.1.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/login", nil)
			r.RemoteAddr = tt.remote
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				r.Header.Set("X-Real-IP", tt.xri)
			}
			if got := ClientIP(r); got != tt.want {
				t.Errorf("ClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormLimiter_RotatingForwardedForStillLimited(t *testing.T) {
	f := NewFormLimiter(1)
	defer f.Stop()

	allowed := 0
	for i := 0; i < 50; i++ {
		r := httptest.NewRequest("POST", "/", nil)
		r.RemoteAddr = "203.0.113.7:4000"
		r.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i))
		if f.Check(r, "") {
			allowed++
		}
	}
	if allowed != 1 {
		t.Errorf("allowed %d of 50 signups from one address, want 1", allowed)
	}
}

func TestClientIP_BehindRealIP(t *testing.T) {
	var got string
	h := middleware.RealIP(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = ClientIP(r)
	}))

	r := httptest.NewRequest("POST", "/", nil)
	r.RemoteAddr = "127.0.0.1:4000"
	r.Header.Set("X-Forwarded-For", "198.51.100.4")
	h.ServeHTTP(httptest.NewRecorder(), r)

	if got != "198.51.100.4" {
		t.Errorf("ClientIP behind RealIP = %q, want 198.51.100.4", got)
	}
}

func TestFormLimiter_PerAccount(t *testing.T) {
	f := NewFormLimiter(2)
	defer f.Stop()

	r1 := httptest.NewRequest("POST", "/login", nil)
	r1.RemoteAddr = "10.0.0.1:1"
	r2 := httptest.NewRequest("POST", "/login", nil)
	r2.RemoteAddr = "10.0.0.2:1"

	if !f.Check(r1, "Ann") || !f.Check(r2, "ann ") {
		t.Fatal("first two attempts should pass")
	}
	r3 := httptest.NewRequest("POST", "/login", nil)
	r3.RemoteAddr = "10.0.0.3:1"
	if f.Check(r3, "ANN") {
		t.Error("third attempt for the same account should be blocked")
	}

	f.ResetAccount("ann")
	if !f.Check(r3, "ann") {
		t.Error("expected attempt to pass after ResetAccount")
	}
}

func TestFormLimiter_Nil(t *testing.T) {
	var f *FormLimiter
	if !f.Check(httptest.NewRequest("POST", "/", nil), "x") {
		t.Error("nil FormLimiter should allow")
	}
	f.ResetAccount("x")
	f.Stop()
}
