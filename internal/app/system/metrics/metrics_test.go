package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

// counterValue returns the value of the named counter with the given label
// value, or -1 when it is absent.
func counterValue(t *testing.T, reg *prometheus.Registry, name, label string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetValue() == label {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return -1
}

func TestNewCollector_ReturnsNonNil(t *testing.T) {
	if NewCollector(prometheus.NewRegistry()) == nil {
		t.Fatal("expected non-nil Collector")
	}
}

func TestRecordLogin_ByOutcome(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordLogin(LoginSuccess)
	c.RecordLogin(LoginSuccess)
	c.RecordLogin(LoginBadPassword)

	if v := counterValue(t, reg, "clubhub_logins_total", LoginSuccess); v != 2 {
		t.Errorf("success logins = %v, want 2", v)
	}
	if v := counterValue(t, reg, "clubhub_logins_total", LoginBadPassword); v != 1 {
		t.Errorf("bad credential logins = %v, want 1", v)
	}
}

func TestRecordSignupJoinMutation(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordSignup("student")
	c.RecordJoin(JoinAdded)
	c.RecordJoin(JoinAlready)
	c.RecordClubMutation(ClubCreated)

	checks := []struct {
		name, label string
		want        float64
	}{
		{"clubhub_signups_total", "student", 1},
		{"clubhub_club_joins_total", JoinAdded, 1},
		{"clubhub_club_joins_total", JoinAlready, 1},
		{"clubhub_club_mutations_total", ClubCreated, 1},
	}
	for _, ck := range checks {
		if v := counterValue(t, reg, ck.name, ck.label); v != ck.want {
			t.Errorf("%s{%s} = %v, want %v", ck.name, ck.label, v, ck.want)
		}
	}
}

func TestNilCollector_IsNoop(t *testing.T) {
	var c *Collector
	c.RecordSignup("student")
	c.RecordLogin(LoginSuccess)
	c.RecordJoin(JoinAdded)
	c.RecordClubMutation(ClubDeleted)

	h := c.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusTeapot {
		t.Errorf("expected passthrough, got %d", rec.Code)
	}
}

func TestMiddleware_RecordsRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	r := chi.NewRouter()
	r.Use(c.Middleware)
	r.Get("/view_club/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for _, id := range []string{"a", "b", "c"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/view_club/"+id, nil))
	}

	if v := counterValue(t, reg, "clubhub_http_requests_total", "/view_club/{id}"); v != 3 {
		t.Errorf("requests for /view_club/{id} = %v, want 3", v)
	}
}

func TestHandler_ServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordSignup("leader")

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	body, _ := io.ReadAll(rec.Result().Body)
	if !strings.Contains(string(body), "clubhub_signups_total") {
		t.Error("response should contain clubhub_signups_total")
	}
}
