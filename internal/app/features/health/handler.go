// internal/app/features/health/handler.go
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Handler answers load-balancer probes.
type Handler struct {
	Client *mongo.Client
	Log    *zap.Logger
}

func NewHandler(client *mongo.Client, logger *zap.Logger) *Handler {
	return &Handler{Client: client, Log: logger}
}

type report struct {
	Status    string `json:"status"`
	Database  string `json:"database"`
	LatencyMS int64  `json:"latency_ms"`
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Serve handles GET /health. It pings the primary and answers 200
// {"status":"ok","database":"connected"} or 503 with the ping error.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	rep, code := h.check(r.Context())
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(rep)
}

func (h *Handler) check(parent context.Context) (report, int) {
	ctx, cancel := context.WithTimeout(parent, timeouts.Ping())
	defer cancel()

	start := time.Now()
	err := h.Client.Ping(ctx, readpref.Primary())
	rep := report{LatencyMS: time.Since(start).Milliseconds()}
	if err != nil {
		h.Log.Error("health: mongo ping failed", zap.Error(err))
		rep.Status = "error"
		rep.Database = "disconnected"
		rep.Message = "Database unavailable"
		rep.Error = err.Error()
		return rep, http.StatusServiceUnavailable
	}
	rep.Status = "ok"
	rep.Database = "connected"
	return rep, http.StatusOK
}
