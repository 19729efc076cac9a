// internal/app/features/leader/handler.go
package leader

import (
	"context"
	"errors"
	"net/http"
	"time"

	uierrors "github.com/dalemusser/clubhub/internal/app/features/errors"
	"github.com/dalemusser/clubhub/internal/app/policy/clubpolicy"
	clubstore "github.com/dalemusser/clubhub/internal/app/store/clubs"
	"github.com/dalemusser/clubhub/internal/app/system/auditlog"
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/app/system/metrics"
	"github.com/dalemusser/clubhub/internal/app/system/normalize"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const (
	dashboardPath = "/leader/dashboard"
	addEventPath  = "/leader/add_event"

	msgMissingFields = "All fields are required."
	msgClubNotFound  = "Club not found"
	msgAccessDenied  = "Access denied!"
)

// Handler serves the pages club leaders use to run their clubs.
type Handler struct {
	Clubs      *clubstore.Store
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	AuditLog   *auditlog.Logger
	Metrics    *metrics.Collector
	Log        *zap.Logger

	// Now stamps announcements; tests replace it.
	Now func() time.Time
}

func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger,
	auditLog *auditlog.Logger, mc *metrics.Collector, logger *zap.Logger) *Handler {
	return &Handler{
		Clubs:      clubstore.New(db),
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
		AuditLog:   auditLog,
		Metrics:    mc,
		Log:        logger,
		Now:        time.Now,
	}
}

// loadManagedClub resolves hex to a club the current user may manage. When
// ok is false a flash and redirect have already been written.
func (h *Handler) loadManagedClub(ctx context.Context, w http.ResponseWriter, r *http.Request, hex string) (*models.Club, bool) {
	id, err := primitive.ObjectIDFromHex(normalize.ObjectIDHex(hex))
	if err != nil {
		uierrors.Redirect(w, r, h.SessionMgr, auth.FlashDanger, msgClubNotFound, dashboardPath)
		return nil, false
	}
	club, err := h.Clubs.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		uierrors.Redirect(w, r, h.SessionMgr, auth.FlashDanger, msgClubNotFound, dashboardPath)
		return nil, false
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "leader: load club", err, "A database error occurred.", dashboardPath)
		return nil, false
	}
	if !clubpolicy.CanManageClub(r, *club) {
		h.Log.Warn("leader: club not managed by user",
			zap.String("club_id", club.ID.Hex()),
			zap.String("path", r.URL.Path))
		uierrors.Redirect(w, r, h.SessionMgr, auth.FlashDanger, msgAccessDenied, auth.LoginPath)
		return nil, false
	}
	return club, true
}
