// internal/app/features/clubs/handler.go
package clubs

import (
	uierrors "github.com/dalemusser/clubhub/internal/app/features/errors"
	clubstore "github.com/dalemusser/clubhub/internal/app/store/clubs"
	userstore "github.com/dalemusser/clubhub/internal/app/store/users"
	"github.com/dalemusser/clubhub/internal/app/system/auditlog"
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/app/system/metrics"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// JoinNotification is appended to a user's notifications on their first join.
// Notifications have set semantics, so it is stored once however many clubs
// the user joins.
const JoinNotification = "You joined a new club!"

const msgClubNotFound = "Club not found"

// Handler serves the public club page and the join action.
type Handler struct {
	Clubs      *clubstore.Store
	Users      *userstore.Store
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	AuditLog   *auditlog.Logger
	Metrics    *metrics.Collector
	Log        *zap.Logger
}

func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger,
	auditLog *auditlog.Logger, mc *metrics.Collector, logger *zap.Logger) *Handler {
	return &Handler{
		Clubs:      clubstore.New(db),
		Users:      userstore.New(db),
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
		AuditLog:   auditLog,
		Metrics:    mc,
		Log:        logger,
	}
}
