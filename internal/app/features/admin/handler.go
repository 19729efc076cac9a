// internal/app/features/admin/handler.go
package admin

import (
	uierrors "github.com/dalemusser/clubhub/internal/app/features/errors"
	"github.com/dalemusser/clubhub/internal/app/store/audit"
	clubstore "github.com/dalemusser/clubhub/internal/app/store/clubs"
	userstore "github.com/dalemusser/clubhub/internal/app/store/users"
	"github.com/dalemusser/clubhub/internal/app/system/auditlog"
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/app/system/metrics"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the club directory pages for administrators.
type Handler struct {
	Clubs      *clubstore.Store
	Users      *userstore.Store
	Audit      *audit.Store
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
		Audit:      audit.New(db),
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
		AuditLog:   auditLog,
		Metrics:    mc,
		Log:        logger,
	}
}
