// internal/app/features/auditlog/handler.go
package auditlog

import (
	uierrors "github.com/dalemusser/clubhub/internal/app/features/errors"
	"github.com/dalemusser/clubhub/internal/app/store/audit"
	clubstore "github.com/dalemusser/clubhub/internal/app/store/clubs"
	userstore "github.com/dalemusser/clubhub/internal/app/store/users"
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the admin audit trail.
type Handler struct {
	Audit      *audit.Store
	Users      *userstore.Store
	Clubs      *clubstore.Store
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger
}

func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Audit:      audit.New(db),
		Users:      userstore.New(db),
		Clubs:      clubstore.New(db),
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
		Log:        logger,
	}
}
