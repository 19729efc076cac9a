package testutil

import (
	"context"
	"testing"

	"github.com/dalemusser/clubhub/internal/app/store/audit"
	"github.com/dalemusser/clubhub/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// NewAuditLogger returns an audit logger that writes every category to db.
func NewAuditLogger(db *mongo.Database) *auditlog.Logger {
	return auditlog.New(audit.New(db), zap.NewNop(), auditlog.Config{
		Auth:  auditlog.DestDB,
		Admin: auditlog.DestDB,
		Club:  auditlog.DestDB,
	})
}

// AuditCount returns how many audit events of eventType were stored.
func AuditCount(t *testing.T, ctx context.Context, db *mongo.Database, eventType string) int64 {
	t.Helper()
	n, err := audit.New(db).CountByFilter(ctx, audit.QueryFilter{EventType: eventType})
	if err != nil {
		t.Fatalf("failed to count audit events: %v", err)
	}
	return n
}
