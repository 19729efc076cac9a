// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"

	"github.com/dalemusser/clubhub/internal/app/store/audit"
	"github.com/dalemusser/clubhub/internal/app/system/ratelimit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Destinations for a category of audit events.
const (
	DestAll = "all" // MongoDB + zap
	DestDB  = "db"  // MongoDB only
	DestLog = "log" // zap only
	DestOff = "off" // disabled
)

// Config holds audit logging configuration, one destination per category.
type Config struct {
	Auth  string // signup, login, logout
	Admin string // club create/edit/delete
	Club  string // joins, events, announcements
}

// Logger records audit events to MongoDB (via audit.Store) and zap.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

// logToZap logs the event to zap with consistent structure.
func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.UserID != nil {
		fields = append(fields, zap.String("user_id", event.UserID.Hex()))
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.ClubID != nil {
		fields = append(fields, zap.String("club_id", event.ClubID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

func (l *Logger) destination(category string) string {
	var d string
	switch category {
	case audit.CategoryAuth:
		d = l.config.Auth
	case audit.CategoryAdmin:
		d = l.config.Admin
	case audit.CategoryClub:
		d = l.config.Club
	}
	if d == "" {
		return DestAll
	}
	return d
}

// Log records an audit event based on configuration.
// A nil Logger is a no-op so handlers under test can run without one.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	dest := l.destination(event.Category)
	if dest == DestOff {
		return
	}
	if dest == DestAll || dest == DestLog {
		l.logToZap(event)
	}
	if (dest == DestAll || dest == DestDB) && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

func requestEvent(r *http.Request, category, eventType string, success bool) audit.Event {
	return audit.Event{
		Category:  category,
		EventType: eventType,
		IP:        ratelimit.ClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   success,
	}
}

// --- Authentication Events ---

// Signup logs a newly created account.
func (l *Logger) Signup(ctx context.Context, r *http.Request, userID primitive.ObjectID, username, role string) {
	e := requestEvent(r, audit.CategoryAuth, audit.EventSignup, true)
	e.UserID = &userID
	e.Details = map[string]string{"username": username, "role": role}
	l.Log(ctx, e)
}

// SignupRejected logs a refused signup and why.
func (l *Logger) SignupRejected(ctx context.Context, r *http.Request, username, reason string) {
	e := requestEvent(r, audit.CategoryAuth, audit.EventSignupRejected, false)
	e.FailureReason = reason
	e.Details = map[string]string{"username": username}
	l.Log(ctx, e)
}

// LoginSuccess logs a successful login.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, userID primitive.ObjectID, username, role string) {
	e := requestEvent(r, audit.CategoryAuth, audit.EventLoginSuccess, true)
	e.UserID = &userID
	e.Details = map[string]string{"username": username, "role": role}
	l.Log(ctx, e)
}

// LoginFailed logs a failed login. userID is nil when the username did not
// resolve. eventType is one of the audit.EventLoginFailed* constants.
func (l *Logger) LoginFailed(ctx context.Context, r *http.Request, eventType string, userID *primitive.ObjectID, username string) {
	e := requestEvent(r, audit.CategoryAuth, eventType, false)
	e.UserID = userID
	e.FailureReason = eventType
	e.Details = map[string]string{"username": username}
	l.Log(ctx, e)
}

// Logout logs a logout. userIDHex may be empty for anonymous logouts.
func (l *Logger) Logout(ctx context.Context, r *http.Request, userIDHex string) {
	e := requestEvent(r, audit.CategoryAuth, audit.EventLogout, true)
	if oid, err := primitive.ObjectIDFromHex(userIDHex); err == nil {
		e.UserID = &oid
	}
	l.Log(ctx, e)
}

// --- Admin Events ---

func (l *Logger) clubAdmin(ctx context.Context, r *http.Request, eventType string, actorID, clubID primitive.ObjectID, name string) {
	e := requestEvent(r, audit.CategoryAdmin, eventType, true)
	e.ActorID = &actorID
	e.ClubID = &clubID
	e.Details = map[string]string{"name": name}
	l.Log(ctx, e)
}

// ClubCreated logs an administrator creating a club.
func (l *Logger) ClubCreated(ctx context.Context, r *http.Request, actorID, clubID primitive.ObjectID, name string) {
	l.clubAdmin(ctx, r, audit.EventClubCreated, actorID, clubID, name)
}

// ClubUpdated logs an administrator editing a club.
func (l *Logger) ClubUpdated(ctx context.Context, r *http.Request, actorID, clubID primitive.ObjectID, name string) {
	l.clubAdmin(ctx, r, audit.EventClubUpdated, actorID, clubID, name)
}

// ClubDeleted logs an administrator deleting a club.
func (l *Logger) ClubDeleted(ctx context.Context, r *http.Request, actorID, clubID primitive.ObjectID, name string) {
	l.clubAdmin(ctx, r, audit.EventClubDeleted, actorID, clubID, name)
}

// --- Club Activity Events ---

// ClubJoined logs a user joining a club.
func (l *Logger) ClubJoined(ctx context.Context, r *http.Request, userID, clubID primitive.ObjectID) {
	e := requestEvent(r, audit.CategoryClub, audit.EventClubJoined, true)
	e.UserID = &userID
	e.ClubID = &clubID
	l.Log(ctx, e)
}

// EventAdded logs a leader scheduling an event.
func (l *Logger) EventAdded(ctx context.Context, r *http.Request, actorID, clubID primitive.ObjectID, title, date string) {
	e := requestEvent(r, audit.CategoryClub, audit.EventEventAdded, true)
	e.ActorID = &actorID
	e.ClubID = &clubID
	e.Details = map[string]string{"title": title, "date": date}
	l.Log(ctx, e)
}

// AnnouncementPosted logs a leader posting an announcement.
func (l *Logger) AnnouncementPosted(ctx context.Context, r *http.Request, actorID, clubID primitive.ObjectID) {
	e := requestEvent(r, audit.CategoryClub, audit.EventAnnouncementPosted, true)
	e.ActorID = &actorID
	e.ClubID = &clubID
	l.Log(ctx, e)
}
