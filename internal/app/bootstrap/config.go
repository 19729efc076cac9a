// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/clubhub/internal/app/system/auditlog"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// minProdSessionKey is the shortest session key accepted in prod.
const minProdSessionKey = 32

// appConfigKeys are loaded from config files (mongo_uri), environment
// variables (CLUBHUB_MONGO_URI) and flags (--mongo_uri).
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "clubhub", Desc: "MongoDB database name"},
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "clubhub-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "24h", Desc: "Session cookie lifetime (e.g., 12h, 168h)"},

	{Name: "admin_id", Default: "", Desc: "Enrollment secret required to sign up or log in as an admin"},

	{Name: "trust_proxy_headers", Default: false, Desc: "Use X-Forwarded-For/X-Real-IP as the client address (only behind a trusted proxy)"},

	// Rate limiting
	{Name: "login_rate_per_min", Default: 10, Desc: "Login attempts allowed per minute per IP and per username (0 disables)"},
	{Name: "signup_rate_per_min", Default: 5, Desc: "Signup attempts allowed per minute per IP (0 disables)"},

	// Audit logging settings
	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: "all", Desc: "Admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_club", Default: "db", Desc: "Club activity logging: 'all' (db+log), 'db', 'log', or 'off'"},

	// Database call deadlines
	{Name: "timeout_short", Default: "5s", Desc: "Deadline for single-document reads and writes"},
	{Name: "timeout_medium", Default: "10s", Desc: "Deadline for list queries and page feeds"},
	{Name: "timeout_long", Default: "30s", Desc: "Deadline for startup schema work"},
}

// LoadConfig loads WAFFLE core config and ClubHub's keys. Precedence is
// flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "CLUBHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:      appValues.String("mongo_uri"),
		MongoDatabase: appValues.String("mongo_database"),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 24*time.Hour),

		AdminID: strings.TrimSpace(appValues.String("admin_id")),

		TrustProxyHeaders: appValues.Bool("trust_proxy_headers"),

		LoginRatePerMin:  appValues.Int("login_rate_per_min"),
		SignupRatePerMin: appValues.Int("signup_rate_per_min"),

		AuditLogAuth:  appValues.String("audit_log_auth"),
		AuditLogAdmin: appValues.String("audit_log_admin"),
		AuditLogClub:  appValues.String("audit_log_club"),

		TimeoutShort:  appValues.Duration("timeout_short", timeouts.DefaultShort),
		TimeoutMedium: appValues.Duration("timeout_medium", timeouts.DefaultMedium),
		TimeoutLong:   appValues.Duration("timeout_long", timeouts.DefaultLong),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig rejects configs that would start a broken or unsafe
// server. Errors are joined so every problem is reported at once.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	var errs []error

	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		errs = append(errs, fmt.Errorf("invalid MongoDB URI: %w", err))
	}
	if strings.TrimSpace(appCfg.MongoDatabase) == "" {
		errs = append(errs, errors.New("mongo_database is required"))
	}
	if appCfg.AdminID == "" {
		errs = append(errs, errors.New("admin_id is required"))
	}
	if coreCfg != nil && coreCfg.Env == "prod" && len(appCfg.SessionKey) < minProdSessionKey {
		errs = append(errs, fmt.Errorf("session_key must be at least %d bytes in prod", minProdSessionKey))
	}
	if appCfg.LoginRatePerMin < 0 || appCfg.SignupRatePerMin < 0 {
		errs = append(errs, errors.New("rate limits must not be negative"))
	}
	for name, dest := range map[string]string{
		"audit_log_auth":  appCfg.AuditLogAuth,
		"audit_log_admin": appCfg.AuditLogAdmin,
		"audit_log_club":  appCfg.AuditLogClub,
	} {
		switch dest {
		case auditlog.DestAll, auditlog.DestDB, auditlog.DestLog, auditlog.DestOff:
		default:
			errs = append(errs, fmt.Errorf("%s: unknown destination %q", name, dest))
		}
	}

	return errors.Join(errs...)
}
