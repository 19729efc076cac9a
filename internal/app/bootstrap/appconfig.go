// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds ClubHub configuration on top of WAFFLE's CoreConfig
// (ports, TLS, log level). It is passed to every lifecycle hook.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI      string // e.g. mongodb://localhost:27017
	MongoDatabase string

	// Session management configuration
	SessionKey    string        // signs session cookies; at least 32 bytes in prod
	SessionName   string        // cookie name (default: clubhub-session)
	SessionDomain string        // blank means current host
	SessionMaxAge time.Duration // cookie lifetime

	// AdminID is the enrollment secret a signup or login must present to
	// act as an admin.
	AdminID string

	// TrustProxyHeaders takes the client address from X-Forwarded-For /
	// X-Real-IP. Enable only behind a reverse proxy that sets them.
	TrustProxyHeaders bool

	// Credential form throttling, per client IP and per account name.
	LoginRatePerMin  int
	SignupRatePerMin int

	// Audit destinations per category: all, db, log or off.
	AuditLogAuth  string
	AuditLogAdmin string
	AuditLogClub  string

	// Database call deadlines; zero keeps the built-in default.
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
	TimeoutLong   time.Duration
}
