// internal/app/bootstrap/routes.go
package bootstrap

import (
	"crypto/sha256"
	"net/http"

	adminfeature "github.com/dalemusser/clubhub/internal/app/features/admin"
	auditlogfeature "github.com/dalemusser/clubhub/internal/app/features/auditlog"
	clubsfeature "github.com/dalemusser/clubhub/internal/app/features/clubs"
	errorsfeature "github.com/dalemusser/clubhub/internal/app/features/errors"
	healthfeature "github.com/dalemusser/clubhub/internal/app/features/health"
	homefeature "github.com/dalemusser/clubhub/internal/app/features/home"
	leaderfeature "github.com/dalemusser/clubhub/internal/app/features/leader"
	loginfeature "github.com/dalemusser/clubhub/internal/app/features/login"
	logoutfeature "github.com/dalemusser/clubhub/internal/app/features/logout"
	profilefeature "github.com/dalemusser/clubhub/internal/app/features/profile"
	signupfeature "github.com/dalemusser/clubhub/internal/app/features/signup"
	"github.com/dalemusser/clubhub/internal/app/store/audit"
	"github.com/dalemusser/clubhub/internal/app/system/auditlog"
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/app/system/metrics"
	"github.com/dalemusser/clubhub/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

// limiters created by BuildHandler; Shutdown stops their sweepers.
var formLimiters []*ratelimit.FormLimiter

// BuildHandler constructs the root router. WAFFLE calls it after config,
// DB connection, schema setup and Startup have completed.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.ClubHubMongoDatabase
	dev := coreCfg.Env == "dev"

	// Secure cookies are enabled outside dev.
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain,
		appCfg.SessionMaxAge, !dev, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Dev mode re-parses templates on each render.
	eng := templates.New(dev)
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	errLog := errorsfeature.NewErrorLogger(logger)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	mc := metrics.NewCollector(reg)

	auditLogger := auditlog.New(audit.New(db), logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
		Club:  appCfg.AuditLogClub,
	})

	loginLimiter := ratelimit.NewFormLimiter(appCfg.LoginRatePerMin)
	signupLimiter := ratelimit.NewFormLimiter(appCfg.SignupRatePerMin)
	formLimiters = []*ratelimit.FormLimiter{loginLimiter, signupLimiter}

	// The CSRF key is derived from the session key so one secret covers both.
	csrfKey := sha256.Sum256([]byte(appCfg.SessionKey))
	csrfMW := csrf.Protect(csrfKey[:],
		csrf.Secure(!dev),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger.Warn("csrf check failed",
				zap.String("path", r.URL.Path),
				zap.Error(csrf.FailureReason(r)))
			http.Error(w, "Forbidden - invalid or missing form token", http.StatusForbidden)
		})),
	)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if appCfg.TrustProxyHeaders {
		r.Use(middleware.RealIP)
	}
	r.Use(middleware.Recoverer)
	r.Use(mc.Middleware)

	// Probes and assets sit outside CSRF and session handling.
	r.Mount("/health", healthfeature.Routes(healthfeature.NewHandler(deps.ClubHubMongoClient, logger)))
	r.Handle("/metrics", metrics.Handler(reg))
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	r.Group(func(r chi.Router) {
		if dev {
			// gorilla/csrf assumes TLS and checks Referer unless told otherwise.
			r.Use(func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
					next.ServeHTTP(w, csrf.PlaintextHTTPRequest(req))
				})
			})
		}
		r.Use(csrfMW)
		r.Use(sessionMgr.LoadSessionUser)

		// Signup on the site root.
		signupHandler := signupfeature.NewHandler(db, sessionMgr, errLog, auditLogger, mc, signupLimiter, appCfg.AdminID, logger)
		r.Group(signupfeature.Routes(signupHandler))

		loginHandler := loginfeature.NewHandler(db, sessionMgr, errLog, auditLogger, mc, loginLimiter, appCfg.AdminID, logger)
		r.Mount("/login", loginfeature.Routes(loginHandler))

		logoutHandler := logoutfeature.NewHandler(sessionMgr, auditLogger, logger)
		r.Mount("/logout", logoutfeature.Routes(logoutHandler))

		homeHandler := homefeature.NewHandler(db, sessionMgr, errLog, logger)
		r.Mount("/home", homefeature.Routes(homeHandler, sessionMgr))

		profileHandler := profilefeature.NewHandler(db, sessionMgr, errLog, logger)
		r.Mount("/profile", profilefeature.Routes(profileHandler, sessionMgr))

		// Club administration (/admin/dashboard, /add_club, /edit_club, /delete_club)
		adminHandler := adminfeature.NewHandler(db, sessionMgr, errLog, auditLogger, mc, logger)
		r.Group(adminfeature.Routes(adminHandler, sessionMgr))

		auditHandler := auditlogfeature.NewHandler(db, sessionMgr, errLog, logger)
		r.Mount("/admin/audit", auditlogfeature.Routes(auditHandler, sessionMgr))

		leaderHandler := leaderfeature.NewHandler(db, sessionMgr, errLog, auditLogger, mc, logger)
		r.Mount("/leader", leaderfeature.Routes(leaderHandler, sessionMgr))

		// Club pages (/view_club, /join_club)
		clubsHandler := clubsfeature.NewHandler(db, sessionMgr, errLog, auditLogger, mc, logger)
		r.Group(clubsfeature.Routes(clubsHandler, sessionMgr))
	})

	r.NotFound(errorsfeature.NotFound)

	return r, nil
}
