// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/clubhub/internal/app/resources"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs after the schema is in place and before BuildHandler. It
// registers the shared layout templates and applies configured timeouts.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()

	timeouts.Configure(timeouts.Config{
		Short:  appCfg.TimeoutShort,
		Medium: appCfg.TimeoutMedium,
		Long:   appCfg.TimeoutLong,
	})

	t := timeouts.Current()
	logger.Info("clubhub starting",
		zap.String("env", coreCfg.Env),
		zap.String("database", appCfg.MongoDatabase),
		zap.Duration("timeout_short", t.Short),
		zap.Duration("timeout_medium", t.Medium),
		zap.Duration("timeout_long", t.Long),
		zap.Int("login_rate_per_min", appCfg.LoginRatePerMin),
		zap.Int("signup_rate_per_min", appCfg.SignupRatePerMin))
	return nil
}
