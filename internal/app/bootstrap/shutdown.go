// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown stops background sweepers and disconnects Mongo.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	for _, l := range formLimiters {
		l.Stop()
	}
	formLimiters = nil

	if deps.ClubHubMongoClient != nil {
		logger.Info("disconnecting ClubHub MongoDB client")
		if err := deps.ClubHubMongoClient.Disconnect(ctx); err != nil {
			logger.Error("MongoDB disconnect failed", zap.Error(err))
			return err
		}
	}
	return nil
}
