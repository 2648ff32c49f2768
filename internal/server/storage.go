package server

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/imunetrack/internal/dbx"
	"github.com/dmitrijs2005/imunetrack/internal/logging"
	"github.com/dmitrijs2005/imunetrack/internal/server/config"
	"github.com/dmitrijs2005/imunetrack/internal/server/repositories/repomanager"
)

// OpenStorage connects the backend selected by cfg.DatabaseDSN and applies
// the schema. The caller owns the returned Conn.
func OpenStorage(ctx context.Context, cfg *config.Config, log logging.Logger) (dbx.Conn, repomanager.RepositoryManager, error) {
	if cfg.UseMemoryStorage() {
		log.Warn(ctx, "using in-memory storage, data is lost on exit")
		return dbx.NopConn{}, repomanager.NewInMemoryRepositoryManager(), nil
	}

	log.Info(ctx, "connecting to database", "retries", cfg.DatabaseConnectRetries, "delay", cfg.DatabaseConnectDelay)
	db, err := dbx.Connect(ctx, repomanager.DriverName, cfg.DatabaseDSN, cfg.DatabaseConnectRetries, cfg.DatabaseConnectDelay)
	if err != nil {
		return nil, nil, fmt.Errorf("db init error: %w", err)
	}

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("db init error: %w", err)
	}
	log.Info(ctx, "database schema ready")

	return dbx.NewSQLConn(db), m, nil
}
