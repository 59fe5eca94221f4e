package metrics

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const slowPingThreshold = 100 * time.Millisecond

// DBMonitor reports connection pool usage and answers health checks.
type DBMonitor struct {
	metrics *Metrics
	logger  *zap.Logger
	sqlDB   *sql.DB
}

func NewDBMonitor(metrics *Metrics, logger *zap.Logger, db *gorm.DB) *DBMonitor {
	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("Failed to get sql.DB from gorm.DB", zap.Error(err))
		metrics.RecordDBConnectionError()
	}

	return &DBMonitor{metrics: metrics, logger: logger, sqlDB: sqlDB}
}

// Sample publishes pool stats. It is meant to be registered on a Collector.
func (d *DBMonitor) Sample(context.Context) error {
	if d.sqlDB == nil {
		return sql.ErrConnDone
	}

	stats := d.sqlDB.Stats()
	d.metrics.DBConnectionsInUse.Set(float64(stats.InUse))
	d.metrics.DBConnectionsIdle.Set(float64(stats.Idle))

	d.logger.Debug("Database connection stats",
		zap.Int("open_connections", stats.OpenConnections),
		zap.Int("in_use", stats.InUse),
		zap.Int("idle", stats.Idle),
		zap.Int64("wait_count", stats.WaitCount))
	return nil
}

// HealthCheck pings the database and records the ping as a query.
func (d *DBMonitor) HealthCheck() error {
	if d.sqlDB == nil {
		d.metrics.RecordDBConnectionError()
		return sql.ErrConnDone
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	start := time.Now()
	err := d.sqlDB.PingContext(ctx)
	duration := time.Since(start)

	status := "success"
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		status = "timeout"
	case err != nil:
		status = "error"
	}
	if err != nil {
		d.metrics.RecordDBConnectionError()
	}
	d.metrics.RecordDBQuery("ping", "health_check", status, duration)

	if duration > slowPingThreshold {
		d.logger.Warn("Slow database ping", zap.Duration("duration", duration), zap.Error(err))
	}
	return err
}
