package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"game-night-service/logger"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DefaultSlowQuery is the duration above which a statement is logged as slow.
const DefaultSlowQuery = 200 * time.Millisecond

// GormLogger routes gorm's query logging through the service logger.
type GormLogger struct {
	log       *logger.Logger
	level     gormlogger.LogLevel
	slowQuery time.Duration
}

func NewGormLogger(log *logger.Logger, level gormlogger.LogLevel, slowQuery time.Duration) *GormLogger {
	return &GormLogger{
		log:       log.With("component", "gorm"),
		level:     level,
		slowQuery: slowQuery,
	}
}

func (g *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *g
	clone.level = level
	return &clone
}

func (g *GormLogger) Info(_ context.Context, msg string, data ...interface{}) {
	if g.level >= gormlogger.Info {
		g.log.Info(fmt.Sprintf(msg, data...))
	}
}

func (g *GormLogger) Warn(_ context.Context, msg string, data ...interface{}) {
	if g.level >= gormlogger.Warn {
		g.log.Warn(fmt.Sprintf(msg, data...))
	}
}

func (g *GormLogger) Error(_ context.Context, msg string, data ...interface{}) {
	if g.level >= gormlogger.Error {
		g.log.Error(fmt.Sprintf(msg, data...))
	}
}

// Trace logs failed statements at Error, slow ones at Warn and everything
// else at Debug. Record-not-found is a normal lookup miss and is not an error.
func (g *GormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if g.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	switch {
	case err != nil && g.level >= gormlogger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		g.log.Error("query failed", "error", err, "elapsed", elapsed, "rows", rows, "sql", sql)
	case g.slowQuery > 0 && elapsed > g.slowQuery && g.level >= gormlogger.Warn:
		sql, rows := fc()
		g.log.Warn("slow query", "elapsed", elapsed, "threshold", g.slowQuery, "rows", rows, "sql", sql)
	case g.level >= gormlogger.Info:
		sql, rows := fc()
		g.log.Debug("query", "elapsed", elapsed, "rows", rows, "sql", sql)
	}
}
