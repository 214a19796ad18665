package models

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	gorm_logger "gorm.io/gorm/logger"
)

// queryLogger forwards gorm log output to zerolog.
//
// Queries are logged at debug level with their duration. Failed lookups
// are expected during normal operation and are not logged as errors,
// every other query error is.
type queryLogger struct {
	log zerolog.Logger
}

func (l *queryLogger) LogMode(gorm_logger.LogLevel) gorm_logger.Interface {
	return l
}

func (l *queryLogger) Info(_ context.Context, s string, args ...interface{}) {
	l.log.Info().Msgf(s, args...)
}

func (l *queryLogger) Warn(_ context.Context, s string, args ...interface{}) {
	l.log.Warn().Msgf(s, args...)
}

func (l *queryLogger) Error(_ context.Context, s string, args ...interface{}) {
	l.log.Error().Msgf(s, args...)
}

func (l *queryLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	sql, rows := fc()
	fields := map[string]interface{}{
		"sql":      sql,
		"rows":     rows,
		"duration": time.Since(begin),
	}

	if err != nil && !errors.Is(err, ErrResourceNotFound) {
		l.log.Error().Err(err).Fields(fields).Msg("database query failed")
		return
	}

	l.log.Debug().Fields(fields).Msg("database query")
}
