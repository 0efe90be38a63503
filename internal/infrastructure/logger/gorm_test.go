package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func newObservedGormLogger(level gormlogger.LogLevel) (*GormLogger, *observer.ObservedLogs) {
	core, recorded := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core), level), recorded
}

func traceFn(sql string, rows int64) func() (string, int64) {
	return func() (string, int64) { return sql, rows }
}

func TestGormLoggerLogMode(t *testing.T) {
	gormLog, _ := newObservedGormLogger(gormlogger.Info)

	var _ gormlogger.Interface = gormLog

	clone := gormLog.LogMode(gormlogger.Warn)
	assert.Equal(t, gormlogger.Info, gormLog.level)
	assert.Equal(t, gormlogger.Warn, clone.(*GormLogger).level)
}

func TestGormLoggerTraceError(t *testing.T) {
	gormLog, recorded := newObservedGormLogger(gormlogger.Error)

	gormLog.Trace(context.Background(), time.Now(), traceFn("UPDATE stock_locations SET quantity = quantity + 5", 0), errors.New("deadlock detected"))

	entries := recorded.FilterMessage("sql error").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Contains(t, entries[0].ContextMap()["sql"], "stock_locations")
}

func TestGormLoggerTraceSkipsNotFound(t *testing.T) {
	gormLog, recorded := newObservedGormLogger(gormlogger.Error)

	gormLog.Trace(context.Background(), time.Now(), traceFn("SELECT * FROM movement_documents WHERE id = $1", 0), gormlogger.ErrRecordNotFound)

	assert.Empty(t, recorded.All())
}

func TestGormLoggerTraceSlowQuery(t *testing.T) {
	gormLog, recorded := newObservedGormLogger(gormlogger.Warn)
	gormLog.WithSlowThreshold(time.Nanosecond)

	gormLog.Trace(context.Background(), time.Now().Add(-time.Second), traceFn("SELECT * FROM stock_locations", 40), nil)

	entries := recorded.FilterMessage("slow sql").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
}

func TestGormLoggerTraceQuery(t *testing.T) {
	gormLog, recorded := newObservedGormLogger(gormlogger.Info)

	gormLog.Trace(context.Background(), time.Now(), traceFn("SELECT * FROM depots", 3), nil)

	entries := recorded.FilterMessage("sql query").All()
	require.Len(t, entries, 1)
	assert.EqualValues(t, 3, entries[0].ContextMap()["rows"])
}

func TestGormLoggerTraceSilent(t *testing.T) {
	gormLog, recorded := newObservedGormLogger(gormlogger.Silent)

	gormLog.Trace(context.Background(), time.Now(), traceFn("SELECT 1", 1), nil)
	gormLog.Info(context.Background(), "noise")

	assert.Empty(t, recorded.All())
}

func TestGormLoggerTraceCarriesRequestID(t *testing.T) {
	gormLog, recorded := newObservedGormLogger(gormlogger.Info)

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-55")
	gormLog.Trace(ctx, time.Now(), traceFn("SELECT * FROM orders", 1), nil)

	entries := recorded.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "req-55", entries[0].ContextMap()["request_id"])
}

func TestMapGormLogLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected gormlogger.LogLevel
	}{
		{"silent", gormlogger.Silent},
		{"error", gormlogger.Error},
		{"warn", gormlogger.Warn},
		{"info", gormlogger.Info},
		{"debug", gormlogger.Info},
		{"bogus", gormlogger.Warn},
		{"", gormlogger.Warn},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, MapGormLogLevel(tt.level), tt.level)
	}
}
