/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package log_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/commonskit/go-commons/log"
	"github.com/commonskit/go-commons/log/logtest"
)

func TestPrefixedLogger(t *testing.T) {
	const prefix = "cache registry: "

	tests := []struct {
		name      string
		logFn     func(logger log.FieldLogger)
		wantText  string
		wantLevel log.Level
		wantField string
	}{
		{
			name:      "debug",
			logFn:     func(logger log.FieldLogger) { logger.Debug("entry added", log.Int("id", 42)) },
			wantText:  prefix + "entry added",
			wantLevel: log.LevelDebug,
			wantField: "id",
		},
		{
			name:      "infof",
			logFn:     func(logger log.FieldLogger) { logger.Infof("cache %s registered", "user") },
			wantText:  prefix + "cache user registered",
			wantLevel: log.LevelInfo,
		},
		{
			name:      "warn",
			logFn:     func(logger log.FieldLogger) { logger.Warn("cache replaced", log.String("cache", "user")) },
			wantText:  prefix + "cache replaced",
			wantLevel: log.LevelWarn,
			wantField: "cache",
		},
		{
			name:      "errorf",
			logFn:     func(logger log.FieldLogger) { logger.Errorf("cannot register cache: %d", 0) },
			wantText:  prefix + "cannot register cache: 0",
			wantLevel: log.LevelError,
		},
		{
			name:      "with fields",
			logFn:     func(logger log.FieldLogger) { logger.With(log.String("cache_instance", "abc")).Info("cache purged") },
			wantText:  prefix + "cache purged",
			wantLevel: log.LevelInfo,
			wantField: "cache_instance",
		},
		{
			name: "at level",
			logFn: func(logger log.FieldLogger) {
				logger.AtLevel(log.LevelDebug, func(logFunc log.LogFunc) {
					logFunc("entry evicted", log.Int("len", 2))
				})
			},
			wantText:  prefix + "entry evicted",
			wantLevel: log.LevelDebug,
			wantField: "len",
		},
		{
			name:      "nested prefixes",
			logFn:     func(logger log.FieldLogger) { log.NewPrefixedLogger(logger, "app: ").Info("started") },
			wantText:  "app: " + prefix + "started",
			wantLevel: log.LevelInfo,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := logtest.NewRecorder()
			tt.logFn(log.NewPrefixedLogger(recorder, prefix))

			entries := recorder.Entries()
			require.Len(t, entries, 1)
			require.Equal(t, tt.wantText, entries[0].Text)
			require.Equal(t, tt.wantLevel, entries[0].Level)
			if tt.wantField != "" {
				_, found := entries[0].FindField(tt.wantField)
				require.True(t, found)
			}
		})
	}
}

func TestPrefixedLogger_WithLevel(t *testing.T) {
	recorder := logtest.NewRecorder()
	logger := log.NewPrefixedLogger(recorder, "cache registry: ").WithLevel(log.LevelWarn)

	logger.Debug("entry added")
	logger.Infof("cache %s registered", "user")
	logger.Warn("cache replaced")

	entries := recorder.Entries()
	require.Len(t, entries, 1)
	require.Equal(t, "cache registry: cache replaced", entries[0].Text)

	prefixed, ok := log.NewPrefixedLogger(logger, "app: ").(*log.PrefixedLogger)
	require.True(t, ok)
	require.Equal(t, "app: cache registry: ", prefixed.Prefix())
}
