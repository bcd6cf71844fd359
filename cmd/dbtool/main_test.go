package main

import (
	"testing"

	"travel-time-service/internal/config"
	"travel-time-service/internal/platform/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRunInitializesSchema(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	err := run(config.DatabaseConfig{Driver: db.DriverSQLite, URL: ":memory:"}, zap.New(core))
	require.NoError(t, err)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "initializing schema", entries[0].Message)
	assert.Equal(t, db.DriverSQLite, entries[0].ContextMap()["driver"])
	assert.Equal(t, "schema ready", entries[1].Message)
}

func TestRunRequiresDatabaseURL(t *testing.T) {
	err := run(config.DatabaseConfig{Driver: db.DriverSQLite}, zap.NewNop())
	assert.EqualError(t, err, "DATABASE_URL is required")
}
