package obs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestTimeLogsFailure(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ctx := WithRequestID(context.Background(), "abc")

	func() (err error) {
		defer Time(ctx, zap.New(core), "routing.Route")(&err)
		return errors.New("boom")
	}()

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	assert.Equal(t, "abc", entry.ContextMap()["req_id"])
	assert.Equal(t, "routing.Route", entry.ContextMap()["op"])
	assert.Equal(t, "boom", entry.ContextMap()["error"])
}

func TestTimeLogsSuccessAtDebug(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	func() (err error) {
		defer Time(context.Background(), zap.New(core), "store.SaveBatch")(&err)
		return nil
	}()

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zapcore.DebugLevel, logs.All()[0].Level)
}
