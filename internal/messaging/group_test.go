package messaging_test

import (
	"context"
	"errors"
	"testing"

	"github.com/serroba/videosync-go/internal/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockRunnable struct {
	startErr    error
	shutdownErr error
	started     bool
	stopped     bool
}

func (m *mockRunnable) Start(context.Context) error {
	if m.startErr != nil {
		return m.startErr
	}

	m.started = true

	return nil
}

func (m *mockRunnable) Shutdown() error {
	m.stopped = true

	return m.shutdownErr
}

func TestConsumerGroup(t *testing.T) {
	t.Run("starts and stops all consumers", func(t *testing.T) {
		sub := newMockSubscriber()
		a, b := &mockRunnable{}, &mockRunnable{}
		group := messaging.NewConsumerGroup(sub, zap.NewNop())
		group.Add(a, b)

		require.NoError(t, group.Start(context.Background()))
		assert.True(t, a.started)
		assert.True(t, b.started)

		require.NoError(t, group.Shutdown())
		assert.True(t, a.stopped)
		assert.True(t, b.stopped)
		assert.True(t, sub.closed)
	})

	t.Run("rolls back started consumers when one fails", func(t *testing.T) {
		sub := newMockSubscriber()
		a := &mockRunnable{}
		b := &mockRunnable{startErr: errors.New("boom")}
		c := &mockRunnable{}
		group := messaging.NewConsumerGroup(sub, zap.NewNop())
		group.Add(a, b, c)

		err := group.Start(context.Background())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "boom")
		assert.True(t, a.stopped)
		assert.False(t, c.started)
	})

	t.Run("joins shutdown errors", func(t *testing.T) {
		sub := newMockSubscriber()
		sub.closeErr = errors.New("close failed")
		group := messaging.NewConsumerGroup(sub, zap.NewNop())
		group.Add(&mockRunnable{shutdownErr: errors.New("drain failed")})

		require.NoError(t, group.Start(context.Background()))

		err := group.Shutdown()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "drain failed")
		assert.Contains(t, err.Error(), "close failed")
	})
}

func TestZapLoggerAdapter(t *testing.T) {
	adapter := messaging.NewZapLoggerAdapter(zap.NewNop())

	assert.NotPanics(t, func() {
		adapter.Info("info", nil)
		adapter.Debug("debug", map[string]any{"k": 1})
		adapter.Trace("trace", nil)
		adapter.Error("error", errors.New("x"), nil)
		adapter.With(map[string]any{"component": "test"}).Info("with", nil)
	})
}
