package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/leandrodaf/pianomidi/internal/console"
	"github.com/leandrodaf/pianomidi/internal/logger"
	"github.com/leandrodaf/pianomidi/sdk/contracts"
	"github.com/leandrodaf/pianomidi/sdk/midi"
)

type stuckAccess struct{}

func (stuckAccess) Inputs() []contracts.InputPort { return nil }
func (stuckAccess) Close() error                  { return errors.New("device busy") }

func newGateway(t *testing.T, backend contracts.Backend) *midi.Gateway {
	t.Helper()
	g, err := midi.NewGateway(
		contracts.WithLogger(logger.NewNopLogger()),
		contracts.WithConsole(console.NewChan(8)),
		contracts.WithBackend(backend),
	)
	require.NoError(t, err)
	return g
}

func TestCloseGatewayLogsCloseErrors(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := logger.Wrap(zap.New(core))

	g := newGateway(t, midi.StaticBackend(stuckAccess{}, nil))
	require.True(t, (<-g.RequestAccess(context.Background())).OK())
	closeGateway(g, log)

	entries := logs.FilterMessage("Closing MIDI access").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "device busy", entries[0].ContextMap()["error"])
}

func TestCloseGatewayIgnoresMissingAccess(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := logger.Wrap(zap.New(core))

	g := newGateway(t, midi.StaticBackend(nil, errors.New("denied")))
	require.False(t, (<-g.RequestAccess(context.Background())).OK())
	closeGateway(g, log)

	assert.Zero(t, logs.Len())
}
