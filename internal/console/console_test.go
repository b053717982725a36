package console

import (
	"bytes"
	"testing"

	"github.com/leandrodaf/pianomidi/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestStreamRoutesLines(t *testing.T) {
	var out, errOut bytes.Buffer
	c := NewStream(&out, &errOut)

	c.Log("MIDI ready!")
	c.Error("Failed to get MIDI access - denied")

	assert.Equal(t, "MIDI ready!\n", out.String())
	assert.Equal(t, "Failed to get MIDI access - denied\n", errOut.String())
}

func TestChanDropsWhenFull(t *testing.T) {
	c := NewChan(1)
	c.Log("first")
	c.Error("second")

	require.Len(t, c.Lines(), 1)
	assert.Equal(t, Line{Text: "first"}, <-c.Lines())
}

func TestTee(t *testing.T) {
	var a, b bytes.Buffer
	core, logs := observer.New(zapcore.DebugLevel)
	c := Tee(NewStream(&a, &a), NewStream(&b, &b), NewLogged(logger.Wrap(zap.New(core))))

	c.Log("line")
	c.Error("oops")

	assert.Equal(t, "line\noops\n", a.String())
	assert.Equal(t, a.String(), b.String())
	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "line", logs.All()[0].ContextMap()["line"])
	assert.Equal(t, zapcore.ErrorLevel, logs.All()[1].Level)
}
