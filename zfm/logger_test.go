package zfm

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

func TestLogrusFields(t *testing.T) {
	fields := logrusFields([]interface{}{"op", "verify password", "code", 0x00, 42, "answer", "dangling"})

	require.Equal(t, logrus.Fields{
		"op":   "verify password",
		"code": 0x00,
		"42":   "answer",
	}, fields)
}

func TestLogrusLogger(t *testing.T) {
	base, hook := test.NewNullLogger()
	base.SetLevel(logrus.DebugLevel)

	logger := &LogrusLogger{Logger: base}
	logger.Debug("command exchange", "op", "handshake")
	logger.Info("session established", "capacity", uint16(200))
	logger.Error("command failed", "op", "store template")

	entries := hook.AllEntries()
	require.Len(t, entries, 3)
	require.Equal(t, "command exchange", entries[0].Message)
	require.Equal(t, "handshake", entries[0].Data["op"])
	require.Equal(t, logrus.InfoLevel, entries[1].Level)
	require.Equal(t, logrus.ErrorLevel, entries[2].Level)
}
