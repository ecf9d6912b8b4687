package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogger_Discard(t *testing.T) {
	l, closer, err := setupLogger("")
	require.NoError(t, err)
	l.Info("nowhere")
	assert.NoError(t, closer.Close())
}

func TestSetupLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "linkscope.log")
	l, closer, err := setupLogger(path)
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())

	l.WithField("port", "/dev/ttyUSB0").Info("opened")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "port=/dev/ttyUSB0")
	assert.Contains(t, string(data), "msg=opened")
}
