package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesToFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "rexyz.log")

	logger, closer, err := New(Options{File: file, Level: "debug", MaxSizeMB: 1})
	require.NoError(t, err)

	logger.WithField("slot", "rexyzGallery").Warn("failed parsing saved gallery")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "failed parsing saved gallery")
	assert.Contains(t, string(data), "slot=rexyzGallery")
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
}

func TestNew_VerboseMirrors(t *testing.T) {
	var mirror bytes.Buffer

	logger, closer, err := New(Options{Verbose: true, Mirror: &mirror})
	require.NoError(t, err)
	defer closer.Close()

	logger.Info("exported")
	assert.Contains(t, mirror.String(), "exported")
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel(), "level defaults to info")
}

func TestNew_QuietWithoutVerbose(t *testing.T) {
	var mirror bytes.Buffer

	logger, closer, err := New(Options{Mirror: &mirror})
	require.NoError(t, err)
	defer closer.Close()

	logger.Error("not shown")
	assert.Empty(t, mirror.String())
}

func TestNew_InvalidLevel(t *testing.T) {
	_, _, err := New(Options{Level: "chatty"})
	assert.Error(t, err)
}
