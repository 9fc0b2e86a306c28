package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/op/go-logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	for name, want := range map[string]logging.Level{
		"debug":   logging.DEBUG,
		"INFO":    logging.INFO,
		"notice":  logging.NOTICE,
		"warn":    logging.WARNING,
		"warning": logging.WARNING,
		" error ": logging.ERROR,
	} {
		got, err := ParseLevel(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestInitWriterFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, logging.WARNING)

	Info("hidden")
	Warningf("shown %d", 1)

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown 1")
}

func TestInitWritesFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	require.NoError(t, Init(logging.ERROR, dir))
	defer Close()

	// the file keeps every level regardless of the console level
	Debug("to the file")

	data, err := os.ReadFile(filepath.Join(dir, fileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "to the file")
}
