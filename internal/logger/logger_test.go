package logger

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatterLayout(t *testing.T) {
	entry := &logrus.Entry{
		Time:    time.Date(2026, 2, 17, 9, 5, 0, 0, time.UTC),
		Level:   logrus.WarnLevel,
		Message: "turn rejected",
		Data:    logrus.Fields{"session": "s1", "intent": "swot"},
	}
	out, err := (&Formatter{}).Format(entry)
	require.NoError(t, err)
	assert.Equal(t, "[2026-02-17 09:05:00] [WARN] [] turn rejected intent=swot session=s1\n", string(out))
}

func TestInitWritesFileAndParsesLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	require.NoError(t, Init("debug", path))
	assert.Equal(t, logrus.DebugLevel, Log.GetLevel())
	assert.FileExists(t, path)

	require.NoError(t, Init("nonsense", ""))
	assert.Equal(t, logrus.InfoLevel, Log.GetLevel())
}
