package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// useTempLogDir points the package at a fresh directory and a fresh session
// for the duration of the test.
func useTempLogDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	prevDir, prevErr, prevSession := logDir, initErr, sessionID

	logDir = dir
	initErr = nil
	initOnce = sync.Once{}
	sessionID = ""
	sessionIDOnce = sync.Once{}

	t.Cleanup(func() {
		logDir, initErr, sessionID = prevDir, prevErr, prevSession
		initOnce = sync.Once{}
		sessionIDOnce = sync.Once{}
	})
	return dir
}

func readLog(t *testing.T, l *Logger) string {
	t.Helper()
	data, err := os.ReadFile(l.LogPath())
	require.NoError(t, err)
	return string(data)
}

func TestNewLoggerCreatesSessionFile(t *testing.T) {
	dir := useTempLogDir(t)

	logger, err := NewLogger("store")
	require.NoError(t, err)
	defer logger.Close()

	assert.Equal(t, "store", logger.component)
	assert.Equal(t, dir, filepath.Dir(logger.LogPath()))
	assert.FileExists(t, logger.LogPath())

	name := filepath.Base(logger.LogPath())
	require.True(t, strings.HasSuffix(name, "-nebula.log"), name)
	_, err = uuid.Parse(strings.TrimSuffix(name, "-nebula.log"))
	assert.NoError(t, err, "file name should start with the session uuid")
	assert.Equal(t, logger.SessionID(), strings.TrimSuffix(name, "-nebula.log"))
}

func TestLogLevels(t *testing.T) {
	useTempLogDir(t)

	logger, err := NewLogger("refresh")
	require.NoError(t, err)
	defer logger.Close()

	logger.Printf("periodic tick %d", 3)
	logger.Debugf("sending %d notes", 5)
	logger.Infof("board replaced")
	logger.Warnf("remote call failed")
	logger.Errorf("write failed")

	content := readLog(t, logger)
	for _, want := range []string{
		"[refresh] [INFO] periodic tick 3",
		"[refresh] [DEBUG] sending 5 notes",
		"[refresh] [INFO] board replaced",
		"[refresh] [WARN] remote call failed",
		"[refresh] [ERROR] write failed",
	} {
		assert.Contains(t, content, want)
	}
}

func TestComponentsShareSessionFile(t *testing.T) {
	useTempLogDir(t)

	storeLog, err := NewLogger("store")
	require.NoError(t, err)
	defer storeLog.Close()
	tuiLog, err := NewLogger("tui")
	require.NoError(t, err)
	defer tuiLog.Close()

	assert.Equal(t, storeLog.SessionID(), tuiLog.SessionID())
	assert.Equal(t, storeLog.LogPath(), tuiLog.LogPath())

	storeLog.Infof("loaded 2 notes")
	tuiLog.Infof("switched view")

	content := readLog(t, storeLog)
	assert.Contains(t, content, "[store] [INFO] loaded 2 notes")
	assert.Contains(t, content, "[tui] [INFO] switched view")
}

func TestSessionIDIsStable(t *testing.T) {
	useTempLogDir(t)

	id := GetSessionID()
	assert.NotEmpty(t, id)
	assert.Equal(t, id, GetSessionID())
}

func TestGetLogDirectory(t *testing.T) {
	want := useTempLogDir(t)

	dir, err := GetLogDirectory()
	require.NoError(t, err)
	assert.Equal(t, want, dir)
	assert.DirExists(t, dir)
}

func TestCloseTwice(t *testing.T) {
	useTempLogDir(t)

	logger, err := NewLogger("cli")
	require.NoError(t, err)

	assert.NoError(t, logger.Close())
	assert.NoError(t, logger.Close())
}

func TestDiscardLoggerWritesNothing(t *testing.T) {
	logger := Discard("quiet")
	logger.Errorf("dropped %d", 1)
	assert.Empty(t, logger.LogPath())
}

func TestNilLoggerIsSafe(t *testing.T) {
	var logger *Logger
	assert.NotPanics(t, func() { logger.Warnf("no panic") })
}

func TestWriterLoggerAndMirror(t *testing.T) {
	var direct, mirrored bytes.Buffer
	SetMirror(&mirrored)
	defer SetMirror(nil)

	logger := NewWriterLogger("insight", &direct)
	logger.Warnf("remote call failed: %s", "timeout")

	want := "[insight] [WARN] remote call failed: timeout"
	assert.Contains(t, direct.String(), want)
	assert.Contains(t, mirrored.String(), want)
}
