package services

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"frtutracker/database"
	"frtutracker/logger"
	"frtutracker/models"
	"frtutracker/utils"

	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.SetOutput(logger.ERROR, io.Discard)
	utils.SetLocation(time.FixedZone("Asia/Bangkok", 7*60*60))
	os.Exit(m.Run())
}

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.Open(context.Background(), "sqlite", filepath.Join(t.TempDir(), "frtu.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestStore(t *testing.T) *RecordStore {
	t.Helper()
	db := newTestDB(t)
	return NewRecordStore(NewSQLExecutor(db.DB), db.Dialect)
}

// recordingMirror collects submitted entries.
type recordingMirror struct {
	entries []models.HistoryLog
}

func (m *recordingMirror) Submit(entry models.HistoryLog) {
	m.entries = append(m.entries, entry)
}

func newTestDeviceService(t *testing.T) (*DeviceService, *RecordStore, *recordingMirror) {
	t.Helper()
	store := newTestStore(t)
	mirror := &recordingMirror{}
	directory := NewDirectoryService(store, "", 0, nil)
	return NewDeviceService(store, NewAuditLogger(mirror), directory), store, mirror
}
