package services

import (
	"context"
	"time"

	"frtutracker/models"

	"github.com/rs/xid"
)

// AuditLogger appends immutable entries to the log and forwards them to the
// mirror once they are committed.
type AuditLogger struct {
	mirror Mirror
	now    func() time.Time
}

// NewAuditLogger creates an AuditLogger. A nil mirror disables mirroring.
func NewAuditLogger(mirror Mirror) *AuditLogger {
	if mirror == nil {
		mirror = NopMirror{}
	}
	return &AuditLogger{mirror: mirror, now: time.Now}
}

// SetClock replaces the timestamp source.
func (a *AuditLogger) SetClock(now func() time.Time) {
	a.now = now
}

// NewEntry builds an entry with a time-ordered id and the current instant.
func (a *AuditLogger) NewEntry(device models.FRTU, action models.ActionType, details, officer string, snapshot *models.Snapshot) models.HistoryLog {
	return models.HistoryLog{
		ID:          xid.New().String(),
		FRTUID:      device.ID,
		FRTUSerial:  device.SerialNumber,
		Action:      action,
		Details:     details,
		OfficerName: officer,
		Timestamp:   a.now().UTC(),
		Snapshot:    snapshot,
	}
}

// Record prepends entry to the log inside tx and returns the new log.
func (a *AuditLogger) Record(ctx context.Context, tx *RecordTx, entry models.HistoryLog) ([]models.HistoryLog, error) {
	logs, err := tx.Logs(ctx)
	if err != nil {
		return nil, err
	}

	updated := make([]models.HistoryLog, 0, len(logs)+1)
	updated = append(updated, entry)
	updated = append(updated, logs...)

	if err := tx.PutLogs(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// Mirror hands a committed entry to the mirror. It returns immediately.
func (a *AuditLogger) Mirror(entry models.HistoryLog) {
	a.mirror.Submit(entry)
}
