package services

import (
	"context"
	"fmt"

	"frtutracker/database"
	"frtutracker/models"
)

// Fixed keys of the three persisted blobs.
const (
	KeyDevices   = "pea_frtu_data"
	KeyLogs      = "pea_frtu_logs"
	KeyDirectory = "pea_frtu_employees"
)

// Devices returns the device collection, seeding and persisting the sample
// set when the key has never been written.
func (a kvAccess) Devices(ctx context.Context) ([]models.FRTU, error) {
	var devices []models.FRTU
	found, err := a.read(ctx, KeyDevices, &devices)
	if err != nil {
		return nil, err
	}
	if !found {
		seed := models.InitialFRTUs()
		if err := a.write(ctx, KeyDevices, seed); err != nil {
			return nil, err
		}
		return seed, nil
	}
	if devices == nil {
		devices = []models.FRTU{}
	}
	return devices, nil
}

// PutDevices rewrites the whole device collection.
func (a kvAccess) PutDevices(ctx context.Context, devices []models.FRTU) error {
	if devices == nil {
		devices = []models.FRTU{}
	}
	return a.write(ctx, KeyDevices, devices)
}

// Logs returns the audit log newest first; an unwritten key is an empty log.
func (a kvAccess) Logs(ctx context.Context) ([]models.HistoryLog, error) {
	var logs []models.HistoryLog
	if _, err := a.read(ctx, KeyLogs, &logs); err != nil {
		return nil, err
	}
	if logs == nil {
		logs = []models.HistoryLog{}
	}
	return logs, nil
}

// PutLogs rewrites the whole audit log.
func (a kvAccess) PutLogs(ctx context.Context, logs []models.HistoryLog) error {
	if logs == nil {
		logs = []models.HistoryLog{}
	}
	return a.write(ctx, KeyLogs, logs)
}

// Directory returns the cached technician list and whether one was cached.
func (a kvAccess) Directory(ctx context.Context) ([]string, bool, error) {
	var names []string
	found, err := a.read(ctx, KeyDirectory, &names)
	if err != nil {
		return nil, found, err
	}
	return names, found, nil
}

// PutDirectory replaces the cached technician list.
func (a kvAccess) PutDirectory(ctx context.Context, names []string) error {
	return a.write(ctx, KeyDirectory, names)
}

// RecordStore owns the persisted device list, audit log and directory cache.
type RecordStore struct {
	kvAccess
	db SQLExecutor
}

// NewRecordStore creates a RecordStore over an opened database.
func NewRecordStore(db SQLExecutor, dialect database.Dialect) *RecordStore {
	return &RecordStore{
		kvAccess: kvAccess{q: db, dialect: dialect},
		db:       db,
	}
}

// RecordTx is the store view inside Atomic.
type RecordTx struct {
	kvAccess
}

// Atomic runs fn in one transaction. The transaction commits only when fn
// returns nil.
func (s *RecordStore) Atomic(ctx context.Context, fn func(tx *RecordTx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(&RecordTx{kvAccess: kvAccess{q: tx, dialect: s.dialect}}); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
