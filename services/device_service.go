package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"frtutracker/models"

	"github.com/google/uuid"
)

// DeviceService is the only writer of the device collection. Every mutation
// reads the whole collection, writes it back and appends one audit entry in a
// single transaction, then mirrors the entry.
type DeviceService struct {
	store     *RecordStore
	audit     *AuditLogger
	directory TechnicianDirectory
	newID     func() string

	// serializes read-modify-write cycles across requests
	mu sync.Mutex
}

// NewDeviceService creates a DeviceService. Saved devices must name a
// technician listed in directory.
func NewDeviceService(store *RecordStore, audit *AuditLogger, directory TechnicianDirectory) *DeviceService {
	return &DeviceService{
		store:     store,
		audit:     audit,
		directory: directory,
		newID:     uuid.NewString,
	}
}

// List returns the stored devices in insertion order.
func (s *DeviceService) List(ctx context.Context) ([]models.FRTU, error) {
	return s.store.Devices(ctx)
}

// Get returns one device by id.
func (s *DeviceService) Get(ctx context.Context, id string) (models.FRTU, error) {
	devices, err := s.store.Devices(ctx)
	if err != nil {
		return models.FRTU{}, err
	}
	if i := indexOf(devices, id); i >= 0 {
		return devices[i], nil
	}
	return models.FRTU{}, ErrDeviceNotFound
}

// Logs returns the audit log newest first.
func (s *DeviceService) Logs(ctx context.Context) ([]models.HistoryLog, error) {
	return s.store.Logs(ctx)
}

// Save appends a new device or overwrites an existing one.
func (s *DeviceService) Save(ctx context.Context, device models.FRTU, isNew bool, actor string) (models.FRTU, error) {
	if err := device.Validate(); err != nil {
		return models.FRTU{}, err
	}
	if !s.directory.Contains(ctx, device.Technician) {
		return models.FRTU{}, fmt.Errorf("%w: %q", ErrUnknownTechnician, device.Technician)
	}
	if isNew && device.ID == "" {
		device.ID = s.newID()
	}

	_, err := s.mutate(ctx, func(devices []models.FRTU) ([]models.FRTU, models.HistoryLog, error) {
		i := indexOf(devices, device.ID)

		var next []models.FRTU
		action := models.ActionUpdate
		details := fmt.Sprintf("แก้ไขข้อมูล %s", device.SerialNumber)
		if isNew {
			if i >= 0 {
				return nil, models.HistoryLog{}, fmt.Errorf("%w: %s", ErrDuplicateDevice, device.ID)
			}
			next = append(append(make([]models.FRTU, 0, len(devices)+1), devices...), device)
			action = models.ActionCreate
			details = fmt.Sprintf("เพิ่มอุปกรณ์ใหม่ %s", device.SerialNumber)
		} else {
			if i < 0 {
				return nil, models.HistoryLog{}, fmt.Errorf("%w: %s", ErrDeviceNotFound, device.ID)
			}
			next = append([]models.FRTU(nil), devices...)
			next[i] = device
		}

		entry := s.audit.NewEntry(device, action, details, actor, models.SnapshotOf(device))
		return next, entry, nil
	})
	if err != nil {
		return models.FRTU{}, err
	}
	return device, nil
}

// Delete removes the device with id. serial is kept on the audit entry for
// historical display; when empty the stored serial is used.
func (s *DeviceService) Delete(ctx context.Context, id, serial, actor string) error {
	_, err := s.mutate(ctx, func(devices []models.FRTU) ([]models.FRTU, models.HistoryLog, error) {
		i := indexOf(devices, id)
		if i < 0 {
			return nil, models.HistoryLog{}, fmt.Errorf("%w: %s", ErrDeviceNotFound, id)
		}
		if serial == "" {
			serial = devices[i].SerialNumber
		}

		next := make([]models.FRTU, 0, len(devices)-1)
		next = append(next, devices[:i]...)
		next = append(next, devices[i+1:]...)

		ref := models.FRTU{ID: id, SerialNumber: serial}
		entry := s.audit.NewEntry(ref, models.ActionDelete, fmt.Sprintf("ลบอุปกรณ์ %s", serial), actor, nil)
		return next, entry, nil
	})
	return err
}

// ChangeStatus stores a new status. An unknown id has no effect and writes no
// entry.
func (s *DeviceService) ChangeStatus(ctx context.Context, id string, status models.FRTUStatus, actor string) (models.FRTU, error) {
	if !status.Valid() {
		return models.FRTU{}, &models.ValidationError{Field: "status", Reason: fmt.Sprintf("unknown status %q", status)}
	}

	var updated models.FRTU
	_, err := s.mutate(ctx, func(devices []models.FRTU) ([]models.FRTU, models.HistoryLog, error) {
		i := indexOf(devices, id)
		if i < 0 {
			return nil, models.HistoryLog{}, fmt.Errorf("%w: %s", ErrDeviceNotFound, id)
		}

		old := devices[i].Status
		next := append([]models.FRTU(nil), devices...)
		next[i].Status = status
		updated = next[i]

		details := fmt.Sprintf("เปลี่ยนสถานะจาก %s เป็น %s", old, status)
		entry := s.audit.NewEntry(updated, models.ActionStatusChange, details, actor, nil)
		return next, entry, nil
	})
	if err != nil {
		return models.FRTU{}, err
	}
	return updated, nil
}

// RecordTest logs a communication test against an existing device without
// changing it.
func (s *DeviceService) RecordTest(ctx context.Context, id, actor, note string) (models.HistoryLog, error) {
	return s.mutate(ctx, func(devices []models.FRTU) ([]models.FRTU, models.HistoryLog, error) {
		i := indexOf(devices, id)
		if i < 0 {
			return nil, models.HistoryLog{}, fmt.Errorf("%w: %s", ErrDeviceNotFound, id)
		}

		details := fmt.Sprintf("ทดสอบสัญญาณ %s", devices[i].SerialNumber)
		if note = strings.TrimSpace(note); note != "" {
			details += ": " + note
		}
		return nil, s.audit.NewEntry(devices[i], models.ActionTest, details, actor, nil), nil
	})
}

// mutate runs one read-compute-persist-log cycle. A nil collection from fn
// leaves the devices untouched.
func (s *DeviceService) mutate(ctx context.Context, fn func([]models.FRTU) ([]models.FRTU, models.HistoryLog, error)) (models.HistoryLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var entry models.HistoryLog
	err := s.store.Atomic(ctx, func(tx *RecordTx) error {
		devices, err := tx.Devices(ctx)
		if err != nil {
			return err
		}

		next, e, err := fn(devices)
		if err != nil {
			return err
		}
		if next != nil {
			if err := tx.PutDevices(ctx, next); err != nil {
				return err
			}
		}

		entry = e
		_, err = s.audit.Record(ctx, tx, entry)
		return err
	})
	if err != nil {
		return models.HistoryLog{}, err
	}

	s.audit.Mirror(entry)
	return entry, nil
}

// FilterDevices matches the query against serial and substation
// (case-insensitive) and the status exactly when set.
func FilterDevices(devices []models.FRTU, filter models.DeviceFilter) []models.FRTU {
	query := strings.ToLower(strings.TrimSpace(filter.Query))
	out := make([]models.FRTU, 0, len(devices))
	for _, d := range devices {
		if query != "" &&
			!strings.Contains(strings.ToLower(d.SerialNumber), query) &&
			!strings.Contains(strings.ToLower(d.Substation), query) {
			continue
		}
		if filter.Status != "" && d.Status != filter.Status {
			continue
		}
		out = append(out, d)
	}
	return out
}

func indexOf(devices []models.FRTU, id string) int {
	for i := range devices {
		if devices[i].ID == id {
			return i
		}
	}
	return -1
}
