package services

import (
	"context"
	"time"

	"frtutracker/models"
	"frtutracker/utils"
)

// DateRange bounds the dashboard. A zero Start or End is open-ended.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// IsZero reports whether neither bound is set.
func (r DateRange) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// contains compares against the whole day of End.
func (r DateRange) contains(t time.Time) bool {
	if !r.Start.IsZero() && t.Before(utils.StartOfDay(r.Start)) {
		return false
	}
	if !r.End.IsZero() && t.After(utils.EndOfDay(r.End)) {
		return false
	}
	return true
}

// StatsReader is the part of the store the dashboard reads.
type StatsReader interface {
	Devices(ctx context.Context) ([]models.FRTU, error)
	Logs(ctx context.Context) ([]models.HistoryLog, error)
}

// StatsService computes dashboard counts.
type StatsService struct {
	store StatsReader
}

// NewStatsService creates a StatsService.
func NewStatsService(store StatsReader) *StatsService {
	return &StatsService{store: store}
}

// Stats counts devices by status and log entries within the range. Devices
// are dated by their last maintenance; undated devices drop out of a bounded
// range.
func (s *StatsService) Stats(ctx context.Context, r DateRange) (models.DashboardStats, error) {
	devices, err := s.store.Devices(ctx)
	if err != nil {
		return models.DashboardStats{}, err
	}
	logs, err := s.store.Logs(ctx)
	if err != nil {
		return models.DashboardStats{}, err
	}

	var stats models.DashboardStats
	for _, d := range devices {
		if !r.IsZero() {
			when, err := utils.ParseUserDate(d.LastMaintenance)
			if err != nil || !r.contains(when) {
				continue
			}
		}
		stats.Total++
		switch d.Status {
		case models.FRTUStatusOnline:
			stats.Online++
		case models.FRTUStatusOffline:
			stats.Offline++
		case models.FRTUStatusInitializing:
			stats.Initializing++
		case models.FRTUStatusConnecting:
			stats.Connecting++
		}
	}

	for _, l := range logs {
		if r.IsZero() || r.contains(l.Timestamp) {
			stats.LogCount++
		}
	}
	return stats, nil
}
