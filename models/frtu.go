package models

import (
	"fmt"
	"strings"
)

// FRTUStatus operational state of a remote unit
type FRTUStatus string

const (
	FRTUStatusOnline       FRTUStatus = "Online"
	FRTUStatusInitializing FRTUStatus = "Initializing"
	FRTUStatusConnecting   FRTUStatus = "Connecting"
	FRTUStatusOffline      FRTUStatus = "Offline"
)

// AllStatuses returns the statuses in display order.
func AllStatuses() []FRTUStatus {
	return []FRTUStatus{FRTUStatusOnline, FRTUStatusInitializing, FRTUStatusConnecting, FRTUStatusOffline}
}

// Valid reports whether s is one of the four operational statuses.
func (s FRTUStatus) Valid() bool {
	switch s {
	case FRTUStatusOnline, FRTUStatusInitializing, FRTUStatusConnecting, FRTUStatusOffline:
		return true
	}
	return false
}

// FRTU one Feeder Remote Terminal Unit record
type FRTU struct {
	ID              string     `json:"id"`
	SerialNumber    string     `json:"serialNumber"`
	Substation      string     `json:"substation"`
	Feeder          string     `json:"feeder"`
	Location        string     `json:"location"`
	IPAddress       string     `json:"ipAddress"`
	Status          FRTUStatus `json:"status"`
	CommandCode     string     `json:"commandCode"`
	EventDetails    string     `json:"eventDetails,omitempty"`
	PHOSData        string     `json:"phosData,omitempty"`
	PHBOData        string     `json:"phboData,omitempty"`
	LastMaintenance string     `json:"lastMaintenance"`
	Technician      string     `json:"technician"`
}

// ValidationError is returned when a device record breaks a field rule.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validate checks the required descriptive fields and the status enum.
func (f FRTU) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"serialNumber", f.SerialNumber},
		{"substation", f.Substation},
		{"feeder", f.Feeder},
		{"location", f.Location},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &ValidationError{Field: r.name, Reason: "required"}
		}
	}
	if !f.Status.Valid() {
		return &ValidationError{Field: "status", Reason: fmt.Sprintf("unknown status %q", f.Status)}
	}
	return nil
}

// DeviceFilter search criteria for the device list
type DeviceFilter struct {
	Query  string
	Status FRTUStatus
}

// ChangeStatusRequest is the body for a status-only update.
type ChangeStatusRequest struct {
	Status FRTUStatus `json:"status"`
}

// SignalTestRequest is the body for logging a communication test.
type SignalTestRequest struct {
	Note string `json:"note"`
}
