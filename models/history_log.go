package models

import "time"

// ActionType semantic tag of an audit entry. The value is the label shown to
// technicians and written to the spreadsheet.
type ActionType string

const (
	ActionCreate       ActionType = "เพิ่มอุปกรณ์"
	ActionUpdate       ActionType = "แก้ไขข้อมูล"
	ActionDelete       ActionType = "ลบอุปกรณ์"
	ActionStatusChange ActionType = "เปลี่ยนสถานะ"
	ActionTest         ActionType = "ทดสอบสัญญาณ"
)

// HistoryLog one immutable audit entry. Snapshot is only attached by
// create/update and is flattened into the same JSON object.
type HistoryLog struct {
	ID          string     `json:"id"`
	FRTUID      string     `json:"frtuId"`
	FRTUSerial  string     `json:"frtuSerial"`
	Action      ActionType `json:"action"`
	Details     string     `json:"details"`
	OfficerName string     `json:"officerName"`
	Timestamp   time.Time  `json:"timestamp"`
	*Snapshot
}

// Snapshot device fields captured at save time.
type Snapshot struct {
	Substation   string     `json:"substation,omitempty"`
	Feeder       string     `json:"feeder,omitempty"`
	Location     string     `json:"location,omitempty"`
	EventDetails string     `json:"eventDetails,omitempty"`
	Status       FRTUStatus `json:"status,omitempty"`
	PHOSData     string     `json:"phosData,omitempty"`
	PHBOData     string     `json:"phboData,omitempty"`
}

// SnapshotOf copies the historical fields of a device.
func SnapshotOf(f FRTU) *Snapshot {
	return &Snapshot{
		Substation:   f.Substation,
		Feeder:       f.Feeder,
		Location:     f.Location,
		EventDetails: f.EventDetails,
		Status:       f.Status,
		PHOSData:     f.PHOSData,
		PHBOData:     f.PHBOData,
	}
}

// Extended returns the snapshot, or an empty one for base-only entries.
func (l HistoryLog) Extended() Snapshot {
	if l.Snapshot == nil {
		return Snapshot{}
	}
	return *l.Snapshot
}

// SheetRecord the fields forwarded to the remote append endpoint.
type SheetRecord struct {
	OfficerName  string `json:"officerName"`
	FRTUSerial   string `json:"frtuSerial"`
	Action       string `json:"action"`
	Details      string `json:"details"`
	EventDetails string `json:"eventDetails"`
	PHOSData     string `json:"phosData"`
	PHBOData     string `json:"phboData"`
	Status       string `json:"status"`
}

// SheetRecordOf maps an audit entry onto the mirror payload.
func SheetRecordOf(l HistoryLog) SheetRecord {
	ext := l.Extended()
	return SheetRecord{
		OfficerName:  l.OfficerName,
		FRTUSerial:   l.FRTUSerial,
		Action:       string(l.Action),
		Details:      l.Details,
		EventDetails: ext.EventDetails,
		PHOSData:     ext.PHOSData,
		PHBOData:     ext.PHBOData,
		Status:       string(ext.Status),
	}
}

// DashboardStats device counts by status plus the number of log entries.
type DashboardStats struct {
	Total        int `json:"total"`
	Online       int `json:"online"`
	Offline      int `json:"offline"`
	Initializing int `json:"initializing"`
	Connecting   int `json:"connecting"`
	LogCount     int `json:"logCount"`
}
