package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusValid(t *testing.T) {
	for _, s := range AllStatuses() {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, FRTUStatus("online").Valid())
	assert.False(t, FRTUStatus("").Valid())
}

func TestValidate(t *testing.T) {
	d := InitialFRTUs()[0]
	require.NoError(t, d.Validate())

	d.Location = " "
	err := d.Validate()
	require.Error(t, err)
	assert.Equal(t, "invalid location: required", err.Error())

	d = InitialFRTUs()[0]
	d.Status = "Lost"
	assert.Error(t, d.Validate())
}

func TestHistoryLogJSONFlattensSnapshot(t *testing.T) {
	d := InitialFRTUs()[1]
	entry := HistoryLog{
		ID:          "x1",
		FRTUID:      d.ID,
		FRTUSerial:  d.SerialNumber,
		Action:      ActionUpdate,
		Details:     "แก้ไขข้อมูล " + d.SerialNumber,
		OfficerName: "นายวิชัย รักงาน",
		Timestamp:   time.Date(2024, 5, 20, 3, 4, 5, 0, time.UTC),
		Snapshot:    SnapshotOf(d),
	}

	raw, err := json.Marshal(entry)
	require.NoError(t, err)

	var flat map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &flat))
	assert.Equal(t, "แจ้งซ่อมแล้ว", flat["phosData"])
	assert.Equal(t, "Offline", flat["status"])
	assert.Equal(t, "2024-05-20T03:04:05Z", flat["timestamp"])
	assert.Equal(t, "แก้ไขข้อมูล", flat["action"])

	plain := HistoryLog{ID: "x2", Action: ActionDelete}
	raw, err = json.Marshal(plain)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "phosData")
	assert.Equal(t, Snapshot{}, plain.Extended())
}

func TestSheetRecordOf(t *testing.T) {
	d := InitialFRTUs()[2]
	rec := SheetRecordOf(HistoryLog{
		FRTUSerial:  d.SerialNumber,
		Action:      ActionCreate,
		Details:     "เพิ่มอุปกรณ์ใหม่ " + d.SerialNumber,
		OfficerName: "tech",
		Snapshot:    SnapshotOf(d),
	})
	assert.Equal(t, SheetRecord{
		OfficerName:  "tech",
		FRTUSerial:   "FRTU-PEA-003",
		Action:       "เพิ่มอุปกรณ์",
		Details:      "เพิ่มอุปกรณ์ใหม่ FRTU-PEA-003",
		EventDetails: "กำลังปรับปรุงเฟิร์มแวร์",
		PHOSData:     "-",
		PHBOData:     "รออนุมัติ",
		Status:       "Initializing",
	}, rec)
}
