package services

import (
	"bytes"
	"testing"
	"time"

	"frtutracker/models"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reportLogs() []models.HistoryLog {
	seed := models.InitialFRTUs()[0]
	return []models.HistoryLog{
		{
			ID:          "b",
			FRTUID:      "1",
			FRTUSerial:  "FRTU-PEA-001",
			Action:      models.ActionCreate,
			Details:     "เพิ่มอุปกรณ์ใหม่ FRTU-PEA-001",
			OfficerName: "นายสมชาย ใจดี",
			Timestamp:   time.Date(2024, 5, 20, 3, 4, 5, 0, time.UTC),
			Snapshot:    models.SnapshotOf(seed),
		},
		{
			ID:          "a",
			FRTUID:      "2",
			FRTUSerial:  "FRTU-PEA-002",
			Action:      models.ActionDelete,
			Details:     `ลบ, "quoted"`,
			OfficerName: `Tech "Q"`,
			Timestamp:   time.Date(2024, 1, 2, 17, 30, 0, 0, time.UTC),
		},
	}
}

func TestExportCSVGolden(t *testing.T) {
	out, ok := NewReportExporter("").ExportCSV(reportLogs())
	require.True(t, ok)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "export_csv", out)
}

func TestExportCSVShape(t *testing.T) {
	exporter := NewReportExporter("")
	out, ok := exporter.ExportCSV(reportLogs())
	require.True(t, ok)

	assert.True(t, bytes.HasPrefix(out, []byte{0xEF, 0xBB, 0xBF}))
	assert.False(t, bytes.HasSuffix(out, []byte("\n")))
	assert.Equal(t, 2, bytes.Count(out, []byte("\n")))

	again, _ := exporter.ExportCSV(reportLogs())
	assert.Equal(t, out, again)
}

func TestExportEmpty(t *testing.T) {
	exporter := NewReportExporter("")

	out, ok := exporter.ExportCSV(nil)
	assert.False(t, ok)
	assert.Nil(t, out)

	pdf, ok, err := exporter.ExportPDF([]models.HistoryLog{})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, pdf)
}

func TestExportPDF(t *testing.T) {
	// ASCII-only rows render with the built-in font
	logs := []models.HistoryLog{{
		ID:          "x",
		FRTUSerial:  "FRTU-PEA-009",
		Action:      "test",
		Details:     "signal ok",
		OfficerName: "tech",
		Timestamp:   time.Date(2024, 5, 20, 3, 4, 5, 0, time.UTC),
	}}

	out, ok, err := NewReportExporter("").ExportPDF(logs)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestExportPDFMissingFont(t *testing.T) {
	_, _, err := NewReportExporter("/nonexistent/font.ttf").ExportPDF(reportLogs())
	assert.Error(t, err)
}

func TestReportFileName(t *testing.T) {
	now := time.Date(2024, 5, 19, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, "frtu_logs_2024-05-20.csv", ReportFileName(now, "csv"))
}
