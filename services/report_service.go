package services

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"frtutracker/models"
	"frtutracker/utils"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/border"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/johnfercher/maroto/v2/pkg/repository"
)

// utf8BOM lets spreadsheet tools detect UTF-8.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// LogReportHeaders fixed columns of the exported log.
var LogReportHeaders = []string{"Date", "Officer", "Serial", "Action", "Details", "PHOS Data", "PHBO Data"}

var pdfColumnWidths = []int{14, 14, 12, 10, 26, 12, 12}

const pdfFontFamily = "reportfont"

// ReportExporter renders the audit log as a downloadable file.
type ReportExporter struct {
	fontPath string
}

// NewReportExporter creates an exporter. fontPath is an optional UTF-8 TTF
// used by the PDF output; without it Thai glyphs are not rendered.
func NewReportExporter(fontPath string) *ReportExporter {
	return &ReportExporter{fontPath: fontPath}
}

// ExportCSV returns false when there is nothing to export. Output is
// deterministic for the same log.
func (e *ReportExporter) ExportCSV(logs []models.HistoryLog) ([]byte, bool) {
	if len(logs) == 0 {
		return nil, false
	}

	var buf bytes.Buffer
	buf.Write(utf8BOM)
	buf.WriteString(strings.Join(LogReportHeaders, ","))
	for _, l := range logs {
		buf.WriteByte('\n')
		for i, field := range reportRow(l) {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.WriteString(quoteField(field))
		}
	}
	return buf.Bytes(), true
}

// ExportPDF renders the same columns as a table.
func (e *ReportExporter) ExportPDF(logs []models.HistoryLog) ([]byte, bool, error) {
	if len(logs) == 0 {
		return nil, false, nil
	}

	builder := config.NewBuilder().
		WithOrientation(orientation.Horizontal).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(15).
		WithRightMargin(10).
		WithPageNumber().
		WithMaxGridSize(100)

	family := ""
	if e.fontPath != "" {
		rf := repository.New()
		rf.AddUTF8Font(pdfFontFamily, fontstyle.Normal, e.fontPath)
		fonts, err := rf.Load()
		if err != nil {
			return nil, false, fmt.Errorf("load report font: %w", err)
		}
		builder = builder.WithCustomFonts(fonts)
		family = pdfFontFamily
	}

	m := maroto.New(builder.Build())
	m.AddRow(12, text.NewCol(100, "FRTU History Log", props.Text{
		Family: family,
		Size:   14,
		Align:  align.Center,
		Top:    2,
		Style:  fontstyle.Normal,
	}))

	header := &props.Cell{BackgroundColor: &props.Color{Red: 200, Green: 200, Blue: 200}, BorderType: border.Left | border.Right}
	even := &props.Cell{BackgroundColor: &props.WhiteColor, BorderType: border.Left | border.Right}
	odd := &props.Cell{BackgroundColor: &props.Color{Red: 235, Green: 235, Blue: 235}, BorderType: border.Left | border.Right}

	m.AddRows(pdfRow(LogReportHeaders, family, header))
	for i, l := range logs {
		style := even
		if i&1 == 1 {
			style = odd
		}
		m.AddRows(pdfRow(reportRow(l), family, style))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, false, fmt.Errorf("generate pdf: %w", err)
	}
	return doc.GetBytes(), true, nil
}

func pdfRow(values []string, family string, style *props.Cell) core.Row {
	cols := make([]core.Col, 0, len(values))
	for i, v := range values {
		cols = append(cols, text.NewCol(pdfColumnWidths[i], v, props.Text{
			Family: family,
			Size:   8,
			Style:  fontstyle.Normal,
			Top:    1.5,
			Left:   1,
			Right:  1,
		}).WithStyle(style))
	}
	return row.New(8).Add(cols...)
}

// ReportFileName embeds the calendar date: frtu_logs_2024-05-20.csv
func ReportFileName(now time.Time, ext string) string {
	return fmt.Sprintf("frtu_logs_%s.%s", utils.FormatDateOnly(now), ext)
}

func reportRow(l models.HistoryLog) []string {
	ext := l.Extended()
	return []string{
		utils.FormatThaiDateTime(l.Timestamp),
		l.OfficerName,
		l.FRTUSerial,
		string(l.Action),
		l.Details,
		ext.PHOSData,
		ext.PHBOData,
	}
}

func quoteField(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
