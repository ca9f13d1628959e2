// Package sheets talks to the Google spreadsheet that mirrors the audit log
// and holds the employee directory.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"frtutracker/models"

	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

const (
	tokenURL         = "https://oauth2.googleapis.com/token"
	spreadsheetScope = "https://www.googleapis.com/auth/spreadsheets"
	placeholder      = "-"
)

// ErrSheetNotFound no sheet in the spreadsheet matches the request.
var ErrSheetNotFound = errors.New("sheet not found")

// ConfigurationError the service account credentials are incomplete.
type ConfigurationError struct {
	Missing []string
}

func (e *ConfigurationError) Error() string {
	return "Server misconfigured: Missing Google Credentials"
}

// AppendHeaders is the column order used when the log sheet has no header row.
var AppendHeaders = []string{
	"Timestamp",
	"Officer",
	"Remote Unit Name",
	"Action",
	"System Details",
	"Event Details",
	"PHOS Data",
	"PHBO Data",
	"Status",
}

// Credentials of the service account.
type Credentials struct {
	Email         string
	PrivateKey    string
	SpreadsheetID string
}

// Configured reports whether both account fields are present.
func (c Credentials) Configured() bool {
	return c.Check() == nil
}

// Check returns a ConfigurationError naming the missing fields.
func (c Credentials) Check() error {
	var missing []string
	if strings.TrimSpace(c.Email) == "" {
		missing = append(missing, "GOOGLE_SERVICE_ACCOUNT_EMAIL")
	}
	if strings.TrimSpace(c.PrivateKey) == "" {
		missing = append(missing, "GOOGLE_PRIVATE_KEY")
	}
	if len(missing) > 0 {
		return &ConfigurationError{Missing: missing}
	}
	return nil
}

// PEM returns the private key with escaped newlines expanded, as it is
// usually stored in a single-line environment variable.
func (c Credentials) PEM() []byte {
	return []byte(strings.ReplaceAll(c.PrivateKey, `\n`, "\n"))
}

// Client is the subset of spreadsheet operations the service needs.
type Client interface {
	SheetTitles(ctx context.Context) ([]string, error)
	HeaderRow(ctx context.Context, title string) ([]string, error)
	AppendRow(ctx context.Context, title string, values []string) error
	ReadColumn(ctx context.Context, title, column string, maxRows int) ([]string, error)
}

// GoogleClient implements Client over the Sheets v4 API.
type GoogleClient struct {
	srv           *gsheets.Service
	spreadsheetID string
}

// NewGoogleClient authenticates with the service account.
func NewGoogleClient(ctx context.Context, creds Credentials) (*GoogleClient, error) {
	if err := creds.Check(); err != nil {
		return nil, err
	}

	cfg := &jwt.Config{
		Email:      creds.Email,
		PrivateKey: creds.PEM(),
		Scopes:     []string{spreadsheetScope},
		TokenURL:   tokenURL,
	}
	return NewClientWithOptions(ctx, creds.SpreadsheetID, option.WithHTTPClient(cfg.Client(ctx)))
}

// NewClientWithOptions builds a client from raw API options.
func NewClientWithOptions(ctx context.Context, spreadsheetID string, opts ...option.ClientOption) (*GoogleClient, error) {
	srv, err := gsheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &GoogleClient{srv: srv, spreadsheetID: spreadsheetID}, nil
}

func (c *GoogleClient) SheetTitles(ctx context.Context) ([]string, error) {
	doc, err := c.srv.Spreadsheets.Get(c.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("load spreadsheet: %w", err)
	}
	titles := make([]string, 0, len(doc.Sheets))
	for _, s := range doc.Sheets {
		if s.Properties != nil {
			titles = append(titles, s.Properties.Title)
		}
	}
	return titles, nil
}

func (c *GoogleClient) HeaderRow(ctx context.Context, title string) ([]string, error) {
	vr, err := c.srv.Spreadsheets.Values.Get(c.spreadsheetID, sheetRange(title, "1:1")).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read header row: %w", err)
	}
	if len(vr.Values) == 0 {
		return nil, nil
	}
	return cellStrings(vr.Values[0]), nil
}

func (c *GoogleClient) AppendRow(ctx context.Context, title string, values []string) error {
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	_, err := c.srv.Spreadsheets.Values.
		Append(c.spreadsheetID, sheetRange(title, "A1"), &gsheets.ValueRange{Values: [][]interface{}{row}}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append row: %w", err)
	}
	return nil
}

func (c *GoogleClient) ReadColumn(ctx context.Context, title, column string, maxRows int) ([]string, error) {
	cells := fmt.Sprintf("%s1:%s%d", column, column, maxRows)
	vr, err := c.srv.Spreadsheets.Values.Get(c.spreadsheetID, sheetRange(title, cells)).
		MajorDimension("COLUMNS").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("read column %s: %w", column, err)
	}
	if len(vr.Values) == 0 {
		return nil, nil
	}
	return cellStrings(vr.Values[0]), nil
}

// ResolveAppendSheet picks preferred when present, otherwise the first sheet.
func ResolveAppendSheet(titles []string, preferred string) (string, error) {
	for _, t := range titles {
		if t == preferred {
			return t, nil
		}
	}
	if len(titles) == 0 {
		return "", ErrSheetNotFound
	}
	return titles[0], nil
}

// HasSheet reports whether title is one of titles.
func HasSheet(titles []string, title string) bool {
	for _, t := range titles {
		if t == title {
			return true
		}
	}
	return false
}

// BuildRow lays out record under the given header. Unknown headers get an
// empty cell; an empty header falls back to AppendHeaders.
func BuildRow(header []string, record models.SheetRecord, timestamp string) []string {
	values := map[string]string{
		"Timestamp":        timestamp,
		"Officer":          record.OfficerName,
		"Remote Unit Name": record.FRTUSerial,
		"Action":           record.Action,
		"System Details":   record.Details,
		"Event Details":    record.EventDetails,
		"PHOS Data":        record.PHOSData,
		"PHBO Data":        record.PHBOData,
		"Status":           record.Status,
	}
	if len(header) == 0 {
		header = AppendHeaders
	}

	row := make([]string, len(header))
	for i, h := range header {
		v, known := values[strings.TrimSpace(h)]
		if !known {
			continue
		}
		if v == "" {
			v = placeholder
		}
		row[i] = v
	}
	return row
}

// CleanNames trims names and drops blanks and header labels.
func CleanNames(values []string, headerLabels []string) []string {
	skip := make(map[string]struct{}, len(headerLabels))
	for _, l := range headerLabels {
		skip[strings.TrimSpace(l)] = struct{}{}
	}

	names := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := skip[v]; ok {
			continue
		}
		names = append(names, v)
	}
	return names
}

func sheetRange(title, cells string) string {
	return fmt.Sprintf("'%s'!%s", strings.ReplaceAll(title, "'", "''"), cells)
}

func cellStrings(row []interface{}) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = fmt.Sprint(v)
	}
	return out
}
