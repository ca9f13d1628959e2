package sheets

import (
	"context"
	"errors"
	"testing"
	"time"

	"frtutracker/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	titles    []string
	header    []string
	column    []string
	appended  map[string][][]string
	titlesErr error
	appendErr error
}

func (f *fakeClient) SheetTitles(context.Context) ([]string, error) {
	return f.titles, f.titlesErr
}

func (f *fakeClient) HeaderRow(context.Context, string) ([]string, error) {
	return f.header, nil
}

func (f *fakeClient) AppendRow(_ context.Context, title string, values []string) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	if f.appended == nil {
		f.appended = map[string][][]string{}
	}
	f.appended[title] = append(f.appended[title], values)
	return nil
}

func (f *fakeClient) ReadColumn(context.Context, string, string, int) ([]string, error) {
	return f.column, nil
}

var testCreds = Credentials{Email: "svc@example.com", PrivateKey: "key", SpreadsheetID: "sheet"}

func newTestGateway(creds Credentials, client *fakeClient) *Gateway {
	g := NewGateway(creds, GatewayConfig{
		LogSheet:       "database",
		DirectorySheet: "รายชื่อพนักงาน",
		HeaderLabels:   []string{"ชื่อ-สกุล"},
	}, func(context.Context) (Client, error) { return client, nil })
	g.now = func() time.Time { return time.Date(2024, 5, 20, 3, 4, 5, 0, time.UTC) }
	return g
}

func TestGatewayAppendLog(t *testing.T) {
	client := &fakeClient{titles: []string{"Sheet1", "database"}}
	g := newTestGateway(testCreds, client)

	err := g.AppendLog(context.Background(), models.SheetRecord{FRTUSerial: "S1", Action: "ทดสอบสัญญาณ"})
	require.NoError(t, err)

	rows := client.appended["database"]
	require.Len(t, rows, 1)
	assert.Len(t, rows[0], len(AppendHeaders))
	assert.NotEmpty(t, rows[0][0])
	assert.Equal(t, "S1", rows[0][2])
	assert.Equal(t, "ทดสอบสัญญาณ", rows[0][3])
}

func TestGatewayAppendLogFallsBackToFirstSheet(t *testing.T) {
	client := &fakeClient{titles: []string{"Sheet1"}}
	g := newTestGateway(testCreds, client)

	require.NoError(t, g.AppendLog(context.Background(), models.SheetRecord{}))
	assert.Len(t, client.appended["Sheet1"], 1)
}

func TestGatewayAppendLogErrors(t *testing.T) {
	err := newTestGateway(Credentials{}, &fakeClient{}).AppendLog(context.Background(), models.SheetRecord{})
	assert.True(t, IsConfigurationError(err))

	err = newTestGateway(testCreds, &fakeClient{}).AppendLog(context.Background(), models.SheetRecord{})
	assert.ErrorIs(t, err, ErrSheetNotFound)

	boom := errors.New("quota exceeded")
	err = newTestGateway(testCreds, &fakeClient{titles: []string{"database"}, appendErr: boom}).
		AppendLog(context.Background(), models.SheetRecord{})
	assert.ErrorIs(t, err, boom)
}

func TestGatewayEmployees(t *testing.T) {
	client := &fakeClient{
		titles: []string{"database", "รายชื่อพนักงาน"},
		column: []string{"ชื่อ-สกุล", "นายสมชาย ใจดี", "", "นายวิชัย รักงาน"},
	}

	names, err := newTestGateway(testCreds, client).Employees(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"นายสมชาย ใจดี", "นายวิชัย รักงาน"}, names)
}

func TestGatewayEmployeesWithoutCredentials(t *testing.T) {
	names, err := newTestGateway(Credentials{}, &fakeClient{}).Employees(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, names)
	assert.Empty(t, names)
}

func TestGatewayEmployeesMissingSheet(t *testing.T) {
	_, err := newTestGateway(testCreds, &fakeClient{titles: []string{"database"}}).Employees(context.Background())
	assert.ErrorIs(t, err, ErrSheetNotFound)
}
