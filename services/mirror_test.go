package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"frtutracker/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sinkRecorder struct {
	mu   sync.Mutex
	errs []error
}

func (s *sinkRecorder) sink(_ models.HistoryLog, err error) {
	s.mu.Lock()
	s.errs = append(s.errs, err)
	s.mu.Unlock()
}

func (s *sinkRecorder) all() []error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]error(nil), s.errs...)
}

func sampleEntry() models.HistoryLog {
	d := models.InitialFRTUs()[0]
	return models.HistoryLog{
		ID:          "log-1",
		FRTUID:      d.ID,
		FRTUSerial:  d.SerialNumber,
		Action:      models.ActionCreate,
		Details:     "เพิ่มอุปกรณ์ใหม่ " + d.SerialNumber,
		OfficerName: "นายสมชาย ใจดี",
		Timestamp:   time.Date(2024, 5, 20, 3, 4, 5, 0, time.UTC),
		Snapshot:    models.SnapshotOf(d),
	}
}

func TestAsyncMirrorDelivers(t *testing.T) {
	received := make(chan models.SheetRecord, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, sampleEntry().ID, r.Header.Get("X-Request-ID"))
		var rec models.SheetRecord
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&rec))
		received <- rec
		w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	sink := &sinkRecorder{}
	m := NewAsyncMirror(MirrorConfig{Endpoint: srv.URL, Sink: sink.sink})
	m.Submit(sampleEntry())

	select {
	case rec := <-received:
		assert.Equal(t, "FRTU-PEA-001", rec.FRTUSerial)
		assert.Equal(t, string(models.ActionCreate), rec.Action)
		assert.Equal(t, "Online", rec.Status)
		assert.Equal(t, "ตรวจสอบประจำปี แบตเตอรี่ปกติ", rec.EventDetails)
	case <-time.After(5 * time.Second):
		t.Fatal("entry was not delivered")
	}

	require.NoError(t, m.Close(context.Background()))
	assert.Empty(t, sink.all())
}

func TestAsyncMirrorReportsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"boom"}`))
	}))
	defer srv.Close()

	sink := &sinkRecorder{}
	m := NewAsyncMirror(MirrorConfig{Endpoint: srv.URL, Sink: sink.sink})
	m.Submit(sampleEntry())
	require.NoError(t, m.Close(context.Background()))

	errs := sink.all()
	require.Len(t, errs, 1)
	var nerr *TransientNetworkError
	require.True(t, errors.As(errs[0], &nerr))
	assert.Contains(t, nerr.Error(), "500")
}

func TestAsyncMirrorUnreachableEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	sink := &sinkRecorder{}
	m := NewAsyncMirror(MirrorConfig{Endpoint: url, Timeout: time.Second, Sink: sink.sink})
	m.Submit(sampleEntry())
	require.NoError(t, m.Close(context.Background()))

	assert.Len(t, sink.all(), 1)
}

func TestAsyncMirrorQueueFull(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()

	sink := &sinkRecorder{}
	m := NewAsyncMirror(MirrorConfig{Endpoint: srv.URL, QueueSize: 1, Sink: sink.sink})

	// one entry in flight, one queued, the rest dropped
	for i := 0; i < 5; i++ {
		m.Submit(sampleEntry())
	}

	close(release)
	require.NoError(t, m.Close(context.Background()))

	var full int
	for _, err := range sink.all() {
		if errors.Is(err, ErrMirrorQueueFull) {
			full++
		}
	}
	assert.GreaterOrEqual(t, full, 3)
}

func TestAsyncMirrorSubmitAfterClose(t *testing.T) {
	sink := &sinkRecorder{}
	m := NewAsyncMirror(MirrorConfig{Endpoint: "http://127.0.0.1:0", Sink: sink.sink})
	require.NoError(t, m.Close(context.Background()))

	m.Submit(sampleEntry())
	errs := sink.all()
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrMirrorClosed)

	// closing twice is harmless
	require.NoError(t, m.Close(context.Background()))
}

func TestAsyncMirrorSurvivesPanickingSink(t *testing.T) {
	m := NewAsyncMirror(MirrorConfig{
		Endpoint: "http://127.0.0.1:0",
		Sink:     func(models.HistoryLog, error) { panic("sink") },
	})
	require.NoError(t, m.Close(context.Background()))

	assert.NotPanics(t, func() { m.Submit(sampleEntry()) })
}
